package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportsdataverse/sdvsite/internal/config"
	"github.com/sportsdataverse/sdvsite/internal/homepage"
)

func fixedClock() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

func renderHome(t *testing.T, cfg *config.SiteConfig) string {
	t.Helper()
	r, err := New(cfg, WithClock(fixedClock))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.RenderHome(&buf, homepage.NewPage(cfg, homepage.DefaultFeatures())))
	return buf.String()
}

// assertOrdered checks that each needle occurs in out after the previous one.
func assertOrdered(t *testing.T, out string, needles ...string) {
	t.Helper()
	last := -1
	for _, n := range needles {
		i := strings.Index(out, n)
		require.GreaterOrEqual(t, i, 0, "missing %q", n)
		assert.Greater(t, i, last, "%q out of order", n)
		last = i
	}
}

func TestRenderHome_HeadAndTheme(t *testing.T) {
	out := renderHome(t, config.Default())

	assert.Contains(t, out, `<html lang="en" data-theme="light" data-color-mode-switch data-respect-prefers-color-scheme>`)
	assert.Contains(t, out, "<title>sdv-py</title>")
	assert.Contains(t, out, `<link rel="icon" href="/img/favicon.ico">`)
	assert.Contains(t, out, `<meta property="og:image" content="https://sportsdataverse-py.sportsdataverse.org/img/Sportsdataverse_gh.png">`)
	assert.Contains(t, out, `<link rel="stylesheet" href="/css/custom.css">`)
	assert.Contains(t, out, `data-prism-theme="github" data-prism-dark-theme="dracula"`)
}

func TestRenderHome_Scripts(t *testing.T) {
	cfg := config.Default()
	cfg.Scripts = append(cfg.Scripts, config.ExternalScript{
		SourceURL:  "/js/extra.js",
		Attributes: map[string]string{"data-b": "2", "data-a": `x"y`},
	})
	out := renderHome(t, cfg)

	assertOrdered(t, out,
		`<script src="https://plausible.io/js/plausible.js" defer data-domain="sportsdataverse-py.sportsdataverse.org"></script>`,
		`<script src="/js/extra.js" data-a="x&#34;y" data-b="2"></script>`,
	)
}

func TestRenderHome_NavbarOrderAndTargets(t *testing.T) {
	out := renderHome(t, config.Default())

	assert.Contains(t, out, `<nav class="navbar navbar--hideable">`)
	assertOrdered(t, out, ">Docs</a>", ">News</a>", ">SDV</a>", ">SportsDataverse</a>", ">Python Packages</a>", ">R Packages</a>", ">nfl-nerd</a>", ">GitHub</a>")

	assert.Contains(t, out, `href="/docs/intro" target="_self">Docs</a>`)
	assert.Contains(t, out, `href="/CHANGELOG" target="_self">News</a>`)
	assert.Contains(t, out, `href="https://sportsdataverse.org" target="_self">SportsDataverse</a>`)
	assert.Contains(t, out, `href="https://r.sportsdataverse.org/" target="_blank" rel="noopener noreferrer">R Packages</a>`)

	right := out[strings.Index(out, "navbar__items--right"):]
	assert.Contains(t, right, ">GitHub</a>")
	assert.NotContains(t, right, ">Docs</a>")
}

func TestRenderHome_HeroAndFeatures(t *testing.T) {
	out := renderHome(t, config.Default())

	assert.Contains(t, out, `<h1 class="hero__title">sdv-py</h1>`)
	assert.Contains(t, out, `href="/docs/intro">Getting Started</a>`)
	assertOrdered(t, out, `id="college-football"`, `id="epa-and-wpa"`, `id="nfl"`)
	assert.NotContains(t, out, "feature__image", "default features carry no image")
}

func TestRenderHome_FeatureImage(t *testing.T) {
	cfg := config.Default()
	cfg.BaseURL = "/sdv/"
	r, err := New(cfg, WithClock(fixedClock))
	require.NoError(t, err)

	page := homepage.NewPage(cfg, []homepage.FeatureRecord{{Title: "NFL", Description: "x", ImagePath: "img/nfl.svg"}})
	var buf bytes.Buffer
	require.NoError(t, r.RenderHome(&buf, page))

	assert.Contains(t, buf.String(), `<img class="feature__image" src="/sdv/img/nfl.svg" alt="NFL">`)
	assert.Contains(t, buf.String(), `href="/sdv/docs/intro">Getting Started</a>`)
}

func TestRenderHome_Footer(t *testing.T) {
	out := renderHome(t, config.Default())

	assert.Contains(t, out, `<footer class="footer footer--dark">`)
	assertOrdered(t, out, `<div class="footer__title">Docs</div>`, `<div class="footer__title">Community</div>`, `<div class="footer__title">More</div>`)
	assert.Contains(t, out, "Copyright © 2026 <strong>sportsdataverse-py</strong>")
	assert.NotContains(t, out, "{year}")
}

func TestRenderDoc(t *testing.T) {
	cfg := config.Default()
	r, err := New(cfg, WithClock(fixedClock))
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.RenderDoc(&buf, DocPage{
		Route:      "/docs/intro",
		SourcePath: "intro.md",
		Title:      "Intro <1>",
		Content:    "<p>Hello</p>",
	})
	require.NoError(t, err)
	out := buf.String()

	assert.Contains(t, out, "<title>Intro &lt;1&gt; | sdv-py</title>")
	assert.Contains(t, out, `<link rel="canonical" href="https://sportsdataverse-py.sportsdataverse.org/docs/intro">`)
	assert.Contains(t, out, "<p>Hello</p>")
	assert.Contains(t, out, `href="https://github.com/sportsdataverse/sportsdataverse-py/edit/master/docs/intro.md"`)
	assert.NotContains(t, out, "hero__title")
}

func TestRender_DisabledSwitchAndLightFooter(t *testing.T) {
	cfg := config.Default()
	cfg.Theme.DisableSwitch = true
	cfg.Theme.RespectPrefersColorScheme = false
	cfg.Footer.Style = config.FooterStyleLight
	cfg.Navbar.HideOnScroll = false
	out := renderHome(t, cfg)

	assert.Contains(t, out, `<html lang="en" data-theme="light">`)
	assert.Contains(t, out, `<footer class="footer footer--light">`)
	assert.Contains(t, out, `<nav class="navbar">`)
}
