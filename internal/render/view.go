package render

import (
	"html"
	"html/template"
	"slices"
	"strconv"
	"strings"

	"github.com/sportsdataverse/sdvsite/internal/config"
)

// siteView is the per-site part of every page, computed once per Renderer.
type siteView struct {
	Title         string
	Tagline       string
	HomeURL       string
	FaviconURL    string
	SocialImage   string
	CustomCSSURL  string
	ColorMode     string
	SwitchEnabled bool
	RespectPrefs  bool
	PrismLight    string
	PrismDark     string
	Scripts       []scriptView
	Navbar        navbarView
	Footer        footerView
	CopyrightHTML template.HTML
}

type scriptView struct {
	Src   string
	Defer bool
	Attrs []template.HTMLAttr
}

type navbarView struct {
	Title        string
	LogoSrc      string
	LogoAlt      string
	HideOnScroll bool
	Left         []navItemView
	Right        []navItemView
}

// navItemView is a navbar link or, when Items is non-empty, a dropdown.
type navItemView struct {
	Label  string
	Href   string
	Target string
	Rel    string
	Items  []navItemView
}

// IsDropdown reports whether the item opens a submenu.
func (n navItemView) IsDropdown() bool { return len(n.Items) > 0 }

type footerView struct {
	Style   string
	Columns []footerColumnView
}

type footerColumnView struct {
	Title string
	Items []navItemView
}

func newSiteView(cfg *config.SiteConfig, year int) siteView {
	v := siteView{
		Title:         cfg.Title,
		Tagline:       cfg.Tagline,
		HomeURL:       cfg.ResolvePath("/"),
		FaviconURL:    cfg.ResolvePath(cfg.Favicon),
		ColorMode:     string(cfg.Theme.ColorMode),
		SwitchEnabled: cfg.Theme.SwitchEnabled(),
		RespectPrefs:  cfg.Theme.RespectPrefersColorScheme,
		PrismLight:    cfg.CodeHighlight.Light,
		PrismDark:     cfg.CodeHighlight.Dark,
		Navbar:        newNavbarView(cfg),
		Footer:        newFooterView(cfg),
		// Copyright is trusted site configuration.
		CopyrightHTML: template.HTML(strings.ReplaceAll(cfg.Footer.CopyrightHTML, "{year}", strconv.Itoa(year))), //nolint:gosec // authored HTML
	}
	if cfg.SocialImage != "" {
		v.SocialImage = cfg.CanonicalURL(cfg.SocialImage)
	}
	if cfg.Docs.CustomCSS != "" {
		v.CustomCSSURL = cfg.ResolvePath(CustomCSSPath)
	}
	for _, s := range cfg.Scripts {
		v.Scripts = append(v.Scripts, newScriptView(cfg, s))
	}
	return v
}

// newScriptView pre-renders attributes in sorted name order; html/template
// refuses dynamic attribute names containing '-'.
func newScriptView(cfg *config.SiteConfig, s config.ExternalScript) scriptView {
	names := make([]string, 0, len(s.Attributes))
	for name := range s.Attributes {
		names = append(names, name)
	}
	slices.Sort(names)

	sv := scriptView{Src: cfg.ResolvePath(s.SourceURL), Defer: s.Defer}
	for _, name := range names {
		attr := html.EscapeString(strings.ToLower(name)) + `="` + html.EscapeString(s.Attributes[name]) + `"`
		sv.Attrs = append(sv.Attrs, template.HTMLAttr(attr)) //nolint:gosec // escaped above
	}
	return sv
}

func newNavbarView(cfg *config.SiteConfig) navbarView {
	nv := navbarView{
		Title:        cfg.Navbar.Title,
		LogoAlt:      cfg.Navbar.Logo.Alt,
		HideOnScroll: cfg.Navbar.HideOnScroll,
	}
	if cfg.Navbar.Logo.Src != "" {
		nv.LogoSrc = cfg.ResolvePath(cfg.Navbar.Logo.Src)
	}
	for _, entry := range cfg.Navbar.Entries {
		var item navItemView
		switch e := entry.(type) {
		case *config.NavLink:
			item = linkView(e.Label, cfg.NavLinkTarget(e), e.LinkItem)
		case *config.SubMenu:
			item = navItemView{Label: e.Label, Href: "#"}
			for _, sub := range e.Items {
				item.Items = append(item.Items, linkView(sub.Label, cfg.LinkTarget(sub), sub))
			}
		default:
			continue
		}
		if entry.EntryPosition() == "right" {
			nv.Right = append(nv.Right, item)
		} else {
			nv.Left = append(nv.Left, item)
		}
	}
	return nv
}

func newFooterView(cfg *config.SiteConfig) footerView {
	fv := footerView{Style: string(cfg.Footer.Style)}
	for _, col := range cfg.Footer.Columns {
		cv := footerColumnView{Title: col.Title}
		for _, item := range col.Items {
			cv.Items = append(cv.Items, linkView(item.Label, cfg.LinkTarget(item), item))
		}
		fv.Columns = append(fv.Columns, cv)
	}
	return fv
}

func linkView(label, href string, l config.LinkItem) navItemView {
	v := navItemView{Label: label, Href: href, Target: "_self"}
	if !l.OpenInSameTab() {
		v.Target = "_blank"
		v.Rel = "noopener noreferrer"
	}
	return v
}
