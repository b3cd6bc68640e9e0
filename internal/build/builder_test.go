package build

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportsdataverse/sdvsite/internal/config"
	derrors "github.com/sportsdataverse/sdvsite/internal/foundation/errors"
	"github.com/sportsdataverse/sdvsite/internal/linkcheck"
	"github.com/sportsdataverse/sdvsite/internal/metrics"
	"github.com/sportsdataverse/sdvsite/internal/notify"
)

const siteYAML = `
version: "1"
title: sdv-py
tagline: Sports data for Python
url: https://sportsdataverse-py.sportsdataverse.org
navbar:
  items:
    - label: Docs
      doc_id: intro
      position: left
    - label: News
      to: /CHANGELOG
    - label: GitHub
      href: https://github.com/sportsdataverse/sportsdataverse-py/
      position: right
footer:
  links:
    - title: Docs
      items:
        - label: Docs
          to: /docs/intro
`

type fakeRecorder struct {
	mu           sync.Mutex
	stageResults map[string]metrics.ResultLabel
	outcomes     []metrics.BuildOutcomeLabel
	broken       map[string]int
	pages        int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{stageResults: map[string]metrics.ResultLabel{}, broken: map[string]int{}}
}

func (f *fakeRecorder) ObserveStageDuration(string, time.Duration) {}
func (f *fakeRecorder) ObserveBuildDuration(time.Duration)         {}
func (f *fakeRecorder) IncStageResult(stage string, result metrics.ResultLabel) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stageResults[stage] = result
}
func (f *fakeRecorder) IncBuildOutcome(o metrics.BuildOutcomeLabel) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, o)
}
func (f *fakeRecorder) AddBrokenLinks(kind string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broken[kind] += n
}
func (f *fakeRecorder) SetPagesRendered(n int) { f.pages = n }

type fakePublisher struct {
	events []notify.BrokenLinkEvent
}

func (f *fakePublisher) PublishBrokenLinks(_ context.Context, events []notify.BrokenLinkEvent) error {
	f.events = append(f.events, events...)
	return nil
}
func (f *fakePublisher) Close() error { return nil }

// newSite writes a project with the given docs files below a temp root.
func newSite(t *testing.T, files map[string]string) (string, *config.SiteConfig) {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	cfg, err := config.Parse([]byte(siteYAML))
	require.NoError(t, err)
	return root, cfg
}

func baseFiles() map[string]string {
	return map[string]string{
		"docs/intro.md":      "---\ntitle: Introduction\n---\n\nStart with [college football](guides/cfb.md).\n",
		"docs/guides/cfb.md": "# College Football\n\nBack to [intro](../intro.md#setup).\n",
		"docs/CHANGELOG.md":  "# Changelog\n\n- 0.0.1\n",
		"docs/_drafts/x.md":  "# Draft\n",
		"static/img/logo.png": "png",
	}
}

func TestRun_Success(t *testing.T) {
	root, cfg := newSite(t, baseFiles())
	rec := newFakeRecorder()
	b := New(cfg, WithRoot(root), WithRecorder(rec))
	b.newID = func() string { return "build-1" }

	report, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, report.Status)
	assert.Empty(t, report.Warnings)
	assert.Empty(t, report.Findings)

	out := filepath.Join(root, "build")
	for _, f := range []string{
		"index.html",
		"docs/intro/index.html",
		"docs/guides/cfb/index.html",
		"docs/CHANGELOG/index.html",
		"CHANGELOG/index.html",
		"img/logo.png",
		ReportFile,
	} {
		assert.FileExists(t, filepath.Join(out, filepath.FromSlash(f)))
	}
	assert.NoDirExists(t, filepath.Join(out, "docs", "_drafts"))

	intro, err := os.ReadFile(filepath.Join(out, "docs", "intro", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(intro), `href="/docs/guides/cfb"`)
	assert.Contains(t, string(intro), "<title>Introduction | sdv-py</title>")

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".sdvsite-staging-"), "staging dir left behind: %s", e.Name())
	}

	saved, err := ReadReport(out)
	require.NoError(t, err)
	assert.Equal(t, "build-1", saved.BuildID)
	assert.Equal(t, StatusSuccess, saved.Status)
	assert.ElementsMatch(t, []string{"/", "/docs/CHANGELOG", "/CHANGELOG", "/docs/guides/cfb", "/docs/intro"}, saved.Pages)

	var stages []Stage
	for _, s := range report.Stages {
		stages = append(stages, s.Name)
	}
	assert.Equal(t, []Stage{
		StageDiscoverDocs, StageCheckMarkdownLinks, StageRenderHome, StageRenderDocs,
		StageCopyAssets, StageCheckLinks, StagePublish,
	}, stages)

	assert.Equal(t, []metrics.BuildOutcomeLabel{metrics.BuildOutcomeSuccess}, rec.outcomes)
	assert.Equal(t, metrics.ResultSuccess, rec.stageResults[string(StagePublish)])
	assert.Equal(t, 5, rec.pages)
}

func TestRun_BrokenLinkPolicy(t *testing.T) {
	files := baseFiles()
	files["docs/intro.md"] = "# Intro\n\nSee [gone](/docs/nowhere).\n"

	t.Run("throw fails and publishes nothing", func(t *testing.T) {
		root, cfg := newSite(t, files)
		cfg.OnBrokenLinks = config.BrokenLinkThrow
		rec := newFakeRecorder()

		report, err := New(cfg, WithRoot(root), WithRecorder(rec)).Run(context.Background())
		require.Error(t, err)
		assert.True(t, derrors.HasCategory(err, derrors.CategoryLinks))
		assert.Equal(t, StatusFailed, report.Status)
		require.Len(t, report.Findings, 1)
		assert.Equal(t, "/docs/nowhere", report.Findings[0].Link)
		assert.Equal(t, "/docs/intro/", report.Findings[0].Source)

		assert.NoDirExists(t, filepath.Join(root, "build"))
		assert.Equal(t, metrics.ResultFatal, rec.stageResults[string(StageCheckLinks)])
		assert.Equal(t, []metrics.BuildOutcomeLabel{metrics.BuildOutcomeFailed}, rec.outcomes)
		assert.Equal(t, 1, rec.broken[string(linkcheck.KindHTML)])
	})

	t.Run("warn records a warning and continues", func(t *testing.T) {
		root, cfg := newSite(t, files)
		cfg.OnBrokenLinks = config.BrokenLinkWarn
		pub := &fakePublisher{}

		report, err := New(cfg, WithRoot(root), WithPublisher(pub)).Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, StatusWarning, report.Status)
		require.Len(t, report.Warnings, 1)
		assert.Contains(t, report.Warnings[0], "/docs/nowhere")
		assert.FileExists(t, filepath.Join(root, "build", ReportFile))

		require.Len(t, pub.events, 1)
		assert.Equal(t, "link", pub.events[0].Kind)
		assert.Equal(t, "warn", pub.events[0].Policy)
		assert.Equal(t, report.BuildID, pub.events[0].BuildID)
	})

	t.Run("ignore", func(t *testing.T) {
		root, cfg := newSite(t, files)
		cfg.OnBrokenLinks = config.BrokenLinkIgnore

		report, err := New(cfg, WithRoot(root)).Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, StatusSuccess, report.Status)
		assert.Len(t, report.Findings, 1)
	})
}

func TestRun_BrokenMarkdownLink(t *testing.T) {
	files := baseFiles()
	files["docs/intro.md"] = "# Intro\n\nSee [missing](missing.md).\n"

	root, cfg := newSite(t, files)
	report, err := New(cfg, WithRoot(root)).Run(context.Background())
	require.NoError(t, err, "markdown links default to warn and the page link check skips .md targets")
	assert.Equal(t, StatusWarning, report.Status)
	require.Len(t, report.Findings, 1)
	assert.Equal(t, linkcheck.KindMarkdown, report.Findings[0].Kind)

	root, cfg = newSite(t, files)
	cfg.OnBrokenMarkdownLinks = config.BrokenLinkThrow
	_, err = New(cfg, WithRoot(root)).Run(context.Background())
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryLinks))
}

func TestRun_Canceled(t *testing.T) {
	root, cfg := newSite(t, baseFiles())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := New(cfg, WithRoot(root)).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StatusCanceled, report.Status)
	assert.NoDirExists(t, filepath.Join(root, "build"))
}

func TestRun_DuplicateRoute(t *testing.T) {
	files := baseFiles()
	files["docs/other.md"] = "---\nslug: /docs/intro\n---\n# Other\n"

	root, cfg := newSite(t, files)
	_, err := New(cfg, WithRoot(root)).Run(context.Background())
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryDocs))
}

func TestRun_SlugOutsideOutputRejected(t *testing.T) {
	for name, clean := range map[string]bool{"staged": true, "in place": false} {
		t.Run(name, func(t *testing.T) {
			files := baseFiles()
			files["docs/escape.md"] = "---\nslug: ../../escaped\n---\n# Escape\n"

			root, cfg := newSite(t, files)
			cfg.Output.Directory = "site/out"
			cfg.Output.Clean = clean

			_, err := New(cfg, WithRoot(root)).Run(context.Background())
			require.Error(t, err)
			assert.True(t, derrors.HasCategory(err, derrors.CategoryDocs))
			assert.NoFileExists(t, filepath.Join(root, "escaped", "index.html"))
			assert.NoFileExists(t, filepath.Join(root, "site", "escaped", "index.html"))
		})
	}
}

func TestRun_NoCleanKeepsExistingFiles(t *testing.T) {
	files := baseFiles()
	files["build/keep.txt"] = "keep"

	root, cfg := newSite(t, files)
	cfg.Output.Clean = false

	_, err := New(cfg, WithRoot(root)).Run(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "build", "keep.txt"))
	assert.FileExists(t, filepath.Join(root, "build", "index.html"))
}

func TestRun_CleanReplacesOutput(t *testing.T) {
	files := baseFiles()
	files["build/stale.html"] = "old"

	root, cfg := newSite(t, files)
	_, err := New(cfg, WithRoot(root)).Run(context.Background())
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(root, "build", "stale.html"))
}

func TestRun_MissingCustomCSSWarns(t *testing.T) {
	root, cfg := newSite(t, baseFiles())
	cfg.Docs.CustomCSS = "src/css/custom.css"

	report, err := New(cfg, WithRoot(root)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusWarning, report.Status)
	assert.Contains(t, report.Warnings, "custom stylesheet not found: src/css/custom.css")
}

func TestRun_CopiesCustomCSS(t *testing.T) {
	files := baseFiles()
	files["src/css/custom.css"] = "body{}"
	root, cfg := newSite(t, files)
	cfg.Docs.CustomCSS = "src/css/custom.css"

	report, err := New(cfg, WithRoot(root)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, report.Status)
	assert.FileExists(t, filepath.Join(root, "build", "css", "custom.css"))
}

func TestRun_NilConfig(t *testing.T) {
	report, err := New(nil).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StatusFailed, report.Status)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryConfig))
}
