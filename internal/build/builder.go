package build

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sportsdataverse/sdvsite/internal/config"
	"github.com/sportsdataverse/sdvsite/internal/docs"
	derrors "github.com/sportsdataverse/sdvsite/internal/foundation/errors"
	"github.com/sportsdataverse/sdvsite/internal/homepage"
	"github.com/sportsdataverse/sdvsite/internal/linkcheck"
	"github.com/sportsdataverse/sdvsite/internal/logfields"
	"github.com/sportsdataverse/sdvsite/internal/metrics"
	"github.com/sportsdataverse/sdvsite/internal/notify"
	"github.com/sportsdataverse/sdvsite/internal/observability"
	"github.com/sportsdataverse/sdvsite/internal/render"
	"github.com/sportsdataverse/sdvsite/internal/workspace"
)

// Stage names a step of the build.
type Stage string

const (
	StageDiscoverDocs       Stage = "discover_docs"
	StageCheckMarkdownLinks Stage = "check_markdown_links"
	StageRenderHome         Stage = "render_home"
	StageRenderDocs         Stage = "render_docs"
	StageCopyAssets         Stage = "copy_assets"
	StageCheckLinks         Stage = "check_links"
	StagePublish            Stage = "publish"
)

// Builder renders a site. A Builder may run many builds but not
// concurrently.
type Builder struct {
	cfg        *config.SiteConfig
	root       string
	features   []homepage.FeatureRecord
	recorder   metrics.Recorder
	publisher  notify.Publisher
	renderOpts []render.Option
	newID      func() string
}

// Option configures a Builder.
type Option func(*Builder)

// WithRoot sets the directory that relative docs, static and output paths
// are resolved against. Defaults to the working directory.
func WithRoot(dir string) Option {
	return func(b *Builder) { b.root = dir }
}

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) {
		if r != nil {
			b.recorder = r
		}
	}
}

// WithPublisher injects a broken-link event publisher.
func WithPublisher(p notify.Publisher) Option {
	return func(b *Builder) {
		if p != nil {
			b.publisher = p
		}
	}
}

// WithFeatures replaces the homepage feature list.
func WithFeatures(records []homepage.FeatureRecord) Option {
	return func(b *Builder) { b.features = records }
}

// WithRenderOptions passes options through to the page renderer.
func WithRenderOptions(opts ...render.Option) Option {
	return func(b *Builder) { b.renderOpts = append(b.renderOpts, opts...) }
}

// New creates a Builder for cfg.
func New(cfg *config.SiteConfig, opts ...Option) *Builder {
	b := &Builder{
		cfg:       cfg,
		root:      ".",
		features:  homepage.DefaultFeatures(),
		recorder:  metrics.NoopRecorder{},
		publisher: notify.NoopPublisher{},
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// OutputDir returns the resolved output directory.
func (b *Builder) OutputDir() string { return b.resolve(b.cfg.Output.Directory) }

func (b *Builder) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(b.root, p)
}

// run holds the state of one build.
type run struct {
	report   *Report
	dest     string
	pages    []*docs.Page
	renderer *render.Renderer
}

// Run executes a build. The returned report is non-nil even when the build
// fails. The report file is written only when the build publishes.
func (b *Builder) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	if b.cfg == nil {
		return &Report{Status: StatusFailed, StartTime: start, EndTime: start}, derrors.ConfigError("config required").Build()
	}
	report := &Report{
		BuildID:   b.newID(),
		Site:      b.cfg.Title,
		StartTime: start,
		OutputDir: b.OutputDir(),
		Pages:     []string{},
	}
	ctx = observability.WithBuildID(ctx, report.BuildID)

	if rev, err := gitRevision(b.root); err == nil {
		report.Revision = rev
	} else {
		observability.DebugContext(ctx, "No git revision for build", logfields.Error(err))
	}
	observability.InfoContext(ctx, "Build started", logfields.Path(report.OutputDir))

	err := b.execute(ctx, report)
	b.finish(ctx, report, start, err)
	return report, err
}

func (b *Builder) execute(ctx context.Context, report *Report) error {
	renderer, err := render.New(b.cfg, b.renderOpts...)
	if err != nil {
		return err
	}
	r := &run{report: report, renderer: renderer}

	out := b.OutputDir()
	var ws *workspace.Manager
	if b.cfg.Output.Clean {
		ws = workspace.NewManager(filepath.Dir(out))
		if err := ws.Create(); err != nil {
			return derrors.WrapError(err, derrors.CategoryFileSystem, "create staging directory").Build()
		}
		defer func() {
			if err := ws.Cleanup(); err != nil {
				observability.WarnContext(ctx, "Staging cleanup failed", logfields.Error(err))
			}
		}()
		r.dest = ws.GetPath()
	} else {
		if err := os.MkdirAll(out, 0o750); err != nil {
			return derrors.WrapError(err, derrors.CategoryFileSystem, "create output directory").WithContext("path", out).Build()
		}
		r.dest = out
	}

	stages := []struct {
		name Stage
		fn   func(context.Context, *run) error
	}{
		{StageDiscoverDocs, b.discoverDocs},
		{StageCheckMarkdownLinks, b.checkMarkdownLinks},
		{StageRenderHome, b.renderHome},
		{StageRenderDocs, b.renderDocs},
		{StageCopyAssets, b.copyAssets},
		{StageCheckLinks, b.checkLinks},
		{StagePublish, func(ctx context.Context, r *run) error { return b.publish(ctx, r, ws, out) }},
	}
	for _, s := range stages {
		if err := b.stage(ctx, r, s.name, s.fn); err != nil {
			return err
		}
	}
	return nil
}

// stage runs fn with timing, metrics and stage-scoped logging.
func (b *Builder) stage(ctx context.Context, r *run, name Stage, fn func(context.Context, *run) error) error {
	if err := ctx.Err(); err != nil {
		b.recorder.IncStageResult(string(name), metrics.ResultCanceled)
		return err
	}
	ctx = observability.WithStage(ctx, string(name))
	warningsBefore := len(r.report.Warnings)

	start := time.Now()
	err := fn(ctx, r)
	d := time.Since(start)

	b.recorder.ObserveStageDuration(string(name), d)
	r.report.Stages = append(r.report.Stages, StageTiming{Name: name, DurationMS: d.Milliseconds()})
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		b.recorder.IncStageResult(string(name), metrics.ResultCanceled)
	case err != nil:
		b.recorder.IncStageResult(string(name), metrics.ResultFatal)
		observability.ErrorContext(ctx, "Stage failed", logfields.Error(err))
	case len(r.report.Warnings) > warningsBefore:
		b.recorder.IncStageResult(string(name), metrics.ResultWarning)
	default:
		b.recorder.IncStageResult(string(name), metrics.ResultSuccess)
	}
	observability.DebugContext(ctx, "Stage finished", logfields.DurationMS(float64(d.Microseconds())/1000))
	return err
}

func (b *Builder) discoverDocs(ctx context.Context, r *run) error {
	filter, err := docs.NewFilter(b.cfg.Docs.Exclude)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryConfig, "invalid docs.exclude pattern").Fatal().Build()
	}
	pages, err := docs.Discover(b.resolve(b.cfg.Docs.Dir), filter)
	if err != nil {
		return err
	}
	seen := map[string]string{"/": "homepage"}
	for _, p := range pages {
		for _, route := range p.Routes() {
			if prev, dup := seen[route]; dup {
				return derrors.NewError(derrors.CategoryDocs, "two pages share a route").
					WithContext("route", route).
					WithContext("pages", []string{prev, p.RelPath}).
					Build()
			}
			seen[route] = p.RelPath
		}
	}
	r.pages = pages
	observability.InfoContext(ctx, "Docs discovered", logfields.Count(len(pages)))
	return nil
}

func (b *Builder) checkMarkdownLinks(_ context.Context, r *run) error {
	findings := linkcheck.CheckMarkdown(r.pages)
	return b.enforce(r, linkcheck.KindMarkdown, b.cfg.OnBrokenMarkdownLinks, findings)
}

func (b *Builder) renderHome(_ context.Context, r *run) error {
	var buf bytes.Buffer
	if err := r.renderer.RenderHome(&buf, homepage.NewPage(b.cfg, b.features)); err != nil {
		return err
	}
	return b.writePage(r, "/", buf.Bytes())
}

func (b *Builder) renderDocs(ctx context.Context, r *run) error {
	conv := docs.NewConverter(docs.RouteIndex(r.pages), b.cfg.ResolvePath)
	for _, p := range r.pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		content, err := conv.Convert(p)
		if err != nil {
			return derrors.WrapError(err, derrors.CategoryRender, "convert markdown").WithContext("path", p.RelPath).Build()
		}
		var buf bytes.Buffer
		err = r.renderer.RenderDoc(&buf, render.DocPage{
			Route:       p.Route,
			SourcePath:  p.RelPath,
			Title:       p.Title,
			Description: p.Meta.Description,
			Content:     content,
		})
		if err != nil {
			return err
		}
		for _, route := range p.Routes() {
			if err := b.writePage(r, route, buf.Bytes()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Builder) writePage(r *run, route string, data []byte) error {
	if rel := strings.Trim(route, "/"); rel != "" && !filepath.IsLocal(filepath.FromSlash(rel)) {
		return derrors.NewError(derrors.CategoryDocs, "page route escapes the output directory").
			WithContext("route", route).
			Build()
	}
	name := pageFile(r.dest, route)
	if err := writeFile(name, data); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "write page").WithContext("path", name).Build()
	}
	r.report.Pages = append(r.report.Pages, route)
	return nil
}

func (b *Builder) copyAssets(ctx context.Context, r *run) error {
	static := b.resolve(b.cfg.Docs.StaticDir)
	n, err := copyTree(static, r.dest)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "copy static assets").WithContext("path", static).Build()
	}
	if css := b.cfg.Docs.CustomCSS; css != "" {
		src := b.resolve(css)
		dst := filepath.Join(r.dest, filepath.FromSlash(strings.TrimPrefix(render.CustomCSSPath, "/")))
		switch err := copyFile(src, dst); {
		case os.IsNotExist(err):
			msg := "custom stylesheet not found: " + css
			r.report.Warnings = append(r.report.Warnings, msg)
			observability.WarnContext(ctx, "Custom stylesheet not found", logfields.Path(src))
		case err != nil:
			return derrors.WrapError(err, derrors.CategoryFileSystem, "copy custom stylesheet").WithContext("path", src).Build()
		default:
			n++
		}
	}
	observability.DebugContext(ctx, "Assets copied", logfields.Count(n))
	return nil
}

func (b *Builder) checkLinks(ctx context.Context, r *run) error {
	files, err := siteFiles(r.dest)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "list site files").Build()
	}
	checker := linkcheck.NewChecker(b.cfg.URL)
	for _, f := range files {
		checker.Add(b.cfg.ResolvePath("/" + f))
	}

	var findings []linkcheck.Finding
	for _, f := range files {
		if !strings.HasSuffix(f, ".html") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fh, err := os.Open(filepath.Join(r.dest, filepath.FromSlash(f))) //nolint:gosec // below the staging directory
		if err != nil {
			return derrors.WrapError(err, derrors.CategoryFileSystem, "open page").WithContext("path", f).Build()
		}
		found, err := checker.CheckHTML(b.cfg.ResolvePath(servedPath(f)), fh)
		_ = fh.Close()
		if err != nil {
			return err
		}
		findings = append(findings, found...)
	}
	return b.enforce(r, linkcheck.KindHTML, b.cfg.OnBrokenLinks, findings)
}

func (b *Builder) enforce(r *run, kind linkcheck.Kind, policy config.BrokenLinkPolicy, findings []linkcheck.Finding) error {
	b.recorder.AddBrokenLinks(string(kind), len(findings))
	r.report.Findings = append(r.report.Findings, findings...)

	outcome, err := linkcheck.Enforce(kind, policy, findings, slog.Default().With(logfields.BuildID(r.report.BuildID)))
	r.report.LinkChecks = append(r.report.LinkChecks, outcome)
	r.report.Warnings = append(r.report.Warnings, outcome.Warnings...)
	return err
}

func (b *Builder) publish(ctx context.Context, r *run, ws *workspace.Manager, out string) error {
	target := r.dest
	if ws != nil {
		if err := ws.Publish(out); err != nil {
			return derrors.WrapError(err, derrors.CategoryFileSystem, "publish site").WithContext("path", out).Build()
		}
		target = out
	}
	b.recorder.SetPagesRendered(len(r.report.Pages))

	// The report is completed in finish; write a snapshot with the final
	// status now so the published tree is self-describing.
	snapshot := *r.report
	snapshot.Status = StatusSuccess
	if len(r.report.Warnings) > 0 {
		snapshot.Status = StatusWarning
	}
	snapshot.EndTime = time.Now()
	snapshot.DurationMS = snapshot.EndTime.Sub(snapshot.StartTime).Milliseconds()
	if err := snapshot.write(target); err != nil {
		return err
	}
	observability.InfoContext(ctx, "Site published", logfields.Path(out), logfields.Count(len(r.report.Pages)))
	b.notifyBrokenLinks(ctx, r.report)
	return nil
}

// notifyBrokenLinks publishes every finding. Publishing failures are logged
// and never fail the build.
func (b *Builder) notifyBrokenLinks(ctx context.Context, report *Report) {
	if len(report.Findings) == 0 {
		return
	}
	policies := map[linkcheck.Kind]string{
		linkcheck.KindHTML:     string(b.cfg.OnBrokenLinks),
		linkcheck.KindMarkdown: string(b.cfg.OnBrokenMarkdownLinks),
	}
	events := make([]notify.BrokenLinkEvent, 0, len(report.Findings))
	for _, f := range report.Findings {
		events = append(events, notify.BrokenLinkEvent{
			BuildID: report.BuildID,
			Site:    b.cfg.URL,
			Kind:    string(f.Kind),
			Source:  f.Source,
			Link:    f.Link,
			Target:  f.Target,
			Policy:  policies[f.Kind],
		})
	}
	if err := b.publisher.PublishBrokenLinks(ctx, events); err != nil {
		observability.WarnContext(ctx, "Failed to publish broken link events", logfields.Error(err))
	}
}

func (b *Builder) finish(ctx context.Context, report *Report, start time.Time, err error) {
	report.EndTime = time.Now()
	d := report.EndTime.Sub(start)
	report.DurationMS = d.Milliseconds()

	var outcome metrics.BuildOutcomeLabel
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		report.Status = StatusCanceled
		outcome = metrics.BuildOutcomeCanceled
	case err != nil:
		report.Status = StatusFailed
		outcome = metrics.BuildOutcomeFailed
	case len(report.Warnings) > 0:
		report.Status = StatusWarning
		outcome = metrics.BuildOutcomeWarning
	default:
		report.Status = StatusSuccess
		outcome = metrics.BuildOutcomeSuccess
	}
	if err != nil {
		report.Error = err.Error()
	}
	b.recorder.ObserveBuildDuration(d)
	b.recorder.IncBuildOutcome(outcome)

	attrs := []slog.Attr{slog.String("status", string(report.Status)), logfields.DurationMS(float64(d.Microseconds()) / 1000)}
	if err != nil {
		observability.ErrorContext(ctx, "Build finished", append(attrs, logfields.Error(err))...)
		return
	}
	observability.InfoContext(ctx, "Build finished", append(attrs, logfields.Count(len(report.Pages)))...)
}
