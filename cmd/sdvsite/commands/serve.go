package commands

import (
	"context"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/sportsdataverse/sdvsite/internal/build"
	"github.com/sportsdataverse/sdvsite/internal/config"
	"github.com/sportsdataverse/sdvsite/internal/metrics"
	"github.com/sportsdataverse/sdvsite/internal/preview"
)

// ServeCmd builds the site, serves it and rebuilds when sources change.
type ServeCmd struct {
	Addr     string        `name:"addr" default:"127.0.0.1:3000" help:"Listen address."`
	Output   string        `short:"o" help:"Override output.directory"`
	Interval time.Duration `name:"interval" default:"0s" help:"Rebuild periodically at this interval (0 disables)."`
	Debounce time.Duration `name:"debounce" default:"300ms" help:"Quiet period after a change before rebuilding."`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv, err := s.newServer(root.Config)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

// newServer loads the configuration once to find the paths to watch. Every
// rebuild reloads it, so edits to the config file take effect on save.
func (s *ServeCmd) newServer(configPath string) (*preview.Server, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	overrides := BuildOverrides{Output: s.Output}
	overrides.apply(cfg)

	reg := prom.NewRegistry()
	reg.MustRegister(
		promcollect.NewGoCollector(),
		promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewPrometheusRecorder(reg)

	rootDir := siteRoot(configPath)
	outDir := resolveFrom(rootDir, cfg.Output.Directory)
	watchDirs := []string{
		resolveFrom(rootDir, cfg.Docs.Dir),
		resolveFrom(rootDir, cfg.Docs.StaticDir),
	}
	if cfg.Docs.CustomCSS != "" {
		watchDirs = append(watchDirs, filepath.Dir(resolveFrom(rootDir, cfg.Docs.CustomCSS)))
	}

	fn := func(ctx context.Context) (*build.Report, error) {
		return RunBuild(ctx, configPath, overrides, recorder)
	}
	return preview.New(fn, preview.Options{
		Addr:      s.Addr,
		BaseURL:   cfg.BaseURL,
		OutputDir: outDir,
		WatchDirs: watchDirs,
		WatchFiles: []string{
			configPath,
			filepath.Join(rootDir, ".env"),
			filepath.Join(rootDir, ".env.local"),
		},
		IgnoreDirs: []string{outDir},
		Debounce:   s.Debounce,
		Interval:   s.Interval,
		Registry:   reg,
	}), nil
}
