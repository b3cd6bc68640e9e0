package commands

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/sportsdataverse/sdvsite/internal/build"
	"github.com/sportsdataverse/sdvsite/internal/config"
	"github.com/sportsdataverse/sdvsite/internal/logfields"
	"github.com/sportsdataverse/sdvsite/internal/metrics"
	"github.com/sportsdataverse/sdvsite/internal/notify"
)

// LogLevelEnv overrides the log level when --verbose is not given.
const LogLevelEnv = "SDVSITE_LOG_LEVEL"

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Site configuration file" default:"sdvsite.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Build the static site"`
	Init     InitCmd     `cmd:"" help:"Write the default site configuration"`
	Validate ValidateCmd `cmd:"" help:"Load and validate the site configuration"`
	Serve    ServeCmd    `cmd:"" help:"Serve the site locally and rebuild on changes"`
	Export   ExportCmd   `cmd:"" help:"Print the effective site configuration as YAML"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	return nil
}

// parseLogLevel returns Debug for --verbose, otherwise the level named by
// SDVSITE_LOG_LEVEL, defaulting to Info.
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv(LogLevelEnv))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// BuildOverrides are command-line adjustments applied on top of the loaded
// configuration.
type BuildOverrides struct {
	Output  string
	NoClean bool
	NATSURL string
}

func (o BuildOverrides) apply(cfg *config.SiteConfig) {
	if o.Output != "" {
		if abs, err := filepath.Abs(o.Output); err == nil {
			cfg.Output.Directory = abs
		} else {
			cfg.Output.Directory = o.Output
		}
	}
	if o.NoClean {
		cfg.Output.Clean = false
	}
	if o.NATSURL != "" {
		cfg.Monitoring.NATSURL = o.NATSURL
		if cfg.Monitoring.NATSSubject == "" {
			cfg.Monitoring.NATSSubject = notify.DefaultSubject
		}
	}
}

// siteRoot is the directory relative paths in the configuration resolve
// against.
func siteRoot(configPath string) string {
	return filepath.Dir(configPath)
}

func resolveFrom(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// RunBuild loads the configuration at configPath and runs one build. A
// failing NATS connection is logged and the build continues without
// notifications.
func RunBuild(ctx context.Context, configPath string, overrides BuildOverrides, recorder metrics.Recorder) (*build.Report, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	overrides.apply(cfg)

	opts := []build.Option{build.WithRoot(siteRoot(configPath))}
	if recorder != nil {
		opts = append(opts, build.WithRecorder(recorder))
	}
	if url := cfg.Monitoring.NATSURL; url != "" {
		pub, err := notify.NewNATSPublisher(ctx, url, cfg.Monitoring.NATSSubject)
		if err != nil {
			slog.Warn("Broken-link notifications disabled", logfields.URL(url), logfields.Error(err))
		} else {
			defer func() { _ = pub.Close() }()
			opts = append(opts, build.WithPublisher(pub))
		}
	}
	return build.New(cfg, opts...).Run(ctx)
}
