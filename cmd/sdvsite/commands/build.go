package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sportsdataverse/sdvsite/internal/build"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output  string `short:"o" help:"Override output.directory"`
	NoClean bool   `name:"no-clean" help:"Write into the existing output directory instead of replacing it"`
	NATSURL string `name:"nats-url" env:"SDVSITE_NATS_URL" help:"Publish broken-link events to this NATS server"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	report, err := RunBuild(ctx, root.Config, BuildOverrides{
		Output:  b.Output,
		NoClean: b.NoClean,
		NATSURL: b.NATSURL,
	}, nil)
	printSummary(os.Stdout, report)
	return err
}

func printSummary(w io.Writer, report *build.Report) {
	if report == nil || report.BuildID == "" {
		return
	}
	_, _ = fmt.Fprintf(w, "Build %s: %s (%d pages, %dms)\n", report.BuildID, report.Status, len(report.Pages), report.DurationMS)
	for _, warning := range report.Warnings {
		_, _ = fmt.Fprintf(w, "  warning: %s\n", warning)
	}
	if report.Status == build.StatusSuccess || report.Status == build.StatusWarning {
		_, _ = fmt.Fprintf(w, "Output written to %s\n", report.OutputDir)
	}
}
