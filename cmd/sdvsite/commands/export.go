package commands

import (
	"os"

	"github.com/sportsdataverse/sdvsite/internal/config"
	derrors "github.com/sportsdataverse/sdvsite/internal/foundation/errors"
)

// ExportCmd implements the 'export' command.
type ExportCmd struct {
	Defaults bool   `help:"Export the built-in default configuration instead of loading --config"`
	Output   string `short:"o" help:"Write to this file instead of stdout"`
}

func (e *ExportCmd) Run(_ *Global, root *CLI) error {
	cfg := config.Default()
	if !e.Defaults {
		loaded, err := config.Load(root.Config)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	data, err := config.Encode(cfg)
	if err != nil {
		return err
	}
	if e.Output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(e.Output, data, 0o600); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to write configuration").
			WithContext("path", e.Output).
			Build()
	}
	return nil
}
