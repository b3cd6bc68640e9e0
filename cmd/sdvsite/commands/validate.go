package commands

import (
	"fmt"

	"github.com/sportsdataverse/sdvsite/internal/config"
)

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct{}

func (v *ValidateCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	fmt.Printf("Configuration valid: %s (%d navbar items, %d footer columns, %d scripts)\n",
		root.Config, len(cfg.Navbar.Entries), len(cfg.Footer.Columns), len(cfg.Scripts))
	return nil
}
