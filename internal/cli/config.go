package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/organogram/pkg/config"
)

// configCommand prints the effective configuration as TOML.
func (c *CLI) configCommand() *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if !defaults {
				var err error
				if cfg, err = c.loadConfig(); err != nil {
					return err
				}
			}
			// The CSRF token is never printed.
			if cfg.API.CSRFToken != "" {
				cfg.API.CSRFToken = "<redacted>"
			}
			return config.Encode(os.Stdout, cfg)
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, "print built-in defaults instead")

	return cmd
}
