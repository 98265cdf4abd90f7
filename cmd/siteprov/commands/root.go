// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/siteprov/siteprov/cmd/siteprov/handlers"
	"github.com/siteprov/siteprov/internal/logging"
)

// Root returns the root command for the siteprov CLI.
//
// The root command owns the logging flags; its pre-run hook configures the
// logger shared by every subcommand.
func Root() *cobra.Command {
	opts := logging.DefaultOptions()
	var format string

	cmd := &cobra.Command{
		Use:           "siteprov",
		Short:         "Provision network site inventory into NetBox",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			opts.Format = logging.Format(format)
			return handlers.ConfigureLogging(opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Level, "log-level", opts.Level, "Log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&format, "log-format", string(opts.Format), "Log format: auto, console, json")

	cmd.AddCommand(Apply())
	cmd.AddCommand(Validate())
	cmd.AddCommand(Expand())
	cmd.AddCommand(Version())

	return cmd
}
