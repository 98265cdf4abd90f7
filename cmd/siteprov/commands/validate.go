package commands

import (
	"github.com/spf13/cobra"

	"github.com/siteprov/siteprov/cmd/siteprov/handlers"
)

// Validate returns the command that checks a site file without contacting
// the inventory.
func Validate() *cobra.Command {
	var specPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a site file offline",
		Long: `Validate a site file without contacting the inventory.

Checks required fields, prefixes and subnets, device counts, role colors,
and expands every interface range.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Validate(cmd.Context(), specPath)
		},
	}

	cmd.Flags().StringVarP(&specPath, "file", "f", "", "Path to site file (default: site.yaml)")

	return cmd
}
