package commands

import (
	"github.com/spf13/cobra"

	"github.com/siteprov/siteprov/cmd/siteprov/handlers"
)

// Expand returns the command that prints the interface names a range expression denotes.
func Expand() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "expand <range>...",
		Short: "Print the interface names of range expressions",
		Example: `  siteprov expand 'Gi1/0/[1-4]'
  siteprov expand 'vlan[10-12]' 'Te1/1/[1-2]'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Expand(cmd.OutOrStdout(), args, !raw)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Do not normalize abbreviated interface names")

	return cmd
}
