package commands

import (
	"github.com/spf13/cobra"

	"github.com/siteprov/siteprov/cmd/siteprov/handlers"
)

// Apply returns the command that provisions a site.
//
// Optional flags:
//
//	--file, -f:       Path to the site description (default: site.yaml)
//	--connection:     Path to the connection settings (default: ./config.yml)
//	--metrics-file:   Write API call metrics in Prometheus text format
//
// Environment variables:
//
//	SITEPROV_NETBOX_URL, SITEPROV_NETBOX_API_TOKEN, SITEPROV_BACKEND, ...
func Apply() *cobra.Command {
	var opts handlers.ApplyOptions

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Provision the site described by a site file",
		Long: `Provision a site into the inventory.

Ensures the site, manufacturer and prefix exist, then for every device group
ensures the device type with its interface templates and the role, creates
the next free device names, and binds addresses from the group's subnet to
the primary virtual interfaces.

Objects that already exist are reused, so re-running a failed apply resumes
where it stopped. Runs must not overlap against the same inventory.

Examples:
  # Provision site.yaml using ./config.yml for the NetBox connection
  siteprov apply

  # Use explicit files and export metrics for the textfile collector
  siteprov apply -f ams1.yaml --connection netbox.yml --metrics-file /var/lib/node_exporter/siteprov.prom`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.SpecPath, "file", "f", "", "Path to site file (default: site.yaml)")
	cmd.Flags().StringVar(&opts.ConnectionPath, "connection", "", "Path to connection settings (default: config.yml)")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write API call metrics to this file")

	return cmd
}
