package handlers

import (
	"context"
	"fmt"

	"github.com/siteprov/siteprov/internal/ifrange"
)

// Validate loads and validates a site file without contacting the inventory
// and prints what it would provision.
func Validate(_ context.Context, path string) error {
	path = specPath(path)
	spec, err := loadSpecFile(path)
	if err != nil {
		return err
	}

	var devices, interfaces, addressed int
	for _, g := range spec.Devices {
		devices += g.Count
		for _, iface := range g.Interfaces {
			names, err := ifrange.ExpandNormalized(iface.Range)
			if err != nil {
				return err
			}
			interfaces += len(names)
			if g.HasSubnet() && iface.AddressCarrying() {
				addressed += len(names) * g.Count
			}
		}
	}

	logger.V(1).Info("site file validated", "path", path, "site", spec.SiteName)
	fmt.Fprintln(stdout, okStyle.Render(fmt.Sprintf("✓ %s is valid", path)))
	fmt.Fprintf(stdout, "  site %s: %d device groups, %d devices, %d interface templates, %d addresses\n",
		spec.SiteName, len(spec.Devices), devices, interfaces, addressed)
	return nil
}
