package provisioning

import (
	"context"
	"fmt"

	"github.com/siteprov/siteprov/internal/inventory"
	"github.com/siteprov/siteprov/internal/util/naming"
)

// AllocateDeviceNames returns n device names of the form site-suffix-NN that
// do not exist in the repository, probing indexes upward from 1. The index is
// unbounded, so callers must bound n.
func AllocateDeviceNames(ctx context.Context, repo inventory.Repository, site, suffix string, n int) ([]string, error) {
	names := make([]string, 0, n)
	for index := 1; len(names) < n; index++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := naming.Device(site, suffix, index)
		existing, err := repo.Find(ctx, inventory.KindDevice, inventory.Filter{"name": name})
		if err != nil {
			return nil, fmt.Errorf("failed to look up device %s: %w", name, err)
		}
		if existing == nil {
			names = append(names, name)
		}
	}
	return names, nil
}
