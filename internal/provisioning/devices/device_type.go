package devices

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/siteprov/siteprov/internal/config"
	"github.com/siteprov/siteprov/internal/ifrange"
	"github.com/siteprov/siteprov/internal/inventory"
	"github.com/siteprov/siteprov/internal/provisioning"
	"github.com/siteprov/siteprov/internal/util/naming"
)

// EnsureDeviceType ensures the group's device type and creates the interface
// templates it is missing.
func (p *Provisioner) EnsureDeviceType(ctx *provisioning.Context, group config.DeviceGroup) (int64, error) {
	id, err := provisioning.EnsureResource(ctx, phase, group.Model, inventory.DeviceType{
		Manufacturer: ctx.State.ManufacturerID,
		Model:        group.Model,
		Slug:         naming.Slug(group.Model),
		IsFullDepth:  false,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to ensure device type %q: %w", group.Model, err)
	}

	if err := p.ensureTemplates(ctx, id, group.Interfaces); err != nil {
		return 0, err
	}
	return id, nil
}

func (p *Provisioner) ensureTemplates(ctx *provisioning.Context, deviceTypeID int64, interfaces []config.InterfaceSpec) error {
	existing, err := ctx.Repo.List(ctx, inventory.KindInterfaceTemplate, inventory.Filter{
		"device_type_id": strconv.FormatInt(deviceTypeID, 10),
	})
	if err != nil {
		return fmt.Errorf("failed to list interface templates: %w", err)
	}

	present := make(map[string]struct{}, len(existing))
	for _, r := range existing {
		present[r.Key] = struct{}{}
	}

	for _, iface := range interfaces {
		names, err := ifrange.ExpandNormalized(iface.Range)
		if err != nil {
			return err
		}
		for _, name := range names {
			if _, ok := present[name]; ok {
				ctx.State.Record(inventory.KindInterfaceTemplate, inventory.OutcomeExisting)
				continue
			}
			_, err := provisioning.EnsureResource(ctx, phase, name, inventory.InterfaceTemplate{
				DeviceType: deviceTypeID,
				Name:       name,
				Type:       iface.Type,
			})
			if err != nil {
				return fmt.Errorf("failed to ensure interface template %s: %w", name, err)
			}
			present[name] = struct{}{}
		}
	}
	return nil
}

// EnsureRole ensures the group's device role. Colors are stored lower-case.
func (p *Provisioner) EnsureRole(ctx *provisioning.Context, group config.DeviceGroup) (int64, error) {
	id, err := provisioning.EnsureResource(ctx, phase, group.Role, inventory.DeviceRole{
		Name:  group.Role,
		Slug:  naming.Slug(group.Role),
		Color: strings.ToLower(group.RoleColor),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to ensure device role %q: %w", group.Role, err)
	}
	return id, nil
}
