package devices

import (
	"errors"
	"fmt"
	"net/netip"
	"strconv"

	"github.com/siteprov/siteprov/internal/config"
	"github.com/siteprov/siteprov/internal/ifrange"
	"github.com/siteprov/siteprov/internal/inventory"
	"github.com/siteprov/siteprov/internal/provisioning"
)

// AssignAddresses binds one free address of the group's subnet to every
// interface named by the group's primary virtual entries. The first address
// of each family bound on the device becomes its primary address of that family.
func (p *Provisioner) AssignAddresses(ctx *provisioning.Context, group config.DeviceGroup, device *provisioning.DeviceResult) error {
	for _, iface := range group.Interfaces {
		if !iface.AddressCarrying() {
			continue
		}

		names, err := ifrange.ExpandNormalized(iface.Range)
		if err != nil {
			return err
		}
		addresses, err := provisioning.FindFreeAddresses(ctx, ctx.Repo, group.Subnet, len(names))
		if err != nil {
			return err
		}

		for i, name := range names {
			err := p.bindAddress(ctx, device, name, addresses[i])
			if errors.Is(err, inventory.ErrInterfaceNotFound) {
				provisioning.LogResourceFailed(ctx.Observer, phase, inventory.KindIPAddress.String(), addresses[i], err)
				ctx.State.Fail(inventory.KindInterface, err)
				continue
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// bindAddress resolves the interface, ensures the address, assigns it to the
// interface and promotes it when the device has no primary address of its
// family yet.
func (p *Provisioner) bindAddress(ctx *provisioning.Context, device *provisioning.DeviceResult, ifName, address string) error {
	iface, err := ctx.Repo.Find(ctx, inventory.KindInterface, inventory.Filter{
		"device_id": strconv.FormatInt(device.ID, 10),
		"name":      ifName,
	})
	if err != nil {
		return fmt.Errorf("failed to look up interface %s on %s: %w", ifName, device.Name, err)
	}
	if iface == nil {
		return fmt.Errorf("%w: %s on device %s", inventory.ErrInterfaceNotFound, ifName, device.Name)
	}

	ipID, err := provisioning.EnsureResource(ctx, phase, address, inventory.IPAddress{
		Address:     address,
		Status:      inventory.StatusActive,
		Description: device.Name,
	})
	if err != nil {
		return fmt.Errorf("failed to ensure IP address %s: %w", address, err)
	}

	err = ctx.Repo.Update(ctx, inventory.KindIPAddress, ipID, inventory.AssignmentPatch{
		AssignedObjectType: inventory.AssignedObjectTypeInterface,
		AssignedObjectID:   iface.ID,
		Status:             inventory.StatusActive,
	})
	if err != nil {
		return fmt.Errorf("failed to assign %s to %s on %s: %w", address, ifName, device.Name, err)
	}
	provisioning.LogResource(ctx.Observer, provisioning.EventResourceUpdated, phase,
		inventory.KindIPAddress.String(), address, ipID)
	device.Addresses = append(device.Addresses, address)

	return promote(ctx, device, address, ipID)
}

func promote(ctx *provisioning.Context, device *provisioning.DeviceResult, address string, ipID int64) error {
	prefix, err := netip.ParsePrefix(address)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", address, err)
	}

	var (
		patch   any
		family  string
		primary *string
	)
	if prefix.Addr().Is4() {
		patch, family, primary = inventory.PrimaryIPPatch{PrimaryIP4: ipID}, "IPv4", &device.PrimaryIP
	} else {
		patch, family, primary = inventory.PrimaryIP6Patch{PrimaryIP6: ipID}, "IPv6", &device.PrimaryIP6
	}
	if *primary != "" {
		return nil
	}

	if err := ctx.Repo.Update(ctx, inventory.KindDevice, device.ID, patch); err != nil {
		return fmt.Errorf("failed to set primary %s of %s: %w", family, device.Name, err)
	}
	provisioning.LogResource(ctx.Observer, provisioning.EventResourceUpdated, phase,
		inventory.KindDevice.String(), device.Name, device.ID)
	*primary = address
	return nil
}
