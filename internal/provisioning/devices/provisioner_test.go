package devices_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siteprov/siteprov/internal/config"
	"github.com/siteprov/siteprov/internal/inventory"
	"github.com/siteprov/siteprov/internal/provisioning"
	"github.com/siteprov/siteprov/internal/provisioning/devices"
	"github.com/siteprov/siteprov/internal/provisioning/foundation"
	itesting "github.com/siteprov/siteprov/internal/testing"
)

// provision runs the foundation and devices phases against repo.
func provision(t *testing.T, repo inventory.Repository, spec *config.SiteSpec) (*provisioning.Context, error) {
	t.Helper()
	ctx := provisioning.NewContext(itesting.TestContext(t), repo, spec, provisioning.NewRecordingObserver())
	require.NoError(t, foundation.NewProvisioner().Provision(ctx))
	return ctx, devices.NewProvisioner().Provision(ctx)
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

func TestProvision_TwoSwitchesOnSlash30(t *testing.T) {
	t.Parallel()
	repo := itesting.NewFakeRepository()
	spec := itesting.NewSiteBuilder().WithSwitches(2, "10.0.0.0/30").Build()

	ctx, err := provision(t, repo, spec)
	require.NoError(t, err)
	require.NoError(t, ctx.State.Err())

	require.Len(t, ctx.State.Devices, 2)
	assert.Equal(t, "site-sw-01", ctx.State.Devices[0].Name)
	assert.Equal(t, "site-sw-02", ctx.State.Devices[1].Name)
	assert.Equal(t, []string{"10.0.0.1/30"}, ctx.State.Devices[0].Addresses)
	assert.Equal(t, []string{"10.0.0.2/30"}, ctx.State.Devices[1].Addresses)

	addresses := repo.All(inventory.KindIPAddress)
	require.Len(t, addresses, 2)

	primaries := map[string]string{}
	for _, u := range repo.Updates() {
		if u.Kind == inventory.KindDevice {
			primaries[id(u.ID)] = u.Patch["primary_ip4"]
		}
	}
	require.Len(t, primaries, 2, "each device is promoted exactly once")

	for _, dev := range ctx.State.Devices {
		ipID := primaries[id(dev.ID)]
		require.NotEmpty(t, ipID)

		ipNum, err := strconv.ParseInt(ipID, 10, 64)
		require.NoError(t, err)
		ip := addresses[ipNum]
		assert.Equal(t, dev.PrimaryIP, ip["address"])
		assert.Equal(t, dev.Name, ip["description"])
		assert.Equal(t, inventory.AssignedObjectTypeInterface, ip["assigned_object_type"])
		assert.Equal(t, inventory.StatusActive, ip["status"])

		ifNum, err := strconv.ParseInt(ip["assigned_object_id"], 10, 64)
		require.NoError(t, err)
		iface, ok := repo.Get(inventory.KindInterface, ifNum)
		require.True(t, ok)
		assert.Equal(t, "vlan10", iface["name"])
		assert.Equal(t, id(dev.ID), iface["device"])
	}
}

func TestProvision_DeviceTypeAndTemplates(t *testing.T) {
	t.Parallel()
	repo := itesting.NewFakeRepository()
	spec := itesting.NewSiteBuilder().WithSwitches(1, "").Build()
	spec.Devices[0].RoleColor = "00FF00"

	ctx, err := provision(t, repo, spec)
	require.NoError(t, err)

	types := repo.All(inventory.KindDeviceType)
	require.Len(t, types, 1)
	for _, dt := range types {
		assert.Equal(t, "C9300-48P", dt["model"])
		assert.Equal(t, "c9300-48p", dt["slug"])
		assert.Equal(t, id(ctx.State.ManufacturerID), dt["manufacturer"])
		assert.Equal(t, "false", dt["is_full_depth"])
	}

	var names []string
	for _, tmpl := range repo.All(inventory.KindInterfaceTemplate) {
		names = append(names, tmpl["name"])
	}
	assert.ElementsMatch(t, []string{
		"GigabitEthernet1/0/1", "GigabitEthernet1/0/2", "GigabitEthernet1/0/3", "GigabitEthernet1/0/4", "vlan10",
	}, names)

	roles := repo.All(inventory.KindDeviceRole)
	require.Len(t, roles, 1)
	for _, r := range roles {
		assert.Equal(t, "access_switch", r["slug"])
		assert.Equal(t, "00ff00", r["color"])
	}

	assert.Empty(t, repo.Updates(), "no addresses without a subnet")
}

func TestProvision_RerunSkipsExistingAndAllocatesNextNames(t *testing.T) {
	t.Parallel()
	repo := itesting.NewFakeRepository()
	spec := itesting.NewSiteBuilder().WithSwitches(2, "").Build()

	_, err := provision(t, repo, spec)
	require.NoError(t, err)
	ctx, err := provision(t, repo, spec)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.CreateCount(inventory.KindDeviceType))
	assert.Equal(t, 5, repo.CreateCount(inventory.KindInterfaceTemplate))
	assert.Equal(t, 1, repo.CreateCount(inventory.KindDeviceRole))
	assert.Equal(t, 4, repo.CreateCount(inventory.KindDevice))
	assert.Equal(t, provisioning.Counts{Existing: 5}, ctx.State.Resources()[inventory.KindInterfaceTemplate])

	require.Len(t, ctx.State.Devices, 2)
	assert.Equal(t, "site-sw-03", ctx.State.Devices[0].Name)
	assert.Equal(t, "site-sw-04", ctx.State.Devices[1].Name)
}

func TestProvision_RejectedDeviceSkipsItsAddresses(t *testing.T) {
	t.Parallel()
	repo := itesting.NewFakeRepository()
	repo.FailCreate = func(obj inventory.Object) error {
		if d, ok := obj.(inventory.Device); ok && d.Name == "site-sw-01" {
			return &inventory.CreationError{Kind: inventory.KindDevice, Status: 400, Message: "name: invalid"}
		}
		return nil
	}
	spec := itesting.NewSiteBuilder().WithSwitches(2, "10.0.0.0/30").Build()

	ctx, err := provision(t, repo, spec)
	require.NoError(t, err, "a rejected device does not stop the run")

	require.Len(t, ctx.State.Devices, 2)
	assert.ErrorIs(t, ctx.State.Devices[0].Err, inventory.ErrEntityCreationFailed)
	assert.Zero(t, ctx.State.Devices[0].ID)
	assert.Empty(t, ctx.State.Devices[0].Addresses)
	assert.Equal(t, "10.0.0.1/30", ctx.State.Devices[1].PrimaryIP)
	assert.ErrorIs(t, ctx.State.Err(), inventory.ErrEntityCreationFailed)
}

func TestProvision_TransportFailureStopsRun(t *testing.T) {
	t.Parallel()
	repo := itesting.NewFakeRepository()
	repo.CreateErrors[inventory.KindDevice] = errors.New("connection reset by peer")
	spec := itesting.NewSiteBuilder().WithSwitches(2, "").Build()

	ctx, err := provision(t, repo, spec)
	require.Error(t, err)
	assert.NotErrorIs(t, err, inventory.ErrEntityCreationFailed)
	assert.Contains(t, err.Error(), "device group 0 (C9300-48P)")
	assert.Contains(t, err.Error(), "connection reset by peer")
	assert.Empty(t, ctx.State.Devices)
}

func TestProvision_ExhaustedSubnetStopsGroupOnly(t *testing.T) {
	t.Parallel()
	repo := itesting.NewFakeRepository()
	spec := itesting.NewSiteBuilder().
		WithSwitches(3, "10.0.0.9/32").
		WithDeviceGroup(config.DeviceGroup{
			Model:      "ISR4331",
			Role:       "Router",
			NameSuffix: "rtr",
			Count:      1,
			Interfaces: []config.InterfaceSpec{{Range: "Gi0/[0-2]", Type: "1000base-t"}},
		}).
		Build()

	ctx, err := provision(t, repo, spec)
	require.NoError(t, err)

	require.Len(t, ctx.State.Devices, 3)
	assert.Equal(t, "10.0.0.9/32", ctx.State.Devices[0].PrimaryIP)
	assert.Equal(t, "site-sw-02", ctx.State.Devices[1].Name)
	assert.ErrorIs(t, ctx.State.Devices[1].Err, provisioning.ErrInsufficientAddresses)
	assert.Equal(t, "site-rtr-01", ctx.State.Devices[2].Name)

	assert.Equal(t, 3, repo.CreateCount(inventory.KindDevice), "third switch is skipped")
	assert.ErrorIs(t, ctx.State.Err(), provisioning.ErrInsufficientAddresses)
}

func TestProvision_MissingInterfaceSkipsThatAddress(t *testing.T) {
	t.Parallel()
	repo := itesting.NewFakeRepository()
	repo.HiddenFinds[inventory.KindInterface] = 1
	spec := itesting.NewSiteBuilder().WithDeviceGroup(config.DeviceGroup{
		Model:      "C9500",
		Role:       "Core",
		NameSuffix: "core",
		Count:      1,
		Subnet:     "10.0.0.0/29",
		Interfaces: []config.InterfaceSpec{
			{Range: "vlan[10-11]", Type: config.InterfaceTypeVirtual, Primary: true},
		},
	}).Build()

	ctx, err := provision(t, repo, spec)
	require.NoError(t, err)

	require.Len(t, ctx.State.Devices, 1)
	dev := ctx.State.Devices[0]
	assert.Equal(t, []string{"10.0.0.2/29"}, dev.Addresses)
	assert.Equal(t, "10.0.0.2/29", dev.PrimaryIP)
	assert.ErrorIs(t, ctx.State.Err(), inventory.ErrInterfaceNotFound)
	assert.Len(t, repo.All(inventory.KindIPAddress), 1, "no address is created for the missing interface")
}

func TestProvision_OnlyFirstAddressIsPromoted(t *testing.T) {
	t.Parallel()
	repo := itesting.NewFakeRepository()
	spec := itesting.NewSiteBuilder().WithDeviceGroup(config.DeviceGroup{
		Model:      "C9500",
		Role:       "Core",
		NameSuffix: "core",
		Count:      1,
		Subnet:     "10.0.0.0/29",
		Interfaces: []config.InterfaceSpec{
			{Range: "vlan 20", Type: config.InterfaceTypeVirtual, Primary: true},
			{Range: "vlan[30-31]", Type: config.InterfaceTypeVirtual, Primary: true},
			{Range: "vlan 40", Type: config.InterfaceTypeVirtual},
		},
	}).Build()

	ctx, err := provision(t, repo, spec)
	require.NoError(t, err)

	dev := ctx.State.Devices[0]
	assert.Equal(t, []string{"10.0.0.1/29", "10.0.0.2/29", "10.0.0.3/29"}, dev.Addresses)
	assert.Equal(t, "10.0.0.1/29", dev.PrimaryIP)

	var promotions int
	for _, u := range repo.Updates() {
		if u.Kind == inventory.KindDevice {
			promotions++
		}
	}
	assert.Equal(t, 1, promotions)
}

func TestProvision_IPv6SubnetPromotesPrimaryIP6(t *testing.T) {
	t.Parallel()
	repo := itesting.NewFakeRepository()
	spec := itesting.NewSiteBuilder().WithSwitches(2, "2001:db8::/126").Build()
	require.NoError(t, spec.Validate())

	ctx, err := provision(t, repo, spec)
	require.NoError(t, err)
	require.NoError(t, ctx.State.Err())

	require.Len(t, ctx.State.Devices, 2)
	for i, want := range []string{"2001:db8::1/126", "2001:db8::2/126"} {
		dev := ctx.State.Devices[i]
		assert.Equal(t, []string{want}, dev.Addresses)
		assert.Equal(t, want, dev.PrimaryIP6)
		assert.Empty(t, dev.PrimaryIP)
	}

	var promotions int
	for _, u := range repo.Updates() {
		if u.Kind != inventory.KindDevice {
			continue
		}
		promotions++
		assert.NotContains(t, u.Patch, "primary_ip4")

		ipNum, err := strconv.ParseInt(u.Patch["primary_ip6"], 10, 64)
		require.NoError(t, err)
		ip, ok := repo.Get(inventory.KindIPAddress, ipNum)
		require.True(t, ok)
		assert.Contains(t, ip["address"], "2001:db8::")
	}
	assert.Equal(t, 2, promotions)
}
