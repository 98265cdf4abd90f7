package testing

import (
	"github.com/siteprov/siteprov/internal/config"
)

// SiteBuilder provides a fluent interface for constructing site specs.
// Each method returns a new builder (immutable) for chaining.
type SiteBuilder struct {
	spec config.SiteSpec
}

// NewSiteBuilder creates a builder for an empty site with sensible defaults.
func NewSiteBuilder() *SiteBuilder {
	return &SiteBuilder{
		spec: config.SiteSpec{
			SiteName:         "site",
			ManufacturerName: "Cisco",
			Prefix:           "10.0.0.0/16",
		},
	}
}

// WithSiteName sets the site name.
func (b *SiteBuilder) WithSiteName(name string) *SiteBuilder {
	nb := b.clone()
	nb.spec.SiteName = name
	return nb
}

// WithDeviceGroup appends a device group.
func (b *SiteBuilder) WithDeviceGroup(group config.DeviceGroup) *SiteBuilder {
	nb := b.clone()
	nb.spec.Devices = append(nb.spec.Devices, group)
	return nb
}

// WithSwitches appends a group of count access switches with 4 copper ports
// and one primary VLAN interface addressed from subnet.
func (b *SiteBuilder) WithSwitches(count int, subnet string) *SiteBuilder {
	return b.WithDeviceGroup(config.DeviceGroup{
		Model:      "C9300-48P",
		Role:       "Access Switch",
		RoleColor:  "00ff00",
		NameSuffix: "sw",
		Count:      count,
		Subnet:     subnet,
		Interfaces: []config.InterfaceSpec{
			{Range: "Gi1/0/[1-4]", Type: "1000base-t"},
			{Range: "vlan 10", Type: config.InterfaceTypeVirtual, Primary: true},
		},
	})
}

// Build returns a copy of the built site.
func (b *SiteBuilder) Build() *config.SiteSpec {
	out := b.clone().spec
	return &out
}

func (b *SiteBuilder) clone() *SiteBuilder {
	spec := b.spec
	spec.Devices = make([]config.DeviceGroup, len(b.spec.Devices))
	for i, g := range b.spec.Devices {
		g.Interfaces = append([]config.InterfaceSpec(nil), g.Interfaces...)
		spec.Devices[i] = g
	}
	return &SiteBuilder{spec: spec}
}
