package config

// InterfaceTypeVirtual marks interface entries that may carry addresses.
const InterfaceTypeVirtual = "virtual"

// MaxDeviceCount bounds the number of devices a single group may request.
const MaxDeviceCount = 999

// SiteSpec is the declarative description of one site.
type SiteSpec struct {
	SiteName         string        `yaml:"site_name"`
	ManufacturerName string        `yaml:"manufacturer_name"`
	Prefix           string        `yaml:"prefix"`
	Devices          []DeviceGroup `yaml:"devices"`
}

// DeviceGroup describes Count identical devices of one model and role.
type DeviceGroup struct {
	Model      string          `yaml:"model"`
	Interfaces []InterfaceSpec `yaml:"interfaces"`
	Role       string          `yaml:"role"`
	RoleColor  string          `yaml:"role_color,omitempty"`
	NameSuffix string          `yaml:"name_suffix"`
	Count      int             `yaml:"count"`
	Subnet     string          `yaml:"subnet,omitempty"`
}

// InterfaceSpec declares a range of interfaces of one type.
type InterfaceSpec struct {
	Range   string `yaml:"interface_range"`
	Type    string `yaml:"interface_type"`
	Primary bool   `yaml:"primary,omitempty"`
}

// AddressCarrying reports whether addresses are allocated to this entry.
func (i InterfaceSpec) AddressCarrying() bool {
	return i.Type == InterfaceTypeVirtual && i.Primary
}

// HasSubnet reports whether the group requests address allocation.
func (g DeviceGroup) HasSubnet() bool {
	return g.Subnet != ""
}
