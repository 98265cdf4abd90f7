package inventory

import "strconv"

// Filter is a set of equality filters understood by a Repository.
type Filter map[string]string

// Record is the minimal view of a stored object returned by lookups.
type Record struct {
	ID   int64
	Key  string // natural key: name, model, prefix or address
	Slug string
}

// Object is a create payload for one inventory kind.
type Object interface {
	Kind() Kind
	// Lookup returns the filter selecting the object by its natural key.
	Lookup() Filter
}

// slugged is implemented by objects whose identity is their slug.
type slugged interface {
	slug() string
}

// Site is a physical location.
type Site struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (Site) Kind() Kind { return KindSite }
func (s Site) Lookup() Filter { return Filter{"slug": s.Slug} }
func (s Site) slug() string { return s.Slug }

// Manufacturer is a hardware vendor.
type Manufacturer struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (Manufacturer) Kind() Kind { return KindManufacturer }
func (m Manufacturer) Lookup() Filter { return Filter{"slug": m.Slug} }
func (m Manufacturer) slug() string { return m.Slug }

// DeviceType is a hardware model of one manufacturer.
type DeviceType struct {
	Manufacturer int64  `json:"manufacturer"`
	Model        string `json:"model"`
	Slug         string `json:"slug"`
	IsFullDepth  bool   `json:"is_full_depth"`
}

func (DeviceType) Kind() Kind { return KindDeviceType }
func (d DeviceType) Lookup() Filter {
	return Filter{"manufacturer_id": formatID(d.Manufacturer), "model": d.Model}
}
func (d DeviceType) slug() string { return d.Slug }

// InterfaceTemplate declares an interface every device of a type receives.
type InterfaceTemplate struct {
	DeviceType int64  `json:"device_type"`
	Name       string `json:"name"`
	Type       string `json:"type"`
}

func (InterfaceTemplate) Kind() Kind { return KindInterfaceTemplate }
func (i InterfaceTemplate) Lookup() Filter {
	return Filter{"device_type_id": formatID(i.DeviceType), "name": i.Name}
}

// DeviceRole is the functional role of a device.
type DeviceRole struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Color string `json:"color,omitempty"`
}

func (DeviceRole) Kind() Kind { return KindDeviceRole }
func (r DeviceRole) Lookup() Filter { return Filter{"slug": r.Slug} }
func (r DeviceRole) slug() string { return r.Slug }

// Device is a concrete piece of equipment placed at a site.
type Device struct {
	Name       string `json:"name"`
	DeviceType int64  `json:"device_type"`
	Role       int64  `json:"role"`
	Site       int64  `json:"site"`
}

func (Device) Kind() Kind { return KindDevice }
func (d Device) Lookup() Filter { return Filter{"name": d.Name} }

// Prefix is an IP network registered in IPAM.
type Prefix struct {
	Prefix string `json:"prefix"`
	Status string `json:"status"`
}

func (Prefix) Kind() Kind { return KindPrefix }
func (p Prefix) Lookup() Filter { return Filter{"prefix": p.Prefix} }

// IPAddress is a host address with its mask, e.g. "10.0.0.1/30".
type IPAddress struct {
	Address     string `json:"address"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
}

func (IPAddress) Kind() Kind { return KindIPAddress }
func (a IPAddress) Lookup() Filter { return Filter{"address": a.Address} }

// AssignedObjectTypeInterface is the content type of device interfaces.
const AssignedObjectTypeInterface = "dcim.interface"

// StatusActive is the operational status given to prefixes and addresses.
const StatusActive = "active"

// AssignmentPatch binds an IP address to an interface.
type AssignmentPatch struct {
	AssignedObjectType string `json:"assigned_object_type"`
	AssignedObjectID   int64  `json:"assigned_object_id"`
	Status             string `json:"status"`
}

// PrimaryIPPatch sets a device's primary IPv4 address.
type PrimaryIPPatch struct {
	PrimaryIP4 int64 `json:"primary_ip4"`
}

// PrimaryIP6Patch sets a device's primary IPv6 address.
type PrimaryIP6Patch struct {
	PrimaryIP6 int64 `json:"primary_ip6"`
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
