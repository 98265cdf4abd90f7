package inventory

import "fmt"

// Kind identifies an inventory entity type.
type Kind int

const (
	KindSite Kind = iota + 1
	KindManufacturer
	KindDeviceType
	KindInterfaceTemplate
	KindDeviceRole
	KindDevice
	KindInterface
	KindPrefix
	KindIPAddress
)

var kindInfo = map[Kind]struct {
	name     string
	endpoint string
}{
	KindSite:              {"site", "dcim/sites"},
	KindManufacturer:      {"manufacturer", "dcim/manufacturers"},
	KindDeviceType:        {"device type", "dcim/device-types"},
	KindInterfaceTemplate: {"interface template", "dcim/interface-templates"},
	KindDeviceRole:        {"device role", "dcim/device-roles"},
	KindDevice:            {"device", "dcim/devices"},
	KindInterface:         {"interface", "dcim/interfaces"},
	KindPrefix:            {"prefix", "ipam/prefixes"},
	KindIPAddress:         {"IP address", "ipam/ip-addresses"},
}

// Kinds returns every known kind in dependency order.
func Kinds() []Kind {
	return []Kind{
		KindSite, KindManufacturer, KindDeviceType, KindInterfaceTemplate,
		KindDeviceRole, KindDevice, KindInterface, KindPrefix, KindIPAddress,
	}
}

func (k Kind) String() string {
	if info, ok := kindInfo[k]; ok {
		return info.name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Endpoint returns the REST collection path of the kind, relative to the API root.
func (k Kind) Endpoint() string {
	return kindInfo[k].endpoint
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	_, ok := kindInfo[k]
	return ok
}
