package sqlstore

import (
	"fmt"

	"github.com/siteprov/siteprov/internal/inventory"
)

type siteModel struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(100);not null"`
	Slug string `gorm:"type:varchar(100);uniqueIndex"`
}

func (siteModel) TableName() string { return "sites" }

func (m siteModel) record() inventory.Record {
	return inventory.Record{ID: m.ID, Key: m.Name, Slug: m.Slug}
}

type manufacturerModel struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(100);not null"`
	Slug string `gorm:"type:varchar(100);uniqueIndex"`
}

func (manufacturerModel) TableName() string { return "manufacturers" }

func (m manufacturerModel) record() inventory.Record {
	return inventory.Record{ID: m.ID, Key: m.Name, Slug: m.Slug}
}

type deviceTypeModel struct {
	ID             int64  `gorm:"primaryKey"`
	ManufacturerID int64  `gorm:"uniqueIndex:idx_device_types_model"`
	Model          string `gorm:"type:varchar(100);uniqueIndex:idx_device_types_model"`
	Slug           string `gorm:"type:varchar(100)"`
	IsFullDepth    bool
}

func (deviceTypeModel) TableName() string { return "device_types" }

func (m deviceTypeModel) record() inventory.Record {
	return inventory.Record{ID: m.ID, Key: m.Model, Slug: m.Slug}
}

type interfaceTemplateModel struct {
	ID           int64  `gorm:"primaryKey"`
	DeviceTypeID int64  `gorm:"uniqueIndex:idx_interface_templates_name"`
	Name         string `gorm:"type:varchar(64);uniqueIndex:idx_interface_templates_name"`
	Type         string `gorm:"type:varchar(50)"`
}

func (interfaceTemplateModel) TableName() string { return "interface_templates" }

func (m interfaceTemplateModel) record() inventory.Record {
	return inventory.Record{ID: m.ID, Key: m.Name}
}

type deviceRoleModel struct {
	ID    int64  `gorm:"primaryKey"`
	Name  string `gorm:"type:varchar(100);not null"`
	Slug  string `gorm:"type:varchar(100);uniqueIndex"`
	Color string `gorm:"type:varchar(6)"`
}

func (deviceRoleModel) TableName() string { return "device_roles" }

func (m deviceRoleModel) record() inventory.Record {
	return inventory.Record{ID: m.ID, Key: m.Name, Slug: m.Slug}
}

type deviceModel struct {
	ID           int64  `gorm:"primaryKey"`
	Name         string `gorm:"type:varchar(64);uniqueIndex"`
	DeviceTypeID int64  `gorm:"index"`
	RoleID       int64  `gorm:"index"`
	SiteID       int64  `gorm:"index"`
	PrimaryIP4ID *int64 `gorm:"column:primary_ip4_id"`
	PrimaryIP6ID *int64 `gorm:"column:primary_ip6_id"`
}

func (deviceModel) TableName() string { return "devices" }

func (m deviceModel) record() inventory.Record {
	return inventory.Record{ID: m.ID, Key: m.Name}
}

type interfaceModel struct {
	ID       int64  `gorm:"primaryKey"`
	DeviceID int64  `gorm:"uniqueIndex:idx_interfaces_name"`
	Name     string `gorm:"type:varchar(64);uniqueIndex:idx_interfaces_name"`
	Type     string `gorm:"type:varchar(50)"`
}

func (interfaceModel) TableName() string { return "interfaces" }

func (m interfaceModel) record() inventory.Record {
	return inventory.Record{ID: m.ID, Key: m.Name}
}

type prefixModel struct {
	ID     int64  `gorm:"primaryKey"`
	Prefix string `gorm:"type:varchar(64);uniqueIndex"`
	Status string `gorm:"type:varchar(50)"`
}

func (prefixModel) TableName() string { return "prefixes" }

func (m prefixModel) record() inventory.Record {
	return inventory.Record{ID: m.ID, Key: m.Prefix}
}

type ipAddressModel struct {
	ID                 int64  `gorm:"primaryKey"`
	Address            string `gorm:"type:varchar(64);uniqueIndex"`
	Status             string `gorm:"type:varchar(50)"`
	Description        string `gorm:"type:varchar(200)"`
	AssignedObjectType string `gorm:"type:varchar(50)"`
	AssignedObjectID   *int64 `gorm:"index"`
}

func (ipAddressModel) TableName() string { return "ip_addresses" }

func (m ipAddressModel) record() inventory.Record {
	return inventory.Record{ID: m.ID, Key: m.Address}
}

// allModels lists every table in creation order for AutoMigrate.
func allModels() []any {
	return []any{
		&siteModel{},
		&manufacturerModel{},
		&deviceTypeModel{},
		&interfaceTemplateModel{},
		&deviceRoleModel{},
		&deviceModel{},
		&interfaceModel{},
		&prefixModel{},
		&ipAddressModel{},
	}
}

// toModel converts a create payload into its table row.
func toModel(obj inventory.Object) (any, error) {
	switch o := obj.(type) {
	case inventory.Site:
		return &siteModel{Name: o.Name, Slug: o.Slug}, nil
	case inventory.Manufacturer:
		return &manufacturerModel{Name: o.Name, Slug: o.Slug}, nil
	case inventory.DeviceType:
		return &deviceTypeModel{ManufacturerID: o.Manufacturer, Model: o.Model, Slug: o.Slug, IsFullDepth: o.IsFullDepth}, nil
	case inventory.InterfaceTemplate:
		return &interfaceTemplateModel{DeviceTypeID: o.DeviceType, Name: o.Name, Type: o.Type}, nil
	case inventory.DeviceRole:
		return &deviceRoleModel{Name: o.Name, Slug: o.Slug, Color: o.Color}, nil
	case inventory.Device:
		return &deviceModel{Name: o.Name, DeviceTypeID: o.DeviceType, RoleID: o.Role, SiteID: o.Site}, nil
	case inventory.Prefix:
		return &prefixModel{Prefix: o.Prefix, Status: o.Status}, nil
	case inventory.IPAddress:
		return &ipAddressModel{Address: o.Address, Status: o.Status, Description: o.Description}, nil
	default:
		return nil, fmt.Errorf("unsupported object type %T", obj)
	}
}

func modelID(m any) int64 {
	switch v := m.(type) {
	case *siteModel:
		return v.ID
	case *manufacturerModel:
		return v.ID
	case *deviceTypeModel:
		return v.ID
	case *interfaceTemplateModel:
		return v.ID
	case *deviceRoleModel:
		return v.ID
	case *deviceModel:
		return v.ID
	case *prefixModel:
		return v.ID
	case *ipAddressModel:
		return v.ID
	default:
		return 0
	}
}
