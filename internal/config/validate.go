package config

import (
	"fmt"
	"net/netip"
	"regexp"
	"strings"

	"github.com/siteprov/siteprov/internal/ifrange"
)

var colorPattern = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// Validate checks the site description for errors. Every interface range is
// expanded so range errors surface here, wrapping the ifrange sentinels.
func (s *SiteSpec) Validate() error {
	if strings.TrimSpace(s.SiteName) == "" {
		return fmt.Errorf("site_name is required")
	}
	if strings.TrimSpace(s.ManufacturerName) == "" {
		return fmt.Errorf("manufacturer_name is required")
	}
	if s.Prefix == "" {
		return fmt.Errorf("prefix is required")
	}
	if _, err := parseCIDR(s.Prefix); err != nil {
		return fmt.Errorf("invalid prefix: %w", err)
	}
	if len(s.Devices) == 0 {
		return fmt.Errorf("at least one device group is required")
	}

	for i := range s.Devices {
		if err := s.Devices[i].validate(); err != nil {
			return fmt.Errorf("device group %d (%s): %w", i+1, s.Devices[i].Model, err)
		}
	}

	return nil
}

func (g *DeviceGroup) validate() error {
	if g.Model == "" {
		return fmt.Errorf("model is required")
	}
	if g.Role == "" {
		return fmt.Errorf("role is required")
	}
	if g.NameSuffix == "" {
		return fmt.Errorf("name_suffix is required")
	}
	if g.Count < 1 || g.Count > MaxDeviceCount {
		return fmt.Errorf("count must be between 1 and %d, got %d", MaxDeviceCount, g.Count)
	}
	if g.RoleColor != "" && !colorPattern.MatchString(g.RoleColor) {
		return fmt.Errorf("role_color %q must be a 6-digit hex color", g.RoleColor)
	}
	if g.Subnet != "" {
		if _, err := parseCIDR(g.Subnet); err != nil {
			return fmt.Errorf("invalid subnet: %w", err)
		}
	}

	for i, iface := range g.Interfaces {
		if iface.Range == "" || iface.Type == "" {
			return fmt.Errorf("interface %d: interface_range and interface_type are required", i+1)
		}
		if _, err := ifrange.ExpandNormalized(iface.Range); err != nil {
			return fmt.Errorf("interface %d: %w", i+1, err)
		}
	}

	return nil
}

func parseCIDR(s string) (netip.Prefix, error) {
	p, err := netip.ParsePrefix(s)
	if err != nil {
		return netip.Prefix{}, err
	}
	if p.Addr().Is4In6() {
		return netip.Prefix{}, fmt.Errorf("%q is an IPv4-mapped prefix, write it as plain IPv4", s)
	}
	if p != p.Masked() {
		return netip.Prefix{}, fmt.Errorf("%q has host bits set, expected %s", s, p.Masked())
	}
	return p, nil
}
