package provisioning

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"strings"

	"github.com/siteprov/siteprov/internal/inventory"
)

// ErrInsufficientAddresses is returned when a subnet has fewer free host
// addresses than requested.
var ErrInsufficientAddresses = errors.New("insufficient free addresses")

// FindFreeAddresses returns the n lowest host addresses of subnet that are not
// recorded in the repository, formatted with the subnet's prefix length
// (e.g. "10.0.0.1/30").
//
// IPv4 subnets exclude the network and broadcast addresses unless they are
// /31 or /32. IPv6 subnets exclude the subnet-router anycast address unless
// they are /127 or /128.
func FindFreeAddresses(ctx context.Context, repo inventory.Repository, subnet string, n int) ([]string, error) {
	prefix, err := netip.ParsePrefix(subnet)
	if err != nil {
		return nil, fmt.Errorf("invalid subnet %q: %w", subnet, err)
	}
	if prefix.Addr().Is4In6() {
		return nil, fmt.Errorf("invalid subnet %q: IPv4-mapped prefixes are not supported", subnet)
	}
	prefix = prefix.Masked()
	if n <= 0 {
		return nil, nil
	}

	used, err := usedAddresses(ctx, repo, prefix)
	if err != nil {
		return nil, err
	}

	free := make([]string, 0, n)
	for addr := prefix.Addr(); prefix.Contains(addr) && len(free) < n; addr = addr.Next() {
		if !isHost(prefix, addr) {
			continue
		}
		if _, taken := used[addr]; taken {
			continue
		}
		free = append(free, netip.PrefixFrom(addr, prefix.Bits()).String())
	}

	if len(free) < n {
		return nil, fmt.Errorf("%w: %d requested, %d available in %s", ErrInsufficientAddresses, n, len(free), prefix)
	}
	return free, nil
}

func usedAddresses(ctx context.Context, repo inventory.Repository, prefix netip.Prefix) (map[netip.Addr]struct{}, error) {
	records, err := repo.List(ctx, inventory.KindIPAddress, inventory.Filter{"parent": prefix.String()})
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses in %s: %w", prefix, err)
	}

	used := make(map[netip.Addr]struct{}, len(records))
	for _, r := range records {
		host, _, _ := strings.Cut(r.Key, "/")
		addr, err := netip.ParseAddr(host)
		if err != nil {
			continue
		}
		used[addr.Unmap()] = struct{}{}
	}
	return used, nil
}

func isHost(prefix netip.Prefix, addr netip.Addr) bool {
	bits := prefix.Bits()
	if prefix.Addr().Is4() {
		if bits >= 31 {
			return true
		}
		return addr != prefix.Addr() && prefix.Contains(addr.Next())
	}
	if bits >= 127 {
		return true
	}
	return addr != prefix.Addr()
}
