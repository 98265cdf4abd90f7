// Package ifrange expands compact interface range expressions and normalizes
// abbreviated interface names to their vendor canonical form.
//
// Supported range forms:
//
//	Gi0/[1-9]          hierarchical, unit + range
//	Gi1/0/[1-4]        hierarchical, unit/module + range
//	Te1/0/1/[1-2]      hierarchical, unit/module/port + range
//	vlan[10-20]        VLAN range
//	vlan 10            single VLAN
package ifrange

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	minVlanID = 1
	maxVlanID = 4094

	// maxRangeSize bounds the names a single hierarchical range may expand to.
	maxRangeSize = 1024
)

var (
	// ErrInvalidRangeFormat is returned when an expression matches none of the supported forms.
	ErrInvalidRangeFormat = errors.New("invalid interface range format")
	// ErrInvalidVlanRange is returned for VLAN ids outside 1..4094 or a reversed VLAN range.
	ErrInvalidVlanRange = errors.New("invalid vlan range")
)

var (
	hierarchicalPattern = regexp.MustCompile(`^([A-Za-z]+)(\d+)(?:/(\d+))?(?:/(\d+))?/\[(\d+)-(\d+)\]$`)
	vlanRangePattern    = regexp.MustCompile(`(?i)^vlan\s*\[(\d+)-(\d+)\]$`)
	vlanSinglePattern   = regexp.MustCompile(`(?i)^vlan\s*(\d+)$`)
)

// Expand turns a range expression into the ordered list of interface names it
// denotes, lowest index first. Both ends of a range are inclusive.
func Expand(expr string) ([]string, error) {
	s := strings.TrimSpace(expr)

	if m := hierarchicalPattern.FindStringSubmatch(s); m != nil {
		return expandHierarchical(expr, m)
	}
	if m := vlanRangePattern.FindStringSubmatch(s); m != nil {
		return expandVlans(expr, m[1], m[2])
	}
	if m := vlanSinglePattern.FindStringSubmatch(s); m != nil {
		return expandVlans(expr, m[1], m[1])
	}

	return nil, fmt.Errorf("%w: %q", ErrInvalidRangeFormat, expr)
}

// ExpandNormalized expands expr and normalizes every resulting name.
func ExpandNormalized(expr string) ([]string, error) {
	names, err := Expand(expr)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(names))
	for _, name := range names {
		normalized, err := Normalize(name)
		if err != nil {
			return nil, err
		}
		out = append(out, normalized)
	}
	return out, nil
}

func expandHierarchical(expr string, m []string) ([]string, error) {
	start, err := strconv.Atoi(m[5])
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRangeFormat, expr)
	}
	end, err := strconv.Atoi(m[6])
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRangeFormat, expr)
	}
	if start > end {
		return nil, fmt.Errorf("%w: %q: start %d is greater than end %d", ErrInvalidRangeFormat, expr, start, end)
	}
	if end-start >= maxRangeSize {
		return nil, fmt.Errorf("%w: %q: expands to more than %d names", ErrInvalidRangeFormat, expr, maxRangeSize)
	}

	base := m[1] + m[2]
	for _, segment := range m[3:5] {
		if segment != "" {
			base += "/" + segment
		}
	}

	names := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		names = append(names, fmt.Sprintf("%s/%d", base, i))
	}
	return names, nil
}

func expandVlans(expr, startStr, endStr string) ([]string, error) {
	start, err := strconv.Atoi(startStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVlanRange, expr)
	}
	end, err := strconv.Atoi(endStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVlanRange, expr)
	}

	if start < minVlanID || end > maxVlanID {
		return nil, fmt.Errorf("%w: %q: ids must be within %d-%d", ErrInvalidVlanRange, expr, minVlanID, maxVlanID)
	}
	if start > end {
		return nil, fmt.Errorf("%w: %q: start %d is greater than end %d", ErrInvalidVlanRange, expr, start, end)
	}

	names := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		names = append(names, "vlan"+strconv.Itoa(i))
	}
	return names, nil
}
