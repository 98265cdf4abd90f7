package ifrange

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidInterfaceName is returned when a name has no leading alphabetic prefix.
var ErrInvalidInterfaceName = errors.New("invalid interface name")

var namePattern = regexp.MustCompile(`^([A-Za-z]+)(.*)$`)

// canonicalPrefixes maps lower-cased abbreviations to vendor interface type names.
var canonicalPrefixes = map[string]string{
	"gi": "GigabitEthernet",
	"ge": "GigabitEthernet",
	"fa": "FastEthernet",
	"te": "TenGigabitEthernet",
	"et": "Ethernet",
}

// Normalize replaces a known abbreviated prefix with its canonical vendor name.
// Unknown prefixes, including "vlan", are returned unchanged.
func Normalize(name string) (string, error) {
	m := namePattern.FindStringSubmatch(name)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidInterfaceName, name)
	}

	if canonical, ok := canonicalPrefixes[strings.ToLower(m[1])]; ok {
		return canonical + m[2], nil
	}
	return name, nil
}
