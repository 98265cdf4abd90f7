// Package devices provisions the device groups of a site.
//
// For each group it ensures the device type with its interface templates and
// the device role, allocates free sequential device names, creates the
// devices, and, when the group has a subnet, binds free addresses to the
// group's primary virtual interfaces and promotes the first one to the
// device's primary IPv4 address.
//
// A device that the repository rejects is skipped together with its
// addresses. A subnet that runs out of addresses stops its group. A missing
// interface skips that address only. Everything else stops the run.
package devices
