// Package provisioning provides shared types, interfaces, and helpers for
// provisioning a site into the inventory.
//
// # Subpackages
//
//   - foundation/: Site, Manufacturer, Prefix
//   - devices/: Device types and templates, roles, devices, address binding
//
// # Core Types
//
// Context carries the repository, the site description, run state, and the observer.
// Phase defines a provisioning step with Name() and Provision() methods.
// State accumulates results from each phase (foundation IDs, devices, addresses)
// and the failures that did not stop the run.
//
// The root package also holds the allocation helpers the phases share:
// AllocateDeviceNames probes the repository for free sequential device names and
// FindFreeAddresses picks unused host addresses inside a subnet.
package provisioning
