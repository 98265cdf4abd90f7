// Package orchestration provides high-level workflow coordination for site provisioning.
//
// This package orchestrates the provisioning workflow by delegating to specialized
// provisioners in the internal/provisioning subpackages. It defines the execution order
// and coordinates state flow between provisioning phases.
//
// # Workflow
//
// The Reconciler executes the following phases in order:
//  1. Foundation - Site, manufacturer, prefix
//  2. Devices - Device types, templates, roles, devices, addresses
//
// # Usage
//
//	reconciler := orchestration.NewReconciler(repo, spec, observer)
//	state, err := reconciler.Reconcile(ctx)
//
// The reconciler is idempotent for everything but devices: re-running reuses
// existing objects and allocates the next free device names. It assumes no
// other writer provisions against the same repository at the same time.
package orchestration
