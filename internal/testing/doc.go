// Package testing provides test doubles and builders shared by package tests.
//
//   - FakeRepository: in-memory inventory.Repository with uniqueness checks
//   - MockRepository: testify mock of inventory.Repository
//   - SiteBuilder: fluent builder for site specs
//
// Usage:
//
//	repo := testing.NewFakeRepository()
//	spec := testing.NewSiteBuilder().WithSwitches(2, "10.0.0.0/30").Build()
package testing
