package foundation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siteprov/siteprov/internal/inventory"
	"github.com/siteprov/siteprov/internal/provisioning"
	"github.com/siteprov/siteprov/internal/provisioning/foundation"
	itesting "github.com/siteprov/siteprov/internal/testing"
)

func TestProvisioner_Provision(t *testing.T) {
	t.Parallel()
	repo := itesting.NewFakeRepository()
	spec := itesting.NewSiteBuilder().WithSiteName("Ams 1").Build()
	ctx := provisioning.NewContext(itesting.TestContext(t), repo, spec, nil)

	p := foundation.NewProvisioner()
	assert.Equal(t, "foundation", p.Name())
	require.NoError(t, p.Provision(ctx))

	site, ok := repo.Get(inventory.KindSite, ctx.State.SiteID)
	require.True(t, ok)
	assert.Equal(t, "Ams 1", site["name"])
	assert.Equal(t, "ams_1", site["slug"])

	manufacturer, ok := repo.Get(inventory.KindManufacturer, ctx.State.ManufacturerID)
	require.True(t, ok)
	assert.Equal(t, "cisco", manufacturer["slug"])

	prefix, ok := repo.Get(inventory.KindPrefix, ctx.State.PrefixID)
	require.True(t, ok)
	assert.Equal(t, "10.0.0.0/16", prefix["prefix"])
	assert.Equal(t, inventory.StatusActive, prefix["status"])
}

func TestProvisioner_Idempotent(t *testing.T) {
	t.Parallel()
	repo := itesting.NewFakeRepository()
	spec := itesting.NewSiteBuilder().Build()

	first := provisioning.NewContext(itesting.TestContext(t), repo, spec, nil)
	require.NoError(t, foundation.NewProvisioner().Provision(first))

	observer := provisioning.NewRecordingObserver()
	second := provisioning.NewContext(itesting.TestContext(t), repo, spec, observer)
	require.NoError(t, foundation.NewProvisioner().Provision(second))

	assert.Equal(t, first.State.SiteID, second.State.SiteID)
	assert.Equal(t, first.State.ManufacturerID, second.State.ManufacturerID)
	assert.Equal(t, first.State.PrefixID, second.State.PrefixID)
	assert.Len(t, observer.Events(provisioning.EventResourceExists), 3)
	assert.Empty(t, observer.Events(provisioning.EventResourceCreated))
	for _, kind := range []inventory.Kind{inventory.KindSite, inventory.KindManufacturer, inventory.KindPrefix} {
		assert.Equal(t, 1, repo.CreateCount(kind), kind.String())
	}
}

func TestProvisioner_RecoversDuplicate(t *testing.T) {
	t.Parallel()
	repo := itesting.NewFakeRepository()
	existing := repo.SeedObject(inventory.Site{Name: "site", Slug: "site"})
	repo.HiddenFinds[inventory.KindSite] = 1

	ctx := provisioning.NewContext(itesting.TestContext(t), repo, itesting.NewSiteBuilder().Build(), nil)
	require.NoError(t, foundation.NewProvisioner().ProvisionSite(ctx))

	assert.Equal(t, existing, ctx.State.SiteID)
	assert.Equal(t, provisioning.Counts{Recovered: 1}, ctx.State.Resources()[inventory.KindSite])
}

func TestProvisioner_Failure(t *testing.T) {
	t.Parallel()
	repo := itesting.NewFakeRepository()
	repo.CreateErrors[inventory.KindManufacturer] = &inventory.CreationError{
		Kind:    inventory.KindManufacturer,
		Status:  400,
		Message: "slug: invalid",
	}
	ctx := provisioning.NewContext(itesting.TestContext(t), repo, itesting.NewSiteBuilder().Build(), nil)

	err := foundation.NewProvisioner().Provision(ctx)
	require.ErrorIs(t, err, inventory.ErrEntityCreationFailed)
	assert.Contains(t, err.Error(), `failed to ensure manufacturer "Cisco"`)
	assert.Zero(t, ctx.State.PrefixID, "prefix is not attempted after a failure")

	repo = itesting.NewFakeRepository()
	repo.FindErrors[inventory.KindSite] = errors.New("dial tcp: connection refused")
	ctx = provisioning.NewContext(itesting.TestContext(t), repo, itesting.NewSiteBuilder().Build(), nil)
	err = foundation.NewProvisioner().Provision(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, inventory.ErrEntityCreationFailed)
	assert.Contains(t, err.Error(), "connection refused")
}
