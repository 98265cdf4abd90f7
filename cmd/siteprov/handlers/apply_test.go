package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siteprov/siteprov/internal/config"
	"github.com/siteprov/siteprov/internal/inventory"
	"github.com/siteprov/siteprov/internal/platform/netbox"
	itesting "github.com/siteprov/siteprov/internal/testing"
)

const siteYAML = `site_name: site
manufacturer_name: Cisco
prefix: 10.0.0.0/16
devices:
  - model: C9300-48P
    role: Access Switch
    role_color: 00ff00
    name_suffix: sw
    count: 2
    subnet: 10.0.0.0/30
    interfaces:
      - interface_range: Gi1/0/[1-4]
        interface_type: 1000base-t
      - interface_range: vlan 10
        interface_type: virtual
        primary: true
`

func writeSiteFile(t *testing.T) string {
	t.Helper()
	return writeFile(t, siteYAML)
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// useFakeBackend routes Apply to repo and captures stdout.
func useFakeBackend(t *testing.T, repo inventory.Repository) *bytes.Buffer {
	t.Helper()
	loadConnection = func(string) (*config.Connection, error) {
		return &config.Connection{Backend: config.BackendNetBox, Timeouts: config.DefaultTimeouts()}, nil
	}
	newRepository = func(context.Context, *config.Connection, string, logr.Logger, prometheus.Registerer) (inventory.Repository, func() error, error) {
		return repo, func() error { return nil }, nil
	}
	newRunID = func() string { return "run-1" }

	var out bytes.Buffer
	stdout = &out
	return &out
}

func TestApply_Success(t *testing.T) {
	saveAndRestoreFactories(t)
	repo := itesting.NewFakeRepository()
	out := useFakeBackend(t, repo)

	err := Apply(context.Background(), ApplyOptions{SpecPath: writeSiteFile(t)})
	require.NoError(t, err)

	assert.Equal(t, 2, repo.CreateCount(inventory.KindDevice))
	text := out.String()
	assert.Contains(t, text, "siteprov: site")
	assert.Contains(t, text, "site-sw-01")
	assert.Contains(t, text, "10.0.0.1/30")
	assert.Contains(t, text, "10.0.0.2/30")
	assert.Contains(t, text, "site provisioned")
}

func TestApply_SurvivedFailuresAreReturned(t *testing.T) {
	saveAndRestoreFactories(t)
	repo := itesting.NewFakeRepository()
	repo.FailCreate = func(obj inventory.Object) error {
		if d, ok := obj.(inventory.Device); ok && d.Name == "site-sw-02" {
			return &inventory.CreationError{Kind: inventory.KindDevice, Status: 400, Message: "rack is full"}
		}
		return nil
	}
	out := useFakeBackend(t, repo)

	err := Apply(context.Background(), ApplyOptions{SpecPath: writeSiteFile(t)})
	require.ErrorIs(t, err, inventory.ErrEntityCreationFailed)

	text := out.String()
	assert.Contains(t, text, "site-sw-01")
	assert.Contains(t, text, "rack is full")
	assert.Contains(t, text, "completed with errors")
}

func TestApply_PrintsHintForRejectedToken(t *testing.T) {
	saveAndRestoreFactories(t)
	repo := itesting.NewFakeRepository()
	repo.FindErrors[inventory.KindSite] = &netbox.APIError{
		Method: http.MethodGet, Path: "dcim/sites/", Status: http.StatusForbidden, Message: `{"detail":"Invalid token"}`,
	}
	out := useFakeBackend(t, repo)

	err := Apply(context.Background(), ApplyOptions{SpecPath: writeSiteFile(t)})
	require.Error(t, err)
	assert.True(t, netbox.IsUnauthorized(err))
	assert.Contains(t, out.String(), "completed with errors")
	assert.Contains(t, out.String(), "hint: the inventory rejected the API token")
}

func TestErrorHint(t *testing.T) {
	apiErr := func(status int) error {
		return fmt.Errorf("failed to query site: %w", &netbox.APIError{Method: http.MethodGet, Path: "dcim/sites/", Status: status})
	}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "no error", err: nil, want: ""},
		{name: "unauthorized", err: apiErr(http.StatusUnauthorized), want: "netbox.api_token"},
		{name: "not found", err: apiErr(http.StatusNotFound), want: "netbox.url"},
		{name: "rate limited", err: errors.Join(apiErr(http.StatusTooManyRequests)), want: "timeouts.retry_max_attempts"},
		{name: "rejected device", err: &inventory.CreationError{Kind: inventory.KindDevice, Status: 400, Message: "bad"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hint := errorHint(tt.err)
			if tt.want == "" {
				assert.Empty(t, hint)
				return
			}
			assert.Contains(t, hint, tt.want)
		})
	}
}

func TestApply_WritesMetricsFile(t *testing.T) {
	saveAndRestoreFactories(t)
	useFakeBackend(t, itesting.NewFakeRepository())

	var written string
	writeMetrics = func(path string, g prometheus.Gatherer) error {
		written = path
		_, err := g.Gather()
		return err
	}

	metricsPath := filepath.Join(t.TempDir(), "siteprov.prom")
	err := Apply(context.Background(), ApplyOptions{SpecPath: writeSiteFile(t), MetricsFile: metricsPath})
	require.NoError(t, err)
	assert.Equal(t, metricsPath, written)

	writeMetrics = func(string, prometheus.Gatherer) error { return errors.New("read-only file system") }
	err = Apply(context.Background(), ApplyOptions{SpecPath: writeSiteFile(t), MetricsFile: metricsPath})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write metrics")
}

func TestApply_LoadErrors(t *testing.T) {
	saveAndRestoreFactories(t)
	called := false
	newRepository = func(context.Context, *config.Connection, string, logr.Logger, prometheus.Registerer) (inventory.Repository, func() error, error) {
		called = true
		return nil, nil, errors.New("unexpected")
	}

	err := Apply(context.Background(), ApplyOptions{SpecPath: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read site file")

	loadConnection = func(string) (*config.Connection, error) {
		return nil, errors.New("connection validation failed: netbox.api_token is required")
	}
	err = Apply(context.Background(), ApplyOptions{SpecPath: writeSiteFile(t)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "netbox.api_token is required")
	assert.False(t, called)
}

func TestOpenRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("netbox", func(t *testing.T) {
		conn := &config.Connection{
			Backend:  config.BackendNetBox,
			NetBox:   config.NetBoxConnection{URL: "https://netbox.example.com", APIToken: "secret"},
			Timeouts: config.DefaultTimeouts(),
		}
		repo, closeRepo, err := openRepository(ctx, conn, "run-1", logr.Discard(), prometheus.NewRegistry())
		require.NoError(t, err)
		assert.IsType(t, &netbox.Client{}, repo)
		assert.NoError(t, closeRepo())
	})

	t.Run("netbox without url", func(t *testing.T) {
		conn := &config.Connection{Backend: config.BackendNetBox, Timeouts: config.DefaultTimeouts()}
		_, _, err := openRepository(ctx, conn, "run-1", logr.Discard(), prometheus.NewRegistry())
		assert.ErrorContains(t, err, "failed to create netbox client")
	})

	t.Run("unsupported sql driver", func(t *testing.T) {
		conn := &config.Connection{
			Backend:  config.BackendSQL,
			Database: config.DatabaseConnection{Driver: "sqlite", DSN: "file::memory:"},
		}
		_, _, err := openRepository(ctx, conn, "run-1", logr.Discard(), prometheus.NewRegistry())
		assert.ErrorContains(t, err, "unsupported database driver")
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, _, err := openRepository(ctx, &config.Connection{Backend: "ldap"}, "run-1", logr.Discard(), nil)
		assert.ErrorContains(t, err, `unsupported backend "ldap"`)
	})
}

func saveAndRestoreFactories(t *testing.T) {
	t.Helper()
	origLoadSpecFile := loadSpecFile
	origLoadConnection := loadConnection
	origNewRepository := newRepository
	origNewReconciler := newReconciler
	origNewRunID := newRunID
	origWriteMetrics := writeMetrics
	origStdout := stdout
	origLogger := logger
	origNewZapLogger := newZapLogger

	t.Cleanup(func() {
		loadSpecFile = origLoadSpecFile
		loadConnection = origLoadConnection
		newRepository = origNewRepository
		newReconciler = origNewReconciler
		newRunID = origNewRunID
		writeMetrics = origWriteMetrics
		stdout = origStdout
		logger = origLogger
		newZapLogger = origNewZapLogger
	})
}
