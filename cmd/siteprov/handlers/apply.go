package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/siteprov/siteprov/internal/config"
	"github.com/siteprov/siteprov/internal/inventory"
	"github.com/siteprov/siteprov/internal/orchestration"
	"github.com/siteprov/siteprov/internal/platform/netbox"
	"github.com/siteprov/siteprov/internal/platform/sqlstore"
	"github.com/siteprov/siteprov/internal/provisioning"
)

// ApplyOptions holds the inputs of Apply.
type ApplyOptions struct {
	SpecPath       string
	ConnectionPath string
	MetricsFile    string
}

// Reconciler interface for testing - matches orchestration.Reconciler.
type Reconciler interface {
	Reconcile(ctx context.Context) (*provisioning.State, error)
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadSpecFile loads and validates the site file.
	loadSpecFile = config.LoadSpec

	// loadConnection loads the inventory connection settings.
	loadConnection = config.LoadConnection

	// newRepository opens the configured inventory backend.
	newRepository = openRepository

	// newReconciler creates the site reconciler.
	newReconciler = func(repo inventory.Repository, spec *config.SiteSpec, observer provisioning.Observer, runID string) Reconciler {
		return orchestration.NewReconciler(repo, spec, observer).WithRunID(runID)
	}

	// newRunID generates the correlation id of a run.
	newRunID = uuid.NewString

	// writeMetrics writes gathered metrics in text format.
	writeMetrics = prometheus.WriteToTextfile

	// stdout receives human-readable output.
	stdout io.Writer = os.Stdout
)

// Apply provisions the site described by opts.SpecPath.
//
// This function orchestrates the complete provisioning workflow:
//  1. Loads and validates the site file
//  2. Loads the connection settings and opens the inventory backend
//  3. Reconciles the site (foundation, then device groups)
//  4. Prints a summary of what was provisioned, even when the run failed
//  5. Writes API call metrics when a metrics file is requested
//
// The returned error joins the failure that stopped the run, if any, with the
// failures the run survived (rejected devices, exhausted subnets, missing
// interfaces).
func Apply(ctx context.Context, opts ApplyOptions) error {
	spec, err := loadSpecFile(specPath(opts.SpecPath))
	if err != nil {
		return err
	}

	conn, err := loadConnection(opts.ConnectionPath)
	if err != nil {
		return err
	}

	runID := newRunID()
	log := logger.WithValues("run", runID)
	registry := prometheus.NewRegistry()

	repo, closeRepo, err := newRepository(ctx, conn, runID, log, registry)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeRepo(); cerr != nil {
			log.Error(cerr, "failed to close inventory backend")
		}
	}()

	log.Info("provisioning site", "site", spec.SiteName, "backend", conn.Backend, "groups", len(spec.Devices))

	observer := provisioning.NewLogObserver(logger)
	state, runErr := newReconciler(repo, spec, observer, runID).Reconcile(ctx)

	printSummary(stdout, spec, state, runErr)
	if hint := errorHint(runErr); hint != "" {
		fmt.Fprintln(stdout, dimStyle.Render("  hint: "+hint))
	}

	if opts.MetricsFile != "" {
		if err := writeMetrics(opts.MetricsFile, registry); err != nil {
			runErr = errors.Join(runErr, fmt.Errorf("failed to write metrics: %w", err))
		}
	}
	return runErr
}

// errorHint suggests a fix for inventory API failures the user can act on.
func errorHint(err error) string {
	switch {
	case err == nil:
		return ""
	case netbox.IsUnauthorized(err):
		return "the inventory rejected the API token, check netbox.api_token or SITEPROV_NETBOX_API_TOKEN"
	case netbox.IsNotFound(err):
		return "the inventory answered 404, check that netbox.url points at the NetBox root without /api"
	case netbox.IsRetryable(err):
		return "the inventory is rate limiting or unavailable, set timeouts.retry_max_attempts to retry"
	}
	return ""
}

func specPath(path string) string {
	if path == "" {
		return config.DefaultSpecFilename
	}
	return path
}

// openRepository returns the inventory backend selected by conn and a function
// releasing it.
func openRepository(
	ctx context.Context,
	conn *config.Connection,
	runID string,
	log logr.Logger,
	reg prometheus.Registerer,
) (inventory.Repository, func() error, error) {
	switch conn.Backend {
	case config.BackendNetBox:
		client, err := netbox.NewClient(conn.NetBox.URL, conn.NetBox.APIToken,
			netbox.WithTimeout(conn.Timeouts.Request),
			netbox.WithInsecureSkipVerify(conn.NetBox.InsecureSkipVerify),
			netbox.WithRequestID(runID),
			netbox.WithLogger(log.WithName("netbox")),
			netbox.WithRegisterer(reg),
			netbox.WithRetry(conn.Timeouts.RetryMaxAttempts, conn.Timeouts.RetryInitialDelay, conn.Timeouts.RetryMaxDelay),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create netbox client: %w", err)
		}
		return client, func() error { return nil }, nil

	case config.BackendSQL:
		store, err := sqlstore.Open(conn.Database.Driver, conn.Database.DSN)
		if err != nil {
			return nil, nil, err
		}
		if conn.Database.AutoMigrate {
			if err := store.Migrate(ctx); err != nil {
				_ = store.Close()
				return nil, nil, err
			}
		}
		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported backend %q", conn.Backend)
	}
}
