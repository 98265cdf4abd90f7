// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"github.com/go-logr/logr"

	"github.com/siteprov/siteprov/internal/logging"
)

var (
	// logger is the process logger, set by ConfigureLogging.
	logger = logr.Discard()

	// newZapLogger builds the zap backend (for testing injection).
	newZapLogger = logging.New
)

// ConfigureLogging builds the process logger from opts.
func ConfigureLogging(opts logging.Options) error {
	z, err := newZapLogger(opts)
	if err != nil {
		return err
	}
	logger = logging.Logr(z)
	return nil
}
