// Package main is the entry point for the siteprov CLI.
//
// siteprov provisions a site's inventory records (site, manufacturer, prefix,
// device types with interface templates, roles, devices, and addresses) from a
// declarative YAML description into NetBox or a SQL-backed inventory.
//
// Commands: apply, validate, expand, version.
//
// For detailed usage information, run:
//
//	siteprov --help
package main

import (
	"fmt"
	"os"

	"github.com/siteprov/siteprov/cmd/siteprov/commands"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
