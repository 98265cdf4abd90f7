// Package foundation provisions the objects every device of a site depends on:
// the site itself, the manufacturer, and the site's address prefix. All three
// are ensured idempotently, so re-running against a partially provisioned site
// reuses what exists.
package foundation
