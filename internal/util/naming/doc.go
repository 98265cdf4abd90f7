// Package naming derives inventory object names and slugs.
//
// Device names follow the pattern {site}-{suffix}-{index:02d}. Slugs are the
// lower-cased name with spaces replaced by underscores.
package naming
