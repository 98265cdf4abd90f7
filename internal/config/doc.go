// Package config loads the declarative site description and the connection
// settings of the inventory backend.
//
// A [SiteSpec] is read from YAML and validated up front, including the
// expansion of every interface range, so that malformed input is rejected
// before any inventory object is written. [Connection] is loaded with viper
// from a file and SITEPROV_* environment variables.
package config
