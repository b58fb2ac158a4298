// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Halcyon is the canonical application identifier used for filesystem paths and CLI branding.
	Halcyon = "halcyon"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// UserAgent is the default HTTP User-Agent string used for requests to media servers.
	UserAgent = "halcyon/" + Version
)

// Build metadata injected at link time via -ldflags.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
