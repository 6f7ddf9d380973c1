package types

// Version is the herald version, overwritten at build time via -ldflags.
var Version = "dev"

const (
	// DefaultContentType is used for artifacts whose type can not be resolved
	DefaultContentType = "application/octet-stream"

	// DefaultChangelogHeading is the heading of the changelog section in release body
	DefaultChangelogHeading = "## Changelog"

	// EmptyChangelog is written when no commit exists between two releases
	EmptyChangelog = "n/a"
)
