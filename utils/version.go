package utils

// Build metadata, set at link time via -ldflags.
var (
	// Tag is the release tag.
	Tag string
	// GitHash is the commit the binary was built from.
	GitHash string
	// BuildStamp is the UTC build time.
	BuildStamp string
)
