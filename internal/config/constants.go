// Package config holds shared, package-level constants for the Nova
// toolchain, the way funxy/internal/config/constants.go does rather
// than threading a config struct through every CLI and stage.
package config

// Version is the current Nova toolchain version. Set at build time by
// a release script via -ldflags, or left at this default otherwise.
var Version = "0.1.0"

// SourceFileExt is the canonical Nova source extension.
const SourceFileExt = ".nova"

// HasSourceExt reports whether path ends with the Nova source
// extension.
func HasSourceExt(path string) bool {
	return len(path) >= len(SourceFileExt) && path[len(path)-len(SourceFileExt):] == SourceFileExt
}

// TrimSourceExt removes a trailing Nova source extension from name.
// Returns name unchanged if it does not end with one.
func TrimSourceExt(name string) string {
	if HasSourceExt(name) {
		return name[:len(name)-len(SourceFileExt)]
	}
	return name
}

// ManifestFileName is the project manifest nova-new scaffolds.
const ManifestFileName = "nova.toml"
