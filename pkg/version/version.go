// Package version provides version information for secure-secrets.
// These variables are set via ldflags during the build process.
package version

import "runtime"

// Name is the binary name.
const Name = "secure-secrets"

// Version is the current version of the binary.
// Set via -ldflags "-X github.com/secure-secrets/secure-secrets/pkg/version.Version=..."
var Version = "dev"

// BuildDate is the date when the binary was built.
// Set via -ldflags "-X github.com/secure-secrets/secure-secrets/pkg/version.BuildDate=..."
var BuildDate = "unknown"

// GitCommit is the git commit hash used to build the binary.
// Set via -ldflags "-X github.com/secure-secrets/secure-secrets/pkg/version.GitCommit=..."
var GitCommit = "unknown"

// String returns a formatted version string.
func String() string {
	return Version
}

// FullString returns a detailed version string including build info.
func FullString() string {
	if Version == "dev" {
		return Name + " development version"
	}
	return Name + " " + Version
}

// Info returns all version information as a map.
func Info() map[string]string {
	return map[string]string{
		"version":   Version,
		"buildDate": BuildDate,
		"gitCommit": GitCommit,
		"goVersion": runtime.Version(),
	}
}
