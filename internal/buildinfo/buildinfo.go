package buildinfo

import "fmt"

// Version is set at build time via -ldflags.
var Version = "dev"

// Commit is set at build time via -ldflags.
var Commit = "unknown"

// Date is set at build time via -ldflags.
var Date = "unknown"

// Short returns a compact build identifier for the window title and logs.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}

// Title decorates a window title with the short build identifier.
func Title(name string) string {
	return name + " (" + Short() + ")"
}

// String returns the full build identifier printed by -version.
func String() string {
	return fmt.Sprintf("valewind %s (commit %s, built %s)", Version, Commit, Date)
}
