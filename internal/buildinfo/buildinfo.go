// Package buildinfo carries version stamps injected with -ldflags -X.
package buildinfo

// Version is set at build time via -ldflags.
var Version = "dev"

// Commit is set at build time via -ldflags.
var Commit = "unknown"

// Date is set at build time via -ldflags.
var Date = "unknown"

// Short returns a compact build identifier for the boot line and window title.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		if len(Commit) > 7 {
			return Commit[:7]
		}
		return Commit
	}
	return "dev"
}

// Long returns every stamp, for -version output.
func Long() string {
	return "matrixloop " + Version + " (commit " + Commit + ", built " + Date + ")"
}
