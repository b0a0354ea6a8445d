// Package version reports build metadata stamped in via -ldflags
package version

// EngineVersion is bumped whenever scoring weights, thresholds or lexicons change
// so persisted verdicts can be traced to the rules that produced them
const EngineVersion = 1

// BuildInfo holds version information about the binary
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Engine  int    `json:"engine"`
}

// Set via -ldflags "-X 'trustrank/internal/core/version.version=v0.1.0'
// -X 'trustrank/internal/core/version.commit=abcd' -X 'trustrank/internal/core/version.date=2026-10-01'"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info returns the build information for service
func Info(service string) BuildInfo {
	if service == "" {
		service = "trustrank"
	}
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
		Engine:  EngineVersion,
	}
}
