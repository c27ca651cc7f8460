// Package version provides version information for the kin-sender application.
package version

// Version is the current version of the kin-sender application.
const Version = "0.1.0"

// AgentString returns the full agent string with versioning.
// Format: kin-sdk-go/v{version}
func AgentString() string {
	return "kin-sdk-go/v" + Version
}
