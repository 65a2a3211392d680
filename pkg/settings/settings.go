// Package settings provides build metadata, per-run CLI settings, and
// context helpers shared by the mdplay commands.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "mdplay"

// VersionInformation is populated at build time via ldflags and holds the
// commit hash, semantic version, and build timestamp of the running binary.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build, including the commit hash,
// build version, and build timestamp.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// InputSettings records where the markdown document came from.
type InputSettings struct {
	FromStdin bool
	Path      string
}

// Run holds the settings of one CLI invocation.
type Run struct {
	MinLogLevel int8
	// LogFile receives log output. Empty means stderr for batch commands
	// and nowhere while the full-screen UI owns the terminal.
	LogFile     string
	Input       InputSettings
	Interactive bool
	NoColor     bool
}

// NewCliParams returns the defaults for a CLI run: info level logging,
// interactive and colored.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		Interactive: true,
		NoColor:     false,
	}
}

// LogToStderr reports whether log output may go to stderr without
// corrupting the display.
func (r *Run) LogToStderr() bool {
	return r.LogFile == "" && !r.Interactive
}
