// Package version exposes the build metadata linked into the binary.
package version

import (
	"fmt"
	"runtime"
)

// Set with -ldflags at release build time. The defaults identify a
// plain source build.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info is the resolved build metadata of the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// Get resolves the linked metadata plus the runtime it was built with.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String renders the one-line form printed by "arcops version".
func (i Info) String() string {
	commit := i.Commit
	if len(commit) > 8 {
		commit = commit[:8]
	}
	return fmt.Sprintf("arcops %s (commit %s, built %s, %s, %s)",
		i.Version, commit, i.Date, i.GoVersion, i.Platform)
}

// Short returns only the version number, for scripting.
func (i Info) Short() string {
	return i.Version
}
