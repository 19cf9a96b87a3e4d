// Package version reports build metadata, injected via ldflags or read from
// the VCS stamps the Go toolchain embeds.
package version

import (
	"fmt"
	"runtime/debug"
)

const (
	unsetVersion = "dev"
	unsetStamp   = "unknown"
)

//nolint:revive // Set via ldflags at build time.
var (
	Version = unsetVersion
	Commit  = unsetStamp
	Date    = unsetStamp
)

// Info is the resolved build metadata.
type Info struct {
	Version   string
	Commit    string
	Date      string
	GoVersion string
}

// Get returns the ldflags values. Values left unset fall back to the module
// version and the vcs.revision / vcs.time build settings.
func Get() Info {
	bi, _ := debug.ReadBuildInfo()
	return resolve(bi)
}

func resolve(bi *debug.BuildInfo) Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}
	if bi == nil {
		return info
	}

	info.GoVersion = bi.GoVersion
	if info.Version == unsetVersion && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == unsetStamp {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == unsetStamp {
				info.Date = s.Value
			}
		}
	}
	return info
}

// String renders the one-line form used in logs.
func (i Info) String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", i.Version, i.Commit, i.Date)
}
