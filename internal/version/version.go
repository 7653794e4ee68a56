// Where: internal/version/version.go
// What: Version information retrieval.
// Why: Report which build of the stopper is deployed.
package version

import (
	"fmt"
	"runtime/debug"
)

const shortRevisionLen = 7

// Version is set at link time with
// -ldflags "-X github.com/rowdens/instance-stopper/internal/version.Version=v1.2.3".
var Version = ""

var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the link-time version if set, otherwise the VCS
// revision from build info ("dev" when unavailable), with " (dirty)" for
// modified trees.
func GetVersion() string {
	if Version != "" {
		return Version
	}
	info, ok := readBuildInfo()
	if !ok {
		return "dev"
	}
	return fromSettings(info.Settings)
}

func fromSettings(settings []debug.BuildSetting) string {
	var revision string
	var modified bool

	for _, setting := range settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
			if len(revision) > shortRevisionLen {
				revision = revision[:shortRevisionLen]
			}
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}

	if revision == "" {
		return "dev"
	}
	if modified {
		return fmt.Sprintf("%s (dirty)", revision)
	}
	return revision
}
