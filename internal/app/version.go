package app

import (
	"fmt"
	"runtime/debug"
)

// Build metadata. Release builds stamp it with
//
//	go build -ldflags "-X github.com/heartmarshall/phoneshop-backend/internal/app.Version=1.4.0" ./cmd/server
//
// Commit and BuildTime fall back to the VCS stamp the toolchain embeds.
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == "" {
				Commit = s.Value
				if len(Commit) > 12 {
					Commit = Commit[:12]
				}
			}
		case "vcs.time":
			if BuildTime == "" {
				BuildTime = s.Value
			}
		}
	}
}

// BuildVersion is the version line written to the startup log.
func BuildVersion() string {
	commit, built := Commit, BuildTime
	if commit == "" {
		commit = "unknown"
	}
	if built == "" {
		built = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, commit, built)
}
