package version

import (
	"fmt"
	"runtime"
	"time"
)

// Build metadata, injected via -ldflags at release time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = runtime.Version()
	Platform  = runtime.GOOS + "/" + runtime.GOARCH
)

// BuildInfo describes the running schedctl binary.
type BuildInfo struct {
	Version   string    `json:"version"`
	GitCommit string    `json:"gitCommit"`
	BuildDate string    `json:"buildDate"`
	GoVersion string    `json:"goVersion"`
	Platform  string    `json:"platform"`
	BuildTime time.Time `json:"buildTime,omitempty"`
}

func (i BuildInfo) String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", i.Version, i.GitCommit, i.BuildDate)
}

func GetBuildInfo() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: GoVersion,
		Platform:  Platform,
	}
	if t, err := time.Parse(time.RFC3339, BuildDate); err == nil {
		info.BuildTime = t
	}
	return info
}
