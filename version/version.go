package version

import (
	"fmt"
	"runtime"
	"time"
)

// Set with -ldflags "-X horde/version.BuildDate=2026-03-01 ...".
var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
	BuildBranch string
)

// Build numbers count days since the first playtest.
var buildEpoch = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

type VersionInfo struct {
	Build     int    `json:"build"`
	BuildDate string `json:"buildDate"`
	Commit    string `json:"commit"`
	Branch    string `json:"branch"`
	Go        string `json:"go"`
	Error     string `json:"error,omitempty"`
}

func BuildNumber() (int, error) {
	if BuildDate == "" {
		return 0, fmt.Errorf("BuildDate is empty")
	}
	t, err := time.ParseInLocation("2006-01-02", BuildDate, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid BuildDate %q: %w", BuildDate, err)
	}
	if t.Before(buildEpoch) {
		return 0, fmt.Errorf("BuildDate %s is before epoch", BuildDate)
	}
	return int(t.Sub(buildEpoch).Hours() / 24), nil
}

// Info is safe to call at any time; a missing or bad build date only fills
// Error.
func Info() VersionInfo {
	info := VersionInfo{
		BuildDate: BuildDate,
		Commit:    BuildCommit,
		Branch:    BuildBranch,
		Go:        runtime.Version(),
	}
	n, err := BuildNumber()
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.Build = n
	return info
}

func String() string {
	info := Info()
	if info.Error != "" {
		return fmt.Sprintf("horde dev build (%s)", info.Error)
	}
	return fmt.Sprintf("horde build %d (%s) commit[%s] branch[%s]",
		info.Build, info.BuildDate, orUnknown(info.Commit), orUnknown(info.Branch))
}

func orUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
