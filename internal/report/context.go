package report

import (
	"bufio"
	"os"
	"strings"
	"time"
)

// RunContext is fixed at the start of a run and read by the header only.
type RunContext struct {
	StartTime  time.Time
	JobAddress string
	Version    string
}

// NewRunContext captures the run keys. An empty version is read from the
// first line of versionFile when that file exists.
func NewRunContext(start time.Time, jobAddress, version, versionFile string) RunContext {
	if version == "" && versionFile != "" {
		version = ReadVersion(versionFile)
	}
	return RunContext{StartTime: start, JobAddress: jobAddress, Version: version}
}

// ReadVersion returns the trimmed first line of path, or "" when it cannot be
// read.
func ReadVersion(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	if sc.Scan() {
		return strings.TrimSpace(sc.Text())
	}
	return ""
}

// TestDate is the run date as YYYY-MM-DD.
func (rc RunContext) TestDate() string {
	start := rc.StartTime
	if start.IsZero() {
		start = time.Now()
	}
	return start.Format(time.DateOnly)
}
