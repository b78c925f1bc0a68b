// Package buildinfo exposes the version stamped into the shapefit binary.
//
// Release builds overwrite the variables through ldflags:
//
//	go build -ldflags "\
//	    -X github.com/ckski/Evolution-Tutorials/pkg/buildinfo.Version=$(git describe --tags) \
//	    -X github.com/ckski/Evolution-Tutorials/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/ckski/Evolution-Tutorials/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

// Defaults identify a build made without stamping.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Template renders the cobra version template: command name and version on
// the first line, commit and build date below.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
