// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/circuitview/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/circuitview/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/circuitview/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import (
	"fmt"
	"runtime"
)

// Set via ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the multi-line build description printed by
// "circuitview version".
func String() string {
	return fmt.Sprintf("circuitview %s\ncommit: %s\nbuilt:  %s\ngo:     %s %s/%s",
		Version, shortCommit(), Date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Template returns the cobra --version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (%s)\n", Version, shortCommit())
}

// UserAgent identifies circuitview to the classification backend.
func UserAgent() string {
	return "circuitview/" + Version
}

func shortCommit() string {
	if len(Commit) > 12 {
		return Commit[:12]
	}
	return Commit
}
