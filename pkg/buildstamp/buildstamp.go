package buildstamp

import (
	"fmt"
	"io"
	"runtime"
	"strings"
)

// ldflags provide these values at release-build time. A binary built with
// plain `go build` reports a dev version.
var (
	// VersionNumber is the version number in semver format MAJOR.MINOR.PATCH.
	VersionNumber string

	// Commit is the git commit hash of the revision used to build the binary.
	Commit string

	// BuildTimestamp is the timestamp at which the binary was built in
	// ISO 8601 format.
	BuildTimestamp string
)

type buildStamp struct{}

func Get() *buildStamp {
	return &buildStamp{}
}

// Version returns a short version string, e.g. 0.3.1+8f2a91c.
func (b *buildStamp) Version() string {
	if strings.TrimSpace(VersionNumber) == "" {
		return "0.0.0-dev"
	}
	if Commit == "" {
		return VersionNumber
	}
	return fmt.Sprintf("%s+%s", VersionNumber, Commit)
}

// PrintVerboseVersion prints a verbose listing of the version variables
// to the io.Writer argument
func PrintVerboseVersion(w io.Writer) {
	fmt.Fprint(w, "\n")
	fmt.Fprintf(w, "Version Number: %v\n", VersionNumber)
	fmt.Fprintf(w, "Commit:         %v\n", Commit)
	fmt.Fprintf(w, "Build Date:     %v\n", BuildTimestamp)
	fmt.Fprintf(w, "Runtime:        %v\n", runtime.Version())
}
