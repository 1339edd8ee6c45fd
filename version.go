package main

import (
	"fmt"
	"runtime"
)

// Build-time variables injected via linker flags (ldflags).
//
// Development builds keep these defaults. Release builds run:
//
//	go build -ldflags "-X main.Version=$(git describe --tags) -X main.Commit=... -X main.BuildDate=..." -o cfront
var (
	Version   = "dev"     // git tag, e.g. "v0.3.0"
	Commit    = "unknown" // git commit hash
	BuildDate = "unknown" // build timestamp
)

// printVersion prints version information to stdout.
func printVersion() {
	fmt.Printf("cfront %s (%s/%s)\n", Version, runtime.GOOS, runtime.GOARCH)
	if Commit != "unknown" {
		fmt.Printf("  commit: %s\n", Commit)
	}
	if BuildDate != "unknown" {
		fmt.Printf("  built:  %s\n", BuildDate)
	}
}
