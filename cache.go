package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

// lockPackageDir creates pkgDir and takes its file lock, so concurrent
// runs over the same package never interleave their writes. The caller
// must call the returned unlock function.
func lockPackageDir(pkgDir string) (func(), error) {
	if err := os.MkdirAll(pkgDir, 0755); err != nil {
		return nil, errors.Wrap(err, "create package cache dir")
	}

	lock := flock.New(filepath.Join(pkgDir, ".lock"))
	if err := lock.Lock(); err != nil {
		return nil, errors.Wrap(err, "acquire package cache lock")
	}
	return func() { lock.Unlock() }, nil
}

// removeStaleOutputs deletes outputs in pkgDir whose source file is no
// longer among sources.
func removeStaleOutputs(pkgDir string, sources []string) {
	live := map[string]bool{}
	for _, src := range sources {
		live[strings.TrimSuffix(filepath.Base(src), C_SUFFIX)] = true
	}

	entries, err := os.ReadDir(pkgDir)
	if err != nil {
		return
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			continue
		}
		var stem string
		switch {
		case strings.HasSuffix(name, TACKY_SUFFIX):
			stem = strings.TrimSuffix(name, TACKY_SUFFIX)
		case strings.HasSuffix(name, IR_SUFFIX):
			stem = strings.TrimSuffix(name, IR_SUFFIX)
		default:
			continue
		}
		if live[stem] {
			continue
		}
		path := filepath.Join(pkgDir, name)
		if err := os.Remove(path); err != nil {
			fmt.Printf("warning: failed to remove stale output %s: %v\n", path, err)
		}
	}
}

// writeOutput writes one artifact into pkgDir.
func writeOutput(pkgDir, name, contents string) (string, error) {
	outPath := filepath.Join(pkgDir, name)
	if err := os.WriteFile(outPath, []byte(contents), 0644); err != nil {
		return "", errors.Wrapf(err, "write %s", outPath)
	}
	return outPath, nil
}
