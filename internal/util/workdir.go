// Package util holds small filesystem and calendar helpers shared by the
// orchestration layer that don't belong on any single domain type.
package util

import (
	"os"
	"path/filepath"
	"time"
)

// trawl recursively walks dir, appending every entry whose base name
// matches pattern to items. A Woss's working directory tree always
// lives on local disk, never behind an object store, so a plain
// os/filepath walk is all that's needed here.
func trawl(pattern, dir string, items []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return items, err
	}

	for _, e := range entries {
		full := filepath.Join(dir, e.Name())
		if e.IsDir() {
			items, err = trawl(pattern, full, items)
			if err != nil {
				return items, err
			}
			continue
		}

		match, err := filepath.Match(pattern, e.Name())
		if err != nil {
			return items, err
		}
		if match {
			items = append(items, full)
		}
	}

	return items, nil
}

// FindEngineOutputs recursively searches root for files matching pattern
// (e.g. "*.arr", "*.shd"), used by a WossManager's housekeeping pass to
// locate stale per-run engine output before pruning a working directory.
func FindEngineOutputs(root, pattern string) ([]string, error) {
	return trawl(pattern, root, nil)
}

// PruneOlderThan removes every regular file under root whose
// modification time is older than cutoff, returning the count removed.
// Used to bound the disk footprint of a long-running WossManager's
// per-(woss,freq,time,run) working directory tree.
func PruneOlderThan(root string, cutoff time.Time) (int, error) {
	removed := 0

	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	for _, e := range entries {
		full := filepath.Join(root, e.Name())
		if e.IsDir() {
			n, err := PruneOlderThan(full, cutoff)
			removed += n
			if err != nil {
				return removed, err
			}
			if isEmptyDir(full) {
				os.Remove(full)
			}
			continue
		}

		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(full); err == nil {
				removed++
			}
		}
	}

	return removed, nil
}

func isEmptyDir(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) == 0
}
