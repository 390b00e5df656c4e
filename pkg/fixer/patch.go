package fixer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Patch is a literal substitution applied to one file under the root.
type Patch struct {
	File string
	Old  string
	New  string
}

// ApplyPatch replaces every occurrence of p.Old in root/p.File with p.New.
// The file is written only when its content changes, and never in a dry
// run. A missing file is reported, not treated as an error.
func ApplyPatch(root string, p Patch, dryRun bool) (PatchOutcome, error) {
	outcome := PatchOutcome{File: filepath.ToSlash(p.File)}
	path := filepath.Join(root, p.File)

	info, statErr := os.Stat(path)
	if statErr != nil {
		if errors.Is(statErr, fs.ErrNotExist) {
			outcome.Missing = true

			return outcome, nil
		}

		return outcome, fmt.Errorf("stat %s: %w", path, statErr)
	}

	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return outcome, fmt.Errorf("read %s: %w", path, readErr)
	}

	patched := strings.ReplaceAll(string(data), p.Old, p.New)
	if patched == string(data) {
		return outcome, nil
	}

	outcome.Applied = true

	if dryRun {
		return outcome, nil
	}

	writeErr := os.WriteFile(path, []byte(patched), info.Mode().Perm())
	if writeErr != nil {
		outcome.Applied = false

		return outcome, fmt.Errorf("write %s: %w", path, writeErr)
	}

	return outcome, nil
}
