package flume

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// rotatedFile is one retention candidate: a rotated segment in the log
// directory with the epoch-millis timestamp parsed from its name.
type rotatedFile struct {
	name   string
	millis int64
}

// applyRetention enforces maxRotated by deleting the oldest excess rotated
// segments after a rotation.
//
// Only names matching <base>.<digits> with an optional .gz/.zz suffix are
// candidates, and the active segment is excluded by name, so unrelated
// files sharing the directory are never touched. Candidates are sorted
// newest first by the timestamp embedded in the filename; everything past
// the first maxRotated entries is deleted.
//
// Deletion is best effort: a candidate that is already gone is ignored,
// any other per-file failure is reported and the sweep continues. A
// directory listing failure aborts the whole pass for this cycle; the next
// rotation retries it.
func (w *segmentWriter) applyRetention(maxRotated int) error {
	if maxRotated < 0 {
		maxRotated = 0
	}

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("failed to list log directory %s: %w", w.dir, err)
	}

	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(w.base) + `\.(\d+)(\.gz|\.zz)?$`)

	var rotated []rotatedFile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == w.base {
			continue
		}
		m := pattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		millis, perr := strconv.ParseInt(m[1], 10, 64)
		if perr != nil {
			continue
		}
		rotated = append(rotated, rotatedFile{name: name, millis: millis})
	}

	// Newest first by embedded timestamp.
	sort.Slice(rotated, func(i, j int) bool {
		return rotated[i].millis > rotated[j].millis
	})

	for i := maxRotated; i < len(rotated); i++ {
		name := rotated[i].name
		if !w.safeToDelete(name) {
			// Expected for crafted or unrelated entries, not an error.
			continue
		}
		if err := os.Remove(filepath.Join(w.dir, name)); err != nil && !os.IsNotExist(err) {
			reportError(fmt.Errorf("failed to remove rotated segment %s: %w", name, err))
		}
	}
	return nil
}

// safeToDelete rejects any candidate that could resolve outside the log
// directory. Directory listings are not trusted: a name containing a
// traversal sequence, or one whose resolved path escapes the resolved log
// directory, is skipped.
func (w *segmentWriter) safeToDelete(name string) bool {
	if strings.Contains(name, "../") || strings.Contains(name, `..\`) || strings.HasPrefix(name, "..") {
		return false
	}

	resolvedDir, err := filepath.Abs(w.dir)
	if err != nil {
		return false
	}
	resolved, err := filepath.Abs(filepath.Join(w.dir, name))
	if err != nil {
		return false
	}
	if resolved == resolvedDir {
		// The directory itself is never a deletion target.
		return false
	}
	return strings.HasPrefix(resolved, resolvedDir+string(filepath.Separator))
}
