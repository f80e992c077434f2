package render

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/teranos/autobuild/errors"
)

// Entry is one directory entry seen through a Sink.
type Entry struct {
	Name  string
	IsDir bool
}

// Sink receives artifacts. FileSink writes them; CheckSink compares them
// with what is on disk.
type Sink interface {
	WriteFile(path string, data []byte) error
	ReadFile(path string) ([]byte, error)
	Remove(path string) error
	// ReadDir lists dir sorted by name. A missing directory is empty.
	ReadDir(dir string) ([]Entry, error)
}

// SinkStats counts what a FileSink did.
type SinkStats struct {
	Written   int
	Unchanged int
	Removed   int
}

// FileSink writes artifacts to the filesystem. Files whose content is
// already current are left untouched.
type FileSink struct {
	Stats SinkStats
}

// NewFileSink returns a sink writing to disk.
func NewFileSink() *FileSink {
	return &FileSink{}
}

func (s *FileSink) WriteFile(path string, data []byte) error {
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
		s.Stats.Unchanged++
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	s.Stats.Written++
	return nil
}

func (s *FileSink) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (s *FileSink) Remove(path string) error {
	err := os.Remove(path)
	if err == nil {
		s.Stats.Removed++
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return errors.Wrapf(err, "failed to remove %s", path)
}

func (s *FileSink) ReadDir(dir string) ([]Entry, error) {
	return readDisk(dir)
}

func readDisk(dir string) ([]Entry, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to read %s", dir)
	}
	entries := make([]Entry, 0, len(des))
	for _, de := range des {
		entries = append(entries, Entry{Name: de.Name(), IsDir: de.IsDir()})
	}
	return entries, nil
}

// DriftKind classifies a difference between generated and on-disk output.
type DriftKind string

const (
	DriftMissing DriftKind = "missing"
	DriftChanged DriftKind = "changed"
	DriftStale   DriftKind = "stale"
)

// Drift is one artifact that does not match the disk.
type Drift struct {
	Path string
	Kind DriftKind
	Diff string
}

// CheckSink records what a run would change without touching the disk.
// Reads see the run's own writes and removals.
type CheckSink struct {
	written map[string][]byte
	removed map[string]bool
	drift   map[string]Drift
}

// NewCheckSink returns an empty in-memory overlay.
func NewCheckSink() *CheckSink {
	return &CheckSink{
		written: make(map[string][]byte),
		removed: make(map[string]bool),
		drift:   make(map[string]Drift),
	}
}

func (s *CheckSink) WriteFile(path string, data []byte) error {
	path = filepath.Clean(path)
	s.written[path] = append([]byte(nil), data...)
	delete(s.removed, path)

	existing, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.drift[path] = Drift{Path: path, Kind: DriftMissing}
	case err != nil:
		return errors.Wrapf(err, "failed to read %s", path)
	case !bytes.Equal(existing, data):
		s.drift[path] = Drift{Path: path, Kind: DriftChanged, Diff: LineDiff(string(existing), string(data))}
	default:
		delete(s.drift, path)
	}
	return nil
}

func (s *CheckSink) ReadFile(path string) ([]byte, error) {
	path = filepath.Clean(path)
	if data, ok := s.written[path]; ok {
		return data, nil
	}
	if s.removed[path] {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return os.ReadFile(path)
}

func (s *CheckSink) Remove(path string) error {
	path = filepath.Clean(path)
	_, wasWritten := s.written[path]
	delete(s.written, path)
	s.removed[path] = true

	if _, err := os.Stat(path); err == nil {
		s.drift[path] = Drift{Path: path, Kind: DriftStale}
	} else if wasWritten {
		delete(s.drift, path)
	}
	return nil
}

func (s *CheckSink) ReadDir(dir string) ([]Entry, error) {
	dir = filepath.Clean(dir)
	disk, err := readDisk(dir)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]Entry)
	for _, e := range disk {
		if !s.removed[filepath.Join(dir, e.Name)] {
			seen[e.Name] = e
		}
	}
	for path := range s.written {
		rel, err := filepath.Rel(dir, path)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		parts := strings.SplitN(rel, string(filepath.Separator), 2)
		seen[parts[0]] = Entry{Name: parts[0], IsDir: len(parts) > 1}
	}

	entries := make([]Entry, 0, len(seen))
	for _, e := range seen {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// UpToDate reports whether the run matched the disk exactly.
func (s *CheckSink) UpToDate() bool {
	return len(s.drift) == 0
}

// Drift returns the differences sorted by path.
func (s *CheckSink) Drift() []Drift {
	out := make([]Drift, 0, len(s.drift))
	for _, d := range s.drift {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// LineDiff renders a line-oriented diff of two texts with -/+ markers.
func LineDiff(old, new string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(old, new)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffEqual:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix + strings.TrimSuffix(line, "\n") + "\n")
		}
	}
	return out.String()
}
