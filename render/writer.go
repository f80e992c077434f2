package render

import (
	"bytes"
	"path/filepath"
	"sort"
	"strings"

	"github.com/teranos/autobuild/errors"
)

// Writer renders every target of a method into a sink and remembers what
// it produced, so a full run can prune what it no longer generates.
type Writer struct {
	layout   *Layout
	sink     Sink
	targets  []Target
	produced map[string]bool
}

// NewWriter returns a writer for the given targets.
func NewWriter(layout *Layout, sink Sink, targets ...Target) *Writer {
	return &Writer{
		layout:   layout,
		sink:     sink,
		targets:  targets,
		produced: make(map[string]bool),
	}
}

// Layout returns the writer's layout.
func (w *Writer) Layout() *Layout { return w.layout }

// Sink returns the writer's sink.
func (w *Writer) Sink() Sink { return w.sink }

// Emit renders and writes every target for m. The returned paths are in
// target order.
func (w *Writer) Emit(c *Context, m *Method) ([]string, error) {
	paths := make([]string, 0, len(w.targets))
	for _, t := range w.targets {
		data, err := t.Render(c, m)
		if err != nil {
			return paths, errors.Wrapf(err, "%s target for %s.%s", t.Name(), m.Module, m.Name)
		}
		path := t.Path(w.layout, m)
		if err := w.Write(path, data); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Write writes one artifact and records it as produced.
func (w *Writer) Write(path string, data []byte) error {
	w.produced[filepath.Clean(path)] = true
	return w.sink.WriteFile(path, data)
}

// Prune removes every artifact of a method, as for a deprecated method.
func (w *Writer) Prune(module, method string) ([]string, error) {
	m := &Method{Module: module, Name: method}
	var removed []string
	for _, t := range w.targets {
		path := t.Path(w.layout, m)
		if _, err := w.sink.ReadFile(path); err != nil {
			continue
		}
		if err := w.sink.Remove(path); err != nil {
			return removed, err
		}
		removed = append(removed, path)
	}
	return removed, nil
}

// Produced reports whether path was written by this writer.
func (w *Writer) Produced(path string) bool {
	return w.produced[filepath.Clean(path)]
}

// Sweep removes generated files this run did not produce. A file counts
// as generated when it carries GeneratedMarker, lives in the MCP output
// directory, or is an empty package marker in a commands subdirectory.
func (w *Writer) Sweep() ([]string, error) {
	var removed []string

	sweep := func(dir string, owned bool) error {
		entries, err := w.sink.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.IsDir {
				continue
			}
			path := filepath.Join(dir, e.Name)
			if w.Produced(path) {
				continue
			}
			if !owned {
				generated, err := w.isGenerated(path)
				if err != nil {
					return err
				}
				if !generated {
					continue
				}
			}
			if err := w.sink.Remove(path); err != nil {
				return err
			}
			removed = append(removed, path)
		}
		return nil
	}

	commands := w.layout.CommandsDir()
	if err := sweep(commands, false); err != nil {
		return removed, err
	}
	entries, err := w.sink.ReadDir(commands)
	if err != nil {
		return removed, err
	}
	for _, e := range entries {
		if e.IsDir {
			if err := sweep(filepath.Join(commands, e.Name), false); err != nil {
				return removed, err
			}
		}
	}
	if err := sweep(w.layout.DescriptorDir(), false); err != nil {
		return removed, err
	}
	if err := sweep(w.layout.MCPDir(), true); err != nil {
		return removed, err
	}

	sort.Strings(removed)
	return removed, nil
}

// Stale reports whether path is a generated file this run did not
// produce, which the next sweep removes.
func (w *Writer) Stale(path string) (bool, error) {
	if w.Produced(path) {
		return false, nil
	}
	return w.isGenerated(path)
}

func (w *Writer) isGenerated(path string) (bool, error) {
	data, err := w.sink.ReadFile(path)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", path)
	}
	if bytes.Contains(data, []byte(GeneratedMarker)) {
		return true, nil
	}
	if filepath.Base(path) == "__init__.py" && filepath.Dir(filepath.Dir(path)) == filepath.Clean(w.layout.CommandsDir()) {
		return len(strings.TrimSpace(string(data))) == 0, nil
	}
	return false, nil
}
