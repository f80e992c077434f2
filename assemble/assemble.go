// Package assemble turns a directory of generated bindings into a package:
// an aggregator registering every command under one group and an empty
// package marker.
package assemble

import (
	"path/filepath"
	"strings"

	"github.com/teranos/autobuild/render"
)

// Result describes one assembled module.
type Result struct {
	Aggregator string
	Marker     string
	// Commands are the registered binding names in registration order.
	Commands []string
}

// Assembler writes aggregators through a render.Writer so that they count
// as produced by the run.
type Assembler struct {
	w *render.Writer
}

// New returns an assembler writing through w.
func New(w *render.Writer) *Assembler {
	return &Assembler{w: w}
}

// Assemble lists the module directory as the sink sees it, so curated
// files are kept while pruned and stale generated bindings are not, and
// writes the aggregator and package marker.
func (a *Assembler) Assemble(module, classDoc string) (Result, error) {
	layout := a.w.Layout()
	dir := layout.ModuleDir(module)
	entries, err := a.w.Sink().ReadDir(dir)
	if err != nil {
		return Result{}, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir || e.Name == "__init__.py" || filepath.Ext(e.Name) != ".py" {
			continue
		}
		stale, err := a.w.Stale(filepath.Join(dir, e.Name))
		if err != nil {
			return Result{}, err
		}
		if stale {
			continue
		}
		files = append(files, e.Name)
	}

	res := Result{
		Aggregator: layout.AggregatorPath(module),
		Marker:     layout.MarkerPath(module),
	}
	for _, f := range files {
		res.Commands = append(res.Commands, strings.TrimSuffix(f, ".py"))
	}

	if err := a.w.Write(res.Marker, nil); err != nil {
		return Result{}, err
	}
	if err := a.w.Write(res.Aggregator, Aggregator(layout, module, classDoc, files)); err != nil {
		return Result{}, err
	}
	return res, nil
}

// Aggregator renders the group module importing and registering files,
// which must be sorted.
func Aggregator(layout *render.Layout, module, classDoc string, files []string) []byte {
	var b strings.Builder
	b.WriteString("# " + render.GeneratedMarker + "\n")
	b.WriteString("import click\n")
	for _, f := range files {
		name := strings.TrimSuffix(f, ".py")
		b.WriteString("from " + layout.ImportPath(module, f) + " import cli as " + name + "\n")
	}

	b.WriteString("\n\n@click.group()\n")
	b.WriteString("def cli():\n")
	if doc := strings.TrimSpace(classDoc); doc != "" {
		b.WriteString(`    """` + docEscaper.Replace(doc) + `"""` + "\n")
	}
	b.WriteString("    pass\n\n\n")

	for _, f := range files {
		b.WriteString("cli.add_command(" + strings.TrimSuffix(f, ".py") + ")\n")
	}
	return []byte(b.String())
}

var docEscaper = strings.NewReplacer(`\`, `\\`, `"""`, `\"\"\"`)
