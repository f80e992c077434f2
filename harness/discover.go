package harness

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/teranos/autobuild/errors"
	"github.com/teranos/autobuild/render"
)

const (
	groupPrefix = "cmd_"
	pySuffix    = ".py"
)

// Discover builds the tree the way the generated CLI loads itself: every
// cmd_<name>.py in the commands directory is a top-level command, and the
// commands an aggregator registers are its subcommands. Docstrings are
// read from the command modules. Generated bindings take their parameters
// from the matching model in groups; other modules are parsed.
func Discover(layout *render.Layout, sink render.Sink, groups []render.Group) (*Tree, error) {
	models := make(map[string]*render.Method)
	for _, g := range groups {
		for i := range g.Methods {
			models[layout.PackageName(g.Name)+"/"+g.Methods[i].Name] = &g.Methods[i]
		}
	}

	dir := layout.CommandsDir()
	entries, err := sink.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	t := newTree(layout.ProjectName)
	for _, e := range entries {
		if e.IsDir || !strings.HasPrefix(e.Name, groupPrefix) || !strings.HasSuffix(e.Name, pySuffix) {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(e.Name, groupPrefix), pySuffix)
		src, err := sink.ReadFile(filepath.Join(dir, e.Name))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read command group %s", name)
		}
		group := ParseBinding(string(src))

		var cmds []*cobra.Command
		if group.Group {
			cmds, err = discoverCommands(layout, sink, name, string(src), models)
			if err != nil {
				return nil, err
			}
		}
		t.addGroup(name, group.Doc, cmds)
	}
	return t, nil
}

// discoverCommands resolves the subcommands of group. Aggregators list
// them with add_command; hand-written groups without registrations fall
// back to the modules in the group's directory.
func discoverCommands(layout *render.Layout, sink render.Sink, group, src string, models map[string]*render.Method) ([]*cobra.Command, error) {
	var paths []string
	if regs := Registrations(src); len(regs) > 0 {
		for _, r := range regs {
			paths = append(paths, modulePath(layout, r.Import))
		}
	} else {
		dir := filepath.Join(layout.CommandsDir(), group)
		entries, err := sink.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir && e.Name != "__init__.py" && strings.HasSuffix(e.Name, pySuffix) {
				paths = append(paths, filepath.Join(dir, e.Name))
			}
		}
	}

	var cmds []*cobra.Command
	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), pySuffix)
		data, err := sink.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "%s %s is registered but cannot be read", group, name)
		}
		b := ParseBinding(string(data))

		if m, ok := models[group+"/"+name]; ok && bytes.Contains(data, []byte(render.GeneratedMarker)) {
			cmd := command(m)
			if b.Doc != "" {
				cmd.Long = b.Doc
			}
			cmds = append(cmds, cmd)
			continue
		}
		cmds = append(cmds, parsedCommand(name, b))
	}
	return cmds, nil
}

// modulePath maps a dotted import below the output root to its file.
func modulePath(layout *render.Layout, imp string) string {
	return filepath.Join(layout.Root, filepath.FromSlash(strings.ReplaceAll(imp, ".", "/"))) + pySuffix
}

func parsedCommand(name string, b Binding) *cobra.Command {
	short := ""
	if lines := strings.SplitN(CleanDoc(b.Doc), "\n", 2); len(lines) > 0 {
		short = lines[0]
	}
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Long:  b.Doc,
		Args:  cobra.ExactArgs(len(b.Arguments)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}
	var names []string
	for _, a := range b.Arguments {
		names = append(names, strings.ToUpper(a))
	}
	cmd.Annotations = map[string]string{"arguments": strings.Join(names, " ")}

	flags := cmd.Flags()
	flags.SortFlags = false
	for _, o := range b.Options {
		addOption(flags, o)
	}
	return cmd
}

func addOption(flags *pflag.FlagSet, o Option) {
	if o.Name == "help" || flags.Lookup(o.Name) != nil {
		return
	}
	mv := "TEXT"
	switch {
	case o.Flag:
		flags.Bool(o.Name, o.Default == "True", o.Help)
		mv = ""
	case o.Multiple:
		flags.StringArray(o.Name, nil, o.Help)
	case o.Type == "int" || o.Type == "click.INT":
		flags.String(o.Name, o.Default, o.Help)
		mv = "INTEGER"
	case o.Type == "float" || o.Type == "click.FLOAT":
		flags.String(o.Name, o.Default, o.Help)
		mv = "FLOAT"
	default:
		flags.String(o.Name, o.Default, o.Help)
	}
	f := flags.Lookup(o.Name)
	f.Annotations = map[string][]string{"metavar": {mv}}
	if o.ShowDefault && o.Default != "" && !o.Flag {
		f.Annotations["show_default"] = []string{o.Default}
	}
}
