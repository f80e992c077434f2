// Package harness builds an in-process command tree mirroring the
// generated CLI: one group per assembled command module, one command per
// registered binding, with the same arguments and options. Commands do
// nothing when run; the tree exists so help output can be captured
// without a Python runtime.
package harness

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/teranos/autobuild/errors"
	"github.com/teranos/autobuild/reconcile"
	"github.com/teranos/autobuild/render"
	"github.com/teranos/autobuild/typemap"
)

// Tree is a command tree built from rendered method models.
type Tree struct {
	root   *cobra.Command
	groups []string
	subs   map[string][]string
	docs   map[string]string
}

// New builds the tree rooted at a command named project straight from
// rendered models, one group per module.
func New(project string, groups []render.Group) *Tree {
	t := newTree(project)
	for _, g := range groups {
		var cmds []*cobra.Command
		for i := range g.Methods {
			cmds = append(cmds, command(&g.Methods[i]))
		}
		t.addGroup(g.Name, g.Doc, cmds)
	}
	return t
}

func newTree(project string) *Tree {
	t := &Tree{
		root: &cobra.Command{
			Use:           project,
			SilenceUsage:  true,
			SilenceErrors: true,
		},
		subs: make(map[string][]string),
		docs: make(map[string]string),
	}
	t.root.CompletionOptions.DisableDefaultCmd = true
	t.root.SetHelpFunc(clickHelp)
	return t
}

// addGroup registers a group whose commands carry their raw doc in Long.
func (t *Tree) addGroup(name, doc string, cmds []*cobra.Command) {
	group := &cobra.Command{
		Use:   name,
		Short: strings.TrimSpace(doc),
	}
	t.subs[name] = []string{}
	for _, cmd := range cmds {
		group.AddCommand(cmd)
		t.subs[name] = append(t.subs[name], cmd.Name())
		t.docs[name+"/"+cmd.Name()] = cmd.Long
	}
	sort.Strings(t.subs[name])
	t.root.AddCommand(group)
	t.groups = append(t.groups, name)
}

// Root returns the root command.
func (t *Tree) Root() *cobra.Command { return t.root }

// Groups returns the group names in discovery order.
func (t *Tree) Groups() []string {
	return append([]string(nil), t.groups...)
}

// Subcommands returns the command names of group, sorted.
func (t *Tree) Subcommands(group string) ([]string, error) {
	subs, ok := t.subs[group]
	if !ok {
		return nil, errors.Newf("unknown command group %s", group)
	}
	return append([]string(nil), subs...), nil
}

// RawDoc returns the documentation text the generated command carries.
func (t *Tree) RawDoc(group, sub string) (string, error) {
	doc, ok := t.docs[group+"/"+sub]
	if !ok {
		return "", errors.Newf("unknown command %s %s", group, sub)
	}
	return doc, nil
}

// Help runs the tree with args and returns everything it printed.
func (t *Tree) Help(ctx context.Context, args []string) (string, error) {
	var buf bytes.Buffer
	t.root.SetOut(&buf)
	t.root.SetErr(&buf)
	t.root.SetArgs(args)
	defer func() {
		t.root.SetOut(nil)
		t.root.SetErr(nil)
		t.root.SetArgs(nil)
	}()
	if err := t.root.ExecuteContext(ctx); err != nil {
		return buf.String(), errors.Wrapf(err, "failed to run %s", strings.Join(args, " "))
	}
	return buf.String(), nil
}

// RawDoc is the docstring body of the binding template for m.
func RawDoc(m *render.Method) string {
	return m.Summary + "\n\nOutput:\n\n    " + m.Return.Description + "\n    "
}

func command(m *render.Method) *cobra.Command {
	positional := m.Model.Positional()
	cmd := &cobra.Command{
		Use:   m.Name,
		Short: m.Summary,
		Long:  RawDoc(m),
		Args:  cobra.ExactArgs(len(positional)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}
	var names []string
	for _, p := range positional {
		names = append(names, strings.ToUpper(p.Name))
	}
	cmd.Annotations = map[string]string{"arguments": strings.Join(names, " ")}

	flags := cmd.Flags()
	flags.SortFlags = false
	for _, p := range m.Model.Options() {
		addFlag(flags, p)
	}
	return cmd
}

func addFlag(flags *pflag.FlagSet, p reconcile.Param) {
	entry, ok := typemap.Lookup(p.Type)
	if !ok {
		entry, _ = typemap.Lookup(typemap.NoType)
	}
	def := p.Default
	switch entry.Flag {
	case typemap.FlagBool:
		flags.Bool(p.Name, def.Truthy(), p.Description)
	case typemap.FlagInt:
		flags.Int64(p.Name, def.Int, p.Description)
	case typemap.FlagFloat:
		flags.Float64(p.Name, def.Float, p.Description)
	case typemap.FlagStringList:
		flags.StringArray(p.Name, nil, p.Description)
	default:
		value := ""
		if def.Truthy() {
			value = def.Text()
		}
		flags.String(p.Name, value, p.Description)
	}
	flags.Lookup(p.Name).Annotations = map[string][]string{"metavar": {metavar(entry.Flag)}}
	if def.Truthy() && entry.Flag != typemap.FlagBool {
		flags.Lookup(p.Name).Annotations["show_default"] = []string{def.Text()}
	}
}

func metavar(kind typemap.FlagKind) string {
	switch kind {
	case typemap.FlagInt:
		return "INTEGER"
	case typemap.FlagFloat:
		return "FLOAT"
	case typemap.FlagBool:
		return ""
	default:
		return "TEXT"
	}
}

// clickHelp prints help in the layout click uses, which the documentation
// scraper parses.
func clickHelp(cmd *cobra.Command, _ []string) {
	w := cmd.OutOrStdout()

	usage := "Usage: " + cmd.CommandPath()
	if cmd.HasAvailableSubCommands() {
		usage += " [OPTIONS] COMMAND [ARGS]..."
	} else {
		usage += " [OPTIONS]"
		if args := cmd.Annotations["arguments"]; args != "" {
			usage += " " + args
		}
	}
	fmt.Fprintln(w, usage)
	fmt.Fprintln(w)

	doc := cmd.Long
	if doc == "" {
		doc = cmd.Short
	}
	if doc != "" {
		for _, line := range strings.Split(CleanDoc(doc), "\n") {
			if line == "" {
				fmt.Fprintln(w)
				continue
			}
			fmt.Fprintln(w, "  "+line)
		}
		fmt.Fprintln(w)
	}

	writeOptions(w, cmd)

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Commands:")
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() {
				fmt.Fprintf(w, "  %-*s  %s\n", cmd.NamePadding(), sub.Name(), sub.Short)
			}
		}
	}
}

func writeOptions(w io.Writer, cmd *cobra.Command) {
	type row struct{ left, right string }
	var rows []row
	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "help" {
			return
		}
		left := "--" + f.Name
		if mv := f.Annotations["metavar"]; len(mv) > 0 && mv[0] != "" {
			left += " " + mv[0]
		}
		right := f.Usage
		if def := f.Annotations["show_default"]; len(def) > 0 {
			right = strings.TrimSpace(right + "  [default: " + def[0] + "]")
		}
		rows = append(rows, row{left, right})
	})
	rows = append(rows, row{"--help", "Show this message and exit."})

	width := 0
	for _, r := range rows {
		if len(r.left) > width {
			width = len(r.left)
		}
	}
	fmt.Fprintln(w, "Options:")
	for _, r := range rows {
		fmt.Fprintln(w, strings.TrimRight(fmt.Sprintf("  %-*s  %s", width, r.left, r.right), " "))
	}
}

// CleanDoc dedents a docstring the way Python's inspect.cleandoc does:
// the first line loses leading whitespace, the rest lose their common
// indentation, and leading and trailing blank lines are dropped. Trailing
// spaces are trimmed from every line.
func CleanDoc(doc string) string {
	lines := strings.Split(strings.ReplaceAll(doc, "\t", "        "), "\n")
	margin := -1
	for _, line := range lines[1:] {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" {
			continue
		}
		if indent := len(line) - len(trimmed); margin < 0 || indent < margin {
			margin = indent
		}
	}
	lines[0] = strings.Trim(lines[0], " ")
	for i := 1; i < len(lines); i++ {
		if margin > 0 && len(lines[i]) >= margin {
			lines[i] = lines[i][margin:]
		}
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	return strings.Join(lines, "\n")
}
