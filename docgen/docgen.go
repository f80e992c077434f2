// Package docgen writes reStructuredText reference pages from the help
// output of a command tree: one page per command group with a section per
// subcommand, and an index page linking the groups.
package docgen

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/teranos/autobuild/errors"
	"github.com/teranos/autobuild/logger"
	"github.com/teranos/autobuild/render"
)

// CommandSource is a command tree whose help can be captured in-process.
type CommandSource interface {
	// Groups returns the top-level groups in discovery order.
	Groups() []string
	Subcommands(group string) ([]string, error)
	// RawDoc is the command's documentation as written in the binding.
	RawDoc(group, sub string) (string, error)
	// Help runs the tree with args and returns what it printed.
	Help(ctx context.Context, args []string) (string, error)
}

// Options configure a documentation run.
type Options struct {
	Project       string
	Documentation string
	Dir           string
	Skip          []string
	Reset         ResetHook
	// HelpArgs follow "<group> <sub>" when capturing help.
	HelpArgs []string
}

// ParseHelpArgs splits a docs.help_args setting with shell quoting rules.
func ParseHelpArgs(s string) ([]string, error) {
	args, err := shellquote.Split(s)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "docs.help_args %q: %v", s, err)
	}
	if len(args) == 0 {
		args = []string{"--help"}
	}
	return args, nil
}

// Result lists the pages written.
type Result struct {
	Index string
	Pages []string
}

// Generator renders pages from a CommandSource into a sink.
type Generator struct {
	src  CommandSource
	sink render.Sink
	opts Options
	log  *zap.SugaredLogger
}

// New returns a generator.
func New(src CommandSource, sink render.Sink, opts Options) *Generator {
	if opts.Dir == "" {
		opts.Dir = "docs"
	}
	if len(opts.HelpArgs) == 0 {
		opts.HelpArgs = []string{"--help"}
	}
	return &Generator{src: src, sink: sink, opts: opts, log: logger.ComponentLogger("docgen")}
}

// Generate writes <dir>/commands/<group>.rst for every group not skipped
// and the <dir>/commands.rst index.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	res := &Result{Index: filepath.Join(g.opts.Dir, "commands.rst")}
	index := IndexHeader(g.opts.Documentation)

	for _, group := range g.src.Groups() {
		if contains(g.opts.Skip, group) {
			g.log.Debugw("Skipping command group", logger.FieldModule, group)
			continue
		}
		index += "\n   commands/" + group + ".rst"

		page, err := g.page(ctx, group)
		if err != nil {
			return res, err
		}
		path := filepath.Join(g.opts.Dir, "commands", group+".rst")
		if err := g.sink.WriteFile(path, []byte(page)); err != nil {
			return res, err
		}
		res.Pages = append(res.Pages, path)
	}

	if err := g.sink.WriteFile(res.Index, []byte(index+"\n")); err != nil {
		return res, err
	}
	g.log.Infow("Documentation written", logger.FieldCount, len(res.Pages), logger.FieldPath, res.Index)
	return res, nil
}

func (g *Generator) page(ctx context.Context, group string) (string, error) {
	var b strings.Builder
	b.WriteString(GroupHeader(g.opts.Project, group))

	subs, err := g.src.Subcommands(group)
	if err != nil {
		return "", err
	}
	for _, sub := range subs {
		if g.opts.Reset != nil {
			if err := g.opts.Reset(ctx); err != nil {
				return "", errors.Wrapf(err, "reset hook before %s %s", group, sub)
			}
		}
		raw, err := g.src.RawDoc(group, sub)
		if err != nil {
			return "", err
		}
		args := append([]string{group, sub}, g.opts.HelpArgs...)
		g.log.Debugw("Capturing help", logger.FieldCommand, shellquote.Join(append([]string{g.opts.Project}, args...)...))
		help, err := g.src.Help(ctx, args)
		if err != nil {
			return "", err
		}
		b.WriteString(CommandSection(sub, raw, help))
	}
	return b.String(), nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
