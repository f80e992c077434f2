package render

import (
	"bytes"
	"embed"
	"html"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"text/template"
	"text/template/parse"

	"github.com/teranos/autobuild/errors"
)

//go:embed templates/*.tmpl
var defaultTemplates embed.FS

// Built-in template names.
const (
	BindingTemplate    = "binding"
	DescriptorTemplate = "descriptor"
)

var funcs = template.FuncMap{
	"xml": html.EscapeString,
}

// TemplateStore resolves a template by name.
type TemplateStore interface {
	Template(name string) (*template.Template, error)
}

// Store looks templates up in an override directory first, then in the
// built-in set. Parsed templates are cached.
type Store struct {
	dir string

	mu    sync.Mutex
	cache map[string]*template.Template
}

// NewStore returns a store reading overrides from dir. An empty dir uses
// the built-in templates only.
func NewStore(dir string) *Store {
	return &Store{dir: dir, cache: make(map[string]*template.Template)}
}

// Template returns the parsed and validated template called name.
func (s *Store) Template(name string) (*template.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.cache[name]; ok {
		return t, nil
	}

	src, origin, err := s.source(name)
	if err != nil {
		return nil, err
	}
	t, err := Parse(name, string(src))
	if err != nil {
		return nil, errors.Wrapf(err, "template %s", origin)
	}
	s.cache[name] = t
	return t, nil
}

func (s *Store) source(name string) ([]byte, string, error) {
	file := name + ".tmpl"
	if s.dir != "" {
		path := filepath.Join(s.dir, file)
		data, err := os.ReadFile(path)
		if err == nil {
			return data, path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", errors.Wrapf(err, "failed to read template %s", path)
		}
	}
	data, err := defaultTemplates.ReadFile("templates/" + file)
	if err != nil {
		return nil, "", errors.Wrapf(errors.ErrMissingTemplate, "no template named %s", name)
	}
	return data, "built-in " + name, nil
}

// Parse parses src and checks that every field it references is a known
// placeholder.
func Parse(name, src string) (*template.Template, error) {
	t, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, errors.Wrap(errors.ErrTemplatePlaceholder, err.Error())
	}
	for _, tt := range t.Templates() {
		if tt.Tree == nil {
			continue
		}
		if bad := unknownFields(tt.Tree.Root); len(bad) > 0 {
			return nil, errors.Wrapf(errors.ErrTemplatePlaceholder, "unknown placeholder %s", bad[0])
		}
	}
	return t, nil
}

// Execute renders t with the values of c.
func Execute(t *template.Template, c *Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, c.Values()); err != nil {
		return nil, errors.Wrapf(err, "failed to render %s", t.Name())
	}
	return buf.Bytes(), nil
}

func unknownFields(node parse.Node) []string {
	var bad []string
	var walk func(parse.Node)
	walk = func(n parse.Node) {
		switch n := n.(type) {
		case *parse.ListNode:
			if n == nil {
				return
			}
			for _, c := range n.Nodes {
				walk(c)
			}
		case *parse.ActionNode:
			walk(n.Pipe)
		case *parse.PipeNode:
			if n == nil {
				return
			}
			for _, cmd := range n.Cmds {
				for _, arg := range cmd.Args {
					walk(arg)
				}
			}
		case *parse.FieldNode:
			if !IsPlaceholder(n.Ident[0]) {
				bad = append(bad, n.Ident[0])
			}
		case *parse.VariableNode:
			if len(n.Ident) > 1 && n.Ident[0] == "$" && !IsPlaceholder(n.Ident[1]) {
				bad = append(bad, n.Ident[1])
			}
		case *parse.IfNode:
			walkBranch(&n.BranchNode, walk)
		case *parse.RangeNode:
			walkBranch(&n.BranchNode, walk)
		case *parse.WithNode:
			walkBranch(&n.BranchNode, walk)
		case *parse.TemplateNode:
			walk(n.Pipe)
		}
	}
	walk(node)
	return bad
}

func walkBranch(b *parse.BranchNode, walk func(parse.Node)) {
	walk(b.Pipe)
	walk(b.List)
	if b.ElseList != nil {
		walk(b.ElseList)
	}
}
