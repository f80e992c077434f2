// Package mcptool renders a method as a Model Context Protocol tool
// descriptor, so an agent can call the generated command with typed
// arguments.
package mcptool

import (
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teranos/autobuild/errors"
	"github.com/teranos/autobuild/manifest"
	"github.com/teranos/autobuild/reconcile"
	"github.com/teranos/autobuild/render"
	"github.com/teranos/autobuild/typemap"
)

// Target writes <root>/mcp/<module>_<method>.json.
type Target struct{}

// NewTarget returns the MCP target.
func NewTarget() *Target { return &Target{} }

func (t *Target) Name() string { return "mcp" }

func (t *Target) Path(l *render.Layout, m *render.Method) string {
	return l.MCPPath(m.Module, m.Name)
}

func (t *Target) Render(_ *render.Context, m *render.Method) ([]byte, error) {
	data, err := json.MarshalIndent(Tool(m), "", "  ")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode tool %s", ToolName(m.Module, m.Name))
	}
	return append(data, '\n'), nil
}

// ToolName is the tool identifier of a method.
func ToolName(module, method string) string {
	return render.Sanitize(module) + "_" + render.Sanitize(method)
}

// Tool describes m with one input property per parameter. Positional
// parameters are required.
func Tool(m *render.Method) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(description(m))}
	for _, p := range m.Model.Params {
		opts = append(opts, property(p))
	}
	return mcp.NewTool(ToolName(m.Module, m.Name), opts...)
}

func description(m *render.Method) string {
	parts := []string{m.Summary}
	if !m.Return.NoValue() && m.Return.Description != "" {
		parts = append(parts, "Returns: "+m.Return.Description)
	}
	return strings.Join(parts, "\n\n")
}

func property(p reconcile.Param) mcp.ToolOption {
	var props []mcp.PropertyOption
	if p.Description != "" {
		props = append(props, mcp.Description(p.Description))
	}
	if p.Kind == reconcile.Positional {
		props = append(props, mcp.Required())
	}

	entry, ok := typemap.Lookup(p.Type)
	if !ok {
		entry, _ = typemap.Lookup(typemap.NoType)
	}
	def := p.Default
	hasDefault := p.Kind == reconcile.Keyword && def.Truthy()

	switch entry.Schema {
	case typemap.SchemaNumber:
		if hasDefault {
			if f, ok := number(def); ok {
				props = append(props, mcp.DefaultNumber(f))
			}
		}
		return mcp.WithNumber(p.Name, props...)
	case typemap.SchemaBoolean:
		if hasDefault && def.Kind == manifest.KindBool {
			props = append(props, mcp.DefaultBool(def.Bool))
		}
		return mcp.WithBoolean(p.Name, props...)
	case typemap.SchemaArray:
		props = append(props, mcp.WithStringItems())
		return mcp.WithArray(p.Name, props...)
	case typemap.SchemaObject:
		return mcp.WithObject(p.Name, props...)
	default:
		if hasDefault {
			props = append(props, mcp.DefaultString(def.Text()))
		}
		return mcp.WithString(p.Name, props...)
	}
}

func number(v manifest.Value) (float64, bool) {
	switch v.Kind {
	case manifest.KindInt:
		return float64(v.Int), true
	case manifest.KindFloat:
		return v.Float, true
	}
	return 0, false
}
