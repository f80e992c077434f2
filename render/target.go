package render

// Target renders one artifact kind for a method.
type Target interface {
	Name() string
	Path(l *Layout, m *Method) string
	Render(c *Context, m *Method) ([]byte, error)
}

// TemplateTarget renders a method through a named template.
type TemplateTarget struct {
	name     string
	template string
	store    TemplateStore
	path     func(l *Layout, module, method string) string
}

// BindingTarget renders the CLI binding of a method.
func BindingTarget(store TemplateStore) *TemplateTarget {
	return &TemplateTarget{name: "binding", template: BindingTemplate, store: store, path: (*Layout).BindingPath}
}

// DescriptorTarget renders the tool descriptor of a method.
func DescriptorTarget(store TemplateStore) *TemplateTarget {
	return &TemplateTarget{name: "descriptor", template: DescriptorTemplate, store: store, path: (*Layout).DescriptorPath}
}

func (t *TemplateTarget) Name() string { return t.name }

func (t *TemplateTarget) Path(l *Layout, m *Method) string {
	return t.path(l, m.Module, m.Name)
}

func (t *TemplateTarget) Render(c *Context, m *Method) ([]byte, error) {
	tmpl, err := t.store.Template(t.template)
	if err != nil {
		return nil, err
	}
	return Execute(tmpl, c)
}
