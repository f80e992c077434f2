package harness

import (
	"regexp"
	"strings"
)

// Binding is what the harness reads back from a command module: its
// docstring and the click parameters declared on it.
type Binding struct {
	Doc       string
	Group     bool
	Arguments []string
	Options   []Option
}

// Option is one @click.option declaration.
type Option struct {
	Name        string
	Help        string
	Type        string
	Default     string
	Flag        bool
	Multiple    bool
	ShowDefault bool
}

// Registration is one `cli.add_command(alias)` of an aggregator, with the
// module the alias was imported from.
type Registration struct {
	Alias  string
	Import string
}

var (
	importLine   = regexp.MustCompile(`(?m)^from\s+([\w.]+)\s+import\s+cli\s+as\s+(\w+)\s*$`)
	registerLine = regexp.MustCompile(`(?m)^cli\.add_command\((\w+)\)\s*$`)
	keywordArg   = regexp.MustCompile(`^(\w+)\s*=\s*([\s\S]*)$`)
)

var pyUnescaper = strings.NewReplacer(`\\`, `\`, `\"`, `"`, `\'`, `'`)

// ParseBinding reads the command declared by a click module.
func ParseBinding(src string) Binding {
	b := Binding{
		Doc:   docstring(src),
		Group: strings.Contains(src, "@click.group("),
	}
	for _, args := range decoratorArgs(src, "argument") {
		for _, a := range splitArgs(args) {
			if name, ok := pyString(a); ok {
				b.Arguments = append(b.Arguments, name)
				break
			}
		}
	}
	for _, args := range decoratorArgs(src, "option") {
		if o, ok := parseOption(args); ok {
			b.Options = append(b.Options, o)
		}
	}
	return b
}

// Registrations returns an aggregator's registered commands in order.
// Aliases registered without a matching import are skipped.
func Registrations(src string) []Registration {
	imports := make(map[string]string)
	for _, m := range importLine.FindAllStringSubmatch(src, -1) {
		imports[m[2]] = m[1]
	}
	var regs []Registration
	for _, m := range registerLine.FindAllStringSubmatch(src, -1) {
		if imp, ok := imports[m[1]]; ok {
			regs = append(regs, Registration{Alias: m[1], Import: imp})
		}
	}
	return regs
}

// docstring returns the raw docstring of the module's cli function.
func docstring(src string) string {
	i := strings.Index("\n"+src, "\ndef cli(")
	if i < 0 {
		return ""
	}
	rest := src[i:]
	j := strings.Index(rest, "):")
	if j < 0 {
		return ""
	}
	body := strings.TrimLeft(rest[j+2:], " \t\r\n")
	for _, q := range []string{`"""`, `'''`} {
		if !strings.HasPrefix(body, q) {
			continue
		}
		end := strings.Index(body[len(q):], q)
		if end < 0 {
			return ""
		}
		return pyUnescaper.Replace(body[len(q) : len(q)+end])
	}
	return ""
}

// decoratorArgs returns the argument text of every @click.<name>(...).
func decoratorArgs(src, name string) []string {
	var out []string
	marker := "@click." + name + "("
	for {
		i := strings.Index(src, marker)
		if i < 0 {
			return out
		}
		src = src[i+len(marker):]
		end := closingParen(src)
		if end < 0 {
			return out
		}
		out = append(out, src[:end])
		src = src[end+1:]
	}
}

// closingParen finds the parenthesis closing an already opened one,
// skipping quoted strings.
func closingParen(s string) int {
	depth := 1
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitArgs splits a call's argument text on top-level commas.
func splitArgs(s string) []string {
	var out []string
	depth := 0
	var quote byte
	start := 0
	flush := func(end int) {
		if a := strings.TrimSpace(s[start:end]); a != "" {
			out = append(out, a)
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case c == ',' && depth == 0:
			flush(i)
			start = i + 1
		}
	}
	flush(len(s))
	return out
}

// pyString unquotes a single- or double-quoted literal.
func pyString(s string) (string, bool) {
	if len(s) < 2 {
		return "", false
	}
	q := s[0]
	if (q != '"' && q != '\'') || s[len(s)-1] != q {
		return "", false
	}
	return pyUnescaper.Replace(s[1 : len(s)-1]), true
}

func parseOption(args string) (Option, bool) {
	var o Option
	for _, a := range splitArgs(args) {
		if m := keywordArg.FindStringSubmatch(a); m != nil {
			value := strings.TrimSpace(m[2])
			switch m[1] {
			case "help":
				o.Help, _ = pyString(value)
			case "type":
				o.Type = value
			case "default":
				if str, ok := pyString(value); ok {
					o.Default = str
				} else {
					o.Default = value
				}
			case "is_flag":
				o.Flag = value == "True"
			case "multiple":
				o.Multiple = value == "True"
			case "show_default":
				o.ShowDefault = value == "True"
			}
			continue
		}
		name, ok := pyString(a)
		if !ok || !strings.HasPrefix(name, "-") {
			continue
		}
		if k := strings.IndexByte(name, '/'); k >= 0 {
			name = name[:k]
			o.Flag = true
		}
		if o.Name == "" || strings.HasPrefix(name, "--") {
			o.Name = strings.TrimLeft(name, "-")
		}
	}
	return o, o.Name != ""
}
