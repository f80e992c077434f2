// Package doccomment extracts typed parameter and return documentation
// from reStructuredText-style field lists:
//
//	:type history_id: str
//	:param history_id: Encoded history ID
//
//	:rtype: dict
//	:return: Details of the given history
//
// Each blank-line separated block is whitespace-collapsed and lexed on its
// own. Blocks that are not a parameter or return clause are ignored.
package doccomment

import (
	"regexp"
	"sort"
	"strings"

	"github.com/teranos/autobuild/errors"
)

// UndocumentedSummary is the summary of a method without prose documentation.
const UndocumentedSummary = "Warning: Undocumented Method"

// DeprecationMarker flags a method whose artifacts must be removed.
const DeprecationMarker = ".. deprecated::"

// Entry is the documented type and description of a parameter or return value.
type Entry struct {
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
}

// Docs is the parsed documentation of one method. The return value is kept
// apart from Params so no parameter name can collide with it.
type Docs struct {
	Params     map[string]Entry
	Return     *Entry
	Deprecated bool
	Summary    string
}

// Param returns the documentation of a parameter.
func (d *Docs) Param(name string) (Entry, bool) {
	e, ok := d.Params[name]
	return e, ok
}

// Names returns the documented parameter names in sorted order.
func (d *Docs) Names() []string {
	names := make([]string, 0, len(d.Params))
	for n := range d.Params {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

var blankLine = regexp.MustCompile(`\n[ \t]*\r?\n`)

// Parse parses a method's documentation. The only error is
// ErrDocumentationCorruption.
func Parse(doc string) (*Docs, error) {
	d := &Docs{Params: map[string]Entry{}}

	fm, body, err := splitFrontMatter(doc)
	if err != nil {
		return nil, err
	}

	for _, raw := range blankLine.Split(body, -1) {
		block := strings.Join(strings.Fields(raw), " ")
		if block == "" {
			continue
		}
		toks := lex(block)

		name, entry, ok, err := paramClause(block, toks)
		if err != nil {
			return nil, err
		}
		if ok {
			d.Params[name] = entry
			continue
		}

		if ret, marker, ok := returnClause(toks); ok {
			ret.Description = returnDescription(body, marker, toks[0].kind == tokReturns)
			d.Return = &ret
		}
	}

	d.Deprecated = strings.Contains(body, DeprecationMarker)
	d.Summary = summary(body)

	if fm != nil {
		for n, e := range fm.Params {
			d.Params[n] = e
		}
		if fm.Returns != nil {
			ret := *fm.Returns
			d.Return = &ret
		}
		d.Deprecated = d.Deprecated || fm.Deprecated
	}
	return d, nil
}

// paramClause matches `:type N: T :param N: DESC` at the start of a block.
// Matching clauses naming two different parameters are corrupt.
func paramClause(block string, toks []token) (string, Entry, bool, error) {
	if len(toks) < 3 || toks[0].kind != tokType || toks[1].kind != tokText || toks[2].kind != tokParam {
		return "", Entry{}, false, nil
	}
	typ := strings.TrimSpace(toks[1].arg)
	if typ == "" || strings.Contains(typ, ":") {
		return "", Entry{}, false, nil
	}
	desc := strings.TrimSpace(block[toks[2].end:])
	if desc == "" {
		return "", Entry{}, false, nil
	}
	if toks[0].arg != toks[2].arg {
		return "", Entry{}, false, errors.WithHint(
			errors.Wrapf(errors.ErrDocumentationCorruption, "type clause names %q but param clause names %q", toks[0].arg, toks[2].arg),
			"fix the method's documentation so both clauses name the same parameter",
		)
	}
	return toks[0].arg, Entry{Type: typ, Description: desc}, true, nil
}

// returnClause matches `:rtype: T :returns: D` or `:returns: D :rtype: T`.
func returnClause(toks []token) (Entry, string, bool) {
	if len(toks) >= 3 && toks[0].kind == tokRType && toks[1].kind == tokText && toks[2].kind == tokReturns {
		typ := strings.TrimSpace(toks[1].arg)
		if typ == "" || strings.Contains(typ, ":") || len(toks) == 3 {
			return Entry{}, "", false
		}
		return Entry{Type: typ}, toks[2].arg, true
	}

	if len(toks) >= 4 && toks[0].kind == tokReturns {
		// The last :rtype: with a type wins; the type stops at the next ':'.
		for i := len(toks) - 2; i >= 2; i-- {
			if toks[i].kind != tokRType || toks[i+1].kind != tokText {
				continue
			}
			typ := toks[i+1].arg
			if j := strings.IndexByte(typ, ':'); j >= 0 {
				typ = typ[:j]
			}
			if typ = strings.TrimSpace(typ); typ != "" {
				return Entry{Type: typ}, toks[0].arg, true
			}
		}
	}
	return Entry{}, "", false
}

// returnDescription returns the raw text after the first return marker of
// the document, keeping multi-paragraph examples intact. When the type
// clause follows the description, the text stops at it.
func returnDescription(body, marker string, typeAfter bool) string {
	i := strings.Index(body, marker)
	if i < 0 {
		return ""
	}
	desc := body[i+len(marker):]
	if typeAfter {
		if j := strings.Index(desc, ":rtype:"); j >= 0 {
			desc = desc[:j]
		}
	}
	return strings.TrimSpace(desc)
}

// summary returns the first prose block joined into one line.
func summary(body string) string {
	for _, raw := range blankLine.Split(body, -1) {
		words := strings.Fields(raw)
		if len(words) == 0 {
			continue
		}
		if strings.HasPrefix(words[0], ":") || strings.HasPrefix(words[0], "..") {
			break
		}
		return strings.Join(words, " ")
	}
	return UndocumentedSummary
}
