package doccomment

import (
	"strings"

	"github.com/teranos/autobuild/errors"
	"gopkg.in/yaml.v3"
)

// frontMatter is the structured alternative to field-list documentation.
//
//	---
//	params:
//	  history_id: {type: str, description: Encoded history ID}
//	returns: {type: dict, description: The history}
//	deprecated: false
//	---
//	Prose documentation follows.
type frontMatter struct {
	Params     map[string]Entry `yaml:"params"`
	Returns    *Entry           `yaml:"returns"`
	Deprecated bool             `yaml:"deprecated"`
}

// splitFrontMatter separates a leading ----fenced YAML block from the body.
// Documents without one are returned unchanged with a nil front matter.
func splitFrontMatter(doc string) (*frontMatter, string, error) {
	trimmed := strings.TrimLeft(doc, " \t\r\n")
	if !strings.HasPrefix(trimmed, "---\n") {
		return nil, doc, nil
	}

	rest := trimmed[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return nil, doc, nil
	}
	fmYAML := rest[:end]
	body := strings.TrimPrefix(rest[end+len("\n---"):], "\n")

	var fm frontMatter
	if strings.TrimSpace(fmYAML) != "" {
		if err := yaml.Unmarshal([]byte(fmYAML), &fm); err != nil {
			return nil, doc, errors.Wrapf(errors.ErrDocumentationCorruption, "front matter: %v", err)
		}
	}
	return &fm, body, nil
}
