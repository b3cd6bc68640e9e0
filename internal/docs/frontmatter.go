package docs

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document opened a YAML front matter
// block but never closed it.
var ErrMissingClosingDelimiter = errors.New("yaml front matter start delimiter found but closing delimiter is missing")

// Meta is the subset of page front matter sdvsite understands.
type Meta struct {
	ID              string `yaml:"id"`
	Title           string `yaml:"title"`
	Slug            string `yaml:"slug"`
	Description     string `yaml:"description"`
	SidebarPosition int    `yaml:"sidebar_position"`
}

// splitFrontMatter separates `---` delimited YAML from the markdown body. When
// the document has no front matter, fm is nil and body is the full input.
func splitFrontMatter(content []byte) (fm, body []byte, err error) {
	nl := "\n"
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		nl = "\r\n"
	}

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, nil
	}
	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		return nil, nil, ErrMissingClosingDelimiter
	}
	return content[start : start+idx+len(nl)], content[start+idx+len(closeSeq):], nil
}

func parseMeta(fm []byte) (Meta, error) {
	var m Meta
	if len(bytes.TrimSpace(fm)) == 0 {
		return m, nil
	}
	err := yaml.Unmarshal(fm, &m)
	return m, err
}
