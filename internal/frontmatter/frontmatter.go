package frontmatter

import (
	"bytes"
	stdErrors "errors"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/mdrender/internal/foundation/errors"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// front matter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = stdErrors.New("front matter start delimiter found but closing delimiter is missing")

// Meta holds the front matter keys mdrender understands. Unknown keys are
// kept in Document.Fields.
type Meta struct {
	Title    string         `yaml:"title"`
	Renderer string         `yaml:"renderer"`
	Markdown map[string]any `yaml:"markdown"`
}

// Document is a markdown source split into front matter and body.
type Document struct {
	Meta    Meta
	Fields  map[string]any
	Body    []byte
	Had     bool
	Newline string
}

// Parse splits content into front matter and body. A document without a
// leading `---` line has no front matter and its body is the full input.
func Parse(content []byte) (*Document, error) {
	raw, body, had, nl, err := split(content)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid front matter").Build()
	}

	doc := &Document{Body: body, Had: had, Newline: nl, Fields: map[string]any{}}
	if len(raw) == 0 {
		return doc, nil
	}
	if err := yaml.Unmarshal(raw, &doc.Fields); err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid front matter YAML").Build()
	}
	if doc.Fields == nil {
		doc.Fields = map[string]any{}
	}
	if err := yaml.Unmarshal(raw, &doc.Meta); err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid front matter fields").
			WithContext("keys", "title, renderer, markdown").
			Build()
	}
	return doc, nil
}

func split(content []byte) (raw, body []byte, had bool, nl string, err error) {
	nl = detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nl, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return nil, content[start+len(open):], true, nl, nil
	}

	closing := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closing)
	if idx < 0 {
		// a closing delimiter on the last line has no trailing newline
		if bytes.HasSuffix(content, []byte(nl+"---")) {
			return content[start : len(content)-3], nil, true, nl, nil
		}
		return nil, nil, false, nl, ErrMissingClosingDelimiter
	}
	end := start + idx + len(nl)
	return content[start:end], content[start+idx+len(closing):], true, nl, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
