package frontmatter

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// leadingKeys are written first, in this order; other keys follow sorted.
var leadingKeys = []string{"title", "renderer"}

// Prepend writes fields as a front matter block in front of body using the
// given newline. Nested maps are emitted with sorted keys so the output is
// stable. An empty field map returns body unchanged.
func Prepend(fields map[string]any, body []byte, newline string) ([]byte, error) {
	if len(fields) == 0 {
		return body, nil
	}
	if newline == "" {
		newline = "\n"
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range orderedKeys(fields) {
		var value yaml.Node
		if err := value.Encode(fields[k]); err != nil {
			return nil, fmt.Errorf("front matter key %q: %w", k, err)
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&value)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode front matter: %w", err)
	}
	buf.WriteString("---\n")

	head := buf.String()
	if newline != "\n" {
		head = strings.ReplaceAll(head, "\n", newline)
	}
	return append([]byte(head), body...), nil
}

func orderedKeys(fields map[string]any) []string {
	keys := make([]string, 0, len(fields))
	for _, k := range leadingKeys {
		if _, ok := fields[k]; ok {
			keys = append(keys, k)
		}
	}
	rest := make([]string, 0, len(fields))
	for k := range fields {
		if !slices.Contains(leadingKeys, k) {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	return append(keys, rest...)
}
