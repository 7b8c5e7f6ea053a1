package formatter

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/desertthunder/songnote/internal/models"
)

// Frontmatter encodes the enabled fields as YAML in registry order. Absent keys use the field default.
func Frontmatter(t *models.Track, fields map[string]bool, env Env) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range Registry {
		if !enabled(fields, f) {
			continue
		}

		var value yaml.Node
		if err := value.Encode(f.FrontmatterValue(t, env)); err != nil {
			return nil, fmt.Errorf("failed to encode field %s: %w", f.Key, err)
		}
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Key},
			&value,
		)
	}

	if len(doc.Content) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseFrontmatter splits a note into its decoded frontmatter and body.
// A note without a leading "---" block has empty frontmatter.
func ParseFrontmatter(content []byte) (map[string]any, []byte, error) {
	const fence = "---\n"
	if !bytes.HasPrefix(content, []byte(fence)) {
		return map[string]any{}, content, nil
	}

	rest := content[len(fence):]
	end := bytes.Index(rest, []byte("\n"+fence))
	if end < 0 {
		return nil, nil, fmt.Errorf("unterminated frontmatter")
	}

	meta := map[string]any{}
	if err := yaml.Unmarshal(rest[:end+1], &meta); err != nil {
		return nil, nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	return meta, rest[end+1+len(fence):], nil
}

// Options controls how a note is rendered.
type Options struct {
	Template string
	Fields   map[string]bool
	Env      Env
}

// Note renders the complete note: a frontmatter block (when any field is enabled) followed by the template body.
func Note(t *models.Track, opts Options) ([]byte, error) {
	meta, err := Frontmatter(t, opts.Fields, opts.Env)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if len(meta) > 0 {
		buf.WriteString("---\n")
		buf.Write(meta)
		buf.WriteString("---\n")
	}
	buf.WriteString(RenderTemplate(opts.Template, t, opts.Env))
	return buf.Bytes(), nil
}
