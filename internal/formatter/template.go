package formatter

import (
	"regexp"

	"github.com/desertthunder/songnote/internal/models"
)

var placeholder = regexp.MustCompile(`\{\{([a-z_]+)\}\}`)

// RenderTemplate replaces every {{key}} naming a registry field. Unknown placeholders are left as written.
func RenderTemplate(tmpl string, t *models.Track, env Env) string {
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := placeholder.FindStringSubmatch(m)[1]
		if f, ok := Lookup(key); ok {
			return f.Value(t, env)
		}
		return m
	})
}
