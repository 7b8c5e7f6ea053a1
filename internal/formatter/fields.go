// package formatter renders song notes: template substitution, frontmatter and file names
package formatter

import (
	"strconv"
	"time"

	"github.com/desertthunder/songnote/internal/models"
	"github.com/desertthunder/songnote/internal/shared"
)

// DefaultDateFormat is the Go layout used for the date field when none is configured.
const DefaultDateFormat = "2006-01-02"

// Env carries values that do not come from the track.
type Env struct {
	Now        time.Time
	DateFormat string
}

func (e Env) date() string {
	layout := e.DateFormat
	if layout == "" {
		layout = DefaultDateFormat
	}
	now := e.Now
	if now.IsZero() {
		now = time.Now()
	}
	return now.Format(layout)
}

// Field is a named track attribute usable as a template variable and a frontmatter key.
type Field struct {
	Key            string
	Label          string
	Description    string
	DefaultEnabled bool

	// Value renders the field as text for templates.
	Value func(t *models.Track, env Env) string

	// Typed returns the frontmatter value when it should not be a plain string.
	Typed func(t *models.Track, env Env) any
}

// FrontmatterValue returns the value written into frontmatter.
func (f Field) FrontmatterValue(t *models.Track, env Env) any {
	if f.Typed != nil {
		return f.Typed(t, env)
	}
	return f.Value(t, env)
}

// Registry lists every field in frontmatter order.
var Registry = []Field{
	{
		Key: "title", Label: "Title", Description: "Track title", DefaultEnabled: true,
		Value: func(t *models.Track, _ Env) string { return t.Name },
	},
	{
		Key: "artist", Label: "Artist", Description: "Artist name(s), comma-separated", DefaultEnabled: true,
		Value: func(t *models.Track, _ Env) string { return t.ArtistLine() },
		Typed: func(t *models.Track, _ Env) any { return t.ArtistNames() },
	},
	{
		Key: "album", Label: "Album", Description: "Album name", DefaultEnabled: true,
		Value: func(t *models.Track, _ Env) string { return t.Album.Name },
	},
	{
		Key: "release_date", Label: "Release date", Description: "Album release date", DefaultEnabled: true,
		Value: func(t *models.Track, _ Env) string { return t.Album.ReleaseDate },
	},
	{
		Key: "date", Label: "Date created", Description: "Note creation date (uses the date format setting)", DefaultEnabled: true,
		Value: func(_ *models.Track, env Env) string { return env.date() },
	},
	{
		Key: "cover", Label: "Cover image", Description: "Album cover image URL", DefaultEnabled: true,
		Value: func(t *models.Track, _ Env) string { return t.CoverURL() },
	},
	{
		Key: "spotify_url", Label: "Spotify URL", Description: "Spotify track URL", DefaultEnabled: true,
		Value: func(t *models.Track, _ Env) string { return t.ExternalURLs.Spotify },
	},
	{
		Key: "spotify_id", Label: "Spotify ID", Description: "Spotify track ID", DefaultEnabled: true,
		Value: func(t *models.Track, _ Env) string { return t.ID },
	},
	{
		Key: "duration_ms", Label: "Duration (ms)", Description: "Track duration in milliseconds", DefaultEnabled: true,
		Value: func(t *models.Track, _ Env) string { return strconv.Itoa(t.DurationMS) },
		Typed: func(t *models.Track, _ Env) any { return t.DurationMS },
	},
	{
		Key: "duration", Label: "Duration (formatted)", Description: "Track duration in m:ss format", DefaultEnabled: false,
		Value: func(t *models.Track, _ Env) string { return shared.FormatDuration(t.DurationMS) },
	},
}

// Lookup finds a field by key.
func Lookup(key string) (Field, bool) {
	for _, f := range Registry {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// DefaultFields returns the default enabled flag for every field.
func DefaultFields() map[string]bool {
	fields := make(map[string]bool, len(Registry))
	for _, f := range Registry {
		fields[f.Key] = f.DefaultEnabled
	}
	return fields
}

// enabled resolves a field's flag, falling back to its default when the key is absent.
func enabled(fields map[string]bool, f Field) bool {
	if v, ok := fields[f.Key]; ok {
		return v
	}
	return f.DefaultEnabled
}
