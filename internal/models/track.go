package models

import "strings"

// ExternalURLs holds the public links of a catalog object.
type ExternalURLs struct {
	Spotify string `json:"spotify"`
}

// ExternalIDs holds industry identifiers for a track.
type ExternalIDs struct {
	ISRC string `json:"isrc,omitempty"`
	EAN  string `json:"ean,omitempty"`
	UPC  string `json:"upc,omitempty"`
}

// Image is an artwork rendition.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Artist is the simplified artist object embedded in tracks and albums.
type Artist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	URI          string       `json:"uri"`
	Href         string       `json:"href"`
	ExternalURLs ExternalURLs `json:"external_urls"`
}

// Album is the simplified album object embedded in a track.
type Album struct {
	ID                   string       `json:"id"`
	Name                 string       `json:"name"`
	AlbumType            string       `json:"album_type"`
	ReleaseDate          string       `json:"release_date"`
	ReleaseDatePrecision string       `json:"release_date_precision"`
	TotalTracks          int          `json:"total_tracks"`
	Images               []Image      `json:"images"`
	Artists              []Artist     `json:"artists"`
	URI                  string       `json:"uri"`
	ExternalURLs         ExternalURLs `json:"external_urls"`
}

// Track is a Spotify catalog track as returned by GET /tracks/{id}.
type Track struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Artists      []Artist     `json:"artists"`
	Album        Album        `json:"album"`
	DurationMS   int          `json:"duration_ms"`
	Explicit     bool         `json:"explicit"`
	Popularity   int          `json:"popularity"`
	TrackNumber  int          `json:"track_number"`
	DiscNumber   int          `json:"disc_number"`
	PreviewURL   *string      `json:"preview_url"`
	URI          string       `json:"uri"`
	Href         string       `json:"href"`
	ExternalURLs ExternalURLs `json:"external_urls"`
	ExternalIDs  ExternalIDs  `json:"external_ids"`
}

// ArtistNames returns the credited artist names in order.
func (t *Track) ArtistNames() []string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	return names
}

// ArtistLine joins the artist names with ", ".
func (t *Track) ArtistLine() string {
	return strings.Join(t.ArtistNames(), ", ")
}

// PrimaryArtist returns the first credited artist, or "" when there is none.
func (t *Track) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0].Name
}

// CoverURL returns the largest album image, which the API lists first.
func (t *Track) CoverURL() string {
	if len(t.Album.Images) == 0 {
		return ""
	}
	return t.Album.Images[0].URL
}

// SpotifyURI returns the track URI, building it from the id when the response omitted it.
func (t *Track) SpotifyURI() string {
	if t.URI != "" {
		return t.URI
	}
	return "spotify:track:" + t.ID
}
