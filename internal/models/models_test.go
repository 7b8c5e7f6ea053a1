package models

import (
	"encoding/json"
	"testing"
)

const trackJSON = `{
	"id": "4uLU6hMCjMI75M1A2tKUQC",
	"name": "Never Gonna Give You Up",
	"artists": [{"id": "0gxyHStUsqpMadRV0Di1Qt", "name": "Rick Astley"}, {"id": "x", "name": "Guest"}],
	"album": {
		"name": "Whenever You Need Somebody",
		"release_date": "1987-11-12",
		"images": [{"url": "https://i.scdn.co/large", "height": 640, "width": 640}, {"url": "https://i.scdn.co/small", "height": 64, "width": 64}]
	},
	"duration_ms": 213573,
	"external_urls": {"spotify": "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC"}
}`

func TestTrack(t *testing.T) {
	var track Track
	if err := json.Unmarshal([]byte(trackJSON), &track); err != nil {
		t.Fatalf("failed to decode track: %v", err)
	}

	t.Run("decodes nested fields", func(t *testing.T) {
		if track.Album.ReleaseDate != "1987-11-12" || track.DurationMS != 213573 {
			t.Errorf("unexpected track %+v", track)
		}
	})

	t.Run("ArtistLine", func(t *testing.T) {
		if got := track.ArtistLine(); got != "Rick Astley, Guest" {
			t.Errorf("ArtistLine() = %q", got)
		}
		if got := track.PrimaryArtist(); got != "Rick Astley" {
			t.Errorf("PrimaryArtist() = %q", got)
		}
	})

	t.Run("CoverURL picks first image", func(t *testing.T) {
		if got := track.CoverURL(); got != "https://i.scdn.co/large" {
			t.Errorf("CoverURL() = %q", got)
		}
		if (&Track{}).CoverURL() != "" {
			t.Error("expected empty cover for track without images")
		}
	})

	t.Run("SpotifyURI falls back to id", func(t *testing.T) {
		if got := track.SpotifyURI(); got != "spotify:track:4uLU6hMCjMI75M1A2tKUQC" {
			t.Errorf("SpotifyURI() = %q", got)
		}
	})
}

func TestEntitiesValidate(t *testing.T) {
	tc := []struct {
		name    string
		model   Model
		wantErr bool
	}{
		{name: "valid note", model: NewNote("id", "Title", "Artist", "Album", "Songs/Title.md")},
		{name: "note without path", model: NewNote("id", "Title", "Artist", "Album", ""), wantErr: true},
		{name: "note without title", model: NewNote("id", "", "Artist", "Album", "x.md"), wantErr: true},
		{name: "valid playlist entry", model: NewPlaylistEntry("pl", "tr", "snap")},
		{name: "entry without playlist", model: NewPlaylistEntry("", "tr", ""), wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.model.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
