package services

import (
	"regexp"
	"strings"
)

var trackIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`spotify:track:([A-Za-z0-9]+)`),
	regexp.MustCompile(`spotify\.com/track/([A-Za-z0-9]+)`),
	regexp.MustCompile(`^([A-Za-z0-9]{22})$`),
}

// ExtractTrackID finds a track id in a URI, an open.spotify.com link or a bare 22-character id.
//
// Patterns are tried in that order and the first match wins. Query strings after a link are ignored.
func ExtractTrackID(input string) (string, bool) {
	input = strings.TrimSpace(input)
	for _, re := range trackIDPatterns {
		if m := re.FindStringSubmatch(input); m != nil {
			return m[1], true
		}
	}
	return "", false
}

var playlistIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^spotify:playlist:([A-Za-z0-9]+)$`),
	regexp.MustCompile(`spotify\.com/playlist/([A-Za-z0-9]+)`),
}

// ExtractPlaylistID accepts a playlist URI, an open.spotify.com playlist link or a bare id and returns the id.
// Input matching neither form is returned trimmed, as is.
func ExtractPlaylistID(input string) string {
	input = strings.TrimSpace(input)
	for _, re := range playlistIDPatterns {
		if m := re.FindStringSubmatch(input); m != nil {
			return m[1]
		}
	}
	return input
}
