package formatter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/desertthunder/songnote/internal/shared"
)

const (
	StructureSongOnly   = "song-only"
	StructureSongArtist = "song-artist"
	StructureArtistSong = "artist-song"

	CasingOriginal = "original"
	CasingKebab    = "kebab-case"
	CasingSnake    = "snake_case"

	// Untitled is the name used when nothing printable survives casing.
	Untitled = "untitled"
)

var (
	nonAlnum    = regexp.MustCompile(`[^\p{L}\p{M}\p{N}]+`)
	unsafeChars = strings.NewReplacer("/", "-", `\`, "-", ":", "-", "*", "", "?", "", `"`, "", "<", "", ">", "", "|", "-")
)

// FileName builds a note name (without extension) from the title and primary artist.
func FileName(title, artist, structure, casing string) (string, error) {
	var name string
	switch structure {
	case StructureSongOnly, "":
		name = title
	case StructureSongArtist:
		name = title + " - " + artist
	case StructureArtistSong:
		name = artist + " - " + title
	default:
		return "", fmt.Errorf("%w: unknown name structure %q", shared.ErrInvalidArgument, structure)
	}

	switch casing {
	case CasingOriginal, "":
		name = strings.TrimSpace(unsafeChars.Replace(name))
	case CasingKebab:
		name = strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(name), "-"), "-")
	case CasingSnake:
		name = strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(name), "_"), "_")
	default:
		return "", fmt.Errorf("%w: unknown name casing %q", shared.ErrInvalidArgument, casing)
	}

	if name == "" {
		name = Untitled
	}
	return name, nil
}

// StructureLabel describes a structure with an example, for prompts and help text.
func StructureLabel(structure string) string {
	const song, artist = "I Would Die 4 U", "Prince"
	switch structure {
	case StructureArtistSong:
		return fmt.Sprintf("Artist - Song (%s - %s)", artist, song)
	case StructureSongArtist:
		return fmt.Sprintf("Song - Artist (%s - %s)", song, artist)
	case StructureSongOnly:
		return fmt.Sprintf("Song only (%s)", song)
	default:
		return structure
	}
}

// CasingLabel describes a casing with an example.
func CasingLabel(casing string) string {
	const example = "I Would Die 4 U"
	name, err := FileName(example, "", StructureSongOnly, casing)
	if err != nil {
		return casing
	}
	switch casing {
	case CasingOriginal:
		return fmt.Sprintf("Original (%s)", name)
	default:
		return fmt.Sprintf("%s (%s)", casing, name)
	}
}
