package vault

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/songnote/internal/shared"
	tu "github.com/desertthunder/songnote/internal/testing"
)

func TestNormalize(t *testing.T) {
	tc := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "Songs/Track.md", want: "Songs/Track.md"},
		{in: "/Songs//Track.md", want: "Songs/Track.md"},
		{in: `Songs\Track.md`, want: "Songs/Track.md"},
		{in: "Songs/./sub/../Track.md", want: "Songs/Track.md"},
		{in: "", want: ""},
		{in: ".", want: ""},
		{in: "../outside.md", wantErr: true},
		{in: "Songs/../../outside.md", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrOutsideVault) {
					t.Errorf("expected ErrOutsideVault, got %q, %v", got, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("Normalize(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestFS(t *testing.T) {
	t.Run("NewFS requires a directory", func(t *testing.T) {
		dir := t.TempDir()
		file := filepath.Join(dir, "file")
		os.WriteFile(file, nil, 0644)

		if _, err := NewFS(file); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
		if _, err := NewFS(filepath.Join(dir, "missing")); err == nil {
			t.Error("expected error for missing directory")
		}
	})

	t.Run("Create, Exists and Read", func(t *testing.T) {
		dir := t.TempDir()
		v, err := NewFS(dir)
		if err != nil {
			t.Fatal(err)
		}

		if err := v.EnsureFolder("Songs/2025"); err != nil {
			t.Fatalf("EnsureFolder() error = %v", err)
		}
		tu.AssertDirExists(t, filepath.Join(dir, "Songs", "2025"))

		if err := v.Create("Songs/2025/Track.md", []byte("# Track")); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if got := tu.MustReadFile(t, filepath.Join(dir, "Songs", "2025", "Track.md")); got != "# Track" {
			t.Errorf("unexpected content %q", got)
		}

		exists, err := v.Exists("Songs/2025/Track.md")
		if err != nil || !exists {
			t.Errorf("Exists() = %v, %v", exists, err)
		}
		exists, _ = v.Exists("Songs/Other.md")
		if exists {
			t.Error("expected missing file")
		}

		content, err := v.Read("/Songs/2025/Track.md")
		if err != nil || string(content) != "# Track" {
			t.Errorf("Read() = %q, %v", content, err)
		}
		if v.Abs("Songs/2025/Track.md") != filepath.Join(dir, "Songs", "2025", "Track.md") {
			t.Errorf("unexpected Abs %s", v.Abs("Songs/2025/Track.md"))
		}
	})

	t.Run("Create does not overwrite", func(t *testing.T) {
		v, _ := NewFS(t.TempDir())
		v.Create("Track.md", []byte("first"))

		if err := v.Create("Track.md", []byte("second")); !errors.Is(err, shared.ErrNoteExists) {
			t.Errorf("expected ErrNoteExists, got %v", err)
		}
		content, _ := v.Read("Track.md")
		if string(content) != "first" {
			t.Errorf("file was overwritten: %q", content)
		}
	})

	t.Run("Rejects escapes", func(t *testing.T) {
		v, _ := NewFS(t.TempDir())
		if err := v.Create("../escape.md", nil); !errors.Is(err, shared.ErrOutsideVault) {
			t.Errorf("expected ErrOutsideVault, got %v", err)
		}
	})
}

func TestMemory(t *testing.T) {
	v := NewMemory()

	if err := v.Create("Songs/Track.md", nil); err == nil {
		t.Error("expected error when folder is missing")
	}

	v.EnsureFolder("Songs")
	if err := v.Create("Songs/Track.md", []byte("body")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := v.Create("Songs/Track.md", nil); !errors.Is(err, shared.ErrNoteExists) {
		t.Errorf("expected ErrNoteExists, got %v", err)
	}

	for _, p := range []string{"Songs", "Songs/Track.md", ""} {
		if ok, _ := v.Exists(p); !ok {
			t.Errorf("expected %q to exist", p)
		}
	}
	if content, _ := v.Read("Songs/Track.md"); string(content) != "body" {
		t.Errorf("unexpected content %q", content)
	}
	if _, err := v.Read("missing.md"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not exist, got %v", err)
	}
}
