// package vault stores notes in a directory tree addressed by slash-separated relative paths
package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/desertthunder/songnote/internal/shared"
)

// Vault is the file API notes are written through.
type Vault interface {
	// Exists reports whether a file or folder exists at p.
	Exists(p string) (bool, error)
	// EnsureFolder creates p and any missing parents.
	EnsureFolder(p string) error
	// Create writes a new file; it fails with [shared.ErrNoteExists] when p already exists.
	Create(p string, content []byte) error
	// Read returns a file's content.
	Read(p string) ([]byte, error)
	// Abs returns a displayable location for p.
	Abs(p string) string
}

// Normalize cleans p into a slash-separated path relative to the vault root.
// Leading slashes are dropped and "." becomes "". Paths that climb above the root are rejected.
func Normalize(p string) (string, error) {
	p = strings.ReplaceAll(p, `\`, "/")
	p = strings.TrimLeft(p, "/")
	p = path.Clean(p)
	if p == "." {
		return "", nil
	}
	if strings.HasPrefix(p, "../") || p == ".." {
		return "", fmt.Errorf("%w: %s", shared.ErrOutsideVault, p)
	}
	return p, nil
}

// Join normalizes folder + name.
func Join(folder, name string) (string, error) {
	return Normalize(path.Join(folder, name))
}

// FS is a [Vault] on the local filesystem.
type FS struct {
	root string
}

// NewFS opens the vault at root, which must be an existing directory.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vault path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: vault path %s is not a directory", shared.ErrInvalidConfig, abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute vault directory.
func (v *FS) Root() string { return v.root }

func (v *FS) resolve(p string) (string, error) {
	rel, err := Normalize(p)
	if err != nil {
		return "", err
	}
	return filepath.Join(v.root, filepath.FromSlash(rel)), nil
}

func (v *FS) Exists(p string) (bool, error) {
	full, err := v.resolve(p)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("failed to stat %s: %w", p, err)
	}
}

func (v *FS) EnsureFolder(p string) error {
	full, err := v.resolve(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(full, 0755); err != nil {
		return fmt.Errorf("failed to create folder %s: %w", p, err)
	}
	return nil
}

func (v *FS) Create(p string, content []byte) error {
	full, err := v.resolve(p)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %s", shared.ErrNoteExists, p)
	}
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", p, err)
	}

	if _, err := f.Write(content); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", p, err)
	}
	return f.Close()
}

func (v *FS) Read(p string) ([]byte, error) {
	full, err := v.resolve(p)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(full)
}

func (v *FS) Abs(p string) string {
	full, err := v.resolve(p)
	if err != nil {
		return p
	}
	return full
}

// Memory is an in-memory [Vault].
type Memory struct {
	mu      sync.Mutex
	files   map[string][]byte
	folders map[string]bool
}

// NewMemory returns an empty in-memory vault.
func NewMemory() *Memory {
	return &Memory{files: map[string][]byte{}, folders: map[string]bool{"": true}}
}

func (m *Memory) Exists(p string) (bool, error) {
	rel, err := Normalize(p)
	if err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, isFile := m.files[rel]
	return isFile || m.folders[rel], nil
}

func (m *Memory) EnsureFolder(p string) error {
	rel, err := Normalize(p)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for dir := rel; dir != "." && dir != ""; dir = path.Dir(dir) {
		m.folders[dir] = true
	}
	return nil
}

func (m *Memory) Create(p string, content []byte) error {
	rel, err := Normalize(p)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[rel]; ok {
		return fmt.Errorf("%w: %s", shared.ErrNoteExists, p)
	}
	if dir := path.Dir(rel); dir != "." && !m.folders[dir] {
		return fmt.Errorf("failed to create %s: folder %s does not exist", p, dir)
	}
	m.files[rel] = append([]byte(nil), content...)
	return nil
}

func (m *Memory) Read(p string) ([]byte, error) {
	rel, err := Normalize(p)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.files[rel]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", p, fs.ErrNotExist)
	}
	return append([]byte(nil), content...), nil
}

func (m *Memory) Abs(p string) string {
	rel, _ := Normalize(p)
	return "memory://" + rel
}
