package shared

import (
	"errors"
	"os/exec"
	"testing"
)

func TestOpenBrowser(t *testing.T) {
	origRuntime, origStart := getRuntime, startCmd
	t.Cleanup(func() { getRuntime, startCmd = origRuntime, origStart })

	var started *exec.Cmd
	startCmd = func(cmd *exec.Cmd) error { started = cmd; return nil }

	t.Run("uses platform command", func(t *testing.T) {
		tc := map[string]string{"darwin": "open", "linux": "xdg-open", "windows": "rundll32"}
		for goos, want := range tc {
			getRuntime = func() string { return goos }
			if err := OpenBrowser("https://example.com/authorize"); err != nil {
				t.Fatalf("%s: OpenBrowser() error = %v", goos, err)
			}
			if started.Args[0] != want {
				t.Errorf("%s: expected %s, got %s", goos, want, started.Args[0])
			}
		}
	})

	t.Run("unsupported platform", func(t *testing.T) {
		getRuntime = func() string { return "plan9" }
		if err := OpenBrowser("https://example.com"); err == nil {
			t.Error("expected error for unsupported platform")
		}
	})

	t.Run("rejects non-http URLs", func(t *testing.T) {
		getRuntime = func() string { return "linux" }
		if err := OpenBrowser("file:///etc/passwd"); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("OpenBrowser() error = %v, want ErrInvalidArgument", err)
		}
	})
}
