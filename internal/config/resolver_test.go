package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolvePath_XDGConfigHome(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "tgrelay")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	cfgPath := filepath.Join(cfgDir, FileName)
	if err := os.WriteFile(cfgPath, []byte("bot: {}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := ResolvePath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != cfgPath {
		t.Errorf("got %q, want %q", got, cfgPath)
	}
}

func TestResolvePath_NotFound(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/nonexistent/path")
	t.Chdir(t.TempDir())

	if _, err := ResolvePath(); err == nil {
		t.Error("expected error when no config file found")
	}
}

func TestSearchPaths_EndsWithWorkingDirectory(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	got := SearchPaths()
	want := []string{filepath.Join("/xdg", "tgrelay", FileName), FileName}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("SearchPaths() = %v, want %v", got, want)
	}
}
