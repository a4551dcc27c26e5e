package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestCacheDirDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	c := New(&bytes.Buffer{}, log.InfoLevel)

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := filepath.Join(t.TempDir(), "custom-cache")
	t.Setenv("XDG_CACHE_HOME", customCache)
	c := New(&bytes.Buffer{}, log.InfoLevel)

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestCacheDirFromConfig(t *testing.T) {
	cfgDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfgDir)
	path := filepath.Join(cfgDir, "config.toml")
	if err := os.WriteFile(path, []byte("[cache]\ndir = \"runs\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	c := New(&bytes.Buffer{}, log.InfoLevel)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"--config", path, "cache", "path"})
	if err := root.Execute(); err != nil {
		t.Fatalf("cache path: %v", err)
	}

	want := filepath.Join(cfgDir, "runs")
	if got := strings.TrimSpace(out.String()); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestClearDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"ab/one.json", "ab/two.json", "cd/three.json"} {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	count, err := clearDir(dir)
	if err != nil {
		t.Fatalf("clearDir() error: %v", err)
	}
	if count != 3 {
		t.Errorf("clearDir() = %d, want 3", count)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("cache dir should survive: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("cache dir has %d entries left", len(entries))
	}

	if count, err := clearDir(filepath.Join(dir, "missing")); err != nil || count != 0 {
		t.Errorf("clearDir(missing) = %d, %v; want 0, nil", count, err)
	}
}
