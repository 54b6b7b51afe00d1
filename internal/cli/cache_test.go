package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/drpeachy/tagbubbles/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	// Verify the expected structure: $HOME/.cache/tagbubbles
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != filepath.Join(xdg, appName) {
		t.Errorf("cacheDir() = %q, want under %q", dir, xdg)
	}
}

func TestNewCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv(envRedis, "")
	c := New(os.Stderr, LogInfo)

	nc, err := c.newCache(context.Background(), true)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := nc.(cache.NullCache); !ok {
		t.Errorf("--no-cache gave %T, want NullCache", nc)
	}

	fc, err := c.newCache(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := fc.(*cache.FileCache); !ok {
		t.Errorf("default cache is %T, want *FileCache", fc)
	}
}

func TestNewCacheFallsBackWhenRedisIsBad(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv(envRedis, "not a url")
	c := New(os.Stderr, LogInfo)

	got, err := c.newCache(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got.(*cache.FileCache); !ok {
		t.Errorf("cache = %T, want *FileCache fallback", got)
	}
}

func TestOpenFileCacheMissing(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	if _, ok, err := openFileCache(); err != nil || ok {
		t.Errorf("openFileCache() = (%v, %v), want no cache", ok, err)
	}
}

func TestCacheCommands(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir, _ := cacheDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	_ = fc.Set(ctx, "snapshot:a", []byte("a"), time.Hour)
	_ = fc.Set(ctx, "snapshot:b", []byte("b"), time.Nanosecond)
	time.Sleep(time.Millisecond)

	root := New(os.Stderr, LogInfo).command()
	for _, args := range [][]string{{"cache", "info"}, {"cache", "prune"}} {
		root.SetArgs(args)
		if err := root.ExecuteContext(ctx); err != nil {
			t.Fatalf("%s: %v", strings.Join(args, " "), err)
		}
	}
	if st, _ := fc.Stats(); st.Entries != 1 || st.Expired != 0 {
		t.Errorf("after prune: %+v, want one live entry", st)
	}

	root.SetArgs([]string{"cache", "clear"})
	if err := root.ExecuteContext(ctx); err != nil {
		t.Fatal(err)
	}
	if st, _ := fc.Stats(); st.Entries != 0 {
		t.Errorf("after clear: %+v", st)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
