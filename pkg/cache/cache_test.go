package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	defer c.Close()

	_, hit, err := c.Get(ctx, "graph:missing")
	require.NoError(t, err)
	require.False(t, hit)

	require.NoError(t, c.Set(ctx, "graph:abc", []byte(`{"depth":3}`), time.Hour))
	data, hit, err := c.Get(ctx, "graph:abc")
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, `{"depth":3}`, string(data))

	// Overwrite replaces the entry.
	require.NoError(t, c.Set(ctx, "graph:abc", []byte("v2"), 0))
	data, _, _ = c.Get(ctx, "graph:abc")
	require.Equal(t, "v2", string(data))

	require.NoError(t, c.Delete(ctx, "graph:abc"))
	_, hit, _ = c.Get(ctx, "graph:abc")
	require.False(t, hit)
	require.NoError(t, c.Delete(ctx, "graph:abc"), "deleting a missing key")
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	_, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, hit)
	_, statErr := os.Stat(c.path("k"))
	require.True(t, os.IsNotExist(statErr), "expired entry should be removed")
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Hour))
	require.NoError(t, os.WriteFile(c.path("k"), []byte("not json"), 0644))

	_, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, hit)
}

func TestFileCacheLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	require.NoError(t, err)

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, c.Set(ctx, k, []byte(k), time.Hour))
	}
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		require.NoError(t, err)
		require.False(t, strings.HasPrefix(d.Name(), ".entry-"), "leftover temp file %s", path)
		return nil
	})
	require.NoError(t, err)
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	require.Equal(t, "graph:run-1", k.GraphKey("run-1"))
	require.Equal(t, "artifact:run-1:svg", k.ArtifactKey("run-1", "svg"))

	type params struct{ MaxDepth, NewVerticesNum int }
	a := k.ParamsKey(params{4, 3})
	require.True(t, strings.HasPrefix(a, "params:"))
	require.Equal(t, a, k.ParamsKey(params{4, 3}))
	require.NotEqual(t, a, k.ParamsKey(params{4, 2}))
}

func TestScopedKeyer(t *testing.T) {
	k := NewScopedKeyer(nil, "api:")
	require.Equal(t, "api:graph:x", k.GraphKey("x"))
	require.Equal(t, "api:artifact:x:json", k.ArtifactKey("x", "json"))
	require.Equal(t, "api:"+NewDefaultKeyer().ParamsKey(1), k.ParamsKey(1))
}

func TestRetryable(t *testing.T) {
	require.Nil(t, Retryable(nil))

	base := errors.New("boom")
	err := Retryable(base)
	require.True(t, IsRetryable(err))
	require.ErrorIs(t, err, base)
	require.Equal(t, "boom", err.Error())
	require.False(t, IsRetryable(base))
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = old }()
	ctx := context.Background()

	tests := []struct {
		name      string
		failures  int
		retryable bool
		wantCalls int
		wantErr   bool
	}{
		{"succeeds first try", 0, true, 1, false},
		{"recovers after retries", 2, true, 3, false},
		{"gives up after three", 5, true, 3, true},
		{"permanent error", 5, false, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, func() error {
				calls++
				if calls <= tt.failures {
					if tt.retryable {
						return Retryable(ErrUnavailable)
					}
					return ErrUnavailable
				}
				return nil
			})
			require.Equal(t, tt.wantCalls, calls)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnavailable)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRetryWithBackoffCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return Retryable(ErrUnavailable)
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("GRAPHGEN_REDIS_ADDR")
	if addr == "" {
		t.Skip("GRAPHGEN_REDIS_ADDR not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisOptions{Addr: addr})
	require.NoError(t, err)
	defer c.Close()

	key := "graphgen-test:" + t.Name()
	_, hit, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, hit)

	require.NoError(t, c.Set(ctx, key, []byte("v"), time.Minute))
	data, hit, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, "v", string(data))

	require.NoError(t, c.Delete(ctx, key))
	_, hit, _ = c.Get(ctx, key)
	require.False(t, hit)
}
