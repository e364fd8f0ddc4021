package mcpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/json2ts/internal/testutil"
)

func TestSchemaInputLoad_Sources(t *testing.T) {
	withConfig(t, nil)

	t.Run("none", func(t *testing.T) {
		_, err := schemaInput{}.load(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "got none")
	})

	t.Run("several", func(t *testing.T) {
		_, err := schemaInput{File: "a.json", Content: "{}"}.load(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "got file and content")
	})

	t.Run("content", func(t *testing.T) {
		l, err := schemaInput{Content: `{"type": "string"}`}.load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "schema", l.Name)
		assert.Empty(t, l.Dir)
		assert.Equal(t, "string", l.Schema.Value("type"))
	})

	t.Run("content with name", func(t *testing.T) {
		l, err := schemaInput{Content: `{"type": "string"}`, Name: "Label"}.load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Label", l.Name)
	})

	t.Run("file", func(t *testing.T) {
		path := testutil.WriteTempFile(t, "person.yaml", []byte("type: object\n"))
		l, err := schemaInput{File: path}.load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "person.yaml", l.Name)
		assert.Equal(t, filepath.Dir(path), l.Dir)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := schemaInput{File: filepath.Join(t.TempDir(), "nope.json")}.load(context.Background())
		assert.Error(t, err)
	})

	t.Run("undecodable content", func(t *testing.T) {
		_, err := schemaInput{Content: "{"}.load(context.Background())
		assert.Error(t, err)
	})
}

func TestSchemaInputLoad_InlineLimit(t *testing.T) {
	withConfig(t, func(c *serverConfig) { c.MaxInlineSize = 8 })

	_, err := schemaInput{Content: `{"type": "string"}`}.load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON2TS_MAX_INLINE_SIZE")
}

func TestSchemaInputLoad_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"type": "number"}`))
	}))
	t.Cleanup(srv.Close)

	t.Run("private addresses blocked by default", func(t *testing.T) {
		withConfig(t, nil)
		_, err := schemaInput{URL: srv.URL + "/price.json"}.load(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "blocked")
	})

	t.Run("allowed", func(t *testing.T) {
		withConfig(t, func(c *serverConfig) { c.AllowPrivateIPs = true })
		l, err := schemaInput{URL: srv.URL + "/price.json"}.load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "price.json", l.Name)
		assert.Empty(t, l.Dir)
	})

	t.Run("not http", func(t *testing.T) {
		withConfig(t, nil)
		_, err := schemaInput{URL: "file:///etc/passwd"}.load(context.Background())
		require.Error(t, err)
	})
}

func TestSchemaCache(t *testing.T) {
	withConfig(t, nil)

	path := testutil.WriteTempFile(t, "cached.json", []byte(`{"type": "string"}`))
	in := schemaInput{File: path}

	first, err := in.load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, schemaCache.size())

	second, err := in.load(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)

	t.Run("file change invalidates", func(t *testing.T) {
		later := time.Now().Add(time.Minute)
		require.NoError(t, os.WriteFile(path, []byte(`{"type": "number"}`), 0o600))
		require.NoError(t, os.Chtimes(path, later, later))

		third, err := in.load(context.Background())
		require.NoError(t, err)
		assert.NotSame(t, first, third)
		assert.Equal(t, "number", third.Schema.Value("type"))
	})

	t.Run("name is part of the key", func(t *testing.T) {
		named, err := schemaInput{File: path, Name: "Other"}.load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Other", named.Name)
	})
}

func TestSchemaCache_Disabled(t *testing.T) {
	withConfig(t, func(c *serverConfig) { c.CacheEnabled = false })

	_, err := schemaInput{Content: `{"type": "string"}`}.load(context.Background())
	require.NoError(t, err)
	assert.Zero(t, schemaCache.size())
}

func TestSchemaCache_Eviction(t *testing.T) {
	c := &schemaCacheStore{entries: make(map[string]*cacheEntry), maxSize: 2}
	a, b, d := &loadedSchema{Name: "a"}, &loadedSchema{Name: "b"}, &loadedSchema{Name: "d"}

	c.put("a", a, time.Minute)
	time.Sleep(time.Millisecond)
	c.put("b", b, time.Minute)
	time.Sleep(time.Millisecond)
	require.Same(t, a, c.get("a")) // touch a so b is oldest
	c.put("d", d, time.Minute)

	assert.Equal(t, 2, c.size())
	assert.Nil(t, c.get("b"))
	assert.Same(t, a, c.get("a"))
	assert.Same(t, d, c.get("d"))
}

func TestSchemaCache_Expiry(t *testing.T) {
	c := &schemaCacheStore{entries: make(map[string]*cacheEntry), maxSize: 4}
	c.put("gone", &loadedSchema{}, -time.Second)
	c.put("kept", &loadedSchema{}, time.Minute)

	c.sweep()
	assert.Equal(t, 1, c.size())
	assert.Nil(t, c.get("gone"))
}

func TestSchemaCache_Sweeper(t *testing.T) {
	c := &schemaCacheStore{entries: make(map[string]*cacheEntry), maxSize: 4}
	c.put("gone", &loadedSchema{}, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.startSweeper(ctx, 5*time.Millisecond)

	assert.Eventually(t, func() bool { return c.size() == 0 }, time.Second, 5*time.Millisecond)
}

func TestCacheKey(t *testing.T) {
	withConfig(t, nil)

	key, ttl := schemaInput{Content: "{}"}.cacheKey()
	assert.True(t, strings.HasPrefix(key, "content:"))
	assert.Equal(t, cfg.CacheContentTTL, ttl)

	key, ttl = schemaInput{URL: "https://example.com/a.json"}.cacheKey()
	assert.Equal(t, "url:https://example.com/a.json:", key)
	assert.Equal(t, cfg.CacheURLTTL, ttl)

	key, _ = schemaInput{File: filepath.Join(t.TempDir(), "missing.json")}.cacheKey()
	assert.Empty(t, key)
}
