package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erraggy/json2ts/internal/options"
	"github.com/erraggy/json2ts/resolver"
	"github.com/erraggy/json2ts/schema"
)

// schemaInput represents the three ways a JSON Schema can be provided to a tool.
// Exactly one of File, URL, or Content must be set.
type schemaInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a JSON Schema file on disk (JSON or YAML)"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch a JSON Schema document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline JSON Schema document content (JSON or YAML)"`
	Name    string `json:"name,omitempty"    jsonschema:"Root type name used when the schema has no title or $id (default: the file name, or Schema for inline content)"`
}

// loadedSchema is a decoded input ready to compile. Schema is shared
// between cache hits; the compiler clones it before use.
type loadedSchema struct {
	Schema *schema.Schema
	// Name is the compile name
	Name string
	// Dir is the directory relative file refs resolve against, "" for
	// URL and inline inputs
	Dir string
}

// cacheEntry holds a decoded schema with LRU ordering and TTL expiry.
type cacheEntry struct {
	loaded    *loadedSchema
	touchedAt time.Time
	expiresAt time.Time
}

// schemaCacheStore is a session-scoped cache of decoded inputs.
// File inputs are keyed by (absolutePath, modTime), content inputs by a
// SHA-256 hash and URL inputs by the URL string.
type schemaCacheStore struct {
	mu             sync.Mutex
	entries        map[string]*cacheEntry
	maxSize        int
	sweeperStarted atomic.Bool
}

var schemaCache = &schemaCacheStore{
	entries: make(map[string]*cacheEntry),
	maxSize: cfg.CacheMaxSize,
}

func (c *schemaCacheStore) get(key string) *loadedSchema {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil
	}
	e.touchedAt = time.Now()
	return e.loaded
}

// put stores l, evicting the least recently used entry when full.
func (c *schemaCacheStore) put(key string, l *loadedSchema, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	entry := &cacheEntry{loaded: l, touchedAt: now, expiresAt: now.Add(ttl)}
	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxSize {
		var oldestKey string
		var oldest time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.touchedAt.Before(oldest) {
				oldestKey, oldest = k, e.touchedAt
			}
		}
		delete(c.entries, oldestKey)
	}
	c.entries[key] = entry
}

// sweep removes all expired entries from the cache.
func (c *schemaCacheStore) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// startSweeper periodically removes expired entries until ctx is
// cancelled. Only the first call spawns a sweeper.
func (c *schemaCacheStore) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 || !c.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

// reset clears all cached entries. Used in tests.
func (c *schemaCacheStore) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

func (c *schemaCacheStore) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// cacheKey returns the key and TTL for s, or "" when s cannot be cached.
// The name is part of the key because it is part of the loaded value.
func (s schemaInput) cacheKey() (string, time.Duration) {
	switch {
	case s.File != "":
		absPath, err := filepath.Abs(s.File)
		if err != nil {
			return "", 0
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return "", 0
		}
		return fmt.Sprintf("file:%s:%d:%s", absPath, info.ModTime().UnixNano(), s.Name), cfg.CacheFileTTL
	case s.Content != "":
		h := sha256.Sum256([]byte(s.Content))
		return fmt.Sprintf("content:%s:%s", hex.EncodeToString(h[:]), s.Name), cfg.CacheContentTTL
	case s.URL != "":
		return fmt.Sprintf("url:%s:%s", s.URL, s.Name), cfg.CacheURLTTL
	default:
		return "", 0
	}
}

// load decodes the schema from whichever input was provided, using the
// cache when it is enabled.
func (s schemaInput) load(ctx context.Context) (*loadedSchema, error) {
	err := options.ExactlyOne(
		options.Source{Name: "file", Set: s.File != ""},
		options.Source{Name: "url", Set: s.URL != ""},
		options.Source{Name: "content", Set: s.Content != ""},
	)
	if err != nil {
		return nil, err
	}
	if int64(len(s.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set JSON2TS_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}

	var key string
	var ttl time.Duration
	if cfg.CacheEnabled {
		key, ttl = s.cacheKey()
	}
	if key != "" {
		if cached := schemaCache.get(key); cached != nil {
			return cached, nil
		}
	}

	data, l, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	if s.Name != "" {
		l.Name = s.Name
	}
	if l.Schema, err = schema.DecodeSchema(data); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", l.Name, err)
	}

	if key != "" {
		schemaCache.put(key, l, ttl)
	}
	return l, nil
}

func (s schemaInput) read(ctx context.Context) ([]byte, *loadedSchema, error) {
	switch {
	case s.File != "":
		abs, err := filepath.Abs(s.File)
		if err != nil {
			return nil, nil, err
		}
		data, err := os.ReadFile(abs) //nolint:gosec // path supplied by the MCP client
		if err != nil {
			return nil, nil, fmt.Errorf("reading file: %w", err)
		}
		return data, &loadedSchema{Name: filepath.Base(abs), Dir: filepath.Dir(abs)}, nil
	case s.URL != "":
		u, err := url.Parse(s.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return nil, nil, fmt.Errorf("url must be an absolute http or https URL: %q", s.URL)
		}
		fetch := resolver.NewHTTPFetcher(refClient(), "", resolver.MaxFileSize)
		data, err := fetch(ctx, s.URL)
		if err != nil {
			return nil, nil, err
		}
		if len(data) > resolver.MaxFileSize {
			return nil, nil, fmt.Errorf("document at %s exceeds %d bytes", s.URL, resolver.MaxFileSize)
		}
		name := path.Base(u.Path)
		if name == "/" || name == "." {
			name = "schema"
		}
		return data, &loadedSchema{Name: name}, nil
	default:
		return []byte(s.Content), &loadedSchema{Name: "schema"}, nil
	}
}
