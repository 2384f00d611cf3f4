package mcpserver

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sdmap/apiids/normalizer"
	"github.com/sdmap/apiids/patterns"
)

// tableInput selects the pattern table a tool works with. When neither File
// nor Content is set, the server's table is used.
type tableInput struct {
	File       string `json:"file,omitempty"       jsonschema:"Path to a YAML or JSON pattern table on disk"`
	Content    string `json:"content,omitempty"    jsonschema:"Inline pattern table content (YAML or JSON)"`
	Duplicates string `json:"duplicates,omitempty" jsonschema:"Duplicate pattern policy: keyed (default) or first"`
}

// fixtureInput represents the two ways a fixture document can be provided.
// Exactly one of File or Content must be set.
type fixtureInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a fixture JSON file on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline fixture JSON content"`
}

// cacheEntry holds a compiled table with LRU ordering and TTL expiry.
type cacheEntry struct {
	table     *patterns.Table
	insertAt  time.Time
	expiresAt time.Time
}

// tableCacheStore provides a session-scoped cache for compiled tables.
// File inputs are keyed by (absolutePath, modTime, policy). Content inputs
// are keyed by a SHA-256 hash and policy.
type tableCacheStore struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	maxSize int
}

var tableCache = &tableCacheStore{
	entries: make(map[string]*cacheEntry),
	maxSize: cfg.CacheMaxSize,
}

// get returns a cached table or nil. Expired entries are lazily removed.
func (c *tableCacheStore) get(key string) *patterns.Table {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
			delete(c.entries, key)
			return nil
		}
		// Touch entry for LRU.
		e.insertAt = time.Now()
		return e.table
	}
	return nil
}

// putWithTTL stores a table with a specific TTL, evicting the oldest entry if at capacity.
func (c *tableCacheStore) putWithTTL(key string, table *patterns.Table, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	entry := &cacheEntry{table: table, insertAt: now, expiresAt: now.Add(ttl)}

	if _, ok := c.entries[key]; ok {
		c.entries[key] = entry
		return
	}

	if len(c.entries) >= c.maxSize {
		var oldestKey string
		var oldestTime time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.insertAt.Before(oldestTime) {
				oldestKey = k
				oldestTime = e.insertAt
			}
		}
		if oldestKey != "" {
			delete(c.entries, oldestKey)
		}
	}

	c.entries[key] = entry
}

// reset clears all cached entries. Used in tests.
func (c *tableCacheStore) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// size returns the number of cached entries.
func (c *tableCacheStore) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// makeCacheKey creates a cache key for the given table input.
func makeCacheKey(t tableInput, policy patterns.DuplicatePolicy) string {
	switch {
	case t.File != "":
		absPath, err := filepath.Abs(t.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return "" // Can't stat, don't cache.
		}
		return fmt.Sprintf("file:%s:%d:%s", absPath, info.ModTime().UnixNano(), policy)
	case t.Content != "":
		h := sha256.Sum256([]byte(t.Content))
		return fmt.Sprintf("content:%s:%s", hex.EncodeToString(h[:]), policy)
	default:
		return ""
	}
}

// resolve returns the table selected by the input, falling back to def.
func (t tableInput) resolve(def *patterns.Table) (*patterns.Table, error) {
	if t.File != "" && t.Content != "" {
		return nil, fmt.Errorf("at most one of file or content may be provided for the table")
	}
	if t.Content != "" && int64(len(t.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline table size %d bytes exceeds maximum %d bytes; use file input instead, or set APIIDS_MCP_MAX_INLINE_SIZE to increase",
			len(t.Content), cfg.MaxInlineSize)
	}

	policy, err := patterns.ParseDuplicatePolicy(t.Duplicates)
	if err != nil {
		return nil, err
	}

	if t.File == "" && t.Content == "" {
		if t.Duplicates == "" || policy == def.Policy() {
			return def, nil
		}
		return patterns.New(def.Declared(), patterns.WithDuplicatePolicy(policy))
	}

	var key string
	if cfg.CacheEnabled {
		key = makeCacheKey(t, policy)
	}
	if key != "" {
		if cached := tableCache.get(key); cached != nil {
			return cached, nil
		}
	}

	var table *patterns.Table
	if t.File != "" {
		table, err = patterns.LoadFile(t.File, patterns.WithDuplicatePolicy(policy))
	} else {
		table, err = patterns.Load([]byte(t.Content), "inline", patterns.WithDuplicatePolicy(policy))
	}
	if err != nil {
		return nil, err
	}

	if key != "" {
		tableCache.putWithTTL(key, table, cfg.CacheFileTTL)
	}
	return table, nil
}

// normalize runs n over whichever fixture input was provided. Inline
// content is never written anywhere.
func (f fixtureInput) normalize(n *normalizer.Normalizer) (*normalizer.Result, error) {
	switch {
	case f.File != "" && f.Content != "":
		return nil, fmt.Errorf("exactly one of file or content must be provided (got 2)")
	case f.File != "":
		return n.ProcessFile(f.File)
	case f.Content != "":
		if int64(len(f.Content)) > cfg.MaxInlineSize {
			return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set APIIDS_MCP_MAX_INLINE_SIZE to increase",
				len(f.Content), cfg.MaxInlineSize)
		}
		return n.NormalizeBytes([]byte(f.Content), "inline")
	default:
		return nil, fmt.Errorf("exactly one of file or content must be provided (got 0)")
	}
}
