/*
DESCRIPTION
  filecache.go implements the second process-wide cache named in spec
  §4.G/§6: (absolute_path, consumed_context_vars) -> CachedFile, with the
  same at-most-once insertion semantics as the processor Cache. The key
  is the path and variables only: FileCache does not hash file contents.
  HashFunc and DefaultHash (SHA-1 over file bytes) are provided for
  callers; FileCache itself does not use them.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/
package processor

import (
	"crypto/sha1"
	"fmt"
	"sync"
)

// FileEntry is anything the file cache can store: the fileformat package
// defines the concrete CachedFile type this wraps, but the cache itself
// stays untyped here to avoid a processor -> fileformat import (the
// pipeline builder, which depends on both, does the type assertion).
type FileEntry interface{}

// HashFunc computes the content hash used as part of a file cache key
// (default: SHA-1 over the raw file bytes, spec §6).
type HashFunc func([]byte) string

// DefaultHash is the spec's stated default file-content hash.
func DefaultHash(b []byte) string {
	return fmt.Sprintf("%x", sha1.Sum(b))
}

type fileKey struct {
	path string
	vars string // stable-joined consumed context variable values
}

// FileCache maps (absolute path, consumed context variables) to a parsed
// CachedFile, process-wide, with at-most-once insertion. File contents
// are not part of the key.
type FileCache struct {
	mu      sync.Mutex
	entries map[fileKey]FileEntry
}

// NewFileCache returns an empty FileCache.
func NewFileCache() *FileCache {
	return &FileCache{entries: make(map[fileKey]FileEntry)}
}

// Get returns the cached entry for (path, consumedVars), if present.
func (c *FileCache) Get(path, consumedVars string) (FileEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[fileKey{path: path, vars: consumedVars}]
	return e, ok
}

// StoreIfAbsent inserts entry under (path, consumedVars) iff absent, and
// returns whichever entry now occupies that slot.
func (c *FileCache) StoreIfAbsent(path, consumedVars string, entry FileEntry) FileEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := fileKey{path: path, vars: consumedVars}
	if existing, ok := c.entries[key]; ok {
		return existing
	}
	c.entries[key] = entry
	return entry
}

// Clear empties the cache.
func (c *FileCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[fileKey]FileEntry)
}

// Len reports the number of cached entries.
func (c *FileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
