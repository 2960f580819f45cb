// Package assets loads mesh and height table files from disk and caches them.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Faultbox/surfmesh/pkg/formats"
)

// ErrNotFound is returned when no root contains the requested file.
var ErrNotFound = errors.New("asset not found")

// Kind identifies a supported asset file type.
type Kind int

const (
	KindUnknown Kind = iota
	KindOBJ
	KindHeightTable
	KindMeshBuffers
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindOBJ:
		return "obj"
	case KindHeightTable:
		return "htbl"
	case KindMeshBuffers:
		return "mbuf"
	default:
		return "unknown"
	}
}

// KindOf guesses the asset kind from the file extension.
func KindOf(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return KindOBJ
	case ".htbl":
		return KindHeightTable
	case ".mbuf":
		return KindMeshBuffers
	default:
		return KindUnknown
	}
}

// Loader reads asset files from a list of root directories.
type Loader struct {
	roots []string
	cache *Cache
	mu    sync.RWMutex
}

// NewLoader creates a loader. With no roots, names are resolved as plain paths.
func NewLoader(roots ...string) *Loader {
	l := &Loader{cache: NewCache()}
	for _, r := range roots {
		l.AddRoot(r)
	}
	return l
}

// AddRoot adds a directory to search.
// Roots are searched in reverse order (last added = highest priority).
func (l *Loader) AddRoot(dir string) {
	l.mu.Lock()
	l.roots = append(l.roots, dir)
	l.mu.Unlock()
}

// Resolve finds the file for name. Absolute names bypass the roots.
func (l *Loader) Resolve(name string) (string, error) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err != nil {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return name, nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.roots) == 0 {
		if _, err := os.Stat(name); err != nil {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return filepath.Abs(name)
	}

	for i := len(l.roots) - 1; i >= 0; i-- {
		p := filepath.Join(l.roots[i], name)
		if _, err := os.Stat(p); err == nil {
			return filepath.Abs(p)
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Load returns the raw bytes of name. Cached data is reused until the
// file's modification time changes or the entry is invalidated.
func (l *Loader) Load(name string) ([]byte, error) {
	path, err := l.Resolve(name)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if data, ok := l.cache.Get(path, info.ModTime()); ok {
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	l.cache.Set(path, data, info.ModTime())
	return data, nil
}

// LoadOBJ loads and parses a Wavefront OBJ file.
func (l *Loader) LoadOBJ(name string) (*formats.OBJ, error) {
	data, err := l.Load(name)
	if err != nil {
		return nil, err
	}
	obj, err := formats.ParseOBJ(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return obj, nil
}

// LoadHeightTable loads and parses a height table file.
func (l *Loader) LoadHeightTable(name string) (*formats.HeightTable, error) {
	data, err := l.Load(name)
	if err != nil {
		return nil, err
	}
	table, err := formats.ParseHeightTable(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return table, nil
}

// LoadMeshBuffers loads and parses a mesh buffer file.
func (l *Loader) LoadMeshBuffers(name string) (*formats.MeshBuffers, error) {
	data, err := l.Load(name)
	if err != nil {
		return nil, err
	}
	mb, err := formats.ParseMeshBuffers(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return mb, nil
}

// Invalidate drops the cached bytes for an absolute path.
func (l *Loader) Invalidate(path string) {
	l.cache.Delete(path)
}

// Cache returns the loader's cache.
func (l *Loader) Cache() *Cache {
	return l.cache
}

// Close forgets all roots and cached data.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.roots = nil
	l.cache.Clear()
}

type cacheEntry struct {
	data    []byte
	modTime time.Time
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string]cacheEntry
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]cacheEntry),
	}
}

// Get retrieves an item from cache if it was stored for modTime.
func (c *Cache) Get(key string, modTime time.Time) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.data[key]
	if ok && e.modTime.Equal(modTime) {
		c.hits++
		return e.data, true
	}
	c.misses++
	return nil, false
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte, modTime time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = cacheEntry{data: data, modTime: modTime}
}

// Delete removes one item.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Len returns the number of cached items.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]cacheEntry)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
