// Package assets reads scene files from disk and caches the parsed result.
package assets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/solar/internal/engine/scene"
	"github.com/Faultbox/solar/internal/logger"
)

// ErrNotFound is returned when no root holds the requested file.
var ErrNotFound = errors.New("asset not found")

// Manager resolves scene paths against search roots and caches assets.
// Roots are searched in reverse order (last added = highest priority).
type Manager struct {
	roots []string
	cache *Cache
	mu    sync.RWMutex
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
	}
}

// AddRoot adds a directory to search.
func (m *Manager) AddRoot(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("adding root %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("adding root %s: not a directory", dir)
	}

	m.mu.Lock()
	m.roots = append(m.roots, dir)
	m.mu.Unlock()
	return nil
}

// Resolve returns the file path for name. Absolute and existing relative
// paths are used directly; otherwise the roots are searched.
func (m *Manager) Resolve(name string) (string, error) {
	if fileExists(name) {
		return name, nil
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.roots) - 1; i >= 0; i-- {
		p := filepath.Join(m.roots[i], name)
		if fileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Load parses the scene file name, using the cache when possible.
func (m *Manager) Load(ctx context.Context, name string) (*scene.Asset, error) {
	path, err := m.Resolve(name)
	if err != nil {
		return nil, err
	}
	if a, ok := m.cache.Get(path); ok {
		return a, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a, err := Open(path)
	if err != nil {
		return nil, err
	}
	m.cache.Set(path, a)
	logger.Debug("asset loaded",
		zap.String("path", path),
		zap.Int("scenes", len(a.Scenes)),
	)
	return a, nil
}

// Source returns a loader bound to name for background use.
func (m *Manager) Source(name string) func(ctx context.Context) (*scene.Asset, error) {
	return func(ctx context.Context) (*scene.Asset, error) {
		return m.Load(ctx, name)
	}
}

// Close drops the roots and the cache.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roots = nil
	m.cache.Clear()
}

// Cache is a simple in-memory cache for parsed assets.
type Cache struct {
	data map[string]*scene.Asset
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]*scene.Asset),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) (*scene.Asset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return a, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, a *scene.Asset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = a
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*scene.Asset)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
