package lookup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/doeshing/asoforge/internal/domain"
	"github.com/doeshing/asoforge/internal/ports"
)

// cacheEntry wraps a competitor record with its creation time for TTL checks.
type cacheEntry struct {
	Key       string               `json:"key"`
	CreatedAt time.Time            `json:"createdAt"`
	App       domain.CompetitorApp `json:"app"`
}

// FileCache stores competitor lookups as JSON blobs addressed by store id, so
// repeat imports of the same app skip the network.
type FileCache struct {
	dir        string
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration
}

// NewFileCache returns a cache rooted under ~/.asoforge/cache/lookups with a
// 24-hour TTL. Store listings change slowly; a day is fresh enough.
func NewFileCache() *FileCache {
	return &FileCache{
		dir:        filepath.Join(userHome(), ".asoforge", "cache", "lookups"),
		maxEntries: 100,
		ttl:        24 * time.Hour,
	}
}

// NewFileCacheAt returns a cache rooted at dir, used by tests.
func NewFileCacheAt(dir string, ttl time.Duration) *FileCache {
	return &FileCache{dir: dir, maxEntries: 100, ttl: ttl}
}

// Get retrieves a cached competitor record.
func (c *FileCache) Get(key string) (domain.CompetitorApp, bool, error) {
	if key == "" {
		return domain.CompetitorApp{}, false, nil
	}
	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.CompetitorApp{}, false, nil
		}
		return domain.CompetitorApp{}, false, err
	}
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return domain.CompetitorApp{}, false, err
	}
	if c.ttl > 0 && time.Since(entry.CreatedAt) > c.ttl {
		_ = os.Remove(c.pathFor(key))
		return domain.CompetitorApp{}, false, nil
	}
	return entry.App, true, nil
}

// Set stores a competitor record.
func (c *FileCache) Set(key string, app domain.CompetitorApp) error {
	if key == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(cacheEntry{Key: key, CreatedAt: time.Now(), App: app})
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.pathFor(key), data, 0o644); err != nil {
		return err
	}
	return c.evictIfNeeded()
}

// Dir exposes the cache directory path.
func (c *FileCache) Dir() string {
	return c.dir
}

// Clear removes all cached lookups.
func (c *FileCache) Clear() error {
	return os.RemoveAll(c.dir)
}

func (c *FileCache) pathFor(key string) string {
	return filepath.Join(c.dir, key+".json")
}

func (c *FileCache) evictIfNeeded() error {
	if c.maxEntries <= 0 {
		return nil
	}
	files, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(files) <= c.maxEntries {
		return nil
	}
	type fileInfo struct {
		name string
		mod  time.Time
	}
	var infos []fileInfo
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		infos = append(infos, fileInfo{name: f.Name(), mod: info.ModTime()})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].mod.Before(infos[j].mod) })
	for len(infos) > c.maxEntries {
		old := infos[0]
		_ = os.Remove(filepath.Join(c.dir, old.name))
		infos = infos[1:]
	}
	return nil
}

func userHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.LookupCache = (*FileCache)(nil)
