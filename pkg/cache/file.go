package cache

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileCache keeps one JSON file per entry under a directory, fanned out into
// subdirectories by the first two hex digits of the hashed key. It is the
// default backend of the CLI.
//
// Entries are written to a temporary file and renamed into place, so a
// concurrent reader (another CLI run, the server) sees either the old entry
// or the new one.
type FileCache struct {
	dir string
}

// NewFileCache creates a file cache in dir, creating the directory if
// needed.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

type fileEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (e fileEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// readEntry decodes the entry at path. ok is false for an undecodable file.
func readEntry(path string) (fileEntry, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileEntry{}, false, err
	}
	var e fileEntry
	if json.Unmarshal(data, &e) != nil {
		return fileEntry{}, false, nil
	}
	return e, true, nil
}

// Get returns the entry under key. Expired and undecodable entries are
// removed and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	e, ok, err := readEntry(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if !ok || e.expired(time.Now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return e.Data, true, nil
}

// Set stores data under key; a ttl of zero never expires.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := fileEntry{Data: data}
	if ttl > 0 {
		e.ExpiresAt = time.Now().Add(ttl)
	}
	encoded, err := json.Marshal(e)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".entry-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

// Delete removes the entry under key; a missing entry is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

// Clear removes every entry and returns how many were removed. The cache
// directory itself is kept.
func (c *FileCache) Clear() (int, error) {
	return c.remove(func(string) bool { return true })
}

// Prune removes expired and undecodable entries, plus temporary files left
// behind by interrupted writes, and returns how many were removed.
func (c *FileCache) Prune() (int, error) {
	now := time.Now()
	return c.remove(func(path string) bool {
		if strings.HasPrefix(filepath.Base(path), ".entry-") {
			return true
		}
		e, ok, err := readEntry(path)
		return err == nil && (!ok || e.expired(now))
	})
}

// remove deletes every file under the fan-out directories for which drop
// returns true, then removes fan-out directories left empty.
func (c *FileCache) remove(drop func(path string) bool) (int, error) {
	count := 0
	var dirs []string
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			if path != c.dir {
				dirs = append(dirs, path)
			}
			return nil
		}
		// Files next to the fan-out directories are not entries (e.g. cache.db).
		if filepath.Dir(path) == c.dir || !drop(path) {
			return nil
		}
		if err := os.Remove(path); err == nil {
			count++
		}
		return nil
	})
	for _, dir := range dirs {
		_ = os.Remove(dir) // fails while the directory still holds entries
	}
	return count, err
}

// Close does nothing for file cache.
func (c *FileCache) Close() error {
	return nil
}

// path maps a key to <dir>/<h[:2]>/<h[2:]>.json, h being the key's digest.
func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+".json")
}

var _ Cache = (*FileCache)(nil)
