package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const entryFileExt = ".json"

// Cache errors.
var (
	ErrCacheNotFound   = errors.New("cache entry not found")
	ErrInvalidCacheKey = errors.New("cache key cannot be empty")
	ErrInvalidJSON     = errors.New("command output is not valid JSON")
)

// keyReplacer maps key characters that are unsafe in file names.
var keyReplacer = strings.NewReplacer("/", "_", `\`, "_", ":", "_")

// Store persists cache entries between invocations.
type Store interface {
	Get(key string) (*CacheEntry, error)
	Set(entry *CacheEntry) error
	Delete(key string) error
	Clear() error
}

// Stats summarizes the entries of a FileStore.
type Stats struct {
	Entries int
	Expired int
	Bytes   int64
}

// FileStore keeps one JSON file per key in a directory. Safe for concurrent use.
type FileStore struct {
	dir string
	mu  sync.RWMutex
}

// NewFileStore opens dir, creating it when missing.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the cache directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Get reads the entry for key without checking expiry; callers compare ExpiresAt
// against their own clock.
func (s *FileStore) Get(key string) (*CacheEntry, error) {
	if key == "" {
		return nil, ErrInvalidCacheKey
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, err := readEntry(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrCacheNotFound
	}
	return entry, err
}

// Set writes entry, replacing any previous entry for its key. The file is renamed into
// place so readers never see a partial entry.
func (s *FileStore) Set(entry *CacheEntry) error {
	if entry == nil || entry.Key == "" {
		return ErrInvalidCacheKey
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache entry %s: %w", entry.Key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".entry-*")
	if err != nil {
		return fmt.Errorf("writing cache entry %s: %w", entry.Key, err)
	}
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if err = errors.Join(werr, cerr); err == nil {
		err = os.Rename(tmp.Name(), s.path(entry.Key))
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing cache entry %s: %w", entry.Key, err)
	}
	return nil
}

// Delete removes the entry for key. Missing entries are not an error.
func (s *FileStore) Delete(key string) error {
	if key == "" {
		return ErrInvalidCacheKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting cache entry %s: %w", key, err)
	}
	return nil
}

// Clear removes every entry file.
func (s *FileStore) Clear() error {
	_, err := s.prune(func(*CacheEntry) bool { return true })
	return err
}

// CleanupExpired removes entries expired at now and returns how many went.
func (s *FileStore) CleanupExpired(now time.Time) (int, error) {
	return s.prune(func(e *CacheEntry) bool { return e != nil && e.IsExpiredAt(now) })
}

// List returns the readable entries sorted by key.
func (s *FileStore) List() ([]*CacheEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.files()
	if err != nil {
		return nil, err
	}
	entries := make([]*CacheEntry, 0, len(files))
	for _, f := range files {
		if e, rerr := readEntry(f); rerr == nil {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

// Stats counts entries, expired entries at now and bytes on disk.
func (s *FileStore) Stats(now time.Time) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.files()
	if err != nil {
		return Stats{}, err
	}
	var st Stats
	for _, f := range files {
		info, serr := os.Stat(f)
		if serr != nil {
			continue
		}
		st.Entries++
		st.Bytes += info.Size()
		if e, rerr := readEntry(f); rerr == nil && e.IsExpiredAt(now) {
			st.Expired++
		}
	}
	return st, nil
}

// prune removes entry files for which match returns true. Unreadable entries are
// passed as nil.
func (s *FileStore) prune(match func(*CacheEntry) bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.files()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, f := range files {
		e, _ := readEntry(f)
		if !match(e) {
			continue
		}
		if rerr := os.Remove(f); rerr != nil {
			return removed, fmt.Errorf("removing cache file %s: %w", filepath.Base(f), rerr)
		}
		removed++
	}
	return removed, nil
}

func (s *FileStore) files() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(s.dir, "*"+entryFileExt))
	if err != nil {
		return nil, fmt.Errorf("listing cache directory: %w", err)
	}
	return files, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, keyReplacer.Replace(key)+entryFileExt)
}

func readEntry(path string) (*CacheEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entry CacheEntry
	if err = json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decoding cache file %s: %w", filepath.Base(path), err)
	}
	return &entry, nil
}
