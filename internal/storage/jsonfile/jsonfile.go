// Package jsonfile persists collections as flat JSON array files, one
// file per collection, with an mtime-gated side cache for the
// read-heavy collections.
package jsonfile

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/viduramedix/pos/internal/storage"
	"github.com/viduramedix/pos/pkg/metrics"
)

// cacheableNames is the fixed allow-list of collections served through
// the side cache. Orders are excluded: they are written on nearly every
// operation, so their recency matters more than raw read speed.
var cacheableNames = map[string]bool{
	"menu":   true,
	"tables": true,
	"users":  true,
}

// Store is a directory of collection files plus a cache/ subdirectory
// of derived, disposable shadow files. The cache is never a source of
// truth: an undecodable cache entry falls through to the source file.
type Store struct {
	dir      string
	cacheDir string
	cacheOK  bool
	lenient  bool

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithLenientDecode makes malformed collection files degrade to an
// empty collection with a logged error instead of failing the load.
// This matches the behavior of the data files this system inherits, at
// the cost of silently resetting a corrupted collection; leave it off
// unless that tradeoff is wanted.
func WithLenientDecode() Option {
	return func(s *Store) { s.lenient = true }
}

// New creates a Store rooted at dir, creating the data and cache
// directories as needed. A cache directory that cannot be created or
// is not a directory disables caching rather than failing the store.
func New(dir string, opts ...Option) (*Store, error) {
	if err := ensureDir(dir); err != nil {
		return nil, fmt.Errorf("data directory: %w", err)
	}

	s := &Store{
		dir:      dir,
		cacheDir: filepath.Join(dir, "cache"),
		locks:    make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := ensureDir(s.cacheDir); err != nil {
		slog.Error("cache directory unavailable, proceeding without cache",
			"dir", s.cacheDir, "error", err)
	} else {
		s.cacheOK = true
	}
	return s, nil
}

// ensureDir creates path, tolerating a concurrent creation, then
// verifies the result actually is a directory.
func ensureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil && !os.IsExist(err) {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s exists but is not a directory", path)
	}
	return nil
}

func (s *Store) lock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[name]
	if !ok {
		l = &sync.Mutex{}
		s.locks[name] = l
	}
	return l
}

// Collection is the flat-file implementation of storage.Collection.
type Collection[T any] struct {
	store     *Store
	name      string
	cacheable bool
}

var _ storage.Collection[int] = (*Collection[int])(nil)

// Open binds a typed collection to its file under the store. The same
// name always maps to the same file, so two Open calls for one name
// share the file and the per-collection lock.
func Open[T any](s *Store, name string) *Collection[T] {
	return &Collection[T]{
		store:     s,
		name:      name,
		cacheable: cacheableNames[name],
	}
}

func (c *Collection[T]) path() string {
	return filepath.Join(c.store.dir, c.name+".json")
}

func (c *Collection[T]) cachePath() string {
	return filepath.Join(c.store.cacheDir, c.name+".json.cache")
}

// revisionOf derives the concurrency token from the exact persisted
// bytes.
func revisionOf(data []byte) storage.Revision {
	sum := sha256.Sum256(data)
	return storage.Revision(hex.EncodeToString(sum[:]))
}

// Load returns the decoded collection. A missing file is created empty
// and returned as such; an existing file that cannot be read degrades
// to an empty collection with a logged error.
func (c *Collection[T]) Load(ctx context.Context) ([]T, storage.Revision, error) {
	if err := ctx.Err(); err != nil {
		return nil, storage.None, err
	}
	metrics.StoreLoads.WithLabelValues(c.name).Inc()

	if c.cacheable && c.store.cacheOK {
		if records, rev, ok := c.loadFromCache(); ok {
			metrics.CacheHits.WithLabelValues(c.name).Inc()
			return records, rev, nil
		}
		metrics.CacheMisses.WithLabelValues(c.name).Inc()
	}

	data, err := os.ReadFile(c.path())
	if os.IsNotExist(err) {
		if werr := atomicWrite(c.path(), []byte("[]")); werr != nil {
			slog.Error("failed to create collection file", "collection", c.name, "error", werr)
			return []T{}, storage.None, nil
		}
		return []T{}, revisionOf([]byte("[]")), nil
	}
	if err != nil {
		slog.Error("failed to read collection file", "collection", c.name, "error", err)
		return []T{}, storage.None, nil
	}

	rev := revisionOf(data)
	if len(data) == 0 {
		return []T{}, rev, nil
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		metrics.DecodeFailures.WithLabelValues(c.name).Inc()
		c.dropCache()
		if !c.store.lenient {
			return nil, storage.None, fmt.Errorf("%w: %s: %v", storage.ErrDecode, c.name, err)
		}
		slog.Error("malformed collection file, degrading to empty collection",
			"collection", c.name, "error", err)
		return []T{}, rev, nil
	}
	if records == nil {
		records = []T{}
	}

	if c.cacheable && c.store.cacheOK {
		c.writeCache(records, rev)
	}
	return records, rev, nil
}

// Save rewrites the whole collection atomically (write-temp then
// rename: concurrent readers observe the old or the new content, never
// a partial file) and invalidates the cache entry unconditionally.
func (c *Collection[T]) Save(ctx context.Context, records []T, rev storage.Revision) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l := c.store.lock(c.name)
	l.Lock()
	defer l.Unlock()
	return c.saveLocked(records, rev)
}

func (c *Collection[T]) saveLocked(records []T, rev storage.Revision) error {
	if rev != storage.None {
		current, err := c.currentRevision()
		if err != nil {
			return fmt.Errorf("save %s: %w", c.name, err)
		}
		if current != rev {
			metrics.StaleWrites.WithLabelValues(c.name).Inc()
			return fmt.Errorf("save %s: %w", c.name, storage.ErrStaleWrite)
		}
	}

	if records == nil {
		records = []T{}
	}

	var data []byte
	var err error
	if c.cacheable {
		data, err = json.MarshalIndent(records, "", "  ")
	} else {
		data, err = json.Marshal(records)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.name, err)
	}

	if err := atomicWrite(c.path(), data); err != nil {
		return fmt.Errorf("write %s: %w", c.name, err)
	}
	c.dropCache()
	metrics.StoreSaves.WithLabelValues(c.name).Inc()
	return nil
}

// currentRevision reads the persisted content's token. A missing file
// counts as the empty collection, matching what Load auto-creates.
func (c *Collection[T]) currentRevision() (storage.Revision, error) {
	data, err := os.ReadFile(c.path())
	if os.IsNotExist(err) {
		return revisionOf([]byte("[]")), nil
	}
	if err != nil {
		return storage.None, err
	}
	return revisionOf(data), nil
}

// Update runs fn as one load-mutate-save critical section under the
// per-collection lock, so concurrent Updates in this process cannot
// clobber each other. The loaded revision still guards the save, which
// also catches writers outside this process.
func (c *Collection[T]) Update(ctx context.Context, fn func(records []T) ([]T, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l := c.store.lock(c.name)
	l.Lock()
	defer l.Unlock()

	records, rev, err := c.Load(ctx)
	if err != nil {
		return err
	}
	updated, err := fn(records)
	if err != nil {
		return err
	}
	return c.saveLocked(updated, rev)
}

// atomicWrite writes data to a uniquely named temp file in the target
// directory, syncs it, and renames it over path.
func atomicWrite(path string, data []byte) error {
	tmp := fmt.Sprintf("%s.tmp-%s", path, uuid.NewString())
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
