package jsonfile

import (
	"bytes"
	"encoding/gob"
	"log/slog"
	"os"

	"github.com/viduramedix/pos/internal/storage"
	"github.com/viduramedix/pos/pkg/metrics"
)

// cacheEntry is the shadow artifact for one cacheable collection: the
// decoded records plus the revision of the source bytes they came
// from, so cache-served loads still hand out a usable token.
type cacheEntry[T any] struct {
	Revision storage.Revision
	Records  []T
}

// loadFromCache serves the collection from its shadow file when the
// shadow is at least as new as the source. Any failure along the way
// reports a miss; the cache is an optimization, never a source of
// truth.
func (c *Collection[T]) loadFromCache() ([]T, storage.Revision, bool) {
	srcInfo, err := os.Stat(c.path())
	if err != nil {
		return nil, storage.None, false
	}
	cacheInfo, err := os.Stat(c.cachePath())
	if err != nil {
		return nil, storage.None, false
	}
	if cacheInfo.ModTime().Before(srcInfo.ModTime()) {
		return nil, storage.None, false
	}

	data, err := os.ReadFile(c.cachePath())
	if err != nil {
		slog.Warn("failed to read collection cache", "collection", c.name, "error", err)
		return nil, storage.None, false
	}

	var entry cacheEntry[T]
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&entry); err != nil {
		metrics.DecodeFailures.WithLabelValues(c.name).Inc()
		slog.Warn("undecodable collection cache, falling back to source file",
			"collection", c.name, "error", err)
		c.dropCache()
		return nil, storage.None, false
	}
	if entry.Records == nil {
		entry.Records = []T{}
	}
	return entry.Records, entry.Revision, true
}

// writeCache repopulates the shadow file. Failures are logged and
// ignored: the next load simply decodes the source again.
func (c *Collection[T]) writeCache(records []T, rev storage.Revision) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(cacheEntry[T]{Revision: rev, Records: records}); err != nil {
		slog.Warn("failed to encode collection cache", "collection", c.name, "error", err)
		return
	}
	if err := atomicWrite(c.cachePath(), buf.Bytes()); err != nil {
		slog.Warn("failed to write collection cache", "collection", c.name, "error", err)
	}
}

// dropCache invalidates the shadow file; a missing file is fine.
func (c *Collection[T]) dropCache() {
	if !c.cacheable || !c.store.cacheOK {
		return
	}
	if err := os.Remove(c.cachePath()); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove collection cache", "collection", c.name, "error", err)
	}
}
