// Package storage defines the contract for persistent collections.
package storage

import (
	"context"
	"errors"
)

// Revision is an opaque optimistic-concurrency token identifying the
// exact persisted content of a collection at load time. Passing the
// token back to Save detects writes that would clobber a concurrent
// update. The empty revision disables the check (last-writer-wins).
type Revision string

// None is the empty revision: save unconditionally.
const None Revision = ""

var (
	// ErrDecode reports a malformed collection file. In lenient mode the
	// store logs instead and degrades to an empty collection.
	ErrDecode = errors.New("collection file is not valid JSON")

	// ErrStaleWrite reports a save whose revision no longer matches the
	// persisted collection; the caller must reload and retry.
	ErrStaleWrite = errors.New("collection changed since load")
)

// Collection is typed access to one named set of records persisted as
// a whole. Implementations must make saves atomic with respect to
// concurrent readers: a reader observes either the old or the new full
// content, never a partial write.
//
// The abstraction allows swapping persistence backends without
// changing the service layer.
type Collection[T any] interface {
	// Load returns all records plus the revision of the persisted
	// content. A missing backing file is not an error: it is created
	// empty and an empty slice is returned.
	Load(ctx context.Context) ([]T, Revision, error)

	// Save rewrites the whole collection. A non-empty rev makes the
	// write conditional: ErrStaleWrite if the persisted content no
	// longer matches.
	Save(ctx context.Context, records []T, rev Revision) error

	// Update runs fn inside the collection's critical section as one
	// load-mutate-save cycle, serialized against other Updates and
	// Saves of the same collection in this process. fn returning an
	// error aborts the cycle with nothing written.
	Update(ctx context.Context, fn func(records []T) ([]T, error)) error
}
