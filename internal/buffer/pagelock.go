// Package buffer models the slice of the buffer manager this core consumes:
// proof that the page holding a tuple is locked for the duration of a call.
// The real buffer manager lives outside this module.
package buffer

import "tvheap/internal/tuple"

type LockMode uint8

const (
	LockNone LockMode = iota
	LockShared
	LockExclusive
)

// PageLock is the caller's evidence that a page is locked in at least shared
// mode. The evaluators only check its validity; they never block on it or
// release it.
type PageLock struct {
	Rel    tuple.Oid
	PageID uint32
	Mode   LockMode
}

func Shared(rel tuple.Oid, page uint32) PageLock {
	return PageLock{Rel: rel, PageID: page, Mode: LockShared}
}

func Exclusive(rel tuple.Oid, page uint32) PageLock {
	return PageLock{Rel: rel, PageID: page, Mode: LockExclusive}
}

// Valid reports whether the lock proves at least shared access.
func (l PageLock) Valid() bool {
	return l.Mode >= LockShared && l.Rel != tuple.InvalidOid
}
