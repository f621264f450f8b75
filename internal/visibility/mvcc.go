package visibility

import (
	"log/slog"

	"tvheap/internal/buffer"
	"tvheap/internal/snapshot"
	"tvheap/internal/tuple"

	"github.com/cockroachdb/errors"
)

// Visible reports whether the row version satisfies the snapshot.
//
// Preconditions: the page holding the tuple is at least share-locked and the
// header's self pointer and owning relation are valid. The header is only
// read.
//
// Only MVCC and see-everything snapshots are supported. Other kinds belong
// to scan modes this engine never participates in; they are reported and
// treated as seeing nothing, which is always safe.
func (e *Evaluator) Visible(h *tuple.Header, snap *snapshot.Snapshot, lock buffer.PageLock) bool {
	assertCallContract(h, lock)

	switch snap.Kind() {
	case snapshot.KindMVCC:
		v := e.visibleMVCC(h, snap)
		e.stats.observeVisible(v)
		return v
	case snapshot.KindAny:
		e.stats.observeVisible(true)
		return true
	default:
		slog.Warn("table-variable heap: unsupported snapshot kind", "kind", snap.Kind().String())
		e.stats.observeUnsupported()
		return false
	}
}

func (e *Evaluator) visibleMVCC(h *tuple.Header, snap *snapshot.Snapshot) bool {
	if !h.XminCommitted() {
		switch {
		case h.XminInvalid():
			// creator never committed
			return false

		case h.Xmin == snap.OwnXid():
			if h.GetCmin() >= snap.CurCid() {
				return false // inserted after scan started
			}

			if h.XmaxInvalid() {
				return true
			}
			if h.XmaxLockedOnly() {
				return true // locked, not deleted
			}

			if h.XmaxIsMulti() {
				xmax, ok := e.oracle.ResolveUpdateMember(h.XmaxMulti())
				if !ok {
					// not locked-only, so the set must carry an updater
					panic(errors.AssertionFailedf(
						"multixact %d on a non-locked tuple has no update member", h.XmaxMulti()))
				}
				if xmax != snap.OwnXid() {
					// updating subtransaction must have aborted
					return true
				}
				if h.GetCmax() >= snap.CurCid() {
					return true // updated after scan started
				}
				return false // updated before scan started
			}

			if h.XmaxXid() != snap.OwnXid() {
				// The stock heap would re-derive "deleting subtransaction
				// aborted" here and keep the row. This engine does not
				// distinguish the deleter's abort from its commit: the row
				// is gone.
				return false
			}

			if h.GetCmax() >= snap.CurCid() {
				return true // deleted after scan started
			}
			return false // deleted before scan started

		case snap.XidInProgress(h.Xmin):
			return false

		case e.oracle.DidCommit(h.Xmin):
			// creator committed; no status caching, fall through to xmax

		default:
			// xmin aborted or crashed
			return false
		}
	} else if !h.XminFrozen() && snap.XidInProgress(h.Xmin) {
		// committed, but not yet from this snapshot's point of view
		return false
	}

	// by here, the inserting transaction has committed

	if h.XmaxInvalid() {
		return true
	}
	if h.XmaxLockedOnly() {
		return true
	}

	if h.XmaxIsMulti() {
		xmax, ok := e.oracle.ResolveUpdateMember(h.XmaxMulti())
		if !ok {
			panic(errors.AssertionFailedf(
				"multixact %d on a non-locked tuple has no update member", h.XmaxMulti()))
		}
		if xmax == snap.OwnXid() {
			if h.GetCmax() >= snap.CurCid() {
				return true // deleted after scan started
			}
			return false // deleted before scan started
		}
		if snap.XidInProgress(xmax) {
			return true
		}
		if e.oracle.DidCommit(xmax) {
			return false // updating transaction committed
		}
		// updater aborted or crashed
		return true
	}

	if !h.XmaxCommitted() {
		if h.XmaxXid() == snap.OwnXid() {
			if h.GetCmax() >= snap.CurCid() {
				return true // deleted after scan started
			}
			return false // deleted before scan started
		}
		if snap.XidInProgress(h.XmaxXid()) {
			return true
		}
		// The deleter is resolved but its commit was never confirmed. The
		// stock heap would call this an abort and keep the row; here an
		// unresolved delete is a delete.
		return false
	}

	// xmax committed, but maybe not according to our snapshot
	if snap.XidInProgress(h.XmaxXid()) {
		return true // treat as still in progress
	}

	return false
}
