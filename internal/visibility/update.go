package visibility

import (
	"tvheap/internal/buffer"
	"tvheap/internal/tuple"
	"tvheap/internal/txn"

	"github.com/cockroachdb/errors"
)

// CheckUpdate classifies whether an UPDATE/DELETE issued by the command
// curcid may modify the row version. Same preconditions as Visible.
//
// The classification mirrors the visibility algorithm but with the richer
// outcome set, and with the same rollback-insensitive divergences: an
// unresolved deleter is never rescued as an abort, and an xmin that the
// stock rules would presume aborted is optimistically allowed through,
// since this engine will not observe the rollback either.
func (e *Evaluator) CheckUpdate(h *tuple.Header, curcid txn.CommandID, lock buffer.PageLock) Result {
	assertCallContract(h, lock)

	r := e.checkUpdate(h, curcid)
	e.stats.observeUpdate(r)
	return r
}

func (e *Evaluator) checkUpdate(h *tuple.Header, curcid txn.CommandID) Result {
	o := e.oracle

	if !h.XminCommitted() {
		switch {
		case h.XminInvalid():
			return Invisible

		case o.IsCurrent(h.Xmin):
			if h.GetCmin() >= curcid {
				return Invisible // inserted after scan started
			}

			if h.XmaxInvalid() {
				return Ok
			}

			if h.XmaxLockedOnly() {
				// Even though we created this tuple, it can be locked by
				// others: the prior version may have been key-share locked
				// when we updated it.
				if h.XmaxIsMulti() {
					if o.MultiXactIsRunning(h.XmaxMulti(), true) {
						return BeingModified
					}
					return Ok
				}
				// If the locker is gone there is nothing of interest left
				// in this xmax.
				if !o.IsInProgress(h.XmaxXid()) {
					return Ok
				}
				return BeingModified
			}

			if h.XmaxIsMulti() {
				xmax, ok := o.ResolveUpdateMember(h.XmaxMulti())
				if !ok {
					panic(errors.AssertionFailedf(
						"multixact %d on a non-locked tuple has no update member", h.XmaxMulti()))
				}
				if !o.IsCurrent(xmax) {
					// A foreign update member inside our own uncommitted
					// tuple would mean an aborted subtransaction; this
					// engine never creates that state.
					panic(errors.AssertionFailedf(
						"table-variable heap cannot reach a foreign multixact updater %d on a self-created tuple", xmax))
				}
				if h.GetCmax() >= curcid {
					return SelfModified // updated after scan started
				}
				return Invisible // updated before scan started
			}

			if !o.IsCurrent(h.XmaxXid()) {
				// Stock rules: deleting subtransaction must have aborted,
				// return Ok. Not rollback-sensitive: the delete stands.
				return Invisible
			}

			if h.GetCmax() >= curcid {
				return SelfModified // updated after scan started
			}
			return Invisible // updated before scan started

		case o.IsInProgress(h.Xmin):
			return Invisible

		case o.DidCommit(h.Xmin):
			// fall through to xmax checks, no status caching

		default:
			// Presumed aborted under stock rules. This engine does not
			// trust abort-derived invisibility; allow the update.
			return Ok
		}
	}

	// by here, the inserting transaction has committed

	if h.XmaxInvalid() {
		return Ok
	}

	if h.XmaxCommitted() {
		if h.XmaxLockedOnly() {
			return Ok
		}
		return updatedOrDeleted(h)
	}

	if h.XmaxIsMulti() {
		if h.XmaxLockUpgraded() {
			return Ok
		}

		if h.XmaxLockedOnly() {
			if o.MultiXactIsRunning(h.XmaxMulti(), true) {
				return BeingModified
			}
			return Ok
		}

		xmax, ok := o.ResolveUpdateMember(h.XmaxMulti())
		if !ok {
			if o.MultiXactIsRunning(h.XmaxMulti(), false) {
				return BeingModified
			}
			panic(errors.AssertionFailedf(
				"multixact %d on a non-locked tuple has no update member", h.XmaxMulti()))
		}

		if o.IsCurrent(xmax) {
			if h.GetCmax() >= curcid {
				return SelfModified // updated after scan started
			}
			return Invisible // updated before scan started
		}

		if o.MultiXactIsRunning(h.XmaxMulti(), false) {
			return BeingModified
		}

		if o.DidCommit(xmax) {
			return updatedOrDeleted(h)
		}

		// The updater is gone; what about the other members?
		if o.MultiXactIsRunning(h.XmaxMulti(), false) {
			// lockers still running
			return BeingModified
		}
		// no member, even just a locker, alive anymore
		return Ok
	}

	if o.IsCurrent(h.XmaxXid()) {
		if h.XmaxLockedOnly() {
			return BeingModified
		}
		if h.GetCmax() >= curcid {
			return SelfModified // updated after scan started
		}
		return Invisible // updated before scan started
	}

	if o.IsInProgress(h.XmaxXid()) {
		return BeingModified
	}

	if !o.DidCommit(h.XmaxXid()) {
		// Stock rules would rescue the row from an aborted deleter here.
		// Not rollback-sensitive: an unresolved delete counts as done.
		return updatedOrDeleted(h)
	}

	// xmax transaction committed

	if h.XmaxLockedOnly() {
		return Ok
	}

	return updatedOrDeleted(h)
}

func updatedOrDeleted(h *tuple.Header) Result {
	if h.UpdatedToOther() {
		return Updated // updated by other
	}
	return Deleted // deleted by other
}
