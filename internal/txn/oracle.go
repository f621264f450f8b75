package txn

// StatusOracle answers transaction-status questions for the visibility and
// update-conflict evaluators. Implementations are expected to be cheap,
// synchronous and free of side effects; the evaluators may call them several
// times per tuple.
//
// IsInProgress and MultiXactIsRunning report on transactions OTHER than the
// session's own: the own transaction is never "concurrently running" from
// its own point of view. The evaluators rely on this when a tuple is locked
// by the very transaction asking about it.
type StatusOracle interface {
	// IsCurrent reports whether xid is the session's own transaction.
	IsCurrent(x Xid) bool

	// IsInProgress reports whether xid belongs to a running transaction
	// other than the session's own.
	IsInProgress(x Xid) bool

	// DidCommit reports whether xid committed.
	DidCommit(x Xid) bool

	// MultiXactIsRunning reports whether any member of the set, other than
	// the session's own transaction, is still running. With updatersOnly
	// set, only update-type members are considered.
	MultiXactIsRunning(m MultiXactID, updatersOnly bool) bool

	// ResolveUpdateMember returns the update-type member of the set, if any.
	ResolveUpdateMember(m MultiXactID) (Xid, bool)
}
