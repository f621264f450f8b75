// Package snapshot provides point-in-time transaction views for the
// visibility evaluator.
package snapshot

import "tvheap/internal/txn"

// Kind selects the visibility semantics of a snapshot. This engine only
// evaluates MVCC and Any snapshots; the remaining kinds exist so the
// evaluator can name what it rejects.
type Kind uint8

const (
	KindMVCC Kind = iota
	KindAny
	KindSelf
	KindToast
	KindDirty
	KindHistoricMVCC
	KindNonVacuumable
)

func (k Kind) String() string {
	switch k {
	case KindMVCC:
		return "mvcc"
	case KindAny:
		return "any"
	case KindSelf:
		return "self"
	case KindToast:
		return "toast"
	case KindDirty:
		return "dirty"
	case KindHistoricMVCC:
		return "historic-mvcc"
	case KindNonVacuumable:
		return "non-vacuumable"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable view of which transactions had completed when it
// was captured: every xid below xmin is resolved, every xid above xmax is
// treated as still running, and xip lists the in-between xids that were in
// progress at capture time.
type Snapshot struct {
	kind   Kind
	ownXid txn.Xid
	curCid txn.CommandID

	xmin, xmax txn.Xid
	xip        map[txn.Xid]struct{}
}

// New builds a snapshot from explicit bounds; Manager.MVCC captures them
// from the live registry.
func New(kind Kind, own txn.Xid, curcid txn.CommandID, xmin, xmax txn.Xid, xip []txn.Xid) *Snapshot {
	s := &Snapshot{
		kind:   kind,
		ownXid: own,
		curCid: curcid,
		xmin:   xmin,
		xmax:   xmax,
		xip:    make(map[txn.Xid]struct{}, len(xip)),
	}
	for _, x := range xip {
		s.xip[x] = struct{}{}
	}
	return s
}

// Any returns the see-everything snapshot.
func Any() *Snapshot {
	return &Snapshot{kind: KindAny}
}

func (s *Snapshot) Kind() Kind {
	return s.kind
}

// OwnXid is the invoking transaction's id.
func (s *Snapshot) OwnXid() txn.Xid {
	return s.ownXid
}

// CurCid is the invoking command's sequence number within its transaction.
func (s *Snapshot) CurCid() txn.CommandID {
	return s.curCid
}

// XidInProgress reports whether x was still in progress as of this snapshot.
// The caller is expected to have handled its own xid already; membership of
// the own transaction is not meaningful.
func (s *Snapshot) XidInProgress(x txn.Xid) bool {
	if x < s.xmin {
		return false
	}
	if x > s.xmax {
		return true
	}
	_, ok := s.xip[x]
	return ok
}
