package visibility

import (
	"tvheap/internal/tuple"
	"tvheap/internal/txn"
)

// fakeMulti is one multixact as the fake oracle reports it.
type fakeMulti struct {
	updater        txn.Xid // InvalidXid when the set has no update member
	running        bool
	updaterRunning bool
}

// fakeOracle answers status queries from fixed maps. Like the real session
// oracle, it never reports its own transaction as concurrently in progress.
type fakeOracle struct {
	current   txn.Xid
	running   map[txn.Xid]bool
	committed map[txn.Xid]bool
	multis    map[txn.MultiXactID]fakeMulti
}

var _ txn.StatusOracle = (*fakeOracle)(nil)

func (f *fakeOracle) IsCurrent(x txn.Xid) bool {
	return x.IsValid() && x == f.current
}

func (f *fakeOracle) IsInProgress(x txn.Xid) bool {
	return x != f.current && f.running[x]
}

func (f *fakeOracle) DidCommit(x txn.Xid) bool {
	return f.committed[x]
}

func (f *fakeOracle) MultiXactIsRunning(m txn.MultiXactID, updatersOnly bool) bool {
	mm, ok := f.multis[m]
	if !ok {
		return false
	}
	if updatersOnly {
		return mm.updaterRunning
	}
	return mm.running
}

func (f *fakeOracle) ResolveUpdateMember(m txn.MultiXactID) (txn.Xid, bool) {
	mm, ok := f.multis[m]
	if !ok || !mm.updater.IsValid() {
		return txn.InvalidXid, false
	}
	return mm.updater, true
}

// hdr builds a header with valid self pointer and relation, pointing at
// itself (deleted, not updated, unless Ctid is changed afterwards).
func hdr(xmin txn.Xid, rawXmax uint64, mask tuple.Infomask) *tuple.Header {
	return &tuple.Header{
		Xmin:     xmin,
		RawXmax:  rawXmax,
		Mask:     mask,
		Self:     tuple.ItemPointer{PageID: 1, Slot: 1},
		Ctid:     tuple.ItemPointer{PageID: 1, Slot: 1},
		TableOid: 42,
	}
}
