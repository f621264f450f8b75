package visibility

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tvheap/internal/buffer"
	"tvheap/internal/snapshot"
	"tvheap/internal/tuple"
	"tvheap/internal/txn"
)

// Transaction cast shared by the visibility tests:
//
//	own       = 10  the scanning transaction
//	runner    = 7   foreign, in progress (and in the snapshot's xip)
//	committer = 6   foreign, committed before the snapshot
//	ghost     = 4   foreign, finished but never resolved as committed
//	future    = 20  foreign, started after the snapshot
const (
	own       txn.Xid = 10
	runner    txn.Xid = 7
	committer txn.Xid = 6
	ghost     txn.Xid = 4
	future    txn.Xid = 20
)

func newTestOracle() *fakeOracle {
	return &fakeOracle{
		current:   own,
		running:   map[txn.Xid]bool{runner: true, future: true},
		committed: map[txn.Xid]bool{committer: true},
		multis:    map[txn.MultiXactID]fakeMulti{},
	}
}

func mvccSnap(curcid txn.CommandID) *snapshot.Snapshot {
	return snapshot.New(snapshot.KindMVCC, own, curcid, 5, 15, []txn.Xid{runner, own})
}

var testLock = buffer.Shared(42, 1)

func TestVisibleDispatch(t *testing.T) {
	stats := &Stats{}
	e := NewEvaluator(newTestOracle(), stats)

	deleted := hdr(committer, uint64(committer), tuple.XminCommitted|tuple.XmaxCommitted)

	// the see-everything snapshot ignores the header entirely
	require.True(t, e.Visible(deleted, snapshot.Any(), testLock))

	// unsupported kinds see nothing and are counted
	dirty := snapshot.New(snapshot.KindDirty, own, 0, 5, 15, nil)
	require.False(t, e.Visible(hdr(committer, 0, tuple.XminCommitted|tuple.XmaxInvalid), dirty, testLock))

	snap := stats.Snapshot()
	require.Equal(t, uint64(1), snap.Visible)
	require.Equal(t, uint64(1), snap.UnsupportedSnapshot)
}

func TestVisibleCallContract(t *testing.T) {
	e := NewEvaluator(newTestOracle(), nil)
	good := hdr(committer, 0, tuple.XminCommitted|tuple.XmaxInvalid)

	require.Panics(t, func() { e.Visible(nil, snapshot.Any(), testLock) })

	noSelf := *good
	noSelf.Self = tuple.ItemPointer{}
	require.Panics(t, func() { e.Visible(&noSelf, snapshot.Any(), testLock) })

	noRel := *good
	noRel.TableOid = tuple.InvalidOid
	require.Panics(t, func() { e.Visible(&noRel, snapshot.Any(), testLock) })

	require.Panics(t, func() { e.Visible(good, snapshot.Any(), buffer.PageLock{}) })
}

func TestVisibleXminPhase(t *testing.T) {
	e := NewEvaluator(newTestOracle(), nil)
	snap := mvccSnap(4)

	// creator never committed
	require.False(t, e.Visible(hdr(runner, 0, tuple.XminInvalid), snap, testLock))

	// committed by the oracle, no hint bits set
	require.True(t, e.Visible(hdr(committer, 0, tuple.XmaxInvalid), snap, testLock))

	// in progress per the snapshot
	require.False(t, e.Visible(hdr(runner, 0, tuple.XmaxInvalid), snap, testLock))

	// started after the snapshot
	require.False(t, e.Visible(hdr(future, 0, tuple.XmaxInvalid), snap, testLock))

	// finished but never resolved as committed: treated as aborted
	require.False(t, e.Visible(hdr(ghost, 0, tuple.XmaxInvalid), snap, testLock))

	// hinted committed, but this snapshot predates the commit
	require.False(t, e.Visible(hdr(runner, 0, tuple.XminCommitted|tuple.XmaxInvalid), snap, testLock))

	// frozen xmin is visible to every snapshot
	require.True(t, e.Visible(hdr(runner, 0, tuple.XminFrozen|tuple.XmaxInvalid), snap, testLock))
}

func TestVisibleSelfInserted(t *testing.T) {
	e := NewEvaluator(newTestOracle(), nil)

	h := hdr(own, 0, tuple.XmaxInvalid)
	h.Cmin = 3

	// inserted by this command or a later one: not yet visible
	require.False(t, e.Visible(h, mvccSnap(3), testLock))
	require.False(t, e.Visible(h, mvccSnap(2), testLock))

	// inserted by an earlier command
	require.True(t, e.Visible(h, mvccSnap(4), testLock))

	// a lock taken on our own tuple does not hide it
	locked := hdr(own, uint64(own), tuple.XmaxLockOnly|tuple.XmaxExclusiveLock)
	locked.Cmin = 1
	require.True(t, e.Visible(locked, mvccSnap(4), testLock))
}

func TestVisibleInsertThenDeleteSameTransaction(t *testing.T) {
	e := NewEvaluator(newTestOracle(), nil)

	h := hdr(own, uint64(own), 0)
	h.Cmin = 1
	h.Cmax = 5

	// before the insert's command: invisible
	require.False(t, e.Visible(h, mvccSnap(1), testLock))
	// between insert and delete: visible, including the deleting command itself
	require.True(t, e.Visible(h, mvccSnap(2), testLock))
	require.True(t, e.Visible(h, mvccSnap(5), testLock))
	// after the delete: gone
	require.False(t, e.Visible(h, mvccSnap(6), testLock))
}

func TestVisibleSelfInsertedForeignXmax(t *testing.T) {
	e := NewEvaluator(newTestOracle(), nil)

	// A plain foreign xmax on our own uncommitted tuple would be rescued as
	// an aborted subtransaction by the stock rules; here the row is gone.
	h := hdr(own, uint64(runner), 0)
	h.Cmin = 1
	require.False(t, e.Visible(h, mvccSnap(4), testLock))
}

func TestVisibleSelfInsertedMultiXmax(t *testing.T) {
	o := newTestOracle()
	e := NewEvaluator(o, nil)

	const m txn.MultiXactID = 100

	// update member is not us: its subtransaction aborted, row stays
	o.multis[m] = fakeMulti{updater: runner, running: true}
	h := hdr(own, uint64(m), tuple.XmaxIsMulti)
	h.Cmin = 1
	require.True(t, e.Visible(h, mvccSnap(4), testLock))

	// update member is us: the same command-ordering rule as a plain delete
	o.multis[m] = fakeMulti{updater: own}
	h.Cmax = 5
	require.True(t, e.Visible(h, mvccSnap(5), testLock))
	require.False(t, e.Visible(h, mvccSnap(6), testLock))

	// a non-locking multixact without an update member is a corrupt header
	o.multis[m] = fakeMulti{running: true}
	require.Panics(t, func() { e.Visible(h, mvccSnap(4), testLock) })
}

func TestVisibleXmaxPhase(t *testing.T) {
	e := NewEvaluator(newTestOracle(), nil)
	snap := mvccSnap(4)
	committed := tuple.XminCommitted

	// no deleter, or a lock without a delete
	require.True(t, e.Visible(hdr(committer, 0, committed|tuple.XmaxInvalid), snap, testLock))
	require.True(t, e.Visible(hdr(committer, uint64(runner), committed|tuple.XmaxLockOnly), snap, testLock))

	// deleter still in progress per the snapshot
	require.True(t, e.Visible(hdr(committer, uint64(runner), committed), snap, testLock))
	require.True(t, e.Visible(hdr(committer, uint64(future), committed), snap, testLock))

	// deleter finished but never resolved as committed: the stock heap would
	// keep the row as abort-rescued, this engine treats the delete as done
	require.False(t, e.Visible(hdr(committer, uint64(ghost), committed), snap, testLock))

	// deleter hinted committed, outside the snapshot
	require.False(t, e.Visible(hdr(committer, uint64(ghost), committed|tuple.XmaxCommitted), snap, testLock))

	// deleter hinted committed, but this snapshot predates the commit
	require.True(t, e.Visible(hdr(committer, uint64(runner), committed|tuple.XmaxCommitted), snap, testLock))
}

func TestVisibleSelfDeletedCommittedXmin(t *testing.T) {
	e := NewEvaluator(newTestOracle(), nil)

	h := hdr(committer, uint64(own), tuple.XminCommitted)
	h.Cmax = 3
	require.True(t, e.Visible(h, mvccSnap(3), testLock))
	require.False(t, e.Visible(h, mvccSnap(4), testLock))
}

func TestVisibleXmaxPhaseMulti(t *testing.T) {
	o := newTestOracle()
	e := NewEvaluator(o, nil)
	snap := mvccSnap(4)

	const m txn.MultiXactID = 100
	h := hdr(committer, uint64(m), tuple.XminCommitted|tuple.XmaxIsMulti)

	// updater still in progress per the snapshot
	o.multis[m] = fakeMulti{updater: runner, running: true, updaterRunning: true}
	require.True(t, e.Visible(h, snap, testLock))

	// updater committed
	o.multis[m] = fakeMulti{updater: committer}
	require.False(t, e.Visible(h, snap, testLock))

	// updater aborted: membership checks stay rollback-sensitive
	o.multis[m] = fakeMulti{updater: ghost}
	require.True(t, e.Visible(h, snap, testLock))

	// our own update member follows the command-ordering rule
	o.multis[m] = fakeMulti{updater: own}
	h.Cmax = 4
	require.True(t, e.Visible(h, mvccSnap(4), testLock))
	require.False(t, e.Visible(h, mvccSnap(5), testLock))

	// no update member on a non-locking multixact
	o.multis[m] = fakeMulti{running: true}
	require.Panics(t, func() { e.Visible(h, snap, testLock) })
}
