package txn

import (
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/zhangyunhao116/skipmap"
	"github.com/zhangyunhao116/skipset"
)

var (
	ErrTxNotFound   = errors.New("tvheap: transaction not found")
	ErrTxFinished   = errors.New("tvheap: transaction already finished")
	ErrEmptyMulti   = errors.New("tvheap: multixact needs at least one member")
	ErrUnknownXid   = errors.New("tvheap: multixact member is not a registered transaction")
	ErrTwoUpdaters  = errors.New("tvheap: multixact allows at most one update member")
	ErrInvalidMulti = errors.New("tvheap: invalid multixact id")
)

type statusTable = skipmap.OrderedMap[uint64, Status]

type memberTable = skipmap.OrderedMap[uint64, bool]

// MultiMember describes one multixact member; Updater marks the single
// member performing an update rather than holding a lock.
type MultiMember struct {
	Xid     Xid
	Updater bool
}

// Registry is the process-wide default status oracle backing. It tracks every
// transaction the process started and every multixact it created. Point
// lookups go through lock-free tables; lifecycle transitions take a mutex so
// snapshot capture observes a consistent in-progress set.
type Registry struct {
	nextXid   atomic.Uint64
	nextMulti atomic.Uint64

	// mu serializes Begin/commit/abort against SnapshotData.
	mu         sync.RWMutex
	status     *statusTable
	inProgress *skipset.OrderedSet[uint64]
	multis     *skipmap.OrderedMap[uint64, *memberTable]
}

func NewRegistry() *Registry {
	r := &Registry{
		status:     skipmap.New[uint64, Status](),
		inProgress: skipset.New[uint64](),
		multis:     skipmap.New[uint64, *memberTable](),
	}
	r.nextXid.Store(uint64(FirstNormalXid))
	r.nextMulti.Store(1)
	return r
}

// Begin opens a new transaction and returns its session handle. The session
// doubles as the StatusOracle bound to that transaction.
func (r *Registry) Begin() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	xid := Xid(r.nextXid.Add(1) - 1)
	r.status.Store(uint64(xid), StatusInProgress)
	r.inProgress.Add(uint64(xid))

	return &Session{reg: r, xid: xid, cid: FirstCommandID}
}

// StatusOf returns the recorded status of a transaction.
func (r *Registry) StatusOf(x Xid) (Status, bool) {
	st, ok := r.status.Load(uint64(x))
	return st, ok
}

func (r *Registry) finish(x Xid, st Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.status.Load(uint64(x))
	if !ok {
		return ErrTxNotFound
	}
	if cur != StatusInProgress {
		return ErrTxFinished
	}
	r.status.Store(uint64(x), st)
	r.inProgress.Remove(uint64(x))
	return nil
}

// CreateMultiXact registers a new transaction set and returns its id.
func (r *Registry) CreateMultiXact(members ...MultiMember) (MultiXactID, error) {
	if len(members) == 0 {
		return InvalidMultiXactID, ErrEmptyMulti
	}

	updaters := 0
	mt := skipmap.New[uint64, bool]()
	for _, m := range members {
		if _, ok := r.status.Load(uint64(m.Xid)); !ok {
			return InvalidMultiXactID, ErrUnknownXid
		}
		if m.Updater {
			updaters++
		}
		mt.Store(uint64(m.Xid), m.Updater)
	}
	if updaters > 1 {
		return InvalidMultiXactID, ErrTwoUpdaters
	}

	id := MultiXactID(r.nextMulti.Add(1) - 1)
	r.multis.Store(uint64(id), mt)
	return id, nil
}

func (r *Registry) multiIsRunning(m MultiXactID, updatersOnly bool, self Xid) bool {
	mt, ok := r.multis.Load(uint64(m))
	if !ok {
		return false
	}

	running := false
	mt.Range(func(member uint64, updater bool) bool {
		if updatersOnly && !updater {
			return true
		}
		if Xid(member) == self {
			return true
		}
		if st, ok := r.status.Load(member); ok && st == StatusInProgress {
			running = true
			return false
		}
		return true
	})
	return running
}

func (r *Registry) resolveUpdateMember(m MultiXactID) (Xid, bool) {
	mt, ok := r.multis.Load(uint64(m))
	if !ok {
		return InvalidXid, false
	}

	found := InvalidXid
	mt.Range(func(member uint64, updater bool) bool {
		if updater {
			found = Xid(member)
			return false
		}
		return true
	})
	return found, found.IsValid()
}

// SnapshotData returns a consistent view for snapshot capture: the lowest
// in-progress xid, the highest xid handed out so far, and the full
// in-progress set.
func (r *Registry) SnapshotData() (xmin, xmax Xid, xip []Xid) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	next := Xid(r.nextXid.Load())
	xmax = next - 1
	xmin = next
	r.inProgress.Range(func(v uint64) bool {
		x := Xid(v)
		if x < xmin {
			xmin = x
		}
		xip = append(xip, x)
		return true
	})
	return xmin, xmax, xip
}

// InProgress lists the currently running transactions.
func (r *Registry) InProgress() []Xid {
	_, _, xip := r.SnapshotData()
	return xip
}

// NextXid returns the next id the registry would hand out.
func (r *Registry) NextXid() Xid {
	return Xid(r.nextXid.Load())
}

// RecentXmin is the lowest xid that could still put tuples in a new
// relation; everything below it has finished.
func (r *Registry) RecentXmin() Xid {
	xmin, _, _ := r.SnapshotData()
	return xmin
}

// OldestMultiXact is the lowest multixact id that could appear in tuples of
// a new relation.
func (r *Registry) OldestMultiXact() MultiXactID {
	return MultiXactID(r.nextMulti.Load())
}

// Session is one transaction's handle on the registry. It implements
// StatusOracle from that transaction's point of view.
type Session struct {
	reg *Registry
	xid Xid
	cid CommandID
}

var _ StatusOracle = (*Session)(nil)

func (s *Session) Xid() Xid {
	return s.xid
}

// CommandID returns the current command sequence number.
func (s *Session) CommandID() CommandID {
	return s.cid
}

// NextCommand advances to the next statement within the transaction.
func (s *Session) NextCommand() CommandID {
	s.cid++
	return s.cid
}

func (s *Session) Commit() error {
	return s.reg.finish(s.xid, StatusCommitted)
}

func (s *Session) Abort() error {
	return s.reg.finish(s.xid, StatusAborted)
}

func (s *Session) IsCurrent(x Xid) bool {
	return x.IsValid() && x == s.xid
}

func (s *Session) IsInProgress(x Xid) bool {
	if x == s.xid {
		return false
	}
	st, ok := s.reg.StatusOf(x)
	return ok && st == StatusInProgress
}

func (s *Session) DidCommit(x Xid) bool {
	st, ok := s.reg.StatusOf(x)
	return ok && st == StatusCommitted
}

func (s *Session) MultiXactIsRunning(m MultiXactID, updatersOnly bool) bool {
	return s.reg.multiIsRunning(m, updatersOnly, s.xid)
}

func (s *Session) ResolveUpdateMember(m MultiXactID) (Xid, bool) {
	return s.reg.resolveUpdateMember(m)
}
