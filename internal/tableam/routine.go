// Package tableam models the slice of the host's table-access-method surface
// that the table-variable heap overrides: storage creation and the two
// tuple-level decision procedures. Everything else a full access method does
// is delegated unchanged to a base implementation, the way the original
// handler copies the stock heap's routine and replaces three entries.
package tableam

import (
	"tvheap/internal/buffer"
	"tvheap/internal/snapshot"
	"tvheap/internal/tuple"
	"tvheap/internal/txn"
	"tvheap/internal/visibility"

	"github.com/google/uuid"
)

// Persistence is the relation's durability class.
type Persistence uint8

const (
	PersistencePermanent Persistence = iota
	PersistenceUnlogged
	PersistenceTemp
)

func (p Persistence) String() string {
	switch p {
	case PersistencePermanent:
		return "permanent"
	case PersistenceUnlogged:
		return "unlogged"
	case PersistenceTemp:
		return "temp"
	default:
		return "unknown"
	}
}

// Relation is the catalog view of a table consumed by this package.
type Relation struct {
	Oid         tuple.Oid
	Name        string
	Persistence Persistence
}

// FileNode identifies freshly created relation storage, with the transaction
// horizons stamped into it at creation time.
type FileNode struct {
	ID        uuid.UUID
	Rel       tuple.Oid
	FreezeXid txn.Xid
	MinMulti  txn.MultiXactID
}

// Base holds the access-method operations the table-variable heap delegates
// unchanged to the stock heap.
type Base interface {
	// ScanBatchSize is the number of tuples fetched per scan step.
	ScanBatchSize() int
	// ToastThreshold is the tuple size above which out-of-line storage kicks in.
	ToastThreshold() int
}

// Routine is the capability set a registered access method exposes to the
// scan/update executor.
type Routine interface {
	Base

	Name() string

	// SetNewFileNode creates storage for a new relation.
	SetNewFileNode(rel Relation) (FileNode, error)

	// TupleVisible decides whether the row version satisfies the snapshot.
	// The oracle carries the invoking transaction's status view; the page
	// lock proves the header can be read safely.
	TupleVisible(h *tuple.Header, snap *snapshot.Snapshot, lock buffer.PageLock, o txn.StatusOracle) bool

	// TupleUpdate decides whether an UPDATE/DELETE by command curcid may
	// modify the row version.
	TupleUpdate(h *tuple.Header, curcid txn.CommandID, lock buffer.PageLock, o txn.StatusOracle) visibility.Result
}

// StockHeap supplies the delegated behavior. Only the members the
// table-variable heap forwards are modeled here; the stock visibility rules
// are out of scope and deliberately absent.
type StockHeap struct {
	BatchSize int
	Toast     int
}

const (
	defaultScanBatchSize  = 64
	defaultToastThreshold = 2032
)

func NewStockHeap() *StockHeap {
	return &StockHeap{BatchSize: defaultScanBatchSize, Toast: defaultToastThreshold}
}

func (s *StockHeap) ScanBatchSize() int {
	if s.BatchSize <= 0 {
		return defaultScanBatchSize
	}
	return s.BatchSize
}

func (s *StockHeap) ToastThreshold() int {
	if s.Toast <= 0 {
		return defaultToastThreshold
	}
	return s.Toast
}
