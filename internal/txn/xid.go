package txn

// Xid is a transaction identifier.
type Xid uint64

const (
	// InvalidXid never refers to a real transaction.
	InvalidXid Xid = 0
	// BootstrapXid and FrozenXid are reserved below the normal range.
	BootstrapXid Xid = 1
	FrozenXid    Xid = 2
	// FirstNormalXid is the first id the registry hands out.
	FirstNormalXid Xid = 3
)

func (x Xid) IsValid() bool {
	return x != InvalidXid
}

func (x Xid) IsNormal() bool {
	return x >= FirstNormalXid
}

// CommandID orders statements within one transaction. cmin/cmax on a tuple
// header and curcid on a snapshot are all CommandIDs.
type CommandID uint32

const (
	FirstCommandID   CommandID = 0
	InvalidCommandID CommandID = 0xFFFFFFFF
)

// MultiXactID identifies a set of transactions jointly locking or updating
// one row version. It shares the tuple's xmax slot with plain Xids; the
// infomask says which one is stored.
type MultiXactID uint64

const InvalidMultiXactID MultiXactID = 0

func (m MultiXactID) IsValid() bool {
	return m != InvalidMultiXactID
}

type Status uint8

const (
	StatusInProgress Status = iota
	StatusCommitted
	StatusAborted
)

func (s Status) String() string {
	switch s {
	case StatusInProgress:
		return "in-progress"
	case StatusCommitted:
		return "committed"
	case StatusAborted:
		return "aborted"
	default:
		return "unknown"
	}
}
