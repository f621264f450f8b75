package snapshot

import "tvheap/internal/txn"

type iRegistry interface {
	SnapshotData() (xmin, xmax txn.Xid, xip []txn.Xid)
}

type iSession interface {
	Xid() txn.Xid
	CommandID() txn.CommandID
}

// Manager captures snapshots from the transaction registry.
type Manager struct {
	reg iRegistry
}

func NewManager(reg iRegistry) *Manager {
	return &Manager{reg: reg}
}

// MVCC captures a standard multi-version snapshot for the session's current
// command. The registry returns the in-progress set atomically with the xid
// bounds, so a transaction can never appear both completed and in progress.
func (m *Manager) MVCC(s iSession) *Snapshot {
	xmin, xmax, xip := m.reg.SnapshotData()
	return New(KindMVCC, s.Xid(), s.CommandID(), xmin, xmax, xip)
}

// Any returns the see-everything snapshot used by maintenance scans.
func (m *Manager) Any() *Snapshot {
	return Any()
}
