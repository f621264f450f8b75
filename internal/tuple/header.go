package tuple

import "tvheap/internal/txn"

// Oid identifies the relation owning a tuple.
type Oid uint32

const InvalidOid Oid = 0

// Header is an immutable view of one stored row version's control fields,
// captured from the page at call entry. The evaluators never write through
// it: unlike the stock heap, this engine does not cache commit/abort
// resolutions back into the status bits, because visibility here is
// deliberately decoupled from abort outcomes.
//
// RawXmax holds either a plain xid or a multixact id; Mask says which.
// Cmin and Cmax are carried as separate fields; the physical format packs
// them into one slot and resolves the pair through combo-cid state, which
// the page layer has already undone by the time a Header reaches this core.
type Header struct {
	Xmin    txn.Xid
	RawXmax uint64
	Cmin    txn.CommandID
	Cmax    txn.CommandID
	Mask    Infomask

	Self ItemPointer
	Ctid ItemPointer

	TableOid Oid
}

func (h *Header) XminCommitted() bool {
	return h.Mask&XminCommitted != 0
}

func (h *Header) XminInvalid() bool {
	return h.Mask&(XminCommitted|XminInvalid) == XminInvalid
}

func (h *Header) XminFrozen() bool {
	return h.Mask&XminFrozen == XminFrozen
}

func (h *Header) XmaxCommitted() bool {
	return h.Mask&XmaxCommitted != 0
}

func (h *Header) XmaxInvalid() bool {
	return h.Mask&XmaxInvalid != 0
}

func (h *Header) XmaxIsMulti() bool {
	return h.Mask&XmaxIsMulti != 0
}

func (h *Header) XmaxLockedOnly() bool {
	return h.Mask.LockedOnly()
}

func (h *Header) XmaxLockUpgraded() bool {
	return h.Mask.LockUpgraded()
}

// XmaxXid returns the raw xmax as a plain transaction id. Only meaningful
// when XmaxIsMulti is unset.
func (h *Header) XmaxXid() txn.Xid {
	return txn.Xid(h.RawXmax)
}

// XmaxMulti returns the raw xmax as a multixact id. Only meaningful when
// XmaxIsMulti is set.
func (h *Header) XmaxMulti() txn.MultiXactID {
	return txn.MultiXactID(h.RawXmax)
}

func (h *Header) GetCmin() txn.CommandID {
	return h.Cmin
}

func (h *Header) GetCmax() txn.CommandID {
	return h.Cmax
}

// UpdatedToOther reports whether the successor pointer leads away from this
// version, i.e. the row was updated into a new version rather than deleted.
func (h *Header) UpdatedToOther() bool {
	return !h.Self.Equals(h.Ctid)
}
