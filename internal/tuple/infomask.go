package tuple

// Infomask is the tuple header's status bit word. The layout is fixed by the
// external page format; this package only reads it.
type Infomask uint16

const (
	// xmax lock strength bits. Share lock is the key-share and exclusive
	// bits together.
	XmaxKeyShareLock  Infomask = 0x0010
	ComboCid          Infomask = 0x0020
	XmaxExclusiveLock Infomask = 0x0040
	// XmaxLockOnly means xmax locks the row without deleting it.
	XmaxLockOnly Infomask = 0x0080

	XminCommitted Infomask = 0x0100
	XminInvalid   Infomask = 0x0200
	XmaxCommitted Infomask = 0x0400
	XmaxInvalid   Infomask = 0x0800
	// XmaxIsMulti means the xmax slot holds a multixact id, not a plain xid.
	XmaxIsMulti Infomask = 0x1000
	// HeapUpdated marks a version created by an update rather than an insert.
	HeapUpdated Infomask = 0x2000

	// XminFrozen is both xmin bits at once.
	XminFrozen = XminCommitted | XminInvalid

	XmaxShareLock = XmaxExclusiveLock | XmaxKeyShareLock
	lockMask      = XmaxShareLock | XmaxExclusiveLock | XmaxKeyShareLock
)

// LockedOnly reports whether xmax only locks the row: either the explicit
// lock-only bit, or the pre-multixact encoding of a plain exclusive lock.
func (m Infomask) LockedOnly() bool {
	if m&XmaxLockOnly != 0 {
		return true
	}
	return m&(XmaxIsMulti|lockMask) == XmaxExclusiveLock
}

// LockUpgraded reports the historical encoding of a multixact that carries
// lock-only members whose lock strength was never recorded. Such an xmax
// holds no live locker of interest.
func (m Infomask) LockUpgraded() bool {
	return m&XmaxIsMulti != 0 && m&XmaxLockOnly != 0 && m&lockMask == 0
}
