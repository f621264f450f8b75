package tuple

// ItemPointer is a row version's physical address: page plus 1-based slot.
// A tuple header carries two of them: its own location and, once updated,
// the location of its successor version. When both are equal the version was
// deleted rather than updated.
type ItemPointer struct {
	PageID uint32
	Slot   uint16
}

func (p ItemPointer) IsValid() bool {
	return p.Slot != 0
}

func (p ItemPointer) Equals(o ItemPointer) bool {
	return p.PageID == o.PageID && p.Slot == o.Slot
}
