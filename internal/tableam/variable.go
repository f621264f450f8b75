package tableam

import (
	"tvheap/internal/buffer"
	"tvheap/internal/snapshot"
	"tvheap/internal/tuple"
	"tvheap/internal/txn"
	"tvheap/internal/visibility"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// AMName is the name the variable heap registers under.
const AMName = "table_variable"

var ErrTempOnly = errors.New("tvheap: table-variable heap supports temp relations only")

type iHorizons interface {
	RecentXmin() txn.Xid
	OldestMultiXact() txn.MultiXactID
}

// VariableAM is the table-variable access method: the stock heap with
// storage creation restricted to temp relations and both tuple decision
// procedures swapped for the rollback-insensitive ones. Delegated members
// come from the embedded Base.
type VariableAM struct {
	Base

	horizons iHorizons
	stats    *visibility.Stats
}

var _ Routine = (*VariableAM)(nil)

func NewVariableAM(base Base, horizons iHorizons, stats *visibility.Stats) *VariableAM {
	return &VariableAM{Base: base, horizons: horizons, stats: stats}
}

func (am *VariableAM) Name() string {
	return AMName
}

// SetNewFileNode creates storage for a new relation. Table variables live
// for a session only, so anything but temp persistence is refused. The
// freeze and multixact horizons are initialized to the lowest values that
// could still put tuples in the table.
func (am *VariableAM) SetNewFileNode(rel Relation) (FileNode, error) {
	if rel.Persistence != PersistenceTemp {
		return FileNode{}, errors.Wrapf(ErrTempOnly, "relation %q is %s", rel.Name, rel.Persistence)
	}

	return FileNode{
		ID:        uuid.New(),
		Rel:       rel.Oid,
		FreezeXid: am.horizons.RecentXmin(),
		MinMulti:  am.horizons.OldestMultiXact(),
	}, nil
}

func (am *VariableAM) TupleVisible(h *tuple.Header, snap *snapshot.Snapshot, lock buffer.PageLock, o txn.StatusOracle) bool {
	return visibility.NewEvaluator(o, am.stats).Visible(h, snap, lock)
}

func (am *VariableAM) TupleUpdate(h *tuple.Header, curcid txn.CommandID, lock buffer.PageLock, o txn.StatusOracle) visibility.Result {
	return visibility.NewEvaluator(o, am.stats).CheckUpdate(h, curcid, lock)
}

// Stats exposes the decision counters for the admin surface.
func (am *VariableAM) Stats() *visibility.Stats {
	return am.stats
}
