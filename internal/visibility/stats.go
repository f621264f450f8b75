package visibility

import "sync/atomic"

// Stats counts evaluator decisions for the admin surface. All counters are
// monotonic; a nil *Stats disables collection.
type Stats struct {
	visible       atomic.Uint64
	invisible     atomic.Uint64
	unsupported   atomic.Uint64
	updateResults [Deleted + 1]atomic.Uint64
}

// StatsSnapshot is a point-in-time copy of the counters.
type StatsSnapshot struct {
	Visible             uint64 `json:"visible"`
	Invisible           uint64 `json:"invisible"`
	UnsupportedSnapshot uint64 `json:"unsupported_snapshot"`

	UpdateOk            uint64 `json:"update_ok"`
	UpdateInvisible     uint64 `json:"update_invisible"`
	UpdateSelfModified  uint64 `json:"update_self_modified"`
	UpdateBeingModified uint64 `json:"update_being_modified"`
	UpdateUpdated       uint64 `json:"update_updated"`
	UpdateDeleted       uint64 `json:"update_deleted"`
}

func (s *Stats) observeVisible(visible bool) {
	if s == nil {
		return
	}
	if visible {
		s.visible.Add(1)
	} else {
		s.invisible.Add(1)
	}
}

func (s *Stats) observeUnsupported() {
	if s == nil {
		return
	}
	s.unsupported.Add(1)
}

func (s *Stats) observeUpdate(r Result) {
	if s == nil {
		return
	}
	s.updateResults[r].Add(1)
}

func (s *Stats) Snapshot() StatsSnapshot {
	if s == nil {
		return StatsSnapshot{}
	}
	return StatsSnapshot{
		Visible:             s.visible.Load(),
		Invisible:           s.invisible.Load(),
		UnsupportedSnapshot: s.unsupported.Load(),
		UpdateOk:            s.updateResults[Ok].Load(),
		UpdateInvisible:     s.updateResults[Invisible].Load(),
		UpdateSelfModified:  s.updateResults[SelfModified].Load(),
		UpdateBeingModified: s.updateResults[BeingModified].Load(),
		UpdateUpdated:       s.updateResults[Updated].Load(),
		UpdateDeleted:       s.updateResults[Deleted].Load(),
	}
}
