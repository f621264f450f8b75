// Package visibility implements the tuple-visibility and update-conflict
// decisions of the table-variable heap. Both procedures are pure functions
// over a tuple header image and transaction-status facts; neither ever
// writes status bits back to the page.
//
// The decisive property of this engine is rollback-insensitivity: a
// transaction that would count as aborted under the stock heap's rules is
// not re-derived as such here. Wherever the stock algorithm consults the
// status oracle to rescue a row from an aborted deleter, this one treats
// the delete as final.
package visibility

import (
	"tvheap/internal/buffer"
	"tvheap/internal/tuple"
	"tvheap/internal/txn"

	"github.com/cockroachdb/errors"
)

// Evaluator binds the two decision procedures to one transaction's status
// oracle. It is cheap to construct per statement.
type Evaluator struct {
	oracle txn.StatusOracle
	stats  *Stats
}

func NewEvaluator(o txn.StatusOracle, stats *Stats) *Evaluator {
	return &Evaluator{oracle: o, stats: stats}
}

// assertCallContract enforces the caller's preconditions: a real tuple on a
// share-locked page of a real relation. Violations are implementation
// faults, not runtime conditions.
func assertCallContract(h *tuple.Header, lock buffer.PageLock) {
	if h == nil {
		panic(errors.AssertionFailedf("visibility check on nil tuple header"))
	}
	if !h.Self.IsValid() {
		panic(errors.AssertionFailedf("visibility check on tuple with invalid self pointer"))
	}
	if h.TableOid == tuple.InvalidOid {
		panic(errors.AssertionFailedf("visibility check on tuple with no owning relation"))
	}
	if !lock.Valid() {
		panic(errors.AssertionFailedf("visibility check without a page lock"))
	}
}
