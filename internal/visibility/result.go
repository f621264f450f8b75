package visibility

// Result classifies whether an UPDATE/DELETE may proceed against a row
// version. Everything except Ok tells the caller which recovery path to
// take; this package never retries or waits itself.
type Result uint8

const (
	// Ok: safe to modify.
	Ok Result = iota
	// Invisible: the version is not visible to the invoking command; the
	// operation is a no-op.
	Invisible
	// SelfModified: an earlier command of the same transaction already
	// modified the version.
	SelfModified
	// BeingModified: a concurrent transaction holds the row; the caller
	// decides whether to wait or bail.
	BeingModified
	// Updated: a resolved foreign transaction updated the version; follow
	// the successor pointer.
	Updated
	// Deleted: a resolved foreign transaction deleted the version.
	Deleted
)

func (r Result) String() string {
	switch r {
	case Ok:
		return "ok"
	case Invisible:
		return "invisible"
	case SelfModified:
		return "self-modified"
	case BeingModified:
		return "being-modified"
	case Updated:
		return "updated"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}
