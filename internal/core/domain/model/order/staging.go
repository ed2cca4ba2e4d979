package order

import "orderflow/internal/core/domain/model/kernel"

// StagingMarkers bundles the pending-change overlay state of a hierarchy
// entity for persistence round-trips.
//
// Marker semantics:
//   - PendingChange: the entity (or a descendant) carries an unpushed edit.
//   - DeleteRequired: the next push must delete this execution-side entity.
//   - StagedNew: the entity was added via the overlay and does not exist on
//     the execution side yet.
//   - OriginalID: set iff the entity is a staged shadow copy replacing an
//     execution-side entity of different identity; it correlates the edit back
//     to the last pushed state.
//   - PendingLinked: steps only; a staged value for the linked flag, applied
//     on push. Steps are patched in place instead of shadow-copied because
//     they carry no execution state of their own.
type StagingMarkers struct {
	PendingChange  bool
	DeleteRequired bool
	StagedNew      bool
	OriginalID     *kernel.UUID
	PendingLinked  *bool
}

// ChangeOpKind classifies a staged edit for the push batch.
type ChangeOpKind int

const (
	// ChangeOpCreate adds an overlay-created entity to the execution record.
	ChangeOpCreate ChangeOpKind = iota + 1

	// ChangeOpReplace swaps an execution-side entity for its staged shadow copy.
	ChangeOpReplace

	// ChangeOpDelete removes an execution-side entity.
	ChangeOpDelete
)

// String returns the lower-case operation name used in conflict reports.
func (k ChangeOpKind) String() string {
	switch k {
	case ChangeOpCreate:
		return "create"
	case ChangeOpReplace:
		return "replace"
	case ChangeOpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// ChangeOperation describes one staged edit that the next push will apply.
type ChangeOperation struct {
	Kind     ChangeOpKind
	Entity   string
	EntityID kernel.UUID
	// TargetID is the execution-side entity affected: the original for
	// replaces, the entity itself for deletes, empty for creates.
	TargetID kernel.UUID
}
