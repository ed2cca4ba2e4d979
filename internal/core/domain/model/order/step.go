package order

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// ErrStepIsNotConstructed is returned when a Step instance was not created
// through NewStep or RestoreStep.
var ErrStepIsNotConstructed = errors.New("Step must be created via NewStep constructor")

// Step is an ordered phase of an order. A linked step requires its stops to be
// executed contiguously and in sequence, with no interleaving from other
// steps; an unlinked step imposes no cross-stop ordering beyond its own
// position among the steps.
type Step struct {
	id       kernel.UUID
	sequence int
	linked   bool
	stops    []*Stop

	pendingChange  bool
	deleteRequired bool
	stagedNew      bool
	originalID     *kernel.UUID
	pendingLinked  *bool

	isConstructed bool
}

// NewStep creates a step with validation. Within a linked step, stop sequence
// numbers must be contiguous starting at zero.
func NewStep(id kernel.UUID, sequence int, linked bool, stops []*Stop) (*Step, error) {
	step := &Step{
		linked:        linked,
		isConstructed: true,
	}

	if err := errors.Join(step.setID(id), step.setSequence(sequence)); err != nil {
		return nil, err
	}
	if err := step.setStops(stops); err != nil {
		return nil, err
	}

	return step, nil
}

// RestoreStep reconstructs a step from persistence, including overlay markers.
func RestoreStep(
	id kernel.UUID,
	sequence int,
	linked bool,
	stops []*Stop,
	markers StagingMarkers,
) (*Step, error) {
	step, err := NewStep(id, sequence, linked, stops)
	if err != nil {
		return nil, err
	}

	step.pendingChange = markers.PendingChange
	step.deleteRequired = markers.DeleteRequired
	step.stagedNew = markers.StagedNew
	step.originalID = markers.OriginalID
	step.pendingLinked = markers.PendingLinked
	return step, nil
}

// Validate ensures the step was created through a constructor.
func (s *Step) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrStepIsNotConstructed
	}
	return nil
}

// ID returns the step's unique identifier.
func (s *Step) ID() kernel.UUID {
	return s.id
}

// Sequence returns the step's position within the order.
func (s *Step) Sequence() int {
	return s.sequence
}

// Linked reports whether the step's stops must execute contiguously in order.
func (s *Step) Linked() bool {
	return s.linked
}

// Stops returns the step's stops in sequence order.
func (s *Step) Stops() []*Stop {
	return s.stops
}

// PendingChange reports whether the step carries unpushed overlay edits.
func (s *Step) PendingChange() bool {
	return s.pendingChange
}

// DeleteRequired reports whether the next push must delete the step.
func (s *Step) DeleteRequired() bool {
	return s.deleteRequired
}

// StagedNew reports whether the step was added via the overlay and not pushed yet.
func (s *Step) StagedNew() bool {
	return s.stagedNew
}

// OriginalID returns the execution-side entity this step replaces, if it is a
// staged shadow copy; nil otherwise.
func (s *Step) OriginalID() *kernel.UUID {
	return s.originalID
}

// PendingLinked returns the staged value for the linked flag, nil when no
// patch is staged.
func (s *Step) PendingLinked() *bool {
	return s.pendingLinked
}

func (s *Step) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Step) setSequence(sequence int) error {
	if sequence < 0 {
		return errs.NewValueIsInvalidError("step sequence")
	}
	s.sequence = sequence
	return nil
}

func (s *Step) setStops(stops []*Stop) error {
	for _, stop := range stops {
		if err := stop.Validate(); err != nil {
			return err
		}
	}
	if s.linked {
		if err := validateContiguousSequences(stops); err != nil {
			return err
		}
	}
	s.stops = append([]*Stop(nil), stops...)
	return nil
}

// validateContiguousSequences enforces the linked-step invariant: stop
// sequences run 0..n-1 without gaps. Staged deletions keep their slot until
// the push removes them, so they still count; staged shadow copies reuse
// their original's slot and are skipped.
func validateContiguousSequences(stops []*Stop) error {
	slotted := make([]*Stop, 0, len(stops))
	for _, stop := range stops {
		if stop.OriginalID() != nil {
			continue
		}
		slotted = append(slotted, stop)
	}

	seen := make(map[int]bool, len(slotted))
	for _, stop := range slotted {
		seen[stop.Sequence()] = true
	}
	for i := range slotted {
		if !seen[i] {
			return errs.NewValueIsInvalidErrorWithCause("linked step stops",
				errors.New("stop sequences must be contiguous"))
		}
	}
	return nil
}
