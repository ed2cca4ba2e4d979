package order

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// ErrStopIsNotConstructed is returned when a Stop instance was not created
// through NewStop or RestoreStop.
var ErrStopIsNotConstructed = errors.New("Stop must be created via NewStop constructor")

// Address identifies where a stop takes place. The geo point is nil until the
// address has been resolved by geocoding.
type Address struct {
	Label     string
	Formatted string
	Point     *kernel.GeoPoint
}

// Validate checks the address carries at least a label or formatted text, and
// that a resolved point, if present, is itself valid.
func (a Address) Validate() error {
	if a.Label == "" && a.Formatted == "" {
		return errs.NewValueIsRequiredError("address label or formatted text")
	}
	if a.Point != nil {
		return a.Point.Validate()
	}
	return nil
}

// IsResolved reports whether the address has geocoded coordinates.
func (a Address) IsResolved() bool {
	return a.Point != nil
}

// Contact is the client met at a stop.
type Contact struct {
	Name      string
	Phone     string
	AvatarURL string
}

// Stop is a physical location visit containing one or more actions.
// It carries its own status machine, a reversible hold flag, and the staging
// markers used by the pending-change overlay.
type Stop struct {
	id       kernel.UUID
	sequence int
	address  Address
	window   *kernel.TimeWindow
	contact  Contact
	actions  []*Action

	status  StopStatus
	held    bool
	history []StatusHistoryEntry

	pendingChange  bool
	deleteRequired bool
	stagedNew      bool
	originalID     *kernel.UUID

	isConstructed bool
}

// NewStop creates a stop with validation. Sequence must be non-negative and
// the address must carry at least a label or formatted text.
func NewStop(
	id kernel.UUID,
	sequence int,
	address Address,
	window *kernel.TimeWindow,
	contact Contact,
	actions []*Action,
) (*Stop, error) {
	stop := &Stop{
		status:        StopStatusPending,
		isConstructed: true,
	}

	if err := errors.Join(
		stop.setID(id),
		stop.setSequence(sequence),
		stop.setAddress(address),
		stop.setWindow(window),
	); err != nil {
		return nil, err
	}
	if err := stop.setActions(actions); err != nil {
		return nil, err
	}
	stop.contact = contact

	return stop, nil
}

// RestoreStop reconstructs a stop from persistence, including execution state,
// hold flag, history and overlay markers.
func RestoreStop(
	id kernel.UUID,
	sequence int,
	address Address,
	window *kernel.TimeWindow,
	contact Contact,
	actions []*Action,
	status StopStatus,
	held bool,
	history []StatusHistoryEntry,
	markers StagingMarkers,
) (*Stop, error) {
	stop, err := NewStop(id, sequence, address, window, contact, actions)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}

	stop.status = status
	stop.held = held
	stop.history = append([]StatusHistoryEntry(nil), history...)
	stop.pendingChange = markers.PendingChange
	stop.deleteRequired = markers.DeleteRequired
	stop.stagedNew = markers.StagedNew
	stop.originalID = markers.OriginalID
	return stop, nil
}

// Validate ensures the stop was created through a constructor.
func (s *Stop) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrStopIsNotConstructed
	}
	return nil
}

// ID returns the stop's unique identifier.
func (s *Stop) ID() kernel.UUID {
	return s.id
}

// Sequence returns the stop's position within its step.
func (s *Stop) Sequence() int {
	return s.sequence
}

// Address returns where the stop takes place.
func (s *Stop) Address() Address {
	return s.address
}

// Window returns the arrival window, nil when unconstrained.
func (s *Stop) Window() *kernel.TimeWindow {
	return s.window
}

// Contact returns the client met at the stop.
func (s *Stop) Contact() Contact {
	return s.contact
}

// Actions returns the stop's actions in sequence order.
func (s *Stop) Actions() []*Action {
	return s.actions
}

// Status returns the current execution status.
func (s *Stop) Status() StopStatus {
	return s.status
}

// Held reports whether the stop is frozen (on hold). A held stop cannot be
// arrived at or completed until it is unfrozen.
func (s *Stop) Held() bool {
	return s.held
}

// History returns the append-only transition log.
func (s *Stop) History() []StatusHistoryEntry {
	return append([]StatusHistoryEntry(nil), s.history...)
}

// PendingChange reports whether the stop carries unpushed overlay edits.
func (s *Stop) PendingChange() bool {
	return s.pendingChange
}

// DeleteRequired reports whether the next push must delete the stop.
func (s *Stop) DeleteRequired() bool {
	return s.deleteRequired
}

// StagedNew reports whether the stop was added via the overlay and not pushed yet.
func (s *Stop) StagedNew() bool {
	return s.stagedNew
}

// OriginalID returns the execution-side entity this stop replaces, if it is a
// staged shadow copy; nil otherwise.
func (s *Stop) OriginalID() *kernel.UUID {
	return s.originalID
}

// Arrive transitions the stop to Arrived and advances its pending actions to
// Arrived as well. Rejected while the stop is held.
func (s *Stop) Arrive() error {
	if s.held {
		return errs.NewInvalidStateError("arrive at", "held stop", s.status.String())
	}
	newStatus, err := s.status.Arrive()
	if err != nil {
		return err
	}
	s.transitionTo(newStatus, "")

	for _, action := range s.actions {
		if action.Status() == ActionStatusPending && !action.DeleteRequired() {
			if err := action.Arrive(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Complete closes the stop. Every action must be terminal; the resulting
// status is Completed when all actions completed, Partial otherwise.
// Rejected while the stop is held.
func (s *Stop) Complete() error {
	if s.held {
		return errs.NewInvalidStateError("complete", "held stop", s.status.String())
	}

	allCompleted := true
	for _, action := range s.actions {
		if !action.Status().IsTerminal() {
			return errs.NewInvalidStateError("complete", "stop with non-terminal action",
				action.Status().String())
		}
		if action.Status() != ActionStatusCompleted {
			allCompleted = false
		}
	}

	newStatus, err := s.status.Complete(allCompleted)
	if err != nil {
		return err
	}
	s.transitionTo(newStatus, "")
	return nil
}

// Fail transitions the stop to Failed, failing its non-terminal actions with
// the same reason.
func (s *Stop) Fail(reason string) error {
	newStatus, err := s.status.Fail()
	if err != nil {
		return err
	}
	for _, action := range s.actions {
		if !action.Status().IsTerminal() {
			if err := action.Fail(reason); err != nil {
				return err
			}
		}
	}
	s.transitionTo(newStatus, reason)
	return nil
}

// Freeze puts the stop on hold. The hold is not a status value and is
// reversible via Unfreeze.
func (s *Stop) Freeze(reason string) error {
	if s.status.IsTerminal() {
		return errs.NewInvalidStateError("freeze", "stop", s.status.String())
	}
	if s.held {
		return errs.NewInvalidStateError("freeze", "held stop", s.status.String())
	}
	s.held = true
	s.history = append(s.history, newHistoryEntry(s.status.String(), "frozen: "+reason))
	return nil
}

// Unfreeze releases the hold set by Freeze.
func (s *Stop) Unfreeze() error {
	if !s.held {
		return errs.NewInvalidStateError("unfreeze", "stop", s.status.String())
	}
	s.held = false
	s.history = append(s.history, newHistoryEntry(s.status.String(), "unfrozen"))
	return nil
}

func (s *Stop) transitionTo(status StopStatus, note string) {
	s.status = status
	s.history = append(s.history, newHistoryEntry(status.String(), note))
}

func (s *Stop) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Stop) setSequence(sequence int) error {
	if sequence < 0 {
		return errs.NewValueIsInvalidError("stop sequence")
	}
	s.sequence = sequence
	return nil
}

func (s *Stop) setAddress(address Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	s.address = address
	return nil
}

func (s *Stop) setWindow(window *kernel.TimeWindow) error {
	if window != nil {
		if err := window.Validate(); err != nil {
			return err
		}
	}
	s.window = window
	return nil
}

func (s *Stop) setActions(actions []*Action) error {
	for _, action := range actions {
		if err := action.Validate(); err != nil {
			return err
		}
	}
	s.actions = append([]*Action(nil), actions...)
	return nil
}
