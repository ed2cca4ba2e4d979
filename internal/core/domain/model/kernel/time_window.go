package kernel

import (
	"fmt"
	"time"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

// ErrTimeWindowIsNotConstructed is returned when attempting to use an improperly
// initialized TimeWindow. TimeWindows must be created via NewTimeWindow.
var ErrTimeWindowIsNotConstructed = errs.NewValueIsRequiredError(
	"time window must be created via NewTimeWindow constructor")

// TimeWindow is an immutable value object describing the [start, end] interval
// within which a stop should be visited. The end must be after the start.
type TimeWindow struct {
	start time.Time
	end   time.Time
	guard guard.ConstructorGuard
}

// NewTimeWindow creates a TimeWindow from start and end instants.
// Both must be non-zero and end must be strictly after start.
func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	if start.IsZero() || end.IsZero() {
		return TimeWindow{}, errs.NewValueIsRequiredError("time window bounds")
	}
	if !end.After(start) {
		return TimeWindow{}, errs.NewValueIsInvalidErrorWithCause("time window",
			fmt.Errorf("end %s is not after start %s", end, start))
	}

	return TimeWindow{start: start, end: end, guard: guard.NewConstructorGuard()}, nil
}

// Start returns the beginning of the window.
func (w TimeWindow) Start() time.Time {
	return w.start
}

// End returns the end of the window.
func (w TimeWindow) End() time.Time {
	return w.end
}

// Contains reports whether t falls inside the window, bounds inclusive.
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.start) && !t.After(w.end)
}

// Validate checks that the window was constructed via NewTimeWindow.
func (w TimeWindow) Validate() error {
	return w.guard.Validate(ErrTimeWindowIsNotConstructed)
}
