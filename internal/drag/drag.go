// Package drag turns a pointer gesture on a department's start or end handle
// into one timeframe edit. Moves only refresh a preview curve; the department
// is reconciled and regenerated once, when the pointer is released.
package drag

import (
	"errors"
	"fmt"
	"math"

	"github.com/41rumble/crew-planner/internal/domain"
	"github.com/41rumble/crew-planner/internal/ramp"
)

// ErrGestureActive is returned when a gesture starts while another is in progress.
var ErrGestureActive = errors.New("drag gesture already active")

// State is the gesture state. The zero value is Idle.
type State struct {
	Dragging   bool
	Department int
	Boundary   domain.Boundary
	OrigStart  int
	OrigEnd    int
	// Value is the month the moved boundary currently sits on.
	Value int
	// Preview is the curve the department would get if released now.
	Preview []int
}

// Idle is the state with no gesture in progress.
var Idle = State{}

// Outcome reports how a gesture ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeCommitted
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCommitted:
		return "committed"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "none"
	}
}

// PointerDown grabs the boundary handle of department dept.
func PointerDown(s State, t *domain.Timeline, dept int, b domain.Boundary) (State, error) {
	if s.Dragging {
		return s, ErrGestureActive
	}
	if dept < 0 || dept >= len(t.Departments) {
		return s, fmt.Errorf("department %d not found", dept)
	}
	if b != domain.BoundaryStart && b != domain.BoundaryEnd {
		return s, fmt.Errorf("invalid boundary %q", b)
	}

	d := t.Departments[dept]
	next := State{
		Dragging:   true,
		Department: dept,
		Boundary:   b,
		OrigStart:  d.StartMonth,
		OrigEnd:    d.EndMonth,
		Value:      d.StartMonth,
	}
	if b == domain.BoundaryEnd {
		next.Value = d.EndMonth
	}
	next.Preview = ramp.PreviewCurve(proposed(d, next), t.MonthCount())
	return next, nil
}

// PointerMove moves the grabbed boundary to month. Months outside the
// timeline, or that would put the start after the end (or the end before
// the start), are ignored. The department itself is never touched.
func PointerMove(s State, t *domain.Timeline, month int) State {
	if !s.Dragging || month < 0 || month >= t.MonthCount() {
		return s
	}
	switch s.Boundary {
	case domain.BoundaryStart:
		if month > s.OrigEnd {
			return s
		}
	case domain.BoundaryEnd:
		if month < s.OrigStart {
			return s
		}
	}
	if month == s.Value {
		return s
	}

	s.Value = month
	s.Preview = ramp.PreviewCurve(proposed(t.Departments[s.Department], s), t.MonthCount())
	return s
}

// PointerUp releases the handle over month. A release outside the month
// columns cancels the gesture and leaves the department untouched.
// Otherwise the moved side's ramp is rescaled to the new timeframe and the
// department is reconciled and regenerated exactly once.
func PointerUp(s State, t *domain.Timeline, month int) (State, Outcome) {
	if !s.Dragging {
		return s, OutcomeNone
	}
	if month < 0 || month >= t.MonthCount() {
		return Idle, OutcomeCancelled
	}

	s = PointerMove(s, t, month)
	t.Departments[s.Department] = proposed(t.Departments[s.Department], s)
	ramp.Apply(t, s.Department)
	return Idle, OutcomeCommitted
}

// Cancel abandons any gesture in progress.
func Cancel(State) State {
	return Idle
}

// proposed returns d with the boundary moved to s.Value and the moved
// side's ramp scaled by newLen/oldLen, capped at half the new timeframe.
func proposed(d domain.Department, s State) domain.Department {
	oldLen := s.OrigEnd - s.OrigStart + 1
	switch s.Boundary {
	case domain.BoundaryStart:
		d.StartMonth = s.Value
	case domain.BoundaryEnd:
		d.EndMonth = s.Value
	}
	newLen := d.TimeframeDuration()
	if newLen == oldLen || oldLen <= 0 {
		return d
	}

	scale := func(r int) int {
		v := int(math.Floor(float64(r)*float64(newLen)/float64(oldLen) + 0.5))
		return min(v, newLen/2)
	}
	if s.Boundary == domain.BoundaryStart {
		d.RampUpDuration = scale(d.RampUpDuration)
	} else {
		d.RampDownDuration = scale(d.RampDownDuration)
	}
	return d
}
