package drag

import (
	"context"

	"github.com/41rumble/crew-planner/internal/domain"
)

// EventKind identifies a pointer event delivered during a gesture.
type EventKind int

const (
	EventMove EventKind = iota
	EventUp
	EventCancel
)

// Event is one pointer event. Month is the month column under the pointer,
// or -1 when the pointer is outside the month columns.
type Event struct {
	Kind  EventKind
	Month int
}

// EventSource hands out a stream of pointer events. The release function
// must be called once the gesture no longer needs the stream.
type EventSource interface {
	Subscribe() (<-chan Event, func())
}

// Grab names the handle a gesture starts on.
type Grab struct {
	Department int
	Boundary   domain.Boundary
}

// RunGesture drives a whole gesture: pointer down on the grabbed handle,
// then events from src until release, cancel, the stream closing or ctx
// being done. The subscription is always released before returning.
func RunGesture(ctx context.Context, t *domain.Timeline, grab Grab, src EventSource) (Outcome, error) {
	s, err := PointerDown(Idle, t, grab.Department, grab.Boundary)
	if err != nil {
		return OutcomeNone, err
	}

	events, release := src.Subscribe()
	defer release()

	for {
		select {
		case <-ctx.Done():
			return OutcomeCancelled, ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return OutcomeCancelled, nil
			}
			switch ev.Kind {
			case EventMove:
				s = PointerMove(s, t, ev.Month)
			case EventUp:
				_, out := PointerUp(s, t, ev.Month)
				return out, nil
			case EventCancel:
				return OutcomeCancelled, nil
			}
		}
	}
}

// Replay is an EventSource that delivers a fixed sequence of events and
// then closes the stream.
type Replay []Event

func (r Replay) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, len(r))
	for _, ev := range r {
		ch <- ev
	}
	close(ch)
	return ch, func() {}
}

// MoveThrough builds a replayed gesture that moves across each month in path
// and releases on the last one.
func MoveThrough(path ...int) Replay {
	r := make(Replay, 0, len(path))
	for i, m := range path {
		kind := EventMove
		if i == len(path)-1 {
			kind = EventUp
		}
		r = append(r, Event{Kind: kind, Month: m})
	}
	return r
}
