package testutil

import (
	"time"

	"github.com/41rumble/crew-planner/internal/domain"
	"github.com/41rumble/crew-planner/internal/ramp"
	"github.com/google/uuid"
)

// Timeline options
type TimelineOption func(*domain.Timeline)

// WithMonths replaces the month axis with monthCount months from January of startYear.
func WithMonths(startYear, monthCount int) TimelineOption {
	return func(t *domain.Timeline) {
		t.Months = domain.NewTimeline(t.Name, startYear, 0, monthCount).Months
	}
}

func WithPhase(name string, start, end int) TimelineOption {
	return func(t *domain.Timeline) {
		t.AddPhase(domain.Phase{Name: name, StartMonth: start, EndMonth: end})
	}
}

// WithDepartment adds d with a derived crew row generated from its ramps.
func WithDepartment(d domain.Department) TimelineOption {
	return func(t *domain.Timeline) {
		idx := t.AddDepartment(d, domain.CrewRow{Source: domain.CrewDerived})
		ramp.Apply(t, idx)
	}
}

// WithAuthoritativeDepartment adds d with counts kept verbatim.
func WithAuthoritativeDepartment(d domain.Department, counts ...int) TimelineOption {
	return func(t *domain.Timeline) {
		t.AddDepartment(d, domain.CrewRow{Counts: counts, Source: domain.CrewAuthoritative})
	}
}

// NewTestTimeline builds a twelve month timeline starting January 2025.
// Options apply in order, so WithMonths must come before phases and departments.
func NewTestTimeline(name string, opts ...TimelineOption) *domain.Timeline {
	now := time.Now().UTC().Truncate(time.Second)
	t := domain.NewTimeline(name, 2025, 0, 12)
	t.ID = uuid.New().String()
	t.CreatedAt = now
	t.UpdatedAt = now
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewTestDepartment returns a department with a two month ramp on each side.
func NewTestDepartment(name string, maxCrew, start, end int) domain.Department {
	return domain.Department{
		Name:             name,
		MaxCrew:          maxCrew,
		StartMonth:       start,
		EndMonth:         end,
		RampUpDuration:   2,
		RampDownDuration: 2,
		Rate:             8000,
	}
}
