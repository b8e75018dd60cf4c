package service

import (
	"github.com/41rumble/crew-planner/internal/domain"
	"github.com/41rumble/crew-planner/internal/ramp"
)

// seedSample fills t with the starter plan: two overlapping stages, a
// supervisor across the whole show and an artist team that ramps over three
// months on each side. Ranges are laid out for a 48 month show and clipped
// to shorter timelines.
func seedSample(t *domain.Timeline) {
	last := t.MonthCount() - 1
	clip := func(start, end int) (int, int) {
		end = min(end, last)
		return min(start, end), end
	}

	for _, p := range []struct {
		name       string
		start, end int
	}{
		{"Concept Stage", 0, 15},
		{"Production Stage", 12, 36},
	} {
		s, e := clip(p.start, p.end)
		t.AddPhase(domain.Phase{Name: p.name, StartMonth: s, EndMonth: e})
	}

	for _, d := range []domain.Department{
		{Name: "Supervision", MaxCrew: 1, StartMonth: 0, EndMonth: 36, Rate: 12000, PhaseRef: domain.IntPtr(0)},
		{Name: "Artists", MaxCrew: 10, StartMonth: 3, EndMonth: 33, RampUpDuration: 3, RampDownDuration: 3, Rate: 8000, PhaseRef: domain.IntPtr(1)},
	} {
		d.StartMonth, d.EndMonth = clip(d.StartMonth, d.EndMonth)
		ramp.Apply(t, t.AddDepartment(d, domain.CrewRow{Source: domain.CrewDerived}))
	}
	t.ItemOrder = t.GroupedItemOrder()
}
