package importer

import (
	"time"

	"github.com/41rumble/crew-planner/internal/domain"
	"github.com/41rumble/crew-planner/internal/ramp"
	"github.com/google/uuid"
)

// Convert transforms a validated ProjectFile into a timeline ready for
// persistence. Call ValidateProjectFile first; Convert assumes the file is valid.
//
// Departments that carry crew keep it (authoritative unless the file says
// otherwise) and only have their ramps reconciled. Departments without crew
// get a derived row generated from their ramps.
func Convert(pf *ProjectFile) *domain.Timeline {
	now := time.Now().UTC()

	t := &domain.Timeline{
		ID:        uuid.New().String(),
		Name:      pf.Name,
		Months:    append([]string(nil), pf.Months...),
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, p := range pf.Phases {
		t.Phases = append(t.Phases, domain.Phase{Name: p.Name, StartMonth: p.StartMonth, EndMonth: p.EndMonth})
	}

	for i, d := range pf.Departments {
		dept := domain.Department{
			Name:             d.Name,
			MaxCrew:          d.MaxCrew,
			StartMonth:       d.StartMonth,
			EndMonth:         d.EndMonth,
			RampUpDuration:   domain.IntFromPtrWithDefault(0, d.RampUpDuration),
			RampDownDuration: domain.IntFromPtrWithDefault(0, d.RampDownDuration),
			Rate:             domain.Float64FromPtrWithDefault(DefaultRate(d.Name), d.Rate),
			PhaseRef:         domain.CloneIntPtr(d.Phase),
		}
		t.Departments = append(t.Departments, dept)

		if len(d.Crew) == 0 {
			t.Crew = append(t.Crew, domain.CrewRow{})
			ramp.Apply(t, i)
			continue
		}
		ramp.Reconcile(&t.Departments[i])
		t.Crew = append(t.Crew, domain.CrewRow{
			Counts: domain.FitCounts(d.Crew, t.MonthCount()),
			Source: domain.CrewSource(domain.CoalesceStr(d.CrewSource, string(domain.CrewAuthoritative))),
		})
	}

	if len(pf.ItemOrder) > 0 {
		for _, ref := range pf.ItemOrder {
			t.ItemOrder = append(t.ItemOrder, domain.ItemRef{Kind: domain.ItemKind(ref.Type), Index: ref.Index})
		}
	} else {
		t.ItemOrder = t.GroupedItemOrder()
	}

	return t
}
