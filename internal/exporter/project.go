package exporter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/41rumble/crew-planner/internal/domain"
	"github.com/41rumble/crew-planner/internal/importer"
)

// ProjectFile converts a timeline into the JSON project file shape. Every
// department carries its crew row and provenance so a reload reproduces the
// matrix exactly.
func ProjectFile(t *domain.Timeline) *importer.ProjectFile {
	pf := &importer.ProjectFile{
		Name:        t.Name,
		Months:      append([]string(nil), t.Months...),
		Departments: make([]importer.DepartmentImport, 0, len(t.Departments)),
	}

	for _, p := range t.Phases {
		pf.Phases = append(pf.Phases, importer.PhaseImport{Name: p.Name, StartMonth: p.StartMonth, EndMonth: p.EndMonth})
	}

	for i, d := range t.Departments {
		up, down, rate := d.RampUpDuration, d.RampDownDuration, d.Rate
		di := importer.DepartmentImport{
			Name:             d.Name,
			MaxCrew:          d.MaxCrew,
			StartMonth:       d.StartMonth,
			EndMonth:         d.EndMonth,
			RampUpDuration:   &up,
			RampDownDuration: &down,
			Rate:             &rate,
			Phase:            domain.CloneIntPtr(d.PhaseRef),
		}
		if i < len(t.Crew) {
			di.Crew = domain.FitCounts(t.Crew[i].Counts, t.MonthCount())
			di.CrewSource = domain.CoalesceStr(string(t.Crew[i].Source), string(domain.CrewDerived))
		}
		pf.Departments = append(pf.Departments, di)
	}

	for _, ref := range t.ItemOrder {
		pf.ItemOrder = append(pf.ItemOrder, importer.ItemRefImport{Type: string(ref.Kind), Index: ref.Index})
	}

	return pf
}

// WriteProjectFile writes the timeline as indented JSON.
func WriteProjectFile(w io.Writer, t *domain.Timeline) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ProjectFile(t)); err != nil {
		return fmt.Errorf("writing project file: %w", err)
	}
	return nil
}
