package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptrInt(i int) *int           { return &i }
func ptrFloat(f float64) *float64 { return &f }

func validMinimalProject() *ProjectFile {
	return &ProjectFile{
		Name:   "Short Film",
		Months: []string{"Jan 2025", "Feb 2025", "Mar 2025", "Apr 2025"},
		Departments: []DepartmentImport{
			{Name: "Animation", MaxCrew: 4, StartMonth: 0, EndMonth: 3},
		},
	}
}

func TestValidateProjectFile_ValidMinimal(t *testing.T) {
	errs := ValidateProjectFile(validMinimalProject())
	assert.Empty(t, errs)
}

func TestValidateProjectFile_ValidFull(t *testing.T) {
	pf := &ProjectFile{
		Name:   "Feature",
		Months: []string{"Nov 2024", "Dec 2024", "Jan 2025", "Feb 2025", "Mar 2025"},
		Phases: []PhaseImport{
			{Name: "Concept", StartMonth: 0, EndMonth: 1},
			{Name: "Production", StartMonth: 1, EndMonth: 4},
		},
		Departments: []DepartmentImport{
			{Name: "Art", MaxCrew: 2, StartMonth: 0, EndMonth: 1, Phase: ptrInt(0), Crew: []int{2, 2, 0, 0, 0}},
			{Name: "Lighting", MaxCrew: 6, StartMonth: 1, EndMonth: 4, RampUpDuration: ptrInt(1),
				RampDownDuration: ptrInt(1), Rate: ptrFloat(7600), Phase: ptrInt(1), CrewSource: "derived", Crew: []int{0, 3, 6, 6, 3}},
		},
		ItemOrder: []ItemRefImport{
			{Type: "phase", Index: 0}, {Type: "department", Index: 0},
			{Type: "phase", Index: 1}, {Type: "department", Index: 1},
		},
	}

	assert.Empty(t, ValidateProjectFile(pf))
}

func TestValidateProjectFile_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ProjectFile)
		want   string
	}{
		{"missing name", func(pf *ProjectFile) { pf.Name = " " }, "name is required"},
		{"no months", func(pf *ProjectFile) { pf.Months = nil; pf.Departments = nil }, "months must not be empty"},
		{"blank month", func(pf *ProjectFile) { pf.Months[2] = "" }, "months[2] is empty"},
		{"phase out of range", func(pf *ProjectFile) {
			pf.Phases = []PhaseImport{{Name: "Late", StartMonth: 2, EndMonth: 9}}
		}, "phases[0]: month range 2-9 outside 0-3"},
		{"phase without name", func(pf *ProjectFile) {
			pf.Phases = []PhaseImport{{StartMonth: 0, EndMonth: 1}}
		}, "phases[0].name is required"},
		{"inverted timeframe", func(pf *ProjectFile) {
			pf.Departments[0].StartMonth, pf.Departments[0].EndMonth = 3, 1
		}, "departments[0]: month range 3-1"},
		{"negative max crew", func(pf *ProjectFile) { pf.Departments[0].MaxCrew = -1 }, "max_crew must not be negative"},
		{"duplicate department", func(pf *ProjectFile) {
			pf.Departments = append(pf.Departments, DepartmentImport{Name: "animation", MaxCrew: 1, EndMonth: 1})
		}, `duplicate department "animation"`},
		{"unknown phase", func(pf *ProjectFile) { pf.Departments[0].Phase = ptrInt(0) }, "phase: index 0 not found"},
		{"negative rate", func(pf *ProjectFile) { pf.Departments[0].Rate = ptrFloat(-5) }, "rate must not be negative"},
		{"negative crew", func(pf *ProjectFile) { pf.Departments[0].Crew = []int{1, -2, 1, 1} }, "crew[1] must not be negative"},
		{"bad crew source", func(pf *ProjectFile) {
			pf.Departments[0].Crew = []int{1, 1, 1, 1}
			pf.Departments[0].CrewSource = "guessed"
		}, `crew_source: invalid value "guessed"`},
		{"crew source without crew", func(pf *ProjectFile) { pf.Departments[0].CrewSource = "derived" }, "crew_source set without crew"},
		{"item order bad type", func(pf *ProjectFile) {
			pf.ItemOrder = []ItemRefImport{{Type: "group", Index: 0}}
		}, `item_order[0].type: invalid value "group"`},
		{"item order missing department", func(pf *ProjectFile) {
			pf.ItemOrder = []ItemRefImport{{Type: "department", Index: 4}}
		}, "item_order[0]: department 4 not found"},
		{"item order duplicate", func(pf *ProjectFile) {
			pf.ItemOrder = []ItemRefImport{{Type: "department", Index: 0}, {Type: "department", Index: 0}}
		}, "item_order[1]: duplicate department 0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pf := validMinimalProject()
			tc.mutate(pf)

			errs := ValidateProjectFile(pf)

			found := false
			for _, err := range errs {
				if strings.Contains(err.Error(), tc.want) {
					found = true
				}
			}
			assert.True(t, found, "expected error containing %q, got %v", tc.want, errs)
		})
	}
}

func TestValidateProjectFile_CollectsAllErrors(t *testing.T) {
	pf := &ProjectFile{
		Departments: []DepartmentImport{{MaxCrew: -1}},
	}

	errs := ValidateProjectFile(pf)

	// name, months, department name, max_crew, range
	assert.Len(t, errs, 5)
}
