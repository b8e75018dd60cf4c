package importer

import (
	"strings"
	"testing"

	"github.com/41rumble/crew-planner/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_MinimalProject(t *testing.T) {
	pf := validMinimalProject()

	tl := Convert(pf)

	assert.NotEmpty(t, tl.ID)
	assert.Equal(t, "Short Film", tl.Name)
	assert.Equal(t, pf.Months, tl.Months)
	assert.False(t, tl.CreatedAt.IsZero())

	require.Len(t, tl.Departments, 1)
	d := tl.Departments[0]
	assert.Equal(t, 7000.0, d.Rate, "rate defaults from the department name")
	assert.Nil(t, d.PhaseRef)

	require.Len(t, tl.Crew, 1)
	assert.Equal(t, domain.CrewDerived, tl.Crew[0].Source)
	assert.Equal(t, []int{4, 4, 4, 4}, tl.Crew[0].Counts)

	assert.Equal(t, []domain.ItemRef{{Kind: domain.ItemDepartment, Index: 0}}, tl.ItemOrder)
	assert.Empty(t, tl.Validate())
}

func TestConvert_ReconcilesOversizedRamps(t *testing.T) {
	pf := validMinimalProject()
	pf.Departments[0].RampUpDuration = ptrInt(3)
	pf.Departments[0].RampDownDuration = ptrInt(3)

	tl := Convert(pf)

	d := tl.Departments[0]
	assert.Equal(t, 1, d.RampUpDuration)
	assert.Equal(t, 1, d.RampDownDuration)
	assert.Equal(t, []int{4, 4, 4, 0}, tl.Crew[0].Counts)
}

func TestConvert_KeepsCrewRowsAndSource(t *testing.T) {
	pf := &ProjectFile{
		Name:   "Feature",
		Months: []string{"Jan 2025", "Feb 2025", "Mar 2025"},
		Phases: []PhaseImport{{Name: "Build", StartMonth: 0, EndMonth: 2}},
		Departments: []DepartmentImport{
			{Name: "Rigging", MaxCrew: 3, EndMonth: 2, Phase: ptrInt(0), Crew: []int{1, 3}},
			{Name: "Layout", MaxCrew: 2, EndMonth: 1, Rate: ptrFloat(6500), Crew: []int{2, 2, 0, 9}, CrewSource: "derived"},
		},
	}

	tl := Convert(pf)

	require.Len(t, tl.Crew, 2)
	assert.Equal(t, domain.CrewRow{Counts: []int{1, 3, 0}, Source: domain.CrewAuthoritative}, tl.Crew[0])
	assert.Equal(t, domain.CrewRow{Counts: []int{2, 2, 0}, Source: domain.CrewDerived}, tl.Crew[1])
	assert.Equal(t, 6500.0, tl.Departments[1].Rate)

	// No item order in the file: phases first with their departments, ungrouped last.
	assert.Equal(t, []domain.ItemRef{
		{Kind: domain.ItemPhase, Index: 0},
		{Kind: domain.ItemDepartment, Index: 0},
		{Kind: domain.ItemDepartment, Index: 1},
	}, tl.ItemOrder)

	*pf.Departments[0].Phase = 9
	other := Convert(pf)
	assert.NotEqual(t, tl.ID, other.ID)
	assert.Equal(t, 0, *tl.Departments[0].PhaseRef, "converted timeline does not alias the file")
}

func TestConvert_UsesExplicitItemOrder(t *testing.T) {
	pf := validMinimalProject()
	pf.Phases = []PhaseImport{{Name: "All", StartMonth: 0, EndMonth: 3}}
	pf.ItemOrder = []ItemRefImport{{Type: "department", Index: 0}, {Type: "phase", Index: 0}}

	tl := Convert(pf)

	assert.Equal(t, []domain.ItemRef{
		{Kind: domain.ItemDepartment, Index: 0},
		{Kind: domain.ItemPhase, Index: 0},
	}, tl.ItemOrder)
}

func TestDecodeProjectFile(t *testing.T) {
	input := `{
		"name": "Feature",
		"months": ["Jan 2025", "Feb 2025"],
		"departments": [{"name": "FX", "max_crew": 2, "start_month": 0, "end_month": 1, "ramp_up_duration": 1}]
	}`

	pf, err := DecodeProjectFile(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "Feature", pf.Name)
	require.Len(t, pf.Departments, 1)
	require.NotNil(t, pf.Departments[0].RampUpDuration)
	assert.Equal(t, 1, *pf.Departments[0].RampUpDuration)
	assert.Nil(t, pf.Departments[0].RampDownDuration)
}

func TestDecodeProjectFile_Rejects(t *testing.T) {
	tests := map[string]string{
		"unknown field":  `{"name": "x", "colour": "red"}`,
		"fractional int": `{"name": "x", "departments": [{"name": "FX", "max_crew": 2.5}]}`,
		"not json":       `name,months`,
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeProjectFile(strings.NewReader(input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "parsing project file")
		})
	}
}
