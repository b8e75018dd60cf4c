package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeline_MonthLabels(t *testing.T) {
	tl := NewTimeline("Feature", 2024, 10, 4)

	assert.Equal(t, []string{"Nov 2024", "Dec 2024", "Jan 2025", "Feb 2025"}, tl.Months)
	assert.Equal(t, 4, tl.MonthCount())
	assert.Equal(t, []string{"2024", "2025"}, tl.Years())
}

func TestSplitMonthLabel(t *testing.T) {
	abbrev, year := SplitMonthLabel("Mar 2023")
	assert.Equal(t, "Mar", abbrev)
	assert.Equal(t, "2023", year)

	abbrev, year = SplitMonthLabel("Week1")
	assert.Equal(t, "Week1", abbrev)
	assert.Empty(t, year)
}

func TestAddDepartment_FitsCrewRowAndRecordsOrder(t *testing.T) {
	tl := NewTimeline("T", 2024, 0, 3)
	tl.AddPhase(Phase{Name: "Build", StartMonth: 0, EndMonth: 2})
	idx := tl.AddDepartment(Department{Name: "Rigging", MaxCrew: 2, EndMonth: 2},
		CrewRow{Counts: []int{1, 2, 2, 9, 9}, Source: CrewAuthoritative})

	require.Equal(t, 0, idx)
	assert.Equal(t, []int{1, 2, 2}, tl.Crew[0].Counts)
	assert.Equal(t, []ItemRef{{ItemPhase, 0}, {ItemDepartment, 0}}, tl.ItemOrder)
}

func TestDepartmentIndex_CaseInsensitive(t *testing.T) {
	tl := NewTimeline("T", 2024, 0, 3)
	tl.AddDepartment(Department{Name: "Lighting"}, CrewRow{})

	idx, ok := tl.DepartmentIndex("lighting")
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	_, ok = tl.DepartmentIndex("Comp")
	assert.False(t, ok)
}

func TestClone_IsDeep(t *testing.T) {
	tl := NewTimeline("T", 2024, 0, 3)
	tl.AddPhase(Phase{Name: "Build", EndMonth: 2})
	tl.AddDepartment(Department{Name: "Anim", MaxCrew: 1, EndMonth: 2, PhaseRef: IntPtr(0)},
		CrewRow{Counts: []int{1, 1, 1}})

	c := tl.Clone()
	c.Crew[0].Counts[0] = 7
	*c.Departments[0].PhaseRef = 5
	c.Months[0] = "changed"

	assert.Equal(t, 1, tl.Crew[0].Counts[0])
	assert.Equal(t, 0, *tl.Departments[0].PhaseRef)
	assert.Equal(t, "Jan 2024", tl.Months[0])
}

func TestValidate_Valid(t *testing.T) {
	tl := NewTimeline("T", 2024, 0, 6)
	tl.AddPhase(Phase{Name: "Build", StartMonth: 0, EndMonth: 5})
	tl.AddDepartment(Department{Name: "Anim", MaxCrew: 4, StartMonth: 0, EndMonth: 5,
		RampUpDuration: 2, RampDownDuration: 1, PhaseRef: IntPtr(0)}, CrewRow{Source: CrewDerived})

	assert.Empty(t, tl.Validate())
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(tl *Timeline)
		wantMsg string
	}{
		{"missing name", func(tl *Timeline) { tl.Name = "" }, "name is required"},
		{"phase out of range", func(tl *Timeline) { tl.Phases[0].EndMonth = 9 }, "outside"},
		{"dept inverted", func(tl *Timeline) { tl.Departments[0].StartMonth = 4; tl.Departments[0].EndMonth = 2 }, "timeframe"},
		{"no plateau", func(tl *Timeline) { tl.Departments[0].RampUpDuration = 6 }, "no plateau"},
		{"negative ramp", func(tl *Timeline) { tl.Departments[0].RampDownDuration = -1 }, "must not be negative"},
		{"bad phase ref", func(tl *Timeline) { tl.Departments[0].PhaseRef = IntPtr(3) }, "phase ref"},
		{"short crew row", func(tl *Timeline) { tl.Crew[0].Counts = []int{1} }, "counts for"},
		{"bad item", func(tl *Timeline) { tl.ItemOrder = append(tl.ItemOrder, ItemRef{Kind: ItemDepartment, Index: 4}) }, "not found"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tl := NewTimeline("T", 2024, 0, 6)
			tl.AddPhase(Phase{Name: "Build", StartMonth: 0, EndMonth: 5})
			tl.AddDepartment(Department{Name: "Anim", MaxCrew: 4, EndMonth: 5, RampUpDuration: 1, RampDownDuration: 1},
				CrewRow{Source: CrewDerived})
			tc.mutate(tl)

			errs := tl.Validate()
			require.NotEmpty(t, errs)
			found := false
			for _, e := range errs {
				if strings.Contains(e.Error(), tc.wantMsg) {
					found = true
				}
			}
			assert.True(t, found, "expected an error containing %q, got %v", tc.wantMsg, errs)
		})
	}
}

func TestItemOrderComplete(t *testing.T) {
	tl := NewTimeline("T", 2024, 0, 4)
	tl.AddPhase(Phase{Name: "Prep", EndMonth: 1})
	tl.AddDepartment(Department{Name: "Art", MaxCrew: 1, EndMonth: 1}, CrewRow{})
	assert.True(t, tl.ItemOrderComplete())

	tl.Departments = append(tl.Departments, Department{Name: "Edit", MaxCrew: 1, EndMonth: 1})
	tl.Crew = append(tl.Crew, CrewRow{Counts: make([]int, 4)})
	assert.False(t, tl.ItemOrderComplete(), "missing department")

	tl.ItemOrder = []ItemRef{{ItemPhase, 0}, {ItemDepartment, 0}, {ItemDepartment, 0}}
	assert.False(t, tl.ItemOrderComplete(), "duplicate reference")
}

func TestGroupedItemOrder_UngroupedAfterPhases(t *testing.T) {
	tl := &Timeline{
		Phases: []Phase{{Name: "A"}, {Name: "B"}},
		Departments: []Department{
			{Name: "loose"},
			{Name: "in B", PhaseRef: IntPtr(1)},
			{Name: "in A", PhaseRef: IntPtr(0)},
			{Name: "dangling", PhaseRef: IntPtr(7)},
		},
	}

	assert.Equal(t, []ItemRef{
		{ItemPhase, 0}, {ItemDepartment, 2},
		{ItemPhase, 1}, {ItemDepartment, 1},
		{ItemDepartment, 0}, {ItemDepartment, 3},
	}, tl.GroupedItemOrder())
}
