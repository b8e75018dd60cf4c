package exporter

import (
	"bytes"
	"fmt"
	"math/rand"
	"strconv"
	"testing"

	"github.com/41rumble/crew-planner/internal/domain"
	"github.com/41rumble/crew-planner/internal/importer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallTimeline() *domain.Timeline {
	tl := domain.NewTimeline("Short", 2024, 10, 4)
	tl.AddPhase(domain.Phase{Name: "Production Stage", StartMonth: 1, EndMonth: 3})
	tl.AddDepartment(domain.Department{Name: "Lighting", MaxCrew: 3, StartMonth: 1, EndMonth: 3, RampUpDuration: 1, Rate: 7500, PhaseRef: domain.IntPtr(0)},
		domain.CrewRow{Counts: []int{0, 2, 3, 3}, Source: domain.CrewAuthoritative})
	return tl
}

func TestRenderTable(t *testing.T) {
	rows := RenderTable(smallTimeline())

	assert.Equal(t, [][]string{
		{"Department", "2024", "", "2025", "", "Rate"},
		{"", "Nov", "Dec", "Jan", "Feb", ""},
		{"Production Stage:", "", "X", "X", "X", ""},
		{"Lighting", "0", "2", "3", "3", "7500"},
	}, rows)
}

func TestRenderTable_FallsBackToPhaseGrouping(t *testing.T) {
	tl := smallTimeline()
	tl.Departments = append(tl.Departments, domain.Department{Name: "Edit", MaxCrew: 1, StartMonth: 0, EndMonth: 0, Rate: 8000})
	tl.Crew = append(tl.Crew, domain.CrewRow{Counts: []int{1}})
	tl.Phases = append(tl.Phases, domain.Phase{Name: "Wrap", StartMonth: 3, EndMonth: 3})
	tl.ItemOrder = nil

	rows := RenderTable(tl)

	require.Len(t, rows, 6)
	assert.Equal(t, "Production Stage:", rows[2][0])
	assert.Equal(t, "Lighting", rows[3][0])
	assert.Equal(t, "Wrap:", rows[4][0])
	assert.Equal(t, []string{"Edit", "1", "0", "0", "0", "8000"}, rows[5], "ungrouped departments come last, crew padded")
}

func TestRenderTable_LongYearRunRepeatsToken(t *testing.T) {
	tl := &domain.Timeline{Name: "Weeks"}
	for i := 1; i <= 14; i++ {
		tl.Months = append(tl.Months, domain.MonthLabel(fmt.Sprintf("W%d", i), "2024"))
	}

	rows := RenderTable(tl)

	assert.Equal(t, "2024", rows[0][1])
	assert.Equal(t, "2024", rows[0][13])
	assert.Empty(t, rows[0][2])

	back, err := importer.ParseTable(rows)
	require.NoError(t, err)
	assert.Equal(t, tl.Months, back.Months)
}

func TestRenderTable_JanColumnCarriesYear(t *testing.T) {
	tl := &domain.Timeline{Name: "Odd", Months: []string{"Nov 2024", "Dec 2024", "Jan 2024", "Feb 2024"}}

	rows := RenderTable(tl)

	assert.Equal(t, []string{"Department", "2024", "", "2024", "", "Rate"}, rows[0])

	back, err := importer.ParseTable(rows)
	require.NoError(t, err)
	assert.Equal(t, tl.Months, back.Months)
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer

	err := WriteTable(&buf, [][]string{{"Department", "2024", "Rate"}, {"Lighting, Lead", "3", "7500"}})

	require.NoError(t, err)
	assert.Equal(t, "Department,2024,Rate\n\"Lighting, Lead\",3,7500\n", buf.String())
}

func assertSameModel(t *testing.T, want, got *domain.Timeline, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, want.Months, got.Months, msgAndArgs...)
	assert.Equal(t, want.Phases, got.Phases, msgAndArgs...)
	assert.Equal(t, want.Departments, got.Departments, msgAndArgs...)
	assert.Equal(t, want.Crew, got.Crew, msgAndArgs...)
	assert.Equal(t, want.ItemOrder, got.ItemOrder, msgAndArgs...)
}

func TestRoundTrip_HandWrittenTable(t *testing.T) {
	rows := [][]string{
		{"Department", "2024", "", "", "", "", "", "Rate"},
		{"", "Jan", "Fed", "Mar", "Apr", "May", "Jun"},
		{"Pre-production Phase", "X", "X", "X", "", "", ""},
		{"Supervision:", "", "", "", "", "", ""},
		{"Art Director", "1", "1", "1", "1", "", "", "15000"},
		{"Production:", "", "", "X", "X", "X", "X"},
		{"Lighting", "0", "0", "5", "10", "10", "7"},
		{"Animation", "0", "0", "0", "", "0", "0"},
	}

	first, err := importer.ParseTable(rows)
	require.NoError(t, err)

	second, err := importer.ParseTable(RenderTable(first))
	require.NoError(t, err)

	assertSameModel(t, first, second)
}

// randomTable builds a calendar-correct table with a random mix of phase,
// department and separator rows.
func randomTable(rng *rand.Rand) [][]string {
	n := 3 + rng.Intn(28)
	startMonth := rng.Intn(12)
	year := 2020 + rng.Intn(6)

	yearRow := make([]string, n+1)
	monthRow := make([]string, n+1)
	yearRow[0] = "Department"
	for i := 0; i < n; i++ {
		m := (startMonth + i) % 12
		if i == 0 || m == 0 {
			if i > 0 {
				year++
			}
			yearRow[i+1] = strconv.Itoa(year)
		}
		monthRow[i+1] = domain.MonthAbbrevs[m]
	}

	rows := [][]string{yearRow, monthRow}
	for k := 0; k < rng.Intn(10); k++ {
		row := make([]string, n+1)
		switch rng.Intn(5) {
		case 0:
			row[0] = fmt.Sprintf("Phase %d", k)
			start := rng.Intn(n)
			end := start + rng.Intn(n-start)
			for m := start; m <= end; m++ {
				row[m+1] = "X"
			}
		case 1:
			row[0] = "Notes:"
		default:
			row[0] = fmt.Sprintf("Dept %d", k)
			for m := 0; m < n; m++ {
				if rng.Intn(2) == 0 {
					row[m+1] = strconv.Itoa(rng.Intn(15))
				}
			}
			if rng.Intn(2) == 0 {
				row = append(row, strconv.Itoa(5000+rng.Intn(5000)))
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// TestRoundTrip_Invariant_RandomTables verifies that parsing a rendered
// model reproduces the model for any table the importer accepts.
func TestRoundTrip_Invariant_RandomTables(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		first, err := importer.ParseTable(randomTable(rng))
		require.NoError(t, err, "trial %d", trial)

		rendered := RenderTable(first)
		var buf bytes.Buffer
		require.NoError(t, WriteTable(&buf, rendered))
		rows, err := importer.ReadTable(&buf)
		require.NoError(t, err)

		second, err := importer.ParseTable(rows)
		require.NoError(t, err, "trial %d", trial)

		assertSameModel(t, first, second, "trial %d", trial)
	}
}
