package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/41rumble/crew-planner/internal/domain"
)

// RenderTable writes a timeline in the row/column grammar ParseTable reads.
// Every row is as wide as the label column, the month columns and the rate
// column. Items follow ItemOrder when it covers the whole model and phase
// grouping otherwise.
func RenderTable(t *domain.Timeline) [][]string {
	n := t.MonthCount()
	width := n + 2

	rows := [][]string{yearRow(t, width), monthRow(t, width)}

	order := t.ItemOrder
	if !t.ItemOrderComplete() {
		order = t.GroupedItemOrder()
	}

	for _, ref := range order {
		row := make([]string, width)
		switch ref.Kind {
		case domain.ItemPhase:
			p := t.Phases[ref.Index]
			row[0] = p.Name + ":"
			for m := p.StartMonth; m <= p.EndMonth && m < n; m++ {
				row[m+1] = "X"
			}
		case domain.ItemDepartment:
			d := t.Departments[ref.Index]
			row[0] = d.Name
			var counts []int
			if ref.Index < len(t.Crew) {
				counts = t.Crew[ref.Index].Counts
			}
			for m, c := range domain.FitCounts(counts, n) {
				row[m+1] = strconv.Itoa(c)
			}
			row[n+1] = strconv.FormatFloat(d.Rate, 'f', -1, 64)
		}
		rows = append(rows, row)
	}
	return rows
}

// yearRow puts a year token on the first column of each year run. Runs
// longer than twelve columns, and every "Jan" column, repeat the token so
// the reader never has to guess a rollover.
func yearRow(t *domain.Timeline, width int) []string {
	row := make([]string, width)
	row[0] = "Department"
	prev, runStart := "", 0
	for i, label := range t.Months {
		abbrev, year := domain.SplitMonthLabel(label)
		if i == 0 || year != prev {
			runStart = i
		}
		if (i-runStart)%12 == 0 || abbrev == "Jan" {
			row[i+1] = year
		}
		prev = year
	}
	row[width-1] = "Rate"
	return row
}

func monthRow(t *domain.Timeline, width int) []string {
	row := make([]string, width)
	for i, label := range t.Months {
		abbrev, _ := domain.SplitMonthLabel(label)
		row[i+1] = abbrev
	}
	return row
}

// WriteTable writes rows as comma-delimited text.
func WriteTable(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}
	return nil
}
