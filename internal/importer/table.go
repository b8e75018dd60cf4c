package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/41rumble/crew-planner/internal/domain"
	"github.com/41rumble/crew-planner/internal/ramp"
)

// DefaultFallbackYear is the starting year used when the year header row
// carries no year cells at all.
const DefaultFallbackYear = 2022

// MalformedTableError reports a table whose structure cannot be imported.
// Row is the 0-based row index, or -1 when the table as a whole is at fault.
type MalformedTableError struct {
	Row    int
	Reason string
}

func (e *MalformedTableError) Error() string {
	if e.Row < 0 {
		return "malformed table: " + e.Reason
	}
	return fmt.Sprintf("malformed table: row %d: %s", e.Row, e.Reason)
}

// Options controls ParseTable.
type Options struct {
	Name         string
	FallbackYear int
}

// Option configures ParseTable.
type Option func(*Options)

// WithName sets the name of the resulting timeline.
func WithName(name string) Option {
	return func(o *Options) { o.Name = name }
}

// WithFallbackYear sets the year assumed for the first month column when
// the year header is empty. Non-positive values are ignored.
func WithFallbackYear(year int) Option {
	return func(o *Options) {
		if year > 0 {
			o.FallbackYear = year
		}
	}
}

// ParseTable reconstructs a timeline from a row/column table. Row 0 holds
// years, row 1 month labels, and every later row is classified as a phase,
// a department or a separator. Department ramps, timeframes and maximum crew
// are inferred from the crew counts, which are kept as authoritative rows.
func ParseTable(rows [][]string, opts ...Option) (*domain.Timeline, error) {
	o := Options{FallbackYear: DefaultFallbackYear}
	for _, opt := range opts {
		opt(&o)
	}

	if len(rows) < 2 {
		return nil, &MalformedTableError{Row: -1, Reason: fmt.Sprintf("need 2 header rows, got %d", len(rows))}
	}

	months, err := parseHeader(rows[0], rows[1], o.FallbackYear)
	if err != nil {
		return nil, err
	}

	t := &domain.Timeline{Name: o.Name, Months: months}
	monthCount := len(months)
	currentPhase := -1

	for r := 2; r < len(rows); r++ {
		cells := rows[r]
		switch ClassifyRow(cells, monthCount) {
		case RowPhase:
			p, err := parsePhaseRow(r, cells, monthCount)
			if err != nil {
				return nil, err
			}
			currentPhase = t.AddPhase(p)

		case RowDepartment:
			d, counts, ok := parseDepartmentRow(cells, monthCount)
			if !ok {
				continue
			}
			if currentPhase >= 0 {
				d.PhaseRef = domain.IntPtr(currentPhase)
			}
			ramp.Reconcile(&d)
			t.AddDepartment(d, domain.CrewRow{Counts: counts, Source: domain.CrewAuthoritative})
		}
	}

	return t, nil
}

func parsePhaseRow(row int, cells []string, monthCount int) (domain.Phase, error) {
	name := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(cells[0]), ":"))

	start, end := -1, -1
	for j := 1; j < len(cells); j++ {
		if !isMarker(cells[j]) {
			continue
		}
		month := j - 1
		if month >= monthCount {
			return domain.Phase{}, &MalformedTableError{
				Row:    row,
				Reason: fmt.Sprintf("phase %q marks column %d beyond %d month columns", name, j, monthCount),
			}
		}
		if start < 0 {
			start = month
		}
		end = month
	}

	if start < 0 {
		start, end = 0, monthCount-1
	}
	return domain.Phase{Name: name, StartMonth: start, EndMonth: end}, nil
}

// parseDepartmentRow reads crew counts and the optional rate column. It
// reports false when the row has no crew at all.
func parseDepartmentRow(cells []string, monthCount int) (domain.Department, []int, bool) {
	name := strings.TrimSpace(cells[0])

	counts := make([]int, monthCount)
	for m := 0; m < monthCount && m+1 < len(cells); m++ {
		if v, ok := parseCount(cells[m+1]); ok {
			counts[m] = max(0, v)
		}
	}

	maxCrew := 0
	for _, c := range counts {
		maxCrew = max(maxCrew, c)
	}
	if maxCrew == 0 {
		return domain.Department{}, nil, false
	}

	start, end := -1, -1
	for m, c := range counts {
		if c == 0 {
			continue
		}
		if start < 0 {
			start = m
		}
		end = m
	}

	up := 0
	for m := start; m <= end; m++ {
		if counts[m] == maxCrew {
			up = m - start
			break
		}
	}
	down := 0
	for m := end; m >= start; m-- {
		if counts[m] == maxCrew {
			down = end - m
			break
		}
	}

	rate := DefaultRate(name)
	if rateCol := monthCount + 1; rateCol < len(cells) {
		if v, err := strconv.ParseFloat(strings.TrimSpace(cells[rateCol]), 64); err == nil && v >= 0 {
			rate = v
		}
	}

	return domain.Department{
		Name:             name,
		MaxCrew:          maxCrew,
		StartMonth:       start,
		EndMonth:         end,
		RampUpDuration:   up,
		RampDownDuration: down,
		Rate:             rate,
	}, counts, true
}

// parseCount reads the leading integer of a cell: optional sign then digits,
// anything after them ignored. "7.5" reads as 7 and "12 FTE" as 12.
func parseCount(cell string) (int, bool) {
	s := strings.TrimSpace(cell)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return v, true
}

func isMarker(cell string) bool {
	return strings.EqualFold(strings.TrimSpace(cell), "x")
}
