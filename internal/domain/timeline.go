package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Phase is a named sub-range of the timeline. It groups departments for
// display and never affects ramp math.
type Phase struct {
	Name       string
	StartMonth int
	EndMonth   int
}

// Department is one staffed line on the timeline. StartMonth and EndMonth
// are inclusive month indexes; the ramps plus at least one plateau month must
// fit inside that timeframe.
type Department struct {
	Name             string
	MaxCrew          int
	StartMonth       int
	EndMonth         int
	RampUpDuration   int
	RampDownDuration int
	Rate             float64
	PhaseRef         *int // index into Timeline.Phases
}

// TimeframeDuration returns the number of months in [StartMonth, EndMonth].
func (d *Department) TimeframeDuration() int {
	return d.EndMonth - d.StartMonth + 1
}

// CrewRow holds one department's per-month crew counts and where they came from.
type CrewRow struct {
	Counts []int
	Source CrewSource
}

// ItemRef points at a phase or a department by index.
type ItemRef struct {
	Kind  ItemKind
	Index int
}

// Timeline is a whole crew plan: the month axis, phases, departments and the
// crew matrix. Crew is parallel to Departments.
type Timeline struct {
	ID          string
	Name        string
	Months      []string
	Phases      []Phase
	Departments []Department
	Crew        []CrewRow
	ItemOrder   []ItemRef
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTimeline builds an empty timeline of monthCount months starting at the
// given calendar year and month (0 = January).
func NewTimeline(name string, startYear, startMonth, monthCount int) *Timeline {
	months := make([]string, 0, monthCount)
	year, month := startYear, startMonth%12
	for i := 0; i < monthCount; i++ {
		months = append(months, MonthLabel(MonthAbbrevs[month], strconv.Itoa(year)))
		month++
		if month == 12 {
			month = 0
			year++
		}
	}
	return &Timeline{Name: name, Months: months}
}

// MonthLabel joins a month abbreviation and a year token into "<Mon> <Year>".
func MonthLabel(abbrev, year string) string {
	if year == "" {
		return abbrev
	}
	return abbrev + " " + year
}

// SplitMonthLabel is the inverse of MonthLabel. The year is the last
// space-separated token; labels without a space have no year.
func SplitMonthLabel(label string) (abbrev, year string) {
	i := strings.LastIndex(label, " ")
	if i < 0 {
		return label, ""
	}
	return label[:i], label[i+1:]
}

// MonthCount returns the length of the month axis.
func (t *Timeline) MonthCount() int {
	return len(t.Months)
}

// Years returns the distinct year tokens of the month axis in order of appearance.
func (t *Timeline) Years() []string {
	var years []string
	seen := make(map[string]bool)
	for _, m := range t.Months {
		_, y := SplitMonthLabel(m)
		if y == "" || seen[y] {
			continue
		}
		seen[y] = true
		years = append(years, y)
	}
	return years
}

// AddPhase appends a phase and records it in the item order.
func (t *Timeline) AddPhase(p Phase) int {
	t.Phases = append(t.Phases, p)
	idx := len(t.Phases) - 1
	t.ItemOrder = append(t.ItemOrder, ItemRef{Kind: ItemPhase, Index: idx})
	return idx
}

// AddDepartment appends a department with the given crew row and records it
// in the item order. The row is padded or truncated to the month count.
func (t *Timeline) AddDepartment(d Department, row CrewRow) int {
	row.Counts = FitCounts(row.Counts, t.MonthCount())
	t.Departments = append(t.Departments, d)
	t.Crew = append(t.Crew, row)
	idx := len(t.Departments) - 1
	t.ItemOrder = append(t.ItemOrder, ItemRef{Kind: ItemDepartment, Index: idx})
	return idx
}

// DepartmentIndex finds a department by case-insensitive name.
func (t *Timeline) DepartmentIndex(name string) (int, bool) {
	for i := range t.Departments {
		if strings.EqualFold(t.Departments[i].Name, name) {
			return i, true
		}
	}
	return -1, false
}

// Clone returns a deep copy so previews and tests can mutate freely.
func (t *Timeline) Clone() *Timeline {
	c := *t
	c.Months = append([]string(nil), t.Months...)
	c.Phases = append([]Phase(nil), t.Phases...)
	c.Departments = make([]Department, len(t.Departments))
	for i, d := range t.Departments {
		d.PhaseRef = CloneIntPtr(d.PhaseRef)
		c.Departments[i] = d
	}
	c.Crew = make([]CrewRow, len(t.Crew))
	for i, r := range t.Crew {
		c.Crew[i] = CrewRow{Counts: append([]int(nil), r.Counts...), Source: r.Source}
	}
	c.ItemOrder = append([]ItemRef(nil), t.ItemOrder...)
	return &c
}

// FitCounts pads counts with trailing zeros or truncates it to exactly n entries.
func FitCounts(counts []int, n int) []int {
	out := make([]int, n)
	copy(out, counts)
	return out
}

// Validate checks the timeline invariants and returns every violation found.
func (t *Timeline) Validate() []error {
	var errs []error
	n := t.MonthCount()

	if t.Name == "" {
		errs = append(errs, fmt.Errorf("timeline name is required"))
	}
	if n == 0 {
		errs = append(errs, fmt.Errorf("timeline has no months"))
	}

	for i, p := range t.Phases {
		if p.StartMonth < 0 || p.StartMonth > p.EndMonth || p.EndMonth >= n {
			errs = append(errs, fmt.Errorf("phases[%d] %q: range %d-%d outside 0-%d", i, p.Name, p.StartMonth, p.EndMonth, n-1))
		}
	}

	for i, d := range t.Departments {
		prefix := fmt.Sprintf("departments[%d] %q", i, d.Name)
		if d.MaxCrew < 0 {
			errs = append(errs, fmt.Errorf("%s: max crew must not be negative", prefix))
		}
		if d.StartMonth < 0 || d.StartMonth > d.EndMonth || d.EndMonth >= n {
			errs = append(errs, fmt.Errorf("%s: timeframe %d-%d outside 0-%d", prefix, d.StartMonth, d.EndMonth, n-1))
		}
		if d.RampUpDuration < 0 || d.RampDownDuration < 0 {
			errs = append(errs, fmt.Errorf("%s: ramp durations must not be negative", prefix))
		} else if d.RampUpDuration+d.RampDownDuration >= d.TimeframeDuration() {
			errs = append(errs, fmt.Errorf("%s: ramps %d+%d leave no plateau month", prefix, d.RampUpDuration, d.RampDownDuration))
		}
		if d.PhaseRef != nil && (*d.PhaseRef < 0 || *d.PhaseRef >= len(t.Phases)) {
			errs = append(errs, fmt.Errorf("%s: phase ref %d not found", prefix, *d.PhaseRef))
		}
	}

	if len(t.Crew) != len(t.Departments) {
		errs = append(errs, fmt.Errorf("crew matrix has %d rows for %d departments", len(t.Crew), len(t.Departments)))
	}
	for i, r := range t.Crew {
		if len(r.Counts) != n {
			errs = append(errs, fmt.Errorf("crew[%d]: %d counts for %d months", i, len(r.Counts), n))
		}
	}

	for i, ref := range t.ItemOrder {
		switch ref.Kind {
		case ItemPhase:
			if ref.Index < 0 || ref.Index >= len(t.Phases) {
				errs = append(errs, fmt.Errorf("item_order[%d]: phase %d not found", i, ref.Index))
			}
		case ItemDepartment:
			if ref.Index < 0 || ref.Index >= len(t.Departments) {
				errs = append(errs, fmt.Errorf("item_order[%d]: department %d not found", i, ref.Index))
			}
		default:
			errs = append(errs, fmt.Errorf("item_order[%d]: invalid kind %q", i, ref.Kind))
		}
	}

	return errs
}

// ItemOrderComplete reports whether ItemOrder references every phase and
// every department exactly once.
func (t *Timeline) ItemOrderComplete() bool {
	if len(t.ItemOrder) != len(t.Phases)+len(t.Departments) {
		return false
	}
	phases := make(map[int]bool, len(t.Phases))
	depts := make(map[int]bool, len(t.Departments))
	for _, ref := range t.ItemOrder {
		switch ref.Kind {
		case ItemPhase:
			if ref.Index < 0 || ref.Index >= len(t.Phases) || phases[ref.Index] {
				return false
			}
			phases[ref.Index] = true
		case ItemDepartment:
			if ref.Index < 0 || ref.Index >= len(t.Departments) || depts[ref.Index] {
				return false
			}
			depts[ref.Index] = true
		default:
			return false
		}
	}
	return true
}

// GroupedItemOrder orders items by phase membership: each phase followed by
// the departments that reference it, then every department without a valid
// phase reference.
func (t *Timeline) GroupedItemOrder() []ItemRef {
	order := make([]ItemRef, 0, len(t.Phases)+len(t.Departments))
	for p := range t.Phases {
		order = append(order, ItemRef{Kind: ItemPhase, Index: p})
		for i, d := range t.Departments {
			if d.PhaseRef != nil && *d.PhaseRef == p {
				order = append(order, ItemRef{Kind: ItemDepartment, Index: i})
			}
		}
	}
	for i, d := range t.Departments {
		if d.PhaseRef == nil || *d.PhaseRef < 0 || *d.PhaseRef >= len(t.Phases) {
			order = append(order, ItemRef{Kind: ItemDepartment, Index: i})
		}
	}
	return order
}
