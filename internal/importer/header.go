package importer

import (
	"strconv"
	"strings"

	"github.com/41rumble/crew-planner/internal/domain"
)

// monthAliases maps lower-cased header spellings to canonical abbreviations,
// including the "Fed" typo seen in hand-maintained sheets.
var monthAliases = map[string]string{
	"jan": "Jan", "january": "Jan",
	"feb": "Feb", "fed": "Feb", "february": "Feb",
	"mar": "Mar", "march": "Mar",
	"apr": "Apr", "april": "Apr",
	"may": "May",
	"jun": "Jun", "june": "Jun",
	"jul": "Jul", "july": "Jul",
	"aug": "Aug", "august": "Aug",
	"sep": "Sep", "sept": "Sep", "september": "Sep",
	"oct": "Oct", "october": "Oct",
	"nov": "Nov", "november": "Nov",
	"dec": "Dec", "december": "Dec",
}

// CanonicalMonth returns the canonical abbreviation for a month header cell
// and whether it was recognised. Unrecognised labels come back trimmed.
func CanonicalMonth(label string) (string, bool) {
	s := strings.TrimSpace(label)
	if abbrev, ok := monthAliases[strings.ToLower(s)]; ok {
		return abbrev, true
	}
	return s, false
}

// parseHeader turns the year and month header rows into month labels. Month
// columns are the contiguous non-empty cells of the month row starting at
// column 1.
func parseHeader(yearRow, monthRow []string, fallbackYear int) ([]string, error) {
	var labels []string
	for c := 1; c < len(monthRow); c++ {
		cell := strings.TrimSpace(monthRow[c])
		if cell == "" {
			break
		}
		abbrev, _ := CanonicalMonth(cell)
		labels = append(labels, abbrev)
	}
	if len(labels) == 0 {
		return nil, &MalformedTableError{Row: 1, Reason: "month header has no month columns"}
	}

	years := yearsFromHeader(yearRow, labels)
	if years == nil {
		years = yearsFromRollover(labels, fallbackYear)
	}

	months := make([]string, len(labels))
	for i, abbrev := range labels {
		months[i] = domain.MonthLabel(abbrev, strconv.Itoa(years[i]))
	}
	return months, nil
}

// yearsFromHeader assigns a year to each month column from explicit year
// cells. A year cell starts a run covering the following blank cells. Inside
// a run of calendar months the year advances on each "Jan" after the run's
// first column; a run without calendar months advances every twelve columns.
// Columns before the first year cell take the first year. It returns nil
// when the row holds no year cell within the month columns.
func yearsFromHeader(yearRow []string, labels []string) []int {
	monthCount := len(labels)
	cells := make([]int, monthCount)
	first := -1
	for c := 0; c < monthCount; c++ {
		col := c + 1
		if col >= len(yearRow) {
			break
		}
		if y, err := strconv.Atoi(strings.TrimSpace(yearRow[col])); err == nil && y > 0 {
			cells[c] = y
			if first < 0 {
				first = c
			}
		}
	}
	if first < 0 {
		return nil
	}

	years := make([]int, monthCount)
	for c := 0; c < first; c++ {
		years[c] = cells[first]
	}
	for start := first; start < monthCount; {
		end := start + 1
		for end < monthCount && cells[end] == 0 {
			end++
		}
		run := labels[start:end]
		if hasCalendarMonth(run) {
			copy(years[start:end], yearsFromRollover(run, cells[start]))
		} else {
			for c := start; c < end; c++ {
				years[c] = cells[start] + (c-start)/12
			}
		}
		start = end
	}
	return years
}

func hasCalendarMonth(labels []string) bool {
	for _, l := range labels {
		if abbrev, ok := CanonicalMonth(l); ok && abbrev == l {
			return true
		}
	}
	return false
}

// yearsFromRollover is the fallback when no year cells exist: start at
// fallbackYear and advance whenever "Jan" appears after the first month of
// the current year.
func yearsFromRollover(labels []string, fallbackYear int) []int {
	years := make([]int, len(labels))
	year, inYear := fallbackYear, 0
	for i, abbrev := range labels {
		if abbrev == "Jan" && inYear > 0 {
			year++
			inYear = 0
		}
		years[i] = year
		inYear++
	}
	return years
}
