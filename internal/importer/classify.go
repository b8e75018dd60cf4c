package importer

import "strings"

// RowKind is the classification of a body row of an imported table.
type RowKind int

const (
	// RowSeparator rows carry no phase or crew information and are skipped.
	RowSeparator RowKind = iota
	RowPhase
	RowDepartment
)

func (k RowKind) String() string {
	switch k {
	case RowPhase:
		return "phase"
	case RowDepartment:
		return "department"
	default:
		return "separator"
	}
}

// ClassifyRow decides what a body row describes. A row is a phase when its
// label mentions "Phase" or "Stage", or ends with ":" and marks at least one
// month with X. Otherwise it is a department when any of its month cells
// holds a number. Everything else, including "Supervision:" with no cells
// filled in, is a separator.
func ClassifyRow(cells []string, monthCount int) RowKind {
	if len(cells) == 0 {
		return RowSeparator
	}
	name := strings.TrimSpace(cells[0])
	if name == "" {
		return RowSeparator
	}

	if strings.Contains(name, "Phase") || strings.Contains(name, "Stage") {
		return RowPhase
	}
	if strings.HasSuffix(name, ":") && hasMarker(cells[1:]) {
		return RowPhase
	}

	for m := 0; m < monthCount && m+1 < len(cells); m++ {
		if _, ok := parseCount(cells[m+1]); ok {
			return RowDepartment
		}
	}
	return RowSeparator
}

func hasMarker(cells []string) bool {
	for _, c := range cells {
		if isMarker(c) {
			return true
		}
	}
	return false
}
