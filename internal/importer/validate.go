package importer

import (
	"fmt"
	"strings"

	"github.com/41rumble/crew-planner/internal/domain"
)

// ValidateProjectFile checks a project file for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateProjectFile(pf *ProjectFile) []error {
	var errs []error

	if strings.TrimSpace(pf.Name) == "" {
		errs = append(errs, fmt.Errorf("name is required"))
	}
	if len(pf.Months) == 0 {
		errs = append(errs, fmt.Errorf("months must not be empty"))
	}
	for i, m := range pf.Months {
		if strings.TrimSpace(m) == "" {
			errs = append(errs, fmt.Errorf("months[%d] is empty", i))
		}
	}

	monthCount := len(pf.Months)
	errs = append(errs, validatePhases(pf.Phases, monthCount)...)
	errs = append(errs, validateDepartments(pf.Departments, len(pf.Phases), monthCount)...)
	errs = append(errs, validateItemOrder(pf.ItemOrder, len(pf.Phases), len(pf.Departments))...)

	return errs
}

func validatePhases(phases []PhaseImport, monthCount int) []error {
	var errs []error

	for i, p := range phases {
		prefix := fmt.Sprintf("phases[%d]", i)

		if strings.TrimSpace(p.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		errs = append(errs, validateRange(prefix, p.StartMonth, p.EndMonth, monthCount)...)
	}

	return errs
}

func validateDepartments(depts []DepartmentImport, phaseCount, monthCount int) []error {
	var errs []error
	names := make(map[string]bool)

	for i, d := range depts {
		prefix := fmt.Sprintf("departments[%d]", i)

		if strings.TrimSpace(d.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		} else if key := strings.ToLower(d.Name); names[key] {
			errs = append(errs, fmt.Errorf("%s.name: duplicate department %q", prefix, d.Name))
		} else {
			names[key] = true
		}

		if d.MaxCrew < 0 {
			errs = append(errs, fmt.Errorf("%s.max_crew must not be negative", prefix))
		}
		errs = append(errs, validateRange(prefix, d.StartMonth, d.EndMonth, monthCount)...)

		if d.Rate != nil && *d.Rate < 0 {
			errs = append(errs, fmt.Errorf("%s.rate must not be negative", prefix))
		}
		if d.Phase != nil && (*d.Phase < 0 || *d.Phase >= phaseCount) {
			errs = append(errs, fmt.Errorf("%s.phase: index %d not found in phases", prefix, *d.Phase))
		}

		for m, c := range d.Crew {
			if c < 0 {
				errs = append(errs, fmt.Errorf("%s.crew[%d] must not be negative", prefix, m))
			}
		}
		if d.CrewSource != "" {
			if !domain.ValidCrewSources[d.CrewSource] {
				errs = append(errs, fmt.Errorf("%s.crew_source: invalid value %q", prefix, d.CrewSource))
			} else if len(d.Crew) == 0 {
				errs = append(errs, fmt.Errorf("%s.crew_source set without crew", prefix))
			}
		}
	}

	return errs
}

func validateItemOrder(order []ItemRefImport, phaseCount, deptCount int) []error {
	var errs []error
	seen := make(map[ItemRefImport]bool)

	for i, ref := range order {
		prefix := fmt.Sprintf("item_order[%d]", i)

		switch ref.Type {
		case string(domain.ItemPhase):
			if ref.Index < 0 || ref.Index >= phaseCount {
				errs = append(errs, fmt.Errorf("%s: phase %d not found", prefix, ref.Index))
			}
		case string(domain.ItemDepartment):
			if ref.Index < 0 || ref.Index >= deptCount {
				errs = append(errs, fmt.Errorf("%s: department %d not found", prefix, ref.Index))
			}
		default:
			errs = append(errs, fmt.Errorf("%s.type: invalid value %q", prefix, ref.Type))
			continue
		}

		if seen[ref] {
			errs = append(errs, fmt.Errorf("%s: duplicate %s %d", prefix, ref.Type, ref.Index))
		}
		seen[ref] = true
	}

	return errs
}

func validateRange(prefix string, start, end, monthCount int) []error {
	if start < 0 || end >= monthCount || start > end {
		return []error{fmt.Errorf("%s: month range %d-%d outside 0-%d", prefix, start, end, monthCount-1)}
	}
	return nil
}
