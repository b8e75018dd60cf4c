package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/41rumble/crew-planner/internal/domain"
	"github.com/41rumble/crew-planner/internal/repository"
)

// ErrAmbiguousRef is returned when an ID prefix matches more than one timeline.
var ErrAmbiguousRef = errors.New("ambiguous timeline reference")

// resolveTimeline looks ref up by name first, then by full ID, then by
// unique ID prefix.
func resolveTimeline(ctx context.Context, repo repository.TimelineRepo, ref string) (*domain.Timeline, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("timeline reference is required")
	}

	t, err := repo.GetByName(ctx, ref)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	t, err = repo.GetByID(ctx, strings.ToLower(ref))
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	ids, err := repo.FindIDsByPrefix(ctx, ref)
	if err != nil {
		return nil, err
	}
	switch len(ids) {
	case 0:
		return nil, fmt.Errorf("timeline %q: %w", ref, repository.ErrNotFound)
	case 1:
		return repo.GetByID(ctx, ids[0])
	default:
		return nil, fmt.Errorf("%w: %q matches %d timelines", ErrAmbiguousRef, ref, len(ids))
	}
}

// findDepartment resolves a department by case-insensitive name, or by its
// 1-based position when name is a number that matches no department name.
func findDepartment(t *domain.Timeline, name string) (int, error) {
	if idx, ok := t.DepartmentIndex(strings.TrimSpace(name)); ok {
		return idx, nil
	}
	if pos, err := strconv.Atoi(strings.TrimSpace(name)); err == nil && pos >= 1 && pos <= len(t.Departments) {
		return pos - 1, nil
	}
	return -1, fmt.Errorf("department %q not found in %q", name, t.Name)
}

func checkMonthRange(what string, start, end, monthCount int) error {
	if start < 0 || end >= monthCount || start > end {
		return fmt.Errorf("%s %d-%d must satisfy 0 <= start <= end <= %d", what, start, end, monthCount-1)
	}
	return nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
