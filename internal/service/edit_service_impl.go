package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/41rumble/crew-planner/internal/db"
	"github.com/41rumble/crew-planner/internal/domain"
	"github.com/41rumble/crew-planner/internal/drag"
	"github.com/41rumble/crew-planner/internal/importer"
	"github.com/41rumble/crew-planner/internal/ramp"
	"github.com/41rumble/crew-planner/internal/repository"
)

type editService struct {
	timelines repository.TimelineRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
}

func NewEditService(timelines repository.TimelineRepo, uow db.UnitOfWork, observers ...UseCaseObserver) EditService {
	return &editService{
		timelines: timelines,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// mutate loads the timeline inside a transaction, applies fn and writes the
// result back. Nothing is saved when fn fails.
func (s *editService) mutate(ctx context.Context, ref string, fn func(t *domain.Timeline) error) (*domain.Timeline, error) {
	var out *domain.Timeline
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteTimelineRepo(tx)
		t, err := resolveTimeline(ctx, repo, ref)
		if err != nil {
			return err
		}
		if err := fn(t); err != nil {
			return err
		}
		t.UpdatedAt = time.Now().UTC()
		if err := repo.Update(ctx, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *editService) AddPhase(ctx context.Context, ref string, p domain.Phase) (t *domain.Timeline, err error) {
	run := startUseCase(s.observer, "add-phase", map[string]any{"ref": ref, "phase": p.Name})
	defer func() { run.end(ctx, err) }()

	return s.mutate(ctx, ref, func(t *domain.Timeline) error {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			return fmt.Errorf("phase name is required")
		}
		if err := checkMonthRange("phase range", p.StartMonth, p.EndMonth, t.MonthCount()); err != nil {
			return err
		}
		t.AddPhase(p)
		return nil
	})
}

func (s *editService) AddDepartment(ctx context.Context, ref string, req AddDepartmentRequest) (result *EditResult, err error) {
	run := startUseCase(s.observer, "add-department", map[string]any{"ref": ref, "department": req.Name})
	defer func() { run.end(ctx, err) }()

	result = &EditResult{}
	result.Timeline, err = s.mutate(ctx, ref, func(t *domain.Timeline) error {
		name := strings.TrimSpace(req.Name)
		if name == "" {
			return fmt.Errorf("department name is required")
		}
		if _, exists := t.DepartmentIndex(name); exists {
			return fmt.Errorf("department %q already exists in %q", name, t.Name)
		}
		if req.MaxCrew < 0 {
			return fmt.Errorf("max crew must not be negative")
		}
		if err := checkMonthRange("timeframe", req.StartMonth, req.EndMonth, t.MonthCount()); err != nil {
			return err
		}
		if req.Rate != nil && *req.Rate < 0 {
			return fmt.Errorf("rate must not be negative")
		}
		if req.Phase != nil && (*req.Phase < 0 || *req.Phase >= len(t.Phases)) {
			return fmt.Errorf("phase %d not found in %q", *req.Phase, t.Name)
		}

		d := domain.Department{
			Name:             name,
			MaxCrew:          req.MaxCrew,
			StartMonth:       req.StartMonth,
			EndMonth:         req.EndMonth,
			RampUpDuration:   req.RampUp,
			RampDownDuration: req.RampDown,
			Rate:             domain.Float64FromPtrWithDefault(importer.DefaultRate(name), req.Rate),
			PhaseRef:         domain.CloneIntPtr(req.Phase),
		}
		result.Department = t.AddDepartment(d, domain.CrewRow{Source: domain.CrewDerived})
		result.RampsAdjusted = ramp.Apply(t, result.Department)
		return nil
	})
	if err != nil {
		return nil, err
	}
	run.set("ramps_adjusted", result.RampsAdjusted)
	return result, nil
}

// SetTimeframe moves a department's timeframe. Out-of-range or inverted
// timeframes are rejected before the ramps are reconciled.
func (s *editService) SetTimeframe(ctx context.Context, ref, dept string, start, end int) (result *EditResult, err error) {
	run := startUseCase(s.observer, "set-timeframe", map[string]any{"ref": ref, "department": dept})
	defer func() { run.end(ctx, err) }()

	result = &EditResult{}
	result.Timeline, err = s.mutate(ctx, ref, func(t *domain.Timeline) error {
		idx, err := findDepartment(t, dept)
		if err != nil {
			return err
		}
		if err := checkMonthRange("timeframe", start, end, t.MonthCount()); err != nil {
			return err
		}
		t.Departments[idx].StartMonth = start
		t.Departments[idx].EndMonth = end
		result.Department = idx
		result.RampsAdjusted = ramp.Apply(t, idx)
		return nil
	})
	if err != nil {
		return nil, err
	}
	run.set("ramps_adjusted", result.RampsAdjusted)
	return result, nil
}

// SetRamps replaces a department's ramp durations. Negative values are
// clamped and oversized ones shrunk by the reconciler.
func (s *editService) SetRamps(ctx context.Context, ref, dept string, up, down int) (result *EditResult, err error) {
	run := startUseCase(s.observer, "set-ramps", map[string]any{"ref": ref, "department": dept, "up": up, "down": down})
	defer func() { run.end(ctx, err) }()

	result = &EditResult{}
	result.Timeline, err = s.mutate(ctx, ref, func(t *domain.Timeline) error {
		idx, err := findDepartment(t, dept)
		if err != nil {
			return err
		}
		t.Departments[idx].RampUpDuration = up
		t.Departments[idx].RampDownDuration = down
		result.Department = idx
		result.RampsAdjusted = ramp.Apply(t, idx)
		return nil
	})
	if err != nil {
		return nil, err
	}
	run.set("ramps_adjusted", result.RampsAdjusted)
	return result, nil
}

// Drag runs the gesture outside any transaction since src may block on
// user input; only a committed gesture is written back.
func (s *editService) Drag(ctx context.Context, ref, dept string, b domain.Boundary, src drag.EventSource) (result *EditResult, outcome drag.Outcome, err error) {
	run := startUseCase(s.observer, "drag", map[string]any{"ref": ref, "department": dept, "boundary": string(b)})
	defer func() {
		run.set("outcome", outcome.String())
		run.end(ctx, err)
	}()

	t, err := resolveTimeline(ctx, s.timelines, ref)
	if err != nil {
		return nil, drag.OutcomeNone, err
	}
	idx, err := findDepartment(t, dept)
	if err != nil {
		return nil, drag.OutcomeNone, err
	}

	outcome, err = drag.RunGesture(ctx, t, drag.Grab{Department: idx, Boundary: b}, src)
	if err != nil {
		return nil, outcome, err
	}
	result = &EditResult{Timeline: t, Department: idx}
	if outcome != drag.OutcomeCommitted {
		return result, outcome, nil
	}
	if err := s.Save(ctx, t); err != nil {
		return nil, outcome, err
	}
	return result, outcome, nil
}

func (s *editService) Save(ctx context.Context, t *domain.Timeline) error {
	if errs := t.Validate(); len(errs) > 0 {
		return fmt.Errorf("timeline %q is invalid: %w", t.Name, errs[0])
	}
	t.UpdatedAt = time.Now().UTC()
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteTimelineRepo(tx).Update(ctx, t)
	})
}
