package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/41rumble/crew-planner/internal/db"
	"github.com/41rumble/crew-planner/internal/domain"
	"github.com/41rumble/crew-planner/internal/exporter"
	"github.com/41rumble/crew-planner/internal/repository"
	"github.com/google/uuid"
)

type timelineService struct {
	timelines repository.TimelineRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
}

func NewTimelineService(timelines repository.TimelineRepo, uow db.UnitOfWork, observers ...UseCaseObserver) TimelineService {
	return &timelineService{
		timelines: timelines,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *timelineService) Create(ctx context.Context, req CreateTimelineRequest) (t *domain.Timeline, err error) {
	run := startUseCase(s.observer, "create-timeline", map[string]any{"timeline": req.Name, "sample": req.Sample})
	defer func() { run.end(ctx, err) }()

	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("timeline name is required")
	}
	if req.MonthCount <= 0 {
		return nil, fmt.Errorf("month count must be positive, got %d", req.MonthCount)
	}
	if req.StartMonth < 0 || req.StartMonth > 11 {
		return nil, fmt.Errorf("start month must be 0-11, got %d", req.StartMonth)
	}

	t = domain.NewTimeline(strings.TrimSpace(req.Name), req.StartYear, req.StartMonth, req.MonthCount)
	t.ID = uuid.New().String()
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if req.Sample {
		seedSample(t)
	}
	run.set("months", t.MonthCount())
	run.set("departments", len(t.Departments))

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return createUnique(ctx, repository.NewSQLiteTimelineRepo(tx), t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *timelineService) Get(ctx context.Context, ref string) (*domain.Timeline, error) {
	return resolveTimeline(ctx, s.timelines, ref)
}

func (s *timelineService) List(ctx context.Context) ([]repository.TimelineSummary, error) {
	return s.timelines.List(ctx)
}

func (s *timelineService) Delete(ctx context.Context, ref string) (err error) {
	run := startUseCase(s.observer, "delete-timeline", map[string]any{"ref": ref})
	defer func() { run.end(ctx, err) }()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteTimelineRepo(tx)
		t, err := resolveTimeline(ctx, repo, ref)
		if err != nil {
			return err
		}
		run.set("timeline", t.Name)
		return repo.Delete(ctx, t.ID)
	})
}

func (s *timelineService) Export(ctx context.Context, ref string, format ExportFormat, w io.Writer) (err error) {
	run := startUseCase(s.observer, "export-timeline", map[string]any{"ref": ref, "format": string(format)})
	defer func() { run.end(ctx, err) }()

	t, err := resolveTimeline(ctx, s.timelines, ref)
	if err != nil {
		return err
	}
	run.set("departments", len(t.Departments))

	switch format {
	case FormatCSV, "":
		return exporter.WriteTable(w, exporter.RenderTable(t))
	case FormatJSON:
		return exporter.WriteProjectFile(w, t)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// createUnique inserts t after checking that no other timeline has its name.
func createUnique(ctx context.Context, repo *repository.SQLiteTimelineRepo, t *domain.Timeline) error {
	_, err := repo.GetByName(ctx, t.Name)
	if err == nil {
		return fmt.Errorf("timeline %q already exists", t.Name)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if err := repo.Create(ctx, t); err != nil {
		return fmt.Errorf("creating timeline: %w", err)
	}
	return nil
}
