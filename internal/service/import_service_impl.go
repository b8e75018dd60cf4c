package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/41rumble/crew-planner/internal/db"
	"github.com/41rumble/crew-planner/internal/domain"
	"github.com/41rumble/crew-planner/internal/importer"
	"github.com/41rumble/crew-planner/internal/repository"
	"github.com/google/uuid"
)

type importService struct {
	uow          db.UnitOfWork
	fallbackYear int
	observer     UseCaseObserver
}

// NewImportService creates an ImportService. fallbackYear is used for
// tables whose year header is empty; 0 keeps the importer default.
func NewImportService(uow db.UnitOfWork, fallbackYear int, observers ...UseCaseObserver) ImportService {
	return &importService{
		uow:          uow,
		fallbackYear: fallbackYear,
		observer:     useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportFile(ctx context.Context, path, name string) (*ImportResult, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		pf, err := importer.LoadProjectFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading import file: %w", err)
		}
		if name != "" {
			pf.Name = name
		}
		return s.ImportProject(ctx, pf)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	defer f.Close()

	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s.ImportTable(ctx, f, name)
}

func (s *importService) ImportTable(ctx context.Context, r io.Reader, name string) (result *ImportResult, err error) {
	run := startUseCase(s.observer, "import-table", map[string]any{"timeline": name})
	defer func() { run.end(ctx, err) }()

	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("timeline name is required")
	}

	rows, err := importer.ReadTable(r)
	if err != nil {
		return nil, err
	}
	run.set("rows", len(rows))

	t, err := importer.ParseTable(rows, importer.WithName(strings.TrimSpace(name)), importer.WithFallbackYear(s.fallbackYear))
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	t.ID = uuid.New().String()
	t.CreatedAt = now
	t.UpdatedAt = now

	result, err = s.persist(ctx, t)
	if err != nil {
		return nil, err
	}
	run.set("departments", result.DepartmentCount)
	run.set("phases", result.PhaseCount)
	return result, nil
}

func (s *importService) ImportProject(ctx context.Context, pf *importer.ProjectFile) (result *ImportResult, err error) {
	run := startUseCase(s.observer, "import-project", map[string]any{"timeline": pf.Name})
	defer func() { run.end(ctx, err) }()

	if errs := importer.ValidateProjectFile(pf); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	result, err = s.persist(ctx, importer.Convert(pf))
	if err != nil {
		return nil, err
	}
	run.set("departments", result.DepartmentCount)
	run.set("phases", result.PhaseCount)
	return result, nil
}

func (s *importService) persist(ctx context.Context, t *domain.Timeline) (*ImportResult, error) {
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return createUnique(ctx, repository.NewSQLiteTimelineRepo(tx), t)
	})
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		Timeline:        t,
		PhaseCount:      len(t.Phases),
		DepartmentCount: len(t.Departments),
	}
	for _, row := range t.Crew {
		if row.Source == domain.CrewAuthoritative {
			result.AuthoritativeRows++
		}
	}
	return result, nil
}
