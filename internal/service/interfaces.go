package service

import (
	"context"
	"io"

	"github.com/41rumble/crew-planner/internal/domain"
	"github.com/41rumble/crew-planner/internal/drag"
	"github.com/41rumble/crew-planner/internal/importer"
	"github.com/41rumble/crew-planner/internal/repository"
)

// ExportFormat selects the file format written by TimelineService.Export.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

// CreateTimelineRequest describes an empty (or sample) timeline.
type CreateTimelineRequest struct {
	Name       string
	StartYear  int
	StartMonth int // 0 = January
	MonthCount int
	Sample     bool
}

type TimelineService interface {
	Create(ctx context.Context, req CreateTimelineRequest) (*domain.Timeline, error)
	// Get resolves ref as a case-insensitive name, a full ID or a unique ID prefix.
	Get(ctx context.Context, ref string) (*domain.Timeline, error)
	List(ctx context.Context) ([]repository.TimelineSummary, error)
	Delete(ctx context.Context, ref string) error
	Export(ctx context.Context, ref string, format ExportFormat, w io.Writer) error
}

// ImportResult holds the outcome of a timeline import.
type ImportResult struct {
	Timeline          *domain.Timeline
	PhaseCount        int
	DepartmentCount   int
	AuthoritativeRows int
}

type ImportService interface {
	// ImportFile picks the format from the extension: .json is a project
	// file, anything else is a table.
	ImportFile(ctx context.Context, path, name string) (*ImportResult, error)
	ImportTable(ctx context.Context, r io.Reader, name string) (*ImportResult, error)
	ImportProject(ctx context.Context, pf *importer.ProjectFile) (*ImportResult, error)
}

// AddDepartmentRequest describes a department added by hand. A nil Rate
// takes the name-based default.
type AddDepartmentRequest struct {
	Name       string
	MaxCrew    int
	StartMonth int
	EndMonth   int
	RampUp     int
	RampDown   int
	Rate       *float64
	Phase      *int
}

// EditResult reports an edit to one department.
type EditResult struct {
	Timeline      *domain.Timeline
	Department    int
	RampsAdjusted bool
}

type EditService interface {
	AddPhase(ctx context.Context, ref string, p domain.Phase) (*domain.Timeline, error)
	AddDepartment(ctx context.Context, ref string, req AddDepartmentRequest) (*EditResult, error)
	SetTimeframe(ctx context.Context, ref, dept string, start, end int) (*EditResult, error)
	SetRamps(ctx context.Context, ref, dept string, up, down int) (*EditResult, error)
	// Drag runs one gesture on a department handle and saves the timeline
	// when it commits.
	Drag(ctx context.Context, ref, dept string, b domain.Boundary, src drag.EventSource) (*EditResult, drag.Outcome, error)
	// Save persists a timeline edited in memory, e.g. by the editor.
	Save(ctx context.Context, t *domain.Timeline) error
}
