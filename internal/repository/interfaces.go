package repository

import (
	"context"
	"errors"
	"time"

	"github.com/41rumble/crew-planner/internal/domain"
)

// ErrNotFound is returned when a timeline lookup matches no row.
var ErrNotFound = errors.New("not found")

// TimelineSummary is the list view of a timeline: its header plus child
// counts, without loading the crew matrix.
type TimelineSummary struct {
	ID              string
	Name            string
	FirstMonth      string
	LastMonth       string
	MonthCount      int
	PhaseCount      int
	DepartmentCount int
	UpdatedAt       time.Time
}

type TimelineRepo interface {
	Create(ctx context.Context, t *domain.Timeline) error
	GetByID(ctx context.Context, id string) (*domain.Timeline, error)
	GetByName(ctx context.Context, name string) (*domain.Timeline, error)
	FindIDsByPrefix(ctx context.Context, prefix string) ([]string, error)
	List(ctx context.Context) ([]TimelineSummary, error)
	Update(ctx context.Context, t *domain.Timeline) error
	Delete(ctx context.Context, id string) error
}
