package service

import (
	"context"
	"testing"

	"github.com/41rumble/crew-planner/internal/domain"
	"github.com/41rumble/crew-planner/internal/repository"
	"github.com/41rumble/crew-planner/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testServices struct {
	repo      *repository.SQLiteTimelineRepo
	timelines TimelineService
	imports   ImportService
	edits     EditService
}

func newTestServices(t *testing.T, observers ...UseCaseObserver) testServices {
	t.Helper()
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteTimelineRepo(database)
	uow := testutil.NewTestUoW(database)
	return testServices{
		repo:      repo,
		timelines: NewTimelineService(repo, uow, observers...),
		imports:   NewImportService(uow, 0, observers...),
		edits:     NewEditService(repo, uow, observers...),
	}
}

// seedTimeline stores a twelve month timeline with one phase and one
// department "FX" (max 4, months 2-9, two month ramps).
func seedTimeline(t *testing.T, repo *repository.SQLiteTimelineRepo, name string) *domain.Timeline {
	t.Helper()
	fx := testutil.NewTestDepartment("FX", 4, 2, 9)
	fx.PhaseRef = domain.IntPtr(0)
	tl := testutil.NewTestTimeline(name,
		testutil.WithPhase("Production", 0, 11),
		testutil.WithDepartment(fx),
	)
	require.NoError(t, repo.Create(context.Background(), tl))
	return tl
}
