package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/41rumble/crew-planner/internal/db"
	"github.com/41rumble/crew-planner/internal/domain"
	"github.com/41rumble/crew-planner/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTimeline(name string) *domain.Timeline {
	return testutil.NewTestTimeline(name,
		testutil.WithPhase("Concept", 0, 3),
		testutil.WithDepartment(func() domain.Department {
			d := testutil.NewTestDepartment("Art", 4, 0, 5)
			d.PhaseRef = domain.IntPtr(0)
			return d
		}()),
		testutil.WithAuthoritativeDepartment(
			domain.Department{Name: "Lighting", MaxCrew: 3, StartMonth: 2, EndMonth: 4, RampUpDuration: 1, Rate: 7500},
			0, 0, 1, 3, 3,
		),
	)
}

func TestTimelineRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTimelineRepo(db)
	ctx := context.Background()

	tl := sampleTimeline("Feature")
	require.NoError(t, repo.Create(ctx, tl))

	fetched, err := repo.GetByID(ctx, tl.ID)
	require.NoError(t, err)

	assert.Equal(t, tl.Name, fetched.Name)
	assert.Equal(t, tl.Months, fetched.Months)
	assert.Equal(t, tl.Phases, fetched.Phases)
	assert.Equal(t, tl.Departments, fetched.Departments)
	assert.Equal(t, tl.Crew, fetched.Crew)
	assert.Equal(t, tl.ItemOrder, fetched.ItemOrder)
	assert.True(t, tl.CreatedAt.Equal(fetched.CreatedAt))

	require.NotNil(t, fetched.Departments[0].PhaseRef)
	assert.Nil(t, fetched.Departments[1].PhaseRef)
	assert.Equal(t, domain.CrewAuthoritative, fetched.Crew[1].Source)
}

func TestTimelineRepo_GetByName_CaseInsensitive(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTimelineRepo(db)
	ctx := context.Background()

	tl := sampleTimeline("Short Film")
	require.NoError(t, repo.Create(ctx, tl))

	fetched, err := repo.GetByName(ctx, "short FILM")
	require.NoError(t, err)
	assert.Equal(t, tl.ID, fetched.ID)
}

func TestTimelineRepo_DuplicateNameRejected(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTimelineRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestTimeline("Series")))
	err := repo.Create(ctx, testutil.NewTestTimeline("SERIES"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inserting timeline")
}

func TestTimelineRepo_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTimelineRepo(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetByName(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.Update(ctx, testutil.NewTestTimeline("Ghost"))
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.Delete(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTimelineRepo_UpdateReplacesChildren(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTimelineRepo(db)
	ctx := context.Background()

	tl := sampleTimeline("Feature")
	require.NoError(t, repo.Create(ctx, tl))

	tl.Name = "Feature v2"
	tl.Phases = nil
	tl.Departments = tl.Departments[1:]
	tl.Crew = tl.Crew[1:]
	tl.ItemOrder = []domain.ItemRef{{Kind: domain.ItemDepartment, Index: 0}}
	tl.Departments[0].MaxCrew = 5
	require.NoError(t, repo.Update(ctx, tl))

	fetched, err := repo.GetByID(ctx, tl.ID)
	require.NoError(t, err)
	assert.Equal(t, "Feature v2", fetched.Name)
	assert.Empty(t, fetched.Phases)
	require.Len(t, fetched.Departments, 1)
	assert.Equal(t, "Lighting", fetched.Departments[0].Name)
	assert.Equal(t, 5, fetched.Departments[0].MaxCrew)
	assert.Equal(t, []domain.ItemRef{{Kind: domain.ItemDepartment, Index: 0}}, fetched.ItemOrder)
}

func TestTimelineRepo_ListAndDeleteCascades(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTimelineRepo(db)
	ctx := context.Background()

	a := sampleTimeline("beta")
	b := testutil.NewTestTimeline("Alpha", testutil.WithMonths(2024, 3))
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alpha", list[0].Name)
	assert.Equal(t, 3, list[0].MonthCount)
	assert.Equal(t, "Jan 2024", list[0].FirstMonth)
	assert.Equal(t, "Mar 2024", list[0].LastMonth)
	assert.Equal(t, "beta", list[1].Name)
	assert.Equal(t, 1, list[1].PhaseCount)
	assert.Equal(t, 2, list[1].DepartmentCount)

	require.NoError(t, repo.Delete(ctx, a.ID))

	var orphans int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM departments WHERE timeline_id = ?`, a.ID).Scan(&orphans))
	assert.Zero(t, orphans)

	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestTimelineRepo_FindIDsByPrefix(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTimelineRepo(db)
	ctx := context.Background()

	a := testutil.NewTestTimeline("One")
	a.ID = "abc12345-0000-0000-0000-000000000001"
	b := testutil.NewTestTimeline("Two")
	b.ID = "abc99999-0000-0000-0000-000000000002"
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	ids, err := repo.FindIDsByPrefix(ctx, "ABC")
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID}, ids)

	ids, err = repo.FindIDsByPrefix(ctx, "abc1")
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, ids)

	ids, err = repo.FindIDsByPrefix(ctx, "ff")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestTimelineRepo_CreateInTransactionRollsBack(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	injected := errors.New("injected department insert failure")

	// #1 timeline, #2 phase, #3 first department
	uow := &testutil.FailOnNthExecUoW{DB: database, FailOn: 3, Err: injected}
	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return NewSQLiteTimelineRepo(tx).Create(ctx, sampleTimeline("Partial"))
	})
	require.ErrorIs(t, err, injected)

	list, err := NewSQLiteTimelineRepo(database).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
