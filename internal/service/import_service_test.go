package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/41rumble/crew-planner/internal/domain"
	"github.com/41rumble/crew-planner/internal/importer"
	"github.com/41rumble/crew-planner/internal/repository"
	"github.com/41rumble/crew-planner/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productionTable = `Department,2024,,,,,,Rate
,Jan,Feb,Mar,Apr,May,Jun
Production Phase,,X,X,X,X,
Supervision:,,,,,,
Lighting,0,0,5,10,10,7,9000
Animation,0,0,0,0,0,0,
Compositing,0,2,4,4,0,0,
`

func TestImportService_ImportTable(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	result, err := svc.imports.ImportTable(ctx, strings.NewReader(productionTable), "Feature")
	require.NoError(t, err)

	assert.Equal(t, 1, result.PhaseCount)
	assert.Equal(t, 2, result.DepartmentCount, "zero-crew Animation row is dropped")
	assert.Equal(t, 2, result.AuthoritativeRows)

	stored, err := svc.timelines.Get(ctx, "feature")
	require.NoError(t, err)
	assert.Equal(t, result.Timeline.ID, stored.ID)
	assert.Equal(t, []int{0, 0, 5, 10, 10, 7}, stored.Crew[0].Counts)
	assert.Equal(t, 9000.0, stored.Departments[0].Rate)
	assert.Equal(t, 1, stored.Departments[0].RampUpDuration)
	assert.Equal(t, 1, stored.Departments[0].RampDownDuration)
	assert.Equal(t, domain.CrewAuthoritative, stored.Crew[1].Source)
}

func TestImportService_ImportTableMalformed(t *testing.T) {
	svc := newTestServices(t)

	_, err := svc.imports.ImportTable(context.Background(), strings.NewReader(",2024\n"), "Broken")

	var mte *importer.MalformedTableError
	require.True(t, errors.As(err, &mte), "got %v", err)
	assert.Equal(t, -1, mte.Row)
}

func TestImportService_ImportTableRequiresName(t *testing.T) {
	svc := newTestServices(t)

	_, err := svc.imports.ImportTable(context.Background(), strings.NewReader(productionTable), "  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestImportService_FallbackYear(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewImportService(testutil.NewTestUoW(database), 2030)

	result, err := svc.ImportTable(context.Background(), strings.NewReader("Department\n,Dec,Jan\nFX,1,1\n"), "Rollover")
	require.NoError(t, err)
	assert.Equal(t, []string{"Dec 2030", "Jan 2031"}, result.Timeline.Months)
}

func TestImportService_ImportFile(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "season-two.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(productionTable), 0o644))

	result, err := svc.imports.ImportFile(ctx, csvPath, "")
	require.NoError(t, err)
	assert.Equal(t, "season-two", result.Timeline.Name)

	jsonPath := filepath.Join(dir, "plan.JSON")
	project := `{"name": "From JSON", "months": ["Jan 2025", "Feb 2025", "Mar 2025"],
		"departments": [{"name": "Edit", "max_crew": 2, "start_month": 0, "end_month": 2, "ramp_up_duration": 1}]}`
	require.NoError(t, os.WriteFile(jsonPath, []byte(project), 0o644))

	result, err = svc.imports.ImportFile(ctx, jsonPath, "Renamed")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", result.Timeline.Name)
	assert.Equal(t, 0, result.AuthoritativeRows)
	assert.Equal(t, []int{2, 2, 2}, result.Timeline.Crew[0].Counts)

	_, err = svc.imports.ImportFile(ctx, filepath.Join(dir, "missing.csv"), "")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestImportService_ImportProjectValidation(t *testing.T) {
	svc := newTestServices(t)

	pf := &importer.ProjectFile{
		Name:        "Bad",
		Months:      []string{"Jan 2025"},
		Departments: []importer.DepartmentImport{{Name: "FX", MaxCrew: -1, StartMonth: 0, EndMonth: 3}},
	}
	_, err := svc.imports.ImportProject(context.Background(), pf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import validation failed (2 errors)")
	assert.Contains(t, err.Error(), "max_crew must not be negative")
}

func TestImportService_DuplicateName(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	_, err := svc.imports.ImportTable(ctx, strings.NewReader(productionTable), "Twice")
	require.NoError(t, err)
	_, err = svc.imports.ImportTable(ctx, strings.NewReader(productionTable), "TWICE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestImportService_RollbackOnDepartmentInsertFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteTimelineRepo(database)
	ctx := context.Background()

	// Departments are inserted Lighting then Compositing.
	failUoW := &testutil.FailOnNthExecUoW{
		DB:     database,
		FailOn: 2,
		Match:  "INSERT INTO departments",
		Err:    errors.New("injected department insert failure"),
	}
	svc := NewImportService(failUoW, 0)

	_, err := svc.ImportTable(ctx, strings.NewReader(productionTable), "Rollback")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected department insert failure")
	assert.Equal(t, int32(2), failUoW.Calls.Load())

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	var rows int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM departments`).Scan(&rows))
	assert.Zero(t, rows)
}
