package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.events = append(r.events, e)
}

func TestUseCaseObserver_RecordsFields(t *testing.T) {
	obs := &recordingObserver{}
	svc := newTestServices(t, obs)
	ctx := context.Background()

	_, err := svc.imports.ImportTable(ctx, strings.NewReader(productionTable), "Observed")
	require.NoError(t, err)
	_, err = svc.edits.SetTimeframe(ctx, "Observed", "Lighting", 5, 1)
	require.Error(t, err)

	require.Len(t, obs.events, 2)
	imp := obs.events[0]
	assert.Equal(t, "import-table", imp.Name)
	assert.True(t, imp.Success)
	assert.Equal(t, 2, imp.Fields["departments"])
	assert.Equal(t, 1, imp.Fields["phases"])

	edit := obs.events[1]
	assert.Equal(t, "set-timeframe", edit.Name)
	assert.False(t, edit.Success)
	assert.Error(t, edit.Err)
}

func TestLogUseCaseObserver_WritesSortedFields(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf)

	run := startUseCase(obs, "export-timeline", map[string]any{"format": "csv"})
	run.set("departments", 3)
	run.end(context.Background(), nil)

	line := buf.String()
	assert.Contains(t, line, "msg=service_use_case")
	assert.Contains(t, line, "use_case=export-timeline")
	assert.Contains(t, line, "success=true")
	assert.Less(t, strings.Index(line, "departments=3"), strings.Index(line, "format=csv"))
}

func TestNewLogUseCaseObserver_NilWriter(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
}
