package backup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/autobackup/internal/errors"
	"github.com/thoreinstein/autobackup/internal/reconcile"
)

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	invalid := newJobReport(Job{Source: "../x", Destination: "x", Policy: reconcile.PolicySkip})
	invalid.setErr(StatusInvalid, errors.Wrap(ErrEscapesRoot, "../x"))

	done := newJobReport(Job{Source: "docs", Destination: "docs", Policy: reconcile.PolicyKeepBoth})
	done.Status = StatusCompleted
	done.Result = &reconcile.Result{Relocated: 3, Bytes: 1024}

	s := &Summary{
		Version:         ReportVersion,
		SourceRoot:      "/src",
		DestinationRoot: "/dst",
		StartedAt:       started,
		FinishedAt:      started.Add(time.Minute),
		Jobs:            []JobReport{invalid, done},
	}
	require.NoError(t, WriteReport(path, s))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "/src", got["source_root"])

	jobs, ok := got["jobs"].([]any)
	require.True(t, ok)
	require.Len(t, jobs, 2)

	first := jobs[0].(map[string]any)
	assert.Equal(t, "invalid", first["status"])
	assert.Equal(t, "skip", first["policy"])
	assert.Contains(t, first["error"], "not inside its root")
	assert.NotContains(t, first, "result")

	second := jobs[1].(map[string]any)
	assert.Equal(t, "keep_both", second["policy"])
	result := second["result"].(map[string]any)
	assert.InDelta(t, 3, result["relocated"], 0)
	assert.InDelta(t, 1024, result["bytes"], 0)
}

func TestWriteReport_NilSummary(t *testing.T) {
	require.Error(t, WriteReport(filepath.Join(t.TempDir(), "r.json"), nil))
}

func TestSummary_Totals(t *testing.T) {
	s := &Summary{Jobs: []JobReport{
		{Status: StatusCompleted, Result: &reconcile.Result{Relocated: 1, Bytes: 10}},
		{Status: StatusPartial, Result: &reconcile.Result{Quarantined: 2, Bytes: 5, Failures: []reconcile.Failure{{Source: "a"}}}},
		{Status: StatusNothingToDo},
	}}

	total := s.Totals()
	assert.Equal(t, 3, total.Moved())
	assert.Equal(t, int64(15), total.Bytes)
	assert.Len(t, total.Failures, 1)
	assert.True(t, s.HasErrors())
	assert.Equal(t, 1, s.Count(StatusPartial))
}
