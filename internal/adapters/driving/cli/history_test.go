package cli

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tagger-cli/internal/core/domain"
)

func seedHistory(t *testing.T, ts *testServices) {
	t.Helper()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	subs := []domain.Submission{
		{
			ID:         "older",
			FileName:   "winter.xlsx",
			FileSize:   2048,
			Bucket:     "b",
			Endpoint:   "https://enrich.example.com",
			Phase:      domain.PhaseFailed,
			Failure:    &domain.FailureInfo{Kind: domain.FailureTimeout, Message: "processing exceeded time budget"},
			StartedAt:  base,
			FinishedAt: base.Add(300 * time.Second),
		},
		{
			ID:         "newer",
			FileName:   "summer.xlsx",
			FileSize:   4096,
			Bucket:     "b",
			Endpoint:   "https://enrich.example.com",
			Phase:      domain.PhaseReady,
			Summary:    &domain.ResultsSummary{TotalProducts: 25, SuccessfulSummaries: 24, SuccessfulTags: 25},
			OutputPath: "/data/summer_enhanced.xlsx",
			StartedAt:  base.Add(time.Hour),
			FinishedAt: base.Add(time.Hour + 90*time.Second),
		},
	}
	for _, sub := range subs {
		require.NoError(t, ts.submissions.Save(context.Background(), sub))
	}
}

func TestHistoryCmd_NotConfigured(t *testing.T) {
	setupTestServices(t, nil)
	historyService = nil

	_, err := execute(t, "history")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "history service not configured")
}

func TestHistoryList_Empty(t *testing.T) {
	setupTestServices(t, nil)

	out, err := execute(t, "history", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No submissions yet.")
}

func TestHistoryList_NewestFirst(t *testing.T) {
	ts := setupTestServices(t, nil)
	seedHistory(t, ts)

	out, err := execute(t, "history")

	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	newer := strings.Index(out, "summer.xlsx")
	older := strings.Index(out, "winter.xlsx")
	require.NotEqual(t, -1, newer)
	require.NotEqual(t, -1, older)
	assert.Less(t, newer, older)
	assert.Contains(t, out, "25")
}

func TestHistoryList_Limit(t *testing.T) {
	ts := setupTestServices(t, nil)
	seedHistory(t, ts)

	out, err := execute(t, "history", "list", "-n", "1")

	require.NoError(t, err)
	assert.Contains(t, out, "summer.xlsx")
	assert.NotContains(t, out, "winter.xlsx")
}

func TestHistoryList_JSON(t *testing.T) {
	ts := setupTestServices(t, nil)
	seedHistory(t, ts)

	out, err := execute(t, "history", "list", "--json")

	require.NoError(t, err)
	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "newer", got[0]["ID"])
}

func TestHistoryShow(t *testing.T) {
	ts := setupTestServices(t, nil)
	seedHistory(t, ts)

	out, err := execute(t, "history", "show", "newer")

	require.NoError(t, err)
	assert.Contains(t, out, "Submission: newer")
	assert.Contains(t, out, "File: summer.xlsx (4.0 KB)")
	assert.Contains(t, out, "Outcome: ready")
	assert.Contains(t, out, "Duration: 1m30s")
	assert.Contains(t, out, "Products processed:  25")
	assert.Contains(t, out, "Enhanced file: /data/summer_enhanced.xlsx")
}

func TestHistoryShow_Failure(t *testing.T) {
	ts := setupTestServices(t, nil)
	seedHistory(t, ts)

	out, err := execute(t, "history", "show", "older")

	require.NoError(t, err)
	assert.Contains(t, out, "Failure: timeout: processing exceeded time budget")
}

func TestHistoryShow_NotFound(t *testing.T) {
	setupTestServices(t, nil)

	_, err := execute(t, "history", "show", "missing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "submission not found: missing")
}

func TestHistoryDelete(t *testing.T) {
	ts := setupTestServices(t, nil)
	seedHistory(t, ts)

	out, err := execute(t, "history", "delete", "older")

	require.NoError(t, err)
	assert.Contains(t, out, "Deleted submission older")
	_, err = ts.submissions.Get(context.Background(), "older")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
