package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewlens/backend/internal/storage/models"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	client, err := NewClient(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	require.NoError(t, client.InitSchema())
	return client
}

func testRun(id string) *models.AnalysisRun {
	return &models.AnalysisRun{
		ID:           id,
		SourcePath:   "/tmp/reviews.csv",
		ContentHash:  "abc123",
		ReviewCount:  5,
		FeatureCount: 3,
		MentionCount: 9,
		ReportPath:   "/tmp/report.txt",
		ReportText:   "PRODUCT FEATURE ANALYSIS SUMMARY REPORT",
		LatencyMS:    120,
		CreatedAt:    time.Now(),
	}
}

func TestInsertAndGetRun(t *testing.T) {
	client := newTestClient(t)

	run := testRun("run-1")
	require.NoError(t, client.InsertRun(run))

	got, err := client.GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, run.SourcePath, got.SourcePath)
	assert.Equal(t, run.ContentHash, got.ContentHash)
	assert.Equal(t, run.ReviewCount, got.ReviewCount)
	assert.Equal(t, run.ReportText, got.ReportText)
}

func TestGetRunMissing(t *testing.T) {
	client := newTestClient(t)

	_, err := client.GetRun("nope")
	assert.Error(t, err)
}

func TestListRunsOrdering(t *testing.T) {
	client := newTestClient(t)

	older := testRun("run-old")
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := testRun("run-new")

	require.NoError(t, client.InsertRun(older))
	require.NoError(t, client.InsertRun(newer))

	runs, err := client.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-new", runs[0].ID)
	assert.Equal(t, "run-old", runs[1].ID)
}

func TestFeatureRecordsRoundtrip(t *testing.T) {
	client := newTestClient(t)
	require.NoError(t, client.InsertRun(testRun("run-1")))

	rows := []*models.FeatureRecordRow{
		{RunID: "run-1", Rank: 1, Label: "camera", Count: 12, AvgRating: 4.5, PositiveRatio: 0.75, NegativeRatio: 0.25, RatedMentions: 8},
		{RunID: "run-1", Rank: 2, Label: "battery", Count: 10, AvgRating: 2.4, PositiveRatio: 0.2, NegativeRatio: 0.6, NeutralRatio: 0.2, RatedMentions: 5},
	}
	for _, row := range rows {
		require.NoError(t, client.InsertFeatureRecord(row))
	}

	got, err := client.GetFeatureRecords("run-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "camera", got[0].Label)
	assert.Equal(t, 1, got[0].Rank)
	assert.InDelta(t, 4.5, got[0].AvgRating, 1e-9)
	assert.Equal(t, "battery", got[1].Label)
}

func TestGetReport(t *testing.T) {
	client := newTestClient(t)
	require.NoError(t, client.InsertRun(testRun("run-1")))

	report, err := client.GetReport("run-1")
	require.NoError(t, err)
	assert.Contains(t, report, "SUMMARY REPORT")
}
