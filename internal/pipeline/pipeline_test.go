package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-fonts/liberation/liberationsansregular"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rediscache "github.com/reviewlens/backend/internal/cache/redis"
	"github.com/reviewlens/backend/internal/loader"
	"github.com/reviewlens/backend/internal/metrics"
	"github.com/reviewlens/backend/internal/storage/sqlite"
	"github.com/reviewlens/backend/pkg/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Analysis: config.AnalysisConfig{
			TopFeatures:     20,
			ChartFeatures:   10,
			SentimentWindow: 50,
		},
		Artifacts: config.ArtifactsConfig{
			OutputDir:     t.TempDir(),
			DashboardName: "dashboard.png",
			WordcloudName: "wordcloud.png",
			ReportName:    "report.txt",
		},
	}
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reviews.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func writeTestFont(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sans.ttf")
	require.NoError(t, os.WriteFile(path, liberationsansregular.TTF, 0644))
	return path
}

// memoryCache stands in for the Redis client in cache tests.
type memoryCache struct {
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (m *memoryCache) GetResult(ctx context.Context, key string, dest interface{}) error {
	data, ok := m.entries[key]
	if !ok {
		return rediscache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (m *memoryCache) SetResult(ctx context.Context, key string, result interface{}) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	m.entries[key] = data
	return nil
}

func TestRunWithoutFeatures(t *testing.T) {
	// No review matches any pattern or bigram, so charts are skipped and
	// only the text report is produced.
	cfg := testConfig(t)
	csvPath := writeCSV(t, "review,rating\nzzz yyy xxx,4\nwww vvv,2\n")

	db, err := sqlite.NewClient(":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.InitSchema())

	p := New(cfg, db, nil)

	result, err := p.Run(context.Background(), csvPath)
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 2, result.ReviewCount)
	assert.Equal(t, 0, result.FeatureCount)
	assert.Empty(t, result.DashboardPath)
	assert.Empty(t, result.WordcloudPath)
	assert.False(t, result.Cached)

	assert.Equal(t, filepath.Join(cfg.Artifacts.OutputDir, result.RunID, "report.txt"), result.ReportPath)
	reportBytes, err := os.ReadFile(result.ReportPath)
	require.NoError(t, err)
	assert.Contains(t, string(reportBytes), "PRODUCT FEATURE ANALYSIS SUMMARY REPORT")
	assert.Contains(t, string(reportBytes), "• Total Reviews Analyzed: 2")

	stored, err := db.GetRun(result.RunID)
	require.NoError(t, err)
	assert.Equal(t, result.ContentHash, stored.ContentHash)
}

func TestRunWithFeatures(t *testing.T) {
	cfg := testConfig(t)
	cfg.Artifacts.FontFile = writeTestFont(t)
	csvPath := writeCSV(t, strings.Join([]string{
		"review,rating",
		"Great camera and long battery life,5",
		"The battery died after a week,2",
		"Amazing camera quality,4",
		"Terrible screen,1",
		"Good sound overall,3",
	}, "\n")+"\n")

	db, err := sqlite.NewClient(":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.InitSchema())

	p := New(cfg, db, nil)

	result, err := p.Run(context.Background(), csvPath)
	require.NoError(t, err)

	assert.Equal(t, 5, result.ReviewCount)
	require.NotEmpty(t, result.Records)
	assert.Equal(t, "battery", result.Records[0].Label)
	assert.Equal(t, 2, result.Records[0].Count)

	for _, path := range []string{result.DashboardPath, result.WordcloudPath, result.ReportPath} {
		require.NotEmpty(t, path)
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}

	rows, err := db.GetFeatureRecords(result.RunID)
	require.NoError(t, err)
	require.Len(t, rows, len(result.Records))
	for i, row := range rows {
		assert.Equal(t, i+1, row.Rank)
		assert.Equal(t, result.Records[i].Label, row.Label)
		assert.Equal(t, result.Records[i].Count, row.Count)
	}
}

func TestRunServedFromCache(t *testing.T) {
	cfg := testConfig(t)
	cache := newMemoryCache()
	p := New(cfg, nil, cache)
	csvPath := writeCSV(t, "review\nzzz yyy\n")

	first, err := p.Run(context.Background(), csvPath)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	before := testutil.ToFloat64(metrics.RunsTotal.WithLabelValues("cached"))

	second, err := p.Run(context.Background(), csvPath)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.RunID, second.RunID)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.RunsTotal.WithLabelValues("cached")))
}

func TestRunMissingTextColumn(t *testing.T) {
	cfg := testConfig(t)
	csvPath := writeCSV(t, "id,rating\n1,5\n")

	p := New(cfg, nil, nil)

	_, err := p.Run(context.Background(), csvPath)
	require.Error(t, err)
	assert.ErrorIs(t, err, loader.ErrNoTextColumn)
}

func TestRunMissingFile(t *testing.T) {
	cfg := testConfig(t)
	p := New(cfg, nil, nil)

	_, err := p.Run(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}

func TestRunDeterministicReport(t *testing.T) {
	csv := "review\nzzz yyy\n"

	cfg1 := testConfig(t)
	p1 := New(cfg1, nil, nil)
	r1, err := p1.Run(context.Background(), writeCSV(t, csv))
	require.NoError(t, err)

	cfg2 := testConfig(t)
	p2 := New(cfg2, nil, nil)
	r2, err := p2.Run(context.Background(), writeCSV(t, csv))
	require.NoError(t, err)

	assert.Equal(t, stripTimestamp(r1.Report), stripTimestamp(r2.Report))
	assert.Equal(t, r1.ContentHash, r2.ContentHash)
}

// stripTimestamp drops the Generated line, the only part of the report
// allowed to differ between identical inputs.
func stripTimestamp(report string) string {
	var kept []string
	for _, line := range strings.Split(report, "\n") {
		if strings.HasPrefix(line, "Generated:") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
