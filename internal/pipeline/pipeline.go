package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reviewlens/backend/internal/analysis"
	rediscache "github.com/reviewlens/backend/internal/cache/redis"
	"github.com/reviewlens/backend/internal/extractor"
	"github.com/reviewlens/backend/internal/loader"
	"github.com/reviewlens/backend/internal/metrics"
	"github.com/reviewlens/backend/internal/report"
	"github.com/reviewlens/backend/internal/storage/models"
	"github.com/reviewlens/backend/internal/storage/sqlite"
	"github.com/reviewlens/backend/pkg/config"
	"github.com/reviewlens/backend/pkg/logger"
	"github.com/reviewlens/backend/pkg/utils"
)

type Result struct {
	RunID         string                   `json:"run_id"`
	SourcePath    string                   `json:"source_path"`
	ContentHash   string                   `json:"content_hash"`
	ReviewCount   int                      `json:"review_count"`
	FeatureCount  int                      `json:"feature_count"`
	MentionCount  int                      `json:"mention_count"`
	Records       []analysis.FeatureRecord `json:"records"`
	DashboardPath string                   `json:"dashboard_path"`
	WordcloudPath string                   `json:"wordcloud_path"`
	ReportPath    string                   `json:"report_path"`
	Report        string                   `json:"report"`
	LatencyMS     int                      `json:"latency_ms"`
	Cached        bool                     `json:"cached"`
	CreatedAt     time.Time                `json:"created_at"`
}

// ResultCache memoizes run results by cache key. A lookup miss is reported
// as rediscache.ErrCacheMiss.
type ResultCache interface {
	GetResult(ctx context.Context, key string, dest interface{}) error
	SetResult(ctx context.Context, key string, result interface{}) error
}

// Pipeline runs the four analysis stages in order: load, extract, aggregate,
// report. The store and cache are optional; a nil client skips that concern.
type Pipeline struct {
	cfg       *config.Config
	db        *sqlite.Client
	cache     ResultCache
	extractor *extractor.Extractor
	analyzer  *analysis.Analyzer
}

func New(cfg *config.Config, db *sqlite.Client, cache ResultCache) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		db:        db,
		cache:     cache,
		extractor: extractor.New(cfg.Analysis.NormalizeLabels),
		analyzer:  analysis.NewAnalyzer(cfg.Analysis.TopFeatures, cfg.Analysis.SentimentWindow),
	}
}

func (p *Pipeline) Run(ctx context.Context, csvPath string) (*Result, error) {
	start := time.Now()
	runID := uuid.New().String()

	logger.Info("Starting feature analysis",
		zap.String("run_id", runID),
		zap.String("path", csvPath),
	)

	contentHash, err := utils.HashFile(csvPath)
	if err != nil {
		metrics.RunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	cacheKey := p.cacheKey(contentHash)
	if cached := p.lookupCache(ctx, cacheKey); cached != nil {
		cached.Cached = true
		metrics.RunsTotal.WithLabelValues("cached").Inc()
		logger.Info("Analysis served from cache",
			zap.String("run_id", cached.RunID),
			zap.String("content_hash", contentHash),
		)
		return cached, nil
	}

	table, err := loader.Load(csvPath)
	if err != nil {
		metrics.RunsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}

	counts := p.extractor.Extract(table.Reviews)
	records := p.analyzer.Analyze(table, counts)

	result := &Result{
		RunID:        runID,
		SourcePath:   csvPath,
		ContentHash:  contentHash,
		ReviewCount:  table.TotalRows,
		FeatureCount: counts.Len(),
		MentionCount: counts.Total(),
		Records:      records,
		CreatedAt:    start,
	}

	if err := p.renderArtifacts(result, records, table.TotalRows); err != nil {
		metrics.RunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	result.LatencyMS = int(time.Since(start).Milliseconds())

	if err := p.persist(result); err != nil {
		logger.Warn("Failed to persist run", zap.Error(err))
	}
	p.storeCache(ctx, cacheKey, result)

	metrics.RunsTotal.WithLabelValues("success").Inc()
	metrics.RunDuration.Observe(time.Since(start).Seconds())
	metrics.ReviewsProcessed.Add(float64(len(table.Reviews)))
	metrics.FeaturesExtracted.Observe(float64(counts.Len()))

	logger.Info("Analysis complete",
		zap.String("run_id", runID),
		zap.Int("reviews", len(table.Reviews)),
		zap.Int("features", counts.Len()),
		zap.Int("latency_ms", result.LatencyMS),
	)

	return result, nil
}

func (p *Pipeline) renderArtifacts(result *Result, records []analysis.FeatureRecord, totalReviews int) error {
	// Each run gets its own directory so concurrent runs never clobber
	// each other's artifacts.
	outDir := filepath.Join(p.cfg.Artifacts.OutputDir, result.RunID)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	result.DashboardPath = filepath.Join(outDir, p.cfg.Artifacts.DashboardName)
	result.WordcloudPath = filepath.Join(outDir, p.cfg.Artifacts.WordcloudName)
	result.ReportPath = filepath.Join(outDir, p.cfg.Artifacts.ReportName)

	if len(records) > 0 {
		if err := report.RenderDashboard(records, p.cfg.Analysis.ChartFeatures, result.DashboardPath); err != nil {
			return fmt.Errorf("failed to render dashboard: %w", err)
		}
		if err := report.RenderWordcloud(records, p.cfg.Artifacts.FontFile, result.WordcloudPath); err != nil {
			return fmt.Errorf("failed to render wordcloud: %w", err)
		}
	} else {
		logger.Warn("No features extracted, skipping charts")
		result.DashboardPath = ""
		result.WordcloudPath = ""
	}

	result.Report = report.BuildText(records, totalReviews, result.CreatedAt)
	if err := report.WriteText(result.ReportPath, result.Report); err != nil {
		return err
	}

	// The report also goes to the console, matching the chart files on disk.
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println(result.Report)

	return nil
}

func (p *Pipeline) persist(result *Result) error {
	if p.db == nil {
		return nil
	}

	run := &models.AnalysisRun{
		ID:            result.RunID,
		SourcePath:    result.SourcePath,
		ContentHash:   result.ContentHash,
		ReviewCount:   result.ReviewCount,
		FeatureCount:  result.FeatureCount,
		MentionCount:  result.MentionCount,
		DashboardPath: result.DashboardPath,
		WordcloudPath: result.WordcloudPath,
		ReportPath:    result.ReportPath,
		ReportText:    result.Report,
		LatencyMS:     result.LatencyMS,
		CreatedAt:     result.CreatedAt,
	}

	if err := p.db.InsertRun(run); err != nil {
		return err
	}

	for i, record := range result.Records {
		row := &models.FeatureRecordRow{
			RunID:         result.RunID,
			Rank:          i + 1,
			Label:         record.Label,
			Count:         record.Count,
			AvgRating:     record.AvgRating,
			PositiveRatio: record.PositiveRatio,
			NegativeRatio: record.NegativeRatio,
			NeutralRatio:  record.NeutralRatio,
			RatedMentions: record.RatedMentions,
		}
		if err := p.db.InsertFeatureRecord(row); err != nil {
			return err
		}
	}

	return nil
}

// cacheKey folds the analysis knobs into the content hash so a config change
// invalidates prior results for the same file.
func (p *Pipeline) cacheKey(contentHash string) string {
	return utils.HashString(fmt.Sprintf("%s|%d|%d|%t",
		contentHash,
		p.cfg.Analysis.TopFeatures,
		p.cfg.Analysis.SentimentWindow,
		p.cfg.Analysis.NormalizeLabels,
	))
}

func (p *Pipeline) lookupCache(ctx context.Context, key string) *Result {
	if p.cache == nil {
		return nil
	}

	var cached Result
	err := p.cache.GetResult(ctx, key, &cached)
	if errors.Is(err, rediscache.ErrCacheMiss) {
		metrics.CacheMisses.Inc()
		return nil
	}
	if err != nil {
		logger.Warn("Cache lookup failed", zap.Error(err))
		return nil
	}

	metrics.CacheHits.Inc()
	return &cached
}

func (p *Pipeline) storeCache(ctx context.Context, key string, result *Result) {
	if p.cache == nil {
		return
	}
	if err := p.cache.SetResult(ctx, key, result); err != nil {
		logger.Warn("Cache store failed", zap.Error(err))
	}
}
