package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/reviewlens/backend/internal/storage/models"
	"github.com/reviewlens/backend/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analysis_runs (
		id TEXT PRIMARY KEY,
		source_path TEXT NOT NULL,
		content_hash TEXT NOT NULL,
		review_count INTEGER NOT NULL,
		feature_count INTEGER NOT NULL,
		mention_count INTEGER NOT NULL,
		dashboard_path TEXT,
		wordcloud_path TEXT,
		report_path TEXT,
		report_text TEXT,
		latency_ms INTEGER,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_hash ON analysis_runs(content_hash);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON analysis_runs(created_at);

	CREATE TABLE IF NOT EXISTS feature_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		rank INTEGER NOT NULL,
		label TEXT NOT NULL,
		count INTEGER NOT NULL,
		avg_rating REAL NOT NULL,
		positive_ratio REAL NOT NULL,
		negative_ratio REAL NOT NULL,
		neutral_ratio REAL NOT NULL,
		rated_mentions INTEGER NOT NULL,
		FOREIGN KEY (run_id) REFERENCES analysis_runs(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_features_run ON feature_records(run_id);
	CREATE INDEX IF NOT EXISTS idx_features_label ON feature_records(label);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

func (c *Client) InsertRun(run *models.AnalysisRun) error {
	query := `
		INSERT INTO analysis_runs (id, source_path, content_hash, review_count, feature_count,
			mention_count, dashboard_path, wordcloud_path, report_path, report_text, latency_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := c.db.Exec(
		query,
		run.ID,
		run.SourcePath,
		run.ContentHash,
		run.ReviewCount,
		run.FeatureCount,
		run.MentionCount,
		run.DashboardPath,
		run.WordcloudPath,
		run.ReportPath,
		run.ReportText,
		run.LatencyMS,
		run.CreatedAt.Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	logger.Debug("Run inserted", zap.String("run_id", run.ID), zap.String("source", run.SourcePath))
	return nil
}

func (c *Client) InsertFeatureRecord(record *models.FeatureRecordRow) error {
	query := `
		INSERT INTO feature_records (run_id, rank, label, count, avg_rating,
			positive_ratio, negative_ratio, neutral_ratio, rated_mentions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := c.db.Exec(
		query,
		record.RunID,
		record.Rank,
		record.Label,
		record.Count,
		record.AvgRating,
		record.PositiveRatio,
		record.NegativeRatio,
		record.NeutralRatio,
		record.RatedMentions,
	)

	if err != nil {
		return fmt.Errorf("failed to insert feature record: %w", err)
	}

	return nil
}

func (c *Client) GetRun(id string) (*models.AnalysisRun, error) {
	query := `
		SELECT id, source_path, content_hash, review_count, feature_count, mention_count,
			dashboard_path, wordcloud_path, report_path, report_text, latency_ms, created_at
		FROM analysis_runs WHERE id = ?
	`

	var run models.AnalysisRun
	var createdAt int64

	err := c.db.QueryRow(query, id).Scan(
		&run.ID,
		&run.SourcePath,
		&run.ContentHash,
		&run.ReviewCount,
		&run.FeatureCount,
		&run.MentionCount,
		&run.DashboardPath,
		&run.WordcloudPath,
		&run.ReportPath,
		&run.ReportText,
		&run.LatencyMS,
		&createdAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	run.CreatedAt = time.Unix(createdAt, 0)

	return &run, nil
}

func (c *Client) ListRuns(limit int) ([]models.AnalysisRun, error) {
	query := `
		SELECT id, source_path, content_hash, review_count, feature_count, mention_count, latency_ms, created_at
		FROM analysis_runs
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := c.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []models.AnalysisRun
	for rows.Next() {
		var r models.AnalysisRun
		var createdAt int64

		err := rows.Scan(&r.ID, &r.SourcePath, &r.ContentHash, &r.ReviewCount,
			&r.FeatureCount, &r.MentionCount, &r.LatencyMS, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		r.CreatedAt = time.Unix(createdAt, 0)
		runs = append(runs, r)
	}

	return runs, nil
}

func (c *Client) GetFeatureRecords(runID string) ([]models.FeatureRecordRow, error) {
	query := `
		SELECT id, run_id, rank, label, count, avg_rating, positive_ratio, negative_ratio, neutral_ratio, rated_mentions
		FROM feature_records
		WHERE run_id = ?
		ORDER BY rank ASC
	`

	rows, err := c.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get feature records: %w", err)
	}
	defer rows.Close()

	var records []models.FeatureRecordRow
	for rows.Next() {
		var r models.FeatureRecordRow

		err := rows.Scan(&r.ID, &r.RunID, &r.Rank, &r.Label, &r.Count,
			&r.AvgRating, &r.PositiveRatio, &r.NegativeRatio, &r.NeutralRatio, &r.RatedMentions)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		records = append(records, r)
	}

	return records, nil
}

func (c *Client) GetReport(runID string) (string, error) {
	var report string
	err := c.db.QueryRow(`SELECT report_text FROM analysis_runs WHERE id = ?`, runID).Scan(&report)
	if err != nil {
		return "", fmt.Errorf("failed to get report: %w", err)
	}
	return report, nil
}
