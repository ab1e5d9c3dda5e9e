package models

import "time"

type AnalysisRun struct {
	ID            string    `json:"id"`
	SourcePath    string    `json:"source_path"`
	ContentHash   string    `json:"content_hash"`
	ReviewCount   int       `json:"review_count"`
	FeatureCount  int       `json:"feature_count"`
	MentionCount  int       `json:"mention_count"`
	DashboardPath string    `json:"dashboard_path"`
	WordcloudPath string    `json:"wordcloud_path"`
	ReportPath    string    `json:"report_path"`
	ReportText    string    `json:"-"`
	LatencyMS     int       `json:"latency_ms"`
	CreatedAt     time.Time `json:"created_at"`
}

type FeatureRecordRow struct {
	ID            int     `json:"id"`
	RunID         string  `json:"run_id"`
	Rank          int     `json:"rank"`
	Label         string  `json:"label"`
	Count         int     `json:"count"`
	AvgRating     float64 `json:"avg_rating"`
	PositiveRatio float64 `json:"positive_ratio"`
	NegativeRatio float64 `json:"negative_ratio"`
	NeutralRatio  float64 `json:"neutral_ratio"`
	RatedMentions int     `json:"rated_mentions"`
}
