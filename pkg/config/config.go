package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	SQLite    SQLiteConfig
	Redis     RedisConfig
	Analysis  AnalysisConfig
	Artifacts ArtifactsConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int
	WriteTimeout int
	BodyLimit    int
	RateLimit    int
}

type SQLiteConfig struct {
	Path string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	TTLHours int
}

type AnalysisConfig struct {
	TopFeatures     int
	ChartFeatures   int
	SentimentWindow int
	NormalizeLabels bool
}

type ArtifactsConfig struct {
	OutputDir     string
	DashboardName string
	WordcloudName string
	ReportName    string
	FontFile      string
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/reviewlens")

	viper.SetEnvPrefix("REVIEWLENS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.readTimeout", 30)
	viper.SetDefault("server.writeTimeout", 60)
	viper.SetDefault("server.bodyLimit", 52428800)
	viper.SetDefault("server.rateLimit", 30)

	viper.SetDefault("sqlite.path", "./data/reviewlens.db")

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.ttlHours", 24)

	viper.SetDefault("analysis.topFeatures", 20)
	viper.SetDefault("analysis.chartFeatures", 10)
	viper.SetDefault("analysis.sentimentWindow", 50)
	viper.SetDefault("analysis.normalizeLabels", false)

	viper.SetDefault("artifacts.outputDir", "./output")
	viper.SetDefault("artifacts.dashboardName", "feature_analysis_dashboard.png")
	viper.SetDefault("artifacts.wordcloudName", "features_wordcloud.png")
	viper.SetDefault("artifacts.reportName", "feature_analysis_report.txt")
	viper.SetDefault("artifacts.fontFile", "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}
