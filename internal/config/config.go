package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	baseURL = "https://www.baseball-almanac.com/recbooks/"

	// The almanac pages put the record tables in the third content column. The batting table
	// has nine rows of preamble before the first record row; the other two have one header row.
	defaultBattingAnchor   = "xpath:/html/body/div[2]/div[2]/div[3]/table/tbody/tr[10]"
	defaultTableAnchor     = "xpath:/html/body/div[2]/div[2]/div[3]/table/tbody/tr[2]"
	defaultHomeRunExcludes = "AL,NL,LG,ML"
)

type Config struct {
	DBPath      string
	OutputDir   string
	SourcesFile string

	LogLevel       string
	LogEncoding    string
	LogDevelopment bool

	UserAgent       string
	FetchTimeoutMs  int
	ReadyAttempts   int
	ReadyIntervalMs int
	FetchRPS        float64

	WatchIntervalMin int
	WatchReplace     bool

	DashboardAddr string

	Sources Sources
}

// Source describes where one category's table lives and how its known noise is trimmed.
type Source struct {
	URL    string `mapstructure:"url"`
	Anchor string `mapstructure:"anchor"`
	// TopN keeps the first N deduplicated records; 0 keeps all.
	TopN int `mapstructure:"top_n"`
	// TailTrim drops N trailing deduplicated records (footer rows on the home-run page).
	TailTrim int `mapstructure:"tail_trim"`
	// Exclude lists cell values in the name column that are league codes, not players.
	Exclude []string `mapstructure:"exclude"`
	// StopClass ends the row stream at the first row carrying this class.
	StopClass string `mapstructure:"stop_class"`
}

type Sources struct {
	Batting    Source `mapstructure:"batting"`
	HomeRuns   Source `mapstructure:"home_runs"`
	Strikeouts Source `mapstructure:"strikeouts"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:      getEnv("DB_PATH", filepath.Join(cwd, "data", "mlb_stats.db")),
		OutputDir:   getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),
		SourcesFile: getEnv("SOURCES_FILE", ""),

		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogEncoding:    getEnv("LOG_ENCODING", "console"),
		LogDevelopment: getEnvBool("LOG_DEVELOPMENT", false),

		UserAgent:       getEnv("USER_AGENT", "mlbstats/1.0"),
		FetchTimeoutMs:  getEnvInt("FETCH_TIMEOUT_MS", 30000),
		ReadyAttempts:   getEnvInt("READY_ATTEMPTS", 3),
		ReadyIntervalMs: getEnvInt("READY_INTERVAL_MS", 1000),
		FetchRPS:        getEnvFloat("FETCH_RPS", 1),

		WatchIntervalMin: getEnvInt("WATCH_INTERVAL_MIN", 1440),
		WatchReplace:     getEnvBool("WATCH_REPLACE", true),

		DashboardAddr: getEnv("DASHBOARD_ADDR", ":8501"),

		Sources: Sources{
			Batting: Source{
				URL:    getEnv("BATTING_URL", baseURL+"rb_bavg1.shtml"),
				Anchor: getEnv("BATTING_ANCHOR", defaultBattingAnchor),
				TopN:   getEnvInt("BATTING_TOP_N", 23),
			},
			HomeRuns: Source{
				URL:      getEnv("HOMERUN_URL", baseURL+"rb_hr1.shtml"),
				Anchor:   getEnv("HOMERUN_ANCHOR", defaultTableAnchor),
				TailTrim: getEnvInt("HOMERUN_TAIL_TRIM", 5),
				Exclude:  getEnvList("HOMERUN_EXCLUDE", defaultHomeRunExcludes),
			},
			Strikeouts: Source{
				URL:       getEnv("STRIKEOUT_URL", baseURL+"rb_strik.shtml"),
				Anchor:    getEnv("STRIKEOUT_ANCHOR", defaultTableAnchor),
				TopN:      getEnvInt("STRIKEOUT_TOP_N", 8),
				StopClass: getEnv("STRIKEOUT_STOP_CLASS", "banner"),
			},
		},
	}

	if strings.TrimSpace(cfg.SourcesFile) != "" {
		if err := cfg.loadSourcesFile(cfg.SourcesFile); err != nil {
			return Config{}, fmt.Errorf("sources file %s: %w", cfg.SourcesFile, err)
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}

func getEnvList(key, fallback string) []string {
	parts := strings.Split(getEnv(key, fallback), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
