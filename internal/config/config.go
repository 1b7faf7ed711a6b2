// Package config loads the run configuration from environment variables and
// the two YAML policy files (feed list, matcher policy).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FeedSource is one categorized news feed. The YAML file order is the corpus
// encounter order, so sources are kept as a list, not a map.
type FeedSource struct {
	Category string `yaml:"category"`
	URL      string `yaml:"url"`
}

// TierScores holds the five relevance tier values, highest priority first.
type TierScores struct {
	PhraseInTitle   int `yaml:"phrase_in_title"`
	TokensInTitle   int `yaml:"tokens_in_title"`
	UnionInTitle    int `yaml:"union_in_title"`
	PhraseInSummary int `yaml:"phrase_in_summary"`
	TokensInText    int `yaml:"tokens_in_text"`
}

// MatcherConfig is the tunable matching policy from configs/matcher.yaml.
type MatcherConfig struct {
	Blocklist     []string   `yaml:"blocklist"`
	Threshold     int        `yaml:"threshold"`
	Tiers         TierScores `yaml:"tiers"`
	OutletAliases []string   `yaml:"outlet_aliases"`
}

type feedsFile struct {
	Feeds []FeedSource `yaml:"feeds"`
}

type Config struct {
	// Google Sheets settings
	SheetID         string
	CredentialsJSON string // service account key, raw JSON
	SheetURL        string // link embedded in the notification email
	DashboardSheet  string
	HistorySheet    string

	// Email settings
	EmailSender   string
	EmailReceiver string // comma separated list
	EmailPassword string
	SMTPHost      string
	SMTPPort      int

	// Gemini settings
	GeminiAPIKey      string
	GeminiModel       string
	PromptTemplate    string // must contain {keyword} and {title}
	MaxGeminiRequests int    // per-run enrichment budget (0 = unlimited)

	// Feed settings
	TrendsURL         string
	FeedsConfigPath   string
	MatcherConfigPath string
	Feeds             []FeedSource
	Matcher           MatcherConfig

	// App settings
	Debug          bool
	RequestTimeout time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration

	// Local run log
	RunLogPath     string
	RunLogTTLHours int
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		DashboardSheet:    "最新趨勢儀表板",
		HistorySheet:      "完整歷史日誌",
		SMTPHost:          "smtp.gmail.com",
		SMTPPort:          465,
		GeminiModel:       "gemini-2.0-flash-lite",
		TrendsURL:         "https://trends.google.com/trending/rss?geo=TW",
		FeedsConfigPath:   "configs/feeds.yaml",
		MatcherConfigPath: "configs/matcher.yaml",
		RequestTimeout:    30 * time.Second,
		RetryAttempts:     3,
		RetryDelay:        5 * time.Second,
		RunLogPath:        "run_log.json",
		RunLogTTLHours:    24 * 14,
	}

	// Secrets from environment
	cfg.SheetID = os.Getenv("G_SHEET_ID")
	cfg.CredentialsJSON = os.Getenv("GCP_SA_KEY")
	cfg.EmailSender = os.Getenv("EMAIL_SENDER")
	cfg.EmailReceiver = os.Getenv("EMAIL_RECEIVER")
	cfg.EmailPassword = os.Getenv("EMAIL_SENDER_APP_PASSWORD")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.PromptTemplate = os.Getenv("GEMINI_PROMPT")

	cfg.SheetURL = getEnvOrDefault("G_SHEET_URL",
		"https://docs.google.com/spreadsheets/d/"+cfg.SheetID)

	cfg.DashboardSheet = getEnvOrDefault("SHEET_NAME_DASHBOARD", cfg.DashboardSheet)
	cfg.HistorySheet = getEnvOrDefault("SHEET_NAME_LOG", cfg.HistorySheet)

	cfg.SMTPHost = getEnvOrDefault("SMTP_HOST", cfg.SMTPHost)
	cfg.SMTPPort = getEnvIntOrDefault("SMTP_PORT", cfg.SMTPPort)

	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		cfg.GeminiModel = model
	}
	if gr := os.Getenv("MAX_GEMINI_REQUESTS"); gr != "" {
		if val, err := strconv.Atoi(gr); err == nil && val > 0 {
			cfg.MaxGeminiRequests = val
		}
	}

	if url := os.Getenv("TRENDS_RSS_URL"); url != "" {
		cfg.TrendsURL = url
	}
	cfg.FeedsConfigPath = getEnvOrDefault("FEEDS_CONFIG_PATH", cfg.FeedsConfigPath)
	cfg.MatcherConfigPath = getEnvOrDefault("MATCHER_CONFIG_PATH", cfg.MatcherConfigPath)

	cfg.RunLogPath = getEnvOrDefault("RUN_LOG_PATH", cfg.RunLogPath)
	cfg.RunLogTTLHours = getEnvIntOrDefault("RUN_LOG_TTL_HOURS", cfg.RunLogTTLHours)

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	var ff feedsFile
	if err := loadYAML(cfg.FeedsConfigPath, &ff); err != nil {
		return nil, fmt.Errorf("load feeds config: %w", err)
	}
	cfg.Feeds = ff.Feeds

	if err := loadYAML(cfg.MatcherConfigPath, &cfg.Matcher); err != nil {
		return nil, fmt.Errorf("load matcher config: %w", err)
	}

	return cfg, cfg.Validate()
}

func loadYAML(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	return dec.Decode(out)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// Validate stops the run before any output is produced: a missing threshold or
// prompt would make every downstream result silently wrong.
func (c *Config) Validate() error {
	if c.SheetID == "" {
		return fmt.Errorf("G_SHEET_ID is required")
	}
	if c.CredentialsJSON == "" {
		return fmt.Errorf("GCP_SA_KEY is required")
	}
	if c.EmailSender == "" {
		return fmt.Errorf("EMAIL_SENDER is required")
	}
	if c.EmailReceiver == "" {
		return fmt.Errorf("EMAIL_RECEIVER is required")
	}
	if c.EmailPassword == "" {
		return fmt.Errorf("EMAIL_SENDER_APP_PASSWORD is required")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.PromptTemplate == "" {
		return fmt.Errorf("GEMINI_PROMPT is required")
	}
	if !strings.Contains(c.PromptTemplate, "{keyword}") || !strings.Contains(c.PromptTemplate, "{title}") {
		return fmt.Errorf("GEMINI_PROMPT must contain {keyword} and {title} placeholders")
	}
	if len(c.Feeds) == 0 {
		return fmt.Errorf("feeds config %s lists no feeds", c.FeedsConfigPath)
	}
	return c.Matcher.Validate()
}

// Validate checks the matching policy on its own so tests can build one directly.
func (m *MatcherConfig) Validate() error {
	if m.Threshold <= 0 {
		return fmt.Errorf("matcher config: threshold must be positive")
	}
	t := m.Tiers
	if t.PhraseInTitle <= 0 || t.TokensInTitle <= 0 || t.UnionInTitle <= 0 ||
		t.PhraseInSummary <= 0 || t.TokensInText <= 0 {
		return fmt.Errorf("matcher config: all five tier scores must be positive")
	}
	if t.PhraseInTitle < t.TokensInTitle || t.TokensInTitle < t.UnionInTitle ||
		t.UnionInTitle < t.PhraseInSummary || t.PhraseInSummary < t.TokensInText {
		return fmt.Errorf("matcher config: tier scores must be non-increasing by priority")
	}
	return nil
}
