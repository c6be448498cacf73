// Package config resolves service configuration from embedded YAML
// defaults plus environment variables. API keys live only in the
// environment; a missing key disables the corresponding source
// instead of failing the service.
package config

import (
	"embed"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// Duration lets YAML carry values like "6h" or "15m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	dur, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(dur)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Feed is one RSS feed to poll for news.
type Feed struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// League identifies the covered league in each upstream API.
type League struct {
	Name          string `yaml:"name"`
	SportsDBID    string `yaml:"sportsdb_id"`
	APIFootballID int    `yaml:"api_football_id"`
	Season        string `yaml:"season"`
	OddsSportKey  string `yaml:"odds_sport_key"`
}

// CacheTTLs holds per-source cache durations. Volatile data (odds,
// news) gets short TTLs, slow-changing data (standings, stats) long
// ones.
type CacheTTLs struct {
	Stats  Duration `yaml:"stats_ttl"`
	Odds   Duration `yaml:"odds_ttl"`
	H2H    Duration `yaml:"h2h_ttl"`
	News   Duration `yaml:"news_ttl"`
	Search Duration `yaml:"search_ttl"`
}

// RateLimit is the fixed-window request budget per client.
type RateLimit struct {
	Requests int      `yaml:"requests"`
	Window   Duration `yaml:"window"`
}

// Limits caps how many records each source contributes to the
// context. These static caps are the token-budget control.
type Limits struct {
	StandingsRows    int `yaml:"standings_rows"`
	RecentResults    int `yaml:"recent_results"`
	UpcomingFixtures int `yaml:"upcoming_fixtures"`
	FormTeams        int `yaml:"form_teams"`
	H2HFixtures      int `yaml:"h2h_fixtures"`
	TopScorers       int `yaml:"top_scorers"`
	InjuriesPerTeam  int `yaml:"injuries_per_team"`
	OddsFixtures     int `yaml:"odds_fixtures"`
	SearchArticles   int `yaml:"search_articles"`
	RSSArticles      int `yaml:"rss_articles"`
}

// Model selects the Gemini models and the semantic-cache threshold.
type Model struct {
	Primary          string  `yaml:"primary"`
	Fallback         string  `yaml:"fallback"`
	Embedding        string  `yaml:"embedding"`
	AnswerSimilarity float32 `yaml:"answer_similarity"`
}

type Config struct {
	League    League    `yaml:"league"`
	Feeds     []Feed    `yaml:"feeds"`
	Cache     CacheTTLs `yaml:"cache"`
	RateLimit RateLimit `yaml:"rate_limit"`
	Limits    Limits    `yaml:"limits"`
	Model     Model     `yaml:"model"`

	// Environment-driven (keys and addresses, never in YAML)
	Port             string
	RedisAddr        string
	QdrantHost       string
	QdrantPort       int
	QdrantCollection string
	GoogleProject    string
	GoogleLocation   string
	BraveSearchKey   string
	OddsAPIKey       string
	APIFootballKey   string
}

// Load parses the embedded defaults and overlays the environment.
func Load() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}

	cfg.Port = envOr("PORT", "8080")
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.QdrantHost = os.Getenv("QDRANT_HOST")
	cfg.QdrantPort, _ = strconv.Atoi(os.Getenv("QDRANT_PORT"))
	cfg.QdrantCollection = envOr("QDRANT_COLLECTION", "ksi_answers")
	cfg.GoogleProject = os.Getenv("GOOGLE_CLOUD_PROJECT")
	cfg.GoogleLocation = os.Getenv("GOOGLE_CLOUD_LOCATION")
	cfg.BraveSearchKey = os.Getenv("BRAVE_SEARCH_API_KEY")
	cfg.OddsAPIKey = os.Getenv("ODDS_API_KEY")
	cfg.APIFootballKey = os.Getenv("RAPIDAPI_KEY")

	if n, err := strconv.Atoi(os.Getenv("RATE_LIMIT_REQUESTS")); err == nil && n > 0 {
		cfg.RateLimit.Requests = n
	}
	if d, err := time.ParseDuration(os.Getenv("RATE_LIMIT_WINDOW")); err == nil && d > 0 {
		cfg.RateLimit.Window = Duration(d)
	}

	return &cfg, nil
}

// HasBraveSearch reports whether the search API is configured.
func (c *Config) HasBraveSearch() bool { return c.BraveSearchKey != "" }

// HasOddsAPI reports whether the odds API is configured.
func (c *Config) HasOddsAPI() bool { return c.OddsAPIKey != "" }

// HasAPIFootball reports whether the player-stats API is configured.
func (c *Config) HasAPIFootball() bool { return c.APIFootballKey != "" }

// HasQdrant reports whether the semantic answer cache is configured.
func (c *Config) HasQdrant() bool { return c.QdrantHost != "" }

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
