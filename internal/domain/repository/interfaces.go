package repository

import (
	"context"
	"time"

	"ksi-core/internal/domain/entity"
)

// Cache is a key/value store with per-entry TTL. Implementations
// absorb backend failures: Get reports a miss, Set is a no-op. An
// unavailable store therefore degrades to pass-through, never to an
// error surfaced to the caller.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// RequestLimiter enforces a fixed-window request budget per client.
// retryAfter is only meaningful when allowed is false.
type RequestLimiter interface {
	Allow(ctx context.Context, clientID string) (allowed bool, retryAfter time.Duration, err error)
}

// AIProvider generates model answers. Stream forwards answer chunks
// through emit as they arrive; a non-nil emit error aborts the stream.
type AIProvider interface {
	Generate(ctx context.Context, system string, turns []entity.ConversationTurn) (string, error)
	Stream(ctx context.Context, system string, turns []entity.ConversationTurn, emit func(chunk string) error) error
}

// Embedder turns text into a vector for the semantic answer cache.
type Embedder interface {
	CreateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// AnswerStore caches finished model answers keyed by query embedding.
type AnswerStore interface {
	Search(ctx context.Context, vector []float32, threshold float32) (query string, answer string, err error)
	Save(ctx context.Context, query, answer string, vector []float32) error
}

// IntentJudge confirms that two queries ask for the same thing. Used
// to double-check borderline semantic cache hits.
type IntentJudge interface {
	IsMatch(ctx context.Context, userQuery, cachedQuery string) bool
}

// NewsSearcher finds articles matching a query (the primary news
// source). Failures and missing configuration both yield an empty
// slice; the fallback chain reacts to emptiness, not errors.
type NewsSearcher interface {
	Search(ctx context.Context, query string, max int) []entity.NewsArticle
}

// NewsFeed returns the latest articles from the RSS feeds (the
// secondary news source).
type NewsFeed interface {
	Latest(ctx context.Context, max int) []entity.NewsArticle
}

// StatsSource wraps the league-stats API (standings, results,
// fixtures, form, head-to-head).
type StatsSource interface {
	Standings(ctx context.Context) []entity.StandingEntry
	RecentResults(ctx context.Context) []entity.MatchResult
	UpcomingFixtures(ctx context.Context) []entity.Fixture
	TeamForm(ctx context.Context) []entity.TeamForm
	HeadToHead(ctx context.Context) []entity.HeadToHead
}

// PlayerSource wraps the player-stats API.
type PlayerSource interface {
	TopScorers(ctx context.Context) []entity.PlayerStat
	Injuries(ctx context.Context) []entity.InjuryReport
}

// OddsSource wraps the betting-odds API.
type OddsSource interface {
	UpcomingOdds(ctx context.Context) []entity.MatchOdds
}
