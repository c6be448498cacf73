package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ksi-core/internal/config"
	"ksi-core/internal/domain/entity"
	"ksi-core/internal/usecase"
)

type stubLimiter struct {
	allowed     bool
	retryAfter  time.Duration
	gotClientID string
}

func (s *stubLimiter) Allow(_ context.Context, clientID string) (bool, time.Duration, error) {
	s.gotClientID = clientID
	return s.allowed, s.retryAfter, nil
}

type stubProvider struct {
	chunks []string
}

func (s *stubProvider) Generate(context.Context, string, []entity.ConversationTurn) (string, error) {
	return strings.Join(s.chunks, ""), nil
}

func (s *stubProvider) Stream(_ context.Context, _ string, _ []entity.ConversationTurn, emit func(string) error) error {
	for _, c := range s.chunks {
		if err := emit(c); err != nil {
			return err
		}
	}
	return nil
}

type stubSearcher struct {
	articles []entity.NewsArticle
}

func (s *stubSearcher) Search(context.Context, string, int) []entity.NewsArticle {
	return s.articles
}

type stubFeedSource struct{}

func (stubFeedSource) Latest(context.Context, int) []entity.NewsArticle { return nil }

type stubStats struct {
	standings []entity.StandingEntry
}

func (s *stubStats) Standings(context.Context) []entity.StandingEntry   { return s.standings }
func (s *stubStats) RecentResults(context.Context) []entity.MatchResult { return nil }
func (s *stubStats) UpcomingFixtures(context.Context) []entity.Fixture  { return nil }
func (s *stubStats) TeamForm(context.Context) []entity.TeamForm         { return nil }
func (s *stubStats) HeadToHead(context.Context) []entity.HeadToHead     { return nil }

type stubPlayers struct{}

func (stubPlayers) TopScorers(context.Context) []entity.PlayerStat { return nil }
func (stubPlayers) Injuries(context.Context) []entity.InjuryReport { return nil }

type stubOdds struct{}

func (stubOdds) UpcomingOdds(context.Context) []entity.MatchOdds { return nil }

func testConfig() *config.Config {
	return &config.Config{
		League: config.League{Name: "Bundesliga", Season: "2025-2026"},
		Feeds:  []config.Feed{{Name: "kicker-aktuell", URL: "https://example.test/feed"}},
		Limits: config.Limits{
			StandingsRows: 10, RecentResults: 5, UpcomingFixtures: 5, FormTeams: 5,
			H2HFixtures: 5, TopScorers: 5, InjuriesPerTeam: 3, OddsFixtures: 5,
			SearchArticles: 5, RSSArticles: 10,
		},
	}
}

func newTestApp(limiter *stubLimiter) *fiber.App {
	cfg := testConfig()
	search := &stubSearcher{articles: []entity.NewsArticle{
		{Title: "Kane trifft", Content: "Zwei Tore.", Source: "kicker_search", Timestamp: time.Now()},
		{Title: "BVB siegt", Content: "Später Treffer.", Source: "kicker_search", Timestamp: time.Now()},
		{Title: "Leipzig remis", Content: "Torloses Spiel.", Source: "kicker_search", Timestamp: time.Now()},
	}}
	news := usecase.NewNewsChain(search, stubFeedSource{}, cfg.Limits.SearchArticles, cfg.Limits.RSSArticles)
	stats := &stubStats{standings: []entity.StandingEntry{
		{Rank: 1, Team: "FC Bayern", Played: 2, Points: 6, GoalsFor: 7, GoalsAgainst: 1},
	}}
	assembler := usecase.NewAssembler(news, stats, stubPlayers{}, stubOdds{}, cfg.Limits, cfg.League)
	orch := usecase.NewOrchestrator(limiter, assembler, &stubProvider{chunks: []string{"Bayern ", "führt."}})

	app := fiber.New()
	SetupRouter(app, NewHandler(orch, usecase.NewFeed(news), cfg))
	return app
}

func chatBody(message string) *strings.Reader {
	return strings.NewReader(`{"messages":[{"role":"user","content":"` + message + `"}]}`)
}

func TestChatStreamsSSE(t *testing.T) {
	app := newTestApp(&stubLimiter{allowed: true})

	req := httptest.NewRequest("POST", "/v1/chat", chatBody("Zeig mir die Tabelle"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(body)

	assert.Contains(t, text, `data: {"content":"Bayern "}`)
	assert.Contains(t, text, `data: {"content":"führt."}`)
	assert.Contains(t, text, "event: done")
	assert.Contains(t, text, `"category":"standings"`)
	assert.Contains(t, text, `"standings":"ok"`)
	assert.Contains(t, text, `"odds":"skipped"`)
}

func TestChatRejectsInvalidBody(t *testing.T) {
	app := newTestApp(&stubLimiter{allowed: true})

	req := httptest.NewRequest("POST", "/v1/chat", strings.NewReader("{broken"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	app := newTestApp(&stubLimiter{allowed: true})

	req := httptest.NewRequest("POST", "/v1/chat", strings.NewReader(`{"messages":[]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestChatRateLimited(t *testing.T) {
	app := newTestApp(&stubLimiter{allowed: false, retryAfter: 30 * time.Second})

	req := httptest.NewRequest("POST", "/v1/chat", chatBody("Tabelle"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "30", resp.Header.Get("Retry-After"))

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.EqualValues(t, 30, payload["retry_after_seconds"])
}

func TestFeedEndpoint(t *testing.T) {
	app := newTestApp(&stubLimiter{allowed: true})

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/feed?persona=fantasy_player&maxResults=2", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var feed entity.FeedResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&feed))
	assert.Equal(t, entity.PersonaFantasyPlayer, feed.Persona)
	assert.Equal(t, 2, feed.Count)
	assert.Equal(t, "Kane trifft", feed.Articles[0].Headline)
}

func TestFeedEndpointLimitAlias(t *testing.T) {
	app := newTestApp(&stubLimiter{allowed: true})

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/feed?limit=1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var feed entity.FeedResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&feed))
	assert.Equal(t, 1, feed.Count)
}

func TestChatClientIDHeader(t *testing.T) {
	limiter := &stubLimiter{allowed: true}
	app := newTestApp(limiter)

	req := httptest.NewRequest("POST", "/v1/chat", chatBody("Tabelle"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-ID", "tester-42")

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "tester-42", limiter.gotClientID)

	// Without the header the remote address identifies the client.
	req = httptest.NewRequest("POST", "/v1/chat", chatBody("Tabelle"))
	req.Header.Set("Content-Type", "application/json")

	resp, err = app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, limiter.gotClientID)
	assert.NotEqual(t, "tester-42", limiter.gotClientID)
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(&stubLimiter{allowed: true})

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Status  string          `json:"status"`
		Sources map[string]bool `json:"sources"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "healthy", payload.Status)
	assert.True(t, payload.Sources["stats"])
	assert.True(t, payload.Sources["news_rss"])
	assert.False(t, payload.Sources["odds"])
}
