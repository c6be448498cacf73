package usecase

import (
	"context"
	"sync"
	"time"

	"ksi-core/internal/config"
	"ksi-core/internal/domain/entity"
)

// Shared test doubles for the use-case layer. All fakes absorb
// concurrency the same way the real adapters do.

type fakeSearcher struct {
	articles []entity.NewsArticle
	calls    int
	gotQuery string
	gotMax   int
}

func (f *fakeSearcher) Search(_ context.Context, query string, max int) []entity.NewsArticle {
	f.calls++
	f.gotQuery = query
	f.gotMax = max
	if len(f.articles) > max {
		return f.articles[:max]
	}
	return f.articles
}

type fakeFeedSource struct {
	articles []entity.NewsArticle
	calls    int
}

func (f *fakeFeedSource) Latest(_ context.Context, max int) []entity.NewsArticle {
	f.calls++
	if len(f.articles) > max {
		return f.articles[:max]
	}
	return f.articles
}

type fakeStats struct {
	standings []entity.StandingEntry
	results   []entity.MatchResult
	fixtures  []entity.Fixture
	forms     []entity.TeamForm
	h2h       []entity.HeadToHead

	standingsCalls int
	resultsCalls   int
	fixturesCalls  int
	formCalls      int
	h2hCalls       int
}

func (f *fakeStats) Standings(context.Context) []entity.StandingEntry {
	f.standingsCalls++
	return f.standings
}

func (f *fakeStats) RecentResults(context.Context) []entity.MatchResult {
	f.resultsCalls++
	return f.results
}

func (f *fakeStats) UpcomingFixtures(context.Context) []entity.Fixture {
	f.fixturesCalls++
	return f.fixtures
}

func (f *fakeStats) TeamForm(context.Context) []entity.TeamForm {
	f.formCalls++
	return f.forms
}

func (f *fakeStats) HeadToHead(context.Context) []entity.HeadToHead {
	f.h2hCalls++
	return f.h2h
}

type fakePlayers struct {
	scorers  []entity.PlayerStat
	injuries []entity.InjuryReport

	scorersCalls  int
	injuriesCalls int
}

func (f *fakePlayers) TopScorers(context.Context) []entity.PlayerStat {
	f.scorersCalls++
	return f.scorers
}

func (f *fakePlayers) Injuries(context.Context) []entity.InjuryReport {
	f.injuriesCalls++
	return f.injuries
}

type fakeOdds struct {
	odds  []entity.MatchOdds
	calls int
}

func (f *fakeOdds) UpcomingOdds(context.Context) []entity.MatchOdds {
	f.calls++
	return f.odds
}

type fakeLimiter struct {
	allowed    bool
	retryAfter time.Duration
	err        error
	calls      int
}

func (f *fakeLimiter) Allow(context.Context, string) (bool, time.Duration, error) {
	f.calls++
	return f.allowed, f.retryAfter, f.err
}

type fakeProvider struct {
	chunks    []string
	streamErr error
	answer    string

	streamCalls int
	gotSystem   string
	gotTurns    []entity.ConversationTurn
}

func (f *fakeProvider) Generate(_ context.Context, system string, turns []entity.ConversationTurn) (string, error) {
	f.gotSystem = system
	f.gotTurns = turns
	return f.answer, f.streamErr
}

func (f *fakeProvider) Stream(_ context.Context, system string, turns []entity.ConversationTurn, emit func(string) error) error {
	f.streamCalls++
	f.gotSystem = system
	f.gotTurns = turns
	for _, c := range f.chunks {
		if err := emit(c); err != nil {
			return err
		}
	}
	return f.streamErr
}

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) CreateEmbedding(context.Context, string) ([]float32, error) {
	return f.vec, f.err
}

type fakeAnswers struct {
	mu sync.Mutex

	query     string
	answer    string
	searchErr error

	savedQueries []string
	savedAnswers []string
}

func (f *fakeAnswers) Search(context.Context, []float32, float32) (string, string, error) {
	return f.query, f.answer, f.searchErr
}

func (f *fakeAnswers) Save(_ context.Context, query, answer string, _ []float32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.savedQueries = append(f.savedQueries, query)
	f.savedAnswers = append(f.savedAnswers, answer)
	return nil
}

type fakeJudge struct {
	match bool
	calls int
}

func (f *fakeJudge) IsMatch(context.Context, string, string) bool {
	f.calls++
	return f.match
}

func testLimits() config.Limits {
	return config.Limits{
		StandingsRows:    3,
		RecentResults:    3,
		UpcomingFixtures: 3,
		FormTeams:        3,
		H2HFixtures:      3,
		TopScorers:       3,
		InjuriesPerTeam:  2,
		OddsFixtures:     3,
		SearchArticles:   5,
		RSSArticles:      5,
	}
}

func testLeague() config.League {
	return config.League{
		Name:          "Bundesliga",
		SportsDBID:    "4331",
		APIFootballID: 78,
		Season:        "2025-2026",
		OddsSportKey:  "soccer_germany_bundesliga",
	}
}
