package client

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"ksi-core/internal/adapter/store"
	"ksi-core/internal/config"
	"ksi-core/internal/domain/entity"
	"ksi-core/internal/domain/repository"
)

// Free-tier endpoint, no API key required.
const sportsDBBaseURL = "https://www.thesportsdb.com/api/v1/json/3"

// TheSportsDB numeric fields arrive as strings and are occasionally
// missing; every conversion defaults to zero rather than dropping the
// whole record.
type sportsDBTableRow struct {
	Rank         string `json:"intRank"`
	Team         string `json:"strTeam"`
	TeamID       string `json:"idTeam"`
	Played       string `json:"intPlayed"`
	Points       string `json:"intPoints"`
	GoalsFor     string `json:"intGoalsFor"`
	GoalsAgainst string `json:"intGoalsAgainst"`
}

type sportsDBEvent struct {
	EventID    string  `json:"idEvent"`
	HomeTeam   string  `json:"strHomeTeam"`
	AwayTeam   string  `json:"strAwayTeam"`
	HomeTeamID string  `json:"idHomeTeam"`
	AwayTeamID string  `json:"idAwayTeam"`
	HomeScore  *string `json:"intHomeScore"`
	AwayScore  *string `json:"intAwayScore"`
	League     string  `json:"strLeague"`
	Date       string  `json:"dateEvent"`
	Timestamp  string  `json:"strTimestamp"`
}

type sportsDBTableResponse struct {
	Table []sportsDBTableRow `json:"table"`
}

type sportsDBEventsResponse struct {
	Events []sportsDBEvent `json:"events"`
}

type sportsDBLastEventsResponse struct {
	Results []sportsDBEvent `json:"results"`
}

// SportsDB wraps TheSportsDB for standings, results, fixtures, the
// form guide and head-to-head records. Every method absorbs upstream
// failures into an empty result.
type SportsDB struct {
	baseURL string
	http    *http.Client
	league  config.League
	limits  config.Limits
	cache   repository.Cache
	ttl     time.Duration

	// Head-to-head needs one extra request per fixture, so it gets its
	// own, longer TTL.
	h2hTTL time.Duration
}

func NewSportsDB(league config.League, limits config.Limits, cache repository.Cache, ttl, h2hTTL time.Duration) *SportsDB {
	return &SportsDB{
		baseURL: sportsDBBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		league:  league,
		limits:  limits,
		cache:   cache,
		ttl:     ttl,
		h2hTTL:  h2hTTL,
	}
}

func (s *SportsDB) Standings(ctx context.Context) []entity.StandingEntry {
	key := fmt.Sprintf("standings:%s:%s", s.league.SportsDBID, s.league.Season)
	rows, err := store.Through(ctx, s.cache, key, s.ttl, s.fetchStandings)
	if err != nil {
		log.Printf("[STATS] standings fetch failed: %v", err)
		return nil
	}
	return rows
}

func (s *SportsDB) fetchStandings(ctx context.Context) ([]entity.StandingEntry, error) {
	url := fmt.Sprintf("%s/lookuptable.php?l=%s&s=%s", s.baseURL, s.league.SportsDBID, s.league.Season)

	var resp sportsDBTableResponse
	if err := getJSON(ctx, s.http, url, nil, &resp); err != nil {
		return nil, err
	}

	entries := make([]entity.StandingEntry, 0, len(resp.Table))
	for _, row := range resp.Table {
		if row.Team == "" {
			continue
		}
		entries = append(entries, entity.StandingEntry{
			Rank:         atoi(row.Rank),
			Team:         row.Team,
			TeamID:       row.TeamID,
			Played:       atoi(row.Played),
			Points:       atoi(row.Points),
			GoalsFor:     atoi(row.GoalsFor),
			GoalsAgainst: atoi(row.GoalsAgainst),
		})
	}
	return entries, nil
}

func (s *SportsDB) RecentResults(ctx context.Context) []entity.MatchResult {
	key := "results:" + s.league.SportsDBID
	results, err := store.Through(ctx, s.cache, key, s.ttl, s.fetchRecentResults)
	if err != nil {
		log.Printf("[STATS] results fetch failed: %v", err)
		return nil
	}
	return results
}

func (s *SportsDB) fetchRecentResults(ctx context.Context) ([]entity.MatchResult, error) {
	url := fmt.Sprintf("%s/eventspastleague.php?id=%s", s.baseURL, s.league.SportsDBID)

	var resp sportsDBEventsResponse
	if err := getJSON(ctx, s.http, url, nil, &resp); err != nil {
		return nil, err
	}

	results := make([]entity.MatchResult, 0, len(resp.Events))
	for _, ev := range resp.Events {
		if ev.HomeScore == nil || ev.AwayScore == nil {
			continue // not played yet
		}
		results = append(results, entity.MatchResult{
			HomeTeam:  ev.HomeTeam,
			AwayTeam:  ev.AwayTeam,
			HomeScore: atoi(*ev.HomeScore),
			AwayScore: atoi(*ev.AwayScore),
			League:    ev.League,
			Date:      parseEventDate(ev),
		})
	}
	return results, nil
}

func (s *SportsDB) UpcomingFixtures(ctx context.Context) []entity.Fixture {
	key := "fixtures:" + s.league.SportsDBID
	fixtures, err := store.Through(ctx, s.cache, key, s.ttl, s.fetchUpcomingFixtures)
	if err != nil {
		log.Printf("[STATS] fixtures fetch failed: %v", err)
		return nil
	}
	return fixtures
}

func (s *SportsDB) fetchUpcomingFixtures(ctx context.Context) ([]entity.Fixture, error) {
	url := fmt.Sprintf("%s/eventsnextleague.php?id=%s", s.baseURL, s.league.SportsDBID)

	var resp sportsDBEventsResponse
	if err := getJSON(ctx, s.http, url, nil, &resp); err != nil {
		return nil, err
	}

	fixtures := make([]entity.Fixture, 0, len(resp.Events))
	for _, ev := range resp.Events {
		fixtures = append(fixtures, entity.Fixture{
			HomeTeam:   ev.HomeTeam,
			AwayTeam:   ev.AwayTeam,
			HomeTeamID: ev.HomeTeamID,
			AwayTeamID: ev.AwayTeamID,
			League:     ev.League,
			Kickoff:    parseEventDate(ev),
		})
	}
	return fixtures, nil
}

// TeamForm builds the W/D/L form guide over the last five matches for
// the top table teams. One team's failed history just drops that team
// from the guide.
func (s *SportsDB) TeamForm(ctx context.Context) []entity.TeamForm {
	key := "form:" + s.league.SportsDBID
	forms, err := store.Through(ctx, s.cache, key, s.ttl, s.fetchTeamForm)
	if err != nil {
		log.Printf("[STATS] form guide fetch failed: %v", err)
		return nil
	}
	return forms
}

func (s *SportsDB) fetchTeamForm(ctx context.Context) ([]entity.TeamForm, error) {
	standings, err := s.fetchStandings(ctx)
	if err != nil {
		return nil, err
	}
	if len(standings) > s.limits.FormTeams {
		standings = standings[:s.limits.FormTeams]
	}

	var forms []entity.TeamForm
	for _, team := range standings {
		if team.TeamID == "" {
			continue
		}
		events, err := s.fetchLastEvents(ctx, team.TeamID)
		if err != nil {
			log.Printf("[STATS] form for %s failed: %v", team.Team, err)
			continue
		}

		form := entity.TeamForm{Team: team.Team}
		for _, ev := range events {
			if len(form.Letters) >= 5 {
				break
			}
			if ev.HomeScore == nil || ev.AwayScore == nil {
				continue
			}
			home, away := atoi(*ev.HomeScore), atoi(*ev.AwayScore)

			var letter string
			switch {
			case ev.HomeTeam == team.Team && home > away,
				ev.AwayTeam == team.Team && away > home:
				letter = "W"
				form.Points += 3
			case home == away:
				letter = "D"
				form.Points++
			default:
				letter = "L"
			}
			form.Letters = append(form.Letters, letter)
		}

		if len(form.Letters) > 0 {
			forms = append(forms, form)
		}
	}
	return forms, nil
}

// HeadToHead collects the recent record for each upcoming fixture.
func (s *SportsDB) HeadToHead(ctx context.Context) []entity.HeadToHead {
	key := "h2h:" + s.league.SportsDBID
	records, err := store.Through(ctx, s.cache, key, s.h2hTTL, s.fetchHeadToHead)
	if err != nil {
		log.Printf("[STATS] h2h fetch failed: %v", err)
		return nil
	}
	return records
}

func (s *SportsDB) fetchHeadToHead(ctx context.Context) ([]entity.HeadToHead, error) {
	fixtures, err := s.fetchUpcomingFixtures(ctx)
	if err != nil {
		return nil, err
	}
	if len(fixtures) > s.limits.H2HFixtures {
		fixtures = fixtures[:s.limits.H2HFixtures]
	}

	var records []entity.HeadToHead
	for _, fx := range fixtures {
		if fx.HomeTeamID == "" || fx.AwayTeamID == "" {
			continue
		}
		rec, err := s.headToHeadRecord(ctx, fx)
		if err != nil {
			log.Printf("[STATS] h2h %s vs %s failed: %v", fx.HomeTeam, fx.AwayTeam, err)
			continue
		}
		if rec.TotalMatches > 0 {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (s *SportsDB) headToHeadRecord(ctx context.Context, fx entity.Fixture) (entity.HeadToHead, error) {
	events, err := s.fetchLastEvents(ctx, fx.HomeTeamID)
	if err != nil {
		return entity.HeadToHead{}, err
	}

	rec := entity.HeadToHead{Team1: fx.HomeTeam, Team2: fx.AwayTeam}
	for _, ev := range events {
		pair := (ev.HomeTeamID == fx.HomeTeamID && ev.AwayTeamID == fx.AwayTeamID) ||
			(ev.HomeTeamID == fx.AwayTeamID && ev.AwayTeamID == fx.HomeTeamID)
		if !pair || ev.HomeScore == nil || ev.AwayScore == nil {
			continue
		}
		home, away := atoi(*ev.HomeScore), atoi(*ev.AwayScore)
		switch {
		case home == away:
			rec.Draws++
		case (ev.HomeTeamID == fx.HomeTeamID && home > away) ||
			(ev.AwayTeamID == fx.HomeTeamID && away > home):
			rec.Team1Wins++
		default:
			rec.Team2Wins++
		}
		rec.TotalMatches++
	}
	return rec, nil
}

func (s *SportsDB) fetchLastEvents(ctx context.Context, teamID string) ([]sportsDBEvent, error) {
	url := fmt.Sprintf("%s/eventslast.php?id=%s", s.baseURL, teamID)

	var resp sportsDBLastEventsResponse
	if err := getJSON(ctx, s.http, url, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func parseEventDate(ev sportsDBEvent) time.Time {
	if ev.Timestamp != "" {
		if t, err := time.Parse(time.RFC3339, ev.Timestamp); err == nil {
			return t
		}
	}
	if ev.Date != "" {
		if t, err := time.Parse("2006-01-02", ev.Date); err == nil {
			return t
		}
	}
	return time.Now()
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
