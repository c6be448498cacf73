package client

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"ksi-core/internal/adapter/store"
	"ksi-core/internal/config"
	"ksi-core/internal/domain/entity"
	"ksi-core/internal/domain/repository"
)

const apiFootballBaseURL = "https://v3.football.api-sports.io"

type apiFootballScorersResponse struct {
	Response []struct {
		Player struct {
			Name string `json:"name"`
		} `json:"player"`
		Statistics []struct {
			Team struct {
				Name string `json:"name"`
			} `json:"team"`
			Games struct {
				Position    string `json:"position"`
				Appearances int    `json:"appearences"` // upstream typo is part of the API
				Minutes     int    `json:"minutes"`
			} `json:"games"`
			Goals struct {
				Total   int `json:"total"`
				Assists int `json:"assists"`
			} `json:"goals"`
			Cards struct {
				Yellow int `json:"yellow"`
				Red    int `json:"red"`
			} `json:"cards"`
		} `json:"statistics"`
	} `json:"response"`
}

type apiFootballInjuriesResponse struct {
	Response []struct {
		Player struct {
			Name   string `json:"name"`
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"player"`
		Team struct {
			Name string `json:"name"`
		} `json:"team"`
	} `json:"response"`
}

// APIFootball wraps the api-sports.io football API for player stats
// and injury reports. Without a key both methods return empty, which
// simply drops those sections from the context.
type APIFootball struct {
	apiKey  string
	baseURL string
	http    *http.Client
	league  config.League
	cache   repository.Cache
	ttl     time.Duration
}

func NewAPIFootball(apiKey string, league config.League, cache repository.Cache, ttl time.Duration) *APIFootball {
	return &APIFootball{
		apiKey:  apiKey,
		baseURL: apiFootballBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		league:  league,
		cache:   cache,
		ttl:     ttl,
	}
}

func (a *APIFootball) season() string {
	// Config season is "2025-2026"; API-Football wants the start year.
	if len(a.league.Season) >= 4 {
		return a.league.Season[:4]
	}
	return a.league.Season
}

func (a *APIFootball) TopScorers(ctx context.Context) []entity.PlayerStat {
	if a.apiKey == "" {
		return nil
	}

	key := fmt.Sprintf("scorers:%d:%s", a.league.APIFootballID, a.season())
	stats, err := store.Through(ctx, a.cache, key, a.ttl, a.fetchTopScorers)
	if err != nil {
		log.Printf("[PLAYERS] top scorers fetch failed: %v", err)
		return nil
	}
	return stats
}

func (a *APIFootball) fetchTopScorers(ctx context.Context) ([]entity.PlayerStat, error) {
	url := fmt.Sprintf("%s/players/topscorers?league=%d&season=%s", a.baseURL, a.league.APIFootballID, a.season())

	var resp apiFootballScorersResponse
	if err := getJSON(ctx, a.http, url, map[string]string{"x-apisports-key": a.apiKey}, &resp); err != nil {
		return nil, err
	}

	stats := make([]entity.PlayerStat, 0, len(resp.Response))
	for _, p := range resp.Response {
		if len(p.Statistics) == 0 {
			continue
		}
		st := p.Statistics[0]
		stats = append(stats, entity.PlayerStat{
			Name:          p.Player.Name,
			Team:          st.Team.Name,
			Position:      st.Games.Position,
			Appearances:   st.Games.Appearances,
			MinutesPlayed: st.Games.Minutes,
			Goals:         st.Goals.Total,
			Assists:       st.Goals.Assists,
			YellowCards:   st.Cards.Yellow,
			RedCards:      st.Cards.Red,
			Season:        a.league.Season,
		})
	}
	return stats, nil
}

func (a *APIFootball) Injuries(ctx context.Context) []entity.InjuryReport {
	if a.apiKey == "" {
		return nil
	}

	key := fmt.Sprintf("injuries:%d:%s", a.league.APIFootballID, a.season())
	reports, err := store.Through(ctx, a.cache, key, a.ttl, a.fetchInjuries)
	if err != nil {
		log.Printf("[PLAYERS] injuries fetch failed: %v", err)
		return nil
	}
	return reports
}

func (a *APIFootball) fetchInjuries(ctx context.Context) ([]entity.InjuryReport, error) {
	url := fmt.Sprintf("%s/injuries?league=%d&season=%s", a.baseURL, a.league.APIFootballID, a.season())

	var resp apiFootballInjuriesResponse
	if err := getJSON(ctx, a.http, url, map[string]string{"x-apisports-key": a.apiKey}, &resp); err != nil {
		return nil, err
	}

	reports := make([]entity.InjuryReport, 0, len(resp.Response))
	for _, r := range resp.Response {
		if r.Player.Name == "" {
			continue
		}
		reports = append(reports, entity.InjuryReport{
			Player: r.Player.Name,
			Team:   r.Team.Name,
			Type:   r.Player.Type,
			Reason: r.Player.Reason,
		})
	}
	return reports, nil
}
