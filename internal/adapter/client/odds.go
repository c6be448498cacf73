package client

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"ksi-core/internal/adapter/store"
	"ksi-core/internal/config"
	"ksi-core/internal/domain/entity"
	"ksi-core/internal/domain/repository"
)

const oddsAPIBaseURL = "https://api.the-odds-api.com/v4"

type oddsAPIEvent struct {
	HomeTeam     string `json:"home_team"`
	AwayTeam     string `json:"away_team"`
	CommenceTime string `json:"commence_time"`
	Bookmakers   []struct {
		Title   string `json:"title"`
		Markets []struct {
			Key      string `json:"key"`
			Outcomes []struct {
				Name  string  `json:"name"`
				Price float64 `json:"price"`
			} `json:"outcomes"`
		} `json:"markets"`
	} `json:"bookmakers"`
}

// OddsAPI wraps the-odds-api.com for pre-match head-to-head odds.
// The free tier is 500 requests per month, so results are cached for
// a full day.
type OddsAPI struct {
	apiKey  string
	baseURL string
	http    *http.Client
	league  config.League
	cache   repository.Cache
	ttl     time.Duration
}

func NewOddsAPI(apiKey string, league config.League, cache repository.Cache, ttl time.Duration) *OddsAPI {
	return &OddsAPI{
		apiKey:  apiKey,
		baseURL: oddsAPIBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		league:  league,
		cache:   cache,
		ttl:     ttl,
	}
}

func (o *OddsAPI) UpcomingOdds(ctx context.Context) []entity.MatchOdds {
	if o.apiKey == "" {
		return nil
	}

	key := "odds:" + o.league.OddsSportKey
	odds, err := store.Through(ctx, o.cache, key, o.ttl, o.fetchOdds)
	if err != nil {
		log.Printf("[ODDS] odds fetch failed: %v", err)
		return nil
	}
	return odds
}

func (o *OddsAPI) fetchOdds(ctx context.Context) ([]entity.MatchOdds, error) {
	params := url.Values{}
	params.Set("apiKey", o.apiKey)
	params.Set("regions", "eu")
	params.Set("markets", "h2h")
	params.Set("oddsFormat", "decimal")

	endpoint := fmt.Sprintf("%s/sports/%s/odds/?%s", o.baseURL, o.league.OddsSportKey, params.Encode())

	var events []oddsAPIEvent
	if err := getJSON(ctx, o.http, endpoint, nil, &events); err != nil {
		return nil, err
	}

	odds := make([]entity.MatchOdds, 0, len(events))
	for _, ev := range events {
		if len(ev.Bookmakers) == 0 {
			continue
		}
		// First bookmaker only; averaging adds little for prompt use.
		bm := ev.Bookmakers[0]

		var mo *entity.MatchOdds
		for _, market := range bm.Markets {
			if market.Key != "h2h" {
				continue
			}
			mo = &entity.MatchOdds{
				HomeTeam:  ev.HomeTeam,
				AwayTeam:  ev.AwayTeam,
				Bookmaker: bm.Title,
				Kickoff:   parseCommenceTime(ev.CommenceTime),
			}
			for _, outcome := range market.Outcomes {
				switch {
				case outcome.Name == ev.HomeTeam:
					mo.Home = outcome.Price
				case outcome.Name == ev.AwayTeam:
					mo.Away = outcome.Price
				case strings.EqualFold(outcome.Name, "draw"):
					mo.Draw = outcome.Price
				}
			}
			break
		}
		if mo != nil && (mo.Home > 0 || mo.Draw > 0 || mo.Away > 0) {
			odds = append(odds, *mo)
		}
	}

	sort.Slice(odds, func(i, j int) bool { return odds[i].Kickoff.Before(odds[j].Kickoff) })
	return odds, nil
}

func parseCommenceTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Now()
}
