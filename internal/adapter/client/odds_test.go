package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ksi-core/internal/adapter/store"
)

func newOddsServer(t *testing.T) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var requests atomic.Int64

	mux := http.NewServeMux()
	mux.HandleFunc("/sports/soccer_germany_bundesliga/odds/", func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		q := r.URL.Query()
		assert.Equal(t, "eu", q.Get("regions"))
		assert.Equal(t, "h2h", q.Get("markets"))
		assert.Equal(t, "decimal", q.Get("oddsFormat"))
		assert.NotEmpty(t, q.Get("apiKey"))

		fmt.Fprint(w, `[
			{
				"home_team":"VfB Stuttgart","away_team":"SC Freiburg",
				"commence_time":"2026-09-06T15:30:00Z",
				"bookmakers":[{"title":"Betway","markets":[{"key":"h2h","outcomes":[
					{"name":"VfB Stuttgart","price":1.95},
					{"name":"SC Freiburg","price":3.80},
					{"name":"Draw","price":3.60}
				]}]}]
			},
			{
				"home_team":"BVB","away_team":"FC Bayern",
				"commence_time":"2026-09-05T18:30:00Z",
				"bookmakers":[{"title":"Betfair","markets":[{"key":"h2h","outcomes":[
					{"name":"BVB","price":3.40},
					{"name":"FC Bayern","price":2.00},
					{"name":"Draw","price":3.90}
				]}]}]
			},
			{
				"home_team":"Mainz","away_team":"Augsburg",
				"commence_time":"2026-09-06T15:30:00Z",
				"bookmakers":[]
			}
		]`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestOddsAPIUpcomingOdds(t *testing.T) {
	srv, _ := newOddsServer(t)
	o := NewOddsAPI("test-key", testLeague(), store.NewMemoryCache(), time.Minute)
	o.baseURL = srv.URL

	odds := o.UpcomingOdds(context.Background())
	require.Len(t, odds, 2, "events without bookmakers are dropped")

	// Sorted by kickoff, earliest first.
	assert.Equal(t, "BVB", odds[0].HomeTeam)
	assert.Equal(t, 3.40, odds[0].Home)
	assert.Equal(t, 3.90, odds[0].Draw)
	assert.Equal(t, 2.00, odds[0].Away)
	assert.Equal(t, "Betfair", odds[0].Bookmaker)
	assert.Equal(t, "VfB Stuttgart", odds[1].HomeTeam)
}

func TestOddsAPICached(t *testing.T) {
	srv, requests := newOddsServer(t)
	o := NewOddsAPI("test-key", testLeague(), store.NewMemoryCache(), time.Minute)
	o.baseURL = srv.URL

	o.UpcomingOdds(context.Background())
	o.UpcomingOdds(context.Background())
	assert.Equal(t, int64(1), requests.Load())
}

func TestOddsAPIWithoutKey(t *testing.T) {
	srv, requests := newOddsServer(t)
	o := NewOddsAPI("", testLeague(), store.NewMemoryCache(), time.Minute)
	o.baseURL = srv.URL

	assert.Empty(t, o.UpcomingOdds(context.Background()))
	assert.Zero(t, requests.Load(), "a missing key must not spend quota")
}

func TestOddsAPIUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	o := NewOddsAPI("test-key", testLeague(), store.NewMemoryCache(), time.Minute)
	o.baseURL = srv.URL

	assert.Empty(t, o.UpcomingOdds(context.Background()))
}
