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
	"ksi-core/internal/config"
)

const testRSSBody = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>kicker News</title>
	<item>
		<title>Bayern gewinnt den Klassiker</title>
		<link>https://www.kicker.de/klassiker</link>
		<description>&lt;p&gt;Der FC Bayern schlägt Dortmund mit 2:1.&lt;/p&gt;</description>
		<pubDate>Fri, 28 Aug 2026 20:30:00 +0200</pubDate>
	</item>
	<item>
		<title>Quarterback wechselt das Team</title>
		<link>https://www.kicker.de/nfl</link>
		<description>NFL Trade News.</description>
		<pubDate>Fri, 28 Aug 2026 18:00:00 +0200</pubDate>
	</item>
	<item>
		<title>Bundesliga Spieltag im Überblick</title>
		<link>https://www.kicker.de/spieltag</link>
		<description>Alle Partien des Wochenendes.</description>
		<pubDate>Fri, 28 Aug 2026 17:00:00 +0200</pubDate>
	</item>
	<item>
		<title>Bayern gewinnt den Klassiker (Kopie)</title>
		<link>https://www.kicker.de/klassiker</link>
		<description>Duplikat mit gleichem Link.</description>
	</item>
</channel>
</rss>`

func newRSSServer(t *testing.T) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, testRSSBody)
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestKickerRSSLatest(t *testing.T) {
	srv, _ := newRSSServer(t)
	k := NewKickerRSS([]config.Feed{{Name: "news", URL: srv.URL}}, store.NewMemoryCache(), time.Minute)

	articles := k.Latest(context.Background(), 10)
	require.Len(t, articles, 2, "NFL item and duplicate link must be dropped")

	assert.Equal(t, "Bayern gewinnt den Klassiker", articles[0].Title)
	assert.Equal(t, "kicker_rss:news", articles[0].Source)
	assert.Equal(t, "Der FC Bayern schlägt Dortmund mit 2:1.", articles[0].Content, "HTML tags are stripped")
	assert.Empty(t, articles[0].Category, "classification is left to the consumer")
	assert.Equal(t, "Bundesliga Spieltag im Überblick", articles[1].Title)
}

func TestKickerRSSRespectsMax(t *testing.T) {
	srv, _ := newRSSServer(t)
	k := NewKickerRSS([]config.Feed{{Name: "news", URL: srv.URL}}, store.NewMemoryCache(), time.Minute)

	articles := k.Latest(context.Background(), 1)
	assert.Len(t, articles, 1)
}

func TestKickerRSSCached(t *testing.T) {
	srv, requests := newRSSServer(t)
	k := NewKickerRSS([]config.Feed{{Name: "news", URL: srv.URL}}, store.NewMemoryCache(), time.Minute)

	k.Latest(context.Background(), 10)
	k.Latest(context.Background(), 10)
	assert.Equal(t, int64(1), requests.Load())
}

func TestKickerRSSFeedFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	k := NewKickerRSS([]config.Feed{{Name: "broken", URL: srv.URL}}, store.NewMemoryCache(), time.Minute)
	assert.Empty(t, k.Latest(context.Background(), 10))
}

func TestIsBundesligaContent(t *testing.T) {
	assert.True(t, isBundesligaContent("Leverkusen verlängert mit dem Trainer", ""))
	assert.True(t, isBundesligaContent("Spieltag kompakt", "Alle Bundesliga Ergebnisse"))
	assert.False(t, isBundesligaContent("NBA Finals", "Basketball pur"))
	assert.False(t, isBundesligaContent("Serie A am Sonntag", "Juventus gegen Milan"))
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "Hallo Welt", stripHTML("<p>Hallo <b>Welt</b></p>"))
	assert.Equal(t, "ohne Tags", stripHTML("ohne   Tags"))
}
