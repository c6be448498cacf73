package client

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ksi-core/internal/adapter/store"
	"ksi-core/internal/domain/entity"
)

const braveSearchBaseURL = "https://api.search.brave.com/res/v1/web/search"

// braveTimeout is deliberately tight: search is the primary news path
// on the hot request, and the RSS fallback covers a timeout anyway.
const braveTimeout = 2 * time.Second

// Search keywords per topic, used to tag articles so the feed and the
// prompt can tell match reports from transfer gossip.
var topicKeywords = map[string][]string{
	"match":    {"spiel", "match", "sieg", "niederlage", "unentschieden", "tor", "goal"},
	"injury":   {"verletzung", "injury", "ausfall", "gesperrt", "suspended"},
	"transfer": {"transfer", "wechsel", "verpflichtet", "signing"},
	"tactics":  {"taktik", "tactics", "formation", "strategie"},
	"stats":    {"statistik", "stats", "zahlen", "rekord", "record"},
}

type braveResponse struct {
	Web struct {
		Results []struct {
			Title         string   `json:"title"`
			URL           string   `json:"url"`
			Description   string   `json:"description"`
			ExtraSnippets []string `json:"extra_snippets"`
		} `json:"results"`
	} `json:"web"`
}

// BraveSearch queries kicker.de through the Brave Search API. It is
// the primary news source; without an API key every search returns
// empty and the RSS fallback takes over.
type BraveSearch struct {
	apiKey  string
	baseURL string
	http    *http.Client

	// Session cache: repeated queries within a few minutes hit the
	// same results without spending API quota. Injected so tests get
	// a fresh one.
	session *store.MemoryCache
	ttl     time.Duration
}

func NewBraveSearch(apiKey string, session *store.MemoryCache, ttl time.Duration) *BraveSearch {
	return &BraveSearch{
		apiKey:  apiKey,
		baseURL: braveSearchBaseURL,
		http:    &http.Client{Timeout: braveTimeout},
		session: session,
		ttl:     ttl,
	}
}

// Search returns up to max kicker.de articles for the query. Any
// failure (missing key, timeout, bad payload) yields an empty slice.
func (b *BraveSearch) Search(ctx context.Context, query string, max int) []entity.NewsArticle {
	if b.apiKey == "" {
		return nil
	}

	key := "search:" + strings.ToLower(strings.TrimSpace(query))
	articles, err := store.Through(ctx, b.session, key, b.ttl, func(ctx context.Context) ([]entity.NewsArticle, error) {
		return b.fetch(ctx, query, max)
	})
	if err != nil {
		log.Printf("[SEARCH] brave search failed: %v", err)
		return nil
	}
	if len(articles) > max {
		articles = articles[:max]
	}
	return articles
}

func (b *BraveSearch) fetch(ctx context.Context, query string, max int) ([]entity.NewsArticle, error) {
	params := url.Values{}
	params.Set("q", "site:kicker.de Bundesliga "+query)
	params.Set("count", strconv.Itoa(max))
	params.Set("freshness", "pw") // past week, recency matters

	var resp braveResponse
	err := getJSON(ctx, b.http, b.baseURL+"?"+params.Encode(), map[string]string{
		"Accept":               "application/json",
		"X-Subscription-Token": b.apiKey,
	}, &resp)
	if err != nil {
		return nil, err
	}

	articles := make([]entity.NewsArticle, 0, len(resp.Web.Results))
	for _, r := range resp.Web.Results {
		content := r.Description
		if len(r.ExtraSnippets) > 0 {
			content = strings.Join(append([]string{r.Description}, r.ExtraSnippets...), "\n\n")
		}

		teams, topics := extractEntities(r.Title, content)
		articles = append(articles, entity.NewsArticle{
			Source:      "kicker_search",
			Title:       r.Title,
			Content:     content,
			URL:         r.URL,
			Timestamp:   time.Now(), // search results carry no publish date
			ArticleType: classifyArticleType(topics),
			Teams:       teams,
			Topics:      topics,
		})
	}
	return articles, nil
}

// extractEntities finds team names and topic tags in article text.
func extractEntities(title, content string) (teams, topics []string) {
	text := strings.ToLower(title + " " + content)

	seen := make(map[string]bool)
	for _, team := range bundesligaTeams {
		if strings.Contains(text, team) && !seen[team] {
			seen[team] = true
			teams = append(teams, team)
		}
	}
	for topic, words := range topicKeywords {
		for _, w := range words {
			if strings.Contains(text, w) {
				topics = append(topics, topic)
				break
			}
		}
	}
	return teams, topics
}

// classifyArticleType picks the dominant story type from topic tags.
func classifyArticleType(topics []string) string {
	has := make(map[string]bool, len(topics))
	for _, t := range topics {
		has[t] = true
	}
	switch {
	case has["match"]:
		return "Match Report"
	case has["injury"]:
		return "Injury Update"
	case has["transfer"]:
		return "Transfer News"
	case has["tactics"]:
		return "Tactical Analysis"
	case has["stats"]:
		return "Performance Stats"
	default:
		return "General News"
	}
}
