package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"ksi-core/internal/classify"
	"ksi-core/internal/domain/entity"
)

const (
	feedDefaultLimit = 10
	feedMaxLimit     = 50
	recencyHalfLife  = 24 * time.Hour
)

// FeedQuery are the caller's feed filters.
type FeedQuery struct {
	Persona      entity.Persona
	Category     string
	FavoriteTeam string
	Limit        int
}

// Feed builds the personalized news feed from the news chain, scored
// by persona relevance and recency.
type Feed struct {
	news *NewsChain
	now  func() time.Time
}

func NewFeed(news *NewsChain) *Feed {
	return &Feed{news: news, now: time.Now}
}

// articleTypeWeights biases the feed toward what each persona reads.
// Unlisted types score a neutral 0.5.
var articleTypeWeights = map[entity.Persona]map[string]float64{
	entity.PersonaCasualFan: {
		"Match Report":  0.9,
		"General News":  0.8,
		"Transfer News": 0.7,
	},
	entity.PersonaExpertAnalyst: {
		"Tactical Analysis": 1.0,
		"Performance Stats": 0.9,
		"Match Report":      0.8,
	},
	entity.PersonaBettingEnthusiast: {
		"Performance Stats": 1.0,
		"Injury Update":     0.9,
		"Match Report":      0.8,
	},
	entity.PersonaFantasyPlayer: {
		"Performance Stats": 1.0,
		"Injury Update":     1.0,
		"Transfer News":     0.8,
	},
}

// Build fetches the latest articles and returns the top entries for
// the query. An empty feed is a valid response, not an error.
func (f *Feed) Build(ctx context.Context, q FeedQuery) entity.FeedResponse {
	limit := q.Limit
	if limit <= 0 {
		limit = feedDefaultLimit
	}
	if limit > feedMaxLimit {
		limit = feedMaxLimit
	}
	persona := q.Persona
	if persona == "" {
		persona = entity.PersonaCasualFan
	}

	searchQuery := "Bundesliga News"
	if q.Category != "" {
		searchQuery = "Bundesliga " + q.Category
	}
	articles := f.news.Fetch(ctx, searchQuery)

	items := make([]entity.FeedItem, 0, len(articles))
	for _, art := range articles {
		category := art.Category
		if category == "" {
			category = string(classify.Classify(art.Title).Category)
		}
		if q.Category != "" && !strings.EqualFold(category, q.Category) {
			continue
		}

		relevance := f.score(art, persona, q.FavoriteTeam)
		items = append(items, entity.FeedItem{
			Headline:    art.Title,
			Summary:     summarize(art.Content),
			URL:         art.URL,
			Source:      art.Source,
			Category:    category,
			ArticleType: art.ArticleType,
			Timestamp:   art.Timestamp,
			Relevance:   relevance,
		})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].Relevance > items[j].Relevance })
	if len(items) > limit {
		items = items[:limit]
	}

	return entity.FeedResponse{
		Articles:  items,
		Persona:   persona,
		Category:  q.Category,
		Count:     len(items),
		Timestamp: f.now(),
	}
}

// score combines persona fit with recency, weighted 70/30. A mention
// of the favorite team lifts the persona component to its maximum.
func (f *Feed) score(art entity.NewsArticle, persona entity.Persona, favoriteTeam string) float64 {
	fit := 0.5
	if w, ok := articleTypeWeights[persona][art.ArticleType]; ok {
		fit = w
	}
	if favoriteTeam != "" && mentionsTeam(art, favoriteTeam) {
		fit = 1.0
	}

	age := f.now().Sub(art.Timestamp)
	recency := 1.0 - float64(age)/float64(recencyHalfLife)
	if recency < 0 {
		recency = 0
	}
	if recency > 1 {
		recency = 1
	}

	return fit*0.7 + recency*0.3
}

func mentionsTeam(art entity.NewsArticle, team string) bool {
	needle := strings.ToLower(team)
	for _, t := range art.Teams {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(art.Title), needle)
}

func summarize(content string) string {
	runes := []rune(strings.TrimSpace(content))
	if len(runes) <= 200 {
		return string(runes)
	}
	return string(runes[:200]) + "..."
}
