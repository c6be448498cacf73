package client

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"ksi-core/internal/adapter/store"
	"ksi-core/internal/config"
	"ksi-core/internal/domain/entity"
	"ksi-core/internal/domain/repository"
)

// Teams and keywords used to keep only Bundesliga coverage; the
// general-news feed also carries NFL, NBA and other leagues.
var bundesligaTeams = []string{
	"bayern", "münchen", "dortmund", "bvb", "leipzig", "leverkusen",
	"frankfurt", "freiburg", "union berlin", "köln", "hoffenheim",
	"wolfsburg", "gladbach", "stuttgart", "bremen", "augsburg",
	"bochum", "mainz", "heidenheim", "st. pauli",
}

var bundesligaKeywords = []string{"bundesliga", "1. bundesliga", "dfl"}

var excludedSports = []string{"nfl", "quarterback", "nba", "baseball", "hockey", "tennis"}

// KickerRSS reads the Kicker news feeds. It is the secondary news
// source behind the search API and needs no API key.
type KickerRSS struct {
	parser *gofeed.Parser
	feeds  []config.Feed
	cache  repository.Cache
	ttl    time.Duration
}

func NewKickerRSS(feeds []config.Feed, cache repository.Cache, ttl time.Duration) *KickerRSS {
	return &KickerRSS{
		parser: gofeed.NewParser(),
		feeds:  feeds,
		cache:  cache,
		ttl:    ttl,
	}
}

// Latest returns up to max Bundesliga articles across all feeds.
// Any feed error yields whatever the other feeds produced; a total
// failure yields an empty slice, never an error.
func (k *KickerRSS) Latest(ctx context.Context, max int) []entity.NewsArticle {
	articles, err := store.Through(ctx, k.cache, "news:rss", k.ttl, func(ctx context.Context) ([]entity.NewsArticle, error) {
		return k.fetchAll(ctx), nil
	})
	if err != nil {
		return nil
	}
	if len(articles) > max {
		articles = articles[:max]
	}
	return articles
}

func (k *KickerRSS) fetchAll(ctx context.Context) []entity.NewsArticle {
	var articles []entity.NewsArticle
	seen := make(map[string]bool)

	for _, f := range k.feeds {
		feed, err := k.parser.ParseURLWithContext(f.URL, ctx)
		if err != nil {
			log.Printf("[RSS] parsing %s failed: %v", f.Name, err)
			continue
		}

		for _, item := range feed.Items {
			title := strings.TrimSpace(item.Title)
			content := stripHTML(firstNonEmpty(item.Description, item.Content))
			if item.Link == "" || seen[item.Link] {
				continue
			}
			if !isBundesligaContent(title, content) {
				continue
			}
			seen[item.Link] = true

			published := time.Now()
			if item.PublishedParsed != nil {
				published = *item.PublishedParsed
			} else if item.UpdatedParsed != nil {
				published = *item.UpdatedParsed
			}

			// Category stays empty; consumers classify by title, so
			// category filters still work on RSS articles.
			articles = append(articles, entity.NewsArticle{
				Source:    fmt.Sprintf("kicker_rss:%s", f.Name),
				Title:     title,
				Content:   content,
				URL:       item.Link,
				Timestamp: published,
			})
		}
	}
	return articles
}

// isBundesligaContent keeps German-football stories and drops other
// sports outright. A team name or league keyword is enough.
func isBundesligaContent(title, content string) bool {
	text := strings.ToLower(title + " " + content)

	for _, sport := range excludedSports {
		if strings.Contains(text, sport) {
			return false
		}
	}
	for _, team := range bundesligaTeams {
		if strings.Contains(text, team) {
			return true
		}
	}
	for _, kw := range bundesligaKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
