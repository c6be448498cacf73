package usecase

import (
	"context"
	"log"

	"ksi-core/internal/domain/entity"
	"ksi-core/internal/domain/repository"
)

// NewsChain is the two-step news lookup: the search API first (query
// aware, whole kicker.de archive), the RSS feeds when the search
// comes back empty. The chain is sequential on purpose — the fallback
// is only worth its cost when the primary produced nothing.
type NewsChain struct {
	primary   repository.NewsSearcher
	fallback  repository.NewsFeed
	maxSearch int
	maxRSS    int
}

func NewNewsChain(primary repository.NewsSearcher, fallback repository.NewsFeed, maxSearch, maxRSS int) *NewsChain {
	return &NewsChain{
		primary:   primary,
		fallback:  fallback,
		maxSearch: maxSearch,
		maxRSS:    maxRSS,
	}
}

// Fetch returns the best available articles for the query. Both
// sources absorb their own failures, so an empty slice is the worst
// case and the caller just omits the news section.
func (n *NewsChain) Fetch(ctx context.Context, query string) []entity.NewsArticle {
	if articles := n.primary.Search(ctx, query, n.maxSearch); len(articles) > 0 {
		return articles
	}

	log.Printf("[NEWS] search empty, falling back to RSS")
	return n.fallback.Latest(ctx, n.maxRSS)
}
