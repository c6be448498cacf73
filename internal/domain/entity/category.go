package entity

// Category is the classifier's output label. It steers which data
// sources get fetched for a request.
type Category string

const (
	CategoryNews      Category = "news"
	CategoryPlayer    Category = "player"
	CategoryMatch     Category = "match"
	CategoryStandings Category = "standings"
	CategoryMeta      Category = "meta"
	CategoryGeneral   Category = "general"
)

// AllCategories returns every valid category in canonical order.
func AllCategories() []Category {
	return []Category{
		CategoryNews,
		CategoryPlayer,
		CategoryMatch,
		CategoryStandings,
		CategoryMeta,
		CategoryGeneral,
	}
}

// SourceID names one external data source.
type SourceID string

const (
	SourceNews        SourceID = "news"
	SourcePlayerStats SourceID = "player_stats"
	SourceInjuries    SourceID = "injuries"
	SourceStandings   SourceID = "standings"
	SourceResults     SourceID = "results"
	SourceFixtures    SourceID = "fixtures"
	SourceForm        SourceID = "form"
	SourceHeadToHead  SourceID = "h2h"
	SourceOdds        SourceID = "odds"
)

// AllSources returns every source in the fixed section order used by
// the context assembler.
func AllSources() []SourceID {
	return []SourceID{
		SourceStandings,
		SourceForm,
		SourceResults,
		SourceFixtures,
		SourceHeadToHead,
		SourcePlayerStats,
		SourceInjuries,
		SourceOdds,
		SourceNews,
	}
}

// Classification is the result of classifying one user query. It is
// produced once per request and never persisted.
type Classification struct {
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
	Matched    []string `json:"matched,omitempty"`
	Method     string   `json:"method"` // "keyword" or "fallback"
}
