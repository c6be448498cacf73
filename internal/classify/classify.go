// Package classify maps a free-text user query to a category and a
// category to the set of data sources worth fetching for it.
package classify

import (
	"regexp"
	"strings"

	"ksi-core/internal/domain/entity"
)

const (
	matchedBaseConfidence = 0.85
	maxConfidence         = 0.95
	fallbackConfidence    = 0.5
)

// ruleGroup holds the patterns of one category. Groups are evaluated
// in order and the first group with any match wins, so narrower
// categories (meta, standings) must come before broader ones.
type ruleGroup struct {
	category entity.Category
	patterns []*regexp.Regexp
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(`(?i)`+e))
	}
	return out
}

var ruleGroups = []ruleGroup{
	{
		category: entity.CategoryMeta,
		patterns: compile(
			`^\s*(hallo|hi|hey|moin|servus|guten\s+(tag|morgen|abend))\b`,
			`\bwer\s+bist\s+du\b`,
			`\bwas\s+kannst\s+du\b`,
			`\b(hilfe|help)\b`,
			`\bdanke\b`,
			`\bwho\s+are\s+you\b`,
			`\bwhat\s+can\s+you\s+do\b`,
		),
	},
	{
		category: entity.CategoryStandings,
		patterns: compile(
			`\btabelle(nplatz|nführer)?\b`,
			`\b(standings?|table)\b`,
			`\bplatz\s+\d+\b`,
			`\brang\b`,
			`\bwie\s+viele?\s+punkte\b`,
			`\btabellen(situation|stand)\b`,
		),
	},
	{
		category: entity.CategoryPlayer,
		patterns: compile(
			`\btorschützen?(liste|könig)?\b`,
			`\btop\s*scorer\b`,
			`\b(scorer|goalscorer)s?\b`,
			`\bspieler(statistik|daten)?\b`,
			`\b(verletz\w*|injur\w*|ausfall|ausfälle|gesperrt|suspended)\b`,
			`\b(assists?|vorlagen|scorerpunkte)\b`,
			`\bwie\s+viele?\s+tore\s+hat\b`,
			`\bstatisti(k|ken|cs)\b`,
		),
	},
	{
		category: entity.CategoryMatch,
		patterns: compile(
			`\b(quoten?|odds|wette\w*|tipp?s?)\b`,
			`\b(spiel|match|partie|begegnung)\b`,
			`\bgegen\b`,
			`\bvs\.?\b`,
			`\b(ergebnis(se)?|resultat|results?)\b`,
			`\bspieltag\b`,
			`\bwann\s+spielt\b`,
			`\b(anstoß|anpfiff|kickoff)\b`,
			`\b(nächste[sn]?\s+spiel|next\s+(match|game))\b`,
			`\bform(kurve)?\b`,
			`\bbilanz\b`,
			`\bhead.to.head\b`,
		),
	},
	{
		category: entity.CategoryNews,
		patterns: compile(
			`\b(news|neuigkeiten|nachrichten|schlagzeilen|headlines)\b`,
			`\btransfer\w*\b`,
			`\b(gerücht\w*|rumou?rs?)\b`,
			`\bwechsel\w*\b`,
			`\b(verpflichtet|signing)\b`,
			`\bwas\s+gibt\s+es\s+neues\b`,
			`\b(meldung|bericht)\b`,
			`\btrainerwechsel\b`,
		),
	},
}

// Classify assigns exactly one category to a query. It never fails:
// an empty or unmatched query falls back to general, which requests
// every source and is therefore always safe to answer from.
func Classify(query string) entity.Classification {
	q := strings.Join(strings.Fields(query), " ")
	if q == "" {
		return entity.Classification{
			Category:   entity.CategoryGeneral,
			Confidence: fallbackConfidence,
			Method:     "fallback",
		}
	}

	for _, group := range ruleGroups {
		var matched []string
		for _, p := range group.patterns {
			if p.MatchString(q) {
				matched = append(matched, p.String())
			}
		}
		if len(matched) == 0 {
			continue
		}
		conf := matchedBaseConfidence + 0.03*float64(len(matched)-1)
		if conf > maxConfidence {
			conf = maxConfidence
		}
		return entity.Classification{
			Category:   group.category,
			Confidence: conf,
			Matched:    matched,
			Method:     "keyword",
		}
	}

	return entity.Classification{
		Category:   entity.CategoryGeneral,
		Confidence: fallbackConfidence,
		Method:     "fallback",
	}
}
