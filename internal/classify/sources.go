package classify

import "ksi-core/internal/domain/entity"

// sourceTable maps every category to the sources the assembler must
// fetch for it. meta needs no data at all; general requests
// everything because it is the catch-all for unclassified queries.
var sourceTable = map[entity.Category][]entity.SourceID{
	entity.CategoryMeta: {},
	entity.CategoryNews: {entity.SourceNews},
	entity.CategoryPlayer: {
		entity.SourcePlayerStats,
		entity.SourceInjuries,
	},
	entity.CategoryStandings: {entity.SourceStandings},
	entity.CategoryMatch: {
		entity.SourceStandings,
		entity.SourceResults,
		entity.SourceFixtures,
		entity.SourceForm,
		entity.SourceHeadToHead,
		entity.SourceOdds,
	},
	entity.CategoryGeneral: entity.AllSources(),
}

// SourcesFor returns the source set for a category. Unknown
// categories are treated as general so the function stays total.
func SourcesFor(cat entity.Category) map[entity.SourceID]bool {
	ids, ok := sourceTable[cat]
	if !ok {
		ids = sourceTable[entity.CategoryGeneral]
	}
	set := make(map[entity.SourceID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
