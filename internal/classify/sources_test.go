package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ksi-core/internal/domain/entity"
)

func TestSourcesForMetaNeedsNothing(t *testing.T) {
	assert.Empty(t, SourcesFor(entity.CategoryMeta))
}

func TestSourcesForGeneralNeedsEverything(t *testing.T) {
	got := SourcesFor(entity.CategoryGeneral)
	assert.Len(t, got, len(entity.AllSources()))
	for _, id := range entity.AllSources() {
		assert.True(t, got[id], "general must include %s", id)
	}
}

func TestSourcesForIsTotal(t *testing.T) {
	for _, cat := range entity.AllCategories() {
		assert.NotNil(t, SourcesFor(cat))
	}
	// Unknown categories behave like general instead of panicking.
	got := SourcesFor(entity.Category("made-up"))
	assert.Len(t, got, len(entity.AllSources()))
}

func TestSourcesForSubsets(t *testing.T) {
	valid := make(map[entity.SourceID]bool)
	for _, id := range entity.AllSources() {
		valid[id] = true
	}
	for _, cat := range entity.AllCategories() {
		for id := range SourcesFor(cat) {
			assert.True(t, valid[id], "%s returned unknown source %s", cat, id)
		}
	}
}

func TestSourcesForCategoryContents(t *testing.T) {
	news := SourcesFor(entity.CategoryNews)
	assert.True(t, news[entity.SourceNews])
	assert.Len(t, news, 1)

	player := SourcesFor(entity.CategoryPlayer)
	assert.True(t, player[entity.SourcePlayerStats])
	assert.True(t, player[entity.SourceInjuries])
	assert.Len(t, player, 2)

	standings := SourcesFor(entity.CategoryStandings)
	assert.True(t, standings[entity.SourceStandings])
	assert.Len(t, standings, 1)

	match := SourcesFor(entity.CategoryMatch)
	assert.True(t, match[entity.SourceOdds])
	assert.True(t, match[entity.SourceHeadToHead])
	assert.True(t, match[entity.SourceForm])
	assert.False(t, match[entity.SourceNews])
}
