// Copyright (c) 2026 Darkshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package browse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/darkshelf/internal/browse"
	"github.com/taibuivan/darkshelf/internal/catalog"
	"github.com/taibuivan/darkshelf/internal/platform/apperr"
	"github.com/taibuivan/darkshelf/pkg/pointer"
)

func fixture() []*catalog.BookView {
	masquerade := &catalog.ProductLine{ID: 1, Name: "Vampire: The Masquerade", World: pointer.To(catalog.WorldOld)}
	ascension := &catalog.ProductLine{ID: 2, Name: "Magé: The Ascension", World: pointer.To(catalog.WorldOld)}
	requiem := &catalog.ProductLine{ID: 3, Name: "Vampire: The Requiem", World: pointer.To(catalog.WorldChronicles)}
	revised := &catalog.Edition{ID: 3, Name: "Revised"}

	return []*catalog.BookView{
		{Book: catalog.Book{ID: 1, Title: "Chicago by Night", PublicationYear: pointer.To(1991), WWCode: pointer.To(2203), Collected: true}, ProductLine: masquerade},
		{Book: catalog.Book{ID: 2, Title: "Book of Chantries", PublicationYear: nil, WWCode: pointer.To(4003)}, ProductLine: ascension, Edition: revised},
		{Book: catalog.Book{ID: 3, Title: "Requiem Core", PublicationYear: pointer.To(2004)}, ProductLine: requiem},
		{Book: catalog.Book{ID: 4, Title: "Loose Sheet", PublicationYear: pointer.To(1999), Collected: true}},
	}
}

func ids(books []*catalog.BookView) []int {
	out := make([]int, 0, len(books))
	for _, b := range books {
		out = append(out, b.ID)
	}
	return out
}

func TestFilter_Apply(t *testing.T) {
	books := fixture()

	tests := []struct {
		name   string
		filter browse.Filter
		want   []int
	}{
		{"zero filter keeps everything", browse.Filter{}, []int{1, 2, 3, 4}},
		{"world", browse.Filter{World: pointer.To(catalog.WorldOld)}, []int{1, 2}},
		{"search title", browse.Filter{Search: "CHICAGO"}, []int{1}},
		{"search product line", browse.Filter{Search: "vampire"}, []int{1, 3}},
		{"search ignores accents", browse.Filter{Search: "mage"}, []int{2}},
		{"product line", browse.Filter{ProductLine: "Vampire: The Requiem"}, []int{3}},
		{"edition", browse.Filter{Edition: "Revised"}, []int{2}},
		{"collected", browse.Filter{Collected: browse.OwnershipCollected}, []int{1, 4}},
		{"uncollected", browse.Filter{Collected: browse.OwnershipUncollected}, []int{2, 3}},
		{"combined", browse.Filter{World: pointer.To(catalog.WorldOld), Collected: browse.OwnershipUncollected}, []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.filter.Apply(books)))
		})
	}
}

func TestSort_NullsLast(t *testing.T) {
	books := fixture()

	asc := browse.Sort{Key: browse.SortPublicationYear}.Apply(books)
	assert.Equal(t, []int{1, 4, 3, 2}, ids(asc))

	desc := browse.Sort{Key: browse.SortPublicationYear, Desc: true}.Apply(books)
	assert.Equal(t, []int{3, 4, 1, 2}, ids(desc))

	byCode := browse.Sort{Key: browse.SortWWCode, Desc: true}.Apply(books)
	assert.Equal(t, []int{2, 1, 3, 4}, ids(byCode))

	// Input untouched
	assert.Equal(t, []int{1, 2, 3, 4}, ids(books))
}

func TestSort_TitleAndCollected(t *testing.T) {
	books := fixture()

	assert.Equal(t, []int{2, 1, 4, 3}, ids(browse.Sort{Key: browse.SortTitle}.Apply(books)))
	assert.Equal(t, []int{2, 3, 1, 4}, ids(browse.Sort{Key: browse.SortCollected}.Apply(books)))
}

func TestSort_Toggle(t *testing.T) {
	s := browse.Sort{Key: browse.SortTitle}

	s = s.Toggle(browse.SortTitle)
	assert.Equal(t, browse.Sort{Key: browse.SortTitle, Desc: true}, s)

	s = s.Toggle(browse.SortTitle)
	assert.Equal(t, browse.Sort{Key: browse.SortTitle}, s)

	s = s.Toggle(browse.SortWWCode)
	assert.Equal(t, browse.Sort{Key: browse.SortWWCode}, s)
}

func TestParse(t *testing.T) {
	key, err := browse.ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, browse.SortTitle, key)

	_, err = browse.ParseSortKey("isbn")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	require.Len(t, apperr.As(err).Details, 1)
	assert.Equal(t, browse.FieldSortKey, apperr.As(err).Details[0].Field)

	ownership, err := browse.ParseOwnership("Collected")
	require.NoError(t, err)
	assert.Equal(t, browse.OwnershipCollected, ownership)

	ownership, err = browse.ParseOwnership("")
	require.NoError(t, err)
	assert.Equal(t, browse.OwnershipAll, ownership)

	_, err = browse.ParseOwnership("maybe")
	require.Error(t, err)
	assert.Equal(t, browse.FieldOwnership, apperr.As(err).Details[0].Field)
}

func TestProgress(t *testing.T) {
	stats := []*catalog.ProductLineCompletion{
		{ID: 1, Name: "Werewolf", CompletionStats: catalog.NewCompletionStats(4, 1)},
		{ID: 2, Name: "Wraith", CompletionStats: catalog.NewCompletionStats(0, 0)},
		{ID: 3, Name: "Vampire", CompletionStats: catalog.NewCompletionStats(3, 2)},
		{ID: 4, Name: "Mage", CompletionStats: catalog.NewCompletionStats(4, 1)},
	}

	progress := browse.Progress(stats)
	require.Len(t, progress, 3)
	assert.Equal(t, "Vampire", progress[0].Name)
	assert.Equal(t, "Mage", progress[1].Name)
	assert.Equal(t, "Werewolf", progress[2].Name)
}

func TestBandOf(t *testing.T) {
	assert.Equal(t, browse.BandHigh, browse.BandOf(67))
	assert.Equal(t, browse.BandMedium, browse.BandOf(66))
	assert.Equal(t, browse.BandMedium, browse.BandOf(34))
	assert.Equal(t, browse.BandLow, browse.BandOf(33))
}

func TestWorldTotals(t *testing.T) {
	stats := []*catalog.WorldCompletion{
		{World: catalog.WorldOld, CompletionStats: catalog.NewCompletionStats(3, 2)},
		{World: catalog.WorldChronicles, CompletionStats: catalog.NewCompletionStats(1, 0)},
	}

	assert.Equal(t, catalog.CompletionStats{TotalBooks: 4, CollectedBooks: 2, Percentage: 50}, browse.WorldTotals(stats))
	assert.Equal(t, catalog.CompletionStats{}, browse.WorldTotals(nil))
}
