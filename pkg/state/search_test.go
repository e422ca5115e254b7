package state

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeResults(n int) []ResultItem {
	items := make([]ResultItem, n)
	for i := range items {
		items[i] = ResultItem{ID: fmt.Sprintf("r%02d", i)}
	}
	return items
}

func TestApplyResults(t *testing.T) {
	s := New("")
	gen := s.BeginSearch()

	applied := s.ApplyResults(gen, makeResults(25))
	require.True(t, applied)

	assert.Equal(t, 1, s.Search.CurrentPage)
	assert.Equal(t, 0, s.Search.ActiveItem)
	assert.Equal(t, 3, s.Search.TotalPages)
	assert.False(t, s.Search.ReloadRequired)
	assert.True(t, s.SearchRan)
}

func TestApplyResultsRejectsStaleGeneration(t *testing.T) {
	s := New("")

	slowGen := s.BeginSearch()
	fastGen := s.BeginSearch()

	// The later search returns first.
	require.True(t, s.ApplyResults(fastGen, makeResults(5)))

	// The earlier one finally arrives; it must be dropped.
	assert.False(t, s.ApplyResults(slowGen, makeResults(40)))
	assert.Len(t, s.Search.Results, 5)
}

func TestApplyResultsWithNil(t *testing.T) {
	s := New("")
	gen := s.BeginSearch()

	require.True(t, s.ApplyResults(gen, nil))
	assert.NotNil(t, s.Search.Results, "an empty completed search is not the same as no search")
	assert.Equal(t, 0, s.Search.TotalPages)
	assert.True(t, s.SearchRan)
}

func TestPaginationClamps(t *testing.T) {
	s := New("")
	gen := s.BeginSearch()
	require.True(t, s.ApplyResults(gen, makeResults(25))) // 3 pages

	s.PrevPage()
	assert.Equal(t, 1, s.Search.CurrentPage, "holds at first page")

	s.NextPage()
	s.NextPage()
	s.NextPage()
	s.NextPage()
	assert.Equal(t, 3, s.Search.CurrentPage, "holds at last page")

	s.PrevPage()
	assert.Equal(t, 2, s.Search.CurrentPage)
}

func TestPaginationWithoutResults(t *testing.T) {
	s := New("")
	s.NextPage()
	assert.Equal(t, 1, s.Search.CurrentPage)
	s.PrevPage()
	assert.Equal(t, 1, s.Search.CurrentPage)
}

func TestPageItems(t *testing.T) {
	s := New("")
	gen := s.BeginSearch()
	require.True(t, s.ApplyResults(gen, makeResults(25)))

	page := s.PageItems()
	require.Len(t, page, 10)
	assert.Equal(t, "r00", page[0].ID)

	s.NextPage()
	s.NextPage()
	page = s.PageItems()
	require.Len(t, page, 5, "last page holds the remainder")
	assert.Equal(t, "r20", page[0].ID)
}

func TestSelectItemBounds(t *testing.T) {
	s := New("")
	gen := s.BeginSearch()
	require.True(t, s.ApplyResults(gen, makeResults(25)))

	s.SelectItem(7)
	assert.Equal(t, 7, s.Search.ActiveItem)

	s.SelectItem(-1)
	assert.Equal(t, 7, s.Search.ActiveItem, "negative index ignored")

	s.SelectItem(10)
	assert.Equal(t, 7, s.Search.ActiveItem, "past-page index ignored")

	// Last page has 5 items; selection resets on page change.
	s.NextPage()
	s.NextPage()
	assert.Equal(t, 0, s.Search.ActiveItem)
	s.SelectItem(4)
	assert.Equal(t, 4, s.Search.ActiveItem)
	s.SelectItem(5)
	assert.Equal(t, 4, s.Search.ActiveItem)
}

func TestUpdateSearchStateMergesPatch(t *testing.T) {
	s := New("")
	gen := s.BeginSearch()
	require.True(t, s.ApplyResults(gen, makeResults(25)))

	perPage := 5
	s.UpdateSearchState(SearchPatch{ItemsPerPage: &perPage})
	assert.Equal(t, 5, s.Search.TotalPages, "page count recomputed for new page size")
	assert.Equal(t, 1, s.Search.CurrentPage, "untouched fields keep their value")

	page := 4
	active := 2
	s.UpdateSearchState(SearchPatch{CurrentPage: &page, ActiveItem: &active})
	assert.Equal(t, 4, s.Search.CurrentPage)
	assert.Equal(t, 2, s.Search.ActiveItem)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, totalPages(nil, 10))
	assert.Equal(t, 0, totalPages([]ResultItem{}, 10))
	assert.Equal(t, 1, totalPages(makeResults(1), 10))
	assert.Equal(t, 1, totalPages(makeResults(10), 10))
	assert.Equal(t, 2, totalPages(makeResults(11), 10))
	assert.Equal(t, 3, totalPages(makeResults(25), 10))
	// Non-positive page size falls back to the default.
	assert.Equal(t, 3, totalPages(makeResults(25), 0))
}

func TestSearchViewMatchesFields(t *testing.T) {
	s := New("")
	gen := s.BeginSearch()
	require.True(t, s.ApplyResults(gen, makeResults(25)))
	s.NextPage()
	s.SelectItem(3)

	view := s.SearchView()
	assert.Equal(t, 2, view.CurrentPage)
	assert.Equal(t, 3, view.TotalPages)
	assert.Equal(t, 3, view.ActiveItem)
	assert.Len(t, view.Items, 10)
	assert.Equal(t, s.PageItems(), view.Items)
}

func TestSearchViewDuringConcurrentPaging(t *testing.T) {
	s := New("")
	gen := s.BeginSearch()
	require.True(t, s.ApplyResults(gen, makeResults(45)))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if i%2 == 0 {
				s.NextPage()
			} else {
				s.PrevPage()
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			view := s.SearchView()
			assert.GreaterOrEqual(t, view.CurrentPage, 1)
			assert.LessOrEqual(t, view.CurrentPage, 5)
			assert.Equal(t, 5, view.TotalPages)
		}
	}()
	wg.Wait()
}
