package state

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	s := New("abc")

	assert.Equal(t, "abc", s.ID)
	assert.Empty(t, s.Library)
	assert.NotNil(t, s.Filters)
	assert.Len(t, s.Filters, 0)
	assert.Equal(t, 1, s.Search.CurrentPage)
	assert.Equal(t, defaultItemsPerPage, s.Search.ItemsPerPage)
	assert.Nil(t, s.Search.Results)
	assert.False(t, s.SearchRan)
}

func TestNewIDIsUUIDv4(t *testing.T) {
	v4 := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	for i := 0; i < 20; i++ {
		assert.Regexp(t, v4, NewID())
	}
}

func TestSetLastWriteWins(t *testing.T) {
	s := New("")

	require.NoError(t, s.Set("library", "patents"))
	require.NoError(t, s.Set("library", "tto"))
	assert.Equal(t, LibraryTTO, s.Library)

	require.NoError(t, s.Set("method.searchValue", "first"))
	require.NoError(t, s.Set("method.searchValue", "second"))
	assert.Equal(t, "second", s.Method.SearchValue)
}

func TestSetUnknownPath(t *testing.T) {
	s := New("")

	err := s.Set("method.nonsense", "x")
	var unknown ErrUnknownPath
	assert.ErrorAs(t, err, &unknown)
	assert.Equal(t, "method.nonsense", unknown.Path)

	// Typed paths reject wrong value shapes.
	assert.Error(t, s.Set("library", 12))
	assert.Error(t, s.Set("method.validated", "yes"))
	assert.Error(t, s.Set("search.items_per_page", 0))
}

func TestSetAcceptsJSONNumbers(t *testing.T) {
	s := New("")

	// JSON decoding hands numeric payload values over as float64.
	require.NoError(t, s.Set("search.active_item", float64(3)))
	assert.Equal(t, 3, s.Search.ActiveItem)
}

func TestSetDescriptionKeepsPreviousValue(t *testing.T) {
	s := New("")

	s.SetDescription("a solar-powered kettle", true)
	s.SetDescription("a solar-powered kettle with a whistle", true)

	assert.Equal(t, "a solar-powered kettle", s.Method.Description.PreviousValue)
	assert.Equal(t, "a solar-powered kettle with a whistle", s.Method.Description.Value)
	assert.False(t, s.Method.Description.Improved)
}

func TestApplyImprovedDescription(t *testing.T) {
	s := New("")
	s.SetDescription("rough draft", true)

	s.ApplyImprovedDescription("polished draft", "tightened wording")

	assert.Equal(t, "rough draft", s.Method.Description.PreviousValue)
	assert.Equal(t, "polished draft", s.Method.Description.Value)
	assert.True(t, s.Method.Description.Improved)
	assert.Equal(t, "tightened wording", s.Method.Description.ModificationSummary)
	assert.True(t, s.Method.Description.IsValid)
}

func TestSnapshotLoadRoundTrip(t *testing.T) {
	s := New("")
	s.SetLibrary(LibraryPatents)
	s.SetMethod(MethodDescriptive)
	s.SetDescription("a drone", true)
	s.SetKeywords([]string{"drone", "uav"})

	snapshot, err := s.Snapshot()
	require.NoError(t, err)

	restored := New("other-id")
	require.NoError(t, restored.Load(snapshot))

	assert.Equal(t, LibraryPatents, restored.Library)
	assert.Equal(t, MethodDescriptive, restored.Method.Selected)
	assert.Equal(t, "a drone", restored.Method.Description.Value)
	assert.Equal(t, []string{"drone", "uav"}, restored.Keywords())
	// Load replaces state, not identity.
	assert.Equal(t, "other-id", restored.ID)
}

func TestLoadDerivesTotalPages(t *testing.T) {
	results := make([]ResultItem, 25)
	for i := range results {
		results[i] = ResultItem{ID: NewID()}
	}
	doc := map[string]interface{}{
		"library": "patents",
		"search": map[string]interface{}{
			"results":        results,
			"items_per_page": 10,
			"current_page":   2,
			"total_pages":    999, // stale on disk, must be recomputed
		},
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	s := New("")
	require.NoError(t, s.Load(raw))

	assert.Equal(t, 3, s.Search.TotalPages)
	assert.Equal(t, 2, s.Search.CurrentPage)
	assert.True(t, s.SearchRan, "results present implies a search ran")
}

func TestLoadWithoutResults(t *testing.T) {
	s := New("")
	require.NoError(t, s.Load([]byte(`{"library":"tto"}`)))

	assert.Equal(t, LibraryTTO, s.Library)
	assert.Equal(t, 0, s.Search.TotalPages, "no results means zero pages")
	assert.Equal(t, defaultItemsPerPage, s.Search.ItemsPerPage)
	assert.Equal(t, 1, s.Search.CurrentPage)
	assert.NotNil(t, s.Filters)
	assert.False(t, s.SearchRan)
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	s := New("")
	assert.Error(t, s.Load([]byte(`{"library":`)))
}

func TestOnChangeReceivesSnapshot(t *testing.T) {
	s := New("session-1")

	var gotID string
	var gotSnapshot []byte
	s.OnChange(func(sessionID string, snapshot []byte) {
		gotID = sessionID
		gotSnapshot = snapshot
	})

	s.SetLibrary(LibraryPatents)

	assert.Equal(t, "session-1", gotID)
	var doc struct {
		Library string `json:"library"`
	}
	require.NoError(t, json.Unmarshal(gotSnapshot, &doc))
	assert.Equal(t, "patents", doc.Library)
}

func TestQueryView(t *testing.T) {
	s := New("")
	s.SetLibrary(LibraryPatents)
	s.SetMethod(MethodBasic)
	s.SetSearchValue("battery separator")
	s.SetDescription("a porous membrane", true)

	view := s.QueryView()
	assert.Equal(t, LibraryPatents, view.Library)
	assert.Equal(t, MethodBasic, view.Method)
	assert.Equal(t, "battery separator", view.SearchValue)
	assert.Empty(t, view.Description, "description only carried for the descriptive method")

	s.SetMethod(MethodDescriptive)
	view = s.QueryView()
	assert.Equal(t, "a porous membrane", view.Description)
}
