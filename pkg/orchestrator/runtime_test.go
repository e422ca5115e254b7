package orchestrator

import (
	"testing"

	"patent-scout-be/pkg/events"
	"patent-scout-be/pkg/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventFlowMutatesState(t *testing.T) {
	rt := NewRuntime("s1", nil)

	rt.Emit(events.LibrarySelected, map[string]interface{}{"library": "patents"})
	assert.Equal(t, state.LibraryPatents, rt.Session.Library)

	rt.Emit(events.MethodSelected, map[string]interface{}{"method": "descriptive"})
	assert.Equal(t, state.MethodDescriptive, rt.Session.Method.Selected)

	rt.Emit(events.DescriptionUpdated, map[string]interface{}{"value": "a kettle"})
	assert.Equal(t, "a kettle", rt.Session.Method.Description.Value)
	assert.True(t, rt.Session.Method.Description.IsValid)

	rt.Emit(events.DescriptionUpdated, map[string]interface{}{"value": ""})
	assert.False(t, rt.Session.Method.Description.IsValid, "an empty description is not valid")

	rt.Emit(events.DescriptionImproveCompleted, map[string]interface{}{
		"newDescription":      "a precision kettle",
		"modificationSummary": "clarified scope",
	})
	assert.Equal(t, "a precision kettle", rt.Session.Method.Description.Value)
	assert.True(t, rt.Session.Method.Description.Improved)
}

func TestKeywordEvents(t *testing.T) {
	rt := NewRuntime("s1", nil)

	rt.Emit(events.KeywordsGenerateCompleted, map[string]interface{}{
		"keywords": []string{"drone", "uav"},
	})
	assert.Equal(t, []string{"drone", "uav"}, rt.Session.Keywords())

	rt.Emit(events.KeywordAdded, map[string]interface{}{"keyword": "charging"})
	assert.Equal(t, []string{"drone", "uav", "charging"}, rt.Session.Keywords())

	// Removal payloads arrive with either key.
	rt.Emit(events.KeywordRemoved, map[string]interface{}{"item": "drone"})
	rt.Emit(events.KeywordRemoved, map[string]interface{}{"keyword": "uav"})
	assert.Equal(t, []string{"charging"}, rt.Session.Keywords())
}

func TestFilterEvents(t *testing.T) {
	rt := NewRuntime("s1", nil)

	rt.Emit(events.FilterAdded, map[string]interface{}{
		"name": "assignees", "type": "list", "value": []interface{}{"Acme"},
	})
	rt.Emit(events.FilterUpdated, map[string]interface{}{
		"name": "assignees", "value": []interface{}{"Acme", "Globex"},
	})
	require.Len(t, rt.Session.Filters, 1)

	f, ok := rt.Session.Filter("assignees")
	require.True(t, ok)
	assert.Equal(t, []interface{}{"Acme", "Globex"}, f.Value)

	// clear empties the list but keeps the entry
	rt.Emit(events.FilterRemoved, map[string]interface{}{"name": "assignees", "clear": true})
	f, ok = rt.Session.Filter("assignees")
	require.True(t, ok)
	assert.Empty(t, f.Value)

	rt.Emit(events.FilterRemoved, map[string]interface{}{"name": "assignees"})
	_, ok = rt.Session.Filter("assignees")
	assert.False(t, ok)
}

func TestPagingEvents(t *testing.T) {
	rt := NewRuntime("s1", nil)

	gen := rt.Session.BeginSearch()
	results := make([]state.ResultItem, 25)
	for i := range results {
		results[i] = state.ResultItem{ID: state.NewID()}
	}
	require.True(t, rt.Session.ApplyResults(gen, results))

	rt.Emit(events.SearchPageNext, nil)
	assert.Equal(t, 2, rt.Session.Search.CurrentPage)

	rt.Emit(events.ResultSelected, map[string]interface{}{"index": float64(3)})
	assert.Equal(t, 3, rt.Session.Search.ActiveItem)

	rt.Emit(events.SearchPagePrev, nil)
	assert.Equal(t, 1, rt.Session.Search.CurrentPage)
	assert.Equal(t, 0, rt.Session.Search.ActiveItem)
}

func TestUnknownEventIsIgnored(t *testing.T) {
	rt := NewRuntime("s1", nil)
	assert.NotPanics(t, func() {
		rt.Emit("SOMETHING_NOVEL", map[string]interface{}{"x": 1})
	})
}

func TestNewRuntimeGeneratesID(t *testing.T) {
	rt := NewRuntime("", nil)
	assert.NotEmpty(t, rt.ID())
	assert.False(t, rt.Persisted())

	rt.MarkPersisted()
	assert.True(t, rt.Persisted())
}

func TestHydrate(t *testing.T) {
	src := NewRuntime("origin", nil)
	src.Emit(events.LibrarySelected, map[string]interface{}{"library": "tto"})
	src.Emit(events.KeywordsGenerateCompleted, map[string]interface{}{"keywords": []string{"sensor"}})

	snapshot, err := src.Session.Snapshot()
	require.NoError(t, err)

	rt, err := Hydrate("origin", snapshot, nil)
	require.NoError(t, err)

	assert.True(t, rt.Persisted(), "a hydrated session has a durable record by definition")
	assert.Equal(t, state.LibraryTTO, rt.Session.Library)
	assert.Equal(t, []string{"sensor"}, rt.Session.Keywords())

	// The handler table is live on the hydrated runtime too.
	rt.Emit(events.KeywordAdded, map[string]interface{}{"keyword": "lidar"})
	assert.Equal(t, []string{"sensor", "lidar"}, rt.Session.Keywords())
}

func TestHydrateRejectsGarbage(t *testing.T) {
	_, err := Hydrate("x", []byte(`not json`), nil)
	assert.Error(t, err)
}
