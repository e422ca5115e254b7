package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"patent-scout-be/internal/dto"
	"patent-scout-be/internal/repository/memory"
	"patent-scout-be/pkg/events"
	"patent-scout-be/pkg/state"
	"patent-scout-be/pkg/upstream"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchHarness struct {
	*sessionHarness
	search       ISearchService
	upstreamHits int32
}

func newSearchHarness(t *testing.T, freeLimit, resultCount int) *searchHarness {
	t.Helper()

	h := &searchHarness{sessionHarness: newSessionHarness(t)}

	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&h.upstreamHits, 1)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": searchResults(resultCount),
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := upstream.NewClient(
		upstream.Config{SearchBaseURL: srv.URL, SearchAPIKey: "test-key"},
		srv.Client(),
		log.New(io.Discard, "", 0),
	)
	h.search = NewSearchService(h.service, client, memory.NewQuotaRepository(), freeLimit, testLogger{})
	return h
}

func searchResults(n int) []state.ResultItem {
	out := make([]state.ResultItem, n)
	for i := range out {
		out[i] = state.ResultItem{
			ID:    uuid.NewString(),
			Title: fmt.Sprintf("Result %d", i+1),
		}
	}
	return out
}

func TestSearchFreeTierLimit(t *testing.T) {
	h := newSearchHarness(t, 2, 3)
	resp, err := h.service.Create(context.Background(), nil, &dto.CreateSessionRequest{Library: "patents"})
	require.NoError(t, err)
	sessionId := resp.Id.String()

	rt, err := h.service.Resolve(context.Background(), sessionId)
	require.NoError(t, err)

	var mu sync.Mutex
	var raised []map[string]interface{}
	rt.Bus.On(events.ErrorRaised, func(e events.Event) {
		mu.Lock()
		defer mu.Unlock()
		raised = append(raised, e.Payload())
	})

	req := &dto.RunSearchRequest{VisitorId: "fp-visitor"}
	for i := 0; i < 2; i++ {
		out, err := h.search.Run(context.Background(), sessionId, nil, req)
		require.NoError(t, err)
		assert.True(t, out.Applied)
	}

	_, err = h.search.Run(context.Background(), sessionId, nil, req)
	assert.ErrorIs(t, err, ErrFreeTierLimit)

	// The over-limit attempt surfaces as an event, not just an error, and
	// never reaches the upstream.
	mu.Lock()
	require.Len(t, raised, 1)
	assert.Equal(t, "FREE_TIER_LIMIT", raised[0]["code"])
	mu.Unlock()
	assert.Equal(t, int32(2), atomic.LoadInt32(&h.upstreamHits))
}

func TestSearchSignedInSkipsQuota(t *testing.T) {
	h := newSearchHarness(t, 1, 3)
	owner := uuid.New()
	resp, err := h.service.Create(context.Background(), &owner, &dto.CreateSessionRequest{Library: "patents"})
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		out, err := h.search.Run(context.Background(), resp.Id.String(), &owner, &dto.RunSearchRequest{})
		require.NoError(t, err)
		assert.True(t, out.Applied)
	}
	assert.Equal(t, int32(4), atomic.LoadInt32(&h.upstreamHits))
}

func TestSearchRunResponsePaging(t *testing.T) {
	h := newSearchHarness(t, 10, 13)
	resp, err := h.service.Create(context.Background(), nil, &dto.CreateSessionRequest{Library: "patents"})
	require.NoError(t, err)

	out, err := h.search.Run(context.Background(), resp.Id.String(), nil, &dto.RunSearchRequest{VisitorId: "fp"})
	require.NoError(t, err)
	assert.Equal(t, 13, out.TotalHits)
	assert.Equal(t, 1, out.CurrentPage)
	assert.Equal(t, 2, out.TotalPages)
	assert.Len(t, out.Items, 10)
}

func TestConcurrentPagingStaysConsistent(t *testing.T) {
	h := newSearchHarness(t, 10, 0)
	resp, err := h.service.Create(context.Background(), nil, &dto.CreateSessionRequest{Library: "patents"})
	require.NoError(t, err)
	sessionId := resp.Id.String()

	rt, err := h.service.Resolve(context.Background(), sessionId)
	require.NoError(t, err)
	gen := rt.Session.BeginSearch()
	require.True(t, rt.Session.ApplyResults(gen, searchResults(45)))

	check := func(page *dto.PageResponse) bool {
		return page.CurrentPage >= 1 && page.CurrentPage <= 5 && page.TotalPages == 5
	}

	var bad int32
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				var page *dto.PageResponse
				var err error
				if (w+i)%2 == 0 {
					page, err = h.search.NextPage(context.Background(), sessionId)
				} else {
					page, err = h.search.PrevPage(context.Background(), sessionId)
				}
				if err != nil || !check(page) {
					atomic.AddInt32(&bad, 1)
				}
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, int32(0), atomic.LoadInt32(&bad))

	final, err := h.search.Select(context.Background(), sessionId, 0)
	require.NoError(t, err)
	assert.True(t, check(final))
	assert.Equal(t, 0, final.ActiveItem)
}
