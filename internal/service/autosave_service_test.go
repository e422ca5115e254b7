package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"patent-scout-be/internal/repository/memory"
	"patent-scout-be/pkg/orchestrator"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type autosaveHarness struct {
	repo      *fakeSessionRepo
	live      *memory.LiveSessionRepository
	publisher IPublisherService
	autosave  IAutosaveService
}

func newAutosaveHarness(t *testing.T, delay time.Duration) *autosaveHarness {
	t.Helper()

	repo := newFakeSessionRepo()
	live := memory.NewLiveSessionRepository(time.Hour)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	autosave := NewAutosaveService(pubSub, "SESSION_DIRTY", &fakeFactory{sessions: repo}, live, delay, nil, testLogger{})
	t.Cleanup(autosave.Stop)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, autosave.Consume(ctx))

	return &autosaveHarness{
		repo:      repo,
		live:      live,
		publisher: NewPublisherService(pubSub, "SESSION_DIRTY"),
		autosave:  autosave,
	}
}

func newLiveRuntime(t *testing.T, live *memory.LiveSessionRepository, persisted bool) *orchestrator.Runtime {
	t.Helper()
	rt := orchestrator.NewRuntime(uuid.NewString(), log.New(io.Discard, "", 0))
	rt.Session.SetLibrary("patents")
	if persisted {
		rt.MarkPersisted()
	}
	live.Save(rt)
	return rt
}

func TestAutosaveCoalescesBurstIntoOneWrite(t *testing.T) {
	h := newAutosaveHarness(t, 100*time.Millisecond)
	rt := newLiveRuntime(t, h.live, true)

	// Five rapid-fire mutations inside one debounce window.
	for i := 1; i <= 5; i++ {
		rt.Session.AddKeyword(fmt.Sprintf("kw%d", i))
		require.NoError(t, h.publisher.PublishDirty(rt.ID()))
	}

	require.Eventually(t, func() bool {
		return h.repo.saveCount() == 1
	}, 3*time.Second, 10*time.Millisecond)

	saved := h.repo.lastSave()
	require.NotNil(t, saved)
	assert.Equal(t, rt.ID(), saved.Id.String())
	assert.Equal(t, "patents", saved.Library)
	// The single write carries the state as of the last event.
	for i := 1; i <= 5; i++ {
		assert.Contains(t, string(saved.State), fmt.Sprintf("kw%d", i))
	}

	// The window is long gone; no further writes trickle in.
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 1, h.repo.saveCount())
}

func TestAutosaveSeparatesSessions(t *testing.T) {
	h := newAutosaveHarness(t, 50*time.Millisecond)
	a := newLiveRuntime(t, h.live, true)
	b := newLiveRuntime(t, h.live, true)

	require.NoError(t, h.publisher.PublishDirty(a.ID()))
	require.NoError(t, h.publisher.PublishDirty(b.ID()))

	require.Eventually(t, func() bool {
		return h.repo.saveCount() == 2
	}, 3*time.Second, 10*time.Millisecond)
}

func TestAutosaveSkipsUnpersistedSession(t *testing.T) {
	h := newAutosaveHarness(t, 20*time.Millisecond)
	rt := newLiveRuntime(t, h.live, false)

	require.NoError(t, h.publisher.PublishDirty(rt.ID()))

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 0, h.repo.saveCount())
}

func TestAutosaveSkipsEvictedSession(t *testing.T) {
	h := newAutosaveHarness(t, 20*time.Millisecond)

	require.NoError(t, h.publisher.PublishDirty(uuid.NewString()))

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 0, h.repo.saveCount())
}

func TestAutosaveFlushWritesImmediately(t *testing.T) {
	h := newAutosaveHarness(t, time.Minute)
	rt := newLiveRuntime(t, h.live, true)

	require.NoError(t, h.publisher.PublishDirty(rt.ID()))

	// Give the consumer a moment to register the trigger, then force it.
	require.Eventually(t, func() bool {
		h.autosave.Flush(rt.ID())
		return h.repo.saveCount() == 1
	}, 3*time.Second, 10*time.Millisecond)
}
