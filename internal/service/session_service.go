package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"patent-scout-be/internal/dto"
	"patent-scout-be/internal/entity"
	"patent-scout-be/internal/pkg/logger"
	"patent-scout-be/internal/repository/memory"
	"patent-scout-be/internal/repository/specification"
	"patent-scout-be/internal/repository/unitofwork"
	"patent-scout-be/internal/websocket"
	"patent-scout-be/pkg/events"
	pktNats "patent-scout-be/pkg/nats"
	"patent-scout-be/pkg/orchestrator"
	"patent-scout-be/pkg/state"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

type ISessionService interface {
	Create(ctx context.Context, ownerId *uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	Get(ctx context.Context, sessionId string) (*dto.SessionStateResponse, error)
	Save(ctx context.Context, sessionId string) error
	Delete(ctx context.Context, ownerId uuid.UUID, sessionId string) error
	History(ctx context.Context, ownerId uuid.UUID) ([]dto.SessionSummary, error)
	EmitEvent(ctx context.Context, sessionId string, req *dto.EmitEventRequest) error

	// Resolve returns the live runtime for a session, rehydrating it from
	// the record store when it has fallen out of memory.
	Resolve(ctx context.Context, sessionId string) (*orchestrator.Runtime, error)
}

type sessionService struct {
	uowFactory       unitofwork.RepositoryFactory
	liveSessions     *memory.LiveSessionRepository
	publisherService IPublisherService
	hub              *websocket.Hub
	eventPublisher   *pktNats.Publisher
	sysLogger        logger.ILogger
	busLog           *log.Logger
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	liveSessions *memory.LiveSessionRepository,
	publisherService IPublisherService,
	hub *websocket.Hub,
	eventPublisher *pktNats.Publisher,
	sysLogger logger.ILogger,
	busLog *log.Logger,
) ISessionService {
	return &sessionService{
		uowFactory:       uowFactory,
		liveSessions:     liveSessions,
		publisherService: publisherService,
		hub:              hub,
		eventPublisher:   eventPublisher,
		sysLogger:        sysLogger,
		busLog:           busLog,
	}
}

// Create opens a draft session. Drafts live only in memory: a durable
// record appears the first time the session produces something worth
// keeping (a filter, or generated keywords), and only for signed-in users.
func (s *sessionService) Create(ctx context.Context, ownerId *uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	rt := orchestrator.NewRuntime(state.NewID(), s.busLog)
	if req.Library != "" {
		rt.Session.SetLibrary(state.Library(req.Library))
	}
	s.wire(rt, ownerId, req.Label)
	s.liveSessions.Save(rt)

	s.sysLogger.Info("session", "draft session opened", map[string]interface{}{
		"session_id": rt.ID(),
		"owned":      ownerId != nil,
	})

	id, err := uuid.Parse(rt.ID())
	if err != nil {
		return nil, err
	}
	return &dto.CreateSessionResponse{Id: id}, nil
}

// wire attaches the cross-cutting observers to a runtime: every state
// mutation is pushed to connected websocket clients, persisted sessions
// additionally mark themselves dirty for the autosave loop, and drafts
// register the trigger that converts them into a durable record.
func (s *sessionService) wire(rt *orchestrator.Runtime, ownerId *uuid.UUID, label string) {
	rt.Session.OnChange(func(sessionID string, snapshot []byte) {
		s.hub.BroadcastState(sessionID, snapshot)
		if rt.Persisted() {
			if err := s.publisherService.PublishDirty(sessionID); err != nil {
				s.sysLogger.Warn("session", "failed to mark session dirty", map[string]interface{}{
					"session_id": sessionID,
					"error":      err.Error(),
				})
			}
		}
	})

	if ownerId == nil {
		return
	}

	var persistOnce sync.Once
	persist := func(e events.Event) {
		if rt.Persisted() {
			return
		}
		persistOnce.Do(func() {
			s.persistDraft(rt, ownerId, label)
		})
	}
	rt.Bus.On(events.FilterAdded, persist)
	rt.Bus.On(events.KeywordsGenerateCompleted, persist)
}

func (s *sessionService) persistDraft(rt *orchestrator.Runtime, ownerId *uuid.UUID, label string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	snapshot, err := rt.Session.Snapshot()
	if err != nil {
		s.sysLogger.Error("session", "failed to snapshot draft", map[string]interface{}{
			"session_id": rt.ID(),
			"error":      err.Error(),
		})
		return
	}

	id, err := uuid.Parse(rt.ID())
	if err != nil {
		s.sysLogger.Error("session", "bad session id", map[string]interface{}{"session_id": rt.ID()})
		return
	}

	var doc struct {
		Library string `json:"library"`
	}
	_ = json.Unmarshal(snapshot, &doc)

	now := time.Now()
	record := &entity.SessionRecord{
		Id:        id,
		OwnerId:   ownerId,
		Label:     label,
		Library:   doc.Library,
		State:     snapshot,
		CreatedAt: now,
		UpdatedAt: now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.SessionRepository().Create(ctx, record); err != nil {
		// The runtime keeps working in memory; the draft just stays
		// unsaved.
		s.sysLogger.Error("session", "failed to persist draft", map[string]interface{}{
			"session_id": rt.ID(),
			"error":      err.Error(),
		})
		return
	}

	rt.MarkPersisted()
	rt.Emit(events.SessionCreated, map[string]interface{}{"session_id": rt.ID()})
	s.publishLifecycle(ctx, events.SessionCreated, rt.ID())

	s.sysLogger.Info("session", "draft promoted to record", map[string]interface{}{
		"session_id": rt.ID(),
	})
}

func (s *sessionService) Resolve(ctx context.Context, sessionId string) (*orchestrator.Runtime, error) {
	if rt, ok := s.liveSessions.Get(sessionId); ok {
		s.liveSessions.Touch(sessionId)
		return rt, nil
	}

	id, err := uuid.Parse(sessionId)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	record, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrSessionNotFound
	}

	rt, err := orchestrator.Hydrate(sessionId, record.State, s.busLog)
	if err != nil {
		return nil, err
	}
	s.wire(rt, record.OwnerId, record.Label)
	s.liveSessions.Save(rt)

	rt.Emit(events.SessionLoaded, map[string]interface{}{"session_id": sessionId})
	s.publishLifecycle(ctx, events.SessionLoaded, sessionId)

	return rt, nil
}

func (s *sessionService) Get(ctx context.Context, sessionId string) (*dto.SessionStateResponse, error) {
	rt, err := s.Resolve(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	snapshot, err := rt.Session.Snapshot()
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(sessionId)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	return &dto.SessionStateResponse{
		Id:        id,
		State:     snapshot,
		UpdatedAt: time.Now(),
	}, nil
}

// Save writes the current state immediately, bypassing the debounce.
func (s *sessionService) Save(ctx context.Context, sessionId string) error {
	rt, err := s.Resolve(ctx, sessionId)
	if err != nil {
		return err
	}
	if !rt.Persisted() {
		return errors.New("session has no saved record yet")
	}

	snapshot, err := rt.Session.Snapshot()
	if err != nil {
		return err
	}

	id, err := uuid.Parse(sessionId)
	if err != nil {
		return ErrSessionNotFound
	}

	var doc struct {
		Library string `json:"library"`
	}
	_ = json.Unmarshal(snapshot, &doc)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	record := &entity.SessionRecord{
		Id:      id,
		Library: doc.Library,
		State:   snapshot,
	}
	if err := uow.SessionRepository().Save(ctx, record); err != nil {
		return err
	}

	rt.Emit(events.SessionSaved, map[string]interface{}{"session_id": sessionId})
	s.publishLifecycle(ctx, events.SessionSaved, sessionId)
	return nil
}

func (s *sessionService) Delete(ctx context.Context, ownerId uuid.UUID, sessionId string) error {
	id, err := uuid.Parse(sessionId)
	if err != nil {
		return ErrSessionNotFound
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	record, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if record == nil {
		return ErrSessionNotFound
	}
	if record.OwnerId == nil || *record.OwnerId != ownerId {
		return errors.New("session does not belong to this user")
	}

	if err := uow.SessionRepository().Delete(ctx, id); err != nil {
		return err
	}
	s.liveSessions.Delete(sessionId)
	return nil
}

func (s *sessionService) History(ctx context.Context, ownerId uuid.UUID) ([]dto.SessionSummary, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	records, err := uow.SessionRepository().FindAll(ctx,
		specification.ByOwner{OwnerId: ownerId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.SessionSummary, 0, len(records))
	for _, r := range records {
		summaries = append(summaries, dto.SessionSummary{
			Id:        r.Id,
			Label:     r.Label,
			Library:   r.Library,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return summaries, nil
}

// EmitEvent is the generic ingress: a client action becomes a bus emission
// and the handler table takes it from there.
func (s *sessionService) EmitEvent(ctx context.Context, sessionId string, req *dto.EmitEventRequest) error {
	rt, err := s.Resolve(ctx, sessionId)
	if err != nil {
		return err
	}

	rt.Emit(req.Type, req.Payload)
	s.liveSessions.Touch(sessionId)
	return nil
}

func (s *sessionService) publishLifecycle(ctx context.Context, eventType, sessionId string) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.New(eventType, map[string]interface{}{"session_id": sessionId})
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.sysLogger.Warn("session", "lifecycle publish failed", map[string]interface{}{
			"event":      eventType,
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}
}
