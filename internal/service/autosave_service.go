package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"patent-scout-be/internal/dto"
	"patent-scout-be/internal/entity"
	"patent-scout-be/internal/pkg/logger"
	"patent-scout-be/internal/repository/memory"
	"patent-scout-be/internal/repository/unitofwork"
	"patent-scout-be/pkg/debounce"
	"patent-scout-be/pkg/events"
	pktNats "patent-scout-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IAutosaveService interface {
	Consume(ctx context.Context) error
	// Flush forces a pending save through immediately (shutdown path).
	Flush(sessionId string)
	Stop()
}

// autosaveService turns a stream of dirty markers into debounced session
// writes. Many events inside the debounce window collapse into one write
// carrying the state as of the last event. Save failures are logged and
// swallowed: the live runtime still holds the state and the next event
// retriggers the save.
type autosaveService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	uowFactory   unitofwork.RepositoryFactory
	liveSessions *memory.LiveSessionRepository
	debouncer    *debounce.Debouncer[struct{}]

	eventPublisher *pktNats.Publisher
	sysLogger      logger.ILogger
}

func NewAutosaveService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	liveSessions *memory.LiveSessionRepository,
	debounceDelay time.Duration,
	eventPublisher *pktNats.Publisher,
	sysLogger logger.ILogger,
) IAutosaveService {
	s := &autosaveService{
		pubSub:         pubSub,
		topicName:      topicName,
		uowFactory:     uowFactory,
		liveSessions:   liveSessions,
		eventPublisher: eventPublisher,
		sysLogger:      sysLogger,
	}
	s.debouncer = debounce.New[struct{}](debounceDelay, func(sessionId string, _ struct{}) {
		s.save(sessionId)
	})
	return s
}

func (as *autosaveService) Consume(ctx context.Context) error {
	messages, err := as.pubSub.Subscribe(ctx, as.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			as.processMessage(msg)
		}
	}()

	return nil
}

func (as *autosaveService) processMessage(msg *message.Message) {
	var payload dto.SessionDirtyMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal dirty message: %v", err)
		msg.Ack() // malformed, retrying won't help
		return
	}

	as.debouncer.Trigger(payload.SessionId, struct{}{})
	msg.Ack()
}

func (as *autosaveService) Flush(sessionId string) {
	as.debouncer.Flush(sessionId)
}

func (as *autosaveService) Stop() {
	as.debouncer.Stop()
}

func (as *autosaveService) save(sessionId string) {
	rt, ok := as.liveSessions.Get(sessionId)
	if !ok {
		// Fell out of the live cache between the trigger and the flush;
		// the last successful save is whatever the record store holds.
		as.sysLogger.Warn("autosave", "session no longer live, skipping save", map[string]interface{}{
			"session_id": sessionId,
		})
		return
	}
	if !rt.Persisted() {
		return
	}

	snapshot, err := rt.Session.Snapshot()
	if err != nil {
		as.sysLogger.Error("autosave", "failed to snapshot session", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return
	}

	id, err := uuid.Parse(sessionId)
	if err != nil {
		as.sysLogger.Error("autosave", "bad session id", map[string]interface{}{
			"session_id": sessionId,
		})
		return
	}

	var doc struct {
		Library string `json:"library"`
	}
	_ = json.Unmarshal(snapshot, &doc)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uow := as.uowFactory.NewUnitOfWork(ctx)
	record := &entity.SessionRecord{
		Id:      id,
		Library: doc.Library,
		State:   snapshot,
	}
	if err := uow.SessionRepository().Save(ctx, record); err != nil {
		as.sysLogger.Error("autosave", "failed to save session", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return
	}

	rt.Emit(events.SessionSaved, map[string]interface{}{"session_id": sessionId})

	if as.eventPublisher != nil {
		evt := events.New(events.SessionSaved, map[string]interface{}{"session_id": sessionId})
		if err := as.eventPublisher.Publish(ctx, evt); err != nil {
			as.sysLogger.Warn("autosave", "lifecycle publish failed", map[string]interface{}{
				"session_id": sessionId,
				"error":      err.Error(),
			})
		}
	}
}
