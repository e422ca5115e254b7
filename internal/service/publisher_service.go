package service

import (
	"encoding/json"

	"patent-scout-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IPublisherService interface {
	PublishDirty(sessionId string) error
}

type publisherService struct {
	pubSub    *gochannel.GoChannel
	topicName string
}

func NewPublisherService(pubSub *gochannel.GoChannel, topicName string) IPublisherService {
	return &publisherService{
		pubSub:    pubSub,
		topicName: topicName,
	}
}

// PublishDirty marks a session as changed. The autosave consumer coalesces
// bursts of these into a single write per session.
func (p *publisherService) PublishDirty(sessionId string) error {
	payload, err := json.Marshal(dto.SessionDirtyMessage{SessionId: sessionId})
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	return p.pubSub.Publish(p.topicName, msg)
}
