package service

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// TopicIntentRefresh carries post-finalization intent summary refresh jobs
// from the request path to the in-process consumer.
const TopicIntentRefresh = "intent.summary.refresh"

type IPublisherService interface {
	Publish(ctx context.Context, payload []byte) error
}

type publisherService struct {
	pubSub *gochannel.GoChannel
	topic  string
}

func NewPublisherService(pubSub *gochannel.GoChannel, topic string) IPublisherService {
	return &publisherService{
		pubSub: pubSub,
		topic:  topic,
	}
}

func (p *publisherService) Publish(ctx context.Context, payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return p.pubSub.Publish(p.topic, msg)
}
