package service

import (
	"context"
	"encoding/json"

	"ai-context-be/internal/dto"
	"ai-context-be/internal/entity"
	"ai-context-be/internal/pkg/logger"
	"ai-context-be/internal/repository/specification"
	"ai-context-be/internal/repository/unitofwork"
	"ai-context-be/internal/store"
	"ai-context-be/pkg/summary"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService folds finalized sessions into the context summaries of the
// intents they touched. Runs in-process off the gochannel queue.
type consumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	uowFactory   unitofwork.RepositoryFactory
	contextStore *store.ContextStore
	generator    *summary.Generator
	logger       logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	contextStore *store.ContextStore,
	generator *summary.Generator,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		uowFactory:   uowFactory,
		contextStore: contextStore,
		generator:    generator,
		logger:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.RefreshIntentSummariesMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal refresh message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // invalid payloads are not retriable
		return
	}

	sessionSum, err := cs.contextStore.LoadSessionSummary(ctx, payload.UserId, payload.SessionId)
	if err != nil {
		cs.logger.Error("ConsumerService", "Failed to load session summary", map[string]interface{}{
			"session_id": payload.SessionId.String(),
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}
	if sessionSum == nil {
		msg.Ack() // session gone, nothing to fold in
		return
	}

	ref := entity.RelatedSession{
		SessionId: sessionSum.SessionId,
		Title:     sessionSum.Title,
		Snippet:   sessionSum.OneLine,
		Timestamp: sessionSum.EndedAt,
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	for _, intentId := range sessionSum.IntentsTouched {
		intent, err := uow.IntentRepository().FindOne(ctx,
			specification.ByID{ID: intentId},
			specification.UserOwnedBy{UserID: payload.UserId},
		)
		if err != nil {
			cs.logger.Warn("ConsumerService", "Failed to load touched intent", map[string]interface{}{
				"intent_id": intentId.String(),
				"error":     err.Error(),
			})
			continue
		}
		if intent == nil {
			continue
		}

		var related []entity.RelatedSession
		if existing, err := cs.contextStore.LoadIntentSummary(ctx, payload.UserId, intentId); err == nil && existing != nil {
			related = existing.RelatedSessions
		}
		related = summary.MergeRelatedSession(related, ref)

		sum := cs.generator.GenerateIntentSummary(ctx, intent, related)
		if err := cs.contextStore.StoreIntentSummary(ctx, sum); err != nil {
			cs.logger.Warn("ConsumerService", "Failed to store refreshed intent summary", map[string]interface{}{
				"intent_id": intentId.String(),
				"error":     err.Error(),
			})
		}
	}

	msg.Ack()
}
