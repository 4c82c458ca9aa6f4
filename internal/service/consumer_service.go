package service

import (
	"context"
	"encoding/json"

	"insight-copilot-be/internal/constant"
	"insight-copilot-be/internal/pkg/logger"
	"insight-copilot-be/pkg/events"
	pktNats "insight-copilot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains exchange-completed events off the internal bus,
// records usage on the user's profile and forwards a copy to NATS for
// external consumers. NATS failures are logged, never propagated.
type consumerService struct {
	pubSub   *gochannel.GoChannel
	profiles IProfileService
	natsPub  *pktNats.Publisher
	logger   logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	profiles IProfileService,
	natsPub *pktNats.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:   pubSub,
		profiles: profiles,
		natsPub:  natsPub,
		logger:   log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, constant.TopicChatExchangeCompleted)
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

type exchangeCompletedPayload struct {
	UserId    string `json:"user_id"`
	SessionId string `json:"session_id"`
	MessageId string `json:"message_id"`
	Intent    string `json:"intent"`
	LatencyMs int64  `json:"latency_ms"`
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload exchangeCompletedPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Warn("ConsumerService", "Malformed exchange event", map[string]interface{}{"error": err.Error()})
		return
	}

	userId, err := uuid.Parse(payload.UserId)
	if err != nil {
		cs.logger.Warn("ConsumerService", "Exchange event with bad user id", map[string]interface{}{"user_id": payload.UserId})
		return
	}

	if err := cs.profiles.RecordUsage(ctx, userId, payload.Intent); err != nil {
		cs.logger.Warn("ConsumerService", "Failed to record usage", map[string]interface{}{
			"user_id": payload.UserId, "error": err.Error(),
		})
	}

	if cs.natsPub != nil {
		event := events.NewChatExchangeCompleted(payload.UserId, payload.SessionId, payload.MessageId, payload.Intent, payload.LatencyMs)
		if err := cs.natsPub.Publish(ctx, event); err != nil {
			cs.logger.Warn("ConsumerService", "Failed to forward event to NATS", map[string]interface{}{"error": err.Error()})
		}
	}
}
