package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"insight-copilot-be/internal/constant"
	"insight-copilot-be/internal/dto"
	"insight-copilot-be/internal/entity"
	"insight-copilot-be/internal/pkg/logger"
	"insight-copilot-be/internal/pkg/serverutils"
	"insight-copilot-be/internal/repository/contract"
	"insight-copilot-be/pkg/copilot/enrich"
	"insight-copilot-be/pkg/copilot/intent"
	"insight-copilot-be/pkg/events"
	"insight-copilot-be/pkg/generator"

	"github.com/google/uuid"
)

// SessionActivityNotifier pushes real-time session updates to a user's
// other live connections. Implemented by the websocket hub.
type SessionActivityNotifier interface {
	SessionUpdated(userId, sessionId uuid.UUID)
}

// ICopilotService is the business pipeline shared by the REST and
// websocket ingress paths.
type ICopilotService interface {
	Chat(ctx context.Context, principal *entity.Principal, request *dto.ChatRequest) (*dto.ChatResponse, error)
	GetSession(ctx context.Context, principal *entity.Principal, sessionId uuid.UUID) (*dto.SessionDetailResponse, error)
	ListSessions(ctx context.Context, principal *entity.Principal) ([]*dto.SessionSummaryResponse, error)
}

type copilotService struct {
	store             contract.SessionStore
	gen               generator.ResponseGenerator
	profiles          IProfileService
	publisher         IPublisherService
	notifier          SessionActivityNotifier
	logger            logger.ILogger
	generationTimeout time.Duration
}

func NewCopilotService(
	store contract.SessionStore,
	gen generator.ResponseGenerator,
	profiles IProfileService,
	publisher IPublisherService,
	notifier SessionActivityNotifier,
	log logger.ILogger,
	generationTimeout time.Duration,
) ICopilotService {
	return &copilotService{
		store:             store,
		gen:               gen,
		profiles:          profiles,
		publisher:         publisher,
		notifier:          notifier,
		logger:            log,
		generationTimeout: generationTimeout,
	}
}

// Chat runs the full pipeline: validate, resolve-or-create session with the
// ownership check, persist the inbound message, enrich and classify,
// generate, persist the reply. Nothing is persisted before the session is
// resolved against the principal.
func (cs *copilotService) Chat(ctx context.Context, principal *entity.Principal, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	if strings.TrimSpace(request.Query) == "" {
		return nil, serverutils.NewValidationError("Query must not be empty", nil)
	}
	if utf8.RuneCountInString(request.Query) > constant.MaxQueryLength {
		return nil, serverutils.NewValidationError("Query exceeds maximum length", map[string]interface{}{
			"maxLength": constant.MaxQueryLength,
		})
	}

	session, err := cs.resolveSession(ctx, principal, request)
	if err != nil {
		return nil, err
	}

	if _, err := cs.profiles.EnsureProfile(ctx, principal); err != nil {
		cs.logger.Warn("CopilotService", "Profile provisioning failed", map[string]interface{}{
			"user_id": principal.Subject, "error": err.Error(),
		})
	}

	history, err := cs.recentHistory(ctx, session.Id)
	if err != nil {
		return nil, err
	}

	enrichedContext := enrich.Enrich(request.Context.ToMap(), principal)
	intentLabel := intent.Classify(request.Query)

	inbound := &entity.Message{
		Role:    constant.MessageRoleUser,
		Content: request.Query,
		Intent:  intentLabel,
	}
	if _, err := cs.store.AppendMessage(ctx, session.Id, inbound); err != nil {
		return nil, cs.mapStoreError(err)
	}

	started := time.Now()
	result, err := cs.generate(ctx, request.Query, enrichedContext, history)
	if err != nil {
		cs.logger.Error("CopilotService", "Generation failed", map[string]interface{}{
			"session_id": session.Id, "error": err.Error(),
		})
		return nil, serverutils.NewGenerationError("Response generation failed")
	}
	latencyMs := time.Since(started).Milliseconds()

	replyIntent := result.Intent
	if replyIntent == "" {
		replyIntent = intentLabel
	}
	confidence := int(math.Round(result.Confidence * 100))

	outbound := &entity.Message{
		Role:             constant.MessageRoleAssistant,
		Content:          result.Text,
		Intent:           replyIntent,
		Confidence:       &confidence,
		DataSources:      result.DataSources,
		SuggestedPrompts: result.SuggestedPrompts,
		Metadata: &entity.MessageMetadata{
			TokensUsed: len(strings.Fields(result.Text)),
			LatencyMs:  latencyMs,
			Cached:     false,
		},
	}
	persisted, err := cs.store.AppendMessage(ctx, session.Id, outbound)
	if err != nil {
		return nil, cs.mapStoreError(err)
	}

	cs.afterExchange(ctx, principal, session.Id, persisted, latencyMs)

	return &dto.ChatResponse{
		SessionId: session.Id,
		MessageId: persisted.Id,
		Response: dto.ResponseBody{
			Text:             persisted.Content,
			Confidence:       confidence,
			Intent:           persisted.Intent,
			DataSources:      emptyIfNil(persisted.DataSources),
			SuggestedPrompts: emptyIfNil(persisted.SuggestedPrompts),
			Actions:          emptyIfNil(persisted.Actions),
		},
		Metadata: dto.ChatMetadata{
			TokensUsed: persisted.Metadata.TokensUsed,
			LatencyMs:  persisted.Metadata.LatencyMs,
			Cached:     persisted.Metadata.Cached,
		},
		Timestamp: persisted.CreatedAt,
	}, nil
}

// resolveSession loads and authorizes a supplied session id, or creates a
// fresh session bound to the principal. Ownership mismatch and absence are
// both reported as not-found so session existence is never leaked.
func (cs *copilotService) resolveSession(ctx context.Context, principal *entity.Principal, request *dto.ChatRequest) (*entity.Session, error) {
	if request.SessionId != nil {
		session, err := cs.store.GetSession(ctx, *request.SessionId)
		if err != nil {
			return nil, err
		}
		if session == nil || session.UserId != principal.Subject {
			return nil, serverutils.NewNotFoundError("Session not found")
		}
		return session, nil
	}

	return cs.store.CreateSession(ctx, principal.Subject, principal.OrgId, request.Context.ToMap())
}

// recentHistory returns the most recent turns of the session, oldest
// first, before the current query is appended.
func (cs *copilotService) recentHistory(ctx context.Context, sessionId uuid.UUID) ([]generator.HistoryMessage, error) {
	messages, err := cs.store.ListMessages(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	if len(messages) > constant.HistoryWindow {
		messages = messages[len(messages)-constant.HistoryWindow:]
	}

	history := make([]generator.HistoryMessage, len(messages))
	for i, msg := range messages {
		history[i] = generator.HistoryMessage{Role: msg.Role, Content: msg.Content}
	}
	return history, nil
}

func (cs *copilotService) generate(ctx context.Context, query string, enrichedContext map[string]interface{}, history []generator.HistoryMessage) (*generator.Result, error) {
	genCtx, cancel := context.WithTimeout(ctx, cs.generationTimeout)
	defer cancel()

	return cs.gen.Generate(genCtx, generator.Input{
		Query:   query,
		Context: enrichedContext,
		History: history,
	})
}

// afterExchange fans out the completed exchange: event bus for the usage
// consumer, hub notification for the user's other devices. Both are
// best-effort.
func (cs *copilotService) afterExchange(ctx context.Context, principal *entity.Principal, sessionId uuid.UUID, reply *entity.Message, latencyMs int64) {
	if cs.publisher != nil {
		event := events.NewChatExchangeCompleted(
			principal.Subject.String(),
			sessionId.String(),
			reply.Id.String(),
			reply.Intent,
			latencyMs,
		)
		if err := cs.publisher.Publish(ctx, constant.TopicChatExchangeCompleted, event); err != nil {
			cs.logger.Warn("CopilotService", "Failed to publish exchange event", map[string]interface{}{
				"session_id": sessionId, "error": err.Error(),
			})
		}
	}

	if cs.notifier != nil {
		cs.notifier.SessionUpdated(principal.Subject, sessionId)
	}
}

func (cs *copilotService) GetSession(ctx context.Context, principal *entity.Principal, sessionId uuid.UUID) (*dto.SessionDetailResponse, error) {
	session, err := cs.store.GetSession(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserId != principal.Subject {
		return nil, serverutils.NewNotFoundError("Session not found")
	}

	messages, err := cs.store.ListMessages(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	out := make([]dto.MessageResponse, len(messages))
	for i, msg := range messages {
		out[i] = dto.MessageResponse{
			Id:               msg.Id,
			Role:             msg.Role,
			Content:          msg.Content,
			Intent:           msg.Intent,
			Confidence:       msg.Confidence,
			DataSources:      msg.DataSources,
			SuggestedPrompts: msg.SuggestedPrompts,
			Actions:          msg.Actions,
			CreatedAt:        msg.CreatedAt,
		}
	}

	return &dto.SessionDetailResponse{
		Session:  toSessionSummary(session),
		Messages: out,
	}, nil
}

func (cs *copilotService) ListSessions(ctx context.Context, principal *entity.Principal) ([]*dto.SessionSummaryResponse, error) {
	sessions, err := cs.store.ListSessionsByOwner(ctx, principal.Subject)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.SessionSummaryResponse, len(sessions))
	for i, session := range sessions {
		summary := toSessionSummary(session)
		out[i] = &summary
	}
	return out, nil
}

func (cs *copilotService) mapStoreError(err error) error {
	if errors.Is(err, contract.ErrSessionNotFound) {
		return serverutils.NewNotFoundError("Session not found")
	}
	return err
}

func toSessionSummary(session *entity.Session) dto.SessionSummaryResponse {
	return dto.SessionSummaryResponse{
		Id:           session.Id,
		MessageCount: session.MessageCount,
		Context:      session.Context,
		CreatedAt:    session.CreatedAt,
		LastActivity: session.LastActivity,
	}
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
