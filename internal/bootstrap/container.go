package bootstrap

import (
	"context"
	"log"

	"insight-copilot-be/internal/config"
	"insight-copilot-be/internal/controller"
	"insight-copilot-be/internal/pkg/logger"
	"insight-copilot-be/internal/pkg/serverutils"
	"insight-copilot-be/internal/repository/contract"
	"insight-copilot-be/internal/repository/implementation"
	"insight-copilot-be/internal/repository/memory"
	"insight-copilot-be/internal/service"
	"insight-copilot-be/internal/websocket"
	"insight-copilot-be/pkg/generator"
	"insight-copilot-be/pkg/generator/ollama"

	pktNats "insight-copilot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	CopilotController controller.ICopilotController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WebSocketHub *websocket.Hub
}

// NewContainer wires the whole engine. db may be nil, in which case
// sessions and user contexts live in process memory.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	verifier := serverutils.NewJwtVerifier(cfg.Auth.JwtSecret)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		rdb.Close()
		rdb = nil
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/stream.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Storage
	var sessionStore contract.SessionStore
	var contextRepo contract.UserContextRepository
	if db != nil {
		sessionStore = implementation.NewSessionStore(db)
		contextRepo = implementation.NewUserContextRepository(db)
	} else {
		log.Printf("[WARN] No database configured, using in-memory storage")
		sessionStore = memory.NewSessionStore()
		contextRepo = memory.NewUserContextRepository()
	}

	// 4. Response Generator
	var gen generator.ResponseGenerator
	if cfg.Ai.Provider == "ollama" {
		gen = ollama.NewOllamaGenerator(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		log.Printf("[INFO] Using Response Generator: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		gen = generator.NewMockGenerator()
		log.Printf("[INFO] Using Response Generator: MOCK")
	}

	// 5. Services
	publisherService := service.NewPublisherService(pubSub)
	profileService := service.NewProfileService(contextRepo)

	copilotService := service.NewCopilotService(
		sessionStore,
		gen,
		profileService,
		publisherService,
		wsHub, // Hub implements SessionActivityNotifier
		sysLogger,
		cfg.Ai.GenerationTimeout,
	)

	consumerService := service.NewConsumerService(
		pubSub,
		profileService,
		natsPub,
		sysLogger,
	)

	// 6. Transport
	streamHandler := websocket.NewStreamHandler(
		copilotService,
		verifier,
		wsHub,
		wsLogger,
		cfg.Stream.TokenDelay,
	)

	return &Container{
		CopilotController: controller.NewCopilotController(copilotService, verifier, streamHandler),
		ConsumerService:   consumerService,
		WebSocketHub:      wsHub,
	}
}
