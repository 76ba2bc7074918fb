package bootstrap

import (
	"context"
	"log"

	"collabdesk-be/internal/config"
	"collabdesk-be/internal/controller"
	"collabdesk-be/internal/handler"
	"collabdesk-be/internal/pkg/logger"
	"collabdesk-be/internal/repository/contract"
	"collabdesk-be/internal/repository/implementation"
	"collabdesk-be/internal/service"
	"collabdesk-be/internal/websocket"
	"collabdesk-be/pkg/collab/contextstore"
	"collabdesk-be/pkg/collab/registry"
	"collabdesk-be/pkg/collab/router"
	"collabdesk-be/pkg/collab/session"

	pktNats "collabdesk-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	CollabController controller.ICollabController

	// Background Services (Exposed for main.go to run)
	EventRelayService service.IEventRelayService

	// WebSockets
	StreamHandler *handler.StreamHandler
	WebSocketHub  *websocket.Hub

	// Loggers (exposed for flushing on shutdown)
	SysLogger logger.ILogger
}

// NewContainer wires the process. The engine is constructed in strict
// dependency order with no global state: registry, then context store,
// then router, then session manager. db may be nil (no archive backing).
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Collaboration engine
	agentRegistry := registry.NewRegistry(registry.DefaultAgents())
	store := contextstore.NewStore()
	messageRouter := router.NewRouter(agentRegistry, store, sysLogger)
	sessionManager := session.NewManager(messageRouter, sysLogger)

	// 3. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 4. Infrastructure
	// NATS (optional cross-process mirror)
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		var err error
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			natsPub = nil
		}
	}

	// Redis (optional cross-instance websocket fan-out)
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/stream.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// Archive repository (optional; only when a DSN is configured)
	var archiveRepo contract.ArchiveRepository
	if db != nil {
		archiveRepo = implementation.NewArchiveRepository(db)
	}

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Collab.EventTopic, pubSub)
	eventRelayService := service.NewEventRelayService(
		pubSub,
		cfg.Collab.EventTopic,
		wsHub,
		natsPub,
		wsLogger,
	)

	collabService := service.NewCollabService(
		sessionManager,
		store,
		agentRegistry,
		publisherService,
		archiveRepo,
		sysLogger,
	)

	// 6. Controllers & Handlers
	collabController := controller.NewCollabController(collabService)
	streamHandler := handler.NewStreamHandler(wsHub, wsLogger)

	return &Container{
		CollabController:  collabController,
		EventRelayService: eventRelayService,
		StreamHandler:     streamHandler,
		WebSocketHub:      wsHub,
		SysLogger:         sysLogger,
	}
}
