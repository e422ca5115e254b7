package bootstrap

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"patent-scout-be/internal/config"
	"patent-scout-be/internal/controller"
	"patent-scout-be/internal/handler"
	"patent-scout-be/internal/pkg/logger"
	"patent-scout-be/internal/pkg/mailer"
	"patent-scout-be/internal/repository/memory"
	"patent-scout-be/internal/repository/unitofwork"
	"patent-scout-be/internal/service"
	"patent-scout-be/internal/websocket"
	pktNats "patent-scout-be/pkg/nats"
	"patent-scout-be/pkg/upstream"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const sessionDirtyTopic = "SESSION_DIRTY"

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	SessionController controller.ISessionController
	SearchController  controller.ISearchController
	AssistController  controller.IAssistController
	LogController     controller.ILogController

	// WebSockets
	SessionStreamHandler *handler.SessionStreamHandler
	WebSocketHub         *websocket.Hub

	// Background Services (Exposed for main.go to run)
	AutosaveService service.IAutosaveService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Plumbing
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Per-session bus logging goes to plain stdout; the buses are chatty
	// and structured logging there would drown the service log.
	busLog := log.New(os.Stdout, "", log.LstdFlags)

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
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/session_stream.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Session Storage
	liveSessions := memory.NewLiveSessionRepository(time.Duration(cfg.Session.LiveTTLMinutes) * time.Minute)
	quota := memory.NewQuotaRepository()

	// 4. Upstream APIs
	upstreamClient := upstream.NewClient(
		upstream.Config{
			SearchBaseURL: cfg.Upstream.SearchBaseURL,
			SearchAPIKey:  cfg.Upstream.SearchAPIKey,
			AssistBaseURL: cfg.Upstream.AssistBaseURL,
			AssistAPIKey:  cfg.Upstream.AssistAPIKey,
		},
		&http.Client{Timeout: time.Duration(cfg.Upstream.RequestTimeout) * time.Second},
		busLog,
	)

	// 5. Services
	publisherService := service.NewPublisherService(pubSub, sessionDirtyTopic)
	sessionService := service.NewSessionService(
		uowFactory,
		liveSessions,
		publisherService,
		wsHub,
		natsPub,
		sysLogger,
		busLog,
	)
	autosaveService := service.NewAutosaveService(
		pubSub,
		sessionDirtyTopic,
		uowFactory,
		liveSessions,
		time.Duration(cfg.Session.AutosaveDebounceMs)*time.Millisecond,
		natsPub,
		sysLogger,
	)

	searchService := service.NewSearchService(
		sessionService,
		upstreamClient,
		quota,
		cfg.FreeTier.SearchLimit,
		sysLogger,
	)
	assistService := service.NewAssistService(sessionService, upstreamClient, sysLogger)
	authService := service.NewAuthService(uowFactory, emailService, natsPub)
	logService := service.NewLogService(sysLogger, liveSessions)

	// 6. Controllers
	return &Container{
		AuthController:    controller.NewAuthController(authService),
		SessionController: controller.NewSessionController(sessionService),
		SearchController:  controller.NewSearchController(searchService),
		AssistController:  controller.NewAssistController(assistService),
		LogController:     controller.NewLogController(logService),

		SessionStreamHandler: handler.NewSessionStreamHandler(sessionService, wsHub, wsLogger),
		WebSocketHub:         wsHub,

		AutosaveService: autosaveService,
	}
}
