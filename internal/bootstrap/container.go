package bootstrap

import (
	"context"
	"log"

	"ai-context-be/internal/config"
	"ai-context-be/internal/controller"
	"ai-context-be/internal/pkg/logger"
	"ai-context-be/internal/repository/unitofwork"
	"ai-context-be/internal/service"
	"ai-context-be/internal/store"
	"ai-context-be/pkg/llm/factory"
	pktNats "ai-context-be/pkg/nats"
	"ai-context-be/pkg/signal"
	"ai-context-be/pkg/summary"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ContextController controller.IContextController

	// Background services (exposed for main.go to run)
	ConsumerService    service.IConsumerService
	MaintenanceService service.IMaintenanceService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. LLM provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

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

	// 5. Store layer
	fastStore := store.NewRedisStore(rdb)
	searchIndex := store.NewSearchIndex(fastStore, sysLogger)
	contextStore := store.NewContextStore(fastStore, uowFactory, searchIndex, sysLogger)

	// 6. Domain components
	thresholds := signal.Thresholds{
		Explicit:     cfg.Tracker.ExplicitConfidence,
		ImplicitBase: cfg.Tracker.ImplicitConfidence,
		MatchedBoost: cfg.Tracker.MatchedBoost,
		Switch:       cfg.Tracker.SwitchConfidence,
		LLMMin:       cfg.Tracker.LLMMinConfidence,
	}
	detector := signal.NewDetector(llmProvider, sysLogger, thresholds)
	generator := summary.NewGenerator(llmProvider, sysLogger)

	// 7. Services
	publisherService := service.NewPublisherService(pubSub, service.TopicIntentRefresh)
	consumerService := service.NewConsumerService(
		pubSub,
		service.TopicIntentRefresh,
		uowFactory,
		contextStore,
		generator,
		sysLogger,
	)

	intentService := service.NewIntentService(uowFactory, contextStore, generator, natsPub, sysLogger)
	sessionService := service.NewSessionService(uowFactory, contextStore, generator, publisherService, natsPub, sysLogger)
	trackerService := service.NewTrackerService(detector, intentService, sessionService, cfg.Tracker, sysLogger)
	contextService := service.NewContextService(contextStore, uowFactory, sysLogger)
	maintenanceService := service.NewMaintenanceService(uowFactory, contextStore, generator, cfg.Tracker, sysLogger)

	// 8. Controllers
	return &Container{
		ContextController:  controller.NewContextController(contextService, trackerService, sessionService),
		ConsumerService:    consumerService,
		MaintenanceService: maintenanceService,
	}
}
