package bootstrap

import (
	"log"

	"loan-voice-be/internal/config"
	"loan-voice-be/internal/handler"
	"loan-voice-be/internal/pkg/logger"
	"loan-voice-be/internal/pkg/mailer"
	"loan-voice-be/internal/service"
	"loan-voice-be/internal/websocket"
	"loan-voice-be/pkg/llm/openai"
	"loan-voice-be/pkg/loan"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Handlers
	RealtimeHandler *handler.RealtimeHandler

	// Background Services (Exposed for main.go to run)
	ReportService service.IReportService

	// WebSockets
	WebSocketHub *websocket.Hub
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	// Per-frame relay chatter goes to its own file so the main log stays readable.
	sessionLogger := logger.NewIsolatedLogger(cfg.App.SessionLogFilePath)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. LLM Provider
	if cfg.OpenAI.APIKey == "" {
		log.Printf("[WARN] OPENAI_API_KEY is empty; upstream calls will fail")
	}
	llmProvider := openai.NewOpenAIProvider(
		cfg.OpenAI.APIKey,
		cfg.OpenAI.CompletionURL,
		cfg.OpenAI.CompletionModel,
	)
	log.Printf("[INFO] Using completion model: %s", cfg.OpenAI.CompletionModel)

	// 4. WebSocket Hub
	hub := websocket.NewHub(sysLogger)
	go hub.Run()

	// 5. Services
	extractionService := service.NewExtractionService(llmProvider, cfg.OpenAI.ExtractTimeout, sysLogger)
	confirmationService := service.NewConfirmationService(llmProvider, cfg.OpenAI.ExtractTimeout, sysLogger)
	reportService := service.NewReportService(pubSub, emailService, hub, cfg.SMTP.SendTimeout, sysLogger)

	calculator := loan.NewCalculator(cfg.Loan.AnnualInterestRate, cfg.Loan.SalaryMultiple)

	// 6. Handlers
	realtimeHandler := handler.NewRealtimeHandler(cfg, hub, websocket.SessionDeps{
		Extractor:  extractionService,
		Tracker:    confirmationService,
		Reports:    reportService,
		Calculator: calculator,
		Logger:     sessionLogger,
	}, sysLogger)

	return &Container{
		RealtimeHandler: realtimeHandler,
		ReportService:   reportService,
		WebSocketHub:    hub,
	}
}
