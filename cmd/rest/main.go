package main

import (
	"context"
	"log"

	"loan-voice-be/internal/bootstrap"
	"loan-voice-be/internal/config"
	"loan-voice-be/internal/server"
	"loan-voice-be/internal/tracer"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)

	// 3. Start Background Services
	go func() {
		log.Println("Background: Starting Report Service...")
		if err := container.ReportService.Start(context.Background()); err != nil {
			log.Printf("Background Report Service Error: %v", err)
		}
	}()

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Run Server
	log.Fatal(srv.Run())
}
