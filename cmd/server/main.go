// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jciconnect/comms-service/internal/config"
	"github.com/jciconnect/comms-service/internal/controller"
	"github.com/jciconnect/comms-service/internal/db"
	"github.com/jciconnect/comms-service/internal/handler"
	"github.com/jciconnect/comms-service/internal/metrics"
	"github.com/jciconnect/comms-service/internal/observability/logger"
	"github.com/jciconnect/comms-service/internal/repository"
	"github.com/jciconnect/comms-service/internal/service"
	"github.com/jciconnect/comms-service/internal/transport"
)

func main() {
	cfg := config.Load()

	logger.Init(logger.Config{Env: cfg.Env, Level: cfg.LogLevel})
	defer logger.Sync()
	log := logger.Named("server")

	if err := metrics.Register(nil); err != nil {
		log.Fatal("failed to register metrics", logger.Err(err))
	}

	conn, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", logger.Err(err))
	}
	defer conn.Close()

	templateRepo := &repository.TemplateRepository{DB: conn}
	settingsRepo := &repository.SettingsRepository{DB: conn}
	logRepo := &repository.MessageLogRepository{DB: conn}

	configService := service.NewConfigService(settingsRepo)
	transports := transport.NewFactory()

	dispatchService := &service.DispatchService{
		Templates:  templateRepo,
		Logs:       logRepo,
		Config:     configService,
		Transports: transports,
	}
	diagnosticsService := &service.DiagnosticsService{
		Config:     configService,
		Transports: transports,
	}

	communicationController := &controller.CommunicationController{
		Dispatch:    dispatchService,
		Diagnostics: diagnosticsService,
	}
	templateController := &controller.TemplateController{Repo: templateRepo}
	settingsController := &controller.SettingsController{Config: configService}
	logHandler := &handler.MessageLogHandler{Repo: logRepo}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Route("/api/communication", func(r chi.Router) {
		r.Post("/send-message", communicationController.SendMessage)
		r.Post("/preview-template", communicationController.PreviewTemplate)
		r.Post("/test-email", communicationController.TestEmail)
		r.Post("/test-whatsapp", communicationController.TestWhatsApp)
		r.Get("/whatsapp/status", communicationController.WhatsAppStatus)
		r.Get("/whatsapp/qr", communicationController.WhatsAppQR)
	})

	r.Route("/api/templates", func(r chi.Router) {
		r.Get("/", templateController.List)
		r.Post("/", templateController.Create)
		r.Get("/{id}", templateController.Get)
		r.Put("/{id}", templateController.Update)
		r.Delete("/{id}", templateController.Delete)
	})

	r.Get("/api/settings", settingsController.Get)
	r.Put("/api/settings", settingsController.Update)
	r.Get("/api/logs", logHandler.List)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := conn.Ping(); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", logger.Err(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", logger.Err(err))
	}
}
