package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/salescope/pipeline-insights/internal/infra/cache"
	"github.com/salescope/pipeline-insights/internal/infra/database"
	"github.com/salescope/pipeline-insights/internal/infra/http/handlers"
	ownMiddleware "github.com/salescope/pipeline-insights/internal/infra/http/middleware"
	"github.com/salescope/pipeline-insights/internal/infra/mail"
	"github.com/salescope/pipeline-insights/internal/infra/queue"
	"github.com/salescope/pipeline-insights/internal/usecase"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func main() {
	godotenv.Load()

	referenceTZ, err := time.LoadLocation(getEnv("REPORT_TZ", "Europe/Paris"))
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	maxExportRows := getEnvInt("EXPORT_MAX_ROWS", 500)
	cacheTTL := time.Duration(getEnvInt("CACHE_TTL_SECONDS", 60)) * time.Second

	// 1. Repositories
	eventRepo := database.NewEventRepository(db)
	leadRepo := database.NewLeadRepository(db)
	actorRepo := database.NewActorRepository(db)
	budgetRepo := database.NewBudgetRepository(db)
	stageRepo := database.NewStageRepository(db)

	// 2. Report cache (noop unless redis is configured)
	var reportCache cache.Cache = cache.NewNoop()
	var redisPinger handlers.Pinger
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisCache := cache.NewRedis(addr, os.Getenv("REDIS_PASSWORD"), getEnvInt("REDIS_DB", 0))
		reportCache = redisCache
		redisPinger = redisCache
		log.Println("redis report cache enabled")
	}

	// 3. Use cases
	summaryUC := usecase.NewSummaryUseCase(eventRepo, leadRepo, budgetRepo, stageRepo)
	funnelUC := usecase.NewFunnelUseCase(eventRepo, stageRepo)
	spotlightUC := usecase.NewSpotlightUseCase(eventRepo, leadRepo, actorRepo, stageRepo)
	duoUC := usecase.NewDuoUseCase(eventRepo, leadRepo, actorRepo, stageRepo)
	budgetUC := usecase.NewBudgetUseCase(budgetRepo, leadRepo, stageRepo, referenceTZ)

	// 4. Export delivery (optional: needs rabbitmq + smtp)
	var producer queue.ExportProducerInterface
	var rabbitMQ *queue.RabbitMQ
	if host := os.Getenv("RABBITMQ_HOST"); host != "" {
		rabbitMQ, err = queue.NewRabbitMQ(
			getEnv("RABBITMQ_USER", "guest"),
			getEnv("RABBITMQ_PASS", "guest"),
			host,
			getEnv("RABBITMQ_PORT", "5672"),
		)
		if err != nil {
			log.Fatal(err)
		}
		defer rabbitMQ.Conn.Close()
		defer rabbitMQ.Ch.Close()
		producer = queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)

		mailSender := mail.NewEmailSender(
			os.Getenv("MAIL_HOST"),
			getEnvInt("MAIL_PORT", 587),
			os.Getenv("MAIL_USER"),
			os.Getenv("MAIL_PASS"),
			getEnv("MAIL_FROM", "reports@salescope.io"),
		)

		worker := queue.NewWorker(rabbitMQ.Ch, spotlightUC, mailSender, referenceTZ, maxExportRows)
		go worker.Start(queue.QueueName)
	}

	// 5. Handlers
	reportHandler := handlers.NewReportHandler(summaryUC, funnelUC, spotlightUC, duoUC, reportCache, cacheTTL, referenceTZ)
	exportHandler := handlers.NewExportHandler(spotlightUC, producer, referenceTZ, maxExportRows)
	budgetHandler := handlers.NewBudgetHandler(budgetUC, referenceTZ)

	var healthHandler *handlers.HealthHandler
	if rabbitMQ != nil {
		healthHandler = handlers.NewHealthHandler(db, rabbitMQ.Conn, redisPinger)
	} else {
		healthHandler = handlers.NewHealthHandler(db, nil, redisPinger)
	}

	// 6. Router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(ownMiddleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{getEnv("FRONTEND_ORIGIN", "http://localhost:5173"), "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/reports", func(r chi.Router) {
		r.Get("/summary", reportHandler.HandleSummary)
		r.Get("/funnel", reportHandler.HandleFunnel)
		r.Get("/spotlight/setters", reportHandler.HandleSpotlightSetters)
		r.Get("/spotlight/closers", reportHandler.HandleSpotlightClosers)
		r.Get("/duos", reportHandler.HandleDuos)

		r.Get("/export/spotlight-setters.csv", exportHandler.HandleSettersCSV)
		r.Get("/export/spotlight-setters.pdf", exportHandler.HandleSettersPDF)
		r.Get("/export/spotlight-closers.csv", exportHandler.HandleClosersCSV)
		r.Get("/export/spotlight-closers.pdf", exportHandler.HandleClosersPDF)
		r.Post("/export/email", exportHandler.HandleEmailExport)
	})

	r.Route("/budgets", func(r chi.Router) {
		r.Post("/", budgetHandler.HandleUpsert)
		r.Get("/roas", budgetHandler.HandleWeeklyROAS)
	})

	port := ":" + getEnv("PORT", "8080")
	log.Printf("pipeline-insights API listening on %s (reference tz %s)", port, referenceTZ)
	http.ListenAndServe(port, r)
}
