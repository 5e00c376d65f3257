package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/pattern-classroom/quizsvc/internal/ai"
	api "github.com/pattern-classroom/quizsvc/internal/api/http"
	"github.com/pattern-classroom/quizsvc/internal/config"
	"github.com/pattern-classroom/quizsvc/internal/counter"
	"github.com/pattern-classroom/quizsvc/internal/db"
	"github.com/pattern-classroom/quizsvc/internal/grading"
	"github.com/pattern-classroom/quizsvc/internal/ledger"
	"github.com/pattern-classroom/quizsvc/internal/quiz"
)

func main() {
	cfg := config.FromEnv()

	// --- DB (attempt counters) ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	counters := counter.NewSQLCounter(dbh)

	// --- Attempt ledger (JSONL + CSV mirror) ---
	store, err := ledger.NewFileStore(cfg.LedgerJSONLPath, cfg.LedgerCSVPath)
	if err != nil {
		log.Fatalf("ledger store: %v", err)
	}

	// --- AI grading adapter ---
	var grader ai.Grader
	if cfg.AIGradingEnabled && cfg.GeminiAPIKey != "" {
		g, err := ai.NewGeminiGrader(ctx, ai.GeminiConfig{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			Timeout: cfg.AITimeout,
		})
		if err != nil {
			log.Fatalf("gemini grader: %v", err)
		}
		grader = g
	} else {
		// free-text items take their deterministic fallback paths
		log.Printf("AI grading disabled (enabled=%v, key set=%v)", cfg.AIGradingEnabled, cfg.GeminiAPIKey != "")
	}

	svc := quiz.NewService(
		quiz.NewCatalog(quiz.DefaultBank()),
		grading.NewDispatcher(grader),
		store,
		counters,
	)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/quiz", func(qr chi.Router) {
		qr.Get("/mqs", api.ListMQsHandler(svc))
		qr.Get("/mq/{mqID}", api.GetMQHandler(svc))
		qr.Post("/submit", api.SubmitHandler(svc))
		qr.Get("/next", api.NextMQHandler(svc))
		qr.Get("/analytics/attempts", api.ExportAttemptsHandler(store))
		qr.Get("/analytics/summary", api.AnalyticsSummaryHandler(store))
	})

	r.Route("/ai", func(ar chi.Router) {
		ar.Get("/health", api.AIHealthHandler(grader))
		ar.Post("/generate", api.AIGenerateHandler(grader))
		ar.Post("/grade", api.AIGradeHandler(grader))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s, ledger=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver, cfg.LedgerJSONLPath)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
