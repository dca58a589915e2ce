package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/quizfunnel/quizfunnel/internal/analytics"
	api "github.com/quizfunnel/quizfunnel/internal/api/http"
	"github.com/quizfunnel/quizfunnel/internal/auth"
	"github.com/quizfunnel/quizfunnel/internal/catalog"
	"github.com/quizfunnel/quizfunnel/internal/config"
	"github.com/quizfunnel/quizfunnel/internal/db"
	"github.com/quizfunnel/quizfunnel/internal/engine"
	"github.com/quizfunnel/quizfunnel/internal/quiz"
	"github.com/quizfunnel/quizfunnel/internal/session"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	// --- Stores ---
	var defs quiz.Store
	if cfg.FixturePath != "" {
		defs, err = quiz.NewFixtureStore(cfg.FixturePath)
		if err != nil {
			log.Fatalf("fixture store: %v", err)
		}
		log.Printf("serving quiz definitions from %s", cfg.FixturePath)
	} else {
		defs = quiz.NewSQLStore(dbh)
	}
	items := catalog.NewSQLStore(dbh)
	recorder := analytics.NewSQLRecorder(dbh)

	var sessions session.Store
	switch cfg.SessionStore {
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis ping failed: %v", err)
		}
		sessions = session.NewRedisStore(rdb, cfg.SessionTTL)
	default:
		sessions = session.NewInMemoryStore(cfg.SessionTTL)
	}

	ctrl := engine.NewController(defs, defs, items, sessions).
		WithRecorder(recorder).
		WithMaxSteps(cfg.MaxSteps)

	tokens := auth.NewTokenService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/guest", auth.GuestHandler(tokens))

	// Respondent flow (token-scoped)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.Middleware(tokens))

		pr.Get("/quizzes/{quizID}", api.GetQuizHandler(defs))

		pr.Post("/sessions", api.StartSessionHandler(ctrl))
		pr.Post("/sessions/{sessionID}/answers", api.SubmitAnswerHandler(ctrl))
		pr.Post("/sessions/{sessionID}/advance", api.AdvanceHandler(ctrl))
		pr.Post("/sessions/{sessionID}/retreat", api.RetreatHandler(ctrl))
		pr.Post("/sessions/{sessionID}/complete", api.CompleteHandler(ctrl))

		pr.Post("/interactions", api.TrackInteractionHandler(recorder))
	})

	// Authoring writes (token-scoped; fronted by the authoring tool)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.Middleware(tokens))
		pr.Put("/quizzes", api.UploadQuizHandler(defs))
		pr.Put("/weights", api.PutWeightHandler(defs))
		pr.Put("/items", api.UpsertItemHandler(items))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s, sessions=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver, cfg.SessionStore)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
