package router

import (
	"net/http"

	"Mansoor88-6/work-timer/internal/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// New builds the HTTP API. metricsHandler may be nil.
func New(timerHandler *handler.TimerHandler, metricsHandler http.Handler, allowedOrigins []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         3600,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/timer", func(r chi.Router) {
			r.Get("/", timerHandler.GetTimer)
			r.Post("/start", timerHandler.Start)
			r.Post("/pause", timerHandler.Pause)
			r.Post("/resume", timerHandler.Resume)
			r.Post("/stop", timerHandler.Stop)
			r.Post("/reset", timerHandler.Reset)
			r.Put("/description", timerHandler.SetDescription)
			r.Put("/widget", timerHandler.SetWidget)
		})
		r.Get("/sessions", timerHandler.GetSessions)
		r.Get("/projects", timerHandler.GetProjects)
		r.Get("/notifications", timerHandler.GetNotifications)
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Debug("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
			)
			next.ServeHTTP(w, r)
		})
	}
}
