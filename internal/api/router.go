package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/member-store/internal/api/handlers"
	"github.com/baharkarakas/member-store/internal/auth"
	"github.com/baharkarakas/member-store/internal/config"
	"github.com/baharkarakas/member-store/internal/metrics"
	"github.com/baharkarakas/member-store/internal/middleware"
	"github.com/baharkarakas/member-store/internal/services"
)

type RouterDeps struct {
	Cfg       config.Config
	Log       *slog.Logger
	TM        *auth.TokenManager
	MemberSvc *services.MemberService
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover(d.Log), middleware.HTTPMetrics, middleware.RateLimit(d.Cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-Request-Id"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	authH := handlers.NewAuthHandler(d.TM, d.Cfg.Env)
	members := handlers.NewMembersHandler(d.MemberSvc, d.Log)
	authMW := middleware.NewAuthMiddleware(d.TM, d.Cfg.Env)

	r.Route("/api/v1", func(r chi.Router) {
		if d.Cfg.Env == "dev" {
			r.Post("/auth/token", authH.Token)
		}
		r.Post("/auth/refresh", authH.Refresh)

		r.Get("/members/{id}", members.Get)

		r.Group(func(r chi.Router) {
			r.Use(authMW.Auth)
			r.Post("/members", members.Create)
			r.Put("/members/{id}", members.Update)
			r.With(middleware.RequireRole(auth.RoleAdmin)).Delete("/members/{id}", members.Delete)
		})
	})

	return r
}
