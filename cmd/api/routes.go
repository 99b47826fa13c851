package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"aura-backend/internal/auth"
	"aura-backend/internal/config"
	"aura-backend/internal/faqs"
	"aura-backend/internal/middleware"
	"aura-backend/internal/portfolio"
	"aura-backend/internal/services"
	"aura-backend/internal/transport"
	"aura-backend/internal/uploads"
	"aura-backend/internal/users"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

type pinger func(ctx context.Context) error

type routes struct {
	cfg       *config.Config
	log       *slog.Logger
	jwt       *auth.Manager
	store     *uploads.Store
	services  *services.Handler
	faqs      *faqs.Handler
	portfolio *portfolio.Handler
	users     *users.Handler
	uploads   *uploads.Handler
	ping      pinger
}

func (rt *routes) handler() http.Handler {
	cfg := rt.cfg
	window := time.Duration(cfg.RateLimitWindowSec) * time.Second
	uploadLimiter := middleware.NewRateLimiter(cfg.RateLimitUploads, window)
	publicLimiter := middleware.NewRateLimiter(cfg.RateLimitPublic, window)
	requireAuth := middleware.RequireAuth(cfg.AdminAPIKey, rt.jwt, users.RoleAdmin, users.RoleEditor)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(rt.log))
	r.Use(middleware.CORS(cfg.FrontendOrigins))
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		transport.WriteError(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		transport.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", rt.health)

	r.Route("/service", func(svc chi.Router) {
		svc.Get("/list", rt.services.PublicList)
		svc.Get("/slugs", rt.services.Slugs)
		svc.Get("/slug/{slug}", rt.services.GetBySlug)

		// Middlewares must be attached before routes on a chi group.
		svc.Group(func(protected chi.Router) {
			protected.Use(requireAuth)
			protected.Post("/add", rt.services.Create)
			protected.Put("/update/{id}", rt.services.Update)
			protected.Get("/admin/list", rt.services.AdminList)
			protected.Delete("/delete", rt.services.DeleteMany)
		})

		svc.Get("/{id}", rt.services.GetByID)
	})

	r.Route("/faqs", func(f chi.Router) {
		f.With(publicLimiter.Middleware).Post("/add", rt.faqs.Create)
		f.Get("/list", rt.faqs.List)
		f.Group(func(protected chi.Router) {
			protected.Use(requireAuth)
			protected.Put("/update/{id}", rt.faqs.Update)
			protected.Delete("/delete/{id}", rt.faqs.Delete)
			protected.Delete("/delete", rt.faqs.DeleteMany)
		})
		f.Get("/{id}", rt.faqs.Get)
	})

	r.Route("/portfolio", func(p chi.Router) {
		p.Get("/list", rt.portfolio.PublicList)
		p.Group(func(protected chi.Router) {
			protected.Use(requireAuth)
			protected.Post("/add", rt.portfolio.Create)
			protected.Get("/admin/list", rt.portfolio.AdminList)
			protected.Put("/update/{id}", rt.portfolio.Update)
			protected.Delete("/delete/{id}", rt.portfolio.Delete)
			protected.Delete("/delete-many", rt.portfolio.DeleteMany)
		})
		p.Get("/{id}", rt.portfolio.Get)
	})

	r.Route("/admin", func(admin chi.Router) {
		admin.With(publicLimiter.Middleware).Post("/login", rt.users.Login)
		admin.Post("/refresh", rt.users.Refresh)
		admin.Post("/logout", rt.users.Logout)
		admin.With(requireAuth).Get("/me", rt.users.Me)
	})

	r.With(uploadLimiter.Middleware).Post("/upload-image", rt.uploads.UploadImage)
	r.Handle("/uploads/*", rt.store.FileServer("/uploads/"))

	return r
}

func (rt *routes) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if rt.ping != nil {
		if err := rt.ping(ctx); err != nil {
			rt.log.Error("health: mongo ping failed", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
	}
	transport.WriteStatus(w, http.StatusOK, "ok", nil)
}
