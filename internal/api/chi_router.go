// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/vodarchive/internal/auth"
	"github.com/tomtom215/vodarchive/internal/middleware"
)

// Router mounts the handlers on a chi mux.
type Router struct {
	handler       *Handler
	auth          *auth.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. chiMW may be nil for defaults.
func NewRouter(handler *Handler, authMW *auth.Middleware, chiMW *ChiMiddleware) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		auth:          authMW,
		chiMiddleware: chiMW,
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()
	h := router.handler

	// Applied to ALL routes in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered
	r.Use(middleware.PrometheusMetrics)
	r.Use(h.perfMon.Middleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())

		r.Get("/health", h.Health)
		r.Get("/ws", h.WebSocket)
		r.With(router.chiMiddleware.RateLimitLogin()).Post("/auth/login", h.Login)

		// Public reads; compressed since video pages embed clip lists.
		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Compress(5, "application/json"))

			r.Get("/videos", h.ListVideos)
			r.Get("/videos/{id}", h.GetVideo)
			r.Get("/clips", h.ListClips)
			r.Get("/clips/{id}", h.GetClip)
			r.Get("/categories", h.Categories)
			r.Get("/sync/status", h.SyncStatus)
		})

		// Editor routes: 503 EDITOR_DISABLED without a password, else 401
		// without a valid token.
		r.Group(func(r chi.Router) {
			r.Use(router.auth.RequireEditor)

			r.Post("/sync", h.TriggerSync)
			r.Get("/sync/test", h.SyncTest)
			r.Post("/repair/links", h.RepairLinks)
			r.Post("/repair/link-ids", h.RepairLinkIDs)

			r.Post("/videos", h.CreateVideo)
			r.Put("/videos/{id}", h.UpdateVideo)
			r.Delete("/videos/{id}", h.DeleteVideo)
			r.Post("/videos/{id}/links", h.AddVideoLink)
			r.Delete("/videos/{id}/links/{linkID}", h.DeleteVideoLink)

			r.Post("/clips", h.CreateClip)
			r.Put("/clips/{id}", h.UpdateClip)
			r.Delete("/clips/{id}", h.DeleteClip)
			r.Put("/clips/{id}/favorite", h.SetClipFavorite)
			r.Put("/clips/{id}/video", h.SetClipVideo)
		})
	})

	return r
}
