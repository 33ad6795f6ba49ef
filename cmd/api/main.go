package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"callwatch/internal/auth"
	"callwatch/internal/config"
	"callwatch/internal/handlers"
	"callwatch/internal/model"
	"callwatch/internal/watch"
	"callwatch/internal/ws"

	_ "callwatch/docs"
)

// @title CallWatch API
// @version 1.0
// @description Supervisor dashboard gateway for live voice-agent calls
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	sync := watch.New(watch.Config{
		APIURL:         cfg.Upstream.APIURL,
		StreamURL:      cfg.Upstream.WSURL,
		TenantID:       cfg.Upstream.TenantID,
		UserID:         cfg.Upstream.UserID,
		ReconnectDelay: time.Duration(cfg.Upstream.ReconnectSeconds) * time.Second,
	}, watch.StaticToken(cfg.Upstream.Token))
	defer sync.Close()

	sync.OnNewCall(func(c model.Call) {
		log.Println("📞 NEW CALL", c.ID, c.PhoneNumber)
	})

	sync.Start(context.Background())

	r := chi.NewRouter()

	// CORS (Vite / browser dev)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://localhost:3000",
		},
		AllowedMethods: []string{
			"GET", "POST", "PUT", "DELETE", "OPTIONS",
		},
		AllowedHeaders: []string{
			"Accept", "Authorization", "Content-Type",
		},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})

	// Handlers
	authHandler := &auth.Handler{
		Users:    cfg.Users,
		TenantID: cfg.Upstream.TenantID,
		Secret:   cfg.JWT.Secret,
		TTL:      time.Minute * time.Duration(cfg.JWT.TTLMinutes),
	}

	callsHandler := &handlers.CallsHandler{Sync: sync}

	// Public routes
	r.Post("/api/auth/login", authHandler.Login)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(cfg.JWT.Secret))

		r.Get("/api/me", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(auth.FromContext(r.Context()))
		})

		r.Get("/api/calls", callsHandler.List)
		r.Post("/api/calls/refresh", callsHandler.Refresh)
	})

	// Dashboard websocket (token in query)
	r.Get("/ws/dashboard", ws.Dashboard(sync, cfg))

	// Swagger
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Start server
	log.Println("listening on", cfg.HTTP.Addr)
	http.ListenAndServe(cfg.HTTP.Addr, r)
}
