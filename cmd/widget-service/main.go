// cmd/widget-service/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"embedchat/internal/chat"
	"embedchat/internal/token"
	"embedchat/pkg/apps"
	"embedchat/pkg/config"
	"embedchat/pkg/db"
	"embedchat/pkg/logger"
	"embedchat/pkg/middleware"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)

	pool := db.MustConnect(cfg, log)
	rdb := db.MustRedis(cfg, log)

	var dir apps.Directory
	if pool != nil {
		dir = apps.NewPostgresDirectory(pool, log)
		if err := apps.EnsureSchema(context.Background(), pool); err != nil {
			log.Fatalw("schema", "err", err)
		}
		if err := apps.SeedFromEnv(context.Background(), pool, cfg.AppSeedJSON); err != nil {
			log.Warnw("seed", "err", err)
		}
	} else {
		dir = apps.NewMemoryDirectoryFromEnv(log)
	}

	codec, err := token.NewCodec(cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatalw("token codec", "err", err)
	}
	var cache token.Cache
	if rdb != nil {
		cache = token.NewRedisCache(rdb, log)
	} else {
		cache = token.NewMemoryCache()
	}
	svc := token.NewService(dir, codec, cache, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recover(log))
	// The widget runs on customer pages: allow cross-origin calls.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			} else {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			w.Header().Set("Access-Control-Max-Age", "86400")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	})
	r.Use(middleware.Tracing())

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("ok")) })
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("pong")) })
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	token.RegisterRoutes(r, svc)
	r.Group(func(gr chi.Router) {
		gr.Use(token.RequireBearer(codec))
		chat.RegisterRoutes(gr, chat.NewService(dir, pool, nil, log))
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		log.Infow("widget-service listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("ListenAndServe", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	fmt.Println("widget-service stopped")
}
