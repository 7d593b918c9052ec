package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/Konstantin-source/Visionboard/internal/api"
	"github.com/Konstantin-source/Visionboard/internal/auth"
	"github.com/Konstantin-source/Visionboard/internal/config"
	"github.com/Konstantin-source/Visionboard/internal/db"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	dataDir := flag.String("data", "data", "data directory")
	webDir := flag.String("web", "web", "client assets directory (app.wasm, app.css)")
	flag.Parse()

	cfg := config.Load(*addr, *dataDir)

	if err := db.Init(cfg.DataDir); err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer db.Close()

	sessions := auth.NewStore(cfg.SessionTTL)
	go sessions.Run()
	defer sessions.Close()

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	api.RegisterAuthRoutes(mux, cfg, sessions)

	protected := http.NewServeMux()
	api.RegisterRoutes(protected)
	secured := api.RequireAuth(sessions, protected)
	for _, prefix := range []string{"/board/", "/items", "/items/", "/todos", "/todos/", "/sync"} {
		mux.Handle(prefix, secured)
	}

	mux.Handle("GET /web/", http.StripPrefix("/web/", http.FileServer(http.Dir(*webDir))))

	mux.Handle("/", &app.Handler{
		Name:        "Visionboard",
		Description: "A personal vision board on an infinite canvas",
		Styles:      []string{"/web/app.css"},
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("Visionboard running on %s", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
