package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/badAtCoding144/vigilant-octo-pong/internal/api"
	"github.com/badAtCoding144/vigilant-octo-pong/internal/config"
	"github.com/badAtCoding144/vigilant-octo-pong/internal/db"
	"github.com/badAtCoding144/vigilant-octo-pong/internal/history"
	"github.com/badAtCoding144/vigilant-octo-pong/internal/logging"
	"github.com/badAtCoding144/vigilant-octo-pong/internal/registry"
	"github.com/badAtCoding144/vigilant-octo-pong/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	logging.Setup(logging.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})

	database, err := db.New(cfg.DBPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize match database")
	}

	reg := registry.New(database)
	hub := ws.NewHub(reg)

	pruner := history.New(database, history.DefaultConfig())
	pruner.Start()

	apiHandler := api.New(hub, reg, database)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWs(hub, w, r)
	})
	mux.HandleFunc("/health", apiHandler.HealthHandler)
	mux.HandleFunc("/api/stats", apiHandler.StatsHandler)
	mux.HandleFunc("/api/rooms", apiHandler.RoomsHandler)
	mux.HandleFunc("/api/matches", apiHandler.MatchesHandler)

	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: corsMiddleware(mux),
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logrus.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logrus.WithError(err).Warn("forced shutdown")
		}
	}()

	logrus.WithFields(logrus.Fields{
		"addr": cfg.Addr(),
		"db":   cfg.DBPath,
	}).Info("pong server starting")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.WithError(err).Fatal("server failed")
	}

	pruner.Stop()
	reg.Close()
	if err := database.Close(); err != nil {
		logrus.WithError(err).Warn("failed to close match database")
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
