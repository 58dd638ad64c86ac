package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"connectideas/api/internal/app"
	"connectideas/api/internal/boardlog"
	"connectideas/api/internal/config"
	"connectideas/api/internal/email"
	"connectideas/api/internal/export"
	"connectideas/api/internal/ideas"
	"connectideas/api/internal/imagestore"
	"connectideas/api/internal/kv"
	"connectideas/api/internal/search"
	"connectideas/api/internal/session"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	var kvStore kv.Store
	if strings.TrimSpace(cfg.RedisURL) != "" {
		log.Printf("Using Redis for board storage")
		redisStore, err := kv.NewRedisStore(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		kvStore = redisStore
	} else {
		log.Printf("Using PostgreSQL for board storage")
		pgStore, err := kv.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		kvStore = pgStore
	}
	defer kvStore.Close()

	repo := ideas.NewRepository(kvStore)
	sessions := session.NewStore(kvStore)

	history := boardlog.New(cfg.HistoryDir)
	if err := history.Ensure(); err != nil {
		log.Fatalf("history repo init failed: %v", err)
	}

	var meiliClient *search.Meili
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		meiliClient = search.NewMeili(cfg.MeiliURL, cfg.MeiliKey)
		defer meiliClient.Close()
	}
	searchService := search.NewService(meiliClient, search.NewMemory(repo.GetAll))

	images := imagestore.New(imagestore.Config{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	})

	mail := email.NewService(email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
	})

	service := app.NewService(app.Deps{
		KV:          kvStore,
		Repo:        repo,
		Sessions:    sessions,
		Search:      searchService,
		Images:      images,
		History:     history,
		Exporter:    export.NewService(),
		Mail:        mail,
		ContactTo:   cfg.ContactTo,
		TokenSecret: []byte(cfg.TokenSecret),
		TokenTTL:    cfg.TokenTTL,
	})

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Connect Ideas API listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
