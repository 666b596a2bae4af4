package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ButyrinIA/portfolio/internal/blog"
	"github.com/ButyrinIA/portfolio/internal/config"
	"github.com/ButyrinIA/portfolio/internal/server"
	"github.com/ButyrinIA/portfolio/internal/storage"
	"github.com/ButyrinIA/portfolio/internal/storage/memory"
	"github.com/ButyrinIA/portfolio/internal/storage/postgres"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "config.yaml", "путь к файлу конфигурации")
	storageType := flag.String("storage", "postgres", "тип хранилища: memory или postgres")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("не удалось загрузить конфигурацию")
	}
	setupLogging(cfg.Log)
	gin.SetMode(cfg.Server.Mode)

	log.WithFields(log.Fields{
		"port":     cfg.Server.Port,
		"mode":     cfg.Server.Mode,
		"storage":  *storageType,
		"postgres": cfg.Postgres.DSNMasked(),
	}).Info("конфигурация загружена")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store storage.Storage
	switch *storageType {
	case "postgres":
		if cfg.Postgres.DSN == "" {
			log.Fatal("DATABASE_URL не задан: укажите postgres.dsn в конфигурации или переменную окружения")
		}
		log.Info("инициализация хранилища PostgreSQL")
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		store, err = postgres.New(connectCtx, postgres.Options{
			DSN:      cfg.Postgres.DSN,
			MaxConns: cfg.Postgres.MaxConns,
			Migrate:  cfg.Postgres.Migrate,
		})
		cancel()
		if err != nil {
			log.WithError(err).Fatal("не удалось инициализировать PostgreSQL")
		}
	case "memory":
		log.Info("инициализация хранилища Memory")
		store = memory.New()
	default:
		log.Fatalf("неизвестный тип хранилища: %s", *storageType)
	}
	defer store.Close()

	srv := server.New(cfg, blog.New(store))
	if err := srv.Run(ctx); err != nil {
		log.WithError(err).Error("сервер завершился с ошибкой")
		store.Close()
		os.Exit(1)
	}
}

func setupLogging(cfg config.LogConfig) {
	if cfg.Format == "text" {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	} else {
		log.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	}
	log.SetOutput(os.Stdout)
	// уровень уже проверен в config.Validate
	level, _ := log.ParseLevel(cfg.Level)
	log.SetLevel(level)
}
