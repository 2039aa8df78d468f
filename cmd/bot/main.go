package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/mkrukov/star-gifts-bot/internal/autobuy"
	"github.com/mkrukov/star-gifts-bot/internal/bot"
	"github.com/mkrukov/star-gifts-bot/internal/config"
	"github.com/mkrukov/star-gifts-bot/internal/dialog"
	"github.com/mkrukov/star-gifts-bot/internal/domain/gifts"
	"github.com/mkrukov/star-gifts-bot/internal/domain/ledger"
	"github.com/mkrukov/star-gifts-bot/internal/domain/settings"
	"github.com/mkrukov/star-gifts-bot/internal/domain/users"
	"github.com/mkrukov/star-gifts-bot/internal/infra/db"
	httpx "github.com/mkrukov/star-gifts-bot/internal/infra/http"
	"github.com/mkrukov/star-gifts-bot/internal/infra/logger"
	"github.com/mkrukov/star-gifts-bot/internal/tgapi"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	// 60с на запрос к Bot API; долгие поллинги getUpdates укладываются
	api, err := tgbotapi.NewBotAPIWithClient(cfg.Telegram.Token, tgbotapi.APIEndpoint,
		&http.Client{Timeout: 60 * time.Second})
	if err != nil {
		log.Error("telegram auth failed", "err", err)
		return
	}
	log.Info("telegram authorized", "bot", api.Self.UserName)

	usersRepo := users.NewRepo(pool)
	settingsRepo := settings.NewRepo(pool)
	giftsRepo := gifts.NewRepo(pool)
	ledgerRepo := ledger.NewRepo(pool)
	statesRepo := dialog.NewRepo(pool)
	giftsAPI := tgapi.New(api)

	engine := autobuy.New(log, giftsRepo, usersRepo, settingsRepo, ledgerRepo, giftsAPI, autobuy.Config{
		PollInterval:  cfg.AutoBuy.PollInterval,
		RetryInterval: cfg.AutoBuy.RetryInterval,
		ExcludedGifts: cfg.AutoBuy.ExcludedGifts,
	})

	tgBot := bot.New(api, giftsAPI, log, usersRepo, settingsRepo, giftsRepo, ledgerRepo, statesRepo, cfg.Telegram.AdminID)

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	go func() {
		if err := engine.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("autobuy engine error", "err", err)
		}
	}()

	go func() {
		if err := tgBot.Run(ctx, 30); err != nil && ctx.Err() == nil {
			log.Error("bot error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
