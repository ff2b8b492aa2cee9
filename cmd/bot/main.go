package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/subosito/gotenv"

	"github.com/Spok95/tireshop-bot/internal/bot"
	"github.com/Spok95/tireshop-bot/internal/config"
	"github.com/Spok95/tireshop-bot/internal/dialog"
	"github.com/Spok95/tireshop-bot/internal/domain/catalog"
	"github.com/Spok95/tireshop-bot/internal/domain/order"
	"github.com/Spok95/tireshop-bot/internal/domain/users"
	"github.com/Spok95/tireshop-bot/internal/engine"
	"github.com/Spok95/tireshop-bot/internal/infra/db"
	httpx "github.com/Spok95/tireshop-bot/internal/infra/http"
	"github.com/Spok95/tireshop-bot/internal/infra/logger"
	"github.com/Spok95/tireshop-bot/internal/infra/metrics"
	"github.com/Spok95/tireshop-bot/internal/infra/onec"
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
	// .env необязателен, переменные APP_* могут прийти из окружения
	_ = gotenv.Load()

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

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Warn("unknown timezone, using local", "tz", cfg.App.Timezone, "err", err)
		loc = time.Local
	}

	var drafts engine.DraftStore
	switch cfg.Drafts.Backend {
	case config.DraftsPebble:
		ps, err := order.NewPebbleDraftStore(cfg.Drafts.PebbleDir)
		if err != nil {
			log.Error("pebble open failed", "dir", cfg.Drafts.PebbleDir, "err", err)
			return
		}
		defer func() { _ = ps.Close() }()
		drafts = ps
	default:
		drafts = order.NewDraftRepo(pool)
	}
	log.Info("draft store ready", "backend", cfg.Drafts.Backend)

	reg := metrics.NewRegistry()
	eng := engine.New(engine.Deps{
		Log:      log,
		Catalogs: catalog.NewRepo(pool),
		Drafts:   drafts,
		Source: onec.New(onec.Options{
			BaseURL: cfg.OneC.BaseURL,
			Timeout: cfg.OneC.Timeout,
			RPS:     cfg.OneC.RPS,
		}),
		History:   order.NewRepo(pool),
		Metrics:   reg,
		Extractor: catalog.NewExtractor(cfg.Catalog.WashMarkers...),
	}, engine.Options{
		TechWashPrice:      cfg.Catalog.TechWashPrice,
		DefaultSubdivision: cfg.OneC.Subdivision,
		Location:           loc,
	})
	if err := eng.Init(ctx); err != nil {
		log.Error("catalog init failed", "err", err)
		return
	}
	snap := eng.Catalog()
	log.Info("catalog loaded", "subdivision", snap.Subdivision, "services", len(snap.Services), "materials", len(snap.Materials))

	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		metricsHandler = reg.Handler()
	}
	srv := httpx.New(cfg.HTTP.Addr, metricsHandler)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Error("telegram init failed", "err", err)
		return
	}
	log.Info("telegram authorized", "bot", api.Self.UserName)

	b := bot.New(api, log, users.NewRepo(pool), dialog.NewRepo(pool), eng, cfg.Telegram.AdminChatID)
	go func() {
		if err := b.Run(ctx, 60); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("bot stopped", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
