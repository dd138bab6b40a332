package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Spok95/costshare-bot/internal/bot"
	"github.com/Spok95/costshare-bot/internal/config"
	"github.com/Spok95/costshare-bot/internal/infra/db"
	httpx "github.com/Spok95/costshare-bot/internal/infra/http"
	"github.com/Spok95/costshare-bot/internal/infra/logger"
	"github.com/Spok95/costshare-bot/internal/infra/pgstore"
	"github.com/Spok95/costshare-bot/internal/ledger"
	"github.com/Spok95/costshare-bot/internal/ledger/memstore"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"
)

func main() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/example.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "err", err)
		os.Exit(1)
	}
	if err := run(cfg, log); err != nil {
		log.Error("exit", "err", err)
		os.Exit(1)
	}
	log.Info("graceful shutdown complete")
}

func run(cfg config.Config, log *slog.Logger) error {
	mlog := log.With("component", "main")
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tz, err := cfg.Location()
	if err != nil {
		return err
	}

	var store ledger.Store
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		mlog.Warn("using in-memory storage, data is lost on restart")
		store = memstore.New()
	default:
		if err := db.Migrate(cfg.Postgres.DSN); err != nil {
			return err
		}
		mlog.Info("migrations applied")
		pool, err := db.Connect(ctx, cfg.Postgres.DSN)
		if err != nil {
			return err
		}
		defer pool.Close()
		mlog.Info("db connected")
		store = pgstore.New(pool)
	}

	eng := ledger.New(store, ledger.Options{
		Company: cfg.App.CompanyName,
		Now:     func() time.Time { return time.Now().In(tz) },
		Log:     log,
	})
	if err := eng.EnsureCompany(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, eng, log)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	mlog.Info("HTTP server started", "addr", cfg.HTTP.Addr, "public_url", cfg.HTTP.PublicURL)

	if cfg.Telegram.Token == "" {
		mlog.Warn("telegram token not set, chat surface disabled")
	} else {
		api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			return err
		}
		mlog.Info("telegram authorized", "username", api.Self.UserName)
		b := bot.New(api, log, bot.NewDispatcher(eng, log), cfg.ChatAllowed)
		g.Go(func() error { return b.Run(gctx, cfg.Telegram.PollTimeout) })
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
