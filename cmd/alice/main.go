package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/d3vil404/alice/internal/cache"
	"github.com/d3vil404/alice/internal/config"
	"github.com/d3vil404/alice/internal/i18n"
	"github.com/d3vil404/alice/internal/logger"
	"github.com/d3vil404/alice/internal/player"
	"github.com/d3vil404/alice/internal/search"
	"github.com/d3vil404/alice/internal/storage"
	"github.com/d3vil404/alice/internal/sysinfo"
	"github.com/d3vil404/alice/internal/telegram"
	"github.com/d3vil404/alice/internal/voice"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, config.ErrEnvCreated) {
			fmt.Fprintln(os.Stderr, "A .env file has been created. Fill in your credentials and restart.")
			os.Exit(1)
		}
		logrus.WithError(err).Fatal("bot stopped")
	}
}

func run() error {
	if err := config.EnsureEnvFile(".env"); err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tr, err := i18n.New()
	if err != nil {
		return fmt.Errorf("load locales: %w", err)
	}

	store, err := storage.Open(ctx, storage.Config{
		Host:             cfg.DB.Host,
		Port:             cfg.DB.Port,
		User:             cfg.DB.User,
		Password:         cfg.DB.Password,
		Name:             cfg.DB.Name,
		MaxPlaylists:     cfg.Limits.MaxPlaylists,
		MaxPlaylistSongs: cfg.Limits.MaxPlaylistSongs,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer store.Close()

	if err := store.InitSchema(ctx); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}

	tracks := cache.New(cfg.RedisURL, time.Hour)
	defer tracks.Close()

	searcher := search.New(cfg.YtDlpPath, cfg.SearchLimit)

	assistant, err := voice.NewAssistant(cfg.APIID, cfg.APIHash, cfg.AssistantSession)
	if err != nil {
		return fmt.Errorf("assistant client: %w", err)
	}
	if err := assistant.Start(ctx); err != nil {
		return fmt.Errorf("start assistant: %w", err)
	}

	engine := voice.NewEngine(assistant, cfg.FFmpegPath)
	defer engine.Shutdown()

	pl := player.New(engine, searcher, tracks, store, cfg.Limits.MaxQueue)
	engine.OnStreamEnd(pl.HandleStreamEnd)

	bot, err := telegram.NewBot(cfg, store, pl, searcher, sysinfo.NewCollector(), tr)
	if err != nil {
		return fmt.Errorf("bot client: %w", err)
	}

	return bot.Start(ctx)
}
