package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/pivolan/sheet_analyzer/config"
	"github.com/pivolan/sheet_analyzer/explorer"
	"github.com/pivolan/sheet_analyzer/sheet"
	"github.com/pivolan/sheet_analyzer/store"
)

func main() {
	cfg := config.GetConfig()
	logger := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conv, err := config.LoadConventions(cfg.ConventionsFile)
	if err != nil {
		level.Error(logger).Log("msg", "cannot load conventions", "err", err)
		os.Exit(1)
	}

	app := &App{
		cfg:      cfg,
		conv:     conv,
		sessions: newSessions(),
		logger:   logger,
	}
	if cfg.DbDsn != "" {
		app.store, err = store.Open(cfg.DbDsn)
		if err != nil {
			level.Error(logger).Log("msg", "cannot connect to clickhouse", "err", err)
			os.Exit(1)
		}
		level.Info(logger).Log("msg", "connected clickhouse")
	}
	if cfg.SheetURL != "" {
		app.openSheet = func(sheetID string) explorer.Source {
			return sheet.NewClient(cfg.SheetURL, sheetID, cfg.SheetToken, nil)
		}
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TgToken)
	if err != nil {
		level.Error(logger).Log("msg", "tg error", "err", err)
		os.Exit(1)
	}
	app.bot = bot
	level.Info(logger).Log("msg", "bot authorized", "account", bot.Self.UserName)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: app.newRouter(ctx)}
	go func() {
		level.Info(logger).Log("msg", "listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			level.Error(logger).Log("msg", "http server stopped", "err", err)
			stop()
		}
	}()
	go app.cleanup(ctx, time.Minute)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates, err := bot.GetUpdatesChan(u)
	if err != nil {
		level.Error(logger).Log("msg", "cannot get updates", "err", err)
		os.Exit(1)
	}

	for {
		select {
		case <-ctx.Done():
			bot.StopReceivingUpdates()
			shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			srv.Shutdown(shutdown)
			cancel()
			level.Info(logger).Log("msg", "stopped")
			return
		case update := <-updates:
			app.handleUpdate(ctx, bot, update)
		}
	}
}

func newLogger(lvl string) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = level.NewFilter(logger, level.Allow(level.ParseDefault(lvl, level.InfoValue())))
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
}

// cleanup expires upload links and removes old uploads every interval.
func (a *App) cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			a.sessions.expireUploads(now.Add(-time.Hour))
			if err := removeOldFiles(a.cfg.UploadDir, now.Add(-2*time.Hour)); err != nil && !os.IsNotExist(err) {
				level.Warn(a.logger).Log("msg", "cannot remove old uploads", "err", err)
			}
		}
	}
}

func removeOldFiles(dirPath string, maxAge time.Time) error {
	files, err := os.ReadDir(dirPath)
	if err != nil {
		return err
	}
	for _, file := range files {
		filePath := filepath.Join(dirPath, file.Name())
		if file.IsDir() {
			if err := removeOldFiles(filePath, maxAge); err != nil {
				return err
			}
			continue
		}
		info, err := file.Info()
		if err != nil {
			return err
		}
		if info.ModTime().Before(maxAge) {
			if err := os.Remove(filePath); err != nil {
				return err
			}
		}
	}
	return nil
}
