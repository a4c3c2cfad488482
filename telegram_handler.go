package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/pkg/errors"

	"github.com/pivolan/sheet_analyzer/config"
	"github.com/pivolan/sheet_analyzer/domain/models"
	"github.com/pivolan/sheet_analyzer/explorer"
	"github.com/pivolan/sheet_analyzer/stats"
	"github.com/pivolan/sheet_analyzer/store"
)

// botAPI is the part of *tgbotapi.BotAPI the handlers send through.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type App struct {
	cfg      *config.Config
	conv     stats.Conventions
	store    *store.Store // nil without DB_DSN
	sessions *sessions
	bot      botAPI
	logger   log.Logger
	// openSheet connects to a sheet of the remote service, nil when the
	// service is not configured.
	openSheet func(sheetID string) explorer.Source
}

func (a *App) handleUpdate(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) {
	message := update.Message
	if message == nil {
		return
	}
	switch {
	case message.Document != nil:
		go a.handleDocument(ctx, bot, message)
	case message.IsCommand():
		go a.handleCommand(ctx, message.Chat.ID, message.Command(), message.CommandArguments())
	case message.Text != "":
		if values := extractValues(message.Text); values != nil {
			a.replyPastedValues(message.Chat.ID, values)
			return
		}
		a.sendUploadLink(message.Chat.ID)
	}
}

func (a *App) sendUploadLink(chatID int64) {
	id := a.sessions.newUpload(chatID)
	a.reply(chatID, "Send a CSV file here or upload it by this link: "+a.cfg.PublicURL+"/?id="+id)
}

func (a *App) handleDocument(ctx context.Context, bot *tgbotapi.BotAPI, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	fileURL, err := bot.GetFileDirectURL(message.Document.FileID)
	if err != nil {
		level.Warn(a.logger).Log("msg", "cannot get file url", "chat", chatID, "err", err)
		id := a.sessions.newUpload(chatID)
		a.reply(chatID, "Error on upload file, if file too big try another method, upload by this link: "+a.cfg.PublicURL+"/?id="+id)
		return
	}

	filePath := filepath.Join(a.cfg.UploadDir, strconv.FormatInt(chatID, 10), filepath.Base(message.Document.FileName))
	if err := download(ctx, fileURL, filePath); err != nil {
		level.Error(a.logger).Log("msg", "download failed", "chat", chatID, "err", err)
		a.reply(chatID, "Could not download the file: "+err.Error())
		return
	}
	a.loadFile(ctx, chatID, filePath)
}

func download(ctx context.Context, url, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("download returned %s", resp.Status)
	}
	return writeFile(filePath, resp.Body)
}

// loadFile unpacks an uploaded file, reads it as a sheet and starts a new
// session for the chat with it.
func (a *App) loadFile(ctx context.Context, chatID int64, filePath string) {
	logger := log.With(a.logger, "chat", chatID, "file", filepath.Base(filePath))

	contents, err := a.readSheet(ctx, filePath)
	if err != nil {
		level.Error(logger).Log("msg", "cannot read sheet", "err", err)
		a.reply(chatID, "Could not read the file: "+err.Error())
		return
	}

	e := explorer.New(explorer.NewLocalSource(filepath.Base(filePath), contents), a.conv, logger)
	if err := e.Refresh(ctx); err != nil {
		level.Error(logger).Log("msg", "cannot profile sheet", "err", err)
		a.reply(chatID, "Could not analyze the file: "+err.Error())
		return
	}
	a.sessions.set(chatID, e)
	a.sendSummary(chatID, e)
}

func (a *App) readSheet(ctx context.Context, filePath string) (models.SheetContents, error) {
	filePath, err := unpackArchive(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "unpack")
	}

	if a.store != nil {
		table, err := a.store.ImportCSV(ctx, filePath)
		if err != nil {
			return nil, err
		}
		level.Info(a.logger).Log("msg", "imported into clickhouse", "table", table)
		contents, _, err := a.store.Contents(ctx, table, 0)
		return contents, err
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return store.ReadCSV(f)
}
