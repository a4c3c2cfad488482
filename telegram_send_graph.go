package main

import (
	"fmt"
	"time"

	"github.com/go-kit/log/level"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/pivolan/sheet_analyzer/explorer"
)

// Telegram compresses photos, larger charts go out as documents.
const maxSizePhoto = 150000

// Longer texts are sent as a file instead of a message.
const maxMessageLength = 4000

func (a *App) reply(chatID int64, text string) {
	if _, err := a.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		level.Warn(a.logger).Log("msg", "send failed", "chat", chatID, "err", err)
	}
}

// replyTable sends a rendered table, as a text file when it does not fit in
// a message.
func (a *App) replyTable(chatID int64, name, text string) {
	if len(text) > maxMessageLength {
		a.sendFile(chatID, name+time.Now().Format("20060102-150405")+".txt", []byte(text), name)
		return
	}
	msg := tgbotapi.NewMessage(chatID, preformatted(text))
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := a.bot.Send(msg); err != nil {
		level.Warn(a.logger).Log("msg", "send failed", "chat", chatID, "err", err)
	}
}

func (a *App) sendFile(chatID int64, fileName string, data []byte, caption string) {
	doc := tgbotapi.NewDocumentUpload(chatID, tgbotapi.FileBytes{Name: fileName, Bytes: data})
	doc.Caption = caption
	if _, err := a.bot.Send(doc); err != nil {
		level.Warn(a.logger).Log("msg", "send file failed", "chat", chatID, "file", fileName, "err", err)
	}
}

func (a *App) sendGraph(chatID int64, graph []byte, columnName, caption string) {
	fileName := fmt.Sprintf("groups_%s_%s.png", columnName, time.Now().Format("20060102-150405"))
	file := tgbotapi.FileBytes{Name: fileName, Bytes: graph}

	var msg tgbotapi.Chattable
	if len(graph) < maxSizePhoto {
		photo := tgbotapi.NewPhotoUpload(chatID, file)
		photo.Caption = caption
		msg = photo
	} else {
		doc := tgbotapi.NewDocumentUpload(chatID, file)
		doc.Caption = caption
		msg = doc
	}
	if _, err := a.bot.Send(msg); err != nil {
		level.Warn(a.logger).Log("msg", "send graph failed", "chat", chatID, "column", columnName, "err", err)
		a.reply(chatID, "Could not send the chart: "+err.Error())
	}
}

func (a *App) sendSummary(chatID int64, e *explorer.Explorer) {
	info := e.Info()
	a.reply(chatID, fmt.Sprintf("%s: %s", info.Name, rowsText(e.RowCount())))
	a.replyTable(chatID, "summary", GenerateSummaryTable(e.Summaries()))
}
