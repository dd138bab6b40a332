package bot

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxMessageRunes stays under Telegram's 4096 character limit.
const maxMessageRunes = 4000

type Bot struct {
	api      *tgbotapi.BotAPI
	log      *slog.Logger
	dispatch *Dispatcher
	allowed  func(chatID int64) bool
}

func New(api *tgbotapi.BotAPI, log *slog.Logger, dispatch *Dispatcher, allowed func(chatID int64) bool) *Bot {
	return &Bot{api: api, log: log.With("component", "telegram"), dispatch: dispatch, allowed: allowed}
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			if upd.Message != nil {
				b.onMessage(ctx, upd)
			}
		}
	}
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}

func (b *Bot) onMessage(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	chatID := msg.Chat.ID
	if !b.allowed(chatID) {
		b.log.Warn("message from chat outside allowlist", "chat_id", chatID)
		return
	}

	text := msg.Text
	b.log.Debug("message received", "chat_id", chatID)
	if msg.IsCommand() {
		switch msg.Command() {
		case "start", "help":
			text = "說明"
		case "ping":
			text = "測試"
		default:
			b.send(tgbotapi.NewMessage(chatID, "無法識別的指令。輸入「說明」查看用法。"))
			return
		}
	}
	if strings.TrimSpace(text) == "" {
		return
	}

	reply := b.dispatch.Handle(ctx, text)
	withKeyboard := text == "說明"
	for _, chunk := range splitMessage(reply.Text, maxMessageRunes) {
		m := tgbotapi.NewMessage(chatID, chunk)
		m.ReplyToMessageID = msg.MessageID
		if withKeyboard {
			m.ReplyMarkup = mainReplyKeyboard(b.dispatch.eng.Today())
			withKeyboard = false
		}
		b.send(m)
	}
	if reply.Document != nil {
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: reply.Document.Name, Bytes: reply.Document.Bytes})
		doc.Caption = reply.Document.Caption
		b.send(doc)
	}
}

// splitMessage cuts text into chunks of at most limit runes, preferring
// line boundaries.
func splitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}
	var (
		chunks []string
		cur    strings.Builder
		n      int
	)
	flush := func() {
		if n > 0 {
			chunks = append(chunks, strings.TrimSuffix(cur.String(), "\n"))
			cur.Reset()
			n = 0
		}
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		for utf8.RuneCountInString(line) > limit {
			flush()
			runes := []rune(line)
			chunks = append(chunks, string(runes[:limit]))
			line = string(runes[limit:])
		}
		ln := utf8.RuneCountInString(line)
		if n+ln > limit {
			flush()
		}
		cur.WriteString(line)
		n += ln
	}
	flush()
	return chunks
}
