// Package telegram runs the intake conversation as a Telegram bot.
package telegram

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"dogdiet/internal/adapter/xlsx"
	"dogdiet/internal/app"
	"dogdiet/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpText = "I work out how much to feed your dog and build a 4-week plan to get there.\n\n" +
	"/start - begin a new plan\n" +
	"/cancel - drop the plan in progress\n" +
	"/help - show this message"

// botAPI is the subset of *tgbotapi.BotAPI used by Bot.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot is a thin Telegram wrapper around the intake conversation. Each chat
// has its own draft.
type Bot struct {
	api    botAPI
	intake *app.IntakeService
	logger *slog.Logger
}

// NewAPI connects to Telegram with token.
func NewAPI(token string, debug bool) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	api.Debug = debug
	return api, nil
}

// New creates a Bot.
func New(api *tgbotapi.BotAPI, intake *app.IntakeService, logger *slog.Logger) *Bot {
	return newBot(api, intake, logger)
}

func newBot(api botAPI, intake *app.IntakeService, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{api: api, intake: intake, logger: logger}
}

// Start polls for updates until ctx is done. Idle drafts are swept every
// sweepEvery.
func (b *Bot) Start(ctx context.Context, pollTimeout int, sweepEvery time.Duration) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	if sweepEvery <= 0 {
		sweepEvery = 5 * time.Minute
	}
	ticker := time.NewTicker(sweepEvery)
	defer ticker.Stop()

	b.logger.Info("telegram bot started")
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("telegram bot stopped")
			return
		case <-ticker.C:
			if n, err := b.intake.Sweep(ctx); err != nil {
				b.logger.Warn("sweep drafts failed", slog.String("error", err.Error()))
			} else if n > 0 {
				b.logger.Debug("swept idle drafts", slog.Int("count", n))
			}
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch {
	case strings.HasPrefix(text, "/start"):
		reply, err := b.intake.Start(ctx, chatID)
		if err != nil {
			b.fail(chatID, err)
			return
		}
		b.sendReply(chatID, reply)
	case strings.HasPrefix(text, "/cancel"):
		err := b.intake.Cancel(ctx, chatID)
		switch {
		case errors.Is(err, app.ErrNoDraft):
			b.send(tgbotapi.NewMessage(chatID, "Nothing to cancel. Send /start to begin."))
		case err != nil:
			b.fail(chatID, err)
		default:
			m := tgbotapi.NewMessage(chatID, "Plan cancelled. Send /start to begin again.")
			m.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
			b.send(m)
		}
	case strings.HasPrefix(text, "/help"):
		b.send(tgbotapi.NewMessage(chatID, helpText))
	default:
		reply, err := b.intake.Handle(ctx, chatID, text)
		if err != nil {
			b.fail(chatID, err)
			return
		}
		b.sendReply(chatID, reply)
	}
}

func (b *Bot) sendReply(chatID int64, reply app.Reply) {
	if reply.Result != nil {
		text := app.FormatReport(reply.Result)
		if reply.Notice != "" {
			text = reply.Notice + "\n\n" + text
		}
		m := tgbotapi.NewMessage(chatID, text)
		m.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
		b.send(m)
		b.sendWorkbook(chatID, reply.Result)
		return
	}

	text := reply.Prompt
	if reply.Notice != "" {
		text = reply.Notice + "\n\n" + text
	}
	m := tgbotapi.NewMessage(chatID, text)
	if reply.Step == domain.StepActivity {
		m.ReplyMarkup = activityKeyboard()
	} else {
		m.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	}
	b.send(m)
}

func (b *Bot) sendWorkbook(chatID int64, res *app.DietResult) {
	var buf bytes.Buffer
	if err := xlsx.WritePlan(&buf, res); err != nil {
		b.logger.Error("xlsx export failed", slog.Int64("chat_id", chatID), slog.String("error", err.Error()))
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: xlsx.FileName, Bytes: buf.Bytes()})
	doc.Caption = "Your titration plan as a spreadsheet"
	b.send(doc)
}

func (b *Bot) fail(chatID int64, err error) {
	b.logger.Error("intake failed", slog.Int64("chat_id", chatID), slog.String("error", err.Error()))
	b.send(tgbotapi.NewMessage(chatID, "Something went wrong. Send /start to try again."))
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.logger.Warn("telegram send failed", slog.String("error", err.Error()))
	}
}

func activityKeyboard() tgbotapi.ReplyKeyboardMarkup {
	row := make([]tgbotapi.KeyboardButton, 0, len(domain.ActivityLevels))
	for _, a := range domain.ActivityLevels {
		name := a.String()
		row = append(row, tgbotapi.NewKeyboardButton(strings.ToUpper(name[:1])+name[1:]))
	}
	kb := tgbotapi.NewReplyKeyboard(row)
	kb.OneTimeKeyboard = true
	return kb
}
