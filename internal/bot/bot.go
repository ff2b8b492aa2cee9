package bot

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/tireshop-bot/internal/dialog"
	"github.com/Spok95/tireshop-bot/internal/domain/users"
	"github.com/Spok95/tireshop-bot/internal/engine"
)

type Bot struct {
	api       *tgbotapi.BotAPI
	log       *slog.Logger
	users     *users.Repo
	states    *dialog.Repo
	engine    *engine.Engine
	adminChat int64
}

func New(api *tgbotapi.BotAPI, log *slog.Logger,
	usersRepo *users.Repo, statesRepo *dialog.Repo,
	eng *engine.Engine, adminChatID int64) *Bot {

	return &Bot{
		api: api, log: log, users: usersRepo, states: statesRepo,
		engine: eng, adminChat: adminChatID,
	}
}

// Run обрабатывает апдейты последовательно: черновик одного чата никогда не правится параллельно.
func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case upd := <-updates:
			if upd.Message != nil {
				b.onMessage(ctx, upd)
			} else if upd.CallbackQuery != nil {
				b.onCallback(ctx, upd)
			}
		}
	}
}

func (b *Bot) onMessage(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	if msg.Document != nil {
		b.handleDocument(ctx, msg)
		return
	}
	b.handleStateMessage(ctx, msg)
}

func (b *Bot) onCallback(ctx context.Context, upd tgbotapi.Update) {
	b.handleCallback(ctx, upd.CallbackQuery)
}

// clerk зарегистрированный пользователь или nil.
func (b *Bot) clerk(ctx context.Context, tgID int64) *users.User {
	u, err := b.users.GetByTelegramID(ctx, tgID)
	if err != nil {
		b.log.Error("get user failed", "tg_id", tgID, "err", err)
		return nil
	}
	return u
}
