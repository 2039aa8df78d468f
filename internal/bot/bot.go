package bot

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mkrukov/star-gifts-bot/internal/dialog"
	"github.com/mkrukov/star-gifts-bot/internal/domain/gifts"
	"github.com/mkrukov/star-gifts-bot/internal/domain/ledger"
	"github.com/mkrukov/star-gifts-bot/internal/domain/settings"
	"github.com/mkrukov/star-gifts-bot/internal/domain/users"
	"github.com/mkrukov/star-gifts-bot/internal/tgapi"
)

type Bot struct {
	api      *tgbotapi.BotAPI
	giftsAPI *tgapi.Client
	log      *slog.Logger

	users    *users.Repo
	settings *settings.Repo
	gifts    *gifts.Repo
	ledger   *ledger.Repo
	states   *dialog.Repo

	adminID int64
}

func New(api *tgbotapi.BotAPI, giftsAPI *tgapi.Client, log *slog.Logger,
	usersRepo *users.Repo, settingsRepo *settings.Repo, giftsRepo *gifts.Repo,
	ledgerRepo *ledger.Repo, statesRepo *dialog.Repo, adminID int64) *Bot {

	return &Bot{
		api: api, giftsAPI: giftsAPI, log: log,
		users: usersRepo, settings: settingsRepo, gifts: giftsRepo,
		ledger: ledgerRepo, states: statesRepo,
		adminID: adminID,
	}
}

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

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("telegram send failed", "err", err)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	m := tgbotapi.NewMessage(chatID, text)
	m.ParseMode = tgbotapi.ModeHTML
	b.send(m)
}

func (b *Bot) answerCallback(id string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, "")); err != nil {
		b.log.Error("callback answer failed", "err", err)
	}
}
