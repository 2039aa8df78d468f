package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mkrukov/star-gifts-bot/internal/dialog"
	"github.com/mkrukov/star-gifts-bot/internal/domain/users"
)

func (b *Bot) onMessage(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	b.handleText(ctx, msg)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	tgID := msg.From.ID

	switch msg.Command() {
	case "start":
		status := users.StatusUser
		if tgID == b.adminID {
			status = users.StatusAdmin
		}
		u, err := b.users.Upsert(ctx, tgID, msg.From.UserName, status)
		if err != nil {
			b.reply(chatID, "Ошибка: не удалось сохранить профиль")
			return
		}
		b.reply(chatID, fmt.Sprintf(
			"Привет! Баланс: %d ⭐️\n\n"+
				"/auto_buy — настройки автоскупки\n"+
				"/balance — баланс и последние операции\n"+
				"/buy &lt;gift_id&gt; [кол-во] — купить вручную\n"+
				"/help — справка", u.Balance))

	case "help":
		b.handleHelp(ctx, chatID, tgID)

	case "auto_buy":
		b.showAutoBuyMenu(ctx, chatID, tgID, nil)

	case "balance":
		b.handleBalance(ctx, chatID, tgID)

	case "buy":
		b.handleBuy(ctx, chatID, tgID, msg.CommandArguments())

	case "transfer":
		b.handleTransfer(ctx, chatID, tgID, msg.CommandArguments())

	case "refund":
		b.handleRefund(ctx, chatID, tgID, msg.CommandArguments())

	case "gifts":
		b.handleGiftsDebug(ctx, chatID, tgID)

	case "export":
		b.handleExport(ctx, chatID, tgID)

	default:
		b.reply(chatID, "Неизвестная команда. /help")
	}
}

// handleText обрабатывает ввод в рамках диалогового состояния.
func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	st, err := b.states.Get(ctx, chatID)
	if err != nil {
		b.log.Error("dialog state read failed", "err", err)
		return
	}

	text := strings.TrimSpace(msg.Text)
	switch st.State {
	case dialog.StateAutoBuyPriceRange:
		b.inputPriceRange(ctx, chatID, msg.From.ID, text)
	case dialog.StateAutoBuySupplyLimit:
		b.inputSupplyLimit(ctx, chatID, msg.From.ID, text)
	case dialog.StateAutoBuyCycles:
		b.inputCycles(ctx, chatID, msg.From.ID, text)
	default:
		// вне диалога свободный текст не обрабатываем
	}
}

func (b *Bot) onCallback(ctx context.Context, upd tgbotapi.Update) {
	cq := upd.CallbackQuery
	b.answerCallback(cq.ID)

	chatID := cq.Message.Chat.ID
	msgID := cq.Message.MessageID
	tgID := cq.From.ID

	switch cq.Data {
	case "ab:toggle":
		b.toggleAutoBuy(ctx, chatID, tgID, msgID)
	case "ab:price":
		b.askPriceRange(ctx, chatID, msgID)
	case "ab:supply":
		b.askSupplyLimit(ctx, chatID, msgID)
	case "ab:cycles":
		b.askCycles(ctx, chatID, msgID)
	case "ab:back":
		_ = b.states.Reset(ctx, chatID)
		b.showAutoBuyMenu(ctx, chatID, tgID, &msgID)
	}
}

// isAdmin проверяет статус по базе, а не по конфигу: админа можно
// назначить и руками в таблице users.
func (b *Bot) isAdmin(ctx context.Context, tgID int64) bool {
	u, err := b.users.Get(ctx, tgID)
	return err == nil && u != nil && u.IsAdmin()
}
