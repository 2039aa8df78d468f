package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mkrukov/star-gifts-bot/internal/dialog"
	"github.com/mkrukov/star-gifts-bot/internal/domain/settings"
)

func renderSettings(username string, balance int64, s *settings.Settings) string {
	status := "🔴 Выключена"
	if s.Enabled {
		status = "🟢 Включена"
	}
	supply := "не задан"
	if s.SupplyLimit != nil {
		supply = strconv.FormatInt(*s.SupplyLimit, 10)
	}
	return fmt.Sprintf(
		"%s! Баланс: %d ⭐️\n\n"+
			"⚙️ <b>Автоскупка</b>\n"+
			"Статус: %s\n\n"+
			"<b>Вилка цены:</b> от %d до %d ⭐️\n"+
			"<b>Лимит тиража:</b> %s\n"+
			"<b>Циклов за тик:</b> %d",
		username, balance, status, s.PriceFrom, s.PriceTo, supply, s.Cycles)
}

func (b *Bot) showAutoBuyMenu(ctx context.Context, chatID, tgID int64, editMsgID *int) {
	u, err := b.users.Get(ctx, tgID)
	if err != nil || u == nil {
		b.reply(chatID, "Сначала /start")
		return
	}
	s, err := b.settings.GetOrCreate(ctx, tgID)
	if err != nil {
		b.log.Error("settings load failed", "user_id", tgID, "err", err)
		b.reply(chatID, "Не удалось загрузить настройки")
		return
	}

	text := renderSettings(u.Username, u.Balance, s)
	kb := autoBuyKeyboard()
	if editMsgID != nil {
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, *editMsgID, text, kb)
		edit.ParseMode = tgbotapi.ModeHTML
		b.send(edit)
		return
	}
	m := tgbotapi.NewMessage(chatID, text)
	m.ParseMode = tgbotapi.ModeHTML
	m.ReplyMarkup = kb
	b.send(m)
}

func (b *Bot) toggleAutoBuy(ctx context.Context, chatID, tgID int64, msgID int) {
	s, err := b.settings.GetOrCreate(ctx, tgID)
	if err != nil {
		b.reply(chatID, "Не удалось загрузить настройки")
		return
	}
	if _, err := b.settings.SetEnabled(ctx, tgID, !s.Enabled); err != nil {
		b.log.Error("settings toggle failed", "user_id", tgID, "err", err)
		b.reply(chatID, "Не удалось сохранить настройки")
		return
	}
	b.showAutoBuyMenu(ctx, chatID, tgID, &msgID)
}

func (b *Bot) askPriceRange(ctx context.Context, chatID int64, msgID int) {
	if err := b.states.Set(ctx, chatID, dialog.StateAutoBuyPriceRange, dialog.Payload{}); err != nil {
		b.log.Error("dialog state write failed", "err", err)
		return
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID,
		"Введите вилку цены в звёздах: «от до», например «15 500»", backKeyboard())
	b.send(edit)
}

func (b *Bot) inputPriceRange(ctx context.Context, chatID, tgID int64, text string) {
	parts := strings.FieldsFunc(text, func(r rune) bool { return r == ' ' || r == '-' })
	if len(parts) != 2 {
		b.reply(chatID, "Нужно два числа: «от до». Например «15 500».")
		return
	}
	from, err1 := strconv.ParseInt(parts[0], 10, 64)
	to, err2 := strconv.ParseInt(parts[1], 10, 64)
	if err1 != nil || err2 != nil || from < 1 || to < from {
		b.reply(chatID, "Некорректная вилка: оба числа положительные, «от» ≤ «до».")
		return
	}
	if _, err := b.settings.SetPriceRange(ctx, tgID, from, to); err != nil {
		b.log.Error("price range save failed", "user_id", tgID, "err", err)
		b.reply(chatID, "Не удалось сохранить настройки")
		return
	}
	_ = b.states.Reset(ctx, chatID)
	b.showAutoBuyMenu(ctx, chatID, tgID, nil)
}

func (b *Bot) askSupplyLimit(ctx context.Context, chatID int64, msgID int) {
	if err := b.states.Set(ctx, chatID, dialog.StateAutoBuySupplyLimit, dialog.Payload{}); err != nil {
		b.log.Error("dialog state write failed", "err", err)
		return
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID,
		"Введите максимальный тираж подарка (число) или «-», чтобы снять ограничение", backKeyboard())
	b.send(edit)
}

func (b *Bot) inputSupplyLimit(ctx context.Context, chatID, tgID int64, text string) {
	var limit *int64
	if text != "-" {
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil || v < 1 {
			b.reply(chatID, "Введите положительное число или «-».")
			return
		}
		limit = &v
	}
	if _, err := b.settings.SetSupplyLimit(ctx, tgID, limit); err != nil {
		b.log.Error("supply limit save failed", "user_id", tgID, "err", err)
		b.reply(chatID, "Не удалось сохранить настройки")
		return
	}
	_ = b.states.Reset(ctx, chatID)
	b.showAutoBuyMenu(ctx, chatID, tgID, nil)
}

func (b *Bot) askCycles(ctx context.Context, chatID int64, msgID int) {
	if err := b.states.Set(ctx, chatID, dialog.StateAutoBuyCycles, dialog.Payload{}); err != nil {
		b.log.Error("dialog state write failed", "err", err)
		return
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID,
		"Сколько проходов скупки делать за один тик? (1–10)", backKeyboard())
	b.send(edit)
}

func (b *Bot) inputCycles(ctx context.Context, chatID, tgID int64, text string) {
	v, err := strconv.Atoi(text)
	if err != nil || v < 1 || v > 10 {
		b.reply(chatID, "Введите число от 1 до 10.")
		return
	}
	if _, err := b.settings.SetCycles(ctx, tgID, v); err != nil {
		b.log.Error("cycles save failed", "user_id", tgID, "err", err)
		b.reply(chatID, "Не удалось сохранить настройки")
		return
	}
	_ = b.states.Reset(ctx, chatID)
	b.showAutoBuyMenu(ctx, chatID, tgID, nil)
}
