package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mkrukov/star-gifts-bot/internal/domain/ledger"
)

// handleBuy — ручная покупка через тот же путь фиксации, что и
// автоскупка: sendGift, затем атомарный коммит в журнал.
func (b *Bot) handleBuy(ctx context.Context, chatID, tgID int64, args string) {
	fields := strings.Fields(args)
	if len(fields) < 1 || len(fields) > 2 {
		b.reply(chatID, "Использование: /buy &lt;gift_id&gt; [кол-во]")
		return
	}
	giftID := fields[0]
	qty := int64(1)
	if len(fields) == 2 {
		v, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil || v < 1 {
			b.reply(chatID, "Количество — положительное число.")
			return
		}
		qty = v
	}

	g, err := b.gifts.Get(ctx, giftID)
	if err != nil {
		b.log.Error("gift lookup failed", "gift_id", giftID, "err", err)
		b.reply(chatID, "Не удалось прочитать каталог")
		return
	}
	if g == nil {
		b.reply(chatID, "Такого подарка нет в каталоге (или он безлимитный).")
		return
	}

	var bought int64
	for i := int64(0); i < qty; i++ {
		if err := b.giftsAPI.SendGift(ctx, tgID, giftID); err != nil {
			b.log.Warn("manual purchase rejected", "user_id", tgID, "gift_id", giftID, "err", err)
			break
		}
		payload := fmt.Sprintf("gift_%s", giftID)
		_, err := b.ledger.CommitPurchase(ctx, tgID, giftID, g.Price, "manual_purchase", payload)
		if err != nil {
			if errors.Is(err, ledger.ErrInsufficientBalance) {
				b.reply(chatID, "Недостаточно звёзд.")
			} else if errors.Is(err, ledger.ErrSoldOut) {
				b.reply(chatID, "Подарок распродан.")
			} else {
				b.log.Error("manual purchase commit failed", "user_id", tgID, "gift_id", giftID, "err", err)
				b.reply(chatID, "Ошибка при проведении покупки.")
			}
			break
		}
		bought++
	}

	if bought > 0 {
		b.reply(chatID, fmt.Sprintf("Куплено %d шт. подарка %s по %d ⭐️.", bought, giftID, g.Price))
	} else {
		b.reply(chatID, "Покупка не прошла.")
	}
}
