package bot

import (
	"context"
	"fmt"
	"strings"
)

func (b *Bot) handleBalance(ctx context.Context, chatID, tgID int64) {
	u, err := b.users.Get(ctx, tgID)
	if err != nil || u == nil {
		b.reply(chatID, "Сначала /start")
		return
	}

	txs, err := b.ledger.ListByUser(ctx, tgID, 10)
	if err != nil {
		b.log.Error("ledger read failed", "user_id", tgID, "err", err)
		b.reply(chatID, "Не удалось прочитать журнал операций")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Баланс: %d ⭐️\n", u.Balance)
	if len(txs) > 0 {
		sb.WriteString("\nПоследние операции:\n")
		for _, t := range txs {
			sign := ""
			if t.Amount > 0 {
				sign = "+"
			}
			fmt.Fprintf(&sb, "#%d  %s%d ⭐️  %s\n", t.ID, sign, t.Amount, t.Payload)
		}
	}
	b.reply(chatID, sb.String())
}

func (b *Bot) handleHelp(ctx context.Context, chatID, tgID int64) {
	var sb strings.Builder
	sb.WriteString(
		"/auto_buy — настройки автоскупки новых лимитированных подарков\n" +
			"/balance — баланс и последние операции\n" +
			"/buy &lt;gift_id&gt; [кол-во] — купить подарок вручную\n")
	if b.isAdmin(ctx, tgID) {
		sb.WriteString(
			"\nАдминские команды:\n" +
				"/transfer &lt;user_id&gt; &lt;amount&gt; — начислить звёзды\n" +
				"/refund &lt;transaction_id&gt; — вернуть списание\n" +
				"/gifts — сохранённый каталог\n" +
				"/export — журнал операций в Excel\n")
	}
	b.reply(chatID, sb.String())
}
