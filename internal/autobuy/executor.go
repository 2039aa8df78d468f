package autobuy

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkrukov/star-gifts-bot/internal/domain/ledger"
	"github.com/mkrukov/star-gifts-bot/internal/infra/metrics"
)

const autoBuyChargeID = "autobuy_bulk_transaction"

// executePlan идёт по плану (редкие первыми) и покупает поштучно.
// Перед каждой единицей — живая проверка баланса: не хватает — бросаем
// позицию и переходим к следующей. Отказ sendGift тоже бросает позицию
// без ретраев. Ошибка фиксации в базе прерывает всю оставшуюся работу
// пользователя в этом тике: внешняя покупка уже прошла, и дальше жечь
// баланс вслепую нельзя.
// spent — сумма проведённых списаний; rest берётся из RETURNING и
// может не сходиться с balance-spent, если параллельно пришло зачисление.
func (e *Engine) executePlan(ctx context.Context, userID, balance int64, plan []planEntry) (purchased int, spent, rest int64, err error) {
	rest = balance
	for _, entry := range plan {
		g := entry.Gift
		for i := int64(0); i < entry.Qty; i++ {
			if rest < g.Price {
				break
			}

			if err := e.market.SendGift(ctx, userID, g.GiftID); err != nil {
				metrics.PurchaseFailures.Inc()
				e.log.Warn("gift purchase rejected",
					"user_id", userID, "gift_id", g.GiftID, "err", err)
				break
			}

			payload := fmt.Sprintf("autobuy_gift_%s_rarity_%d", g.GiftID, g.TotalCount)
			newBalance, err := e.ledger.CommitPurchase(ctx, userID, g.GiftID, g.Price, autoBuyChargeID, payload)
			switch {
			case err == nil:
				rest = newBalance
				spent += g.Price
				purchased++
				metrics.Purchases.Inc()
				metrics.StarsSpent.Add(float64(g.Price))
			case errors.Is(err, ledger.ErrInsufficientBalance), errors.Is(err, ledger.ErrSoldOut):
				// гонка с внешним изменением; позицию бросаем, остальные живы
				e.log.Warn("purchase commit skipped",
					"user_id", userID, "gift_id", g.GiftID, "err", err)
			default:
				return purchased, spent, rest, fmt.Errorf("commit purchase %s: %w", g.GiftID, err)
			}
			if err != nil {
				break
			}
		}
	}
	return purchased, spent, rest, nil
}
