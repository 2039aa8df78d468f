package autobuy

import (
	"github.com/mkrukov/star-gifts-bot/internal/domain/gifts"
	"github.com/mkrukov/star-gifts-bot/internal/domain/settings"
)

// eligibleGifts отбирает подарки, которые пользователю в принципе можно
// покупать: не из чёрного списка, не распроданы, цена в заданной вилке,
// тираж не больше лимита (если лимит задан). Достаточность баланса здесь
// сознательно не проверяется — она меняется по ходу покупок и
// перепроверяется перед каждой единицей.
func eligibleGifts(gs []gifts.Gift, s settings.Settings, excluded map[string]struct{}) []gifts.Gift {
	out := make([]gifts.Gift, 0, len(gs))
	for _, g := range gs {
		if _, skip := excluded[g.GiftID]; skip {
			continue
		}
		if g.RemainingCount <= 0 {
			continue
		}
		if g.Price < s.PriceFrom || g.Price > s.PriceTo {
			continue
		}
		if s.SupplyLimit != nil && g.TotalCount > *s.SupplyLimit {
			continue
		}
		out = append(out, g)
	}
	return out
}
