package autobuy

import (
	"sort"

	"github.com/mkrukov/star-gifts-bot/internal/domain/gifts"
)

type planEntry struct {
	Gift gifts.Gift
	Qty  int64
}

// buildPlan делит баланс между подходящими подарками примерно поровну,
// с перекосом в пользу редких. Самый редкий получает 1.5x от базовой
// доли, самый массовый — 0.8x. План совещательный: реально купленное
// количество может оказаться меньше, баланс тратится по ходу исполнения.
func buildPlan(eligible []gifts.Gift, balance int64) []planEntry {
	if len(eligible) == 0 || balance <= 0 {
		return nil
	}

	sorted := make([]gifts.Gift, len(eligible))
	copy(sorted, eligible)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalCount < sorted[j].TotalCount
	})

	n := int64(len(sorted))
	base := balance / n

	plan := make([]planEntry, 0, n)
	for i, g := range sorted {
		coef := 1.0
		if n > 1 {
			coef = 1.5 - float64(i)*0.7/float64(n-1)
		}
		budget := int64(float64(base) * coef)

		qty := budget / g.Price
		if qty > g.RemainingCount {
			qty = g.RemainingCount
		}
		// страховка от плана, рассчитывающего на чужую долю баланса
		if max := balance / g.Price; qty > max {
			qty = max
		}
		if qty <= 0 {
			continue
		}
		plan = append(plan, planEntry{Gift: g, Qty: qty})
	}
	return plan
}
