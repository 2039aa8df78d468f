package autobuy

import (
	"context"

	"github.com/mkrukov/star-gifts-bot/internal/infra/metrics"
)

// pollCatalog забирает актуальный список подарков и сводит его с базой.
// Безлимитные (без пары total/remaining) отбрасываются до сохранения.
// Ошибка здесь не фатальна: тик бросается, планировщик уйдёт в retry.
func (e *Engine) pollCatalog(ctx context.Context) error {
	all, err := e.market.AvailableGifts(ctx)
	if err != nil {
		metrics.FetchErrors.Inc()
		return err
	}

	var limited, inserted, updated int
	for _, g := range all {
		if !g.Limited() {
			continue
		}
		limited++
		ins, upd, err := e.catalog.Upsert(ctx, g.ID, g.StarCount, *g.TotalCount, *g.RemainingCount)
		if err != nil {
			return err
		}
		if ins {
			inserted++
			e.log.Info("new limited gift",
				"gift_id", g.ID, "price", g.StarCount,
				"remaining", *g.RemainingCount, "total", *g.TotalCount)
		}
		if upd {
			updated++
		}
	}

	metrics.NewGifts.Add(float64(inserted))
	e.log.Debug("catalog polled",
		"total", len(all), "limited", limited,
		"new", inserted, "updated", updated)
	return nil
}
