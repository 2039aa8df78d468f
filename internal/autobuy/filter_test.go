package autobuy

import (
	"testing"

	"github.com/mkrukov/star-gifts-bot/internal/domain/gifts"
	"github.com/mkrukov/star-gifts-bot/internal/domain/settings"
)

func ids(gs []gifts.Gift) []string {
	out := make([]string, 0, len(gs))
	for _, g := range gs {
		out = append(out, g.GiftID)
	}
	return out
}

func TestEligibleGifts(t *testing.T) {
	limit := int64(5000)
	s := settings.Settings{PriceFrom: 10, PriceTo: 100, SupplyLimit: &limit}
	excluded := map[string]struct{}{"banned": {}}

	all := []gifts.Gift{
		gift("ok", 50, 1000, 3),
		gift("banned", 50, 1000, 3),
		gift("soldout", 50, 1000, 0),
		gift("cheap", 9, 1000, 3),
		gift("pricey", 101, 1000, 3),
		gift("edge_low", 10, 1000, 3),
		gift("edge_high", 100, 1000, 3),
		gift("mass", 50, 5001, 3),
		gift("edge_supply", 50, 5000, 3),
	}

	got := ids(eligibleGifts(all, s, excluded))
	expect := map[string]bool{"ok": true, "edge_low": true, "edge_high": true, "edge_supply": true}
	if len(got) != len(expect) {
		t.Fatalf("got %v", got)
	}
	for _, id := range got {
		if !expect[id] {
			t.Fatalf("unexpected eligible %s (got %v)", id, got)
		}
	}
}

func TestEligibleGiftsNoSupplyLimit(t *testing.T) {
	s := settings.Settings{PriceFrom: 1, PriceTo: 1000}
	all := []gifts.Gift{gift("huge", 10, 1_000_000, 5)}
	if got := eligibleGifts(all, s, nil); len(got) != 1 {
		t.Fatalf("got %v, want huge eligible with no supply limit", ids(got))
	}
}

func TestEligibleGiftsBalanceNotChecked(t *testing.T) {
	// баланс тут ни при чём: недостаток звёзд отсеивается на исполнении
	s := settings.Settings{PriceFrom: 1, PriceTo: 1_000_000}
	all := []gifts.Gift{gift("expensive", 999_999, 100, 1)}
	if got := eligibleGifts(all, s, nil); len(got) != 1 {
		t.Fatalf("got %v", ids(got))
	}
}
