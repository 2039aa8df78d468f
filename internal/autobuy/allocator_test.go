package autobuy

import (
	"testing"

	"github.com/mkrukov/star-gifts-bot/internal/domain/gifts"
)

func gift(id string, price, total, remaining int64) gifts.Gift {
	return gifts.Gift{GiftID: id, Price: price, TotalCount: total, RemainingCount: remaining}
}

func TestBuildPlanRarityWeights(t *testing.T) {
	eligible := []gifts.Gift{
		gift("common", 20, 100, 100),
		gift("rare", 5, 10, 10),
		gift("mid", 10, 50, 50),
	}
	plan := buildPlan(eligible, 300)
	if len(plan) != 3 {
		t.Fatalf("plan len=%d want 3", len(plan))
	}
	// редкие первыми
	if plan[0].Gift.GiftID != "rare" || plan[1].Gift.GiftID != "mid" || plan[2].Gift.GiftID != "common" {
		t.Fatalf("order=%s,%s,%s", plan[0].Gift.GiftID, plan[1].Gift.GiftID, plan[2].Gift.GiftID)
	}
	// base=100: rare 150/5=30, но остаток 10; mid 114/10=11; common 80/20=4
	if plan[0].Qty != 10 {
		t.Fatalf("rare qty=%d want 10", plan[0].Qty)
	}
	if plan[1].Qty != 11 {
		t.Fatalf("mid qty=%d want 11", plan[1].Qty)
	}
	if plan[2].Qty != 4 {
		t.Fatalf("common qty=%d want 4", plan[2].Qty)
	}
}

func TestBuildPlanSingleItem(t *testing.T) {
	plan := buildPlan([]gifts.Gift{gift("only", 7, 1000, 1000)}, 100)
	if len(plan) != 1 {
		t.Fatalf("plan len=%d want 1", len(plan))
	}
	// один подарок — коэффициент 1.0, весь баланс его
	if plan[0].Qty != 14 {
		t.Fatalf("qty=%d want 14", plan[0].Qty)
	}
}

func TestBuildPlanZeroBalance(t *testing.T) {
	plan := buildPlan([]gifts.Gift{gift("a", 5, 10, 10)}, 0)
	if len(plan) != 0 {
		t.Fatalf("plan len=%d want 0", len(plan))
	}
}

func TestBuildPlanEmptyEligible(t *testing.T) {
	if plan := buildPlan(nil, 500); len(plan) != 0 {
		t.Fatalf("plan len=%d want 0", len(plan))
	}
}

func TestBuildPlanOmitsUnaffordable(t *testing.T) {
	eligible := []gifts.Gift{
		gift("cheap", 10, 10, 10),
		gift("pricey", 5000, 20, 20),
	}
	plan := buildPlan(eligible, 100)
	for _, e := range plan {
		if e.Qty <= 0 {
			t.Fatalf("entry %s has qty %d", e.Gift.GiftID, e.Qty)
		}
		if e.Gift.GiftID == "pricey" {
			t.Fatalf("pricey should be omitted")
		}
	}
}

func TestBuildPlanEntryNeverExceedsBalance(t *testing.T) {
	cases := []struct {
		balance  int64
		eligible []gifts.Gift
	}{
		{300, []gifts.Gift{gift("a", 5, 10, 10), gift("b", 10, 50, 50), gift("c", 20, 100, 100)}},
		{17, []gifts.Gift{gift("a", 3, 7, 7), gift("b", 9, 9, 2)}},
		{1, []gifts.Gift{gift("a", 1, 1, 1)}},
		{999, []gifts.Gift{gift("a", 250, 5, 5), gift("b", 251, 6, 6), gift("c", 252, 7, 7), gift("d", 253, 8, 8)}},
	}
	for _, tc := range cases {
		for _, e := range buildPlan(tc.eligible, tc.balance) {
			if e.Qty*e.Gift.Price > tc.balance {
				t.Fatalf("entry %s: %d*%d exceeds balance %d", e.Gift.GiftID, e.Qty, e.Gift.Price, tc.balance)
			}
			if e.Qty > e.Gift.RemainingCount {
				t.Fatalf("entry %s: qty %d exceeds remaining %d", e.Gift.GiftID, e.Qty, e.Gift.RemainingCount)
			}
		}
	}
}
