package tgapi

import (
	"encoding/json"
	"testing"
)

func TestGiftLimited(t *testing.T) {
	n := int64(100)
	cases := []struct {
		g    Gift
		want bool
	}{
		{Gift{TotalCount: &n, RemainingCount: &n}, true},
		{Gift{TotalCount: &n}, false},
		{Gift{RemainingCount: &n}, false},
		{Gift{}, false},
	}
	for i, tc := range cases {
		if got := tc.g.Limited(); got != tc.want {
			t.Fatalf("case %d: got %v want %v", i, got, tc.want)
		}
	}
}

func TestGiftDecode(t *testing.T) {
	raw := `{"gifts":[
		{"id":"123","star_count":50,"total_count":5000,"remaining_count":4999},
		{"id":"456","star_count":15}
	]}`
	var result struct {
		Gifts []Gift `json:"gifts"`
	}
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Gifts) != 2 {
		t.Fatalf("gifts=%d want 2", len(result.Gifts))
	}
	ltd := result.Gifts[0]
	if !ltd.Limited() || ltd.StarCount != 50 || *ltd.RemainingCount != 4999 {
		t.Fatalf("limited gift decoded as %+v", ltd)
	}
	if result.Gifts[1].Limited() {
		t.Fatalf("unlimited gift decoded as limited")
	}
}
