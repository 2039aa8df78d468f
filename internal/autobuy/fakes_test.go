package autobuy

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/mkrukov/star-gifts-bot/internal/domain/gifts"
	"github.com/mkrukov/star-gifts-bot/internal/domain/ledger"
	"github.com/mkrukov/star-gifts-bot/internal/domain/settings"
	"github.com/mkrukov/star-gifts-bot/internal/domain/users"
	"github.com/mkrukov/star-gifts-bot/internal/tgapi"
)

// world — общее состояние фейков: каталог, балансы и рынок в одном
// месте, чтобы коммит покупки менял то же, что видит поллер.
type world struct {
	gifts    map[string]*gifts.Gift
	balances map[int64]int64
	enabled  []settings.Settings

	fetch    []tgapi.Gift
	fetchErr error

	failSend       map[string]bool // gift_id -> sendGift отказывает
	failCommit     map[int64]error // user_id -> CommitPurchase падает
	listEnabledErr error
	upsertErr      error
	creditOnCommit int64 // внешнее зачисление после каждого коммита

	sends        []string // "user:gift" в порядке попыток
	txs          []string
	events       []string // крупные шаги тика, для проверки порядка
	inserted     int
	updated      int
	resets       int
	listNewCalls int
}

func newWorld() *world {
	return &world{
		gifts:      map[string]*gifts.Gift{},
		balances:   map[int64]int64{},
		failSend:   map[string]bool{},
		failCommit: map[int64]error{},
	}
}

func (w *world) addGift(g gifts.Gift) {
	cp := g
	w.gifts[g.GiftID] = &cp
}

func limitedFetch(id string, price, total, remaining int64) tgapi.Gift {
	return tgapi.Gift{ID: id, StarCount: price, TotalCount: &total, RemainingCount: &remaining}
}

// --- Catalog ---

func (w *world) Upsert(_ context.Context, giftID string, price, totalCount, remainingCount int64) (bool, bool, error) {
	if w.upsertErr != nil {
		return false, false, w.upsertErr
	}
	if g, ok := w.gifts[giftID]; ok {
		if g.Price == price && g.TotalCount == totalCount && g.RemainingCount == remainingCount {
			return false, false, nil
		}
		g.Price, g.TotalCount, g.RemainingCount = price, totalCount, remainingCount
		w.updated++
		return false, true, nil
	}
	w.gifts[giftID] = &gifts.Gift{
		GiftID: giftID, Price: price,
		TotalCount: totalCount, RemainingCount: remainingCount, IsNew: true,
	}
	w.inserted++
	return true, false, nil
}

func (w *world) ListNew(context.Context) ([]gifts.Gift, error) {
	w.listNewCalls++
	var out []gifts.Gift
	for _, g := range w.gifts {
		if g.IsNew {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalCount != out[j].TotalCount {
			return out[i].TotalCount < out[j].TotalCount
		}
		return out[i].GiftID < out[j].GiftID
	})
	return out, nil
}

func (w *world) ResetNew(context.Context) (int64, error) {
	var n int64
	for _, g := range w.gifts {
		if g.IsNew {
			g.IsNew = false
			n++
		}
	}
	w.resets++
	w.events = append(w.events, "reset")
	return n, nil
}

// --- Accounts ---

func (w *world) Get(_ context.Context, userID int64) (*users.User, error) {
	bal, ok := w.balances[userID]
	if !ok {
		return nil, nil
	}
	return &users.User{UserID: userID, Balance: bal}, nil
}

// --- SettingsStore ---

func (w *world) ListEnabled(context.Context) ([]settings.Settings, error) {
	if w.listEnabledErr != nil {
		return nil, w.listEnabledErr
	}
	return w.enabled, nil
}

// --- Ledger ---

func (w *world) CommitPurchase(_ context.Context, userID int64, giftID string, price int64, chargeID, payload string) (int64, error) {
	if err := w.failCommit[userID]; err != nil {
		return 0, err
	}
	bal := w.balances[userID]
	if bal < price {
		return 0, ledger.ErrInsufficientBalance
	}
	g, ok := w.gifts[giftID]
	if !ok || g.RemainingCount <= 0 {
		return 0, ledger.ErrSoldOut
	}
	w.balances[userID] = bal - price + w.creditOnCommit
	g.RemainingCount--
	w.txs = append(w.txs, fmt.Sprintf("%d:%s:%d:%s", userID, giftID, -price, chargeID))
	return w.balances[userID], nil
}

// --- Marketplace ---

func (w *world) AvailableGifts(context.Context) ([]tgapi.Gift, error) {
	if w.fetchErr != nil {
		return nil, w.fetchErr
	}
	w.events = append(w.events, "fetch")
	return w.fetch, nil
}

func (w *world) SendGift(_ context.Context, userID int64, giftID string) error {
	w.sends = append(w.sends, fmt.Sprintf("%d:%s", userID, giftID))
	if w.failSend[giftID] {
		return fmt.Errorf("send rejected")
	}
	w.events = append(w.events, "send:"+giftID)
	return nil
}

func newTestEngine(w *world, cfg Config) *Engine {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(log, w, w, w, w, w, cfg)
}
