package autobuy

import (
	"context"

	"github.com/mkrukov/star-gifts-bot/internal/domain/gifts"
	"github.com/mkrukov/star-gifts-bot/internal/domain/settings"
	"github.com/mkrukov/star-gifts-bot/internal/domain/users"
	"github.com/mkrukov/star-gifts-bot/internal/tgapi"
)

// Узкие интерфейсы под нужды движка; в проде их закрывают
// pg-репозитории из internal/domain, в тестах — фейки.

type Catalog interface {
	Upsert(ctx context.Context, giftID string, price, totalCount, remainingCount int64) (inserted, updated bool, err error)
	ListNew(ctx context.Context) ([]gifts.Gift, error)
	ResetNew(ctx context.Context) (int64, error)
}

type Accounts interface {
	Get(ctx context.Context, userID int64) (*users.User, error)
}

type SettingsStore interface {
	ListEnabled(ctx context.Context) ([]settings.Settings, error)
}

type Ledger interface {
	// CommitPurchase атомарно проводит списание, декремент тиража и
	// запись журнала; возвращает баланс после списания.
	CommitPurchase(ctx context.Context, userID int64, giftID string, price int64, chargeID, payload string) (int64, error)
}

type Marketplace interface {
	AvailableGifts(ctx context.Context) ([]tgapi.Gift, error)
	SendGift(ctx context.Context, userID int64, giftID string) error
}
