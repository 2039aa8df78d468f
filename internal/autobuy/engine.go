package autobuy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkrukov/star-gifts-bot/internal/domain/settings"
	"github.com/mkrukov/star-gifts-bot/internal/infra/metrics"
)

type Config struct {
	PollInterval  time.Duration // пауза между тиками
	RetryInterval time.Duration // пауза после неудачного запроса каталога
	ExcludedGifts []string
}

// Engine — один логический воркер: тики строго по одному,
// пользователи внутри тика строго по очереди. Так два пользователя не
// могут потратиться на одну и ту же единицу дефицитного тиража.
type Engine struct {
	log      *slog.Logger
	catalog  Catalog
	accounts Accounts
	settings SettingsStore
	ledger   Ledger
	market   Marketplace

	excluded      map[string]struct{}
	pollInterval  time.Duration
	retryInterval time.Duration

	// подменяется в тестах
	sleep func(ctx context.Context, d time.Duration) error
}

func New(log *slog.Logger, catalog Catalog, accounts Accounts, settingsStore SettingsStore, ledgerStore Ledger, market Marketplace, cfg Config) *Engine {
	excluded := make(map[string]struct{}, len(cfg.ExcludedGifts))
	for _, id := range cfg.ExcludedGifts {
		excluded[id] = struct{}{}
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 3 * time.Second
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 10 * time.Second
	}
	return &Engine{
		log:           log,
		catalog:       catalog,
		accounts:      accounts,
		settings:      settingsStore,
		ledger:        ledgerStore,
		market:        market,
		excluded:      excluded,
		pollInterval:  cfg.PollInterval,
		retryInterval: cfg.RetryInterval,
		sleep:         sleepCtx,
	}
}

// Run крутит тики до отмены контекста. Отмена проверяется на границе
// тика, поэтому завершение никогда не оставляет покупку полузафиксированной.
func (e *Engine) Run(ctx context.Context) error {
	e.log.Info("autobuy engine started",
		"poll_interval", e.pollInterval, "excluded", len(e.excluded))
	for {
		interval := e.pollInterval
		if err := e.Tick(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			e.log.Error("tick aborted", "err", err)
			interval = e.retryInterval
		}
		if err := e.sleep(ctx, interval); err != nil {
			e.log.Info("autobuy engine stopped")
			return err
		}
	}
}

// Tick — один полный проход: каталог, пользователи, сброс флагов.
// Сбой до обработки пользователей (каталог, выборка настроек, отмена)
// бросает тик целиком: флаги новизны не сбрасываются и доживают до
// следующего захода. Беды отдельных пользователей гасятся внутри и на
// соседей не распространяются.
func (e *Engine) Tick(ctx context.Context) error {
	if err := e.pollCatalog(ctx); err != nil {
		return err
	}

	if err := e.processUsers(ctx); err != nil {
		return err
	}

	// ровно один сброс за тик, после всех пользователей
	if n, err := e.catalog.ResetNew(ctx); err != nil {
		e.log.Error("reset new flags failed", "err", err)
	} else if n > 0 {
		e.log.Debug("new flags cleared", "count", n)
	}

	metrics.Ticks.Inc()
	return nil
}

func (e *Engine) processUsers(ctx context.Context) error {
	enabled, err := e.settings.ListEnabled(ctx)
	if err != nil {
		return fmt.Errorf("list enabled settings: %w", err)
	}

	for _, s := range enabled {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.processUser(ctx, s); err != nil {
			e.log.Error("user processing aborted for this tick",
				"user_id", s.UserID, "err", err)
		}
	}
	return nil
}

func (e *Engine) processUser(ctx context.Context, s settings.Settings) error {
	user, err := e.accounts.Get(ctx, s.UserID)
	if err != nil {
		return err
	}
	if user == nil || user.Balance < 1 {
		return nil
	}

	balance := user.Balance
	totalPurchased := 0
	var totalSpent int64

	for cycle := 0; cycle < s.Cycles; cycle++ {
		if balance < 1 {
			break
		}

		// новый список перечитываем каждый цикл: подарки, помеченные
		// по ходу тика, не теряются
		fresh, err := e.catalog.ListNew(ctx)
		if err != nil {
			return err
		}
		eligible := eligibleGifts(fresh, s, e.excluded)
		if len(eligible) == 0 {
			break
		}

		plan := buildPlan(eligible, balance)
		if len(plan) == 0 {
			break
		}

		purchased, spent, rest, err := e.executePlan(ctx, s.UserID, balance, plan)
		totalPurchased += purchased
		totalSpent += spent
		balance = rest
		if err != nil {
			return err
		}
		if purchased == 0 {
			break // больше нечего покупать
		}
	}

	if totalPurchased > 0 {
		e.log.Info("autobuy summary",
			"user_id", s.UserID, "purchased", totalPurchased,
			"spent", totalSpent, "balance", balance)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
