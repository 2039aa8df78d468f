package dialog

type State string

const (
	StateIdle State = "idle"

	// Настройки автоскупки
	StateAutoBuyPriceRange  State = "ab_price_range"  // ввод «от до»
	StateAutoBuySupplyLimit State = "ab_supply_limit" // ввод лимита тиража или «-»
	StateAutoBuyCycles      State = "ab_cycles"       // ввод числа циклов
)

type Payload map[string]any

type Item struct {
	ChatID  int64
	State   State
	Payload Payload
}
