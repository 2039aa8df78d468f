package ledger

import "time"

// Transaction — запись журнала. Журнал только дополняется: ни один
// код в проекте не делает UPDATE по transactions.
type Transaction struct {
	ID        int64
	UserID    int64
	Amount    int64 // со знаком: отрицательное = списание
	ChargeID  string
	Payload   string
	Status    string
	CreatedAt time.Time
}

const StatusCompleted = "completed"
