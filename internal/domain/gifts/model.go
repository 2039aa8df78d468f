package gifts

import "time"

// Gift — лимитированный подарок из каталога. Безлимитные в базу
// не попадают вовсе, поэтому тираж здесь всегда конечный.
type Gift struct {
	GiftID         string
	Price          int64
	TotalCount     int64
	RemainingCount int64
	IsNew          bool
	UpdatedAt      time.Time
}
