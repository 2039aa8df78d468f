package settings

import "time"

// Settings — параметры автоскупки одного пользователя.
// Создаются при первом обращении, никогда не удаляются.
type Settings struct {
	UserID      int64
	Enabled     bool
	PriceFrom   int64
	PriceTo     int64
	SupplyLimit *int64 // nil = без ограничения по тиражу
	Cycles      int
	UpdatedAt   time.Time
}
