package users

import "time"

type Status string

const (
	StatusUser  Status = "user"
	StatusAdmin Status = "admin"
)

type User struct {
	UserID    int64
	Username  string
	Status    Status
	Balance   int64 // звёзды, целыми единицами
	CreatedAt time.Time
}

func (u *User) IsAdmin() bool { return u.Status == StatusAdmin }
