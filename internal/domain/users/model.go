package users

import "time"

type Role string

const (
	RoleClerk Role = "clerk"
	RoleAdmin Role = "admin"
)

type User struct {
	ID         int64
	TelegramID int64
	Username   string
	FullName   string
	Role       Role
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CanManageCatalog выгрузка из 1С и импорт Excel доступны только админу.
func (u *User) CanManageCatalog() bool { return u != nil && u.Role == RoleAdmin }

type Telegram struct {
	ID       int64
	Username string
}
