package domain

import (
	"time"
)

// ReservedUsername нельзя использовать как имя пользователя: путь /users/me/ занят.
const ReservedUsername = "me"

// User представляет модель пользователя в системе.
// Соответствует таблице 'users' в базе данных.
type User struct {
	ID           int64     `json:"id" db:"id" gorm:"primaryKey"`
	Email        string    `json:"email" db:"email" gorm:"size:254;uniqueIndex;not null"`
	Username     string    `json:"username" db:"username" gorm:"size:150;uniqueIndex;not null"`
	FirstName    string    `json:"first_name" db:"first_name" gorm:"size:150;not null"`
	LastName     string    `json:"last_name" db:"last_name" gorm:"size:150;not null"`
	PasswordHash string    `json:"-" db:"password_hash" gorm:"not null"`
	CreatedAt    time.Time `json:"-" db:"created_at"`
	UpdatedAt    time.Time `json:"-" db:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Subscription связывает подписчика (UserID) с автором (AuthorID),
// соответствует таблице subscriptions в бд
type Subscription struct {
	UserID    int64     `json:"user_id" db:"user_id" gorm:"primaryKey;autoIncrement:false"`
	AuthorID  int64     `json:"author_id" db:"author_id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
