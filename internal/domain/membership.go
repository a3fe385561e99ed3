package domain

import "time"

// MembershipSet называет таблицу, в которой хранится множество пар (user, recipe).
type MembershipSet string

const (
	FavoritesSet    MembershipSet = "favorites"
	ShoppingCartSet MembershipSet = "shopping_cart_entries"
)

// Membership строка множества (user, recipe) без дополнительных атрибутов.
// Имя таблицы задаётся MembershipSet, поэтому TableName не объявлен.
type Membership struct {
	UserID    int64     `json:"user_id" db:"user_id" gorm:"primaryKey;autoIncrement:false"`
	RecipeID  int64     `json:"recipe_id" db:"recipe_id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
