package domain

import (
	"time"
)

// Tag представляет модель тега,
// соответствует таблице tags в бд
type Tag struct {
	ID    int64  `json:"id" db:"id" gorm:"primaryKey"`
	Name  string `json:"name" db:"name" gorm:"size:200;index;not null" validate:"required,max=200"`
	Color string `json:"color" db:"color" gorm:"size:7;not null" validate:"required,len=7,hexcolor"`
	Slug  string `json:"slug" db:"slug" gorm:"size:200;uniqueIndex;not null" validate:"required,max=200"`
}

func (Tag) TableName() string {
	return "tags"
}

// Ingredient уникален по паре (name, measurement_unit)
type Ingredient struct {
	ID              int64  `json:"id" db:"id" gorm:"primaryKey"`
	Name            string `json:"name" db:"name" gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit"`
	MeasurementUnit string `json:"measurement_unit" db:"measurement_unit" gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

// Recipe представляет модель рецепта,
// соответствует таблице recipes в бд
type Recipe struct {
	ID          int64     `json:"id" db:"id" gorm:"primaryKey"`
	AuthorID    int64     `json:"author_id" db:"author_id" gorm:"not null;index"`
	Name        string    `json:"name" db:"name" gorm:"size:200;not null;index"`
	Text        string    `json:"text" db:"text" gorm:"type:text;not null"`
	Image       string    `json:"image" db:"image" gorm:"not null"`
	ImageKey    string    `json:"-" db:"image_key" gorm:"not null"`
	CookingTime int       `json:"cooking_time" db:"cooking_time" gorm:"not null"`
	PubDate     time.Time `json:"pub_date" db:"pub_date" gorm:"not null;index;autoCreateTime:false"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// RecipeIngredient хранит количество ингредиента в рецепте,
// соответствует таблице recipe_ingredients в бд
type RecipeIngredient struct {
	RecipeID     int64 `json:"recipe_id" db:"recipe_id" gorm:"primaryKey;autoIncrement:false"`
	IngredientID int64 `json:"ingredient_id" db:"ingredient_id" gorm:"primaryKey;autoIncrement:false"`
	Amount       int   `json:"amount" db:"amount" gorm:"not null"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

// RecipeTag представляет связующую модель для отношения Many-to-Many между Recipe и Tag,
// соответствует таблице recipe_tags в бд
type RecipeTag struct {
	RecipeID int64 `json:"recipe_id" db:"recipe_id" gorm:"primaryKey;autoIncrement:false"`
	TagID    int64 `json:"tag_id" db:"tag_id" gorm:"primaryKey;autoIncrement:false"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}

// IngredientAmount это ингредиент рецепта вместе с количеством.
type IngredientAmount struct {
	ID              int64  `json:"id" db:"id"`
	Name            string `json:"name" db:"name"`
	MeasurementUnit string `json:"measurement_unit" db:"measurement_unit"`
	Amount          int    `json:"amount" db:"amount"`
}

// ShoppingListItem одна строка агрегированного списка покупок.
type ShoppingListItem struct {
	Name            string `db:"name"`
	MeasurementUnit string `db:"measurement_unit"`
	Total           int64  `db:"total"`
}
