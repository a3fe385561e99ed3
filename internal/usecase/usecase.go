package usecase

import (
	"context"
	"math"
	"time"

	"github.com/GoArmGo/Foodgram/internal/domain"
)

// Во всех методах viewerID это id пользователя, выполняющего запрос; 0 означает анонима.

// Границы пагинации: смещение (Page-1)*Limit всегда помещается в int32.
const (
	MaxPageSize = 100
	MaxPage     = math.MaxInt32 / MaxPageSize
)

// PageRequest номер страницы (с 1) и её размер.
type PageRequest struct {
	Page  int
	Limit int
}

// NewPageRequest приводит page и limit из запроса к допустимым значениям.
// Неположительный limit заменяется на defaultLimit.
func NewPageRequest(page, limit, defaultLimit int) PageRequest {
	if limit <= 0 {
		limit = defaultLimit
	}
	limit = min(max(limit, 1), MaxPageSize)
	page = min(max(page, 1), MaxPage)
	return PageRequest{Page: page, Limit: limit}
}

func (p PageRequest) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Page это одна страница результатов и общее их количество.
type Page[T any] struct {
	Items []T
	Total int64
}

// IngredientInput ингредиент рецепта на запись.
type IngredientInput struct {
	ID     int64 `json:"id" validate:"required"`
	Amount int   `json:"amount" validate:"min=1,max=30000"`
}

// RecipeInput тело запроса на создание или обновление рецепта.
// Image это data URL (data:image/png;base64,...); при обновлении может быть пустым.
type RecipeInput struct {
	Ingredients []IngredientInput `json:"ingredients" validate:"required,min=1,unique=ID,dive"`
	Tags        []int64           `json:"tags" validate:"required,min=1,unique,dive,required"`
	Image       string            `json:"image"`
	Name        string            `json:"name" validate:"required,max=200"`
	Text        string            `json:"text" validate:"required"`
	CookingTime int               `json:"cooking_time" validate:"min=1,max=1440"`
}

// RecipeListQuery фильтры списка рецептов.
type RecipeListQuery struct {
	AuthorIDs      []int64
	TagSlugs       []string
	IsFavorited    bool
	InShoppingCart bool
	PageRequest
}

// UserView пользователь в ответе API.
type UserView struct {
	Email        string `json:"email"`
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// RecipeView полная проекция рецепта для конкретного зрителя.
type RecipeView struct {
	ID               int64                     `json:"id"`
	Tags             []domain.Tag              `json:"tags"`
	Author           UserView                  `json:"author"`
	Ingredients      []domain.IngredientAmount `json:"ingredients"`
	IsFavorited      bool                      `json:"is_favorited"`
	IsInShoppingCart bool                      `json:"is_in_shopping_cart"`
	Name             string                    `json:"name"`
	Image            string                    `json:"image"`
	Text             string                    `json:"text"`
	CookingTime      int                       `json:"cooking_time"`
	PubDate          time.Time                 `json:"pub_date"`
}

// ShortRecipeView краткая проекция для вложенных списков.
type ShortRecipeView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// SubscriptionView автор, на которого подписан зритель, с его рецептами.
type SubscriptionView struct {
	UserView
	Recipes      []ShortRecipeView `json:"recipes"`
	RecipesCount int64             `json:"recipes_count"`
}

// RegisterInput тело запроса регистрации.
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8,max=150"`
}

// SetPasswordInput тело запроса смены пароля.
type SetPasswordInput struct {
	NewPassword     string `json:"new_password" validate:"required,min=8,max=150"`
	CurrentPassword string `json:"current_password" validate:"required"`
}

// ShoppingListDocument готовый к отдаче файл со списком покупок.
type ShoppingListDocument struct {
	Filename string
	Content  []byte
}

// RecipeUseCase определяет бизнес-логику работы с рецептами
type RecipeUseCase interface {
	CreateRecipe(ctx context.Context, viewerID int64, in RecipeInput) (*RecipeView, error)
	// UpdateRecipe полностью заменяет ингредиенты и теги; автор не меняется.
	UpdateRecipe(ctx context.Context, viewerID, recipeID int64, in RecipeInput) (*RecipeView, error)
	DeleteRecipe(ctx context.Context, viewerID, recipeID int64) error
	GetRecipe(ctx context.Context, viewerID, recipeID int64) (*RecipeView, error)
	ListRecipes(ctx context.Context, viewerID int64, q RecipeListQuery) (Page[RecipeView], error)
}

// MembershipUseCase добавляет рецепт в множество зрителя или убирает из него.
type MembershipUseCase interface {
	// Add возвращает domain.ErrConflict, если рецепт уже в множестве.
	Add(ctx context.Context, viewerID, recipeID int64) (*ShortRecipeView, error)
	// Remove возвращает domain.ErrNotFound, если рецепта в множестве нет.
	Remove(ctx context.Context, viewerID, recipeID int64) error
}

// ShoppingListUseCase собирает список покупок по корзине.
type ShoppingListUseCase interface {
	DownloadShoppingList(ctx context.Context, viewerID int64) (*ShoppingListDocument, error)
}

// CatalogUseCase справочники тегов и ингредиентов.
type CatalogUseCase interface {
	ListTags(ctx context.Context) ([]domain.Tag, error)
	GetTag(ctx context.Context, id int64) (*domain.Tag, error)
	ListIngredients(ctx context.Context, nameContains string) ([]domain.Ingredient, error)
	GetIngredient(ctx context.Context, id int64) (*domain.Ingredient, error)
}

// UserUseCase пользователи и подписки.
type UserUseCase interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	GetUser(ctx context.Context, viewerID, userID int64) (*UserView, error)
	Me(ctx context.Context, viewerID int64) (*UserView, error)
	ListUsers(ctx context.Context, viewerID int64, page PageRequest) (Page[UserView], error)
	SetPassword(ctx context.Context, viewerID int64, in SetPasswordInput) error

	Subscribe(ctx context.Context, viewerID, authorID int64, recipesLimit int) (*SubscriptionView, error)
	Unsubscribe(ctx context.Context, viewerID, authorID int64) error
	Subscriptions(ctx context.Context, viewerID int64, page PageRequest, recipesLimit int) (Page[SubscriptionView], error)
}
