package ports

import (
	"context"

	"github.com/GoArmGo/Foodgram/internal/domain"
)

// RecipeFilter описывает фильтры списка рецептов.
// ViewerID == 0 означает анонимного пользователя: флаги Favorited/InShoppingCart тогда игнорируются.
type RecipeFilter struct {
	AuthorIDs      []int64
	TagSlugs       []string
	Favorited      bool
	InShoppingCart bool
	ViewerID       int64
	Limit          int
	Offset         int
}

// RecipeWrite это всё, что записывается одной транзакцией при создании или обновлении рецепта.
type RecipeWrite struct {
	Recipe      domain.Recipe
	Ingredients []domain.RecipeIngredient
	TagIDs      []int64
}

// RecipeStorage определяет методы для взаимодействия с хранилищем рецептов
type RecipeStorage interface {
	// CreateRecipe вставляет рецепт, его ингредиенты и теги в одной транзакции.
	CreateRecipe(ctx context.Context, w RecipeWrite) (*domain.Recipe, error)
	// UpdateRecipe заменяет все связи рецепта и его скалярные поля в одной транзакции.
	UpdateRecipe(ctx context.Context, w RecipeWrite) (*domain.Recipe, error)
	// CheckReferences возвращает domain.ErrNotFound для первого неизвестного ингредиента или тега.
	CheckReferences(ctx context.Context, w RecipeWrite) error
	DeleteRecipe(ctx context.Context, id int64) error
	GetRecipe(ctx context.Context, id int64) (*domain.Recipe, error)
	ListRecipes(ctx context.Context, f RecipeFilter) ([]domain.Recipe, int64, error)
	ListRecipesByAuthor(ctx context.Context, authorID int64, limit int) ([]domain.Recipe, error)
	CountRecipesByAuthors(ctx context.Context, authorIDs []int64) (map[int64]int64, error)
	TagsFor(ctx context.Context, recipeIDs []int64) (map[int64][]domain.Tag, error)
	IngredientsFor(ctx context.Context, recipeIDs []int64) (map[int64][]domain.IngredientAmount, error)
}

// CatalogStorage отдаёт справочники тегов и ингредиентов
type CatalogStorage interface {
	ListTags(ctx context.Context) ([]domain.Tag, error)
	GetTag(ctx context.Context, id int64) (*domain.Tag, error)
	ListIngredients(ctx context.Context, nameContains string) ([]domain.Ingredient, error)
	GetIngredient(ctx context.Context, id int64) (*domain.Ingredient, error)
}

// MembershipStorage это множество пар (user, recipe): избранное или корзина.
type MembershipStorage interface {
	Set() domain.MembershipSet
	// Add возвращает domain.ErrConflict, если пара уже есть.
	Add(ctx context.Context, userID, recipeID int64) error
	// Remove возвращает domain.ErrNotFound, если пары нет.
	Remove(ctx context.Context, userID, recipeID int64) error
	ContainsAny(ctx context.Context, userID int64, recipeIDs []int64) (map[int64]bool, error)
}

// UserStorage определяет методы для взаимодействия с хранилищем пользователей
type UserStorage interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUsers(ctx context.Context, ids []int64) (map[int64]domain.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, int64, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}

// SubscriptionStorage хранит подписки (follower -> author).
type SubscriptionStorage interface {
	Subscribe(ctx context.Context, userID, authorID int64) error
	Unsubscribe(ctx context.Context, userID, authorID int64) error
	FollowedAmong(ctx context.Context, userID int64, authorIDs []int64) (map[int64]bool, error)
	ListFollowed(ctx context.Context, userID int64, limit, offset int) ([]domain.User, int64, error)
}

// ShoppingListStorage агрегирует ингредиенты всех рецептов из корзины пользователя.
type ShoppingListStorage interface {
	AggregateShoppingList(ctx context.Context, userID int64) ([]domain.ShoppingListItem, error)
}
