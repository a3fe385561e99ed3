package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/GoArmGo/Foodgram/internal/core/ports"
	"github.com/GoArmGo/Foodgram/internal/domain"
)

const (
	ShoppingListFilename = "shopping-cart.txt"
	shoppingListTitle    = "Foodgram shopping list:"
)

type shoppingListUseCase struct {
	storage ports.ShoppingListStorage
	logger  *slog.Logger
}

func NewShoppingListUseCase(storage ports.ShoppingListStorage, logger *slog.Logger) ShoppingListUseCase {
	return &shoppingListUseCase{storage: storage, logger: logger}
}

// DownloadShoppingList суммирует ингредиенты всех рецептов корзины по паре (название, единица).
func (uc *shoppingListUseCase) DownloadShoppingList(ctx context.Context, viewerID int64) (*ShoppingListDocument, error) {
	if viewerID == 0 {
		return nil, domain.ErrUnauthorized
	}

	items, err := uc.storage.AggregateShoppingList(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при сборке списка покупок: %w", err)
	}

	uc.logger.Info("usecase: список покупок собран", "user_id", viewerID, "items", len(items))
	return &ShoppingListDocument{
		Filename: ShoppingListFilename,
		Content:  []byte(RenderShoppingList(items)),
	}, nil
}

// RenderShoppingList печатает заголовок, пустую строку и по строке
// "{name} ({unit}) - {total}" на каждую позицию. Пустой список это только заголовок.
func RenderShoppingList(items []domain.ShoppingListItem) string {
	var b strings.Builder
	b.WriteString(shoppingListTitle)
	b.WriteString("\n")
	if len(items) == 0 {
		return b.String()
	}
	b.WriteString("\n")
	for _, item := range items {
		fmt.Fprintf(&b, "%s (%s) - %d\n", item.Name, item.MeasurementUnit, item.Total)
	}
	return b.String()
}
