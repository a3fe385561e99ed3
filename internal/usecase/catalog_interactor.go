package usecase

import (
	"context"
	"strings"

	"github.com/GoArmGo/Foodgram/internal/core/ports"
	"github.com/GoArmGo/Foodgram/internal/domain"
)

type catalogUseCase struct {
	storage ports.CatalogStorage
}

func NewCatalogUseCase(storage ports.CatalogStorage) CatalogUseCase {
	return &catalogUseCase{storage: storage}
}

func (uc *catalogUseCase) ListTags(ctx context.Context) ([]domain.Tag, error) {
	return uc.storage.ListTags(ctx)
}

func (uc *catalogUseCase) GetTag(ctx context.Context, id int64) (*domain.Tag, error) {
	return uc.storage.GetTag(ctx, id)
}

// ListIngredients ищет ингредиенты по подстроке названия без учёта регистра.
func (uc *catalogUseCase) ListIngredients(ctx context.Context, nameContains string) ([]domain.Ingredient, error) {
	return uc.storage.ListIngredients(ctx, strings.TrimSpace(nameContains))
}

func (uc *catalogUseCase) GetIngredient(ctx context.Context, id int64) (*domain.Ingredient, error) {
	return uc.storage.GetIngredient(ctx, id)
}
