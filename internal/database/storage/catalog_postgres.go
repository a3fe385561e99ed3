package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/GoArmGo/Foodgram/internal/domain"
	"github.com/GoArmGo/Foodgram/internal/validation"
)

// CatalogStorage отдаёт теги и ингредиенты. Оба справочника только для чтения через API.
type CatalogStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewCatalogStorage(db *gorm.DB, logger *slog.Logger) *CatalogStorage {
	return &CatalogStorage{db: db, logger: logger}
}

func (s *CatalogStorage) ListTags(ctx context.Context) ([]domain.Tag, error) {
	var tags []domain.Tag
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		s.logger.Error("failed to list tags", "error", err)
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// CreateTag добавляет тег в справочник. Цвет должен быть в формате #RRGGBB.
func (s *CatalogStorage) CreateTag(ctx context.Context, tag *domain.Tag) error {
	if err := validation.ValidateStruct(tag); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(tag).Error; err != nil {
		if isDuplicate(err) {
			return domain.NewValidationError("slug", "Tag with this slug already exists.")
		}
		s.logger.Error("failed to create tag", "slug", tag.Slug, "error", err)
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

func (s *CatalogStorage) GetTag(ctx context.Context, id int64) (*domain.Tag, error) {
	var tag domain.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("tag %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get tag %d: %w", id, err)
	}
	return &tag, nil
}

// likeEscaper экранирует спецсимволы LIKE, чтобы % и _ в запросе искались буквально.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// ListIngredients ищет ингредиенты по подстроке в названии без учёта регистра.
func (s *CatalogStorage) ListIngredients(ctx context.Context, nameContains string) ([]domain.Ingredient, error) {
	q := s.db.WithContext(ctx).Order("name ASC")
	if term := strings.TrimSpace(nameContains); term != "" {
		q = q.Where(`LOWER(name) LIKE LOWER(?) ESCAPE '\'`, "%"+likeEscaper.Replace(term)+"%")
	}

	var ingredients []domain.Ingredient
	if err := q.Find(&ingredients).Error; err != nil {
		s.logger.Error("failed to list ingredients", "name", nameContains, "error", err)
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return ingredients, nil
}

func (s *CatalogStorage) GetIngredient(ctx context.Context, id int64) (*domain.Ingredient, error) {
	var ingredient domain.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("ingredient %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get ingredient %d: %w", id, err)
	}
	return &ingredient, nil
}
