package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/GoArmGo/Foodgram/internal/core/ports"
	"github.com/GoArmGo/Foodgram/internal/messaging/payloads"
)

// ImageCleanupUseCase удаляет из хранилища картинки, на которые больше не ссылается ни один рецепт.
type ImageCleanupUseCase interface {
	CleanupImage(ctx context.Context, payload payloads.ImageCleanupPayload) error
}

type imageCleanupUseCase struct {
	fileStorage ports.FileStorage
	logger      *slog.Logger
}

func NewImageCleanupUseCase(fileStorage ports.FileStorage, logger *slog.Logger) ImageCleanupUseCase {
	return &imageCleanupUseCase{fileStorage: fileStorage, logger: logger}
}

// CleanupImage удаляет объект. Ключи вне recipes/images/ не трогает.
func (uc *imageCleanupUseCase) CleanupImage(ctx context.Context, payload payloads.ImageCleanupPayload) error {
	if !strings.HasPrefix(payload.Key, imageKeyPrefix) || strings.Contains(payload.Key, "..") {
		uc.logger.Warn("usecase: ключ вне каталога картинок рецептов, пропускаем", "key", payload.Key)
		return nil
	}

	if err := uc.fileStorage.DeleteFile(ctx, payload.Key); err != nil {
		return fmt.Errorf("usecase: ошибка удаления картинки %s: %w", payload.Key, err)
	}

	uc.logger.Info("usecase: картинка удалена",
		"key", payload.Key,
		"recipe_id", payload.RecipeID,
		"reason", payload.Reason,
	)
	return nil
}
