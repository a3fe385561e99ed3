package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/Foodgram/internal/core/ports"
	"github.com/GoArmGo/Foodgram/internal/usecase"
)

// runWorker слушает очередь задач на удаление картинок, пока не отменён ctx.
func runWorker(
	ctx context.Context,
	imageCleanup usecase.ImageCleanupUseCase,
	consumer ports.ImageCleanupConsumer,
	logger *slog.Logger,
) error {
	logger.Info("worker started, waiting for image cleanup jobs")

	if err := consumer.StartConsumingImageCleanup(ctx, imageCleanup.CleanupImage); err != nil {
		return fmt.Errorf("ошибка при запуске потребителя RabbitMQ: %w", err)
	}

	<-ctx.Done()
	logger.Info("worker stopped")
	return nil
}
