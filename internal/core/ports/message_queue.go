package ports

import (
	"context"

	"github.com/GoArmGo/Foodgram/internal/messaging/payloads"
)

// ImageCleanupPublisher ставит в очередь удаление картинок, которые больше не нужны рецептам.
// Используется usecase-слоем при обновлении и удалении рецептов.
type ImageCleanupPublisher interface {
	PublishImageCleanup(ctx context.Context, payload payloads.ImageCleanupPayload) error
}

// ImageCleanupConsumer используется воркером для получения задач из очереди
type ImageCleanupConsumer interface {
	// StartConsumingImageCleanup начинает прослушивание очереди;
	// handler вызывается для каждого полученного сообщения
	StartConsumingImageCleanup(ctx context.Context, handler func(context.Context, payloads.ImageCleanupPayload) error) error
}
