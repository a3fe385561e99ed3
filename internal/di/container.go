package di

import (
	"context"

	"github.com/GoArmGo/Foodgram/internal/adapter/storage/minio"
	"github.com/GoArmGo/Foodgram/internal/app"
	"github.com/GoArmGo/Foodgram/internal/auth"
	"github.com/GoArmGo/Foodgram/internal/config"
	"github.com/GoArmGo/Foodgram/internal/database/client"
	"github.com/GoArmGo/Foodgram/internal/database/storage"
	"github.com/GoArmGo/Foodgram/internal/handler"
	"github.com/GoArmGo/Foodgram/internal/logger"
	"github.com/GoArmGo/Foodgram/internal/rabbitmq"
	"github.com/GoArmGo/Foodgram/internal/usecase"
)

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
func BuildApp(ctx context.Context) (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// 2. PostgreSQL: sqlx, миграции и GORM поверх одного пула
	dbClient, err := client.NewClient(cfg, slogger)
	if err != nil {
		return nil, err
	}

	// 3. Инициализация хранилищ
	recipeStorage := storage.NewRecipeStorage(dbClient.Gorm, slogger)
	catalogStorage := storage.NewCatalogStorage(dbClient.Gorm, slogger)
	userStorage := storage.NewUserStorage(dbClient.Gorm, slogger)
	subscriptionStorage := storage.NewSubscriptionStorage(dbClient.Gorm, slogger)
	favoriteStorage := storage.NewFavoriteStorage(dbClient.Gorm, slogger)
	cartStorage := storage.NewShoppingCartStorage(dbClient.Gorm, slogger)
	shoppingListStorage := storage.NewShoppingListStorage(dbClient.DB, slogger)

	// 4. S3 / MinIO адаптер для картинок рецептов
	fileStorage, err := minio.NewMinioClient(ctx, cfg, slogger)
	if err != nil {
		_ = dbClient.Close()
		return nil, err
	}

	// 5. RabbitMQ: публикация и потребление задач на удаление картинок
	rabbitMQClient, err := rabbitmq.NewClient(cfg, slogger)
	if err != nil {
		_ = dbClient.Close()
		return nil, err
	}

	// 6. Инициализация бизнес-логики (usecases)
	projector := usecase.NewProjector(recipeStorage, userStorage, subscriptionStorage, favoriteStorage, cartStorage)
	useCases := handler.UseCases{
		Recipes:      usecase.NewRecipeUseCase(recipeStorage, fileStorage, rabbitMQClient, projector, slogger),
		Favorites:    usecase.NewMembershipUseCase(favoriteStorage, recipeStorage, slogger),
		ShoppingCart: usecase.NewMembershipUseCase(cartStorage, recipeStorage, slogger),
		ShoppingList: usecase.NewShoppingListUseCase(shoppingListStorage, slogger),
		Catalog:      usecase.NewCatalogUseCase(catalogStorage),
		Users:        usecase.NewUserUseCase(userStorage, subscriptionStorage, projector, slogger),
	}
	imageCleanup := usecase.NewImageCleanupUseCase(fileStorage, slogger)

	// 7. Сборка итогового приложения
	application := app.NewApp(
		cfg,
		slogger,
		dbClient,
		handler.NewHandler(useCases, cfg.PageSize, slogger),
		auth.NewTokenVerifier(cfg.JWTSecret),
		imageCleanup,
		rabbitMQClient,
		rabbitMQClient,
	)

	slogger.Info("all dependencies initialized")
	return application, nil
}

