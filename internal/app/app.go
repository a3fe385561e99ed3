package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/Foodgram/internal/config"
	"github.com/GoArmGo/Foodgram/internal/core/ports"
	"github.com/GoArmGo/Foodgram/internal/handler"
	"github.com/GoArmGo/Foodgram/internal/usecase"
)

// Database то, что App нужно от клиента БД: проверка и закрытие.
type Database interface {
	Ping(ctx context.Context) error
	Close() error
}

type App struct {
	Config       *config.Config
	logger       *slog.Logger
	db           Database
	handler      *handler.Handler
	verifier     handler.TokenVerifier
	imageCleanup usecase.ImageCleanupUseCase
	publisher    ports.ImageCleanupPublisher
	consumer     ports.ImageCleanupConsumer
}

func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	db Database,
	h *handler.Handler,
	verifier handler.TokenVerifier,
	imageCleanup usecase.ImageCleanupUseCase,
	publisher ports.ImageCleanupPublisher,
	consumer ports.ImageCleanupConsumer,
) *App {
	return &App{
		Config:       cfg,
		logger:       logger,
		db:           db,
		handler:      h,
		verifier:     verifier,
		imageCleanup: imageCleanup,
		publisher:    publisher,
		consumer:     consumer,
	}
}

// LoggerIns возвращает основной логгер приложения.
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run запускает приложение в режиме server или worker и блокируется до SIGINT/SIGTERM.
func (a *App) Run(ctx context.Context, mode string) error {
	// канал для graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting", "mode", mode)

	var err error
	switch mode {
	case "server":
		err = runServer(ctx, a.Config, a.handler, a.verifier, a.db, a.logger)
	case "worker":
		err = runWorker(ctx, a.imageCleanup, a.consumer, a.logger)
	default:
		err = fmt.Errorf("неизвестный режим: %s (используйте 'server' или 'worker')", mode)
	}

	// аккуратно закрываем ресурсы
	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown failed", "error", closeErr)
	}
	return err
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	var errs []error

	// publisher и consumer обычно один и тот же клиент RabbitMQ
	closed := map[interface{}]bool{}
	for _, c := range []interface{}{a.publisher, a.consumer} {
		closer, ok := c.(interface{ Close() error })
		if !ok || closed[c] {
			continue
		}
		closed[c] = true
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("ошибка закрытия RabbitMQ: %w", err))
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("ошибка закрытия БД: %w", err))
		}
	}

	return errors.Join(errs...)
}
