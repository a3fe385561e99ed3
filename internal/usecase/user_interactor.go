package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/Foodgram/internal/auth"
	"github.com/GoArmGo/Foodgram/internal/core/ports"
	"github.com/GoArmGo/Foodgram/internal/domain"
	"github.com/GoArmGo/Foodgram/internal/metrics"
	"github.com/GoArmGo/Foodgram/internal/validation"
)

const subscriptionsSet = "subscriptions"

// userUseCase реализует UserUseCase
type userUseCase struct {
	userStorage         ports.UserStorage
	subscriptionStorage ports.SubscriptionStorage
	projector           *Projector
	logger              *slog.Logger
}

// NewUserUseCase создает новый экземпляр UserUseCase
func NewUserUseCase(
	userStorage ports.UserStorage,
	subscriptionStorage ports.SubscriptionStorage,
	projector *Projector,
	logger *slog.Logger,
) UserUseCase {
	return &userUseCase{
		userStorage:         userStorage,
		subscriptionStorage: subscriptionStorage,
		projector:           projector,
		logger:              logger,
	}
}

// Register создаёт пользователя; пароль хранится только как bcrypt-хеш.
func (uc *userUseCase) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	start := time.Now()

	if err := validation.ValidateStruct(in); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("usecase: %w", err)
	}

	user := &domain.User{
		Email:        strings.TrimSpace(in.Email),
		Username:     in.Username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
	}
	if err := uc.userStorage.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	uc.logger.Info("usecase: пользователь зарегистрирован",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return user, nil
}

func (uc *userUseCase) GetUser(ctx context.Context, viewerID, userID int64) (*UserView, error) {
	user, err := uc.userStorage.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views, err := uc.projector.Users(ctx, []domain.User{*user}, viewerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Me отдаёт профиль самого зрителя.
func (uc *userUseCase) Me(ctx context.Context, viewerID int64) (*UserView, error) {
	if viewerID == 0 {
		return nil, domain.ErrUnauthorized
	}
	return uc.GetUser(ctx, viewerID, viewerID)
}

func (uc *userUseCase) ListUsers(ctx context.Context, viewerID int64, page PageRequest) (Page[UserView], error) {
	users, total, err := uc.userStorage.ListUsers(ctx, page.Limit, page.Offset())
	if err != nil {
		return Page[UserView]{}, fmt.Errorf("usecase: ошибка при получении списка пользователей: %w", err)
	}
	views, err := uc.projector.Users(ctx, users, viewerID)
	if err != nil {
		return Page[UserView]{}, err
	}
	return Page[UserView]{Items: views, Total: total}, nil
}

// SetPassword меняет пароль, если текущий указан верно.
func (uc *userUseCase) SetPassword(ctx context.Context, viewerID int64, in SetPasswordInput) error {
	if viewerID == 0 {
		return domain.ErrUnauthorized
	}
	if err := validation.ValidateStruct(in); err != nil {
		return err
	}

	user, err := uc.userStorage.GetUser(ctx, viewerID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.PasswordHash, in.CurrentPassword) {
		return domain.NewValidationError("current_password", "Incorrect password.")
	}

	hash, err := auth.HashPassword(in.NewPassword)
	if err != nil {
		return fmt.Errorf("usecase: %w", err)
	}
	if err := uc.userStorage.UpdatePasswordHash(ctx, viewerID, hash); err != nil {
		return fmt.Errorf("usecase: ошибка при смене пароля: %w", err)
	}

	uc.logger.Info("usecase: пароль изменён", "user_id", viewerID)
	return nil
}

// Subscribe подписывает зрителя на автора. Порядок проверок:
// аноним, несуществующий автор, подписка на себя, повторная подписка.
func (uc *userUseCase) Subscribe(ctx context.Context, viewerID, authorID int64, recipesLimit int) (_ *SubscriptionView, err error) {
	defer func() { observeSubscription("add", err) }()

	if viewerID == 0 {
		return nil, domain.ErrUnauthorized
	}
	author, err := uc.userStorage.GetUser(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if authorID == viewerID {
		return nil, domain.NewValidationError("author", "You cannot subscribe to yourself.")
	}
	if err := uc.subscriptionStorage.Subscribe(ctx, viewerID, authorID); err != nil {
		return nil, fmt.Errorf("usecase: подписка на автора %d: %w", authorID, err)
	}

	uc.logger.Info("usecase: подписка оформлена", "user_id", viewerID, "author_id", authorID)
	views, err := uc.projector.Subscriptions(ctx, []domain.User{*author}, viewerID, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Unsubscribe отменяет подписку; если её не было, возвращает domain.ErrNotFound.
func (uc *userUseCase) Unsubscribe(ctx context.Context, viewerID, authorID int64) (err error) {
	defer func() { observeSubscription("remove", err) }()

	if viewerID == 0 {
		return domain.ErrUnauthorized
	}
	if _, err := uc.userStorage.GetUser(ctx, authorID); err != nil {
		return err
	}
	if authorID == viewerID {
		return domain.NewValidationError("author", "You cannot unsubscribe from yourself.")
	}
	if err := uc.subscriptionStorage.Unsubscribe(ctx, viewerID, authorID); err != nil {
		return fmt.Errorf("usecase: отписка от автора %d: %w", authorID, err)
	}

	uc.logger.Info("usecase: подписка отменена", "user_id", viewerID, "author_id", authorID)
	return nil
}

// Subscriptions отдаёт авторов, на которых подписан зритель, в порядке подписки.
func (uc *userUseCase) Subscriptions(ctx context.Context, viewerID int64, page PageRequest, recipesLimit int) (Page[SubscriptionView], error) {
	if viewerID == 0 {
		return Page[SubscriptionView]{}, domain.ErrUnauthorized
	}
	authors, total, err := uc.subscriptionStorage.ListFollowed(ctx, viewerID, page.Limit, page.Offset())
	if err != nil {
		return Page[SubscriptionView]{}, fmt.Errorf("usecase: ошибка при получении подписок: %w", err)
	}
	views, err := uc.projector.Subscriptions(ctx, authors, viewerID, recipesLimit)
	if err != nil {
		return Page[SubscriptionView]{}, err
	}
	return Page[SubscriptionView]{Items: views, Total: total}, nil
}

func observeSubscription(operation string, err error) {
	metrics.MembershipChanges.WithLabelValues(subscriptionsSet, operation, metrics.Result(err)).Inc()
}
