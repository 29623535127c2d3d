package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"go.uber.org/zap"
)

type UserService struct {
	userRepo UserStore
	logger   *zap.Logger
}

func NewUserService(userRepo UserStore, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// RegisterUser регистрирует или обновляет пользователя. Роль существующего пользователя не меняется.
func (s *UserService) RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName, languageCode string) (*model.User, error) {
	existingUser, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	if existingUser != nil {
		existingUser.Username = username
		existingUser.FirstName = firstName
		existingUser.LastName = lastName
		existingUser.LanguageCode = languageCode

		err = s.userRepo.Update(ctx, existingUser)
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}

		s.logger.Info("User updated",
			zap.Int64("telegram_id", telegramID),
			zap.String("username", username),
		)

		return existingUser, nil
	}

	user := &model.User{
		TelegramID:   telegramID,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		LanguageCode: languageCode,
		Role:         model.RoleStudent, // По умолчанию студент
	}

	err = s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("New user registered",
		zap.Int64("user_id", user.ID),
		zap.Int64("telegram_id", telegramID),
		zap.String("username", username),
	)

	return user, nil
}

// GetByTelegramID получает пользователя по Telegram ID
func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	return s.userRepo.GetByTelegramID(ctx, telegramID)
}

// GetByID получает пользователя по ID
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// SetRole переключает пользователя между студентом и преподавателем.
// Роль администратора выдаётся только через базу.
func (s *UserService) SetRole(ctx context.Context, telegramID int64, role model.Role) (*model.User, error) {
	if role != model.RoleStudent && role != model.RoleProfessor {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	user, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if user == nil {
		return nil, ErrUserNotFound
	}

	if user.IsAdmin() {
		return nil, fmt.Errorf("%w: admin role is managed manually", ErrForbidden)
	}

	user.Role = role
	err = s.userRepo.Update(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.Info("User role changed",
		zap.Int64("user_id", user.ID),
		zap.String("role", string(role)),
	)

	return user, nil
}

// Admins получает администраторов для уведомлений о новых заявках
func (s *UserService) Admins(ctx context.Context) ([]*model.User, error) {
	admins, err := s.userRepo.ListByRole(ctx, model.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return admins, nil
}
