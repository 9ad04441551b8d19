package accounts

import (
	"errors"
	"fmt"

	"tg-astro-bot/internal/domain"
)

var (
	// ErrAlreadyRegistered возвращается при повторной регистрации.
	ErrAlreadyRegistered = errors.New("пользователь уже зарегистрирован")
	// ErrNotRegistered возвращается для незарегистрированного пользователя.
	ErrNotRegistered = errors.New("пользователь не зарегистрирован")
)

// Service управляет регистрацией пользователей.
type Service struct {
	users     domain.UserRepo
	locations domain.LocationRepo
}

// NewService создаёт сервис аккаунтов.
func NewService(users domain.UserRepo, locations domain.LocationRepo) *Service {
	return &Service{users: users, locations: locations}
}

// Register регистрирует пользователя Telegram.
func (s *Service) Register(tgUserID int64) (domain.User, error) {
	_, err := s.users.GetByTGID(tgUserID)
	if err == nil {
		return domain.User{}, ErrAlreadyRegistered
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, fmt.Errorf("проверка пользователя: %w", err)
	}
	user, err := s.users.CreateUser(tgUserID, "")
	if err != nil {
		return domain.User{}, fmt.Errorf("создание пользователя: %w", err)
	}
	return user, nil
}

// Unregister удаляет пользователя вместе с его локациями.
func (s *Service) Unregister(tgUserID int64) error {
	user, err := s.requireUser(tgUserID)
	if err != nil {
		return err
	}
	if err := s.users.DeleteUser(user.ID); err != nil {
		return fmt.Errorf("удаление пользователя: %w", err)
	}
	return nil
}

// Profile возвращает профиль пользователя и его локацию по умолчанию,
// если та задана.
func (s *Service) Profile(tgUserID int64) (domain.User, *domain.Location, error) {
	user, err := s.requireUser(tgUserID)
	if err != nil {
		return domain.User{}, nil, err
	}
	if user.DefaultLocationID == nil {
		return user, nil, nil
	}
	loc, err := s.locations.GetLocationByID(*user.DefaultLocationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return user, nil, nil
		}
		return domain.User{}, nil, fmt.Errorf("локация по умолчанию: %w", err)
	}
	return user, &loc, nil
}

func (s *Service) requireUser(tgUserID int64) (domain.User, error) {
	user, err := s.users.GetByTGID(tgUserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, ErrNotRegistered
		}
		return domain.User{}, fmt.Errorf("получение пользователя: %w", err)
	}
	return user, nil
}
