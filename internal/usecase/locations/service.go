package locations

import (
	"errors"
	"fmt"

	"tg-astro-bot/internal/domain"
)

var (
	// ErrNotRegistered возвращается для незарегистрированного пользователя.
	ErrNotRegistered = errors.New("пользователь не зарегистрирован")
	// ErrLocationExists возвращается при попытке добавить локацию с уже занятым именем.
	ErrLocationExists = errors.New("локация с таким именем уже существует")
	// ErrLocationNotFound возвращается, когда у пользователя нет локации с таким именем.
	ErrLocationNotFound = errors.New("локация не найдена")
)

// Service управляет именованными локациями пользователя.
type Service struct {
	users     domain.UserRepo
	locations domain.LocationRepo
}

// NewService создаёт сервис локаций.
func NewService(users domain.UserRepo, locations domain.LocationRepo) *Service {
	return &Service{users: users, locations: locations}
}

// Add добавляет именованную локацию. Первая локация автоматически
// становится локацией по умолчанию.
func (s *Service) Add(tgUserID int64, name string, lon, lat float64) (domain.Location, error) {
	user, err := s.requireUser(tgUserID)
	if err != nil {
		return domain.Location{}, err
	}
	if _, err := s.locations.GetLocationByName(user.ID, name); err == nil {
		return domain.Location{}, ErrLocationExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.Location{}, fmt.Errorf("проверка имени локации: %w", err)
	}
	loc, err := s.locations.CreateLocation(user.ID, name, lon, lat)
	if err != nil {
		return domain.Location{}, fmt.Errorf("создание локации: %w", err)
	}
	if user.DefaultLocationID == nil {
		if err := s.users.SetDefaultLocation(user.ID, loc.ID); err != nil {
			return domain.Location{}, fmt.Errorf("назначение локации по умолчанию: %w", err)
		}
	}
	return loc, nil
}

// Remove удаляет локацию по имени.
func (s *Service) Remove(tgUserID int64, name string) error {
	user, err := s.requireUser(tgUserID)
	if err != nil {
		return err
	}
	if err := s.locations.DeleteLocation(user.ID, name); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrLocationNotFound
		}
		return fmt.Errorf("удаление локации: %w", err)
	}
	return nil
}

// SetDefault назначает локацию по умолчанию по имени.
func (s *Service) SetDefault(tgUserID int64, name string) (domain.Location, error) {
	user, err := s.requireUser(tgUserID)
	if err != nil {
		return domain.Location{}, err
	}
	loc, err := s.locations.GetLocationByName(user.ID, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Location{}, ErrLocationNotFound
		}
		return domain.Location{}, fmt.Errorf("поиск локации: %w", err)
	}
	if err := s.users.SetDefaultLocation(user.ID, loc.ID); err != nil {
		return domain.Location{}, fmt.Errorf("назначение локации по умолчанию: %w", err)
	}
	return loc, nil
}

// List возвращает локации пользователя.
func (s *Service) List(tgUserID int64) ([]domain.Location, error) {
	user, err := s.requireUser(tgUserID)
	if err != nil {
		return nil, err
	}
	locs, err := s.locations.ListUserLocations(user.ID, domain.MaxUserLocations)
	if err != nil {
		return nil, fmt.Errorf("список локаций: %w", err)
	}
	return locs, nil
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
