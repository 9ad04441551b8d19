package observer

import (
	"errors"
	"fmt"
	"time"

	"tg-astro-bot/internal/domain"
	"tg-astro-bot/internal/ephem"
)

// ErrUnknownLocation возвращается для именованной локации, которой
// нет у пользователя.
var ErrUnknownLocation = errors.New("неизвестная локация")

// Service разрешает позицию наблюдателя для команды.
type Service struct {
	users      domain.UserRepo
	locations  domain.LocationRepo
	defaultObs domain.Observer
	tz         *time.Location
}

// NewService создаёт резолвер. defaultObs — системная позиция по
// умолчанию, единственная с ненулевой высотой: пользовательские локации
// вводятся голыми координатами без данных о высоте.
func NewService(users domain.UserRepo, locations domain.LocationRepo, defaultObs domain.Observer, tz *time.Location) *Service {
	return &Service{users: users, locations: locations, defaultObs: defaultObs, tz: tz}
}

// Resolve строит наблюдателя по переопределениям из аргументов команды.
// Порядок разрешения: явные координаты, именованная локация
// пользователя, локация по умолчанию, первая локация, системная
// позиция. Опорный момент — полдень наблюдательных суток либо полдень
// явно указанной даты.
func (s *Service) Resolve(tgUserID int64, parsed domain.ParsedArgs, now time.Time) (domain.Observer, error) {
	obs, err := s.resolvePosition(tgUserID, parsed.Location)
	if err != nil {
		return domain.Observer{}, err
	}
	if parsed.Date != nil {
		obs.At = ephem.NoonOf(*parsed.Date, s.tz)
	} else {
		obs.At = ephem.ObservingNoon(now, s.tz)
	}
	return obs, nil
}

func (s *Service) resolvePosition(tgUserID int64, ref domain.LocationRef) (domain.Observer, error) {
	if ref.Kind == domain.LocationRefCoords {
		return domain.Observer{Lon: ref.Lon, Lat: ref.Lat, Elevation: 0}, nil
	}

	user, err := s.users.GetByTGID(tgUserID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return domain.Observer{}, fmt.Errorf("получение пользователя: %w", err)
		}
		if ref.Kind == domain.LocationRefNamed {
			return domain.Observer{}, fmt.Errorf("%w: %s", ErrUnknownLocation, ref.Name)
		}
		return s.defaultObs, nil
	}

	if ref.Kind == domain.LocationRefNamed {
		loc, err := s.locations.GetLocationByName(user.ID, ref.Name)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Observer{}, fmt.Errorf("%w: %s", ErrUnknownLocation, ref.Name)
			}
			return domain.Observer{}, fmt.Errorf("поиск локации: %w", err)
		}
		return domain.Observer{Lon: loc.Lon, Lat: loc.Lat, Elevation: 0}, nil
	}

	if user.DefaultLocationID != nil {
		loc, err := s.locations.GetLocationByID(*user.DefaultLocationID)
		if err == nil {
			return domain.Observer{Lon: loc.Lon, Lat: loc.Lat, Elevation: 0}, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return domain.Observer{}, fmt.Errorf("локация по умолчанию: %w", err)
		}
	}

	list, err := s.locations.ListUserLocations(user.ID, 1)
	if err != nil {
		return domain.Observer{}, fmt.Errorf("список локаций: %w", err)
	}
	if len(list) > 0 {
		return domain.Observer{Lon: list[0].Lon, Lat: list[0].Lat, Elevation: 0}, nil
	}
	return s.defaultObs, nil
}
