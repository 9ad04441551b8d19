package domain

import (
	"context"
	"errors"
	"time"
)

// MaxUserLocations — предел количества локаций на пользователя.
const MaxUserLocations = 10

var (
	// ErrNotFound возвращается, когда запись отсутствует в хранилище.
	ErrNotFound = errors.New("запись не найдена")
	// ErrLocationLimit возвращается при достижении предела локаций.
	ErrLocationLimit = errors.New("достигнут предел количества локаций")
)

// UserRepo управляет пользователями.
type UserRepo interface {
	CreateUser(tgUserID int64, descr string) (User, error)
	GetByTGID(tgUserID int64) (User, error)
	// DeleteUser удаляет пользователя вместе со всеми его локациями.
	DeleteUser(userID int64) error
	SetDefaultLocation(userID, locationID int64) error
}

// LocationRepo управляет локациями пользователей.
type LocationRepo interface {
	// CreateLocation добавляет локацию. Возвращает ErrLocationLimit,
	// если у пользователя уже MaxUserLocations локаций.
	CreateLocation(userID int64, name string, lon, lat float64) (Location, error)
	GetLocationByName(userID int64, name string) (Location, error)
	GetLocationByID(locationID int64) (Location, error)
	DeleteLocation(userID int64, name string) error
	ListUserLocations(userID int64, limit int) ([]Location, error)
}

// Ephemeris — внешняя способность расчёта эфемерид: ближайшие
// восход/заход тела для наблюдателя и момента.
type Ephemeris interface {
	NextRiseSet(obs Observer, body Body, horizonDeg float64, at time.Time) (RiseSetResult, error)
	MoonPhase(at time.Time) (MoonPhase, error)
}

// SatelliteAPI — внешний сервис данных о спутниковых пролётах и вспышках.
type SatelliteAPI interface {
	SatelliteInfo(ctx context.Context, satID int64) (SatelliteInfo, error)
	Passes(ctx context.Context, satID int64, lon, lat float64) ([]SatellitePass, error)
	Flares(ctx context.Context, lon, lat float64) ([]IridiumFlare, error)
}

// Cache используется для простых TTL-хранилищ.
type Cache interface {
	Set(key string, value []byte, ttl time.Duration) error
	Get(key string) ([]byte, error)
}
