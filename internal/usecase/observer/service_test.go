package observer

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"testing"
	"time"

	"tg-astro-bot/internal/domain"
)

type stubRepo struct {
	user      domain.User
	userErr   error
	locations []domain.Location
}

func (s *stubRepo) CreateUser(int64, string) (domain.User, error) { return s.user, nil }
func (s *stubRepo) GetByTGID(int64) (domain.User, error) {
	if s.userErr != nil {
		return domain.User{}, s.userErr
	}
	return s.user, nil
}
func (s *stubRepo) DeleteUser(int64) error                { return nil }
func (s *stubRepo) SetDefaultLocation(int64, int64) error { return nil }

func (s *stubRepo) CreateLocation(int64, string, float64, float64) (domain.Location, error) {
	return domain.Location{}, nil
}
func (s *stubRepo) GetLocationByName(_ int64, name string) (domain.Location, error) {
	for _, loc := range s.locations {
		if loc.Name == name {
			return loc, nil
		}
	}
	return domain.Location{}, domain.ErrNotFound
}
func (s *stubRepo) GetLocationByID(id int64) (domain.Location, error) {
	for _, loc := range s.locations {
		if loc.ID == id {
			return loc, nil
		}
	}
	return domain.Location{}, domain.ErrNotFound
}
func (s *stubRepo) DeleteLocation(int64, string) error { return nil }
func (s *stubRepo) ListUserLocations(_ int64, limit int) ([]domain.Location, error) {
	if limit > 0 && len(s.locations) > limit {
		return s.locations[:limit], nil
	}
	return s.locations, nil
}

var systemDefault = domain.Observer{Lon: 15.05728, Lat: 50.76111, Elevation: 400}

func newService(repo *stubRepo) *Service {
	return NewService(repo, repo, systemDefault, time.UTC)
}

func TestResolveExplicitCoords(t *testing.T) {
	s := newService(&stubRepo{userErr: domain.ErrNotFound})
	parsed := domain.ParsedArgs{Location: domain.LocationRef{
		Kind: domain.LocationRefCoords, Lon: 14.5, Lat: 50.2,
	}}

	obs, err := s.Resolve(42, parsed, time.Date(2024, time.March, 15, 20, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if obs.Lon != 14.5 || obs.Lat != 50.2 {
		t.Fatalf("ожидали явные координаты, получили %+v", obs)
	}
	if obs.Elevation != 0 {
		t.Fatalf("высота явных координат должна быть нулевой")
	}
}

func TestResolveNamedLocation(t *testing.T) {
	repo := &stubRepo{
		user:      domain.User{ID: 1, TGUserID: 42},
		locations: []domain.Location{{ID: 7, UserID: 1, Name: "praha", Lon: 14.42, Lat: 50.08}},
	}
	s := newService(repo)
	parsed := domain.ParsedArgs{Location: domain.LocationRef{Kind: domain.LocationRefNamed, Name: "praha"}}

	obs, err := s.Resolve(42, parsed, time.Now())
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if obs.Lon != 14.42 || obs.Lat != 50.08 {
		t.Fatalf("ожидали координаты локации, получили %+v", obs)
	}
}

func TestResolveUnknownNamedLocation(t *testing.T) {
	repo := &stubRepo{user: domain.User{ID: 1, TGUserID: 42}}
	s := newService(repo)
	parsed := domain.ParsedArgs{Location: domain.LocationRef{Kind: domain.LocationRefNamed, Name: "atlantida"}}

	if _, err := s.Resolve(42, parsed, time.Now()); !errors.Is(err, ErrUnknownLocation) {
		t.Fatalf("ожидали ErrUnknownLocation, получили %v", err)
	}
}

func TestResolveFallbackChain(t *testing.T) {
	defaultID := int64(2)
	repo := &stubRepo{
		user: domain.User{ID: 1, TGUserID: 42, DefaultLocationID: &defaultID},
		locations: []domain.Location{
			{ID: 1, UserID: 1, Name: "brno", Lon: 16.61, Lat: 49.20},
			{ID: 2, UserID: 1, Name: "praha", Lon: 14.42, Lat: 50.08},
		},
	}
	s := newService(repo)

	obs, err := s.Resolve(42, domain.ParsedArgs{}, time.Now())
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if obs.Lon != 14.42 {
		t.Fatalf("ожидали локацию по умолчанию, получили %+v", obs)
	}

	// Без локации по умолчанию — первая попавшаяся.
	repo.user.DefaultLocationID = nil
	obs, err = s.Resolve(42, domain.ParsedArgs{}, time.Now())
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if obs.Lon != 16.61 {
		t.Fatalf("ожидали первую локацию, получили %+v", obs)
	}

	// Без локаций вовсе — системная позиция с её высотой.
	repo.locations = nil
	obs, err = s.Resolve(42, domain.ParsedArgs{}, time.Now())
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if obs.Lon != systemDefault.Lon || obs.Elevation != 400 {
		t.Fatalf("ожидали системную позицию, получили %+v", obs)
	}
}

func TestResolveUnregisteredUsesDefault(t *testing.T) {
	s := newService(&stubRepo{userErr: domain.ErrNotFound})

	obs, err := s.Resolve(42, domain.ParsedArgs{}, time.Now())
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if obs.Lon != systemDefault.Lon {
		t.Fatalf("ожидали системную позицию, получили %+v", obs)
	}
}

func TestResolveDateOverride(t *testing.T) {
	s := newService(&stubRepo{userErr: domain.ErrNotFound})
	date := time.Date(2024, time.August, 12, 0, 0, 0, 0, time.UTC)
	parsed := domain.ParsedArgs{Date: &date}

	obs, err := s.Resolve(42, parsed, time.Date(2024, time.March, 15, 3, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	want := time.Date(2024, time.August, 12, 12, 0, 0, 0, time.UTC)
	if !obs.At.Equal(want) {
		t.Fatalf("ожидали полдень указанной даты %v, получили %v", want, obs.At)
	}
}

func TestResolveCoordsRoundTrip(t *testing.T) {
	// Координаты, отформатированные с тремя знаками, после повторного
	// разбора дают ту же позицию с точностью 0.001 градуса.
	s := newService(&stubRepo{userErr: domain.ErrNotFound})
	parsed := domain.ParsedArgs{Location: domain.LocationRef{
		Kind: domain.LocationRefCoords, Lon: 15.05728, Lat: 50.76111,
	}}

	obs, err := s.Resolve(42, parsed, time.Now())
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	lon, err := strconv.ParseFloat(fmt.Sprintf("%.3f", obs.Lon), 64)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	lat, err := strconv.ParseFloat(fmt.Sprintf("%.3f", obs.Lat), 64)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if math.Abs(lon-obs.Lon) > 0.001 || math.Abs(lat-obs.Lat) > 0.001 {
		t.Fatalf("координаты не сошлись: %v %v против %+v", lon, lat, obs)
	}
}
