package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tg-astro-bot/internal/domain"
	"tg-astro-bot/internal/infra/metrics"
)

// Postgres реализует репозитории на основе pgxpool.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ domain.UserRepo = (*Postgres)(nil)
var _ domain.LocationRepo = (*Postgres)(nil)

// NewPostgres создаёт адаптер БД.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) connCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// EnsureSchema создаёт таблицы, если их ещё нет.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	tg_user_id BIGINT NOT NULL UNIQUE,
	descr TEXT NOT NULL DEFAULT '',
	default_location_id BIGINT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		`CREATE TABLE IF NOT EXISTS locations (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	lon DOUBLE PRECISION NOT NULL,
	lat DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS locations_user_name_idx ON locations (user_id, name)`,
	}

	for _, stmt := range statements {
		start := time.Now()
		_, err := p.pool.Exec(ctx, stmt)
		metrics.ObserveNetworkRequest("postgres", "ensure_schema", "schema", start, err)
		if err != nil {
			return fmt.Errorf("инициализация схемы: %w", err)
		}
	}
	return nil
}

// CreateUser реализует domain.UserRepo.
func (p *Postgres) CreateUser(tgUserID int64, descr string) (domain.User, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	var user domain.User
	start := time.Now()
	err := p.pool.QueryRow(ctx, `
INSERT INTO users (tg_user_id, descr)
VALUES ($1, $2)
RETURNING id, tg_user_id, descr, default_location_id, created_at
`, tgUserID, descr).Scan(&user.ID, &user.TGUserID, &user.Descr, &user.DefaultLocationID, &user.CreatedAt)
	metrics.ObserveNetworkRequest("postgres", "users_create", "users", start, err)
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// GetByTGID реализует domain.UserRepo.
func (p *Postgres) GetByTGID(tgUserID int64) (domain.User, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	var user domain.User
	var defaultLoc sql.NullInt64
	start := time.Now()
	err := p.pool.QueryRow(ctx, `
SELECT id, tg_user_id, descr, default_location_id, created_at
FROM users WHERE tg_user_id=$1
`, tgUserID).Scan(&user.ID, &user.TGUserID, &user.Descr, &defaultLoc, &user.CreatedAt)
	metrics.ObserveNetworkRequest("postgres", "users_get_by_tgid", "users", start, err)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	if defaultLoc.Valid {
		id := defaultLoc.Int64
		user.DefaultLocationID = &id
	}
	return user, nil
}

// DeleteUser удаляет пользователя и каскадом его локации.
func (p *Postgres) DeleteUser(userID int64) error {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	res, err := p.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, userID)
	metrics.ObserveNetworkRequest("postgres", "users_delete", "users", start, err)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetDefaultLocation реализует domain.UserRepo.
func (p *Postgres) SetDefaultLocation(userID, locationID int64) error {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	res, err := p.pool.Exec(ctx, `UPDATE users SET default_location_id=$2 WHERE id=$1`, userID, locationID)
	metrics.ObserveNetworkRequest("postgres", "users_set_default_location", "users", start, err)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreateLocation добавляет локацию с проверкой лимита. Строка пользователя
// блокируется на время транзакции, чтобы конкурентные вставки не превысили лимит.
func (p *Postgres) CreateLocation(userID int64, name string, lon, lat float64) (domain.Location, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Location{}, err
	}
	defer tx.Rollback(ctx)

	start := time.Now()
	var ownerID int64
	err = tx.QueryRow(ctx, `SELECT id FROM users WHERE id=$1 FOR UPDATE`, userID).Scan(&ownerID)
	metrics.ObserveNetworkRequest("postgres", "users_lock", "users", start, err)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Location{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Location{}, err
	}

	start = time.Now()
	var count int
	err = tx.QueryRow(ctx, `SELECT count(*) FROM locations WHERE user_id=$1`, userID).Scan(&count)
	metrics.ObserveNetworkRequest("postgres", "locations_count", "locations", start, err)
	if err != nil {
		return domain.Location{}, err
	}
	if count >= domain.MaxUserLocations {
		return domain.Location{}, domain.ErrLocationLimit
	}

	start = time.Now()
	var loc domain.Location
	err = tx.QueryRow(ctx, `
INSERT INTO locations (user_id, name, lon, lat)
VALUES ($1, $2, $3, $4)
RETURNING id, user_id, name, lon, lat, created_at
`, userID, name, lon, lat).Scan(&loc.ID, &loc.UserID, &loc.Name, &loc.Lon, &loc.Lat, &loc.CreatedAt)
	metrics.ObserveNetworkRequest("postgres", "locations_create", "locations", start, err)
	if err != nil {
		return domain.Location{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Location{}, err
	}
	return loc, nil
}

// GetLocationByName реализует domain.LocationRepo.
func (p *Postgres) GetLocationByName(userID int64, name string) (domain.Location, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	var loc domain.Location
	start := time.Now()
	err := p.pool.QueryRow(ctx, `
SELECT id, user_id, name, lon, lat, created_at
FROM locations WHERE user_id=$1 AND name=$2
`, userID, name).Scan(&loc.ID, &loc.UserID, &loc.Name, &loc.Lon, &loc.Lat, &loc.CreatedAt)
	metrics.ObserveNetworkRequest("postgres", "locations_get_by_name", "locations", start, err)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Location{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Location{}, err
	}
	return loc, nil
}

// GetLocationByID реализует domain.LocationRepo.
func (p *Postgres) GetLocationByID(locationID int64) (domain.Location, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	var loc domain.Location
	start := time.Now()
	err := p.pool.QueryRow(ctx, `
SELECT id, user_id, name, lon, lat, created_at
FROM locations WHERE id=$1
`, locationID).Scan(&loc.ID, &loc.UserID, &loc.Name, &loc.Lon, &loc.Lat, &loc.CreatedAt)
	metrics.ObserveNetworkRequest("postgres", "locations_get_by_id", "locations", start, err)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Location{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Location{}, err
	}
	return loc, nil
}

// DeleteLocation удаляет локацию и сбрасывает ссылку по умолчанию,
// если удаляемая локация была локацией по умолчанию.
func (p *Postgres) DeleteLocation(userID int64, name string) error {
	ctx, cancel := p.connCtx()
	defer cancel()

	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	start := time.Now()
	var locID int64
	err = tx.QueryRow(ctx, `
DELETE FROM locations WHERE user_id=$1 AND name=$2 RETURNING id
`, userID, name).Scan(&locID)
	metrics.ObserveNetworkRequest("postgres", "locations_delete", "locations", start, err)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}

	start = time.Now()
	_, err = tx.Exec(ctx, `
UPDATE users SET default_location_id=NULL WHERE id=$1 AND default_location_id=$2
`, userID, locID)
	metrics.ObserveNetworkRequest("postgres", "users_clear_default_location", "users", start, err)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ListUserLocations реализует domain.LocationRepo.
func (p *Postgres) ListUserLocations(userID int64, limit int) ([]domain.Location, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, `
SELECT id, user_id, name, lon, lat, created_at
FROM locations WHERE user_id=$1
ORDER BY created_at, id
LIMIT $2
`, userID, limit)
	metrics.ObserveNetworkRequest("postgres", "locations_list", "locations", start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locs []domain.Location
	for rows.Next() {
		var loc domain.Location
		if err := rows.Scan(&loc.ID, &loc.UserID, &loc.Name, &loc.Lon, &loc.Lat, &loc.CreatedAt); err != nil {
			return nil, err
		}
		locs = append(locs, loc)
	}
	return locs, rows.Err()
}
