package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	chi "github.com/go-chi/chi/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"tg-astro-bot/internal/adapters/bot"
	"tg-astro-bot/internal/adapters/heavens"
	"tg-astro-bot/internal/adapters/repo"
	"tg-astro-bot/internal/domain"
	"tg-astro-bot/internal/ephem"
	"tg-astro-bot/internal/infra/cache"
	"tg-astro-bot/internal/infra/config"
	"tg-astro-bot/internal/infra/db"
	"tg-astro-bot/internal/infra/log"
	"tg-astro-bot/internal/infra/metrics"
	"tg-astro-bot/internal/usecase/accounts"
	"tg-astro-bot/internal/usecase/locations"
	"tg-astro-bot/internal/usecase/observer"
)

func main() {
	cfg := config.Load()
	logger := log.NewLogger(cfg.AppEnv)

	tz, err := time.LoadLocation(cfg.TZ)
	if err != nil {
		logger.Fatal().Err(err).Str("tz", cfg.TZ).Msg("неизвестный часовой пояс")
	}

	pool, err := db.Connect(cfg.PGDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("не удалось подключиться к БД")
	}
	defer pool.Close()

	repoAdapter := repo.NewPostgres(pool)
	if err := repoAdapter.EnsureSchema(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("не удалось инициализировать схему БД")
	}

	metrics.MustRegister(prometheus.DefaultRegisterer)

	var satOpts []heavens.Option
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ttl := time.Duration(cfg.Satellites.CacheTTL) * time.Second
		satOpts = append(satOpts, heavens.WithCache(cache.NewRedis(redisClient), ttl))
	}
	satClient, err := heavens.New(cfg.Satellites.BaseURL, satOpts...)
	if err != nil {
		logger.Fatal().Err(err).Msg("не удалось создать клиент API спутников")
	}

	defaultObs := domain.Observer{
		Lon:       cfg.DefaultObserver.Lon,
		Lat:       cfg.DefaultObserver.Lat,
		Elevation: cfg.DefaultObserver.Elevation,
	}

	engine := ephem.NewEngine()
	accountService := accounts.NewService(repoAdapter, repoAdapter)
	locationService := locations.NewService(repoAdapter, repoAdapter)
	observerService := observer.NewService(repoAdapter, repoAdapter, defaultObs, tz)

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logger.Fatal().Err(err).Msg("не удалось создать бота")
	}

	h := bot.NewHandler(botAPI, logger, accountService, locationService, observerService, engine, satClient, tz)

	metricsCtx, metricsCancel := context.WithCancel(context.Background())
	defer metricsCancel()
	metrics.StartServer(metricsCtx, logger, ":9090")

	r := chi.NewRouter()
	r.Post("/bot/webhook", func(w http.ResponseWriter, r *http.Request) {
		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.HandleUpdate(r.Context(), update)
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Port), Handler: r}
	go func() {
		logger.Info().Int("port", cfg.Port).Msg("бот-гейтвей запущен")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("HTTP сервер остановлен")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	<-stop
	logger.Info().Msg("остановка бота")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}

var _ domain.UserRepo = (*repo.Postgres)(nil)
var _ domain.LocationRepo = (*repo.Postgres)(nil)
var _ domain.Ephemeris = (*ephem.Engine)(nil)
var _ domain.SatelliteAPI = (*heavens.Client)(nil)
var _ domain.Cache = (*cache.RedisCache)(nil)
