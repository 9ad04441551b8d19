package heavens

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"tg-astro-bot/internal/domain"
	"tg-astro-bot/internal/infra/metrics"
)

// ErrServiceUnavailable возвращается для любого сбоя внешнего API:
// сеть, не-2xx статус или нечитаемый ответ.
var ErrServiceUnavailable = errors.New("сервис спутниковых данных недоступен")

// Client ходит в api.uhaapi.com за данными о спутниках.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	cache      domain.Cache
	cacheTTL   time.Duration
}

var _ domain.SatelliteAPI = (*Client)(nil)

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithCache включает кэширование сырых XML ответов.
func WithCache(cache domain.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// New создаёт клиент API спутников.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Scheme == "" {
		parsed.Scheme = "http"
	}
	client := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SatelliteInfo возвращает сведения о спутнике по его каталожному номеру.
func (c *Client) SatelliteInfo(ctx context.Context, satID int64) (domain.SatelliteInfo, error) {
	endpoint := fmt.Sprintf("/satellites/%d", satID)
	body, err := c.fetch(ctx, "satellite_info", endpoint, nil)
	if err != nil {
		return domain.SatelliteInfo{}, err
	}

	var parsed satelliteXML
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return domain.SatelliteInfo{}, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	info := domain.SatelliteInfo{ID: parsed.ID, Name: parsed.Name}
	if info.ID == 0 {
		info.ID = satID
	}
	return info, nil
}

// Passes возвращает видимые пролёты спутника для точки наблюдения.
func (c *Client) Passes(ctx context.Context, satID int64, lon, lat float64) ([]domain.SatellitePass, error) {
	endpoint := fmt.Sprintf("/satellites/%d/passes", satID)
	body, err := c.fetch(ctx, "satellite_passes", endpoint, coordQuery(lon, lat))
	if err != nil {
		return nil, err
	}

	var parsed passesXML
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	passes := make([]domain.SatellitePass, 0, len(parsed.Passes))
	for _, p := range parsed.Passes {
		pass, err := p.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
		}
		passes = append(passes, pass)
	}
	return passes, nil
}

// Flares возвращает предстоящие вспышки Иридиумов для точки наблюдения.
func (c *Client) Flares(ctx context.Context, lon, lat float64) ([]domain.IridiumFlare, error) {
	body, err := c.fetch(ctx, "iridium_flares", "/satellites/iridium/flares", coordQuery(lon, lat))
	if err != nil {
		return nil, err
	}

	var parsed flaresXML
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	flares := make([]domain.IridiumFlare, 0, len(parsed.Flares))
	for _, f := range parsed.Flares {
		flare, err := f.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
		}
		flares = append(flares, flare)
	}
	return flares, nil
}

// coordQuery форматирует координаты с тремя знаками, этого достаточно
// для точности прогноза и стабильных ключей кэша.
func coordQuery(lon, lat float64) url.Values {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.3f", lat))
	q.Set("lng", fmt.Sprintf("%.3f", lon))
	return q
}

func (c *Client) fetch(ctx context.Context, operation, endpoint string, query url.Values) ([]byte, error) {
	resolved := *c.baseURL
	resolved.Path = endpoint
	if query != nil {
		resolved.RawQuery = query.Encode()
	}
	target := resolved.String()

	if c.cache != nil {
		if data, err := c.cache.Get(target); err == nil && len(data) > 0 {
			return data, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	req.Header.Set("Accept", "application/xml")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ObserveNetworkRequest("uhaapi", operation, endpoint, start, err)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: статус %d", ErrServiceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	if c.cache != nil {
		_ = c.cache.Set(target, body, c.cacheTTL)
	}
	return body, nil
}
