package heavens

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const passesBody = `<?xml version="1.0" encoding="UTF-8"?>
<passes>
  <from>2026-04-01T00:00:00Z</from>
  <to>2026-04-11T00:00:00Z</to>
  <pass>
    <magnitude>-2.5</magnitude>
    <start><time>2026-04-02T19:41:00Z</time><alt>10</alt><az>WSW</az></start>
    <max><time>2026-04-02T19:44:10Z</time><alt>54</alt><az>SSE</az></max>
    <end><time>2026-04-02T19:47:20Z</time><alt>10</alt><az>ENE</az></end>
  </pass>
</passes>`

const flaresBody = `<?xml version="1.0" encoding="UTF-8"?>
<flares>
  <flare>
    <magnitude>-6.0</magnitude>
    <time>2026-04-03T20:15:30Z</time>
    <alt>41</alt>
    <az>173</az>
  </flare>
</flares>`

const satelliteBody = `<?xml version="1.0" encoding="UTF-8"?>
<satellite>
  <id>25544</id>
  <name>ISS (ZARYA)</name>
</satellite>`

type memCache struct {
	data map[string][]byte
	sets int
	gets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Set(key string, value []byte, ttl time.Duration) error {
	c.sets++
	c.data[key] = value
	return nil
}

func (c *memCache) Get(key string) ([]byte, error) {
	c.gets++
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, errors.New("cache miss")
}

func TestSatelliteInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/satellites/25544" {
			t.Errorf("неожиданный путь %s", r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "application/xml" {
			t.Errorf("ожидали Accept application/xml, получили %q", got)
		}
		w.Write([]byte(satelliteBody))
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	info, err := client.SatelliteInfo(context.Background(), 25544)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if info.ID != 25544 || info.Name != "ISS (ZARYA)" {
		t.Fatalf("неожиданный результат: %+v", info)
	}
}

func TestPasses_ParsesAndQueriesCoords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/satellites/25544/passes" {
			t.Errorf("неожиданный путь %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("lat"); got != "50.761" {
			t.Errorf("ожидали lat=50.761, получили %q", got)
		}
		if got := r.URL.Query().Get("lng"); got != "15.057" {
			t.Errorf("ожидали lng=15.057, получили %q", got)
		}
		w.Write([]byte(passesBody))
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	passes, err := client.Passes(context.Background(), 25544, 15.05728, 50.76111)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(passes) != 1 {
		t.Fatalf("ожидали 1 пролёт, получили %d", len(passes))
	}
	p := passes[0]
	if p.Magnitude != -2.5 {
		t.Fatalf("ожидали величину -2.5, получили %v", p.Magnitude)
	}
	if p.Start == nil || p.Max == nil || p.End == nil {
		t.Fatalf("ожидали все три точки пролёта: %+v", p)
	}
	if p.Start.Alt != "10" || p.Start.Az != "WSW" {
		t.Fatalf("неожиданная точка восхода: %+v", p.Start)
	}
	want := time.Date(2026, 4, 2, 19, 41, 0, 0, time.UTC)
	if !p.Start.Time.Equal(want) {
		t.Fatalf("ожидали время %v, получили %v", want, p.Start.Time)
	}
}

func TestFlares_Parses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/satellites/iridium/flares" {
			t.Errorf("неожиданный путь %s", r.URL.Path)
		}
		w.Write([]byte(flaresBody))
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	flares, err := client.Flares(context.Background(), 15.05728, 50.76111)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(flares) != 1 {
		t.Fatalf("ожидали 1 вспышку, получили %d", len(flares))
	}
	if flares[0].Magnitude != -6.0 || flares[0].Alt != "41" {
		t.Fatalf("неожиданная вспышка: %+v", flares[0])
	}
}

func TestFetch_ServerErrorMapsToServiceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	_, err = client.Flares(context.Background(), 15.0, 50.0)
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("ожидали ErrServiceUnavailable, получили %v", err)
	}
}

func TestFetch_BadXMLMapsToServiceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not xml at all"))
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	_, err = client.SatelliteInfo(context.Background(), 25544)
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("ожидали ErrServiceUnavailable, получили %v", err)
	}
}

func TestFetch_UsesCache(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(flaresBody))
	}))
	defer srv.Close()

	cache := newMemCache()
	client, err := New(srv.URL, WithCache(cache, time.Minute))
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if _, err := client.Flares(context.Background(), 15.0, 50.0); err != nil {
		t.Fatalf("первый запрос не должен падать: %v", err)
	}
	if _, err := client.Flares(context.Background(), 15.0, 50.0); err != nil {
		t.Fatalf("второй запрос не должен падать: %v", err)
	}
	if requests != 1 {
		t.Fatalf("ожидали один запрос к серверу, получили %d", requests)
	}
	if cache.sets != 1 {
		t.Fatalf("ожидали одну запись в кэш, получили %d", cache.sets)
	}
}
