package ephem

import (
	"fmt"
	"math"
	"time"

	"tg-astro-bot/internal/domain"
	"tg-astro-bot/internal/infra/metrics"
)

// Горизонт поиска пересечений: двух суток хватает, чтобы у Луны с её
// ~50-минутным суточным сдвигом нашлись и восход, и заход.
const (
	searchWindow = 48 * time.Hour
	searchSteps  = 289 // шаг ~10 минут
	searchTol    = 15 * time.Second
)

// Engine реализует domain.Ephemeris на внутренних моделях Солнца и Луны.
type Engine struct{}

// NewEngine создаёт движок эфемерид.
func NewEngine() *Engine {
	return &Engine{}
}

// NextRiseSet возвращает ближайшие восход и заход тела после at.
// Тело, не пересекающее горизонт в окне поиска, сообщается как
// невосходящее либо незаходящее — это штатный трёхвариантный исход,
// а не ошибка. Единственное пересечение в окне классифицируется по
// недостающему событию: у границы полярного дня тело восходит и
// больше не заходит, у границы полярной ночи наоборот. Высота в
// опорный момент решает только случай вовсе без пересечений.
func (e *Engine) NextRiseSet(obs domain.Observer, body domain.Body, horizonDeg float64, at time.Time) (domain.RiseSetResult, error) {
	start := time.Now()
	defer func() {
		metrics.EphemerisComputeSeconds.Observe(time.Since(start).Seconds())
	}()

	alt, err := altitudeFor(obs, body)
	if err != nil {
		return domain.RiseSetResult{}, err
	}

	end := at.Add(searchWindow)
	rise, riseOK := findCrossing(alt, at, end, horizonDeg, crossingUp, searchSteps, searchTol)
	set, setOK := findCrossing(alt, at, end, horizonDeg, crossingDown, searchSteps, searchTol)

	switch {
	case riseOK && setOK:
		return domain.RiseSetResult{Kind: domain.RiseSetOK, Rise: rise, Set: set}, nil
	case riseOK:
		return domain.RiseSetResult{Kind: domain.RiseSetNeverSets}, nil
	case setOK:
		return domain.RiseSetResult{Kind: domain.RiseSetNeverRises}, nil
	case alt(at) > horizonDeg:
		return domain.RiseSetResult{Kind: domain.RiseSetNeverSets}, nil
	default:
		return domain.RiseSetResult{Kind: domain.RiseSetNeverRises}, nil
	}
}

// MoonPhase возвращает фазу Луны в момент at.
// Освещённая доля k = (1 - cos psi) / 2, где psi — угловое расстояние
// между Солнцем и Луной.
func (e *Engine) MoonPhase(at time.Time) (domain.MoonPhase, error) {
	start := time.Now()
	defer func() {
		metrics.EphemerisComputeSeconds.Observe(time.Since(start).Seconds())
	}()

	utc := at.UTC()
	mEq := moonPosition(utc)
	sEq := sunEquatorial(utc)

	raSun := deg2rad(sEq.ra)
	decSun := deg2rad(sEq.dec)
	raMoon := deg2rad(mEq.ra)
	decMoon := deg2rad(mEq.dec)

	cosPsi := math.Sin(decSun)*math.Sin(decMoon) +
		math.Cos(decSun)*math.Cos(decMoon)*math.Cos(raSun-raMoon)
	cosPsi = math.Max(-1, math.Min(1, cosPsi))

	fraction := 0.5 * (1 - cosPsi)
	waxing := normalize360(mEq.ra-sEq.ra) < 180.0

	return domain.MoonPhase{
		Fraction: fraction,
		Waxing:   waxing,
		Name:     phaseName(fraction, waxing),
	}, nil
}

func altitudeFor(obs domain.Observer, body domain.Body) (altitudeFunc, error) {
	switch body {
	case domain.BodySun:
		return func(t time.Time) float64 {
			return sunAltitude(obs.Lat, obs.Lon, t)
		}, nil
	case domain.BodyMoon:
		return func(t time.Time) float64 {
			return moonAltitude(obs.Lat, obs.Lon, t)
		}, nil
	}
	if p, ok := planetFor(body); ok {
		return func(t time.Time) float64 {
			return planetAltitude(p, obs.Lat, obs.Lon, t)
		}, nil
	}
	return nil, fmt.Errorf("неизвестное тело %v", body)
}

func planetFor(body domain.Body) (planet, bool) {
	switch body {
	case domain.BodyMercury:
		return mercury, true
	case domain.BodyVenus:
		return venus, true
	case domain.BodyMars:
		return mars, true
	case domain.BodyJupiter:
		return jupiter, true
	case domain.BodySaturn:
		return saturn, true
	default:
		return planet{}, false
	}
}

func phaseName(fraction float64, waxing bool) string {
	switch {
	case fraction < 0.03:
		return "новолуние"
	case fraction > 0.97:
		return "полнолуние"
	case fraction > 0.47 && fraction < 0.53:
		if waxing {
			return "первая четверть"
		}
		return "последняя четверть"
	case fraction < 0.5:
		if waxing {
			return "растущий серп"
		}
		return "убывающий серп"
	default:
		if waxing {
			return "растущая луна"
		}
		return "убывающая луна"
	}
}

// ObservingNoon возвращает опорный момент наблюдательных суток:
// полдень местного времени. До 06:00 наблюдательные сутки — ещё
// предыдущая календарная дата, так расчёт привязывается к только что
// прошедшей или предстоящей ночи, а не к формальной полуночи.
func ObservingNoon(now time.Time, tz *time.Location) time.Time {
	local := now.In(tz)
	if local.Hour() < 6 {
		local = local.AddDate(0, 0, -1)
	}
	return time.Date(local.Year(), local.Month(), local.Day(), 12, 0, 0, 0, tz)
}

// NoonOf возвращает полдень местного времени заданной календарной даты.
func NoonOf(date time.Time, tz *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, tz)
}
