package ephem

import (
	"math"
	"time"
)

// Эпоха J2000.0: 2000-01-01 12:00:00 UTC.
var j2000 = time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)

// daysSinceJ2000 возвращает число суток UTC от эпохи J2000.0.
// Приближение достаточно для моделей средней точности.
func daysSinceJ2000(t time.Time) float64 {
	return t.UTC().Sub(j2000).Hours() / 24.0
}

func deg2rad(d float64) float64 {
	return d * math.Pi / 180.0
}

func rad2deg(r float64) float64 {
	return r * 180.0 / math.Pi
}

func normalize360(d float64) float64 {
	d = math.Mod(d, 360.0)
	if d < 0 {
		d += 360.0
	}
	return d
}

// localSiderealRad возвращает местное звёздное время в радианах.
func localSiderealRad(lonDeg float64, t time.Time) float64 {
	d := daysSinceJ2000(t)
	gmst := 280.46061837 + 360.98564736629*d
	return deg2rad(normalize360(gmst + lonDeg))
}

// hourAngle нормализует часовой угол в (-pi, pi].
func hourAngle(lstRad, raRad float64) float64 {
	h := lstRad - raRad
	for h > math.Pi {
		h -= 2 * math.Pi
	}
	for h < -math.Pi {
		h += 2 * math.Pi
	}
	return h
}
