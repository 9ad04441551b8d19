package ephem

import (
	"math"
	"time"
)

// equatorial — экваториальные координаты тела в градусах.
type equatorial struct {
	ra  float64 // прямое восхождение, 0..360
	dec float64 // склонение
}

// sunEquatorial возвращает приближённые геоцентрические координаты
// Солнца. Упрощённая модель NOAA/Меюса, точность порядка угловой
// минуты:
//
//	g   — средняя аномалия Солнца
//	q   — средняя долгота Солнца
//	L   — эклиптическая долгота с уравнением центра
//	eps — наклон эклиптики
func sunEquatorial(t time.Time) equatorial {
	d := daysSinceJ2000(t)

	g := deg2rad(357.529 + 0.98560028*d)
	q := deg2rad(280.459 + 0.98564736*d)

	L := q +
		deg2rad(1.915)*math.Sin(g) +
		deg2rad(0.020)*math.Sin(2*g)

	eps := deg2rad(23.439 - 0.00000036*d)

	x := math.Cos(L)
	y := math.Cos(eps) * math.Sin(L)
	z := math.Sin(eps) * math.Sin(L)

	ra := math.Atan2(y, x)
	if ra < 0 {
		ra += 2 * math.Pi
	}
	return equatorial{ra: rad2deg(ra), dec: rad2deg(math.Asin(z))}
}

// sunAltitude возвращает геометрическую высоту Солнца в градусах
// для наблюдателя на широте lat и долготе lon.
func sunAltitude(lat, lon float64, t time.Time) float64 {
	eq := sunEquatorial(t)

	latRad := deg2rad(lat)
	decRad := deg2rad(eq.dec)
	h := hourAngle(localSiderealRad(lon, t), deg2rad(eq.ra))

	sinAlt := math.Sin(latRad)*math.Sin(decRad) +
		math.Cos(latRad)*math.Cos(decRad)*math.Cos(h)
	return rad2deg(math.Asin(sinAlt))
}
