package ephem

import (
	"math"
	"time"
)

// moonEquatorial — координаты Луны с геоцентрическим расстоянием.
type moonEquatorial struct {
	ra       float64 // градусы, 0..360
	dec      float64 // градусы
	distance float64 // км
}

// moonPosition возвращает приближённые геоцентрические координаты Луны.
// Усечённый ряд Меюса по главным периодическим членам:
//
//	L' — средняя долгота Луны
//	M  — средняя аномалия Солнца
//	Mm — средняя аномалия Луны
//	D  — средняя элонгация Луны от Солнца
//	F  — аргумент широты
func moonPosition(t time.Time) moonEquatorial {
	d := daysSinceJ2000(t)

	lp := deg2rad(normalize360(218.3164477 + 13.17639648*d))
	m := deg2rad(normalize360(357.5291092 + 0.98560028*d))
	mm := deg2rad(normalize360(134.9633964 + 13.06499295*d))
	dd := deg2rad(normalize360(297.8501921 + 12.19074912*d))
	f := deg2rad(normalize360(93.2720950 + 13.22935024*d))

	lon := lp +
		deg2rad(6.289)*math.Sin(mm) +
		deg2rad(1.274)*math.Sin(2*dd-mm) +
		deg2rad(0.658)*math.Sin(2*dd) +
		deg2rad(0.214)*math.Sin(2*mm) -
		deg2rad(0.186)*math.Sin(m) -
		deg2rad(0.114)*math.Sin(2*f)

	lat := deg2rad(5.128)*math.Sin(f) +
		deg2rad(0.280)*math.Sin(mm+f) +
		deg2rad(0.277)*math.Sin(mm-f) +
		deg2rad(0.173)*math.Sin(2*dd-f)

	// Расстояние в км по главным членам ряда.
	dist := 385001.0 -
		20905.0*math.Cos(mm) -
		3699.0*math.Cos(2*dd-mm) -
		2956.0*math.Cos(2*dd)

	eps := deg2rad(23.439291 - 0.0000137*d)

	x := math.Cos(lat) * math.Cos(lon)
	y := math.Cos(lat) * math.Sin(lon)
	z := math.Sin(lat)

	yEq := y*math.Cos(eps) - z*math.Sin(eps)
	zEq := y*math.Sin(eps) + z*math.Cos(eps)

	ra := math.Atan2(yEq, x)
	if ra < 0 {
		ra += 2 * math.Pi
	}
	return moonEquatorial{
		ra:       rad2deg(ra),
		dec:      rad2deg(math.Asin(zEq)),
		distance: dist,
	}
}

// horizontalParallax возвращает горизонтальный параллакс в радианах
// для геоцентрического расстояния в км.
func horizontalParallax(distanceKm float64) float64 {
	const earthRadiusKm = 6378.14
	if distanceKm <= earthRadiusKm {
		return 0
	}
	return math.Asin(earthRadiusKm / distanceKm)
}

// moonAltitude возвращает топоцентрическую высоту Луны в градусах.
// Параллакс Луны велик, поэтому геоцентрической высоты недостаточно:
// координаты корректируются на положение наблюдателя.
func moonAltitude(lat, lon float64, t time.Time) float64 {
	eq := moonPosition(t)

	raRad := deg2rad(eq.ra)
	decRad := deg2rad(eq.dec)
	latRad := deg2rad(lat)

	h := hourAngle(localSiderealRad(lon, t), raRad)
	pi := horizontalParallax(eq.distance)

	// Приближённые множители Меюса для наблюдателя на уровне моря.
	rhoSin := 0.99883 * math.Sin(latRad)
	rhoCos := 0.99883 * math.Cos(latRad)

	sinPi := math.Sin(pi)
	cosDec := math.Cos(decRad)
	cosH := math.Cos(h)

	deltaRA := math.Atan2(
		-rhoCos*sinPi*math.Sin(h),
		cosDec-rhoCos*sinPi*cosH,
	)
	decTopo := math.Atan2(
		math.Sin(decRad)-rhoSin*sinPi,
		cosDec-rhoCos*sinPi*cosH,
	)

	ht := hourAngle(localSiderealRad(lon, t), raRad+deltaRA)

	sinAlt := math.Sin(latRad)*math.Sin(decTopo) +
		math.Cos(latRad)*math.Cos(decTopo)*math.Cos(ht)
	return rad2deg(math.Asin(sinAlt))
}
