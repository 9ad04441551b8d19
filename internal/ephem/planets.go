package ephem

import (
	"math"
	"time"
)

// planet — средние кеплеровы элементы орбиты и их суточные изменения.
// Углы в градусах, большая полуось в астрономических единицах, d
// отсчитывается от эпохи 2000-01-00.0. Долгопериодические возмущения
// Юпитера и Сатурна опущены: для времени восхода и захода хватает
// невозмущённой орбиты.
type planet struct {
	n0, nd float64 // долгота восходящего узла
	i0, id float64 // наклонение
	w0, wd float64 // аргумент перигелия
	a      float64 // большая полуось
	e0, ed float64 // эксцентриситет
	m0, md float64 // средняя аномалия
}

var (
	mercury = planet{
		n0: 48.3313, nd: 3.24587e-5,
		i0: 7.0047, id: 5.00e-8,
		w0: 29.1241, wd: 1.01444e-5,
		a:  0.387098,
		e0: 0.205635, ed: 5.59e-10,
		m0: 168.6562, md: 4.0923344368,
	}
	venus = planet{
		n0: 76.6799, nd: 2.46590e-5,
		i0: 3.3946, id: 2.75e-8,
		w0: 54.8910, wd: 1.38374e-5,
		a:  0.723330,
		e0: 0.006773, ed: -1.302e-9,
		m0: 48.0052, md: 1.6021302244,
	}
	mars = planet{
		n0: 49.5574, nd: 2.11081e-5,
		i0: 1.8497, id: -1.78e-8,
		w0: 286.5016, wd: 2.92961e-5,
		a:  1.523688,
		e0: 0.093405, ed: 2.516e-9,
		m0: 18.6021, md: 0.5240207766,
	}
	jupiter = planet{
		n0: 100.4542, nd: 2.76854e-5,
		i0: 1.3030, id: -1.557e-7,
		w0: 273.8777, wd: 1.64505e-5,
		a:  5.20256,
		e0: 0.048498, ed: 4.469e-9,
		m0: 19.8950, md: 0.0830853001,
	}
	saturn = planet{
		n0: 113.6634, nd: 2.38980e-5,
		i0: 2.4886, id: -1.081e-7,
		w0: 339.3939, wd: 2.97661e-5,
		a:  9.55475,
		e0: 0.055546, ed: -9.499e-9,
		m0: 316.9670, md: 0.0334442282,
	}
)

// keplerE решает уравнение Кеплера итерацией Ньютона.
// m — средняя аномалия в радианах, результат в радианах.
func keplerE(m, e float64) float64 {
	ea := m + e*math.Sin(m)*(1+e*math.Cos(m))
	for i := 0; i < 20; i++ {
		delta := (ea - e*math.Sin(ea) - m) / (1 - e*math.Cos(ea))
		ea -= delta
		if math.Abs(delta) < 1e-8 {
			break
		}
	}
	return ea
}

// helio возвращает гелиоцентрические эклиптические координаты планеты
// в астрономических единицах на момент d.
func (p planet) helio(d float64) (x, y, z float64) {
	n := deg2rad(p.n0 + p.nd*d)
	i := deg2rad(p.i0 + p.id*d)
	w := deg2rad(p.w0 + p.wd*d)
	e := p.e0 + p.ed*d
	m := deg2rad(normalize360(p.m0 + p.md*d))

	ea := keplerE(m, e)
	xv := p.a * (math.Cos(ea) - e)
	yv := p.a * math.Sqrt(1-e*e) * math.Sin(ea)
	r := math.Hypot(xv, yv)
	v := math.Atan2(yv, xv)

	x = r * (math.Cos(n)*math.Cos(v+w) - math.Sin(n)*math.Sin(v+w)*math.Cos(i))
	y = r * (math.Sin(n)*math.Cos(v+w) + math.Cos(n)*math.Sin(v+w)*math.Cos(i))
	z = r * math.Sin(v+w) * math.Sin(i)
	return x, y, z
}

// sunEclipticXY возвращает геоцентрические эклиптические координаты
// Солнца, через них гелиоцентрическая позиция планеты переводится в
// геоцентрическую.
func sunEclipticXY(d float64) (x, y float64) {
	w := deg2rad(282.9404 + 4.70935e-5*d)
	e := 0.016709 - 1.151e-9*d
	m := deg2rad(normalize360(356.0470 + 0.9856002585*d))

	ea := keplerE(m, e)
	xv := math.Cos(ea) - e
	yv := math.Sqrt(1-e*e) * math.Sin(ea)
	r := math.Hypot(xv, yv)
	v := math.Atan2(yv, xv)

	lon := v + w
	return r * math.Cos(lon), r * math.Sin(lon)
}

// planetEquatorial возвращает геоцентрические экваториальные
// координаты планеты.
func planetEquatorial(p planet, t time.Time) equatorial {
	// Элементы отнесены к эпохе 2000-01-00.0, на полтора дня раньше
	// J2000.0.
	d := daysSinceJ2000(t) + 1.5

	xh, yh, zh := p.helio(d)
	xs, ys := sunEclipticXY(d)

	xg := xh + xs
	yg := yh + ys
	zg := zh

	ecl := deg2rad(23.4393 - 3.563e-7*d)
	xe := xg
	ye := yg*math.Cos(ecl) - zg*math.Sin(ecl)
	ze := yg*math.Sin(ecl) + zg*math.Cos(ecl)

	ra := math.Atan2(ye, xe)
	if ra < 0 {
		ra += 2 * math.Pi
	}
	dec := math.Atan2(ze, math.Hypot(xe, ye))
	return equatorial{ra: rad2deg(ra), dec: rad2deg(dec)}
}

// planetAltitude возвращает геометрическую высоту планеты в градусах.
// Суточный параллакс планет меньше угловой минуты и не учитывается.
func planetAltitude(p planet, lat, lon float64, t time.Time) float64 {
	eq := planetEquatorial(p, t)

	latRad := deg2rad(lat)
	decRad := deg2rad(eq.dec)
	h := hourAngle(localSiderealRad(lon, t), deg2rad(eq.ra))

	sinAlt := math.Sin(latRad)*math.Sin(decRad) +
		math.Cos(latRad)*math.Cos(decRad)*math.Cos(h)
	return rad2deg(math.Asin(sinAlt))
}
