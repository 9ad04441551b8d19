package ephem

import "time"

// altitudeFunc возвращает высоту тела в градусах в момент t.
type altitudeFunc func(t time.Time) float64

// crossing различает восходящее и нисходящее пересечение горизонта.
type crossing int

const (
	crossingUp crossing = iota
	crossingDown
)

// findCrossing ищет в [start, end] момент, когда высота пересекает
// targetDeg в заданном направлении: сначала равномерная выборка для
// локализации смены знака, затем бисекция до точности tol.
func findCrossing(f altitudeFunc, start, end time.Time, targetDeg float64, dir crossing, steps int, tol time.Duration) (time.Time, bool) {
	if !start.Before(end) {
		return time.Time{}, false
	}
	if steps < 2 {
		steps = 2
	}

	interval := end.Sub(start) / time.Duration(steps-1)
	prevT := start
	prevAlt := f(prevT) - targetDeg

	for i := 1; i < steps; i++ {
		t := start.Add(time.Duration(i) * interval)
		alt := f(t) - targetDeg
		if hasCrossing(prevAlt, alt, dir) {
			return bisect(f, prevT, t, targetDeg, dir, tol)
		}
		prevT, prevAlt = t, alt
	}
	return time.Time{}, false
}

func hasCrossing(a1, a2 float64, dir crossing) bool {
	switch dir {
	case crossingUp:
		return a1 < 0 && a2 >= 0
	default:
		return a1 > 0 && a2 <= 0
	}
}

func bisect(f altitudeFunc, a, b time.Time, targetDeg float64, dir crossing, tol time.Duration) (time.Time, bool) {
	for b.Sub(a) > tol {
		mid := a.Add(b.Sub(a) / 2)
		altA := f(a) - targetDeg
		altMid := f(mid) - targetDeg
		if hasCrossing(altA, altMid, dir) {
			b = mid
		} else {
			a = mid
		}
	}
	return a.Add(b.Sub(a) / 2), true
}
