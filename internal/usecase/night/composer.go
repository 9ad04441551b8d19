package night

import (
	"time"

	"tg-astro-bot/internal/domain"
)

// Compose строит тёмные окна астрономической ночи из восходов/заходов
// Солнца и Луны. Ночь ограничена заходом Солнца и следующим восходом;
// Луна, вставая или заходя внутри этого интервала, обрезает окно или
// делит его на два. Оба результата считаются от опорного полудня,
// поэтому у Солнца заход предшествует восходу.
//
// Вырожденные случаи замыкаются до анализа порядка моментов.
// Луна, занимающая весь интервал, означает отсутствие астрономической
// ночи — более тёмное подокно не ищется.
func Compose(sun, moon domain.RiseSetResult) domain.NightResult {
	switch sun.Kind {
	case domain.RiseSetNeverSets:
		return domain.NightResult{Kind: domain.NightNoDark}
	case domain.RiseSetNeverRises:
		return domain.NightResult{Kind: domain.NightAllDark}
	}

	dusk, dawn := sun.Set, sun.Rise
	if !dusk.Before(dawn) {
		// Опорный момент между заходом и восходом: ближайший заход
		// принадлежит уже следующей ночи, границы меняются местами.
		dusk, dawn = dawn, dusk
	}

	switch moon.Kind {
	case domain.RiseSetNeverRises:
		return window(dusk, dawn)
	case domain.RiseSetNeverSets:
		return domain.NightResult{Kind: domain.NightMoonlit}
	}

	moonRise, moonSet := moon.Rise, moon.Set

	if moonSet.Before(moonRise) {
		// Луна над горизонтом в опорный момент: безлунный интервал —
		// от её захода до следующего восхода.
		start := maxTime(dusk, moonSet)
		end := minTime(dawn, moonRise)
		if !start.Before(end) {
			return domain.NightResult{Kind: domain.NightMoonlit}
		}
		return window(start, end)
	}

	// Луна под горизонтом, интервал её видимости — [moonRise, moonSet].
	switch {
	case !moonRise.Before(dawn) || !moonSet.After(dusk):
		// Луна целиком вне ночи.
		return window(dusk, dawn)
	case !moonRise.After(dusk) && !moonSet.Before(dawn):
		// Луна накрывает ночь целиком.
		return domain.NightResult{Kind: domain.NightMoonlit}
	case !moonRise.After(dusk):
		// Луна уже над горизонтом в сумерки и заходит до рассвета.
		return window(moonSet, dawn)
	case !moonSet.Before(dawn):
		// Луна встаёт ночью и остаётся до рассвета.
		return window(dusk, moonRise)
	default:
		// Луна видна строго внутри ночи: окно делится на два.
		return domain.NightResult{
			Kind: domain.NightWindows,
			Windows: []domain.NightWindow{
				{Start: dusk, End: moonRise},
				{Start: moonSet, End: dawn},
			},
		}
	}
}

func window(start, end time.Time) domain.NightResult {
	return domain.NightResult{
		Kind:    domain.NightWindows,
		Windows: []domain.NightWindow{{Start: start, End: end}},
	}
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
