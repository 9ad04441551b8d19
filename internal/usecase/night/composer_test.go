package night

import (
	"testing"
	"time"

	"tg-astro-bot/internal/domain"
)

func at(hour, min int) time.Time {
	base := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	return base.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

func ok(rise, set time.Time) domain.RiseSetResult {
	return domain.RiseSetResult{Kind: domain.RiseSetOK, Rise: rise, Set: set}
}

func TestComposeSplitsNightInTwo(t *testing.T) {
	// Заход < восход луны < заход луны < восход: два окна.
	sun := ok(at(29, 0), at(19, 0)) // заход 19:00, восход 05:00 следующего дня
	moon := ok(at(22, 0), at(26, 0))

	res := Compose(sun, moon)
	if res.Kind != domain.NightWindows {
		t.Fatalf("ожидали окна, получили %v", res.Kind)
	}
	if len(res.Windows) != 2 {
		t.Fatalf("ожидали два окна, получили %d", len(res.Windows))
	}
	if !res.Windows[0].Start.Equal(at(19, 0)) || !res.Windows[0].End.Equal(at(22, 0)) {
		t.Fatalf("неверное первое окно: %+v", res.Windows[0])
	}
	if !res.Windows[1].Start.Equal(at(26, 0)) || !res.Windows[1].End.Equal(at(29, 0)) {
		t.Fatalf("неверное второе окно: %+v", res.Windows[1])
	}
}

func TestComposeFullNightWhenMoonOutside(t *testing.T) {
	sun := ok(at(29, 0), at(19, 0))
	// Луна встаёт уже после рассвета.
	moon := ok(at(30, 0), at(34, 0))

	res := Compose(sun, moon)
	if res.Kind != domain.NightWindows || len(res.Windows) != 1 {
		t.Fatalf("ожидали одно окно, получили %+v", res)
	}
	if !res.Windows[0].Start.Equal(at(19, 0)) || !res.Windows[0].End.Equal(at(29, 0)) {
		t.Fatalf("ожидали полную ночь, получили %+v", res.Windows[0])
	}
}

func TestComposeMoonClipsEvening(t *testing.T) {
	sun := ok(at(29, 0), at(19, 0))
	// Луна над горизонтом с вечера, заходит в 23:00, больше не встаёт
	// до рассвета.
	moon := domain.RiseSetResult{Kind: domain.RiseSetOK, Rise: at(33, 0), Set: at(23, 0)}

	res := Compose(sun, moon)
	if res.Kind != domain.NightWindows || len(res.Windows) != 1 {
		t.Fatalf("ожидали одно окно, получили %+v", res)
	}
	if !res.Windows[0].Start.Equal(at(23, 0)) || !res.Windows[0].End.Equal(at(29, 0)) {
		t.Fatalf("ожидали окно от захода луны до рассвета, получили %+v", res.Windows[0])
	}
}

func TestComposeMoonClipsMorning(t *testing.T) {
	sun := ok(at(29, 0), at(19, 0))
	// Луна встаёт в 02:00 и остаётся до рассвета.
	moon := ok(at(26, 0), at(36, 0))

	res := Compose(sun, moon)
	if res.Kind != domain.NightWindows || len(res.Windows) != 1 {
		t.Fatalf("ожидали одно окно, получили %+v", res)
	}
	if !res.Windows[0].Start.Equal(at(19, 0)) || !res.Windows[0].End.Equal(at(26, 0)) {
		t.Fatalf("ожидали окно до восхода луны, получили %+v", res.Windows[0])
	}
}

func TestComposeMoonlitAllNight(t *testing.T) {
	sun := ok(at(29, 0), at(19, 0))
	// Луна встаёт до заката и заходит после рассвета.
	moon := ok(at(18, 0), at(30, 0))

	if res := Compose(sun, moon); res.Kind != domain.NightMoonlit {
		t.Fatalf("ожидали лунную ночь, получили %+v", res)
	}
}

func TestComposeMoonNeverRises(t *testing.T) {
	sun := ok(at(29, 0), at(19, 0))
	moon := domain.RiseSetResult{Kind: domain.RiseSetNeverRises}

	res := Compose(sun, moon)
	if res.Kind != domain.NightWindows || len(res.Windows) != 1 {
		t.Fatalf("ожидали полную ночь, получили %+v", res)
	}
}

func TestComposeMoonNeverSets(t *testing.T) {
	sun := ok(at(29, 0), at(19, 0))
	moon := domain.RiseSetResult{Kind: domain.RiseSetNeverSets}

	if res := Compose(sun, moon); res.Kind != domain.NightMoonlit {
		t.Fatalf("ожидали лунную ночь, получили %+v", res)
	}
}

func TestComposeSunSentinels(t *testing.T) {
	moon := ok(at(22, 0), at(26, 0))

	if res := Compose(domain.RiseSetResult{Kind: domain.RiseSetNeverSets}, moon); res.Kind != domain.NightNoDark {
		t.Fatalf("ожидали отсутствие тьмы, получили %+v", res)
	}
	if res := Compose(domain.RiseSetResult{Kind: domain.RiseSetNeverRises}, moon); res.Kind != domain.NightAllDark {
		t.Fatalf("ожидали полную тьму, получили %+v", res)
	}
}
