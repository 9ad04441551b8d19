package bot

import (
	"strings"
	"testing"
	"time"

	"tg-astro-bot/internal/domain"
)

func TestFormatSetRise(t *testing.T) {
	h := &Handler{tz: time.UTC}
	res := domain.RiseSetResult{
		Kind: domain.RiseSetOK,
		Rise: time.Date(2026, 4, 1, 5, 30, 0, 0, time.UTC),
		Set:  time.Date(2026, 4, 1, 18, 45, 10, 0, time.UTC),
	}
	got := h.formatSetRise(res)
	if got != "v18:45:10  -  ^05:30:00" {
		t.Fatalf("неожиданный формат: %q", got)
	}
}

func TestFormatSetRise_NeverRises(t *testing.T) {
	h := &Handler{tz: time.UTC}
	got := h.formatSetRise(domain.RiseSetResult{Kind: domain.RiseSetNeverRises})
	if got != "Не восходит в ближайшие сутки." {
		t.Fatalf("неожиданный текст: %q", got)
	}
}

func TestFormatNight_Windows(t *testing.T) {
	h := &Handler{tz: time.UTC}
	res := domain.NightResult{
		Kind: domain.NightWindows,
		Windows: []domain.NightWindow{
			{
				Start: time.Date(2026, 4, 1, 20, 0, 0, 0, time.UTC),
				End:   time.Date(2026, 4, 1, 22, 15, 0, 0, time.UTC),
			},
			{
				Start: time.Date(2026, 4, 2, 2, 0, 0, 0, time.UTC),
				End:   time.Date(2026, 4, 2, 4, 30, 0, 0, time.UTC),
			},
		},
	}
	got := h.formatNight(res)
	if !strings.Contains(got, "20:00:00  -  22:15:00") {
		t.Errorf("ожидали первое окно в %q", got)
	}
	if !strings.Contains(got, "02:00:00  -  04:30:00") {
		t.Errorf("ожидали второе окно в %q", got)
	}
}

func TestFormatNight_Moonlit(t *testing.T) {
	h := &Handler{tz: time.UTC}
	got := h.formatNight(domain.NightResult{Kind: domain.NightMoonlit})
	if got != "Луна освещает небо всю ночь." {
		t.Fatalf("неожиданный текст: %q", got)
	}
}
