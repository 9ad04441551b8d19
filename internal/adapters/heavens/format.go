package heavens

import (
	"fmt"
	"math"
	"strings"
	"time"

	"tg-astro-bot/internal/domain"
)

const (
	riseMark = "⇧"
	setMark  = "⇩"
	maxMark  = "☀"
)

// FlareMinMagnitude отсекает тусклые вспышки при форматировании.
const FlareMinMagnitude = -2.0

// MagMeter рисует шкалу яркости из "~" и "#". Чем ярче объект
// (меньше звёздная величина), тем больше "~" в начале шкалы.
func MagMeter(mag, maxMag, minMag, step float64) string {
	if mag > minMag {
		mag = minMag
	}
	if mag < maxMag {
		mag = maxMag
	}
	koef := 1.0 / step
	bright := int(math.Round((mag - maxMag) * koef))
	dim := int(math.Round((minMag - mag) * koef))
	return strings.Repeat("~", bright) + strings.Repeat("#", dim)
}

// FormatSign форматирует звёздную величину с ведущим пробелом
// для неотрицательных значений, чтобы колонки не ехали.
func FormatSign(mag float64) string {
	if mag < 0 {
		return fmt.Sprintf("%.1f", mag)
	}
	return fmt.Sprintf(" %.1f", mag)
}

func formatPoint(p *domain.PassPoint, tz *time.Location) string {
	return p.Time.In(tz).Format("15:04:05") + "  [ " + p.Alt + " / " + p.Az + " ]"
}

// FormatPasses готовит текст списка пролётов для отправки в чат.
func FormatPasses(passes []domain.SatellitePass, tz *time.Location) string {
	var b strings.Builder
	for _, pass := range passes {
		b.WriteString(pass.Date().In(tz).Format("02.01"))
		b.WriteString(" ")
		b.WriteString(MagMeter(pass.Magnitude, -3.0, 1.0, 0.5))
		b.WriteString("  ")
		b.WriteString(FormatSign(pass.Magnitude))
		b.WriteString("m  ")
		if pass.Start != nil {
			b.WriteString(riseMark)
			b.WriteString(formatPoint(pass.Start, tz))
			b.WriteString("  ")
		}
		if pass.Max != nil {
			b.WriteString(maxMark)
			b.WriteString(formatPoint(pass.Max, tz))
			b.WriteString("  ")
		}
		if pass.End != nil {
			b.WriteString(setMark)
			b.WriteString(formatPoint(pass.End, tz))
		}
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return "Видимых пролётов нет."
	}
	return "\n" + b.String()
}

// FormatFlares готовит текст списка вспышек. Вспышки тусклее
// FlareMinMagnitude опускаются, строки группируются по датам.
func FormatFlares(flares []domain.IridiumFlare, tz *time.Location) string {
	var b strings.Builder
	lastDate := ""
	for _, flare := range flares {
		if flare.Magnitude > FlareMinMagnitude {
			continue
		}
		date := flare.Time.In(tz).Format("2006-01-02")
		if date != lastDate {
			b.WriteString(date)
			b.WriteString("\n")
			lastDate = date
		}
		b.WriteString(MagMeter(flare.Magnitude, -8.0, 0.0, 1.0))
		b.WriteString("   ")
		b.WriteString(flare.Time.In(tz).Format("15:04:05"))
		b.WriteString("  ")
		b.WriteString(FormatSign(flare.Magnitude))
		b.WriteString("m  [ ")
		b.WriteString(flare.Alt)
		b.WriteString(" / ")
		b.WriteString(flare.Az)
		b.WriteString(" ]\n")
	}
	if b.Len() == 0 {
		return "Видимых вспышек нет."
	}
	return "\n" + b.String()
}
