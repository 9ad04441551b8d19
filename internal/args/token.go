package args

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"tg-astro-bot/internal/domain"
)

// Порядок классификации фиксирован: целое, число, секстагезимальная
// координата, дата, иначе строка. Голое целое математически валидно и
// как число, но сообщается как целое — на этом держится разбор
// идентификаторов спутников.

var (
	sexagesimalRegex = regexp.MustCompile(`^(\d{1,3})°(\d{1,2})'(?:(\d{1,2})(?:\.(\d+))?")?([NSEW])$`)
	dateRegex        = regexp.MustCompile(`^(?:(\d{4})-(\d{1,2})-(\d{1,2})|(\d{4})/(\d{1,2})/(\d{1,2}))$`)
)

// Classify определяет семантический тип одного токена.
// Пустые токены не допускаются: вызывающая сторона режет строку по
// пробелам и отбрасывает пустые фрагменты.
func Classify(raw string) domain.Token {
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return domain.Token{Raw: raw, Kind: domain.TokenInteger, Int: v}
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return domain.Token{Raw: raw, Kind: domain.TokenFloat, Float: v}
	}
	if tok, ok := classifySexagesimal(raw); ok {
		return tok
	}
	if tok, ok := classifyDate(raw); ok {
		return tok
	}
	return domain.Token{Raw: raw, Kind: domain.TokenString}
}

func classifySexagesimal(raw string) (domain.Token, bool) {
	m := sexagesimalRegex.FindStringSubmatch(raw)
	if m == nil {
		return domain.Token{}, false
	}

	deg, _ := strconv.ParseFloat(m[1], 64)
	min, _ := strconv.ParseFloat(m[2], 64)
	angle := deg + min/60.0
	if m[3] != "" {
		sec := m[3]
		if m[4] != "" {
			sec += "." + m[4]
		}
		s, _ := strconv.ParseFloat(sec, 64)
		angle += s / 3600.0
	}

	tok := domain.Token{Raw: raw}
	switch m[5] {
	case "W":
		tok.Kind = domain.TokenLongitude
		tok.Angle = -angle
	case "E":
		tok.Kind = domain.TokenLongitude
		tok.Angle = angle
	case "N":
		tok.Kind = domain.TokenLatitude
		tok.Angle = angle
	default: // S
		tok.Kind = domain.TokenLatitude
		tok.Angle = -angle
	}
	return tok, true
}

func classifyDate(raw string) (domain.Token, bool) {
	m := dateRegex.FindStringSubmatch(raw)
	if m == nil {
		return domain.Token{}, false
	}
	y, mo, d := m[1], m[2], m[3]
	if y == "" {
		y, mo, d = m[4], m[5], m[6]
	}
	year, _ := strconv.Atoi(y)
	month, _ := strconv.Atoi(mo)
	day, _ := strconv.Atoi(d)

	// time.Date нормализует 13-й месяц и 40-е число, поэтому валидность
	// календарной даты проверяется обратным сравнением. Невалидная дата
	// не ошибка классификации: токен уходит в строку.
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || int(date.Month()) != month || date.Day() != day {
		return domain.Token{}, false
	}
	return domain.Token{Raw: raw, Kind: domain.TokenDate, Date: date}, true
}

// splitTokens режет строку аргументов по пробельным последовательностям.
func splitTokens(argString string) []string {
	return strings.Fields(argString)
}
