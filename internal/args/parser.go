package args

import (
	"errors"
	"fmt"
	"strings"

	"tg-astro-bot/internal/domain"
)

var (
	// ErrDuplicateToken возвращается при втором токене того же типа.
	ErrDuplicateToken = errors.New("повторяющийся аргумент")
	// ErrUnexpectedToken возвращается для токена, которому нет места
	// в свободной форме аргументов.
	ErrUnexpectedToken = errors.New("неожиданный аргумент")
	// ErrCoordOrName возвращается, когда указаны и координаты, и имя.
	ErrCoordOrName = errors.New("укажите либо координаты, либо название локации")
	// ErrCoordPair возвращается при долготе без широты и наоборот.
	ErrCoordPair = errors.New("долгота и широта указываются вместе")
	// ErrSatelliteID возвращается, если первый аргумент не ID спутника.
	ErrSatelliteID = errors.New("ожидается числовой идентификатор спутника")
	// ErrAddLocation возвращается при неполных аргументах добавления локации.
	ErrAddLocation = errors.New("ожидается название и пара координат")
	// ErrCoordRange возвращается для координат вне допустимого диапазона.
	ErrCoordRange = errors.New("координата вне допустимого диапазона")
)

// Parse разбирает свободную форму аргументов команды наблюдения:
// необязательное переопределение локации (по имени или парой
// секстагезимальных координат) и необязательная дата. Пустая строка —
// это успех без переопределений. Второй токен любого типа, координаты
// вместе с именем и непарная координата — ошибки разбора.
func Parse(argString string) (domain.ParsedArgs, error) {
	var parsed domain.ParsedArgs

	var (
		lon, lat *domain.Token
		name     *domain.Token
		date     *domain.Token
	)

	for _, raw := range splitTokens(argString) {
		tok := Classify(raw)
		switch tok.Kind {
		case domain.TokenLongitude:
			if lon != nil {
				return parsed, duplicateErr(tok)
			}
			t := tok
			lon = &t
		case domain.TokenLatitude:
			if lat != nil {
				return parsed, duplicateErr(tok)
			}
			t := tok
			lat = &t
		case domain.TokenDate:
			if date != nil {
				return parsed, duplicateErr(tok)
			}
			t := tok
			date = &t
		case domain.TokenString:
			if name != nil {
				return parsed, duplicateErr(tok)
			}
			t := tok
			name = &t
		default:
			// Голые числа здесь двусмысленны: непонятно, долгота это
			// или широта. Идентификаторы спутников идут отдельным
			// путём разбора.
			return parsed, fmt.Errorf("%w: %q", ErrUnexpectedToken, tok.Raw)
		}
	}

	if (lon != nil || lat != nil) && name != nil {
		return parsed, ErrCoordOrName
	}
	if (lon == nil) != (lat == nil) {
		return parsed, ErrCoordPair
	}

	switch {
	case lon != nil:
		parsed.Location = domain.LocationRef{
			Kind: domain.LocationRefCoords,
			Lon:  lon.Angle,
			Lat:  lat.Angle,
		}
	case name != nil:
		parsed.Location = domain.LocationRef{
			Kind: domain.LocationRefNamed,
			Name: name.Raw,
		}
	}
	if date != nil {
		d := date.Date
		parsed.Date = &d
	}
	return parsed, nil
}

// ParseSatelliteID выделяет из строки аргументов идентификатор спутника:
// первый токен обязан классифицироваться как целое, остаток строки
// возвращается неразобранным для дальнейшего Parse.
func ParseSatelliteID(argString string) (int64, string, error) {
	trimmed := strings.TrimSpace(argString)
	if trimmed == "" {
		return 0, "", ErrSatelliteID
	}
	first := trimmed
	rest := ""
	if i := strings.IndexFunc(trimmed, isSpace); i >= 0 {
		first, rest = trimmed[:i], strings.TrimSpace(trimmed[i:])
	}
	tok := Classify(first)
	if tok.Kind != domain.TokenInteger {
		return 0, "", fmt.Errorf("%w: %q", ErrSatelliteID, first)
	}
	return tok.Int, rest, nil
}

// ParseAddLocation разбирает аргументы добавления локации: название и
// пара координат, секстагезимальных либо десятичных (тогда порядок —
// долгота, широта).
func ParseAddLocation(argString string) (string, float64, float64, error) {
	var (
		name     string
		lon, lat *float64
		numbers  []float64
	)

	for _, raw := range splitTokens(argString) {
		tok := Classify(raw)
		switch tok.Kind {
		case domain.TokenString:
			if name != "" {
				return "", 0, 0, duplicateErr(tok)
			}
			name = tok.Raw
		case domain.TokenLongitude:
			if lon != nil {
				return "", 0, 0, duplicateErr(tok)
			}
			a := tok.Angle
			lon = &a
		case domain.TokenLatitude:
			if lat != nil {
				return "", 0, 0, duplicateErr(tok)
			}
			a := tok.Angle
			lat = &a
		case domain.TokenInteger:
			numbers = append(numbers, float64(tok.Int))
		case domain.TokenFloat:
			numbers = append(numbers, tok.Float)
		default:
			return "", 0, 0, fmt.Errorf("%w: %q", ErrUnexpectedToken, tok.Raw)
		}
	}

	// Десятичные числа занимают свободные координатные места в порядке
	// долгота, широта.
	for _, n := range numbers {
		v := n
		switch {
		case lon == nil:
			lon = &v
		case lat == nil:
			lat = &v
		default:
			return "", 0, 0, fmt.Errorf("%w: %v", ErrDuplicateToken, n)
		}
	}

	if name == "" || lon == nil || lat == nil {
		return "", 0, 0, ErrAddLocation
	}
	if *lon < -180 || *lon > 180 {
		return "", 0, 0, fmt.Errorf("%w: долгота %v", ErrCoordRange, *lon)
	}
	if *lat < -90 || *lat > 90 {
		return "", 0, 0, fmt.Errorf("%w: широта %v", ErrCoordRange, *lat)
	}
	return name, *lon, *lat, nil
}

func duplicateErr(tok domain.Token) error {
	return fmt.Errorf("%w: %s %q", ErrDuplicateToken, tok.Kind, tok.Raw)
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}
