package domain

import "time"

// User описывает зарегистрированного пользователя Telegram.
type User struct {
	ID                int64
	TGUserID          int64
	Descr             string
	DefaultLocationID *int64
	CreatedAt         time.Time
}

// Location описывает именованную точку наблюдения пользователя.
// Долгота и широта хранятся в градусах, запад и юг отрицательные.
type Location struct {
	ID        int64
	UserID    int64
	Name      string
	Lon       float64
	Lat       float64
	CreatedAt time.Time
}

// Observer — разрешённая позиция наблюдателя для астрономического расчёта.
// Конструируется заново на каждый запрос и дальше не изменяется.
type Observer struct {
	Lon       float64 // градусы, восток положительный
	Lat       float64 // градусы, север положительный
	Elevation float64 // метры над уровнем моря
	Horizon   float64 // угол горизонта в градусах, может быть отрицательным
	At        time.Time
}

// TokenKind — закрытый набор семантических типов токена аргумента.
type TokenKind int

const (
	TokenInteger TokenKind = iota
	TokenFloat
	TokenLongitude
	TokenLatitude
	TokenDate
	TokenString
)

// String возвращает человекочитаемое имя типа токена.
func (k TokenKind) String() string {
	switch k {
	case TokenInteger:
		return "целое число"
	case TokenFloat:
		return "число"
	case TokenLongitude:
		return "долгота"
	case TokenLatitude:
		return "широта"
	case TokenDate:
		return "дата"
	case TokenString:
		return "строка"
	default:
		return "неизвестный"
	}
}

// Token — классифицированный токен строки аргументов.
// Заполнено только поле, соответствующее типу.
type Token struct {
	Raw   string
	Kind  TokenKind
	Int   int64     // TokenInteger
	Float float64   // TokenFloat
	Angle float64   // TokenLongitude / TokenLatitude, градусы со знаком
	Date  time.Time // TokenDate, календарная дата без времени
}

// LocationRefKind различает варианты ссылки на локацию.
type LocationRefKind int

const (
	LocationRefNone LocationRefKind = iota
	LocationRefNamed
	LocationRefCoords
)

// LocationRef — явное указание локации в аргументах команды:
// по имени, парой координат или отсутствует.
type LocationRef struct {
	Kind LocationRefKind
	Name string
	Lon  float64
	Lat  float64
}

// ParsedArgs — результат разбора строки аргументов одной команды.
type ParsedArgs struct {
	Location LocationRef
	Date     *time.Time
}

// Body — небесное тело, поддерживаемое движком эфемерид.
type Body int

const (
	BodySun Body = iota
	BodyMoon
	BodyMercury
	BodyVenus
	BodyMars
	BodyJupiter
	BodySaturn
)

// RiseSetKind — исход расчёта восхода/захода. Тело может никогда
// не пересекать горизонт, это штатный результат, а не ошибка.
type RiseSetKind int

const (
	RiseSetOK RiseSetKind = iota
	RiseSetNeverRises
	RiseSetNeverSets
)

// RiseSetResult содержит ближайшие моменты восхода и захода тела.
// Rise и Set заполнены только при Kind == RiseSetOK.
type RiseSetResult struct {
	Kind RiseSetKind
	Rise time.Time
	Set  time.Time
}

// MoonPhase описывает фазу Луны в заданный момент.
type MoonPhase struct {
	Fraction float64 // освещённая доля диска, 0..1
	Waxing   bool
	Name     string
}

// NightKind — исход расчёта тёмного окна ночи.
type NightKind int

const (
	// NightWindows — ночь есть, список окон в Windows.
	NightWindows NightKind = iota
	// NightNoDark — солнце не опускается под астрономический горизонт.
	NightNoDark
	// NightAllDark — солнце не поднимается, тёмен весь период.
	NightAllDark
	// NightMoonlit — луна над горизонтом всю астрономическую ночь.
	NightMoonlit
)

// NightWindow — один непрерывный интервал тёмного неба.
type NightWindow struct {
	Start time.Time
	End   time.Time
}

// NightResult — результат композиции солнечных и лунных восходов/заходов.
// Windows заполнено только при Kind == NightWindows и содержит одно
// или два окна.
type NightResult struct {
	Kind    NightKind
	Windows []NightWindow
}

// PassPoint — точка пролёта спутника: момент и положение на небе.
type PassPoint struct {
	Time time.Time
	Alt  string
	Az   string
}

// SatellitePass — один видимый пролёт спутника.
type SatellitePass struct {
	Magnitude float64
	Start     *PassPoint
	Max       *PassPoint
	End       *PassPoint
}

// Date возвращает дату пролёта по первой заполненной точке.
func (p SatellitePass) Date() time.Time {
	switch {
	case p.Start != nil:
		return p.Start.Time
	case p.Max != nil:
		return p.Max.Time
	case p.End != nil:
		return p.End.Time
	default:
		return time.Time{}
	}
}

// IridiumFlare — одна вспышка Иридиума.
type IridiumFlare struct {
	Magnitude float64
	Time      time.Time
	Alt       string
	Az        string
}

// SatelliteInfo — сведения о спутнике из внешнего API.
type SatelliteInfo struct {
	ID   int64
	Name string
}
