package heavens

import (
	"encoding/xml"
	"fmt"
	"time"

	"tg-astro-bot/internal/domain"
)

// Схема XML ответов api.uhaapi.com. Разбор терпимый: неизвестные
// элементы пропускаются, отсутствующие точки пролёта остаются nil.

type satelliteXML struct {
	XMLName xml.Name `xml:"satellite"`
	ID      int64    `xml:"id"`
	Name    string   `xml:"name"`
}

type passesXML struct {
	XMLName xml.Name  `xml:"passes"`
	From    string    `xml:"from"`
	To      string    `xml:"to"`
	Passes  []passXML `xml:"pass"`
}

type passXML struct {
	Magnitude float64       `xml:"magnitude"`
	Start     *coordTimeXML `xml:"start"`
	Max       *coordTimeXML `xml:"max"`
	End       *coordTimeXML `xml:"end"`
}

type coordTimeXML struct {
	Time string `xml:"time"`
	Alt  string `xml:"alt"`
	Az   string `xml:"az"`
}

type flaresXML struct {
	XMLName xml.Name   `xml:"flares"`
	From    string     `xml:"from"`
	To      string     `xml:"to"`
	Flares  []flareXML `xml:"flare"`
}

type flareXML struct {
	Magnitude float64 `xml:"magnitude"`
	Time      string  `xml:"time"`
	Alt       string  `xml:"alt"`
	Az        string  `xml:"az"`
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseAPITime(raw string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("неразборчивое время в ответе API: %q", raw)
}

func (c *coordTimeXML) toPoint() (*domain.PassPoint, error) {
	if c == nil {
		return nil, nil
	}
	ts, err := parseAPITime(c.Time)
	if err != nil {
		return nil, err
	}
	return &domain.PassPoint{Time: ts, Alt: c.Alt, Az: c.Az}, nil
}

func (p passXML) toDomain() (domain.SatellitePass, error) {
	pass := domain.SatellitePass{Magnitude: p.Magnitude}
	var err error
	if pass.Start, err = p.Start.toPoint(); err != nil {
		return domain.SatellitePass{}, err
	}
	if pass.Max, err = p.Max.toPoint(); err != nil {
		return domain.SatellitePass{}, err
	}
	if pass.End, err = p.End.toPoint(); err != nil {
		return domain.SatellitePass{}, err
	}
	return pass, nil
}

func (f flareXML) toDomain() (domain.IridiumFlare, error) {
	ts, err := parseAPITime(f.Time)
	if err != nil {
		return domain.IridiumFlare{}, err
	}
	return domain.IridiumFlare{Magnitude: f.Magnitude, Time: ts, Alt: f.Alt, Az: f.Az}, nil
}
