package parser

import (
	"fmt"
	"strings"
	"time"
)

const (
	// pubDateLayout - фиксированный формат RFC 822 с числовым смещением.
	// Названия дней и месяцев в time.Parse всегда английские, от локали не зависят.
	pubDateLayout = "Mon, 2 Jan 2006 15:04:05 -0700"
	// pubDateNamedZoneLayout - тот же формат с буквенным обозначением зоны.
	pubDateNamedZoneLayout = "Mon, 2 Jan 2006 15:04:05"
)

// rfc822Zones - буквенные зоны из RFC 822, допустимые вместо числового смещения.
var rfc822Zones = map[string]int{
	"UT":  0,
	"UTC": 0,
	"GMT": 0,
	"Z":   0,
	"EST": -5,
	"EDT": -4,
	"CST": -6,
	"CDT": -5,
	"MST": -7,
	"MDT": -6,
	"PST": -8,
	"PDT": -7,
}

// ParseDate разбирает значение pubDate вида "Tue, 19 Sep 2017 14:03:00 +0000".
// Пустая строка означает отсутствие даты и возвращает nil без ошибки.
// Результат всегда приводится к UTC.
func ParseDate(raw string) (*time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(pubDateLayout, value); err == nil {
		t = t.UTC()
		return &t, nil
	}
	if idx := strings.LastIndexByte(value, ' '); idx > 0 {
		if hours, ok := rfc822Zones[value[idx+1:]]; ok {
			loc := time.FixedZone(value[idx+1:], hours*60*60)
			if t, err := time.ParseInLocation(pubDateNamedZoneLayout, value[:idx], loc); err == nil {
				t = t.UTC()
				return &t, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrMalformedDate, value)
}
