package retail

import (
	"fmt"
	"time"
)

// TimestampLayout формат всех меток времени на проводе. Фиксированная точность
// (миллисекунды, UTC) дает совпадение лексикографического и хронологического порядка.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp переводит время в строку ISO-8601 для удаленной стороны
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp разбирает метку времени. Принимает и RFC3339 с любой точностью.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(TimestampLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return Normalize(t), nil
}

// Normalize приводит время к точности, которая переживает круговое преобразование
func Normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// NewerThan сравнивает метки по строковому представлению, как это делает удаленный фильтр
func NewerThan(remote string, local time.Time) bool {
	return remote > FormatTimestamp(local)
}
