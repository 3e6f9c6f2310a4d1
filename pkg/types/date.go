package types

import (
	"fmt"
	"time"
)

// DateFormat формат календарной даты
const DateFormat = "2006-01-02"

// NormalizeDate приводит момент времени к началу его календарного дня.
// Берется день в локации самого t, результат всегда в UTC.
// Это единственная функция усечения даты: все чтения и записи
// переопределений и бронирований проходят через нее.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate парсит "YYYY-MM-DD" в нормализованную дату
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("types: invalid date %q: %w", s, err)
	}
	return NormalizeDate(t), nil
}

// FormatDate форматирует дату в "YYYY-MM-DD" после нормализации
func FormatDate(t time.Time) string {
	return NormalizeDate(t).Format(DateFormat)
}

// SameDay проверяет, что два момента попадают в один календарный день
func SameDay(a, b time.Time) bool {
	return NormalizeDate(a).Equal(NormalizeDate(b))
}
