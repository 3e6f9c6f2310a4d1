package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay количество минут в сутках
const MinutesPerDay = 24 * 60

var (
	// ErrInvalidTimeFormat возвращается, когда строка не соответствует формату HH:MM
	ErrInvalidTimeFormat = errors.New("types: invalid time string format")

	// ErrTimeOutOfRange возвращается, когда результат арифметики выходит за пределы суток
	ErrTimeOutOfRange = errors.New("types: time out of day range")
)

// TimeString время дня в формате "HH:MM"
type TimeString string

// NewTimeString создает TimeString из time.Time (учитываются только часы и минуты)
func NewTimeString(t time.Time) TimeString {
	return MinutesToTime(t.Hour()*60 + t.Minute())
}

// NewTimeStringFromString парсит и валидирует строку "HH:MM"
func NewTimeStringFromString(s string) (TimeString, error) {
	if _, err := TimeToMinutes(s); err != nil {
		return "", err
	}
	return TimeString(s), nil
}

// TimeToMinutes переводит "HH:MM" в количество минут от начала суток
func TimeToMinutes(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	hours, err := strconv.Atoi(s[:2])
	if err != nil || strings.ContainsAny(s[:2], "+-") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	minutes, err := strconv.Atoi(s[3:])
	if err != nil || strings.ContainsAny(s[3:], "+-") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	return hours*60 + minutes, nil
}

// MinutesToTime форматирует минуты от начала суток в "HH:MM".
// Значение должно лежать в [0, MinutesPerDay): переноса через полночь нет.
func MinutesToTime(minutes int) TimeString {
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60))
}

// Minutes возвращает количество минут от начала суток
func (t TimeString) Minutes() (int, error) {
	return TimeToMinutes(string(t))
}

// AddMinutes возвращает новое время, сдвинутое на delta минут
func (t TimeString) AddMinutes(delta int) (TimeString, error) {
	m, err := t.Minutes()
	if err != nil {
		return "", err
	}

	result := m + delta
	if result < 0 || result >= MinutesPerDay {
		return "", fmt.Errorf("%w: %s%+d", ErrTimeOutOfRange, t, delta)
	}

	return MinutesToTime(result), nil
}

// IsBefore сравнивает два времени. Строки "HH:MM" упорядочены лексикографически.
func (t TimeString) IsBefore(other TimeString) bool {
	return string(t) < string(other)
}

// IsAfter сравнивает два времени
func (t TimeString) IsAfter(other TimeString) bool {
	return string(t) > string(other)
}

// Validate проверяет формат
func (t TimeString) Validate() error {
	_, err := t.Minutes()
	return err
}

// IsZero true для пустого значения
func (t TimeString) IsZero() bool {
	return t == ""
}

func (t TimeString) String() string {
	return string(t)
}
