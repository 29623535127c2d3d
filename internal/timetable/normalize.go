package timetable

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedTime время не в формате H:MM, HH:MM или HH:MM:SS
var ErrMalformedTime = errors.New("malformed time")

const zeroClock = "00:00"

var (
	shortClockRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	longClockRe  = regexp.MustCompile(`^(\d{1,2}):(\d{2}):\d{2}$`)
)

// Форматы полных временных меток, которые присылают старые клиенты.
// zoned = true означает, что смещение есть в самой строке.
var timestampLayouts = []struct {
	layout string
	zoned  bool
}{
	{time.RFC3339, true},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02T15:04", false},
	{"2006-01-02 15:04:05", false},
	{"2006-01-02 15:04", false},
	{time.RFC1123Z, true},
	{time.RFC1123, true},
}

// Normalize приводит время к виду HH:MM. Никогда не возвращает ошибку:
// неразборчивое значение превращается в 00:00 с событием DiagnosticMalformedTime.
func (e *Engine) Normalize(raw any) string {
	clock, ok := e.normalize(raw)
	if !ok {
		e.report(Diagnostic{Kind: DiagnosticMalformedTime, Value: describe(raw)})
	}
	return clock
}

// ToMinutes возвращает минуту суток нормализованного времени
func (e *Engine) ToMinutes(raw any) int {
	return minutesOf(e.Normalize(raw))
}

func (e *Engine) normalize(raw any) (string, bool) {
	switch v := raw.(type) {
	case nil:
		return zeroClock, false
	case time.Time:
		if v.IsZero() {
			return zeroClock, false
		}
		return v.Format("15:04"), true
	case *time.Time:
		if v == nil {
			return zeroClock, false
		}
		return e.normalize(*v)
	case string:
		return e.normalizeString(v)
	case fmt.Stringer:
		return e.normalizeString(v.String())
	default:
		return e.normalizeString(fmt.Sprint(v))
	}
}

func (e *Engine) normalizeString(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return zeroClock, false
	}

	if m := shortClockRe.FindStringSubmatch(s); m != nil {
		return canonicalClock(m[1], m[2])
	}
	if m := longClockRe.FindStringSubmatch(s); m != nil {
		return canonicalClock(m[1], m[2])
	}

	for _, l := range timestampLayouts {
		var (
			t   time.Time
			err error
		)
		if l.zoned {
			t, err = time.Parse(l.layout, s)
			t = t.In(e.loc)
		} else {
			t, err = time.ParseInLocation(l.layout, s, e.loc)
		}
		if err == nil {
			return t.Format("15:04"), true
		}
	}

	return zeroClock, false
}

func canonicalClock(hour, minute string) (string, bool) {
	h, err := strconv.Atoi(hour)
	if err != nil || h > 23 {
		return zeroClock, false
	}
	m, err := strconv.Atoi(minute)
	if err != nil || m > 59 {
		return zeroClock, false
	}
	return fmt.Sprintf("%02d:%02d", h, m), true
}

// ParseClock строгий разбор времени, введённого пользователем.
// В отличие от Normalize возвращает ошибку вместо подстановки 00:00.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	m := shortClockRe.FindStringSubmatch(s)
	if m == nil {
		m = longClockRe.FindStringSubmatch(s)
	}
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	clock, ok := canonicalClock(m[1], m[2])
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	return minutesOf(clock), nil
}

// FormatMinutes минуту суток обратно в HH:MM
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// minutesOf минута суток; ненормализованная строка нормализуется молча
func minutesOf(clock string) int {
	if len(clock) != 5 || clock[2] != ':' {
		clock, _ = defaultEngine.normalizeString(clock)
	}
	h, _ := strconv.Atoi(clock[:2])
	m, _ := strconv.Atoi(clock[3:])
	return h*60 + m
}

func clockParts(clock string) (hour, minute int) {
	minutes := minutesOf(clock)
	return minutes / 60, minutes % 60
}

func describe(raw any) string {
	if raw == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%v", raw)
}
