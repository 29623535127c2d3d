// Package timetable содержит движок сетки расписания и поиска свободных аудиторий.
//
// Все функции синхронные и работают только с уже загруженными данными:
// входные срезы не изменяются, результаты всегда новые структуры.
// Ошибки разбора времени и дней недели не прерывают работу, а уходят
// в Reporter как диагностические события.
package timetable

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Engine хранит настройки нормализации и канал диагностики
type Engine struct {
	reporter Reporter
	loc      *time.Location
	validate *validator.Validate
}

// Option настраивает Engine
type Option func(*Engine)

// WithReporter задаёт получателя диагностических событий
func WithReporter(r Reporter) Option {
	return func(e *Engine) {
		if r != nil {
			e.reporter = r
		}
	}
}

// WithLocation задаёт часовой пояс, в котором из полных временных меток извлекается HH:MM
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// New создаёт движок. По умолчанию диагностика отбрасывается, часовой пояс - time.Local.
func New(opts ...Option) *Engine {
	e := &Engine{
		reporter: nopReporter{},
		loc:      time.Local,
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = New()

// Normalize нормализует время движком по умолчанию
func Normalize(raw any) string {
	return defaultEngine.Normalize(raw)
}

// ToMinutes возвращает минуту суток для времени в любом формате
func ToMinutes(raw any) int {
	return defaultEngine.ToMinutes(raw)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (e *Engine) report(d Diagnostic) {
	e.reporter.Report(d)
}
