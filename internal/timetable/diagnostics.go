package timetable

import "go.uber.org/zap"

// DiagnosticKind тип проблемы во входных данных
type DiagnosticKind string

const (
	// DiagnosticMalformedTime время не удалось разобрать, подставлено 00:00
	DiagnosticMalformedTime DiagnosticKind = "malformed_time"
	// DiagnosticUnrecognizedDay занятие не в будний день, исключено из индекса
	DiagnosticUnrecognizedDay DiagnosticKind = "unrecognized_day"
	// DiagnosticInvalidRange конец занятия не позже начала, занятие отброшено
	DiagnosticInvalidRange DiagnosticKind = "invalid_range"
)

// Diagnostic событие о потере или подмене данных
type Diagnostic struct {
	Kind    DiagnosticKind
	Value   string
	EntryID string
}

// Reporter получает диагностические события движка
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc адаптер функции к Reporter
type ReporterFunc func(d Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }

type nopReporter struct{}

func (nopReporter) Report(Diagnostic) {}

type zapReporter struct {
	logger *zap.Logger
}

// NewZapReporter пишет диагностику в лог на уровне Warn
func NewZapReporter(logger *zap.Logger) Reporter {
	return &zapReporter{logger: logger.Named("timetable")}
}

func (r *zapReporter) Report(d Diagnostic) {
	r.logger.Warn("Timetable data degraded",
		zap.String("kind", string(d.Kind)),
		zap.String("value", d.Value),
		zap.String("entry_id", d.EntryID),
	)
}
