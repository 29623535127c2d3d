package timetable

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// Index занятия, сгруппированные по будним дням
type Index map[model.Day][]model.ScheduleEntry

// Len общее число занятий во всех днях
func (idx Index) Len() int {
	n := 0
	for _, entries := range idx {
		n += len(entries)
	}
	return n
}

// entryNamespace пространство имён для детерминированных ID занятий без идентификатора
var entryNamespace = uuid.MustParse("3f1f5d2e-8c4b-4f53-9a57-0d3f6f0b8a11")

// BuildEntries превращает сырые записи источника в ScheduleEntry.
// Время нормализуется, пустые поля заполняются значениями по умолчанию.
// Записи, у которых конец не позже начала, отбрасываются.
func (e *Engine) BuildEntries(raw []model.RawScheduleEntry) []model.ScheduleEntry {
	entries := make([]model.ScheduleEntry, 0, len(raw))
	seen := make(map[string]int)

	for _, r := range raw {
		day := model.Day(strings.TrimSpace(r.Day))
		if d, ok := ParseDay(r.Day); ok {
			day = d
		}

		entry := model.ScheduleEntry{
			ID:          r.ID,
			Day:         day,
			StartTime:   e.Normalize(r.StartTime),
			EndTime:     e.Normalize(r.EndTime),
			Name:        withDefault(r.Name, model.DefaultEntryName),
			Location:    withDefault(r.Location, model.DefaultEntryLocation),
			Type:        withDefault(r.Type, model.DefaultEntryType),
			Instructor:  withDefault(r.Instructor, model.DefaultEntryInstructor),
			Color:       withDefault(r.Color, model.DefaultEntryColor),
			Description: r.Description,
		}

		if entry.ID == "" {
			key := strings.Join([]string{string(entry.Day), entry.StartTime, entry.EndTime, entry.Name}, "|")
			seen[key]++
			entry.ID = uuid.NewSHA1(entryNamespace, []byte(key+"#"+strconv.Itoa(seen[key]))).String()
		}

		if minutesOf(entry.EndTime) <= minutesOf(entry.StartTime) {
			e.report(Diagnostic{
				Kind:    DiagnosticInvalidRange,
				Value:   entry.StartTime + "-" + entry.EndTime,
				EntryID: entry.ID,
			})
			continue
		}

		entries = append(entries, entry)
	}

	return entries
}

// Index раскладывает занятия по будним дням. Все пять дней присутствуют всегда,
// порядок внутри дня совпадает с порядком на входе.
func (e *Engine) Index(entries []model.ScheduleEntry) Index {
	idx := make(Index, len(model.Weekdays))
	for _, d := range model.Weekdays {
		idx[d] = []model.ScheduleEntry{}
	}

	for _, entry := range entries {
		day, ok := ParseDay(string(entry.Day))
		if !ok {
			e.report(Diagnostic{
				Kind:    DiagnosticUnrecognizedDay,
				Value:   string(entry.Day),
				EntryID: entry.ID,
			})
			continue
		}

		entry.Day = day
		entry.StartTime = e.Normalize(entry.StartTime)
		entry.EndTime = e.Normalize(entry.EndTime)
		idx[day] = append(idx[day], entry)
	}

	return idx
}

// ParseDay распознаёт будний день без учёта регистра
func ParseDay(s string) (model.Day, bool) {
	key := foldKey(s)
	for _, d := range model.Weekdays {
		if foldKey(string(d)) == key {
			return d, true
		}
	}
	return "", false
}

// SortByStart возвращает копию, отсортированную по времени начала.
// Строки HH:MM одинаковой длины, поэтому лексикографический порядок совпадает с хронологическим.
func SortByStart(entries []model.ScheduleEntry) []model.ScheduleEntry {
	sorted := make([]model.ScheduleEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime < sorted[j].StartTime
	})
	return sorted
}

// foldKey ключ для сравнения без учёта регистра. Caser не потокобезопасен, создаём на каждый вызов.
func foldKey(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

func withDefault(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
