package timetable

import (
	"testing"

	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEntriesAppliesDefaults(t *testing.T) {
	e := New()

	entries := e.BuildEntries([]model.RawScheduleEntry{
		{Day: "Monday", StartTime: "9:00", EndTime: "10:30:00"},
	})

	require.Len(t, entries, 1)
	got := entries[0]
	assert.Equal(t, model.Monday, got.Day)
	assert.Equal(t, "09:00", got.StartTime)
	assert.Equal(t, "10:30", got.EndTime)
	assert.Equal(t, model.DefaultEntryName, got.Name)
	assert.Equal(t, model.DefaultEntryLocation, got.Location)
	assert.Equal(t, model.DefaultEntryType, got.Type)
	assert.Equal(t, model.DefaultEntryInstructor, got.Instructor)
	assert.Equal(t, model.DefaultEntryColor, got.Color)
	assert.NotEmpty(t, got.ID)
}

func TestBuildEntriesGeneratesStableIDs(t *testing.T) {
	raw := []model.RawScheduleEntry{
		{Day: "Tuesday", StartTime: "10:00", EndTime: "11:00", Name: "Algebra"},
		{Day: "Tuesday", StartTime: "10:00", EndTime: "11:00", Name: "Algebra"},
		{ID: "given", Day: "Tuesday", StartTime: "12:00", EndTime: "13:00"},
	}

	first := New().BuildEntries(raw)
	second := New().BuildEntries(raw)

	require.Len(t, first, 3)
	assert.NotEqual(t, first[0].ID, first[1].ID)
	assert.Equal(t, "given", first[2].ID)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestBuildEntriesDropsInvalidRange(t *testing.T) {
	rec := &recorder{}
	e := New(WithReporter(rec))

	entries := e.BuildEntries([]model.RawScheduleEntry{
		{ID: "reversed", Day: "Monday", StartTime: "11:00", EndTime: "10:00"},
		{ID: "empty", Day: "Monday", StartTime: "10:00", EndTime: "10:00"},
		{ID: "ok", Day: "Monday", StartTime: "10:00", EndTime: "11:00"},
	})

	require.Len(t, entries, 1)
	assert.Equal(t, "ok", entries[0].ID)
	assert.Equal(t, []DiagnosticKind{DiagnosticInvalidRange, DiagnosticInvalidRange}, rec.kinds())
	assert.Equal(t, "reversed", rec.events[0].EntryID)
}

func TestIndexGroupsByWeekday(t *testing.T) {
	rec := &recorder{}
	e := New(WithReporter(rec))

	idx := e.Index([]model.ScheduleEntry{
		{ID: "a", Day: "monday", StartTime: "10:00", EndTime: "11:00"},
		{ID: "b", Day: model.Monday, StartTime: "9:00", EndTime: "10:00"},
		{ID: "c", Day: model.Friday, StartTime: "12:00", EndTime: "13:00"},
		{ID: "d", Day: "Saturday", StartTime: "12:00", EndTime: "13:00"},
	})

	require.Len(t, idx, 5)
	for _, day := range model.Weekdays {
		assert.NotNil(t, idx[day], day)
	}

	require.Len(t, idx[model.Monday], 2)
	assert.Equal(t, "a", idx[model.Monday][0].ID)
	assert.Equal(t, "b", idx[model.Monday][1].ID)
	assert.Equal(t, "09:00", idx[model.Monday][1].StartTime)
	assert.Empty(t, idx[model.Tuesday])
	assert.Len(t, idx[model.Friday], 1)
	assert.Equal(t, 3, idx.Len())

	require.Len(t, rec.events, 1)
	assert.Equal(t, DiagnosticUnrecognizedDay, rec.events[0].Kind)
	assert.Equal(t, "d", rec.events[0].EntryID)
}

func TestIndexDoesNotMutateInput(t *testing.T) {
	in := []model.ScheduleEntry{{ID: "a", Day: "monday", StartTime: "9:00", EndTime: "10:00"}}

	New().Index(in)

	assert.Equal(t, model.Day("monday"), in[0].Day)
	assert.Equal(t, "9:00", in[0].StartTime)
}

func TestParseDay(t *testing.T) {
	day, ok := ParseDay(" WEDNESDAY ")
	assert.True(t, ok)
	assert.Equal(t, model.Wednesday, day)

	_, ok = ParseDay("Sunday")
	assert.False(t, ok)
}

func TestSortByStart(t *testing.T) {
	in := []model.ScheduleEntry{
		{ID: "late", StartTime: "14:00"},
		{ID: "early", StartTime: "08:00"},
		{ID: "late-2", StartTime: "14:00"},
	}

	sorted := SortByStart(in)

	assert.Equal(t, []string{"early", "late", "late-2"}, ids(sorted))
	assert.Equal(t, "late", in[0].ID)
}

func ids(entries []model.ScheduleEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}
