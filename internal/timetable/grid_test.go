package timetable

import (
	"testing"

	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(id string, day model.Day, start, end string) model.ScheduleEntry {
	return model.ScheduleEntry{ID: id, Day: day, StartTime: start, EndTime: end, Name: id}
}

func slotIndex(t *testing.T, slots []model.TimeSlot, hour int) int {
	t.Helper()
	for i, s := range slots {
		if s.StartHour == hour {
			return i
		}
	}
	t.Fatalf("no slot starting at %d", hour)
	return -1
}

func TestPlanPlacesEntryInStartingSlot(t *testing.T) {
	slots := model.DefaultTimeSlots()
	idx := New().Index([]model.ScheduleEntry{entry("calc", model.Monday, "09:00", "10:30")})

	g := Plan(idx, slots)

	nine := slotIndex(t, slots, 9)
	placed := g.Cell(model.Monday, nine)
	require.Len(t, placed, 1)
	assert.Equal(t, "calc", placed[0].Entry.ID)
	assert.InDelta(t, 1.5, placed[0].SpanHours, 1e-9)
	assert.InDelta(t, 0, placed[0].TopOffsetFraction, 1e-9)

	assert.Empty(t, g.Cell(model.Monday, slotIndex(t, slots, 10)))
	assert.Len(t, g.Cells(), 1)
}

func TestPlanFractionalOffset(t *testing.T) {
	slots := model.DefaultTimeSlots()
	idx := New().Index([]model.ScheduleEntry{entry("seminar", model.Thursday, "14:30", "15:15")})

	placed := Plan(idx, slots).Cell(model.Thursday, slotIndex(t, slots, 14))

	require.Len(t, placed, 1)
	assert.InDelta(t, 0.75, placed[0].SpanHours, 1e-9)
	assert.InDelta(t, 0.5, placed[0].TopOffsetFraction, 1e-9)
}

func TestPlanStacksSameStartEntries(t *testing.T) {
	slots := model.DefaultTimeSlots()
	idx := New().Index([]model.ScheduleEntry{
		entry("first", model.Tuesday, "11:00", "12:00"),
		entry("second", model.Tuesday, "11:15", "12:00"),
	})

	placed := Plan(idx, slots).Cell(model.Tuesday, slotIndex(t, slots, 11))

	require.Len(t, placed, 2)
	assert.Equal(t, "first", placed[0].Entry.ID)
	assert.Equal(t, "second", placed[1].Entry.ID)
}

func TestPlanSkipsEntriesOutsideSlots(t *testing.T) {
	idx := New().Index([]model.ScheduleEntry{entry("early", model.Monday, "07:00", "08:30")})

	g := Plan(idx, model.DefaultTimeSlots())

	assert.Empty(t, g.Cells())
	assert.False(t, g.Empty())
	assert.Len(t, g.Entries(model.Monday), 1)
}

func TestPlanDuplicateSlotHours(t *testing.T) {
	slots := []model.TimeSlot{{StartHour: 9, EndHour: 10}, {StartHour: 9, EndHour: 10}}
	idx := New().Index([]model.ScheduleEntry{entry("a", model.Monday, "09:00", "10:00")})

	g := Plan(idx, slots)

	assert.Len(t, g.Cell(model.Monday, 0), 1)
	assert.Empty(t, g.Cell(model.Monday, 1))
}

func TestPlanEmptyIndex(t *testing.T) {
	g := Plan(New().Index(nil), model.DefaultTimeSlots())

	assert.True(t, g.Empty())
	assert.Empty(t, g.Cells())
	assert.Len(t, g.Table(), 10)
}

func TestIsContinuation(t *testing.T) {
	day := []model.ScheduleEntry{entry("long", model.Monday, "09:00", "11:30")}

	assert.False(t, IsContinuation(day, model.TimeSlot{StartHour: 9, EndHour: 10}))
	assert.True(t, IsContinuation(day, model.TimeSlot{StartHour: 10, EndHour: 11}))
	assert.True(t, IsContinuation(day, model.TimeSlot{StartHour: 11, EndHour: 12}))
	assert.False(t, IsContinuation(day, model.TimeSlot{StartHour: 12, EndHour: 13}))
	assert.False(t, IsContinuation(nil, model.TimeSlot{StartHour: 10, EndHour: 11}))
}

func TestRowspan(t *testing.T) {
	tests := []struct {
		start, end string
		want       int
	}{
		{"09:00", "10:00", 1},
		{"09:00", "10:30", 2},
		{"09:00", "11:00", 2},
		{"09:30", "09:45", 1},
		{"13:00", "16:00", 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Rowspan(entry("x", model.Monday, tt.start, tt.end)), tt.start+"-"+tt.end)
	}
}

func TestTableSuppressesContinuationCells(t *testing.T) {
	slots := model.DefaultTimeSlots()
	idx := New().Index([]model.ScheduleEntry{
		entry("lab", model.Wednesday, "10:00", "12:00"),
		entry("talk", model.Friday, "10:00", "10:45"),
	})

	rows := Plan(idx, slots).Table()
	require.Len(t, rows, len(slots))

	wed := 2
	fri := 4

	ten := rows[slotIndex(t, slots, 10)]
	assert.Equal(t, 2, ten.Cells[wed].Rowspan)
	assert.Equal(t, []string{"lab"}, ids(ten.Cells[wed].Entries))
	assert.Equal(t, 1, ten.Cells[fri].Rowspan)

	eleven := rows[slotIndex(t, slots, 11)]
	assert.True(t, eleven.Cells[wed].Suppressed)
	assert.False(t, eleven.Cells[fri].Suppressed)
	assert.Empty(t, eleven.Cells[fri].Entries)

	twelve := rows[slotIndex(t, slots, 12)]
	assert.False(t, twelve.Cells[wed].Suppressed)
}

func TestTableOrdersRowsByHour(t *testing.T) {
	slots := []model.TimeSlot{{StartHour: 12, EndHour: 13}, {StartHour: 8, EndHour: 9}}

	rows := Plan(New().Index(nil), slots).Table()

	require.Len(t, rows, 2)
	assert.Equal(t, 8, rows[0].Slot.StartHour)
	assert.Equal(t, 12, rows[1].Slot.StartHour)
}
