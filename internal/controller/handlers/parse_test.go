package handlers

import (
	"testing"
	"time"

	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/Freeeeeet/campusroom_bot/internal/timetable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 4, 22, 30, 0, 0, time.FixedZone("MSK", 3*60*60))

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"dotted", "05.03.2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"iso", "2024-03-06", time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)},
		{"short year", "07.03.24", time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)},
		{"day and month", "11.03", time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)},
		{"today", "Сегодня", time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)},
		{"tomorrow", "tomorrow", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input, now)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseDateInvalid(t *testing.T) {
	_, err := ParseDate("вчера-ish", now)

	var verr *timetable.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "date", verr.Field)
}

func TestParseSearchArgs(t *testing.T) {
	q, err := ParseSearchArgs(commandArgs("/search 05.03.2024 9:00 10:30 20 лекционная"), now)

	require.NoError(t, err)
	assert.Equal(t, "9:00", q.StartTime)
	assert.Equal(t, "10:30", q.EndTime)
	assert.Equal(t, 20, q.MinCapacity)
	assert.Equal(t, string(model.RoomTypeLectureHall), q.Type)
}

func TestParseSearchArgsMultiWordType(t *testing.T) {
	q, err := ParseSearchArgs([]string{"завтра", "09:00", "10:00", "4", "Study", "Room"}, now)

	require.NoError(t, err)
	assert.Equal(t, "Study Room", q.Type)
}

func TestParseSearchArgsErrors(t *testing.T) {
	_, err := ParseSearchArgs([]string{"05.03.2024", "09:00"}, now)
	assert.ErrorIs(t, err, ErrUsage)

	_, err = ParseSearchArgs([]string{"05.03.2024", "09:00", "10:00", "много"}, now)
	var verr *timetable.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "minCapacity", verr.Field)
}

func TestParseClassArgs(t *testing.T) {
	raw, err := ParseClassArgs(commandArgs("/addclass среда 9:00 10:30 Линейная алгебра @ B-201"))

	require.NoError(t, err)
	assert.Equal(t, string(model.Wednesday), raw.Day)
	assert.Equal(t, "9:00", raw.StartTime)
	assert.Equal(t, "Линейная алгебра", raw.Name)
	assert.Equal(t, "B-201", raw.Location)
}

func TestParseClassArgsEnglishDay(t *testing.T) {
	raw, err := ParseClassArgs([]string{"friday", "14:00", "15:00", "Seminar"})

	require.NoError(t, err)
	assert.Equal(t, string(model.Friday), raw.Day)
	assert.Empty(t, raw.Location)
}

func TestParseClassArgsUnknownDay(t *testing.T) {
	_, err := ParseClassArgs([]string{"суббота", "10:00", "11:00", "Спорт"})

	assert.ErrorIs(t, err, ErrUsage)
}
