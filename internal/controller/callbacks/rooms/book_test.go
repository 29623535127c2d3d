package rooms

import (
	"testing"

	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/state"
	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectRoom(t *testing.T) {
	sm := state.NewAdapter(state.NewManager())
	found := []model.Room{
		{ID: "r1", RoomNumber: "A-101", Capacity: 4},
		{ID: "r2", RoomNumber: "A-102", Capacity: 6},
	}
	sm.SetData(42, state.KeySearchResults, found)

	room, err := SelectRoom(sm, 42, 2)

	require.NoError(t, err)
	assert.Equal(t, "r2", room.ID)
	assert.Equal(t, callbacktypes.UserState(state.StateEnteringPurpose), sm.GetState(42))

	stored, ok := sm.GetData(42, state.KeyBookingRoom)
	require.True(t, ok)
	assert.Equal(t, found[1], stored)
}

func TestSelectRoomWithoutSearch(t *testing.T) {
	sm := state.NewAdapter(state.NewManager())

	_, err := SelectRoom(sm, 42, 1)

	assert.ErrorIs(t, err, common.ErrNoSearch)
	assert.Equal(t, callbacktypes.UserState(state.StateNone), sm.GetState(42))
}

func TestSelectRoomOutOfRange(t *testing.T) {
	sm := state.NewAdapter(state.NewManager())
	sm.SetData(42, state.KeySearchResults, []model.Room{{ID: "r1"}})

	_, err := SelectRoom(sm, 42, 3)

	assert.ErrorIs(t, err, common.ErrInvalidFormat)
}

func TestPurposePrompt(t *testing.T) {
	text := PurposePrompt(model.Room{RoomNumber: "B-201", Capacity: 21})

	assert.Contains(t, text, "B-201")
	assert.Contains(t, text, "21 место")
}
