package engine_test

import (
	reservationModel "hotel/internal/domains/reservation/model"
	roomModel "hotel/internal/domains/room/model"
	"hotel/internal/engine"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAvailableRooms(t *testing.T) {
	confirmedRoom4 := stay(1, 4, jan(2), jan(6), reservationModel.StatusConfirmed)

	tests := []struct {
		name         string
		rooms        func() []roomModel.Room
		reservations []reservationModel.Reservation
		checkIn      int
		checkOut     int
		excludeID    int64
		want         []int64
	}{
		{
			name:         "overlapping confirmed stay excludes its room",
			rooms:        fiveRooms,
			reservations: []reservationModel.Reservation{confirmedRoom4},
			checkIn:      3,
			checkOut:     5,
			want:         []int64{1, 2, 3, 5},
		},
		{
			name:         "check-out day is free",
			rooms:        fiveRooms,
			reservations: []reservationModel.Reservation{confirmedRoom4},
			checkIn:      6,
			checkOut:     8,
			want:         []int64{1, 2, 3, 4, 5},
		},
		{
			name:         "stay ending on check-in day is free",
			rooms:        fiveRooms,
			reservations: []reservationModel.Reservation{stay(1, 2, jan(7), jan(9), reservationModel.StatusConfirmed)},
			checkIn:      3,
			checkOut:     7,
			want:         []int64{1, 2, 3, 4, 5},
		},
		{
			name:  "inactive statuses never block",
			rooms: fiveRooms,
			reservations: []reservationModel.Reservation{
				stay(1, 1, jan(1), jan(9), reservationModel.StatusPending),
				stay(2, 2, jan(1), jan(9), reservationModel.StatusCheckedOut),
				stay(3, 3, jan(1), jan(9), reservationModel.StatusCancelled),
			},
			checkIn:  2,
			checkOut: 4,
			want:     []int64{1, 2, 3, 4, 5},
		},
		{
			name:         "checked in stay blocks",
			rooms:        fiveRooms,
			reservations: []reservationModel.Reservation{stay(1, 5, jan(1), jan(3), reservationModel.StatusCheckedIn)},
			checkIn:      2,
			checkOut:     4,
			want:         []int64{1, 2, 3, 4},
		},
		{
			name:         "excluded reservation does not conflict with itself",
			rooms:        fiveRooms,
			reservations: []reservationModel.Reservation{confirmedRoom4},
			checkIn:      3,
			checkOut:     5,
			excludeID:    1,
			want:         []int64{1, 2, 3, 4, 5},
		},
		{
			name: "administratively unavailable room is dropped",
			rooms: func() []roomModel.Room {
				rooms := fiveRooms()
				rooms[1].IsAvailable = false

				return rooms
			},
			checkIn:  1,
			checkOut: 2,
			want:     []int64{1, 3, 4, 5},
		},
		{
			name:  "everything booked yields an empty result",
			rooms: func() []roomModel.Room { return fiveRooms()[:1] },
			reservations: []reservationModel.Reservation{
				stay(1, 1, jan(1), jan(10), reservationModel.StatusConfirmed),
			},
			checkIn:  2,
			checkOut: 3,
			want:     []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.FindAvailableRooms(tt.rooms(), tt.reservations, jan(tt.checkIn), jan(tt.checkOut), tt.excludeID)

			require.NoError(t, err)
			assert.Equal(t, tt.want, roomIDs(got))
		})
	}
}

func TestFindAvailableRooms_InvalidRange(t *testing.T) {
	got, err := engine.FindAvailableRooms(fiveRooms(), nil, jan(5), jan(5), 0)

	assert.ErrorIs(t, err, engine.ErrInvalidDateRange)
	assert.Nil(t, got)

	_, err = engine.FindAvailableRooms(fiveRooms(), nil, jan(6), jan(5), 0)
	assert.ErrorIs(t, err, engine.ErrInvalidDateRange)
}

func TestFindAvailableRooms_AssignedRoomPolicy(t *testing.T) {
	rooms := fiveRooms()
	rooms[3].IsAvailable = false // room 4 taken out of service

	edited := stay(10, 4, jan(3), jan(5), reservationModel.StatusConfirmed)
	other := stay(11, 2, jan(3), jan(5), reservationModel.StatusConfirmed)
	reservations := []reservationModel.Reservation{edited, other}

	tests := []struct {
		name   string
		roomID int64
		policy engine.AssignedRoomPolicy
		want   []int64
	}{
		{name: "none", roomID: 4, policy: engine.AssignedRoomNone, want: []int64{1, 3, 5}},
		{name: "always re-adds disabled room", roomID: 4, policy: engine.AssignedRoomAlways, want: []int64{1, 3, 4, 5}},
		{name: "if free re-adds disabled room", roomID: 4, policy: engine.AssignedRoomIfFree, want: []int64{1, 3, 4, 5}},
		{name: "always re-adds room booked by someone else", roomID: 2, policy: engine.AssignedRoomAlways, want: []int64{1, 2, 3, 5}},
		{name: "if free keeps room booked by someone else out", roomID: 2, policy: engine.AssignedRoomIfFree, want: []int64{1, 3, 5}},
		{name: "unknown room is ignored", roomID: 99, policy: engine.AssignedRoomAlways, want: []int64{1, 3, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.FindAvailableRooms(rooms, reservations, jan(3), jan(5), edited.ID,
				engine.WithAssignedRoom(tt.roomID, tt.policy))

			require.NoError(t, err)
			assert.Equal(t, tt.want, roomIDs(got))
		})
	}
}

func TestParseAssignedRoomPolicy(t *testing.T) {
	for _, value := range []string{"none", "always", "if_free"} {
		policy, err := engine.ParseAssignedRoomPolicy(value)
		require.NoError(t, err)
		assert.Equal(t, engine.AssignedRoomPolicy(value), policy)
	}

	policy, err := engine.ParseAssignedRoomPolicy("")
	require.NoError(t, err)
	assert.Equal(t, engine.AssignedRoomNone, policy)

	_, err = engine.ParseAssignedRoomPolicy("sometimes")
	assert.Error(t, err)
}

func TestFindAvailableRooms_NeverReturnsConflictingRoom(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	statuses := []reservationModel.Status{
		reservationModel.StatusPending,
		reservationModel.StatusConfirmed,
		reservationModel.StatusCheckedIn,
		reservationModel.StatusCheckedOut,
		reservationModel.StatusCancelled,
	}

	for range 200 {
		rooms := fiveRooms()
		for i := range rooms {
			rooms[i].IsAvailable = rng.IntN(5) > 0
		}

		reservations := make([]reservationModel.Reservation, 0, 12)
		for id := int64(1); id <= 12; id++ {
			checkIn := jan(1 + rng.IntN(20))
			reservations = append(reservations, stay(id, 1+rng.Int64N(5), checkIn, checkIn.AddDate(0, 0, 1+rng.IntN(6)), statuses[rng.IntN(len(statuses))]))
		}

		checkIn := jan(1 + rng.IntN(20))
		checkOut := checkIn.AddDate(0, 0, 1+rng.IntN(5))

		got, err := engine.FindAvailableRooms(rooms, reservations, checkIn, checkOut, 0)
		require.NoError(t, err)

		for _, room := range got {
			assert.True(t, room.IsAvailable)

			for _, reservation := range reservations {
				if reservation.RoomID != room.ID || !reservation.Status.IsActive() {
					continue
				}

				overlaps, err := engine.Overlaps(reservation.CheckInDate, reservation.CheckOutDate, checkIn, checkOut)
				require.NoError(t, err)
				assert.False(t, overlaps, "room %d returned despite reservation %d", room.ID, reservation.ID)
			}
		}
	}
}

func TestIsRoomFree(t *testing.T) {
	reservations := []reservationModel.Reservation{stay(1, 4, jan(2), jan(6), reservationModel.StatusConfirmed)}

	free, err := engine.IsRoomFree(4, reservations, jan(3), jan(4), 0)
	require.NoError(t, err)
	assert.False(t, free)

	free, err = engine.IsRoomFree(4, reservations, jan(3), jan(4), 1)
	require.NoError(t, err)
	assert.True(t, free)

	free, err = engine.IsRoomFree(4, reservations, jan(6), jan(7), 0)
	require.NoError(t, err)
	assert.True(t, free)

	_, err = engine.IsRoomFree(4, reservations, jan(7), jan(6), 0)
	assert.ErrorIs(t, err, engine.ErrInvalidDateRange)
}

func TestBookedRoomIDs_SkipsMalformedStays(t *testing.T) {
	period, err := engine.NewDateRange(jan(1), jan(10))
	require.NoError(t, err)

	booked := engine.BookedRoomIDs([]reservationModel.Reservation{
		stay(1, 1, jan(5), jan(5), reservationModel.StatusConfirmed),
		stay(2, 2, jan(6), jan(4), reservationModel.StatusConfirmed),
		stay(3, 3, jan(2), jan(3), reservationModel.StatusConfirmed),
	}, period, 0)

	assert.Equal(t, map[int64]struct{}{3: {}}, booked)
}
