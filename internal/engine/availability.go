package engine

import (
	"fmt"
	reservationModel "hotel/internal/domains/reservation/model"
	roomModel "hotel/internal/domains/room/model"
	"time"
)

// AssignedRoomPolicy decides whether a reservation's current room is offered
// back while that reservation is being edited.
type AssignedRoomPolicy string

const (
	// AssignedRoomNone returns the resolver output unchanged.
	AssignedRoomNone AssignedRoomPolicy = "none"
	// AssignedRoomAlways re-adds the current room even when another stay now occupies it.
	AssignedRoomAlways AssignedRoomPolicy = "always"
	// AssignedRoomIfFree re-adds the current room only when no other active stay overlaps it,
	// i.e. when it was dropped for its administrative flag alone.
	AssignedRoomIfFree AssignedRoomPolicy = "if_free"
)

// ParseAssignedRoomPolicy reads a policy name; the empty string means AssignedRoomNone.
func ParseAssignedRoomPolicy(value string) (AssignedRoomPolicy, error) {
	switch policy := AssignedRoomPolicy(value); policy {
	case "":
		return AssignedRoomNone, nil
	case AssignedRoomNone, AssignedRoomAlways, AssignedRoomIfFree:
		return policy, nil
	default:
		return AssignedRoomNone, fmt.Errorf("unknown assigned room policy %q", value)
	}
}

type resolveOptions struct {
	assignedRoomID int64
	policy         AssignedRoomPolicy
}

type Option func(*resolveOptions)

// WithAssignedRoom applies policy to roomID, the room the edited reservation currently holds.
func WithAssignedRoom(roomID int64, policy AssignedRoomPolicy) Option {
	return func(o *resolveOptions) {
		o.assignedRoomID = roomID
		o.policy = policy
	}
}

func stayOf(reservation reservationModel.Reservation) (DateRange, bool) {
	stay := DateRange{Start: Day(reservation.CheckInDate), End: Day(reservation.CheckOutDate)}

	return stay, stay.End.After(stay.Start)
}

// BookedRoomIDs returns the rooms held by active reservations overlapping stay.
// A reservation whose id equals excludeReservationID is ignored; 0 excludes nothing.
func BookedRoomIDs(reservations []reservationModel.Reservation, stay DateRange, excludeReservationID int64) map[int64]struct{} {
	booked := make(map[int64]struct{})

	for _, reservation := range reservations {
		if !reservation.Status.IsActive() {
			continue
		}

		if excludeReservationID != 0 && reservation.ID == excludeReservationID {
			continue
		}

		if resStay, ok := stayOf(reservation); ok && resStay.Overlaps(stay) {
			booked[reservation.RoomID] = struct{}{}
		}
	}

	return booked
}

// FindAvailableRooms returns, in input order, the rooms that are administratively
// available and not held by an active reservation overlapping [checkIn, checkOut).
// An empty result is a valid answer.
func FindAvailableRooms(
	rooms []roomModel.Room,
	reservations []reservationModel.Reservation,
	checkIn, checkOut time.Time,
	excludeReservationID int64,
	opts ...Option,
) ([]roomModel.Room, error) {
	stay, err := NewDateRange(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	options := resolveOptions{policy: AssignedRoomNone}
	for _, opt := range opts {
		opt(&options)
	}

	booked := BookedRoomIDs(reservations, stay, excludeReservationID)

	available := make([]roomModel.Room, 0, len(rooms))

	for _, room := range rooms {
		_, isBooked := booked[room.ID]

		switch {
		case room.IsAvailable && !isBooked:
			available = append(available, room)
		case room.ID == options.assignedRoomID && options.assignedRoomID != 0:
			if options.policy == AssignedRoomAlways || (options.policy == AssignedRoomIfFree && !isBooked) {
				available = append(available, room)
			}
		}
	}

	return available, nil
}

// IsRoomFree reports whether no active reservation other than excludeReservationID
// holds roomID during [checkIn, checkOut). The administrative flag is not consulted.
func IsRoomFree(roomID int64, reservations []reservationModel.Reservation, checkIn, checkOut time.Time, excludeReservationID int64) (bool, error) {
	stay, err := NewDateRange(checkIn, checkOut)
	if err != nil {
		return false, err
	}

	_, booked := BookedRoomIDs(reservations, stay, excludeReservationID)[roomID]

	return !booked, nil
}
