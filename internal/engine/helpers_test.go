package engine_test

import (
	"fmt"
	reservationModel "hotel/internal/domains/reservation/model"
	roomModel "hotel/internal/domains/room/model"
	"time"

	"github.com/shopspring/decimal"
)

func jan(day int) time.Time {
	return time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC)
}

func fiveRooms() []roomModel.Room {
	rooms := make([]roomModel.Room, 0, 5)
	for id := int64(1); id <= 5; id++ {
		rooms = append(rooms, roomModel.Room{
			ID:            id,
			RoomNumber:    fmt.Sprintf("10%d", id),
			RoomType:      roomModel.TypeDouble,
			Capacity:      2,
			PricePerNight: decimal.NewFromInt(100),
			IsAvailable:   true,
		})
	}

	return rooms
}

func stay(id, roomID int64, checkIn, checkOut time.Time, status reservationModel.Status) reservationModel.Reservation {
	return reservationModel.Reservation{
		ID:           id,
		RoomID:       roomID,
		CustomerID:   1,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		Status:       status,
	}
}

func roomIDs(rooms []roomModel.Room) []int64 {
	ids := make([]int64, 0, len(rooms))
	for _, room := range rooms {
		ids = append(ids, room.ID)
	}

	return ids
}
