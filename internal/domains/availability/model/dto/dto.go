package dto

import (
	roomModel "hotel/internal/domains/room/model"
	roomDto "hotel/internal/domains/room/model/dto"
	"hotel/internal/engine"
	"hotel/shared/constant"

	"github.com/shopspring/decimal"
)

type AvailableRoomsRequest struct {
	CheckInDate          string         `json:"check_in"               validate:"required,date"`
	CheckOutDate         string         `json:"check_out"              validate:"required,date"`
	ExcludeReservationID int64          `json:"exclude_reservation_id" validate:"omitempty,gt=0"`
	RoomType             roomModel.Type `json:"room_type"              validate:"omitempty,oneof=single double twin suite deluxe family"`
	MinCapacity          int            `json:"capacity"               validate:"omitempty,gt=0"`
}

type AvailableRoom struct {
	roomDto.RoomResponse
	TotalPrice decimal.Decimal `json:"total_price"`
}

type AvailableRoomsResponse struct {
	CheckInDate  string          `json:"check_in"`
	CheckOutDate string          `json:"check_out"`
	Nights       int             `json:"nights"`
	Rooms        []AvailableRoom `json:"rooms"`
}

// FromRooms prices every room for the stay. An empty list is a valid answer.
func (r *AvailableRoomsResponse) FromRooms(rooms []roomModel.Room, stay engine.DateRange) error {
	r.CheckInDate = stay.Start.Format(constant.DateFormat)
	r.CheckOutDate = stay.End.Format(constant.DateFormat)
	r.Nights = stay.Nights()
	r.Rooms = make([]AvailableRoom, len(rooms))

	for i, room := range rooms {
		total, err := engine.CalculateTotalPrice(room.PricePerNight, stay.Start, stay.End)
		if err != nil {
			return err
		}

		r.Rooms[i].FromModel(room)
		r.Rooms[i].TotalPrice = total
	}

	return nil
}
