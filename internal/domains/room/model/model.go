package model

import (
	"hotel/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID            = "id"
	FieldRoomNumber    = "room_number"
	FieldRoomType      = "room_type"
	FieldCapacity      = "capacity"
	FieldPricePerNight = "price_per_night"
	FieldIsAvailable   = "is_available"
	FieldDescription   = "description"
)

type Type string

const (
	TypeSingle Type = "single"
	TypeDouble Type = "double"
	TypeTwin   Type = "twin"
	TypeSuite  Type = "suite"
	TypeDeluxe Type = "deluxe"
	TypeFamily Type = "family"
)

// Room is a bookable unit. IsAvailable is the administrative flag
// (out of service, maintenance); it says nothing about reservations.
type Room struct {
	ID            int64           `db:"id"              insert:"false"`
	RoomNumber    string          `db:"room_number"`
	RoomType      Type            `db:"room_type"`
	Capacity      int             `db:"capacity"`
	PricePerNight decimal.Decimal `db:"price_per_night"`
	IsAvailable   bool            `db:"is_available"`
	Description   string          `db:"description"`
	model.Metadata
}
