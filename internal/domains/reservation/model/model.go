package model

import (
	"hotel/shared/model"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID              = "id"
	FieldRoomID          = "room_id"
	FieldCustomerID      = "customer_id"
	FieldCheckInDate     = "check_in_date"
	FieldCheckOutDate    = "check_out_date"
	FieldStatus          = "status"
	FieldTotalPrice      = "total_price"
	FieldSpecialRequests = "special_requests"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusCancelled  Status = "cancelled"

	DefaultStatus = StatusConfirmed
)

var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn:  {StatusCheckedOut},
	StatusCheckedOut: nil,
	StatusCancelled:  nil,
}

// ActiveStatuses are the statuses that hold a room.
func ActiveStatuses() []Status {
	return []Status{StatusConfirmed, StatusCheckedIn}
}

// IsActive reports whether a reservation in this status blocks its room.
func (s Status) IsActive() bool {
	return s == StatusConfirmed || s == StatusCheckedIn
}

func (s Status) IsValid() bool {
	_, ok := transitions[s]

	return ok
}

// CanTransitionTo reports whether the front desk may move a reservation from s to next.
func (s Status) CanTransitionTo(next Status) bool {
	return slices.Contains(transitions[s], next)
}

// Reservation dates are calendar days; the stay covers [CheckInDate, CheckOutDate).
type Reservation struct {
	ID              int64           `db:"id"               insert:"false"`
	RoomID          int64           `db:"room_id"`
	CustomerID      int64           `db:"customer_id"`
	CheckInDate     time.Time       `db:"check_in_date"`
	CheckOutDate    time.Time       `db:"check_out_date"`
	Status          Status          `db:"status"`
	TotalPrice      decimal.Decimal `db:"total_price"`
	SpecialRequests string          `db:"special_requests"`
	model.Metadata
}

// ReservationDetail is a reservation joined with its room and customer.
type ReservationDetail struct {
	Reservation
	RoomNumber        string `db:"room_number"         table:"rooms"     column:"room_number"`
	RoomType          string `db:"room_type"           table:"rooms"     column:"room_type"`
	CustomerFirstName string `db:"customer_first_name" table:"customers" column:"first_name"`
	CustomerLastName  string `db:"customer_last_name"  table:"customers" column:"last_name"`
	CustomerEmail     string `db:"customer_email"      table:"customers" column:"email"`
}

func (ReservationDetail) GetJoinQuery() string {
	return "JOIN rooms ON rooms.id = reservations.room_id JOIN customers ON customers.id = reservations.customer_id"
}
