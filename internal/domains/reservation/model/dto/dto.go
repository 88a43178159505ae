package dto

import (
	"hotel/internal/domains/reservation/model"
	roomModel "hotel/internal/domains/room/model"
	"hotel/internal/engine"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Stay parses a pair of YYYY-MM-DD dates into a valid [checkIn, checkOut) range.
func Stay(checkIn, checkOut string) (engine.DateRange, error) {
	in, err := timezone.ParseDate(checkIn)
	if err != nil {
		return engine.DateRange{}, engine.ErrInvalidDateRange
	}

	out, err := timezone.ParseDate(checkOut)
	if err != nil {
		return engine.DateRange{}, engine.ErrInvalidDateRange
	}

	return engine.NewDateRange(in, out)
}

type CreateReservationRequest struct {
	RoomID          int64        `json:"room_id"          validate:"required,gt=0"`
	CustomerID      int64        `json:"customer_id"      validate:"required,gt=0"`
	CheckInDate     string       `json:"check_in_date"    validate:"required,date"`
	CheckOutDate    string       `json:"check_out_date"   validate:"required,date"`
	Status          model.Status `json:"status"           validate:"omitempty,oneof=pending confirmed"`
	SpecialRequests string       `json:"special_requests" validate:"omitempty,max=500"`
}

func (c *CreateReservationRequest) ToModel(stay engine.DateRange, totalPrice decimal.Decimal, user string) model.Reservation {
	status := c.Status
	if status == "" {
		status = model.DefaultStatus
	}

	return model.Reservation{
		RoomID:          c.RoomID,
		CustomerID:      c.CustomerID,
		CheckInDate:     stay.Start,
		CheckOutDate:    stay.End,
		Status:          status,
		TotalPrice:      totalPrice,
		SpecialRequests: c.SpecialRequests,
		Metadata:        gModel.NewMetadata(timezone.Now(), user),
	}
}

// UpdateReservationRequest reschedules a reservation; omitted fields keep their value.
type UpdateReservationRequest struct {
	RoomID          *int64  `json:"room_id"          validate:"omitempty,gt=0"`
	CustomerID      *int64  `json:"customer_id"      validate:"omitempty,gt=0"`
	CheckInDate     string  `json:"check_in_date"    validate:"omitempty,date"`
	CheckOutDate    string  `json:"check_out_date"   validate:"omitempty,date"`
	SpecialRequests *string `json:"special_requests" validate:"omitempty,max=500"`
}

// Apply returns current with the request's changes, without a new price.
func (u *UpdateReservationRequest) Apply(current model.Reservation) (model.Reservation, error) {
	next := current

	if u.RoomID != nil {
		next.RoomID = *u.RoomID
	}

	if u.CustomerID != nil {
		next.CustomerID = *u.CustomerID
	}

	if u.SpecialRequests != nil {
		next.SpecialRequests = *u.SpecialRequests
	}

	checkIn := current.CheckInDate.Format(constant.DateFormat)
	if u.CheckInDate != "" {
		checkIn = u.CheckInDate
	}

	checkOut := current.CheckOutDate.Format(constant.DateFormat)
	if u.CheckOutDate != "" {
		checkOut = u.CheckOutDate
	}

	stay, err := Stay(checkIn, checkOut)
	if err != nil {
		return current, err
	}

	next.CheckInDate, next.CheckOutDate = stay.Start, stay.End

	return next, nil
}

// Reschedules reports whether the request moves the stay to another room or other dates.
func (u *UpdateReservationRequest) Reschedules() bool {
	return u.RoomID != nil || u.CheckInDate != "" || u.CheckOutDate != ""
}

type UpdateStatusRequest struct {
	Status model.Status `json:"status" validate:"required,oneof=pending confirmed checked_in checked_out cancelled"`
}

// Filter narrows reservation listings; zero fields do not filter.
type Filter struct {
	RoomID      int64
	CustomerID  int64
	Status      model.Status
	WithDetails bool
}

func (f Filter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.NewFilterGroup()

	if f.RoomID != 0 {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldRoomID,
			Operator: gDto.FilterOperatorEq,
			Value:    f.RoomID,
			Table:    model.TableName,
		})
	}

	if f.CustomerID != 0 {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldCustomerID,
			Operator: gDto.FilterOperatorEq,
			Value:    f.CustomerID,
			Table:    model.TableName,
		})
	}

	if f.Status != "" {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    f.Status,
			Table:    model.TableName,
		})
	}

	return group
}

func (f Filter) CacheKeys() map[string]string {
	keys := map[string]string{
		constant.RequestParamWithDetails: strconv.FormatBool(f.WithDetails),
	}

	if f.RoomID != 0 {
		keys[model.FieldRoomID] = strconv.FormatInt(f.RoomID, 10)
	}

	if f.CustomerID != 0 {
		keys[model.FieldCustomerID] = strconv.FormatInt(f.CustomerID, 10)
	}

	if f.Status != "" {
		keys[model.FieldStatus] = string(f.Status)
	}

	return keys
}

type RoomSummary struct {
	RoomNumber string `json:"room_number"`
	RoomType   string `json:"room_type"`
}

type CustomerSummary struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

type ReservationResponse struct {
	ID              int64            `json:"id"`
	RoomID          int64            `json:"room_id"`
	CustomerID      int64            `json:"customer_id"`
	CheckInDate     string           `json:"check_in_date"`
	CheckOutDate    string           `json:"check_out_date"`
	Nights          int              `json:"nights"`
	Status          model.Status     `json:"status"`
	TotalPrice      decimal.Decimal  `json:"total_price"`
	SpecialRequests string           `json:"special_requests"`
	Room            *RoomSummary     `json:"room,omitempty"`
	Customer        *CustomerSummary `json:"customer,omitempty"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(model model.Reservation) {
	r.ID = model.ID
	r.RoomID = model.RoomID
	r.CustomerID = model.CustomerID
	r.CheckInDate = model.CheckInDate.Format(constant.DateFormat)
	r.CheckOutDate = model.CheckOutDate.Format(constant.DateFormat)
	r.Nights = engine.Nights(model.CheckInDate, model.CheckOutDate)
	r.Status = model.Status
	r.TotalPrice = model.TotalPrice
	r.SpecialRequests = model.SpecialRequests
	r.Metadata.FromModel(model.Metadata)
}

func (r *ReservationResponse) FromDetail(detail model.ReservationDetail) {
	r.FromModel(detail.Reservation)
	r.Room = &RoomSummary{RoomNumber: detail.RoomNumber, RoomType: detail.RoomType}
	r.Customer = &CustomerSummary{
		FullName: detail.CustomerFirstName + " " + detail.CustomerLastName,
		Email:    detail.CustomerEmail,
	}
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}

func (r *GetReservationsResponse) FromDetails(details []model.ReservationDetail, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(details))
	for i, detail := range details {
		r.Reservations[i].FromDetail(detail)
	}
}

// QuoteResponse previews the price of a stay before it is booked.
type QuoteResponse struct {
	RoomID        int64           `json:"room_id"`
	CheckInDate   string          `json:"check_in_date"`
	CheckOutDate  string          `json:"check_out_date"`
	Nights        int             `json:"nights"`
	PricePerNight decimal.Decimal `json:"price_per_night"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	Available     bool            `json:"available"`
}

func NewQuote(room roomModel.Room, stay engine.DateRange, total decimal.Decimal, available bool) QuoteResponse {
	return QuoteResponse{
		RoomID:        room.ID,
		CheckInDate:   stay.Start.Format(constant.DateFormat),
		CheckOutDate:  stay.End.Format(constant.DateFormat),
		Nights:        stay.Nights(),
		PricePerNight: room.PricePerNight,
		TotalPrice:    total,
		Available:     available,
	}
}

// Event is published on every reservation change.
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	ReservationID int64           `json:"reservation_id"`
	RoomID        int64           `json:"room_id"`
	CustomerID    int64           `json:"customer_id"`
	CheckInDate   string          `json:"check_in_date"`
	CheckOutDate  string          `json:"check_out_date"`
	Status        model.Status    `json:"status"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	Actor         string          `json:"actor"`
	OccurredAt    time.Time       `json:"occurred_at"`
}
