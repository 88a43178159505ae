package dto

import (
	"hotel/internal/domains/room/model"
	"hotel/shared"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"
	"strconv"

	"github.com/shopspring/decimal"
)

type CreateRoomRequest struct {
	RoomNumber    string           `json:"room_number"     validate:"required,max=20"`
	RoomType      model.Type       `json:"room_type"       validate:"required,oneof=single double twin suite deluxe family"`
	Capacity      int              `json:"capacity"        validate:"required,gt=0"`
	PricePerNight *decimal.Decimal `json:"price_per_night" validate:"required,money"`
	IsAvailable   *bool            `json:"is_available"    validate:"omitempty"`
	Description   string           `json:"description"     validate:"omitempty,max=500"`
}

func (c *CreateRoomRequest) ToModel(user string) model.Room {
	isAvailable := true
	if c.IsAvailable != nil {
		isAvailable = *c.IsAvailable
	}

	return model.Room{
		RoomNumber:    c.RoomNumber,
		RoomType:      c.RoomType,
		Capacity:      c.Capacity,
		PricePerNight: *c.PricePerNight,
		IsAvailable:   isAvailable,
		Description:   c.Description,
		Metadata:      gModel.NewMetadata(timezone.Now(), user),
	}
}

type UpdateRoomRequest struct {
	RoomNumber    string           `db:"room_number"     json:"room_number"     validate:"omitempty,max=20"`
	RoomType      model.Type       `db:"room_type"       json:"room_type"       validate:"omitempty,oneof=single double twin suite deluxe family"`
	Capacity      *int             `db:"capacity"        json:"capacity"        validate:"omitempty,gt=0"`
	PricePerNight *decimal.Decimal `db:"price_per_night" json:"price_per_night" validate:"omitempty,money"`
	IsAvailable   *bool            `db:"is_available"    json:"is_available"    validate:"omitempty"`
	Description   *string          `db:"description"     json:"description"     validate:"omitempty,max=500"`
}

// Filter narrows room listings; zero fields do not filter.
type Filter struct {
	RoomType    model.Type
	IsAvailable *bool
	MinCapacity int
}

func (f Filter) ToFilterGroup(search string) gDto.FilterGroup {
	group := gDto.NewFilterGroup()

	if search != "" {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldRoomNumber,
			Operator: gDto.FilterOperatorLike,
			Value:    search,
			Table:    model.TableName,
		})
	}

	if f.RoomType != "" {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldRoomType,
			Operator: gDto.FilterOperatorEq,
			Value:    f.RoomType,
			Table:    model.TableName,
		})
	}

	if f.IsAvailable != nil {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldIsAvailable,
			Operator: gDto.FilterOperatorEq,
			Value:    *f.IsAvailable,
			Table:    model.TableName,
		})
	}

	if f.MinCapacity > 0 {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldCapacity,
			Operator: gDto.FilterOperatorGreaterEq,
			Value:    f.MinCapacity,
			Table:    model.TableName,
		})
	}

	return group
}

// CacheKeys lists the set filters for a cache key.
func (f Filter) CacheKeys() map[string]string {
	keys := map[string]string{}

	if f.RoomType != "" {
		keys[model.FieldRoomType] = string(f.RoomType)
	}

	if f.IsAvailable != nil {
		keys[model.FieldIsAvailable] = strconv.FormatBool(*f.IsAvailable)
	}

	if f.MinCapacity > 0 {
		keys[model.FieldCapacity] = strconv.Itoa(f.MinCapacity)
	}

	return keys
}

type RoomResponse struct {
	ID            int64           `json:"id"`
	RoomNumber    string          `json:"room_number"`
	RoomType      model.Type      `json:"room_type"`
	Capacity      int             `json:"capacity"`
	PricePerNight decimal.Decimal `json:"price_per_night"`
	IsAvailable   bool            `json:"is_available"`
	Description   string          `json:"description"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.RoomNumber = model.RoomNumber
	r.RoomType = model.RoomType
	r.Capacity = model.Capacity
	r.PricePerNight = model.PricePerNight
	r.IsAvailable = model.IsAvailable
	r.Description = model.Description
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
