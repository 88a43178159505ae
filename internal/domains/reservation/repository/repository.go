package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/internal/domains/reservation/model"
	gDto "hotel/shared/dto"
	gRepo "hotel/shared/repository"
	"time"

	"github.com/jmoiron/sqlx"
)

type Reservation interface {
	Transaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error
	Insert(ctx context.Context, model model.Reservation) (int64, error)
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Reservation) (int64, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Reservation, error)
	GetDetail(ctx context.Context, filter gDto.FilterGroup) (model.ReservationDetail, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Reservation, error)
	GetAllDetails(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.ReservationDetail, error)
	GetOverlapping(ctx context.Context, start, end time.Time, roomIDs ...int64) ([]model.Reservation, error)
	GetOverlappingTx(ctx context.Context, tx *sqlx.Tx, start, end time.Time, roomIDs ...int64) ([]model.Reservation, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	SortableColumns() []string
}

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
	details gRepo.Repository[model.ReservationDetail]
}

func New(db *postgres.Connection, otel otel.Otel) Reservation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, db, otel),
		details:    gRepo.NewRepository[model.ReservationDetail](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

// OverlapFilter matches active reservations whose stay intersects [start, end),
// optionally restricted to roomIDs.
func OverlapFilter(start, end time.Time, roomIDs ...int64) gDto.FilterGroup {
	filter := gDto.NewFilterGroup(
		gDto.Filter{
			ArgName:  "range_end",
			Field:    model.FieldCheckInDate,
			Operator: gDto.FilterOperatorLess,
			Value:    end,
			Table:    model.TableName,
		},
		gDto.Filter{
			ArgName:  "range_start",
			Field:    model.FieldCheckOutDate,
			Operator: gDto.FilterOperatorGreater,
			Value:    start,
			Table:    model.TableName,
		},
		gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorIn,
			Value:    model.ActiveStatuses(),
			Table:    model.TableName,
		},
	)

	if len(roomIDs) > 0 {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldRoomID,
			Operator: gDto.FilterOperatorIn,
			Value:    roomIDs,
			Table:    model.TableName,
		})
	}

	return filter
}

func (r *repositoryImpl) GetDetail(ctx context.Context, filter gDto.FilterGroup) (model.ReservationDetail, error) {
	return r.details.Get(ctx, filter)
}

func (r *repositoryImpl) GetAllDetails(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.ReservationDetail, error) {
	return r.details.GetAll(ctx, params, filter)
}

func (r *repositoryImpl) GetOverlapping(ctx context.Context, start, end time.Time, roomIDs ...int64) ([]model.Reservation, error) {
	return r.GetAll(ctx, gDto.QueryParams{}, OverlapFilter(start, end, roomIDs...))
}

func (r *repositoryImpl) GetOverlappingTx(ctx context.Context, tx *sqlx.Tx, start, end time.Time, roomIDs ...int64) ([]model.Reservation, error) {
	return r.GetAllTx(ctx, tx, gDto.QueryParams{}, OverlapFilter(start, end, roomIDs...))
}
