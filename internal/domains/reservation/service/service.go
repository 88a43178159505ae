package service

import (
	"context"
	"fmt"
	"hotel/config"
	"hotel/infras/kafka"
	"hotel/infras/otel"
	customerModel "hotel/internal/domains/customer/model"
	customerRepository "hotel/internal/domains/customer/repository"
	"hotel/internal/domains/reservation/model"
	"hotel/internal/domains/reservation/model/dto"
	"hotel/internal/domains/reservation/repository"
	roomModel "hotel/internal/domains/room/model"
	roomRepository "hotel/internal/domains/room/repository"
	"hotel/internal/engine"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/timezone"
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	cacheGetReservation    = constant.CachePrefixReservation + ":get"
	cacheGetAllReservation = constant.CachePrefixReservation + ":gets"
)

const (
	EventCreated       = "reservation.created"
	EventUpdated       = "reservation.updated"
	EventStatusChanged = "reservation.status_changed"
	EventDeleted       = "reservation.deleted"

	headerEventType = "event_type"
)

var (
	ErrRoomBooked      = failure.Conflict("room is already booked for the selected dates")
	ErrRoomOutOfOrder  = failure.Conflict("room is not available for booking")
	ErrStayClosed      = failure.Conflict("checked out or cancelled reservations cannot be changed")
	errRoomNotFound    = failure.NotFound("room not found")
	errCustomerMissing = failure.NotFound("customer not found")
	errNotFound        = failure.NotFound("reservation not found")
)

type Reservation interface {
	Create(ctx context.Context, req dto.CreateReservationRequest) (dto.ReservationResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter dto.Filter) (dto.GetReservationsResponse, error)
	Get(ctx context.Context, id int64) (dto.ReservationResponse, error)
	Update(ctx context.Context, req dto.UpdateReservationRequest, id int64) (dto.ReservationResponse, error)
	UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest, id int64) (dto.ReservationResponse, error)
	Delete(ctx context.Context, id int64) error
	Quote(ctx context.Context, roomID int64, checkIn, checkOut string, excludeReservationID int64) (dto.QuoteResponse, error)
}

type serviceImpl struct {
	repo         repository.Reservation
	roomRepo     roomRepository.Room
	customerRepo customerRepository.Customer
	publisher    kafka.Client
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	repo repository.Reservation,
	roomRepo roomRepository.Room,
	customerRepo customerRepository.Customer,
	publisher kafka.Client,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Reservation {
	return &serviceImpl{
		repo:         repo,
		roomRepo:     roomRepo,
		customerRepo: customerRepo,
		publisher:    publisher,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

// book locks the room row, so concurrent bookings of the same room serialize,
// then checks the stay against the room's active reservations and prices it.
func (s *serviceImpl) book(ctx context.Context, tx *sqlx.Tx, reservation model.Reservation) (decimal.Decimal, error) {
	rooms, err := s.roomRepo.LockTx(ctx, tx, shared.FilterByID(reservation.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to lock room: %w", err)
	}

	if len(rooms) == 0 {
		return decimal.Zero, errRoomNotFound
	}

	if reservation.Status.IsActive() {
		if !rooms[0].IsAvailable {
			return decimal.Zero, ErrRoomOutOfOrder
		}

		held, err := s.repo.GetOverlappingTx(ctx, tx, reservation.CheckInDate, reservation.CheckOutDate, reservation.RoomID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to load overlapping reservations: %w", err)
		}

		free, err := engine.IsRoomFree(reservation.RoomID, held, reservation.CheckInDate, reservation.CheckOutDate, reservation.ID)
		if err != nil {
			return decimal.Zero, err
		}

		if !free {
			return decimal.Zero, ErrRoomBooked
		}
	}

	return engine.CalculateTotalPrice(rooms[0].PricePerNight, reservation.CheckInDate, reservation.CheckOutDate)
}

func (s *serviceImpl) ensureCustomer(ctx context.Context, id int64) error {
	exist, err := s.customerRepo.Exist(ctx, shared.FilterByID(id, customerModel.FieldID, customerModel.TableName))
	if err != nil {
		return fmt.Errorf("failed to check customer: %w", err)
	}

	if !exist {
		return errCustomerMissing
	}

	return nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	stay, err := dto.Stay(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return res, err
	}

	if err = s.ensureCustomer(ctx, req.CustomerID); err != nil {
		return res, err
	}

	reservation := req.ToModel(stay, decimal.Zero, user)

	err = s.repo.Transaction(ctx, func(tx *sqlx.Tx) error {
		price, err := s.book(ctx, tx, reservation)
		if err != nil {
			return err
		}

		reservation.TotalPrice = price

		reservation.ID, err = s.repo.InsertTx(ctx, tx, reservation)
		if err != nil {
			return fmt.Errorf("failed to create reservation: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Int64("room_id", req.RoomID).Msg("failed to create reservation")

		return res, err
	}

	scope.AddEvent("reservation " + strconv.FormatInt(reservation.ID, 10) + " created")

	s.changed(ctx, EventCreated, reservation, user)
	res.FromModel(reservation)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter dto.Filter) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.RestrictSort(s.repo.SortableColumns()...)
	if req.SortBy == constant.Empty {
		req.SortBy, req.SortDir = model.FieldCheckInDate, gDto.SortDirDesc
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllReservation, req, filter.CacheKeys())

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservations")

		return res, nil
	}

	group := filter.ToFilterGroup()

	total, err := s.repo.Count(ctx, group)
	if err != nil {
		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	if filter.WithDetails {
		details, err := s.repo.GetAllDetails(ctx, req, group)
		if err != nil {
			return res, fmt.Errorf("failed to get reservations: %w", err)
		}

		res.FromDetails(details, total, req.Limit)
	} else {
		models, err := s.repo.GetAll(ctx, req, group)
		if err != nil {
			return res, fmt.Errorf("failed to get reservations: %w", err)
		}

		res.FromModels(models, total, req.Limit)
	}

	if err := s.cache.Save(ctx, cacheKey, res, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save reservations to cache")
	}

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id int64) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetReservation, id)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	detail, err := s.repo.GetDetail(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return res, fmt.Errorf("failed to get reservation: %w", err)
	}

	if detail.ID == 0 {
		return res, errNotFound
	}

	res.FromDetail(detail)

	if err := s.cache.Save(ctx, cacheKey, res, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save reservation to cache")
	}

	return res, nil
}

func (s *serviceImpl) current(ctx context.Context, id int64) (model.Reservation, error) {
	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return reservation, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == 0 {
		return reservation, errNotFound
	}

	return reservation, nil
}

// Update reschedules a reservation. A new room or new dates are re-checked and re-priced.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateReservationRequest, id int64) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	current, err := s.current(ctx, id)
	if err != nil {
		return res, err
	}

	if !current.Status.IsActive() && current.Status != model.StatusPending {
		return res, ErrStayClosed
	}

	next, err := req.Apply(current)
	if err != nil {
		return res, err
	}

	if next.CustomerID != current.CustomerID {
		if err = s.ensureCustomer(ctx, next.CustomerID); err != nil {
			return res, err
		}
	}

	fields := map[string]any{
		model.FieldSpecialRequests: next.SpecialRequests,
		model.FieldCustomerID:      next.CustomerID,
		constant.FieldModifiedAt:   timezone.Now(),
		constant.FieldModifiedBy:   user,
	}
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	if !req.Reschedules() {
		if err = s.repo.Update(ctx, fields, filter); err != nil {
			return res, fmt.Errorf("failed to update reservation: %w", err)
		}
	} else {
		err = s.repo.Transaction(ctx, func(tx *sqlx.Tx) error {
			price, err := s.book(ctx, tx, next)
			if err != nil {
				return err
			}

			next.TotalPrice = price
			fields[model.FieldRoomID] = next.RoomID
			fields[model.FieldCheckInDate] = next.CheckInDate
			fields[model.FieldCheckOutDate] = next.CheckOutDate
			fields[model.FieldTotalPrice] = next.TotalPrice

			return s.repo.UpdateTx(ctx, tx, fields, filter)
		})
		if err != nil {
			log.Error().Err(err).Int64("id", id).Msg("failed to reschedule reservation")

			return res, err
		}
	}

	s.changed(ctx, EventUpdated, next, user)
	res.FromModel(next)

	return res, nil
}

// UpdateStatus moves a reservation along its lifecycle. A reservation that starts
// holding its room again (pending to confirmed) is re-checked for conflicts first.
func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest, id int64) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.UpdateStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	current, err := s.current(ctx, id)
	if err != nil {
		return res, err
	}

	if current.Status == req.Status {
		res.FromModel(current)

		return res, nil
	}

	if !current.Status.CanTransitionTo(req.Status) {
		return res, failure.Conflict(fmt.Sprintf("cannot change status from %s to %s", current.Status, req.Status)) //nolint:wrapcheck
	}

	next := current
	next.Status = req.Status

	fields := map[string]any{
		model.FieldStatus:        next.Status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	if next.Status.IsActive() && !current.Status.IsActive() {
		err = s.repo.Transaction(ctx, func(tx *sqlx.Tx) error {
			if _, err := s.book(ctx, tx, next); err != nil {
				return err
			}

			return s.repo.UpdateTx(ctx, tx, fields, filter)
		})
	} else {
		err = s.repo.Update(ctx, fields, filter)
	}

	if err != nil {
		log.Error().Err(err).Int64("id", id).Str("status", string(req.Status)).Msg("failed to change reservation status")

		return res, err
	}

	s.changed(ctx, EventStatusChanged, next, user)
	res.FromModel(next)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	current, err := s.current(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	s.changed(ctx, EventDeleted, current, user)

	return nil
}

// Quote prices a stay and reports whether the room could be booked for it.
func (s *serviceImpl) Quote(ctx context.Context, roomID int64, checkIn, checkOut string, excludeReservationID int64) (res dto.QuoteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Quote")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	stay, err := dto.Stay(checkIn, checkOut)
	if err != nil {
		return res, err
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == 0 {
		return res, errRoomNotFound
	}

	total, err := engine.CalculateTotalPrice(room.PricePerNight, stay.Start, stay.End)
	if err != nil {
		return res, err
	}

	held, err := s.repo.GetOverlapping(ctx, stay.Start, stay.End, roomID)
	if err != nil {
		return res, fmt.Errorf("failed to load overlapping reservations: %w", err)
	}

	free, err := engine.IsRoomFree(roomID, held, stay.Start, stay.End, excludeReservationID)
	if err != nil {
		return res, err
	}

	return dto.NewQuote(room, stay, total, free && room.IsAvailable), nil
}

// changed invalidates the caches that depend on reservations and publishes the event.
func (s *serviceImpl) changed(ctx context.Context, eventType string, reservation model.Reservation, user string) {
	event := dto.Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		ReservationID: reservation.ID,
		RoomID:        reservation.RoomID,
		CustomerID:    reservation.CustomerID,
		CheckInDate:   reservation.CheckInDate.Format(constant.DateFormat),
		CheckOutDate:  reservation.CheckOutDate.Format(constant.DateFormat),
		Status:        reservation.Status,
		TotalPrice:    reservation.TotalPrice,
		Actor:         user,
		OccurredAt:    timezone.Now(),
	}

	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetReservation, reservation.ID)); err != nil {
		log.Error().Err(err).Int64("id", reservation.ID).Msg("failed to delete reservation cache")
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetAllReservation, constant.CachePrefixOccupancy)

	go func() {
		c, scope := s.otel.NewScope(context.WithoutCancel(ctx), constant.OtelEventScopeName, constant.OtelEventScopeName+".reservation."+eventType)
		defer scope.End()

		err := s.publisher.SendMessages(c, s.cfg.Kafka.Topics.Reservation, kafka.Message{
			Key:     strconv.FormatInt(reservation.ID, 10),
			Value:   event,
			Headers: map[string]string{headerEventType: eventType},
		})
		if err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Str("event", eventType).Int64("id", reservation.ID).Msg("failed to publish reservation event")
		}
	}()
}
