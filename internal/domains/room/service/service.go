package service

import (
	"context"
	"fmt"
	"hotel/config"
	"hotel/infras/otel"
	reservationModel "hotel/internal/domains/reservation/model"
	reservationRepository "hotel/internal/domains/reservation/repository"
	"hotel/internal/domains/room/model"
	"hotel/internal/domains/room/model/dto"
	"hotel/internal/domains/room/repository"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetRoom    = constant.CachePrefixRoom + ":get"
	cacheGetAllRoom = constant.CachePrefixRoom + ":gets"
	cacheCountRoom  = constant.CachePrefixRoom + ":count"
)

var errRoomNumberTaken = failure.Conflict("room number already exists")

type Room interface {
	Create(ctx context.Context, req dto.CreateRoomRequest) (int64, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter dto.Filter) (dto.GetRoomsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter dto.Filter) (int, error)
	Get(ctx context.Context, id int64) (dto.RoomResponse, error)
	Update(ctx context.Context, req dto.UpdateRoomRequest, id int64) error
	Delete(ctx context.Context, id int64) error
}

type serviceImpl struct {
	repo            repository.Room
	reservationRepo reservationRepository.Reservation
	cfg             *config.Config
	cache           cache.RedisCache
	otel            otel.Otel
}

func New(
	repo repository.Room,
	reservationRepo reservationRepository.Reservation,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Room {
	return &serviceImpl{
		repo:            repo,
		reservationRepo: reservationRepo,
		cfg:             cfg,
		cache:           cache,
		otel:            otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRoomRequest) (id int64, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	taken, err := s.repo.Exist(ctx, gDto.NewFilterGroup(gDto.Filter{
		Field:    model.FieldRoomNumber,
		Operator: gDto.FilterOperatorEq,
		Value:    req.RoomNumber,
		Table:    model.TableName,
	}))
	if err != nil {
		return 0, fmt.Errorf("failed to check room number: %w", err)
	}

	if taken {
		return 0, errRoomNumberTaken
	}

	id, err = s.repo.Insert(ctx, req.ToModel(user))
	if err != nil {
		if shared.IsPqError(err, constant.PqErrorCodeUniqueViolation) {
			return 0, errRoomNumberTaken
		}

		return 0, fmt.Errorf("failed to create room: %w", err)
	}

	s.invalidate(ctx, 0)

	return id, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter dto.Filter) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.RestrictSort(s.repo.SortableColumns()...)
	if req.SortBy == constant.Empty {
		req.SortBy, req.SortDir = model.FieldRoomNumber, gDto.SortDirAsc
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllRoom, req, filter.CacheKeys())

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for rooms")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter.ToFilterGroup(req.Search))
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	if err := s.cache.Save(ctx, cacheKey, res, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save rooms to cache")
	}

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter dto.Filter) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountRoom, gDto.QueryParams{Search: req.Search}, filter.CacheKeys())

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter.ToFilterGroup(req.Search))
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	if err := s.cache.Save(ctx, cacheKey, res, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save room count to cache")
	}

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id int64) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetRoom, id)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room")

		return res, nil
	}

	room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == 0 {
		return res, failure.NotFound("room not found") //nolint:wrapcheck
	}

	res.FromModel(room)

	if err := s.cache.Save(ctx, cacheKey, res, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save room to cache")
	}

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRoomRequest, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to check room existence: %w", err)
	}

	if current.ID == 0 {
		return failure.NotFound("room not found") //nolint:wrapcheck
	}

	if req.RoomNumber == current.RoomNumber {
		req.RoomNumber = constant.Empty
	}

	if req.RoomNumber != constant.Empty {
		taken, err := s.repo.Exist(ctx, gDto.NewFilterGroup(gDto.Filter{
			Field:    model.FieldRoomNumber,
			Operator: gDto.FilterOperatorEq,
			Value:    req.RoomNumber,
			Table:    model.TableName,
		}))
		if err != nil {
			return fmt.Errorf("failed to check room number: %w", err)
		}

		if taken {
			return errRoomNumberTaken
		}
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), filter); err != nil {
		if shared.IsPqError(err, constant.PqErrorCodeUniqueViolation) {
			return errRoomNumberTaken
		}

		log.Error().Err(err).Int64("id", id).Msg("failed to update room")

		return fmt.Errorf("failed to update room: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// Delete refuses to remove a room that any reservation still references.
func (s *serviceImpl) Delete(ctx context.Context, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to check if room exists: %w", err)
	}

	if !exist {
		return failure.NotFound("room not found") //nolint:wrapcheck
	}

	referenced, err := s.reservationRepo.Exist(ctx, shared.FilterByID(id, reservationModel.FieldRoomID, reservationModel.TableName))
	if err != nil {
		return fmt.Errorf("failed to check room reservations: %w", err)
	}

	if referenced {
		return failure.Conflict("room has reservations and cannot be deleted") //nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		if shared.IsPqError(err, constant.PqErrorCodeFkViolation) {
			return failure.Conflict("room has reservations and cannot be deleted") //nolint:wrapcheck
		}

		log.Error().Err(err).Int64("id", id).Msg("failed to delete room")

		return fmt.Errorf("failed to delete room: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// invalidate drops the room listings and the occupancy figures, which count every room.
func (s *serviceImpl) invalidate(ctx context.Context, id int64) {
	if id != 0 {
		if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetRoom, id)); err != nil {
			log.Error().Err(err).Int64("id", id).Msg("failed to delete room cache")
		}
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetAllRoom, cacheCountRoom, constant.CachePrefixOccupancy)
}
