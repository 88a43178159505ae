// Hand-maintained counterpart of the injector in wire.go. Running wire in this
// directory replaces it with the generated version.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package di

import (
	"hotel/config"
	"hotel/infras/jwt"
	"hotel/infras/kafka"
	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/infras/redis"
	"hotel/infras/s3"
	"hotel/permissions"
	"hotel/shared/cache"
	"hotel/transport/http"
	"hotel/transport/http/middleware"
	"hotel/transport/http/router"

	authService "hotel/internal/domains/auth/service"
	availabilityService "hotel/internal/domains/availability/service"
	customerRepository "hotel/internal/domains/customer/repository"
	customerService "hotel/internal/domains/customer/service"
	occupancyService "hotel/internal/domains/occupancy/service"
	reservationRepository "hotel/internal/domains/reservation/repository"
	reservationService "hotel/internal/domains/reservation/service"
	roomRepository "hotel/internal/domains/room/repository"
	roomService "hotel/internal/domains/room/service"
	staffRepository "hotel/internal/domains/staff/repository"
	staffService "hotel/internal/domains/staff/service"

	authHandler "hotel/internal/handlers/auth"
	availabilityHandler "hotel/internal/handlers/availability"
	customerHandler "hotel/internal/handlers/customer"
	healthHandler "hotel/internal/handlers/health"
	occupancyHandler "hotel/internal/handlers/occupancy"
	reservationHandler "hotel/internal/handlers/reservation"
	roomHandler "hotel/internal/handlers/room"
	staffHandler "hotel/internal/handlers/staff"
)

func InitializeService() *http.HTTP {
	cfg := config.Get()
	db := postgres.New(cfg)
	tracer := otel.New(cfg)
	signer := jwt.New(cfg)
	redisClient := redis.New(cfg)
	redisCache := cache.NewRedisCache(redisClient, tracer)
	publisher := kafka.New(cfg)
	storage := s3.New(cfg, tracer)

	staffRepo := staffRepository.New(db, tracer)
	roomRepo := roomRepository.New(db, tracer)
	reservationRepo := reservationRepository.New(db, tracer)
	customerRepo := customerRepository.New(db, tracer)

	auth := authService.New(staffRepo, cfg, tracer, signer)
	staff := staffService.New(staffRepo, cfg, redisCache, tracer)
	room := roomService.New(roomRepo, reservationRepo, cfg, redisCache, tracer)
	availability := availabilityService.New(roomRepo, reservationRepo, cfg, tracer)
	customer := customerService.New(customerRepo, reservationRepo, cfg, redisCache, tracer)
	reservation := reservationService.New(reservationRepo, roomRepo, customerRepo, publisher, cfg, redisCache, tracer)
	occupancy := occupancyService.New(roomRepo, reservationRepo, cfg, redisCache, storage, tracer)

	handlers := router.DomainHandlers{
		Auth:         authHandler.New(auth, tracer),
		Staff:        staffHandler.New(staff, tracer),
		Room:         roomHandler.New(room, tracer),
		Availability: availabilityHandler.New(availability, tracer),
		Customer:     customerHandler.New(customer, tracer),
		Reservation:  reservationHandler.New(reservation, tracer),
		Occupancy:    occupancyHandler.New(occupancy, tracer),
	}

	routes := router.New(handlers, healthHandler.New(db, redisClient))
	app := middleware.NewAppMiddleware(tracer, cfg, redisCache)
	authRole := middleware.NewAuthRoleMiddleware(signer, tracer, permissions.Get(), cfg)

	return http.New(cfg, routes, app, authRole)
}
