package router

import (
	"hotel/internal/handlers/auth"
	"hotel/internal/handlers/availability"
	"hotel/internal/handlers/customer"
	"hotel/internal/handlers/health"
	"hotel/internal/handlers/occupancy"
	"hotel/internal/handlers/reservation"
	"hotel/internal/handlers/room"
	"hotel/internal/handlers/staff"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth         auth.Handler
	Staff        staff.Handler
	Room         room.Handler
	Availability availability.Handler
	Customer     customer.Handler
	Reservation  reservation.Handler
	Occupancy    occupancy.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	Health         health.Handler
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Get("/health", r.Health.Check)

	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.Staff.Router(routerGroup)
		r.DomainHandlers.Availability.Router(routerGroup)
		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Customer.Router(routerGroup)
		r.DomainHandlers.Reservation.Router(routerGroup)
		r.DomainHandlers.Occupancy.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, health health.Handler) Router {
	return Router{
		DomainHandlers: domainHandlers,
		Health:         health,
	}
}
