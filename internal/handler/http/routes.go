package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withLogging)

	router.Route("/api", func(r chi.Router) {
		r.Route("/buildings", func(r chi.Router) {
			r.Post("/", h.createBuilding)
			r.Get("/", h.listBuildings)
			r.Patch("/", h.setBuildingActive)
			r.Get("/{buildingID}", h.getBuilding)
			r.Put("/{buildingID}", h.updateBuilding)
		})

		r.Route("/rooms", func(r chi.Router) {
			r.Post("/", h.createRoom)
			r.Get("/", h.listRooms)
			r.Patch("/", h.setRoomActive)
			r.Get("/{roomID}", h.getRoom)
			r.Put("/{roomID}", h.updateRoom)
			r.Get("/{roomID}/prices", h.getRoomPrices)
		})

		r.Route("/tenants", func(r chi.Router) {
			r.Post("/", h.createTenant)
			r.Get("/", h.listTenants)
			r.Patch("/", h.setTenantActive)
			r.Get("/{tenantID}", h.getTenant)
			r.Put("/{tenantID}", h.updateTenant)
		})

		r.Route("/room-facilities", func(r chi.Router) {
			r.Post("/", h.createFacility)
			r.Get("/", h.listFacilities)
			r.Patch("/", h.setFacilityActive)
			r.Get("/{facilityID}", h.getFacility)
			r.Put("/{facilityID}", h.updateFacility)
		})

		r.Route("/meters", func(r chi.Router) {
			r.Post("/", h.createMeter)
			r.Get("/", h.listMeters)
			r.Post("/{meterID}/close", h.closeMeter)
		})

		r.Route("/main-meters", func(r chi.Router) {
			r.Post("/", h.createMainMeter)
			r.Get("/", h.listMainMeters)
			r.Patch("/", h.setMainMeterActive)
		})
	})

	return router
}
