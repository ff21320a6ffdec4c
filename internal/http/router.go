package http

import "net/http"

type RouterConfig struct {
	Rooms        *RoomHandler
	Reservations *ReservationHandler
	Health       *HealthHandler
	Middleware   []func(http.Handler) http.Handler
}

// NewRouter registers the API routes. Requests with a known path but an
// unsupported method get 405 from the mux.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Rooms != nil {
		mux.HandleFunc("POST /rooms", cfg.Rooms.Create)
		mux.HandleFunc("GET /rooms", cfg.Rooms.List)
		mux.HandleFunc("GET /rooms/search", cfg.Rooms.Search)
		mux.HandleFunc("GET /rooms/{id}", cfg.Rooms.Get)
		mux.HandleFunc("PUT /rooms/{id}", cfg.Rooms.Update)
		mux.HandleFunc("DELETE /rooms/{id}", cfg.Rooms.Delete)
	}

	if cfg.Reservations != nil {
		mux.HandleFunc("GET /rooms/{id}/reservations", cfg.Reservations.List)
		mux.HandleFunc("POST /rooms/{id}/reservations", cfg.Reservations.Create)
	}

	if cfg.Health != nil {
		mux.HandleFunc("GET /healthz", cfg.Health.Check)
	}

	var handler http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}

	return handler
}
