package httpserver

import "net/http"

// Routes groups the service's endpoints. Nil entries are not registered.
type Routes struct {
	IngestTelemetry http.Handler
	IngestMeter     http.Handler
	IngestVehicle   http.Handler
	Performance     http.Handler
	Health          http.Handler
	Metrics         http.Handler
	Stream          http.Handler
}

// NewRouter registers endpoints. When auth is non-nil it guards the ingestion
// and analytics routes; health, metrics and the live feed stay open.
func NewRouter(routes Routes, auth func(http.Handler) http.Handler) http.Handler {
	guard := func(h http.Handler) http.Handler {
		if auth != nil {
			return auth(h)
		}
		return h
	}

	mux := http.NewServeMux()
	if routes.IngestTelemetry != nil {
		mux.Handle("/ingestion/telemetry", method(http.MethodPost, guard(routes.IngestTelemetry)))
	}
	if routes.IngestMeter != nil {
		mux.Handle("/ingestion/meter", method(http.MethodPost, guard(routes.IngestMeter)))
	}
	if routes.IngestVehicle != nil {
		mux.Handle("/ingestion/vehicle", method(http.MethodPost, guard(routes.IngestVehicle)))
	}
	if routes.Performance != nil {
		mux.Handle("/analytics/performance/{vehicleId}", method(http.MethodGet, guard(routes.Performance)))
	}
	if routes.Health != nil {
		mux.Handle("/health", method(http.MethodGet, routes.Health))
	}
	if routes.Metrics != nil {
		mux.Handle("/metrics", method(http.MethodGet, routes.Metrics))
	}
	if routes.Stream != nil {
		mux.Handle("/ingestion/stream", method(http.MethodGet, routes.Stream))
	}
	return mux
}

func method(expected string, handler http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	}
}
