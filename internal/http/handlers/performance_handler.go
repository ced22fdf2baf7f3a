package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"fleetenergy/internal/metrics"
	"fleetenergy/internal/service"
)

// PerformanceHandler serves GET /analytics/performance/{vehicleId}.
type PerformanceHandler struct {
	service *service.AnalyticsService
	logger  *zap.Logger
}

// NewPerformanceHandler returns handler.
func NewPerformanceHandler(svc *service.AnalyticsService, logger *zap.Logger) *PerformanceHandler {
	return &PerformanceHandler{service: svc, logger: logger}
}

// ServeHTTP computes the vehicle's 24-hour performance report.
func (h *PerformanceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	vehicleID := r.PathValue("vehicleId")
	if vehicleID == "" {
		writeError(w, http.StatusBadRequest, "vehicle id is required")
		return
	}

	report, err := h.service.VehiclePerformance(r.Context(), vehicleID)
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			metrics.ObservePerformanceQuery(metrics.ResultNotFound)
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		metrics.ObservePerformanceQuery(metrics.ResultError)
		h.logger.Error("failed to compute vehicle performance", zap.String("vehicle_id", vehicleID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to compute vehicle performance")
		return
	}

	metrics.ObservePerformanceQuery(metrics.ResultOK)
	writeJSON(w, http.StatusOK, report)
}
