package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"fleetenergy/internal/metrics"
	"fleetenergy/internal/service"
)

const maxBodyBytes = 1 << 20

// TelemetryHandler serves the ingestion endpoints.
type TelemetryHandler struct {
	service *service.IngestionService
	logger  *zap.Logger
}

// NewTelemetryHandler returns handler.
func NewTelemetryHandler(svc *service.IngestionService, logger *zap.Logger) *TelemetryHandler {
	return &TelemetryHandler{service: svc, logger: logger}
}

// HandleTelemetry handles POST /ingestion/telemetry, accepting either kind and
// echoing which one was classified.
func (h *TelemetryHandler) HandleTelemetry(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	start := time.Now()
	kind, err := h.service.IngestRaw(r.Context(), body)
	if err != nil {
		h.rejectIngest(w, string(kind), err, time.Since(start))
		return
	}
	metrics.ObserveIngest(string(kind), metrics.ResultAccepted, time.Since(start).Seconds())

	writeJSON(w, http.StatusAccepted, map[string]string{
		"message": "Telemetry ingested successfully",
		"type":    string(kind),
	})
}

// HandleMeter handles POST /ingestion/meter.
func (h *TelemetryHandler) HandleMeter(w http.ResponseWriter, r *http.Request) {
	h.handleKind(w, r, service.KindMeter, "Meter telemetry ingested successfully", h.service.IngestMeterRaw)
}

// HandleVehicle handles POST /ingestion/vehicle.
func (h *TelemetryHandler) HandleVehicle(w http.ResponseWriter, r *http.Request) {
	h.handleKind(w, r, service.KindVehicle, "Vehicle telemetry ingested successfully", h.service.IngestVehicleRaw)
}

func (h *TelemetryHandler) handleKind(
	w http.ResponseWriter,
	r *http.Request,
	kind service.Kind,
	message string,
	ingest func(ctx context.Context, raw []byte) error,
) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	start := time.Now()
	if err := ingest(r.Context(), body); err != nil {
		h.rejectIngest(w, string(kind), err, time.Since(start))
		return
	}
	metrics.ObserveIngest(string(kind), metrics.ResultAccepted, time.Since(start).Seconds())

	writeJSON(w, http.StatusAccepted, map[string]string{"message": message})
}

func (h *TelemetryHandler) rejectIngest(w http.ResponseWriter, kind string, err error, elapsed time.Duration) {
	if isClientError(err) {
		metrics.ObserveIngest(kind, metrics.ResultRejected, elapsed.Seconds())
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	metrics.ObserveIngest(kind, metrics.ResultError, elapsed.Seconds())
	h.logger.Error("failed to ingest telemetry", zap.String("kind", kind), zap.Error(err))
	writeError(w, http.StatusInternalServerError, "failed to ingest telemetry")
}

func isClientError(err error) bool {
	return errors.Is(err, service.ErrInvalidFormat) ||
		errors.Is(err, service.ErrOutOfWindow) ||
		errors.Is(err, service.ErrFieldOutOfRange)
}
