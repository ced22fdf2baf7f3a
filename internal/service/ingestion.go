package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"fleetenergy/internal/clock"
	"fleetenergy/internal/models"
	"fleetenergy/internal/redisstore"
	"fleetenergy/internal/ws"
)

// IngestionService routes one inbound record through classification, validation
// and the dual write. Any rejection short-circuits before a single write. The two
// writes per record are sequential and non-atomic: a failure between them leaves a
// history row without the matching status overwrite (or the reverse), and no
// compensation is attempted.
type IngestionService struct {
	meters   MeterStore
	vehicles VehicleStore
	cache    *redisstore.StatusCache
	feed     *ws.Hub
	clock    clock.Clock
	logger   *zap.Logger
}

// NewIngestionService builds the router. cache and feed may be nil.
func NewIngestionService(
	meters MeterStore,
	vehicles VehicleStore,
	cache *redisstore.StatusCache,
	feed *ws.Hub,
	clk clock.Clock,
	logger *zap.Logger,
) *IngestionService {
	return &IngestionService{
		meters:   meters,
		vehicles: vehicles,
		cache:    cache,
		feed:     feed,
		clock:    clk,
		logger:   logger,
	}
}

type feedEvent struct {
	Type   Kind        `json:"type"`
	Record interface{} `json:"record"`
}

// IngestRaw classifies a polymorphic payload and ingests it, returning the kind
// that was recognized so the caller can echo it.
func (s *IngestionService) IngestRaw(ctx context.Context, raw []byte) (Kind, error) {
	telemetry, err := Classify(raw)
	if err != nil {
		return "", err
	}
	return telemetry.Kind, s.Ingest(ctx, telemetry)
}

// IngestMeterRaw ingests a payload that must be meter telemetry.
func (s *IngestionService) IngestMeterRaw(ctx context.Context, raw []byte) error {
	return s.ingestRawAs(ctx, raw, KindMeter)
}

// IngestVehicleRaw ingests a payload that must be vehicle telemetry.
func (s *IngestionService) IngestVehicleRaw(ctx context.Context, raw []byte) error {
	return s.ingestRawAs(ctx, raw, KindVehicle)
}

func (s *IngestionService) ingestRawAs(ctx context.Context, raw []byte, kind Kind) error {
	telemetry, err := Classify(raw)
	if err != nil {
		return err
	}
	if telemetry.Kind != kind {
		return fmt.Errorf("%w: expected %s telemetry", ErrInvalidFormat, kind)
	}
	return s.Ingest(ctx, telemetry)
}

// Ingest validates an already classified record and persists it.
func (s *IngestionService) Ingest(ctx context.Context, telemetry Telemetry) error {
	if err := Validate(telemetry, s.clock.Now()); err != nil {
		return err
	}

	switch telemetry.Kind {
	case KindMeter:
		return s.ingestMeter(ctx, telemetry.Meter)
	case KindVehicle:
		return s.ingestVehicle(ctx, telemetry.Vehicle)
	default:
		return ErrInvalidFormat
	}
}

func (s *IngestionService) ingestMeter(ctx context.Context, in *MeterInput) error {
	history := &models.MeterTelemetry{
		MeterID:       in.MeterID,
		KwhConsumedAc: in.KwhConsumedAc,
		Voltage:       in.Voltage,
		Timestamp:     in.Timestamp,
	}
	if err := s.meters.InsertHistory(ctx, history); err != nil {
		return fmt.Errorf("insert meter history: %w", err)
	}

	status := &models.MeterStatus{
		MeterID:       in.MeterID,
		KwhConsumedAc: in.KwhConsumedAc,
		Voltage:       in.Voltage,
		LastTimestamp: in.Timestamp,
	}
	if err := s.meters.ReplaceStatus(ctx, status); err != nil {
		return fmt.Errorf("replace meter status: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SaveMeter(ctx, status); err != nil {
			s.logger.Warn("failed to cache meter status", zap.String("meter_id", in.MeterID), zap.Error(err))
		}
	}
	if s.feed != nil {
		s.feed.Broadcast(feedEvent{Type: KindMeter, Record: history})
	}
	return nil
}

func (s *IngestionService) ingestVehicle(ctx context.Context, in *VehicleInput) error {
	history := &models.VehicleTelemetry{
		VehicleID:      in.VehicleID,
		Soc:            in.Soc,
		KwhDeliveredDc: in.KwhDeliveredDc,
		BatteryTemp:    in.BatteryTemp,
		Timestamp:      in.Timestamp,
	}
	if err := s.vehicles.InsertHistory(ctx, history); err != nil {
		return fmt.Errorf("insert vehicle history: %w", err)
	}

	status := &models.VehicleStatus{
		VehicleID:      in.VehicleID,
		Soc:            in.Soc,
		KwhDeliveredDc: in.KwhDeliveredDc,
		BatteryTemp:    in.BatteryTemp,
		LastTimestamp:  in.Timestamp,
	}
	if err := s.vehicles.ReplaceStatus(ctx, status); err != nil {
		return fmt.Errorf("replace vehicle status: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SaveVehicle(ctx, status); err != nil {
			s.logger.Warn("failed to cache vehicle status", zap.String("vehicle_id", in.VehicleID), zap.Error(err))
		}
	}
	if s.feed != nil {
		s.feed.Broadcast(feedEvent{Type: KindVehicle, Record: history})
	}
	return nil
}
