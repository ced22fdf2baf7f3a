package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"fleetenergy/internal/clock"
	"fleetenergy/internal/models"
	"fleetenergy/internal/redisstore"
)

// PerformanceWindow is the trailing interval aggregated by vehicle performance queries.
const PerformanceWindow = 24 * time.Hour

// Efficiency tiers. Each tier's lower bound is inclusive.
const (
	EfficiencyOptimal  = "optimal"
	EfficiencyWarning  = "warning"
	EfficiencyCritical = "critical"
)

// ClassifyEfficiency maps a DC/AC ratio to its tier.
func ClassifyEfficiency(ratio float64) string {
	switch {
	case ratio >= 0.85:
		return EfficiencyOptimal
	case ratio >= 0.75:
		return EfficiencyWarning
	default:
		return EfficiencyCritical
	}
}

// Period is the aggregation window echoed in the report.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// EnergySummary carries the window's energy totals. TotalConsumedAc sums every
// meter in the fleet for the window, so EfficiencyRatio is a fleet-wide
// approximation rather than a per-vehicle figure.
type EnergySummary struct {
	TotalConsumedAc  float64 `json:"totalConsumedAc"`
	TotalDeliveredDc float64 `json:"totalDeliveredDc"`
	EfficiencyRatio  float64 `json:"efficiencyRatio"`
}

// BatterySummary carries battery metrics; CurrentSoc is nil when the window
// holds no vehicle records.
type BatterySummary struct {
	AverageTemp float64  `json:"averageTemp"`
	CurrentSoc  *float64 `json:"currentSoc"`
}

// RecordSummary counts the vehicle's records and classifies the window.
type RecordSummary struct {
	TotalRecords     int    `json:"totalRecords"`
	EfficiencyStatus string `json:"efficiencyStatus"`
}

// PerformanceReport is the answer to a vehicle performance query.
type PerformanceReport struct {
	VehicleID string         `json:"vehicleId"`
	Period    Period         `json:"period"`
	Energy    EnergySummary  `json:"energy"`
	Battery   BatterySummary `json:"battery"`
	Summary   RecordSummary  `json:"summary"`
}

// AnalyticsService answers point-in-time questions about a vehicle's trailing
// 24-hour charging efficiency. It is strictly read-only against the store.
type AnalyticsService struct {
	vehicles VehicleStore
	meters   MeterStore
	cache    *redisstore.StatusCache
	clock    clock.Clock
	logger   *zap.Logger
}

// NewAnalyticsService builds the aggregator. cache may be nil.
func NewAnalyticsService(
	vehicles VehicleStore,
	meters MeterStore,
	cache *redisstore.StatusCache,
	clk clock.Clock,
	logger *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		vehicles: vehicles,
		meters:   meters,
		cache:    cache,
		clock:    clk,
		logger:   logger,
	}
}

// VehiclePerformance aggregates the vehicle's last 24 hours. Unknown vehicles
// yield ErrVehicleNotFound; a known vehicle with an empty window yields the
// zeroed optimal report.
func (s *AnalyticsService) VehiclePerformance(ctx context.Context, vehicleID string) (*PerformanceReport, error) {
	status, err := s.currentStatus(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("load vehicle status: %w", err)
	}
	if status == nil {
		return nil, fmt.Errorf("%w: %s", ErrVehicleNotFound, vehicleID)
	}

	window := clock.Lookback(s.clock, PerformanceWindow)

	vehicleRecords, err := s.vehicles.ListByVehicleBetween(ctx, vehicleID, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("load vehicle history: %w", err)
	}
	if len(vehicleRecords) == 0 {
		return emptyReport(vehicleID, window), nil
	}

	var totalDelivered, totalTemp float64
	for _, rec := range vehicleRecords {
		totalDelivered += rec.KwhDeliveredDc
		totalTemp += rec.BatteryTemp
	}
	averageTemp := totalTemp / float64(len(vehicleRecords))

	// No per-vehicle meter correlation yet: every meter reading in the window
	// counts, so the consumption side is a fleet-wide approximation.
	meterRecords, err := s.meters.ListBetween(ctx, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("load meter history: %w", err)
	}
	var totalConsumed float64
	for _, rec := range meterRecords {
		totalConsumed += rec.KwhConsumedAc
	}

	ratio := 0.0
	if totalConsumed > 0 {
		ratio = totalDelivered / totalConsumed
	}

	soc := status.Soc
	return &PerformanceReport{
		VehicleID: vehicleID,
		Period:    Period{Start: window.Start, End: window.End},
		Energy: EnergySummary{
			TotalConsumedAc:  round(totalConsumed, 3),
			TotalDeliveredDc: round(totalDelivered, 3),
			EfficiencyRatio:  round(ratio, 4),
		},
		Battery: BatterySummary{
			AverageTemp: round(averageTemp, 2),
			CurrentSoc:  &soc,
		},
		Summary: RecordSummary{
			TotalRecords:     len(vehicleRecords),
			EfficiencyStatus: ClassifyEfficiency(ratio),
		},
	}, nil
}

// currentStatus reads through the cache before hitting Postgres. Cache failures
// degrade to the database, never to an error.
func (s *AnalyticsService) currentStatus(ctx context.Context, vehicleID string) (*models.VehicleStatus, error) {
	if s.cache != nil {
		cached, err := s.cache.GetVehicle(ctx, vehicleID)
		if err != nil {
			s.logger.Warn("vehicle status cache read failed", zap.String("vehicle_id", vehicleID), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}
	return s.vehicles.StatusByID(ctx, vehicleID)
}

func emptyReport(vehicleID string, window clock.Window) *PerformanceReport {
	return &PerformanceReport{
		VehicleID: vehicleID,
		Period:    Period{Start: window.Start, End: window.End},
		Energy:    EnergySummary{},
		Battery:   BatterySummary{CurrentSoc: nil},
		Summary: RecordSummary{
			TotalRecords:     0,
			EfficiencyStatus: EfficiencyOptimal,
		},
	}
}

// round is presentation-only; classification and ratio math run on raw values.
func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
