package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fleetenergy/internal/clock"
	"fleetenergy/internal/models"
)

func newAnalytics(vehicles *fakeVehicleStore, meters *fakeMeterStore, clk clock.Clock) *AnalyticsService {
	return NewAnalyticsService(vehicles, meters, nil, clk, zap.NewNop())
}

func TestClassifyEfficiency(t *testing.T) {
	cases := []struct {
		ratio float64
		want  string
	}{
		{1.0, EfficiencyOptimal},
		{0.85, EfficiencyOptimal},
		{0.8499, EfficiencyWarning},
		{0.80, EfficiencyWarning},
		{0.75, EfficiencyWarning},
		{0.7499, EfficiencyCritical},
		{0.5, EfficiencyCritical},
		{0, EfficiencyCritical},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyEfficiency(tc.ratio), "ratio %v", tc.ratio)
	}
}

func TestVehiclePerformanceUnknownVehicle(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	svc := newAnalytics(newFakeVehicleStore(), newFakeMeterStore(), clock.NewFixed(now))

	_, err := svc.VehiclePerformance(context.Background(), "ghost")

	require.ErrorIs(t, err, ErrVehicleNotFound)
	assert.Contains(t, err.Error(), "ghost")
}

func TestVehiclePerformanceEmptyWindow(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	vehicles := newFakeVehicleStore()
	vehicles.statuses["V1"] = models.VehicleStatus{
		VehicleID:     "V1",
		Soc:           64,
		LastTimestamp: now.Add(-48 * time.Hour),
	}

	svc := newAnalytics(vehicles, newFakeMeterStore(), clock.NewFixed(now))
	report, err := svc.VehiclePerformance(context.Background(), "V1")

	require.NoError(t, err)
	assert.Equal(t, "V1", report.VehicleID)
	assert.True(t, report.Period.Start.Equal(now.Add(-24*time.Hour)))
	assert.True(t, report.Period.End.Equal(now))
	assert.Zero(t, report.Energy.TotalConsumedAc)
	assert.Zero(t, report.Energy.TotalDeliveredDc)
	assert.Zero(t, report.Energy.EfficiencyRatio)
	assert.Zero(t, report.Battery.AverageTemp)
	// No data defaults to optimal with a null SoC; deliberate policy, not evidence.
	assert.Nil(t, report.Battery.CurrentSoc)
	assert.Zero(t, report.Summary.TotalRecords)
	assert.Equal(t, EfficiencyOptimal, report.Summary.EfficiencyStatus)
}

func TestVehiclePerformanceEndToEnd(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	meters := newFakeMeterStore()
	vehicles := newFakeVehicleStore()
	clk := clock.NewFixed(now)

	ingest := newIngestion(meters, vehicles, clk)
	require.NoError(t, ingest.IngestVehicleRaw(context.Background(), vehicleJSON("V1", 80, 10, 30, now)))
	require.NoError(t, ingest.IngestMeterRaw(context.Background(), meterJSON("M1", 12, 230, now)))

	svc := newAnalytics(vehicles, meters, clk)
	report, err := svc.VehiclePerformance(context.Background(), "V1")

	require.NoError(t, err)
	assert.Equal(t, 10.0, report.Energy.TotalDeliveredDc)
	assert.Equal(t, 12.0, report.Energy.TotalConsumedAc)
	assert.Equal(t, 0.8333, report.Energy.EfficiencyRatio)
	assert.Equal(t, EfficiencyWarning, report.Summary.EfficiencyStatus)
	assert.Equal(t, 1, report.Summary.TotalRecords)
	assert.Equal(t, 30.0, report.Battery.AverageTemp)
	require.NotNil(t, report.Battery.CurrentSoc)
	assert.Equal(t, 80.0, *report.Battery.CurrentSoc)
}

func TestVehiclePerformanceAggregation(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	t.Run("two vehicle records sum and average", func(t *testing.T) {
		vehicles := newFakeVehicleStore()
		vehicles.statuses["V1"] = models.VehicleStatus{VehicleID: "V1", Soc: 75}
		vehicles.history = []models.VehicleTelemetry{
			{VehicleID: "V1", Soc: 70, KwhDeliveredDc: 4, BatteryTemp: 28, Timestamp: now.Add(-2 * time.Hour)},
			{VehicleID: "V1", Soc: 75, KwhDeliveredDc: 6, BatteryTemp: 32, Timestamp: now.Add(-1 * time.Hour)},
		}
		meters := newFakeMeterStore()
		meters.history = []models.MeterTelemetry{
			{MeterID: "M1", KwhConsumedAc: 11, Voltage: 230, Timestamp: now.Add(-90 * time.Minute)},
		}

		svc := newAnalytics(vehicles, meters, clock.NewFixed(now))
		report, err := svc.VehiclePerformance(context.Background(), "V1")

		require.NoError(t, err)
		assert.Equal(t, 10.0, report.Energy.TotalDeliveredDc)
		assert.Equal(t, 30.0, report.Battery.AverageTemp)
		assert.Equal(t, 2, report.Summary.TotalRecords)
	})

	t.Run("meter sum is fleet-wide, not filtered by mapping", func(t *testing.T) {
		vehicles := newFakeVehicleStore()
		vehicles.statuses["V1"] = models.VehicleStatus{VehicleID: "V1", Soc: 75}
		vehicles.history = []models.VehicleTelemetry{
			{VehicleID: "V1", Soc: 75, KwhDeliveredDc: 9, BatteryTemp: 30, Timestamp: now.Add(-time.Hour)},
		}
		meters := newFakeMeterStore()
		meters.history = []models.MeterTelemetry{
			{MeterID: "M1", KwhConsumedAc: 6, Voltage: 230, Timestamp: now.Add(-time.Hour)},
			{MeterID: "M2", KwhConsumedAc: 4, Voltage: 230, Timestamp: now.Add(-30 * time.Minute)},
		}

		svc := newAnalytics(vehicles, meters, clock.NewFixed(now))
		report, err := svc.VehiclePerformance(context.Background(), "V1")

		require.NoError(t, err)
		assert.Equal(t, 10.0, report.Energy.TotalConsumedAc)
		assert.Equal(t, 0.9, report.Energy.EfficiencyRatio)
		assert.Equal(t, EfficiencyOptimal, report.Summary.EfficiencyStatus)
	})

	t.Run("records outside the 24h window are excluded", func(t *testing.T) {
		vehicles := newFakeVehicleStore()
		vehicles.statuses["V1"] = models.VehicleStatus{VehicleID: "V1", Soc: 75}
		vehicles.history = []models.VehicleTelemetry{
			{VehicleID: "V1", Soc: 60, KwhDeliveredDc: 99, BatteryTemp: 10, Timestamp: now.Add(-25 * time.Hour)},
			{VehicleID: "V1", Soc: 75, KwhDeliveredDc: 5, BatteryTemp: 30, Timestamp: now.Add(-time.Hour)},
		}
		meters := newFakeMeterStore()
		meters.history = []models.MeterTelemetry{
			{MeterID: "M1", KwhConsumedAc: 50, Voltage: 230, Timestamp: now.Add(-26 * time.Hour)},
			{MeterID: "M1", KwhConsumedAc: 5, Voltage: 230, Timestamp: now.Add(-time.Hour)},
		}

		svc := newAnalytics(vehicles, meters, clock.NewFixed(now))
		report, err := svc.VehiclePerformance(context.Background(), "V1")

		require.NoError(t, err)
		assert.Equal(t, 5.0, report.Energy.TotalDeliveredDc)
		assert.Equal(t, 5.0, report.Energy.TotalConsumedAc)
		assert.Equal(t, 1, report.Summary.TotalRecords)
	})

	t.Run("zero consumption yields zero ratio and critical status", func(t *testing.T) {
		vehicles := newFakeVehicleStore()
		vehicles.statuses["V1"] = models.VehicleStatus{VehicleID: "V1", Soc: 75}
		vehicles.history = []models.VehicleTelemetry{
			{VehicleID: "V1", Soc: 75, KwhDeliveredDc: 5, BatteryTemp: 30, Timestamp: now.Add(-time.Hour)},
		}

		svc := newAnalytics(vehicles, newFakeMeterStore(), clock.NewFixed(now))
		report, err := svc.VehiclePerformance(context.Background(), "V1")

		require.NoError(t, err)
		assert.Zero(t, report.Energy.EfficiencyRatio)
		assert.Equal(t, EfficiencyCritical, report.Summary.EfficiencyStatus)
	})
}

func TestVehiclePerformanceRounding(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	vehicles := newFakeVehicleStore()
	vehicles.statuses["V1"] = models.VehicleStatus{VehicleID: "V1", Soc: 81.25}
	vehicles.history = []models.VehicleTelemetry{
		{VehicleID: "V1", Soc: 80, KwhDeliveredDc: 3.33335, BatteryTemp: 29.777, Timestamp: now.Add(-3 * time.Hour)},
		{VehicleID: "V1", Soc: 81, KwhDeliveredDc: 3.33335, BatteryTemp: 30.222, Timestamp: now.Add(-2 * time.Hour)},
	}
	meters := newFakeMeterStore()
	meters.history = []models.MeterTelemetry{
		{MeterID: "M1", KwhConsumedAc: 7.7777, Voltage: 230, Timestamp: now.Add(-2 * time.Hour)},
	}

	svc := newAnalytics(vehicles, meters, clock.NewFixed(now))
	report, err := svc.VehiclePerformance(context.Background(), "V1")

	require.NoError(t, err)
	assert.Equal(t, 6.667, report.Energy.TotalDeliveredDc)
	assert.Equal(t, 7.778, report.Energy.TotalConsumedAc)
	assert.Equal(t, 0.8572, report.Energy.EfficiencyRatio)
	assert.Equal(t, 30.0, report.Battery.AverageTemp)
	// Classification runs on the unrounded ratio.
	assert.Equal(t, EfficiencyOptimal, report.Summary.EfficiencyStatus)
}

func TestVehiclePerformanceStorageFailures(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	t.Run("vehicle history failure propagates", func(t *testing.T) {
		vehicles := newFakeVehicleStore()
		vehicles.statuses["V1"] = models.VehicleStatus{VehicleID: "V1"}
		vehicles.listErr = errStoreDown

		svc := newAnalytics(vehicles, newFakeMeterStore(), clock.NewFixed(now))
		_, err := svc.VehiclePerformance(context.Background(), "V1")

		assert.ErrorIs(t, err, errStoreDown)
	})

	t.Run("meter history failure propagates", func(t *testing.T) {
		vehicles := newFakeVehicleStore()
		vehicles.statuses["V1"] = models.VehicleStatus{VehicleID: "V1"}
		vehicles.history = []models.VehicleTelemetry{
			{VehicleID: "V1", Soc: 75, KwhDeliveredDc: 5, BatteryTemp: 30, Timestamp: now.Add(-time.Hour)},
		}
		meters := newFakeMeterStore()
		meters.listErr = errStoreDown

		svc := newAnalytics(vehicles, meters, clock.NewFixed(now))
		_, err := svc.VehiclePerformance(context.Background(), "V1")

		assert.ErrorIs(t, err, errStoreDown)
	})
}
