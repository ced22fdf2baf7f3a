package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"fleetenergy/internal/models"
)

var errStoreDown = errors.New("store unavailable")

type fakeMeterStore struct {
	history  []models.MeterTelemetry
	statuses map[string]models.MeterStatus

	insertErr  error
	replaceErr error
	listErr    error
}

func newFakeMeterStore() *fakeMeterStore {
	return &fakeMeterStore{statuses: make(map[string]models.MeterStatus)}
}

func (f *fakeMeterStore) InsertHistory(_ context.Context, t *models.MeterTelemetry) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	t.ID = fmt.Sprintf("m-%d", len(f.history)+1)
	t.CreatedAt = time.Now().UTC()
	f.history = append(f.history, *t)
	return nil
}

func (f *fakeMeterStore) ReplaceStatus(_ context.Context, s *models.MeterStatus) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.statuses[s.MeterID] = *s
	return nil
}

func (f *fakeMeterStore) ListBetween(_ context.Context, from, to time.Time) ([]models.MeterTelemetry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.MeterTelemetry
	for _, rec := range f.history {
		if !rec.Timestamp.Before(from) && !rec.Timestamp.After(to) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

type fakeVehicleStore struct {
	history  []models.VehicleTelemetry
	statuses map[string]models.VehicleStatus

	insertErr  error
	replaceErr error
	listErr    error
	statusErr  error
}

func newFakeVehicleStore() *fakeVehicleStore {
	return &fakeVehicleStore{statuses: make(map[string]models.VehicleStatus)}
}

func (f *fakeVehicleStore) InsertHistory(_ context.Context, t *models.VehicleTelemetry) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	t.ID = fmt.Sprintf("v-%d", len(f.history)+1)
	t.CreatedAt = time.Now().UTC()
	f.history = append(f.history, *t)
	return nil
}

func (f *fakeVehicleStore) ReplaceStatus(_ context.Context, s *models.VehicleStatus) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.statuses[s.VehicleID] = *s
	return nil
}

func (f *fakeVehicleStore) StatusByID(_ context.Context, vehicleID string) (*models.VehicleStatus, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	s, ok := f.statuses[vehicleID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeVehicleStore) ListByVehicleBetween(_ context.Context, vehicleID string, from, to time.Time) ([]models.VehicleTelemetry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.VehicleTelemetry
	for _, rec := range f.history {
		if rec.VehicleID != vehicleID {
			continue
		}
		if !rec.Timestamp.Before(from) && !rec.Timestamp.After(to) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}
