package services

import (
	"context"
	"encoding/json"

	"desynflow-backend/internal/cache"
	"desynflow-backend/internal/models"
	"desynflow-backend/internal/repositories"
)

type InspectorLocationService struct {
	Repo *repositories.InspectorLocationRepository
}

func NewInspectorLocationService(repo *repositories.InspectorLocationRepository) *InspectorLocationService {
	return &InspectorLocationService{Repo: repo}
}

// Update overwrites the inspector's position. Each write invalidates the
// snapshot cache so dashboards see the move on the next poll.
func (s *InspectorLocationService) Update(ctx context.Context, inspectorID int, req *models.UpdateLocationRequest) (*models.InspectorLocation, error) {
	if req.Latitude < -90 || req.Latitude > 90 {
		return nil, badInputf("latitude must be between -90 and 90")
	}
	if req.Longitude < -180 || req.Longitude > 180 {
		return nil, badInputf("longitude must be between -180 and 180")
	}
	switch req.Availability {
	case models.AvailabilityAvailable, models.AvailabilityBusy, models.AvailabilityOffline:
	case "":
		req.Availability = models.AvailabilityAvailable
	default:
		return nil, badInputf("availability must be available, busy, or offline")
	}

	loc := &models.InspectorLocation{
		InspectorID:  inspectorID,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Availability: req.Availability,
	}
	if err := s.Repo.Upsert(ctx, loc); err != nil {
		return nil, err
	}
	cache.InvalidateLocations(ctx)
	return loc, nil
}

// SetAvailability flips just the availability flag, used by the assignment
// flow.
func (s *InspectorLocationService) SetAvailability(ctx context.Context, inspectorID int, availability string) error {
	if err := s.Repo.SetAvailability(ctx, inspectorID, availability); err != nil {
		return err
	}
	cache.InvalidateLocations(ctx)
	return nil
}

// Snapshot returns all inspector positions, served from the short-lived
// Redis cache when warm. The poller and the REST endpoint share it.
func (s *InspectorLocationService) Snapshot(ctx context.Context) ([]models.InspectorLocation, error) {
	if data, ok := cache.GetCachedLocations(ctx); ok {
		var locations []models.InspectorLocation
		if err := json.Unmarshal(data, &locations); err == nil {
			return locations, nil
		}
	}

	rows, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}

	locations := make([]models.InspectorLocation, 0, len(rows))
	for _, row := range rows {
		locations = append(locations, *row)
	}

	if data, err := json.Marshal(locations); err == nil {
		cache.CacheLocations(ctx, data)
	}
	return locations, nil
}

// ListAvailable returns inspectors free for assignment.
func (s *InspectorLocationService) ListAvailable(ctx context.Context) ([]*models.InspectorLocation, error) {
	return s.Repo.ListAvailable(ctx)
}
