package repositories

import (
	"context"

	"desynflow-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type InspectorLocationRepository struct {
	DB *pgxpool.Pool
}

func NewInspectorLocationRepository(db *pgxpool.Pool) *InspectorLocationRepository {
	return &InspectorLocationRepository{DB: db}
}

// Upsert overwrites the inspector's current position. One row per inspector.
func (r *InspectorLocationRepository) Upsert(ctx context.Context, loc *models.InspectorLocation) error {
	query := `
		INSERT INTO inspector_locations (inspector_id, latitude, longitude, availability, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (inspector_id)
		DO UPDATE SET latitude = EXCLUDED.latitude,
		              longitude = EXCLUDED.longitude,
		              availability = EXCLUDED.availability,
		              updated_at = NOW()
		RETURNING id, updated_at
	`
	return r.DB.QueryRow(ctx, query,
		loc.InspectorID, loc.Latitude, loc.Longitude, loc.Availability,
	).Scan(&loc.ID, &loc.UpdatedAt)
}

func (r *InspectorLocationRepository) SetAvailability(ctx context.Context, inspectorID int, availability string) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE inspector_locations SET availability = $2, updated_at = NOW()
		WHERE inspector_id = $1
	`, inspectorID, availability)
	return err
}

func (r *InspectorLocationRepository) List(ctx context.Context) ([]*models.InspectorLocation, error) {
	// JOIN with users for the inspector profile shown on the dashboard map
	query := `
		SELECT il.id, il.inspector_id, COALESCE(u.name, ''), il.latitude, il.longitude, il.availability, il.updated_at
		FROM inspector_locations il
		LEFT JOIN users u ON il.inspector_id = u.id
		ORDER BY u.name
	`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []*models.InspectorLocation
	for rows.Next() {
		loc := &models.InspectorLocation{}
		err := rows.Scan(&loc.ID, &loc.InspectorID, &loc.InspectorName,
			&loc.Latitude, &loc.Longitude, &loc.Availability, &loc.UpdatedAt)
		if err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}
	return locations, nil
}

func (r *InspectorLocationRepository) ListAvailable(ctx context.Context) ([]*models.InspectorLocation, error) {
	query := `
		SELECT il.id, il.inspector_id, COALESCE(u.name, ''), il.latitude, il.longitude, il.availability, il.updated_at
		FROM inspector_locations il
		LEFT JOIN users u ON il.inspector_id = u.id
		WHERE il.availability = 'available'
		ORDER BY u.name
	`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []*models.InspectorLocation
	for rows.Next() {
		loc := &models.InspectorLocation{}
		err := rows.Scan(&loc.ID, &loc.InspectorID, &loc.InspectorName,
			&loc.Latitude, &loc.Longitude, &loc.Availability, &loc.UpdatedAt)
		if err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}
	return locations, nil
}
