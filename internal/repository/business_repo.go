package repository

import (
	"context"
	"fmt"

	"smartlio/internal/database"
	"smartlio/internal/models"
)

// BusinessRepository handles database operations for listed businesses
type BusinessRepository struct {
	db database.DBTX
}

// NewBusinessRepository creates a new business repository
func NewBusinessRepository(db database.DBTX) *BusinessRepository {
	return &BusinessRepository{db: db}
}

// CreateBusiness inserts a business and returns it with its generated ID
func (r *BusinessRepository) CreateBusiness(ctx context.Context, b models.Business) (*models.Business, error) {
	query, args, err := database.SQL.Insert("businesses").
		Columns("name", "type", "lat", "lon", "description").
		Values(b.Name, b.Type, b.Lat, b.Lon, b.Description).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create business query: %w", err)
	}

	id, err := r.db.ExecReturningID(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to create business: %w", err)
	}

	b.ID = id
	return &b, nil
}

// InsertBusiness stores a business under an existing ID (used by backup import)
func (r *BusinessRepository) InsertBusiness(ctx context.Context, b models.Business) error {
	query, args, err := database.SQL.Insert("businesses").
		Columns("id", "name", "type", "lat", "lon", "description").
		Values(b.ID, b.Name, b.Type, b.Lat, b.Lon, b.Description).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert business query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert business %d: %w", b.ID, err)
	}
	return nil
}

// ListBusinesses retrieves every business in creation order
func (r *BusinessRepository) ListBusinesses(ctx context.Context) ([]models.Business, error) {
	query, args, err := database.SQL.Select("id", "name", "type", "lat", "lon", "description").
		From("businesses").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list businesses query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query businesses: %w", err)
	}
	defer rows.Close()

	businesses := []models.Business{}
	for rows.Next() {
		var b models.Business
		if err := rows.Scan(&b.ID, &b.Name, &b.Type, &b.Lat, &b.Lon, &b.Description); err != nil {
			return nil, fmt.Errorf("failed to scan business: %w", err)
		}
		businesses = append(businesses, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating businesses: %w", err)
	}

	return businesses, nil
}
