package repository

import (
	"context"
	"fmt"

	"smartlio/internal/database"
	"smartlio/internal/models"
)

// HelplineRepository handles database operations for emergency helplines
type HelplineRepository struct {
	db database.DBTX
}

// NewHelplineRepository creates a new helpline repository
func NewHelplineRepository(db database.DBTX) *HelplineRepository {
	return &HelplineRepository{db: db}
}

// ListHelplines retrieves every helpline in storage order
func (r *HelplineRepository) ListHelplines(ctx context.Context) ([]models.Helpline, error) {
	query, args, err := database.SQL.Select("id", "name", "phone", "lat", "lon", "type").
		From("helplines").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list helplines query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query helplines: %w", err)
	}
	defer rows.Close()

	helplines := []models.Helpline{}
	for rows.Next() {
		var h models.Helpline
		if err := rows.Scan(&h.ID, &h.Name, &h.Phone, &h.Lat, &h.Lon, &h.Type); err != nil {
			return nil, fmt.Errorf("failed to scan helpline: %w", err)
		}
		helplines = append(helplines, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating helplines: %w", err)
	}

	return helplines, nil
}

// InsertHelpline stores a helpline under an existing ID (used by backup import)
func (r *HelplineRepository) InsertHelpline(ctx context.Context, h models.Helpline) error {
	query, args, err := database.SQL.Insert("helplines").
		Columns("id", "name", "phone", "lat", "lon", "type").
		Values(h.ID, h.Name, h.Phone, h.Lat, h.Lon, h.Type).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert helpline query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert helpline %d: %w", h.ID, err)
	}
	return nil
}
