package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"smartlio/internal/database"
	"smartlio/internal/models"
)

// FamilyRepository handles database operations for families
type FamilyRepository struct {
	db database.DBTX
}

// NewFamilyRepository creates a new family repository
func NewFamilyRepository(db database.DBTX) *FamilyRepository {
	return &FamilyRepository{db: db}
}

// CreateFamily inserts a new family and returns it with its generated ID
func (r *FamilyRepository) CreateFamily(ctx context.Context, name string) (*models.Family, error) {
	query, args, err := database.SQL.Insert("families").Columns("name").Values(name).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create family query: %w", err)
	}

	familyID, err := r.db.ExecReturningID(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to create family: %w", err)
	}

	return &models.Family{ID: familyID, Name: name}, nil
}

// InsertFamily stores a family under an existing ID (used by backup import)
func (r *FamilyRepository) InsertFamily(ctx context.Context, family models.Family) error {
	query, args, err := database.SQL.Insert("families").
		Columns("id", "name").
		Values(family.ID, family.Name).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert family query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert family %d: %w", family.ID, err)
	}
	return nil
}

// GetFamilyByID retrieves a family by ID, returning nil when it does not exist
func (r *FamilyRepository) GetFamilyByID(ctx context.Context, familyID int64) (*models.Family, error) {
	query, args, err := database.SQL.Select("id", "name").
		From("families").
		Where(sq.Eq{"id": familyID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get family query: %w", err)
	}

	family := &models.Family{}
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&family.ID, &family.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}

	return family, nil
}

// ListFamilies retrieves every family in creation order
func (r *FamilyRepository) ListFamilies(ctx context.Context) ([]models.Family, error) {
	query, args, err := database.SQL.Select("id", "name").
		From("families").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list families query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query families: %w", err)
	}
	defer rows.Close()

	families := []models.Family{}
	for rows.Next() {
		var family models.Family
		if err := rows.Scan(&family.ID, &family.Name); err != nil {
			return nil, fmt.Errorf("failed to scan family: %w", err)
		}
		families = append(families, family)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating families: %w", err)
	}

	return families, nil
}
