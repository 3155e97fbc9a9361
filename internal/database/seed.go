package database

import (
	"context"
	"fmt"
)

type helplineSeed struct {
	name, phone, kind string
	lat, lon          float64
}

// demoHelplines are the emergency contacts every fresh store starts with
var demoHelplines = []helplineSeed{
	{name: "Central Police Station", phone: "100", lat: 22.7196, lon: 75.8577, kind: "police"},
	{name: "City Ambulance", phone: "108", lat: 22.7210, lon: 75.8565, kind: "ambulance"},
	{name: "Fire Station", phone: "101", lat: 22.7226, lon: 75.8607, kind: "fire"},
}

// SeedHelplines inserts the demo helplines when the helplines table is empty.
// It returns the number of rows inserted, which is zero on every run after the first.
// The count check is not guarded against concurrent initializers.
func (db *DB) SeedHelplines(ctx context.Context) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM helplines").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to check helplines count: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insert := SQL.Insert("helplines").Columns("name", "phone", "lat", "lon", "type")
	for _, h := range demoHelplines {
		insert = insert.Values(h.name, h.phone, h.lat, h.lon, h.kind)
	}
	query, args, err := insert.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build helpline seed: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("failed to seed helplines: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return len(demoHelplines), nil
}
