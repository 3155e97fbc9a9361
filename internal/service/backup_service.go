package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"smartlio/internal/database"
	"smartlio/internal/models"
	"smartlio/internal/repository"
)

// BackupVersion identifies the layout written by Export
const BackupVersion = "1.0"

// BackupData represents the complete database backup structure
type BackupData struct {
	Version      string            `json:"version"`
	ExportedAt   time.Time         `json:"exported_at"`
	DatabaseType string            `json:"database_type"`
	Families     []models.Family   `json:"families"`
	Members      []MemberBackup    `json:"members"`
	Helplines    []models.Helpline `json:"helplines"`
	Businesses   []models.Business `json:"businesses"`
}

// MemberBackup is the unredacted stored form of a member
type MemberBackup struct {
	ID       int64    `json:"id"`
	FamilyID int64    `json:"family_id"`
	Name     string   `json:"member_name"`
	Phone    *string  `json:"phone"`
	Share    bool     `json:"share"`
	LastLat  *float64 `json:"last_lat"`
	LastLon  *float64 `json:"last_lon"`
	LastSeen *int64   `json:"last_seen"`
}

// tablesInDeleteOrder lists tables children first
var tablesInDeleteOrder = []string{"family_members", "families", "helplines", "businesses"}

// BackupService handles database backup and restore operations
type BackupService struct {
	db     *database.DB
	logger *logrus.Logger
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB, logger *logrus.Logger) *BackupService {
	return &BackupService{db: db, logger: logger}
}

// Export writes a complete backup of the database as indented JSON
func (s *BackupService) Export(ctx context.Context, w io.Writer) (*BackupData, error) {
	s.logger.Info("Starting database export...")

	backup := &BackupData{
		Version:      BackupVersion,
		ExportedAt:   time.Now().UTC(),
		DatabaseType: s.db.Dialect.Name(),
	}

	var err error
	if backup.Families, err = repository.NewFamilyRepository(s.db).ListFamilies(ctx); err != nil {
		return nil, fmt.Errorf("failed to export families: %w", err)
	}

	members, err := repository.NewMemberRepository(s.db).ListAllMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export members: %w", err)
	}
	backup.Members = make([]MemberBackup, 0, len(members))
	for _, m := range members {
		backup.Members = append(backup.Members, MemberBackup(m))
	}

	if backup.Helplines, err = repository.NewHelplineRepository(s.db).ListHelplines(ctx); err != nil {
		return nil, fmt.Errorf("failed to export helplines: %w", err)
	}

	if backup.Businesses, err = repository.NewBusinessRepository(s.db).ListBusinesses(ctx); err != nil {
		return nil, fmt.Errorf("failed to export businesses: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"families":   len(backup.Families),
		"members":    len(backup.Members),
		"helplines":  len(backup.Helplines),
		"businesses": len(backup.Businesses),
	}).Info("Database exported successfully")

	return backup, nil
}

// Import restores a backup inside one transaction, keeping the original IDs.
// When clear is set, existing rows are deleted first.
func (s *BackupService) Import(ctx context.Context, r io.Reader, clear bool) error {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != BackupVersion {
		return fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	s.logger.WithFields(logrus.Fields{
		"version":     backup.Version,
		"exported_at": backup.ExportedAt,
	}).Info("Starting database import...")

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if clear {
		for _, table := range tablesInDeleteOrder {
			query, args, err := database.SQL.Delete(table).ToSql()
			if err != nil {
				return fmt.Errorf("failed to build clear query for %s: %w", table, err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("failed to clear table %s: %w", table, err)
			}
		}
	}

	// Import in order of dependencies
	families := repository.NewFamilyRepository(tx)
	for _, f := range backup.Families {
		if err := families.InsertFamily(ctx, f); err != nil {
			return err
		}
	}

	members := repository.NewMemberRepository(tx)
	for _, m := range backup.Members {
		if err := members.InsertMember(ctx, models.Member(m)); err != nil {
			return err
		}
	}

	helplines := repository.NewHelplineRepository(tx)
	for _, h := range backup.Helplines {
		if err := helplines.InsertHelpline(ctx, h); err != nil {
			return err
		}
	}

	businesses := repository.NewBusinessRepository(tx)
	for _, b := range backup.Businesses {
		if err := businesses.InsertBusiness(ctx, b); err != nil {
			return err
		}
	}

	if err := resetSequences(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	s.logger.Info("Database import completed successfully")
	return nil
}

// resetSequences moves postgres serial sequences past imported explicit IDs.
// sqlite and mysql advance their counters on explicit inserts.
func resetSequences(ctx context.Context, tx *database.Tx) error {
	if tx.GetDialect().Name() != "postgres" {
		return nil
	}
	for _, table := range tablesInDeleteOrder {
		query := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE(MAX(id), 0) + 1, false) FROM %s", table, table)
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to reset sequence for %s: %w", table, err)
		}
	}
	return nil
}
