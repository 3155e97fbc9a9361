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

var memberColumns = []string{"id", "family_id", "member_name", "phone", "share", "last_lat", "last_lon", "last_seen"}

// MemberRepository handles database operations for family members
type MemberRepository struct {
	db database.DBTX
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db database.DBTX) *MemberRepository {
	return &MemberRepository{db: db}
}

// CreateMember adds a member to a family with sharing off and no location
func (r *MemberRepository) CreateMember(ctx context.Context, familyID int64, name string, phone *string, lastSeen int64) (*models.Member, error) {
	query, args, err := database.SQL.Insert("family_members").
		Columns("family_id", "member_name", "phone", "share", "last_seen").
		Values(familyID, name, phone, false, lastSeen).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create member query: %w", err)
	}

	memberID, err := r.db.ExecReturningID(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	return &models.Member{
		ID:       memberID,
		FamilyID: familyID,
		Name:     name,
		Phone:    phone,
		LastSeen: &lastSeen,
	}, nil
}

// InsertMember stores a complete member row under an existing ID (used by backup import)
func (r *MemberRepository) InsertMember(ctx context.Context, m models.Member) error {
	query, args, err := database.SQL.Insert("family_members").
		Columns(memberColumns...).
		Values(m.ID, m.FamilyID, m.Name, m.Phone, m.Share, m.LastLat, m.LastLon, m.LastSeen).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert member query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert member %d: %w", m.ID, err)
	}
	return nil
}

// GetMemberByID retrieves a member by ID, returning nil when it does not exist
func (r *MemberRepository) GetMemberByID(ctx context.Context, memberID int64) (*models.Member, error) {
	query, args, err := database.SQL.Select(memberColumns...).
		From("family_members").
		Where(sq.Eq{"id": memberID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get member query: %w", err)
	}

	member, err := scanMember(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return member, nil
}

// GetFamilyMembers retrieves every stored member of a family, unredacted
func (r *MemberRepository) GetFamilyMembers(ctx context.Context, familyID int64) ([]models.Member, error) {
	return r.listMembers(ctx, sq.Eq{"family_id": familyID})
}

// ListAllMembers retrieves every member of every family
func (r *MemberRepository) ListAllMembers(ctx context.Context) ([]models.Member, error) {
	return r.listMembers(ctx, nil)
}

func (r *MemberRepository) listMembers(ctx context.Context, where sq.Sqlizer) ([]models.Member, error) {
	builder := database.SQL.Select(memberColumns...).From("family_members").OrderBy("id")
	if where != nil {
		builder = builder.Where(where)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list members query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, *member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}

	return members, nil
}

// GetContactsExcept returns name and phone of every member of a family other than excludeID
func (r *MemberRepository) GetContactsExcept(ctx context.Context, familyID, excludeID int64) ([]models.Contact, error) {
	query, args, err := database.SQL.Select("member_name", "phone").
		From("family_members").
		Where(sq.And{sq.Eq{"family_id": familyID}, sq.NotEq{"id": excludeID}}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build contacts query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	contacts := []models.Contact{}
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.Name, &c.Phone); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contacts: %w", err)
	}

	return contacts, nil
}

// UpdateLocation overwrites a member's last known location. It reports
// whether a member with that ID exists.
func (r *MemberRepository) UpdateLocation(ctx context.Context, memberID int64, lat, lon float64, seen int64) (bool, error) {
	query, args, err := database.SQL.Update("family_members").
		Set("last_lat", lat).
		Set("last_lon", lon).
		Set("last_seen", seen).
		Where(sq.Eq{"id": memberID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build update location query: %w", err)
	}

	return r.execUpdate(ctx, query, args)
}

// SetShare sets a member's location sharing flag. It reports whether a
// member with that ID exists.
func (r *MemberRepository) SetShare(ctx context.Context, memberID int64, share bool) (bool, error) {
	query, args, err := database.SQL.Update("family_members").
		Set("share", share).
		Where(sq.Eq{"id": memberID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build set share query: %w", err)
	}

	return r.execUpdate(ctx, query, args)
}

func (r *MemberRepository) execUpdate(ctx context.Context, query string, args []interface{}) (bool, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update member: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMember(row rowScanner) (*models.Member, error) {
	m := &models.Member{}
	if err := row.Scan(&m.ID, &m.FamilyID, &m.Name, &m.Phone, &m.Share, &m.LastLat, &m.LastLon, &m.LastSeen); err != nil {
		return nil, err
	}
	return m, nil
}
