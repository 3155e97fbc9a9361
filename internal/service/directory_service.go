package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"smartlio/internal/metrics"
	"smartlio/internal/models"
	"smartlio/internal/repository"
)

var (
	ErrFamilyNotFound = errors.New("family not found")
	ErrMemberNotFound = errors.New("member not found")
)

// DirectoryService handles families, their members and location sharing
type DirectoryService struct {
	familyRepo *repository.FamilyRepository
	memberRepo *repository.MemberRepository
	metrics    *metrics.Metrics
	logger     *logrus.Logger
	now        func() time.Time
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(familyRepo *repository.FamilyRepository, memberRepo *repository.MemberRepository, m *metrics.Metrics, logger *logrus.Logger) *DirectoryService {
	return &DirectoryService{
		familyRepo: familyRepo,
		memberRepo: memberRepo,
		metrics:    m,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateFamily creates a new family. Names need not be unique.
func (s *DirectoryService) CreateFamily(ctx context.Context, name string) (*models.Family, error) {
	family, err := s.familyRepo.CreateFamily(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create family: %w", err)
	}

	s.metrics.FamiliesCreated.Inc()
	s.logger.WithFields(logrus.Fields{"family_id": family.ID}).Info("Family created")
	return family, nil
}

// ListFamilies retrieves all families
func (s *DirectoryService) ListFamilies(ctx context.Context) ([]models.Family, error) {
	families, err := s.familyRepo.ListFamilies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list families: %w", err)
	}
	return families, nil
}

// AddMember adds a member to an existing family. The member starts with
// sharing off, no location, and last_seen set to now.
func (s *DirectoryService) AddMember(ctx context.Context, familyID int64, name string, phone *string) (*models.Member, error) {
	family, err := s.familyRepo.GetFamilyByID(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	if family == nil {
		return nil, ErrFamilyNotFound
	}

	member, err := s.memberRepo.CreateMember(ctx, familyID, name, phone, s.now().Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	s.metrics.MembersAdded.Inc()
	s.logger.WithFields(logrus.Fields{
		"family_id": familyID,
		"member_id": member.ID,
	}).Info("Family member added")
	return member, nil
}

// UpdateLocation overwrites a member's last known location. A nil or zero
// timestamp means now.
func (s *DirectoryService) UpdateLocation(ctx context.Context, memberID int64, lat, lon float64, timestamp *int64) error {
	seen := s.now().Unix()
	if timestamp != nil && *timestamp != 0 {
		seen = *timestamp
	}

	found, err := s.memberRepo.UpdateLocation(ctx, memberID, lat, lon, seen)
	if err != nil {
		return fmt.Errorf("failed to update location: %w", err)
	}
	if !found {
		return ErrMemberNotFound
	}

	s.metrics.LocationUpdates.Inc()
	s.logger.WithFields(logrus.Fields{"member_id": memberID}).Debug("Location updated")
	return nil
}

// ToggleShare turns location sharing on or off for a member. Stored
// location is left untouched either way.
func (s *DirectoryService) ToggleShare(ctx context.Context, memberID int64, share bool) (*models.ShareState, error) {
	found, err := s.memberRepo.SetShare(ctx, memberID, share)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle share: %w", err)
	}
	if !found {
		return nil, ErrMemberNotFound
	}

	s.metrics.ShareToggles.WithLabelValues(strconv.FormatBool(share)).Inc()
	s.logger.WithFields(logrus.Fields{"member_id": memberID, "share": share}).Info("Location sharing changed")
	return &models.ShareState{MemberID: memberID, Share: share}, nil
}

// ListMembers returns the reader-facing view of every member of a family.
// An unknown family yields an empty list.
func (s *DirectoryService) ListMembers(ctx context.Context, familyID int64) ([]models.MemberView, error) {
	members, err := s.memberRepo.GetFamilyMembers(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return models.Views(members), nil
}
