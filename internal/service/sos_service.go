package service

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/sirupsen/logrus"

	"smartlio/internal/metrics"
	"smartlio/internal/models"
	"smartlio/internal/repository"
)

// SOSService works out who should be contacted when a member raises an
// alert. Nothing is actually dispatched.
type SOSService struct {
	helplineRepo *repository.HelplineRepository
	memberRepo   *repository.MemberRepository
	metrics      *metrics.Metrics
	logger       *logrus.Logger
	newAlertID   func() string
}

// NewSOSService creates a new SOS service
func NewSOSService(helplineRepo *repository.HelplineRepository, memberRepo *repository.MemberRepository, m *metrics.Metrics, logger *logrus.Logger) *SOSService {
	return &SOSService{
		helplineRepo: helplineRepo,
		memberRepo:   memberRepo,
		metrics:      m,
		logger:       logger,
		newAlertID:   uuid.NewString,
	}
}

// TriggerSOS always returns the full helpline list. When the request names an
// existing member, the other members of that member's family are returned as
// contacts (name and phone only). Location and note are echoed unvalidated.
func (s *SOSService) TriggerSOS(ctx context.Context, req models.SOSRequest) (*models.SOSResult, error) {
	helplines, err := s.helplineRepo.ListHelplines(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list helplines: %w", err)
	}

	contacts := []models.Contact{}
	resolved := false
	if req.MemberID != nil {
		member, err := s.memberRepo.GetMemberByID(ctx, *req.MemberID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up member: %w", err)
		}
		if member != nil {
			resolved = true
			contacts, err = s.memberRepo.GetContactsExcept(ctx, member.FamilyID, member.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to list family contacts: %w", err)
			}
		}
	}

	result := &models.SOSResult{
		Status:         models.SOSStatus,
		AlertID:        s.newAlertID(),
		Helplines:      withDistances(helplines, req.Lat, req.Lon),
		FamilyToNotify: contacts,
		Location:       models.Location{Lat: req.Lat, Lon: req.Lon},
		Note:           req.Note,
	}

	s.metrics.SOSAlerts.WithLabelValues(strconv.FormatBool(resolved)).Inc()
	fields := logrus.Fields{
		"alert_id":  result.AlertID,
		"helplines": len(helplines),
		"contacts":  len(contacts),
	}
	if req.MemberID != nil {
		fields["member_id"] = *req.MemberID
	}
	s.logger.WithFields(fields).Warn("SOS alert raised")

	return result, nil
}

// withDistances annotates each helpline with its great-circle distance from
// the alert location, in kilometres, when both coordinates are known.
// Storage order is kept.
func withDistances(helplines []models.Helpline, lat, lon *float64) []models.NearbyHelpline {
	nearby := make([]models.NearbyHelpline, 0, len(helplines))
	for _, h := range helplines {
		n := models.NearbyHelpline{Helpline: h}
		if lat != nil && lon != nil {
			km := geo.DistanceHaversine(orb.Point{*lon, *lat}, orb.Point{h.Lon, h.Lat}) / 1000
			km = math.Round(km*1000) / 1000
			n.DistanceKM = &km
		}
		nearby = append(nearby, n)
	}
	return nearby
}
