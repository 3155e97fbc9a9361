package service

import (
	"context"
	"fmt"

	"smartlio/internal/models"
	"smartlio/internal/repository"
)

// HelplineService exposes the read-only emergency contact registry
type HelplineService struct {
	helplineRepo *repository.HelplineRepository
}

// NewHelplineService creates a new helpline service
func NewHelplineService(helplineRepo *repository.HelplineRepository) *HelplineService {
	return &HelplineService{helplineRepo: helplineRepo}
}

// ListHelplines returns every helpline, unfiltered, in storage order
func (s *HelplineService) ListHelplines(ctx context.Context) ([]models.Helpline, error) {
	helplines, err := s.helplineRepo.ListHelplines(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list helplines: %w", err)
	}
	return helplines, nil
}
