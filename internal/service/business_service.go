package service

import (
	"context"
	"fmt"

	"smartlio/internal/models"
	"smartlio/internal/repository"
)

// demoPlaces are the fixed points of interest shown on the map page
var demoPlaces = []models.Place{
	{Lat: 22.7196, Lon: 75.8577, Type: "hospital", Name: "Hospital A"},
	{Lat: 22.7199, Lon: 75.8570, Type: "bus", Name: "Bus Stop"},
	{Lat: 22.7202, Lon: 75.8565, Type: "college", Name: "College"},
	{Lat: 22.7205, Lon: 75.8558, Type: "tourist", Name: "Green Park"},
}

// BusinessService handles the local business listing
type BusinessService struct {
	businessRepo *repository.BusinessRepository
}

// NewBusinessService creates a new business service
func NewBusinessService(businessRepo *repository.BusinessRepository) *BusinessService {
	return &BusinessService{businessRepo: businessRepo}
}

// AddBusiness lists a new business. Coordinates are not range checked.
func (s *BusinessService) AddBusiness(ctx context.Context, b models.Business) (*models.Business, error) {
	created, err := s.businessRepo.CreateBusiness(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("failed to add business: %w", err)
	}
	return created, nil
}

// ListBusinesses retrieves all listed businesses
func (s *BusinessService) ListBusinesses(ctx context.Context) ([]models.Business, error) {
	businesses, err := s.businessRepo.ListBusinesses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list businesses: %w", err)
	}
	return businesses, nil
}

// ListPlaces returns the static demo places
func (s *BusinessService) ListPlaces() []models.Place {
	places := make([]models.Place, len(demoPlaces))
	copy(places, demoPlaces)
	return places
}
