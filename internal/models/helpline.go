package models

// Helpline is an emergency contact point
type Helpline struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Phone string  `json:"phone"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Type  string  `json:"type"` // police, ambulance, fire, ...
}

// NearbyHelpline is a helpline as reported by an SOS alert
type NearbyHelpline struct {
	Helpline
	DistanceKM *float64 `json:"distance_km,omitempty"`
}
