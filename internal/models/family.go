package models

// Family represents a group of people sharing locations with each other
type Family struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
