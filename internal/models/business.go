package models

// Business is a listed local business
type Business struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Description *string `json:"description"`
}

// Place is a fixed point of interest shown on the map
type Place struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Type string  `json:"type"`
	Name string  `json:"name"`
}
