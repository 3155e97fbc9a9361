package models

// SOSStatus marks an alert that was computed but not delivered anywhere
const SOSStatus = "sos_sent_demo"

// SOSRequest carries the optional inputs of an SOS alert
type SOSRequest struct {
	MemberID *int64   `json:"member_id"`
	Lat      *float64 `json:"lat"`
	Lon      *float64 `json:"lon"`
	Note     *string  `json:"note"`
}

// Location is an echoed, unvalidated coordinate pair
type Location struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// SOSResult lists who should be contacted for an alert
type SOSResult struct {
	Status         string           `json:"status"`
	AlertID        string           `json:"alert_id"`
	Helplines      []NearbyHelpline `json:"helplines"`
	FamilyToNotify []Contact        `json:"family_to_notify"`
	Location       Location         `json:"location"`
	Note           *string          `json:"note"`
}
