package models

// Member is a family member as stored, including the last reported
// location regardless of whether it is shared
type Member struct {
	ID       int64
	FamilyID int64
	Name     string
	Phone    *string
	Share    bool
	LastLat  *float64
	LastLon  *float64
	LastSeen *int64 // epoch seconds
}

// MemberView is what readers of a family see for one member
type MemberView struct {
	ID       int64    `json:"id"`
	FamilyID int64    `json:"family_id"`
	Name     string   `json:"member_name"`
	Phone    *string  `json:"phone"`
	Share    bool     `json:"share"`
	LastLat  *float64 `json:"last_lat"`
	LastLon  *float64 `json:"last_lon"`
	LastSeen *int64   `json:"last_seen"`
}

// View maps a stored member to its reader-facing form. The last known
// location and last_seen are only present while the member shares them.
func (m Member) View() MemberView {
	v := MemberView{
		ID:       m.ID,
		FamilyID: m.FamilyID,
		Name:     m.Name,
		Phone:    m.Phone,
		Share:    m.Share,
	}
	if m.Share {
		v.LastLat = m.LastLat
		v.LastLon = m.LastLon
		v.LastSeen = m.LastSeen
	}
	return v
}

// Views applies View to every member, preserving order
func Views(members []Member) []MemberView {
	views := make([]MemberView, 0, len(members))
	for _, m := range members {
		views = append(views, m.View())
	}
	return views
}

// ShareState is the result of changing a member's sharing flag
type ShareState struct {
	MemberID int64 `json:"member_id"`
	Share    bool  `json:"share"`
}

// Contact is the projection of a member used for notifications; it never
// carries location
type Contact struct {
	Name  string  `json:"member_name"`
	Phone *string `json:"phone"`
}
