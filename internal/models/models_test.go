package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestMemberView(t *testing.T) {
	stored := Member{
		ID:       1,
		FamilyID: 1,
		Name:     "Raj",
		Phone:    ptr("+91-9800000000"),
		LastLat:  ptr(22.71),
		LastLon:  ptr(75.85),
		LastSeen: ptr(int64(1700000000)),
	}

	tests := []struct {
		name     string
		share    bool
		wantLat  *float64
		wantLon  *float64
		wantSeen *int64
	}{
		{name: "not shared hides location", share: false},
		{name: "shared reveals location", share: true, wantLat: ptr(22.71), wantLon: ptr(75.85), wantSeen: ptr(int64(1700000000))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := stored
			m.Share = tt.share

			v := m.View()
			assert.Equal(t, tt.wantLat, v.LastLat)
			assert.Equal(t, tt.wantLon, v.LastLon)
			assert.Equal(t, tt.wantSeen, v.LastSeen)
			assert.Equal(t, "Raj", v.Name)
			assert.Equal(t, m.Phone, v.Phone)
			assert.Equal(t, tt.share, v.Share)
		})
	}

	// redaction never touches the stored record
	stored.View()
	assert.Equal(t, 22.71, *stored.LastLat)
}

func TestMemberViewWithoutReportedLocation(t *testing.T) {
	v := Member{ID: 2, FamilyID: 1, Name: "Asha", Share: true}.View()
	assert.Nil(t, v.LastLat)
	assert.Nil(t, v.LastLon)
	assert.Nil(t, v.LastSeen)
}

func TestViewsPreservesOrder(t *testing.T) {
	views := Views([]Member{{ID: 3}, {ID: 1}, {ID: 2}})
	require.Len(t, views, 3)
	assert.Equal(t, []int64{3, 1, 2}, []int64{views[0].ID, views[1].ID, views[2].ID})

	assert.NotNil(t, Views(nil), "empty families encode as [] rather than null")
}

func TestMemberViewJSONShowsNullsWhenRedacted(t *testing.T) {
	raw, err := json.Marshal(Member{ID: 1, FamilyID: 1, Name: "Raj", LastLat: ptr(1.0)}.View())
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"family_id":1,"member_name":"Raj","phone":null,"share":false,"last_lat":null,"last_lon":null,"last_seen":null}`, string(raw))
}

func TestContactJSONHasNoLocation(t *testing.T) {
	raw, err := json.Marshal(Contact{Name: "Asha", Phone: ptr("108")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"member_name":"Asha","phone":"108"}`, string(raw))
}
