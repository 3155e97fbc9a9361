package service

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartlio/internal/database"
	"smartlio/internal/metrics"
	"smartlio/internal/models"
	"smartlio/internal/repository"
)

type testEnv struct {
	db        *database.DB
	metrics   *metrics.Metrics
	hook      *logtest.Hook
	directory *DirectoryService
	helplines *HelplineService
	sos       *SOSService
	business  *BusinessService
	backup    *BackupService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping database test in short mode")
	}

	db, err := database.Initialize(filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())
	_, err = db.SeedHelplines(context.Background())
	require.NoError(t, err)

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	m := metrics.New()

	familyRepo := repository.NewFamilyRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	helplineRepo := repository.NewHelplineRepository(db)
	businessRepo := repository.NewBusinessRepository(db)

	env := &testEnv{
		db:        db,
		metrics:   m,
		hook:      hook,
		directory: NewDirectoryService(familyRepo, memberRepo, m, logger),
		helplines: NewHelplineService(helplineRepo),
		sos:       NewSOSService(helplineRepo, memberRepo, m, logger),
		business:  NewBusinessService(businessRepo),
		backup:    NewBackupService(db, logger),
	}
	env.directory.now = func() time.Time { return time.Unix(1700000000, 0) }
	env.sos.newAlertID = func() string { return "alert-1" }
	return env
}

func strPtr(s string) *string     { return &s }
func int64Ptr(i int64) *int64     { return &i }
func floatPtr(f float64) *float64 { return &f }

func TestSharmaWalkthrough(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	family, err := env.directory.CreateFamily(ctx, "Sharma")
	require.NoError(t, err)
	assert.Equal(t, int64(1), family.ID)

	raj, err := env.directory.AddMember(ctx, family.ID, "Raj", strPtr("+91 98000 00001"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), raj.ID)
	assert.False(t, raj.Share)
	require.NotNil(t, raj.LastSeen)
	assert.Equal(t, int64(1700000000), *raj.LastSeen)

	require.NoError(t, env.directory.UpdateLocation(ctx, raj.ID, 22.71, 75.85, nil))

	members, err := env.directory.ListMembers(ctx, family.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.False(t, members[0].Share)
	assert.Nil(t, members[0].LastLat)
	assert.Nil(t, members[0].LastLon)
	assert.Nil(t, members[0].LastSeen)

	state, err := env.directory.ToggleShare(ctx, raj.ID, true)
	require.NoError(t, err)
	assert.Equal(t, &models.ShareState{MemberID: raj.ID, Share: true}, state)

	members, err = env.directory.ListMembers(ctx, family.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.True(t, members[0].Share)
	require.NotNil(t, members[0].LastLat)
	assert.Equal(t, 22.71, *members[0].LastLat)
	assert.Equal(t, 75.85, *members[0].LastLon)
	assert.Equal(t, int64(1700000000), *members[0].LastSeen)
}

func TestCreateFamilyListed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a, err := env.directory.CreateFamily(ctx, "Verma")
	require.NoError(t, err)
	b, err := env.directory.CreateFamily(ctx, "Verma")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	// names are stored exactly as supplied, empty included
	blank, err := env.directory.CreateFamily(ctx, "")
	require.NoError(t, err)
	spaced, err := env.directory.CreateFamily(ctx, "  ")
	require.NoError(t, err)

	member, err := env.directory.AddMember(ctx, blank.ID, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "", member.Name)

	families, err := env.directory.ListFamilies(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Family{*a, *b, {ID: blank.ID, Name: ""}, {ID: spaced.ID, Name: "  "}}, families)
	assert.Equal(t, float64(4), testutil.ToFloat64(env.metrics.FamiliesCreated))
}

func TestAddMemberUnknownFamily(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.directory.AddMember(ctx, 42, "Ghost", nil)
	assert.ErrorIs(t, err, ErrFamilyNotFound)

	all, err := repository.NewMemberRepository(env.db).ListAllMembers(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Equal(t, float64(0), testutil.ToFloat64(env.metrics.MembersAdded))
}

func TestUpdateLocationExplicitTimestamp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	family, err := env.directory.CreateFamily(ctx, "Iyer")
	require.NoError(t, err)
	member, err := env.directory.AddMember(ctx, family.ID, "Meera", nil)
	require.NoError(t, err)
	_, err = env.directory.ToggleShare(ctx, member.ID, true)
	require.NoError(t, err)

	require.NoError(t, env.directory.UpdateLocation(ctx, member.ID, -12.5, 190.25, int64Ptr(1600000000)))

	members, err := env.directory.ListMembers(ctx, family.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, -12.5, *members[0].LastLat)
	assert.Equal(t, 190.25, *members[0].LastLon)
	assert.Equal(t, int64(1600000000), *members[0].LastSeen)

	// zero timestamp falls back to now
	require.NoError(t, env.directory.UpdateLocation(ctx, member.ID, 1, 2, int64Ptr(0)))
	members, err = env.directory.ListMembers(ctx, family.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), *members[0].LastSeen)
}

func TestUnknownMember(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.directory.UpdateLocation(ctx, 99, 1, 2, nil)
	assert.ErrorIs(t, err, ErrMemberNotFound)

	_, err = env.directory.ToggleShare(ctx, 99, true)
	assert.ErrorIs(t, err, ErrMemberNotFound)

	assert.Equal(t, float64(0), testutil.ToFloat64(env.metrics.LocationUpdates))
}

func TestToggleShareOffKeepsStoredLocation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	family, err := env.directory.CreateFamily(ctx, "Khan")
	require.NoError(t, err)
	member, err := env.directory.AddMember(ctx, family.ID, "Ayaan", nil)
	require.NoError(t, err)
	_, err = env.directory.ToggleShare(ctx, member.ID, true)
	require.NoError(t, err)
	require.NoError(t, env.directory.UpdateLocation(ctx, member.ID, 22.7, 75.8, nil))

	_, err = env.directory.ToggleShare(ctx, member.ID, false)
	require.NoError(t, err)

	members, err := env.directory.ListMembers(ctx, family.ID)
	require.NoError(t, err)
	assert.Nil(t, members[0].LastLat)

	stored, err := repository.NewMemberRepository(env.db).GetMemberByID(ctx, member.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLat)
	assert.Equal(t, 22.7, *stored.LastLat)

	assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.ShareToggles.WithLabelValues("false")))
}

func TestListMembersUnknownFamily(t *testing.T) {
	env := newTestEnv(t)

	members, err := env.directory.ListMembers(context.Background(), 7)
	require.NoError(t, err)
	assert.NotNil(t, members)
	assert.Empty(t, members)
}

func TestListHelplinesSeeded(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// seeding again is a no-op
	inserted, err := env.db.SeedHelplines(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)

	helplines, err := env.helplines.ListHelplines(ctx)
	require.NoError(t, err)
	require.Len(t, helplines, 3)

	got := make([][2]string, 0, len(helplines))
	for _, h := range helplines {
		got = append(got, [2]string{h.Name, h.Phone})
	}
	assert.Equal(t, [][2]string{
		{"Central Police Station", "100"},
		{"City Ambulance", "108"},
		{"Fire Station", "101"},
	}, got)
}

func TestTriggerSOSWithMember(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	family, err := env.directory.CreateFamily(ctx, "Sharma")
	require.NoError(t, err)
	raj, err := env.directory.AddMember(ctx, family.ID, "Raj", strPtr("+91 1"))
	require.NoError(t, err)
	_, err = env.directory.AddMember(ctx, family.ID, "Priya", strPtr("+91 2"))
	require.NoError(t, err)
	_, err = env.directory.AddMember(ctx, family.ID, "Dadi", nil)
	require.NoError(t, err)

	other, err := env.directory.CreateFamily(ctx, "Neighbours")
	require.NoError(t, err)
	_, err = env.directory.AddMember(ctx, other.ID, "Outsider", strPtr("+91 9"))
	require.NoError(t, err)

	result, err := env.sos.TriggerSOS(ctx, models.SOSRequest{
		MemberID: &raj.ID,
		Lat:      floatPtr(22.7196),
		Lon:      floatPtr(75.8577),
		Note:     strPtr("help"),
	})
	require.NoError(t, err)

	assert.Equal(t, models.SOSStatus, result.Status)
	assert.Equal(t, "alert-1", result.AlertID)
	assert.Equal(t, []models.Contact{
		{Name: "Priya", Phone: strPtr("+91 2")},
		{Name: "Dadi"},
	}, result.FamilyToNotify)
	assert.Equal(t, "help", *result.Note)
	assert.Equal(t, 22.7196, *result.Location.Lat)

	require.Len(t, result.Helplines, 3)
	assert.Equal(t, "Central Police Station", result.Helplines[0].Name)
	require.NotNil(t, result.Helplines[0].DistanceKM)
	assert.Equal(t, 0.0, *result.Helplines[0].DistanceKM)
	for _, h := range result.Helplines[1:] {
		require.NotNil(t, h.DistanceKM)
		assert.Greater(t, *h.DistanceKM, 0.0)
		assert.Less(t, *h.DistanceKM, 1.0)
	}

	assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.SOSAlerts.WithLabelValues("true")))
	require.NotNil(t, env.hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, env.hook.LastEntry().Level)
	assert.Equal(t, "alert-1", env.hook.LastEntry().Data["alert_id"])
}

func TestTriggerSOSWithoutMember(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  models.SOSRequest
	}{
		{name: "no member", req: models.SOSRequest{}},
		{name: "unknown member", req: models.SOSRequest{MemberID: int64Ptr(404)}},
		{name: "latitude only", req: models.SOSRequest{Lat: floatPtr(22.7)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := env.sos.TriggerSOS(ctx, tt.req)
			require.NoError(t, err)
			assert.NotNil(t, result.FamilyToNotify)
			assert.Empty(t, result.FamilyToNotify)
			require.Len(t, result.Helplines, 3)
			for _, h := range result.Helplines {
				assert.Nil(t, h.DistanceKM)
			}
		})
	}

	assert.Equal(t, float64(3), testutil.ToFloat64(env.metrics.SOSAlerts.WithLabelValues("false")))
}

func TestTriggerSOSContactsCarryNoLocation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	family, err := env.directory.CreateFamily(ctx, "Rao")
	require.NoError(t, err)
	a, err := env.directory.AddMember(ctx, family.ID, "A", nil)
	require.NoError(t, err)
	b, err := env.directory.AddMember(ctx, family.ID, "B", nil)
	require.NoError(t, err)
	_, err = env.directory.ToggleShare(ctx, b.ID, true)
	require.NoError(t, err)
	require.NoError(t, env.directory.UpdateLocation(ctx, b.ID, 1, 2, nil))

	result, err := env.sos.TriggerSOS(ctx, models.SOSRequest{MemberID: &a.ID})
	require.NoError(t, err)

	encoded, err := json.Marshal(result.FamilyToNotify)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"member_name":"B","phone":null}]`, string(encoded))
}

func TestBusinesses(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.business.AddBusiness(ctx, models.Business{
		Name: "Chai Point",
		Type: "cafe",
		Lat:  22.72,
		Lon:  75.86,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	unnamed, err := env.business.AddBusiness(ctx, models.Business{})
	require.NoError(t, err)

	businesses, err := env.business.ListBusinesses(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Business{*created, *unnamed}, businesses)
	assert.Equal(t, "", businesses[1].Name)
	assert.Equal(t, "", businesses[1].Type)

	places := env.business.ListPlaces()
	require.Len(t, places, 4)
	assert.Equal(t, "Hospital A", places[0].Name)
	places[0].Name = "changed"
	assert.Equal(t, "Hospital A", env.business.ListPlaces()[0].Name)
}

func TestBackupRoundTrip(t *testing.T) {
	src := newTestEnv(t)
	ctx := context.Background()

	family, err := src.directory.CreateFamily(ctx, "Sharma")
	require.NoError(t, err)
	raj, err := src.directory.AddMember(ctx, family.ID, "Raj", strPtr("+91 1"))
	require.NoError(t, err)
	require.NoError(t, src.directory.UpdateLocation(ctx, raj.ID, 22.71, 75.85, nil))
	_, err = src.business.AddBusiness(ctx, models.Business{Name: "Kirana", Type: "shop", Description: strPtr("groceries")})
	require.NoError(t, err)

	var buf bytes.Buffer
	exported, err := src.backup.Export(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, BackupVersion, exported.Version)
	assert.Equal(t, "sqlite", exported.DatabaseType)
	assert.Len(t, exported.Helplines, 3)

	dst := newTestEnv(t)
	require.NoError(t, dst.backup.Import(ctx, bytes.NewReader(buf.Bytes()), true))

	members, err := repository.NewMemberRepository(dst.db).ListAllMembers(ctx)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, raj.ID, members[0].ID)
	require.NotNil(t, members[0].LastLat)
	assert.Equal(t, 22.71, *members[0].LastLat)

	helplines, err := dst.helplines.ListHelplines(ctx)
	require.NoError(t, err)
	assert.Len(t, helplines, 3)

	// new rows continue after the imported ids
	next, err := dst.directory.CreateFamily(ctx, "Next")
	require.NoError(t, err)
	assert.Greater(t, next.ID, family.ID)
}

func TestBackupImportRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.directory.CreateFamily(ctx, "Existing")
	require.NoError(t, err)

	// member references a family that is not in the backup
	payload := `{"version":"1.0","families":[],"members":[{"id":1,"family_id":77,"member_name":"x","share":false}],"helplines":[],"businesses":[]}`
	err = env.backup.Import(ctx, bytes.NewBufferString(payload), true)
	require.Error(t, err)

	families, err := env.directory.ListFamilies(ctx)
	require.NoError(t, err)
	assert.Len(t, families, 1)

	err = env.backup.Import(ctx, bytes.NewBufferString(`{"version":"0.1"}`), false)
	assert.ErrorContains(t, err, "unsupported backup version")
}
