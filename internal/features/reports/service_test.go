package reports

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/sharebox/internal/features/auth"
	"github.com/xyz-asif/sharebox/internal/realtime"
	apperrors "github.com/xyz-asif/sharebox/pkg/errors"
)

type memStore struct {
	reports []*UserReport
}

func (m *memStore) Create(_ context.Context, r *UserReport) error {
	r.ID = primitive.NewObjectID()
	cp := *r
	m.reports = append(m.reports, &cp)
	return nil
}

func (m *memStore) List(_ context.Context, status string, skip, limit int64) ([]UserReport, int64, error) {
	out := []UserReport{}
	for i := len(m.reports) - 1; i >= 0; i-- {
		if status == "" || m.reports[i].Status == status {
			out = append(out, *m.reports[i])
		}
	}
	total := int64(len(out))
	if skip > total {
		skip = total
	}
	out = out[skip:]
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (m *memStore) SetStatus(_ context.Context, id primitive.ObjectID, status string) (*UserReport, error) {
	for _, r := range m.reports {
		if r.ID == id {
			r.Status = status
			cp := *r
			return &cp, nil
		}
	}
	return nil, apperrors.Wrap(apperrors.ErrNotFound, "report not found")
}

func (m *memStore) SetStatusForReported(_ context.Context, reportedID primitive.ObjectID, from []string, to string) (int64, error) {
	var n int64
	for _, r := range m.reports {
		if r.ReportedID != reportedID {
			continue
		}
		if len(from) > 0 && !contains(from, r.Status) {
			continue
		}
		r.Status = to
		n++
	}
	return n, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type memUsers map[primitive.ObjectID]*auth.User

func (m memUsers) FindByID(_ context.Context, id primitive.ObjectID) (*auth.User, error) {
	if u, ok := m[id]; ok {
		return u, nil
	}
	return nil, apperrors.Wrap(apperrors.ErrNotFound, "user not found")
}

func (m memUsers) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*auth.User, error) {
	out := map[primitive.ObjectID]*auth.User{}
	for _, id := range ids {
		if u, ok := m[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (m memUsers) SetBanned(_ context.Context, id primitive.ObjectID, banned bool) error {
	u, ok := m[id]
	if !ok {
		return apperrors.Wrap(apperrors.ErrNotFound, "user not found")
	}
	u.Banned = banned
	return nil
}

func user(userType, name string) *auth.User {
	return &auth.User{ID: primitive.NewObjectID(), FirstName: name, Email: name + "@example.com", UserType: userType}
}

func TestCreateReportValidation(t *testing.T) {
	reporter := user(auth.UserTypeReceiver, "rita")
	target := user(auth.UserTypeDonor, "dan")
	svc := NewService(&memStore{}, memUsers{reporter.ID: reporter, target.ID: target}, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, reporter, &CreateReportRequest{ReportedUserID: target.ID.Hex(), Reason: "   too short  "})
	require.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Create(ctx, reporter, &CreateReportRequest{ReportedUserID: target.ID.Hex(), Reason: strings.Repeat("x", 1001)})
	require.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Create(ctx, reporter, &CreateReportRequest{ReportedUserID: reporter.ID.Hex(), Reason: "reporting myself for science"})
	require.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Create(ctx, reporter, &CreateReportRequest{ReportedUserID: primitive.NewObjectID().Hex(), Reason: "never showed up for pickup"})
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	report, err := svc.Create(ctx, reporter, &CreateReportRequest{ReportedUserID: target.ID.Hex(), Reason: "  never showed up for pickup  "})
	require.NoError(t, err)
	require.Equal(t, StatusPending, report.Status)
	require.Equal(t, "never showed up for pickup", report.Reason)
}

func TestBanMarksAllReports(t *testing.T) {
	a := user(auth.UserTypeReceiver, "a")
	b := user(auth.UserTypeReceiver, "b")
	target := user(auth.UserTypeDonor, "t")
	admin := user(auth.UserTypeAdmin, "root")
	users := memUsers{a.ID: a, b.ID: b, target.ID: target, admin.ID: admin}
	store := &memStore{}
	svc := NewService(store, users, nil)
	ctx := context.Background()

	r1, err := svc.Create(ctx, a, &CreateReportRequest{ReportedUserID: target.ID.Hex(), Reason: "listed spoiled food twice"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, b, &CreateReportRequest{ReportedUserID: target.ID.Hex(), Reason: "rude during the pickup"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, a, &CreateReportRequest{ReportedUserID: b.ID.Hex(), Reason: "unrelated report on b"})
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, r1.ID, StatusApproved)
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, r1.ID, StatusBanned)
	require.ErrorIs(t, err, apperrors.ErrValidation)

	res, err := svc.Ban(ctx, target.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), res.ReportsAffected)
	require.True(t, target.Banned)

	banned, total, _, err := svc.List(ctx, &ListQuery{Status: StatusBanned})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Equal(t, "t", banned[0].Reported.FirstName)

	_, err = svc.Ban(ctx, admin.ID)
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	res, err = svc.Unban(ctx, target.ID)
	require.NoError(t, err)
	require.False(t, target.Banned)
	require.Equal(t, int64(2), res.ReportsAffected)

	pending, _, _, err := svc.List(ctx, &ListQuery{Status: StatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
}

func TestBanClosesLiveConnections(t *testing.T) {
	target := user(auth.UserTypeDonor, "t")
	bystander := user(auth.UserTypeReceiver, "b")
	hub := realtime.NewHub()
	svc := NewService(&memStore{}, memUsers{target.ID: target, bystander.ID: bystander}, hub).
		WithSessionRevoker(hub)

	feed := hub.Subscribe(realtime.SubscribeOptions{UserID: target.ID.Hex(), Tables: []string{realtime.TableDonations}})
	other := hub.Subscribe(realtime.SubscribeOptions{UserID: bystander.ID.Hex()})

	_, err := svc.Ban(context.Background(), target.ID)
	require.NoError(t, err)

	_, ok := <-feed.Events()
	require.False(t, ok)
	require.Equal(t, realtime.ReasonRevoked, feed.Reason())
	require.Equal(t, 1, hub.Count())

	ev, err := realtime.NewEvent(realtime.TableDonations, realtime.EventInsert, "d1", nil)
	require.NoError(t, err)
	hub.Broadcast(ev)
	require.Len(t, other.Events(), 1)
}
