package pickups

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/sharebox/internal/features/auth"
	"github.com/xyz-asif/sharebox/internal/realtime"
	apperrors "github.com/xyz-asif/sharebox/pkg/errors"
)

type memStore struct {
	reqs []PickupRequest
}

func (m *memStore) Create(_ context.Context, req *PickupRequest) error {
	req.ID = primitive.NewObjectID()
	m.reqs = append(m.reqs, *req)
	return nil
}

func (m *memStore) ListByDonation(_ context.Context, id primitive.ObjectID) ([]PickupRequest, error) {
	out := []PickupRequest{}
	for _, r := range m.reqs {
		if r.DonationID == id {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PickupTime.Before(out[j].PickupTime) })
	return out, nil
}

type donationMap map[primitive.ObjectID]*DonationInfo

func (d donationMap) PickupTarget(_ context.Context, id primitive.ObjectID) (*DonationInfo, error) {
	if info, ok := d[id]; ok {
		return info, nil
	}
	return nil, apperrors.Wrap(apperrors.ErrNotFound, "donation not found")
}

func TestCreatePickup(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	donor := &auth.User{ID: primitive.NewObjectID(), UserType: auth.UserTypeDonor}
	receiver := &auth.User{ID: primitive.NewObjectID(), UserType: auth.UserTypeReceiver}

	open := &DonationInfo{ID: primitive.NewObjectID(), DonorID: donor.ID, Status: "pending"}
	taken := &DonationInfo{ID: primitive.NewObjectID(), DonorID: donor.ID, Status: "received"}
	stale := &DonationInfo{ID: primitive.NewObjectID(), DonorID: donor.ID, Status: "pending", Expired: true}

	hub := realtime.NewHub()
	sub := hub.Subscribe(realtime.SubscribeOptions{Tables: []string{realtime.TablePickupRequests}})

	store := &memStore{}
	svc := NewService(store, donationMap{open.ID: open, taken.ID: taken, stale.ID: stale}, hub)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := svc.Create(ctx, receiver, open.ID, &CreatePickupRequest{PickupTime: now.Add(-time.Minute)})
	require.ErrorIs(t, err, apperrors.ErrValidation)

	later, err := svc.Create(ctx, receiver, open.ID, &CreatePickupRequest{PickupTime: now.Add(3 * time.Hour)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, receiver, open.ID, &CreatePickupRequest{PickupTime: now.Add(time.Hour)})
	require.NoError(t, err)

	_, err = svc.Create(ctx, receiver, taken.ID, &CreatePickupRequest{PickupTime: now.Add(time.Hour)})
	require.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = svc.Create(ctx, receiver, stale.ID, &CreatePickupRequest{PickupTime: now.Add(time.Hour)})
	require.ErrorIs(t, err, apperrors.ErrExpired)

	_, err = svc.Create(ctx, receiver, primitive.NewObjectID(), &CreatePickupRequest{PickupTime: now.Add(time.Hour)})
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	list, err := svc.List(ctx, donor, open.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.True(t, list[0].PickupTime.Before(list[1].PickupTime))
	require.Equal(t, later.ID, list[1].ID)

	ev := <-sub.Events()
	require.Equal(t, realtime.EventInsert, ev.Type)
	require.Equal(t, later.ID.Hex(), ev.ID)
}

func TestListPickupsForeignDonor(t *testing.T) {
	owner := primitive.NewObjectID()
	info := &DonationInfo{ID: primitive.NewObjectID(), DonorID: owner, Status: "pending"}
	svc := NewService(&memStore{}, donationMap{info.ID: info}, nil)

	other := &auth.User{ID: primitive.NewObjectID(), UserType: auth.UserTypeDonor}
	_, err := svc.List(context.Background(), other, info.ID)
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	admin := &auth.User{ID: primitive.NewObjectID(), UserType: auth.UserTypeAdmin}
	list, err := svc.List(context.Background(), admin, info.ID)
	require.NoError(t, err)
	require.Empty(t, list)
}
