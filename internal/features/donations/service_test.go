package donations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/sharebox/internal/features/auth"
	"github.com/xyz-asif/sharebox/internal/features/pickups"
	"github.com/xyz-asif/sharebox/internal/realtime"
	apperrors "github.com/xyz-asif/sharebox/pkg/errors"
)

type fixture struct {
	svc      *Service
	store    *memStore
	pickups  *memPickups
	hub      *realtime.Hub
	donor    *auth.User
	receiver *auth.User
	admin    *auth.User
	now      time.Time
}

func newFixture() *fixture {
	f := &fixture{
		store:    newMemStore(),
		pickups:  &memPickups{byDonation: map[primitive.ObjectID][]pickups.PickupRequest{}},
		hub:      realtime.NewHub(),
		donor:    newUser(auth.UserTypeDonor, "dora"),
		receiver: newUser(auth.UserTypeReceiver, "rex"),
		admin:    newUser(auth.UserTypeAdmin, "ada"),
		now:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	users := userDir{f.donor.ID: f.donor, f.receiver.ID: f.receiver, f.admin.ID: f.admin}
	f.svc = NewService(f.store, f.pickups, users, f.hub)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *fixture) create(t *testing.T, category string, expiry *time.Time) *DonationView {
	t.Helper()
	view, err := f.svc.Create(context.Background(), f.donor, &CreateDonationRequest{
		ItemName:   "Item " + category,
		Category:   category,
		Quantity:   "1",
		Location:   "Depot",
		ExpiryTime: expiry,
	})
	require.NoError(t, err)
	return view
}

func TestCreateAppearsInDonorList(t *testing.T) {
	f := newFixture()
	sub := f.hub.Subscribe(realtime.SubscribeOptions{Tables: []string{realtime.TableDonations}})

	expiry := f.now.Add(2 * time.Hour)
	created := f.create(t, CategoryFood, &expiry)
	require.Equal(t, StatusPending, created.Status)
	require.Equal(t, "2h 0m 0s", created.TimeRemaining)
	require.Nil(t, created.ReceiverID)

	second := f.create(t, "books", nil)

	mine, err := f.svc.ListByDonor(context.Background(), f.donor)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.Equal(t, second.ID, mine[0].ID, "newest first")
	require.Equal(t, "dora", mine[1].Donor.FirstName)

	ev := <-sub.Events()
	require.Equal(t, realtime.EventInsert, ev.Type)
	require.Equal(t, created.ID.Hex(), ev.ID)
}

func TestAcceptExpiredFoodIsRejected(t *testing.T) {
	f := newFixture()
	expiry := f.now.Add(time.Minute)
	d := f.create(t, CategoryFood, &expiry)

	f.now = expiry
	_, err := f.svc.UpdateStatus(context.Background(), f.receiver, d.ID, StatusReceived)
	require.ErrorIs(t, err, apperrors.ErrExpired)

	stored, err := f.store.FindByID(context.Background(), d.ID)
	require.NoError(t, err)
	require.Equal(t, StatusPending, stored.Status)
	require.Nil(t, stored.ReceiverID)

	rejected, err := f.svc.UpdateStatus(context.Background(), f.receiver, d.ID, StatusRejected)
	require.NoError(t, err, "expired food can still be rejected")
	require.Equal(t, StatusRejected, rejected.Status)
}

func TestUpdateStatusSetsReceiverOnce(t *testing.T) {
	f := newFixture()
	d := f.create(t, "clothes", nil)
	ctx := context.Background()

	updated, err := f.svc.UpdateStatus(ctx, f.receiver, d.ID, StatusReceived)
	require.NoError(t, err)
	require.Equal(t, StatusReceived, updated.Status)
	require.Equal(t, f.receiver.ID, *updated.ReceiverID)
	require.Equal(t, "rex", updated.Receiver.FirstName)

	other := newUser(auth.UserTypeReceiver, "zed")
	_, err = f.svc.UpdateStatus(ctx, other, d.ID, StatusRejected)
	require.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = f.svc.UpdateStatus(ctx, f.receiver, d.ID, "claimed")
	require.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.svc.UpdateStatus(ctx, f.receiver, primitive.NewObjectID(), StatusReceived)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBrowseFilters(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	mineReceived := f.create(t, "books", nil)
	othersReceived := f.create(t, "books", nil)
	pending := f.create(t, "toys", nil)

	_, err := f.svc.UpdateStatus(ctx, f.receiver, mineReceived.ID, StatusReceived)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, newUser(auth.UserTypeReceiver, "other"), othersReceived.ID, StatusReceived)
	require.NoError(t, err)

	all, total, _, err := f.svc.Browse(ctx, f.receiver, &BrowseQuery{Status: "All"})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, all, 3)

	received, total, _, err := f.svc.Browse(ctx, f.receiver, &BrowseQuery{Status: StatusReceived})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, mineReceived.ID, received[0].ID)

	toys, _, _, err := f.svc.Browse(ctx, f.receiver, &BrowseQuery{Category: "toys"})
	require.NoError(t, err)
	require.Len(t, toys, 1)
	require.Equal(t, pending.ID, toys[0].ID)

	paged, total, page, err := f.svc.Browse(ctx, f.receiver, &BrowseQuery{Limit: 2, Page: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Equal(t, 2, page.Page)
	require.Len(t, paged, 1)
}

func TestBrowseAttachesSortedPickups(t *testing.T) {
	f := newFixture()
	d := f.create(t, "furniture", nil)
	early := pickups.PickupRequest{ID: primitive.NewObjectID(), DonationID: d.ID, PickupTime: f.now.Add(time.Hour)}
	late := pickups.PickupRequest{ID: primitive.NewObjectID(), DonationID: d.ID, PickupTime: f.now.Add(5 * time.Hour)}
	f.pickups.byDonation[d.ID] = []pickups.PickupRequest{early, late}

	views, _, _, err := f.svc.Browse(context.Background(), f.receiver, &BrowseQuery{})
	require.NoError(t, err)
	require.Len(t, views[0].PickupRequests, 2)
	require.Equal(t, early.ID, views[0].PickupRequests[0].ID)
	require.Equal(t, "dora", views[0].Donor.FirstName)
}

func TestDeletePublishesDeleteEvent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	d := f.create(t, "electronics", nil)
	f.pickups.byDonation[d.ID] = []pickups.PickupRequest{{ID: primitive.NewObjectID(), DonationID: d.ID}}

	sub := f.hub.Subscribe(realtime.SubscribeOptions{Tables: []string{realtime.TableDonations}})

	err := f.svc.Delete(ctx, newUser(auth.UserTypeDonor, "mallory"), d.ID)
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	require.NoError(t, f.svc.Delete(ctx, f.admin, d.ID))

	ev := <-sub.Events()
	require.Equal(t, realtime.EventDelete, ev.Type)
	require.Equal(t, d.ID.Hex(), ev.ID)

	_, err = f.svc.Get(ctx, d.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	require.Empty(t, f.pickups.byDonation[d.ID])

	mine, err := f.svc.ListByDonor(ctx, f.donor)
	require.NoError(t, err)
	require.Empty(t, mine)
}

type imageBin struct {
	removed []string
}

func (b *imageBin) Delete(_ context.Context, publicID string) error {
	b.removed = append(b.removed, publicID)
	return nil
}

func TestDeleteRemovesUploadedImages(t *testing.T) {
	f := newFixture()
	bin := &imageBin{}
	f.svc.WithImageRemover(bin)
	ctx := context.Background()

	url := "https://res.cloudinary.com/demo/image/upload/v1/sharebox/donations/abc123.png"
	_, err := f.svc.Create(ctx, f.donor, &CreateDonationRequest{
		ItemName:       "Lamp",
		Category:       "furniture",
		Quantity:       "1",
		Location:       "Porch",
		Images:         []string{url},
		ImagePublicIDs: []string{"sharebox/donations/other"},
	})
	require.ErrorIs(t, err, apperrors.ErrValidation)

	view, err := f.svc.Create(ctx, f.donor, &CreateDonationRequest{
		ItemName:       "Lamp",
		Category:       "furniture",
		Quantity:       "1",
		Location:       "Porch",
		Images:         []string{url},
		ImagePublicIDs: []string{"sharebox/donations/abc123"},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, f.donor, view.ID))
	require.Equal(t, []string{"sharebox/donations/abc123"}, bin.removed)
}

func TestPickupTarget(t *testing.T) {
	f := newFixture()
	expiry := f.now.Add(time.Minute)
	d := f.create(t, CategoryFood, &expiry)

	info, err := f.svc.PickupTarget(context.Background(), d.ID)
	require.NoError(t, err)
	require.False(t, info.Expired)
	require.Equal(t, f.donor.ID, info.DonorID)

	f.now = f.now.Add(time.Hour)
	info, err = f.svc.PickupTarget(context.Background(), d.ID)
	require.NoError(t, err)
	require.True(t, info.Expired)

	donorID, err := f.svc.DonorOf(context.Background(), d.ID)
	require.NoError(t, err)
	require.Equal(t, f.donor.ID, donorID)
}

func TestStats(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.create(t, "books", nil)
	f.create(t, "books", nil)
	f.create(t, "toys", nil)
	_, err := f.svc.UpdateStatus(ctx, f.receiver, a.ID, StatusReceived)
	require.NoError(t, err)

	stats, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), stats.Total)
	require.Equal(t, int64(2), stats.ByStatus[StatusPending])
	require.Equal(t, int64(1), stats.ByStatus[StatusReceived])
	require.Equal(t, int64(2), stats.ByCategory["books"])
	require.Equal(t, int64(1), stats.UniqueDonors)
	require.Equal(t, int64(1), stats.UniqueReceivers)
}
