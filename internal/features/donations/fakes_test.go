package donations

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/sharebox/internal/features/auth"
	"github.com/xyz-asif/sharebox/internal/features/pickups"
	apperrors "github.com/xyz-asif/sharebox/pkg/errors"
)

type memStore struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*Donation
	seq   int
}

func newMemStore() *memStore {
	return &memStore{items: make(map[primitive.ObjectID]*Donation)}
}

func (m *memStore) Create(_ context.Context, d *Donation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	d.ID = primitive.NewObjectID()
	d.CreatedAt = time.Date(2025, 1, 1, 0, 0, m.seq, 0, time.UTC)
	d.UpdatedAt = d.CreatedAt
	cp := *d
	m.items[d.ID] = &cp
	return nil
}

func (m *memStore) FindByID(_ context.Context, id primitive.ObjectID) (*Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.items[id]
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "donation not found")
	}
	cp := *d
	return &cp, nil
}

func (m *memStore) List(_ context.Context, f Filter, skip, limit int64) ([]Donation, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Donation
	for _, d := range m.items {
		if f.DonorID != nil && d.DonorID != *f.DonorID {
			continue
		}
		if f.ReceiverID != nil && (d.ReceiverID == nil || *d.ReceiverID != *f.ReceiverID) {
			continue
		}
		if f.Status != "" && f.Status != StatusAll && d.Status != f.Status {
			continue
		}
		if f.Category != "" && d.Category != f.Category {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	total := int64(len(out))
	if skip > total {
		skip = total
	}
	out = out[skip:]
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []Donation{}
	}
	return out, total, nil
}

func (m *memStore) TransitionStatus(_ context.Context, id primitive.ObjectID, status string, receiverID primitive.ObjectID) (*Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.items[id]
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "donation not found")
	}
	if d.Status != StatusPending {
		return nil, apperrors.Wrap(apperrors.ErrConflict, "donation is no longer pending")
	}
	d.Status = status
	d.ReceiverID = &receiverID
	cp := *d
	return &cp, nil
}

func (m *memStore) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return apperrors.Wrap(apperrors.ErrNotFound, "donation not found")
	}
	delete(m.items, id)
	return nil
}

func (m *memStore) Stats(_ context.Context) (*Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &Stats{ByStatus: map[string]int64{}, ByCategory: map[string]int64{}}
	donors := map[primitive.ObjectID]bool{}
	receivers := map[primitive.ObjectID]bool{}
	for _, d := range m.items {
		stats.Total++
		stats.ByStatus[d.Status]++
		stats.ByCategory[d.Category]++
		donors[d.DonorID] = true
		if d.ReceiverID != nil {
			receivers[*d.ReceiverID] = true
		}
	}
	stats.UniqueDonors = int64(len(donors))
	stats.UniqueReceivers = int64(len(receivers))
	return stats, nil
}

type memPickups struct {
	byDonation map[primitive.ObjectID][]pickups.PickupRequest
}

func (m *memPickups) ListByDonations(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID][]pickups.PickupRequest, error) {
	out := map[primitive.ObjectID][]pickups.PickupRequest{}
	for _, id := range ids {
		if reqs, ok := m.byDonation[id]; ok {
			out[id] = reqs
		}
	}
	return out, nil
}

func (m *memPickups) DeleteByDonation(_ context.Context, id primitive.ObjectID) (int64, error) {
	n := int64(len(m.byDonation[id]))
	delete(m.byDonation, id)
	return n, nil
}

type userDir map[primitive.ObjectID]*auth.User

func (u userDir) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*auth.User, error) {
	out := map[primitive.ObjectID]*auth.User{}
	for _, id := range ids {
		if user, ok := u[id]; ok {
			out[id] = user
		}
	}
	return out, nil
}

func newUser(userType, first string) *auth.User {
	return &auth.User{
		ID:        primitive.NewObjectID(),
		Email:     first + "@example.com",
		FirstName: first,
		LastName:  "Test",
		UserType:  userType,
	}
}
