package donations

import (
	"context"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/sharebox/internal/features/auth"
	"github.com/xyz-asif/sharebox/internal/features/pickups"
	"github.com/xyz-asif/sharebox/internal/pkg/logger"
	"github.com/xyz-asif/sharebox/internal/pkg/pagination"
	"github.com/xyz-asif/sharebox/internal/realtime"
	apperrors "github.com/xyz-asif/sharebox/pkg/errors"
)

type Store interface {
	Create(ctx context.Context, d *Donation) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Donation, error)
	List(ctx context.Context, f Filter, skip, limit int64) ([]Donation, int64, error)
	TransitionStatus(ctx context.Context, id primitive.ObjectID, status string, receiverID primitive.ObjectID) (*Donation, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Stats(ctx context.Context) (*Stats, error)
}

// PickupStore is the part of the pickups repository donations rely on
type PickupStore interface {
	ListByDonations(ctx context.Context, donationIDs []primitive.ObjectID) (map[primitive.ObjectID][]pickups.PickupRequest, error)
	DeleteByDonation(ctx context.Context, donationID primitive.ObjectID) (int64, error)
}

// UserDirectory loads donor and receiver profiles
type UserDirectory interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*auth.User, error)
}

// ImageRemover deletes uploaded images from object storage
type ImageRemover interface {
	Delete(ctx context.Context, publicID string) error
}

type Service struct {
	store     Store
	pickups   PickupStore
	users     UserDirectory
	images    ImageRemover
	publisher realtime.Publisher
	now       func() time.Time
}

func NewService(store Store, pickupStore PickupStore, users UserDirectory, publisher realtime.Publisher) *Service {
	if publisher == nil {
		publisher = realtime.Nop{}
	}
	return &Service{
		store:     store,
		pickups:   pickupStore,
		users:     users,
		publisher: publisher,
		now:       time.Now,
	}
}

// WithImageRemover makes Delete also remove the donation's uploaded images
func (s *Service) WithImageRemover(r ImageRemover) *Service {
	s.images = r
	return s
}

// Create lists a new pending donation for the donor
func (s *Service) Create(ctx context.Context, donor *auth.User, req *CreateDonationRequest) (*DonationView, error) {
	now := s.now()
	if err := ValidateCreate(req, now); err != nil {
		return nil, err
	}

	d := &Donation{
		ItemName:           req.ItemName,
		Description:        req.Description,
		Category:           req.Category,
		Quantity:           req.Quantity,
		Location:           req.Location,
		Status:             StatusPending,
		DonorID:            donor.ID,
		ExpiryTime:         utcPtr(req.ExpiryTime),
		AcceptanceDeadline: utcPtr(req.AcceptanceDeadline),
		Images:             req.Images,
		ImagePublicIDs:     req.ImagePublicIDs,
	}
	if d.Images == nil {
		d.Images = []string{}
	}

	if err := s.store.Create(ctx, d); err != nil {
		return nil, err
	}

	view := d.View(now)
	view.Donor = donor.ToProfile()
	s.publish(ctx, realtime.EventInsert, d.ID, view)
	return &view, nil
}

// ListByDonor returns the donor's own donations, newest first, with
// pickup requests and receiver profiles
func (s *Service) ListByDonor(ctx context.Context, donor *auth.User) ([]DonationView, error) {
	items, _, err := s.store.List(ctx, Filter{DonorID: &donor.ID}, 0, 0)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, items)
}

// Browse is the receiver listing. Received and rejected donations are
// limited to the ones the caller acted on.
func (s *Service) Browse(ctx context.Context, user *auth.User, q *BrowseQuery) ([]DonationView, int64, *pagination.PaginationRequest, error) {
	if err := ValidateBrowseQuery(q); err != nil {
		return nil, 0, nil, err
	}
	page := pagination.FromRequest(strconv.Itoa(q.Page), strconv.Itoa(q.Limit))

	filter := Filter{Status: q.Status, Category: q.Category}
	if q.Status == StatusReceived || q.Status == StatusRejected {
		filter.ReceiverID = &user.ID
	}

	items, total, err := s.store.List(ctx, filter, page.Skip(), int64(page.Limit))
	if err != nil {
		return nil, 0, nil, err
	}
	views, err := s.enrich(ctx, items)
	if err != nil {
		return nil, 0, nil, err
	}
	return views, total, page, nil
}

// ListAll is the admin listing across every donor
func (s *Service) ListAll(ctx context.Context, q *BrowseQuery) ([]DonationView, int64, *pagination.PaginationRequest, error) {
	if err := ValidateBrowseQuery(q); err != nil {
		return nil, 0, nil, err
	}
	page := pagination.FromRequest(strconv.Itoa(q.Page), strconv.Itoa(q.Limit))

	items, total, err := s.store.List(ctx, Filter{Status: q.Status, Category: q.Category}, page.Skip(), int64(page.Limit))
	if err != nil {
		return nil, 0, nil, err
	}
	views, err := s.enrich(ctx, items)
	if err != nil {
		return nil, 0, nil, err
	}
	return views, total, page, nil
}

// Get returns one enriched donation
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*DonationView, error) {
	d, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.enrich(ctx, []Donation{*d})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// UpdateStatus applies a receiver's accept or reject. Expired food cannot
// be accepted, and only pending donations can change status.
func (s *Service) UpdateStatus(ctx context.Context, receiver *auth.User, id primitive.ObjectID, action string) (*DonationView, error) {
	if action != StatusReceived && action != StatusRejected {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "action must be received or rejected")
	}

	d, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if NormalizeStatus(d.Status) != StatusPending {
		return nil, apperrors.Wrap(apperrors.ErrConflict, "donation is no longer pending")
	}

	now := s.now()
	if action == StatusReceived && d.IsExpiredAt(now) {
		return nil, apperrors.Wrap(apperrors.ErrExpired, "this food donation has expired and can no longer be accepted")
	}

	updated, err := s.store.TransitionStatus(ctx, id, action, receiver.ID)
	if err != nil {
		return nil, err
	}

	view := updated.View(now)
	view.Receiver = receiver.ToProfile()
	s.publish(ctx, realtime.EventUpdate, updated.ID, view)
	return &view, nil
}

// Delete removes a donation and its pickup requests. Donors may delete
// their own donations, admins any.
func (s *Service) Delete(ctx context.Context, user *auth.User, id primitive.ObjectID) error {
	d, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !user.IsAdmin() && d.DonorID != user.ID {
		return apperrors.Wrap(apperrors.ErrForbidden, "you can only delete your own donations")
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if n, err := s.pickups.DeleteByDonation(ctx, id); err != nil {
		logger.L().Warn().Err(err).Str("donation_id", id.Hex()).Msg("failed to delete pickup requests")
	} else if n > 0 {
		logger.L().Debug().Int64("count", n).Str("donation_id", id.Hex()).Msg("deleted pickup requests")
	}

	s.removeImages(ctx, d)

	s.publish(ctx, realtime.EventDelete, id, nil)
	return nil
}

func (s *Service) removeImages(ctx context.Context, d *Donation) {
	if s.images == nil {
		return
	}
	for _, publicID := range d.ImagePublicIDs {
		if err := s.images.Delete(ctx, publicID); err != nil {
			logger.L().Warn().Err(err).Str("donation_id", d.ID.Hex()).Str("public_id", publicID).Msg("failed to delete donation image")
		}
	}
}

// Stats returns aggregate counts for the admin dashboard
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.store.Stats(ctx)
}

// PickupTarget lets the pickups feature check a donation before scheduling
func (s *Service) PickupTarget(ctx context.Context, id primitive.ObjectID) (*pickups.DonationInfo, error) {
	d, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &pickups.DonationInfo{
		ID:      d.ID,
		DonorID: d.DonorID,
		Status:  NormalizeStatus(d.Status),
		Expired: d.IsExpiredAt(s.now()),
	}, nil
}

// DonorOf resolves who listed a donation, used to address messages
func (s *Service) DonorOf(ctx context.Context, id primitive.ObjectID) (primitive.ObjectID, error) {
	d, err := s.store.FindByID(ctx, id)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return d.DonorID, nil
}

func (s *Service) enrich(ctx context.Context, items []Donation) ([]DonationView, error) {
	views := make([]DonationView, 0, len(items))
	if len(items) == 0 {
		return views, nil
	}

	now := s.now()
	ids := make([]primitive.ObjectID, 0, len(items))
	userIDs := make([]primitive.ObjectID, 0, len(items)*2)
	for i := range items {
		ids = append(ids, items[i].ID)
		userIDs = append(userIDs, items[i].DonorID)
		if items[i].ReceiverID != nil {
			userIDs = append(userIDs, *items[i].ReceiverID)
		}
	}

	users, err := s.users.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	pickupsByDonation, err := s.pickups.ListByDonations(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range items {
		v := items[i].View(now)
		v.Donor = users[items[i].DonorID].ToProfile()
		if items[i].ReceiverID != nil {
			v.Receiver = users[*items[i].ReceiverID].ToProfile()
		}
		v.PickupRequests = pickupsByDonation[items[i].ID]
		views = append(views, v)
	}
	return views, nil
}

func (s *Service) publish(ctx context.Context, eventType realtime.EventType, id primitive.ObjectID, record interface{}) {
	ev, err := realtime.NewEvent(realtime.TableDonations, eventType, id.Hex(), record)
	if err == nil {
		err = s.publisher.Publish(ctx, ev)
	}
	if err != nil {
		logger.L().Warn().Err(err).Str("donation_id", id.Hex()).Str("type", string(eventType)).Msg("failed to publish donation event")
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
