package pickups

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/sharebox/internal/features/auth"
	"github.com/xyz-asif/sharebox/internal/pkg/logger"
	"github.com/xyz-asif/sharebox/internal/realtime"
	apperrors "github.com/xyz-asif/sharebox/pkg/errors"
)

const statusPending = "pending"

type Store interface {
	Create(ctx context.Context, req *PickupRequest) error
	ListByDonation(ctx context.Context, donationID primitive.ObjectID) ([]PickupRequest, error)
}

// DonationSource resolves the donation a pickup is scheduled for
type DonationSource interface {
	PickupTarget(ctx context.Context, donationID primitive.ObjectID) (*DonationInfo, error)
}

type Service struct {
	store     Store
	donations DonationSource
	publisher realtime.Publisher
	now       func() time.Time
}

func NewService(store Store, donations DonationSource, publisher realtime.Publisher) *Service {
	if publisher == nil {
		publisher = realtime.Nop{}
	}
	return &Service{
		store:     store,
		donations: donations,
		publisher: publisher,
		now:       time.Now,
	}
}

// Create schedules a pickup for a pending, unexpired donation
func (s *Service) Create(ctx context.Context, user *auth.User, donationID primitive.ObjectID, req *CreatePickupRequest) (*PickupRequest, error) {
	now := s.now()
	if !req.PickupTime.After(now) {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "pickup time must be in the future")
	}

	info, err := s.donations.PickupTarget(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if info.Status != statusPending {
		return nil, apperrors.Wrap(apperrors.ErrConflict, "donation is no longer available for pickup")
	}
	if info.Expired {
		return nil, apperrors.Wrap(apperrors.ErrExpired, "this food donation has expired")
	}

	pickup := &PickupRequest{
		DonationID: donationID,
		UserID:     user.ID,
		PickupTime: req.PickupTime.UTC(),
		CreatedAt:  now,
	}
	if err := s.store.Create(ctx, pickup); err != nil {
		return nil, err
	}

	ev, err := realtime.NewEvent(realtime.TablePickupRequests, realtime.EventInsert, pickup.ID.Hex(), pickup)
	if err == nil {
		err = s.publisher.Publish(ctx, ev)
	}
	if err != nil {
		logger.L().Warn().Err(err).Str("pickup_id", pickup.ID.Hex()).Msg("failed to publish pickup event")
	}

	return pickup, nil
}

// List returns the donation's pickup requests. Donors only see their own donations'.
func (s *Service) List(ctx context.Context, user *auth.User, donationID primitive.ObjectID) ([]PickupRequest, error) {
	info, err := s.donations.PickupTarget(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if user.UserType == auth.UserTypeDonor && info.DonorID != user.ID {
		return nil, apperrors.Wrap(apperrors.ErrForbidden, "you can only view pickups for your own donations")
	}
	return s.store.ListByDonation(ctx, donationID)
}
