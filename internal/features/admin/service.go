package admin

import (
	"context"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/sharebox/internal/features/auth"
	"github.com/xyz-asif/sharebox/internal/features/donations"
	"github.com/xyz-asif/sharebox/internal/pkg/pagination"
	apperrors "github.com/xyz-asif/sharebox/pkg/errors"
)

// DonationModerator is the slice of the donation service the dashboard uses
type DonationModerator interface {
	ListAll(ctx context.Context, q *donations.BrowseQuery) ([]donations.DonationView, int64, *pagination.PaginationRequest, error)
	Delete(ctx context.Context, user *auth.User, id primitive.ObjectID) error
	Stats(ctx context.Context) (*donations.Stats, error)
}

type UserLister interface {
	List(ctx context.Context, filter auth.UserFilter, skip, limit int64) ([]auth.User, int64, error)
}

type Service struct {
	donations DonationModerator
	users     UserLister
}

func NewService(donations DonationModerator, users UserLister) *Service {
	return &Service{donations: donations, users: users}
}

func (s *Service) ListDonations(ctx context.Context, q *donations.BrowseQuery) ([]donations.DonationView, int64, *pagination.PaginationRequest, error) {
	return s.donations.ListAll(ctx, q)
}

// DeleteDonation removes any donation. Subscribers see a DELETE event.
func (s *Service) DeleteDonation(ctx context.Context, admin *auth.User, id primitive.ObjectID) error {
	if !admin.IsAdmin() {
		return apperrors.Wrap(apperrors.ErrForbidden, "admin access required")
	}
	return s.donations.Delete(ctx, admin, id)
}

func (s *Service) Stats(ctx context.Context) (*donations.Stats, error) {
	return s.donations.Stats(ctx)
}

func (s *Service) ListUsers(ctx context.Context, q *UserListQuery) ([]UserRow, int64, *pagination.PaginationRequest, error) {
	filter, err := parseUserFilter(q)
	if err != nil {
		return nil, 0, nil, err
	}
	page := pagination.FromRequest(strconv.Itoa(q.Page), strconv.Itoa(q.Limit))

	users, total, err := s.users.List(ctx, filter, page.Skip(), int64(page.Limit))
	if err != nil {
		return nil, 0, nil, err
	}

	rows := make([]UserRow, 0, len(users))
	for i := range users {
		rows = append(rows, UserRow{
			Profile:   *users[i].ToProfile(),
			Banned:    users[i].Banned,
			CreatedAt: users[i].CreatedAt,
		})
	}
	return rows, total, page, nil
}

func parseUserFilter(q *UserListQuery) (auth.UserFilter, error) {
	var filter auth.UserFilter

	switch userType := strings.ToLower(strings.TrimSpace(q.UserType)); userType {
	case "", "all":
	case auth.UserTypeDonor, auth.UserTypeReceiver, auth.UserTypeAdmin:
		filter.UserType = userType
	default:
		return filter, apperrors.Wrap(apperrors.ErrValidation, "unknown user type")
	}

	if raw := strings.TrimSpace(q.Banned); raw != "" {
		banned, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, apperrors.Wrap(apperrors.ErrValidation, "banned must be true or false")
		}
		filter.Banned = &banned
	}
	return filter, nil
}
