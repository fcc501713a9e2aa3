package reports

import (
	"context"
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/sharebox/internal/features/auth"
	"github.com/xyz-asif/sharebox/internal/pkg/logger"
	"github.com/xyz-asif/sharebox/internal/pkg/pagination"
	"github.com/xyz-asif/sharebox/internal/realtime"
	apperrors "github.com/xyz-asif/sharebox/pkg/errors"
)

type Store interface {
	Create(ctx context.Context, report *UserReport) error
	List(ctx context.Context, status string, skip, limit int64) ([]UserReport, int64, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) (*UserReport, error)
	SetStatusForReported(ctx context.Context, reportedID primitive.ObjectID, from []string, to string) (int64, error)
}

// UserAccounts is the part of the user store moderation needs
type UserAccounts interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*auth.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*auth.User, error)
	SetBanned(ctx context.Context, id primitive.ObjectID, banned bool) error
}

// SessionRevoker closes a user's live connections
type SessionRevoker interface {
	DisconnectUser(userID string) int
}

type Service struct {
	store     Store
	users     UserAccounts
	publisher realtime.Publisher
	sessions  SessionRevoker
}

func NewService(store Store, users UserAccounts, publisher realtime.Publisher) *Service {
	if publisher == nil {
		publisher = realtime.Nop{}
	}
	return &Service{store: store, users: users, publisher: publisher}
}

// WithSessionRevoker makes Ban also cut the user's open change feeds
func (s *Service) WithSessionRevoker(r SessionRevoker) *Service {
	s.sessions = r
	return s
}

// Create files a report against another user
func (s *Service) Create(ctx context.Context, reporter *auth.User, req *CreateReportRequest) (*UserReport, error) {
	if err := ValidateCreateReport(req); err != nil {
		return nil, err
	}

	reportedID, err := primitive.ObjectIDFromHex(req.ReportedUserID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "invalid reported user id")
	}
	if reportedID == reporter.ID {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "you cannot report yourself")
	}
	if _, err := s.users.FindByID(ctx, reportedID); err != nil {
		return nil, err
	}

	report := &UserReport{
		ReporterID: reporter.ID,
		ReportedID: reportedID,
		Reason:     req.Reason,
		Status:     StatusPending,
	}
	if err := s.store.Create(ctx, report); err != nil {
		return nil, err
	}

	s.publish(ctx, realtime.EventInsert, report.ID, report, reporter.ID.Hex())
	return report, nil
}

// List returns reports for the admin table, newest first
func (s *Service) List(ctx context.Context, q *ListQuery) ([]ReportView, int64, *pagination.PaginationRequest, error) {
	if err := ValidateListQuery(q); err != nil {
		return nil, 0, nil, err
	}
	page := pagination.FromRequest(strconv.Itoa(q.Page), strconv.Itoa(q.Limit))

	items, total, err := s.store.List(ctx, q.Status, page.Skip(), int64(page.Limit))
	if err != nil {
		return nil, 0, nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(items)*2)
	for _, r := range items {
		ids = append(ids, r.ReporterID, r.ReportedID)
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, 0, nil, err
	}

	views := make([]ReportView, 0, len(items))
	for _, r := range items {
		views = append(views, ReportView{
			UserReport: r,
			Reporter:   users[r.ReporterID].ToProfile(),
			Reported:   users[r.ReportedID].ToProfile(),
		})
	}
	return views, total, page, nil
}

// SetStatus approves or rejects a single report
func (s *Service) SetStatus(ctx context.Context, id primitive.ObjectID, status string) (*UserReport, error) {
	if status != StatusApproved && status != StatusRejected {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "status must be approved or rejected")
	}

	report, err := s.store.SetStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, realtime.EventUpdate, report.ID, report, report.ReporterID.Hex())
	return report, nil
}

// Ban blocks the user from signing in and marks every report on them banned
func (s *Service) Ban(ctx context.Context, userID primitive.ObjectID) (*BanResult, error) {
	target, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if target.IsAdmin() {
		return nil, apperrors.Wrap(apperrors.ErrForbidden, "admins cannot be banned")
	}

	if err := s.users.SetBanned(ctx, userID, true); err != nil {
		return nil, err
	}
	n, err := s.store.SetStatusForReported(ctx, userID, nil, StatusBanned)
	if err != nil {
		return nil, err
	}

	closed := 0
	if s.sessions != nil {
		closed = s.sessions.DisconnectUser(userID.Hex())
	}

	logger.L().Info().Str("user_id", userID.Hex()).Int64("reports", n).Int("connections_closed", closed).Msg("user banned")
	return &BanResult{UserID: userID, Banned: true, ReportsAffected: n}, nil
}

// Unban lifts a ban; the reports that caused it stay on record as approved
func (s *Service) Unban(ctx context.Context, userID primitive.ObjectID) (*BanResult, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.users.SetBanned(ctx, userID, false); err != nil {
		return nil, err
	}
	n, err := s.store.SetStatusForReported(ctx, userID, []string{StatusBanned}, StatusApproved)
	if err != nil {
		return nil, err
	}

	logger.L().Info().Str("user_id", userID.Hex()).Int64("reports", n).Msg("user unbanned")
	return &BanResult{UserID: userID, Banned: false, ReportsAffected: n}, nil
}

func (s *Service) publish(ctx context.Context, eventType realtime.EventType, id primitive.ObjectID, record interface{}, audience ...string) {
	ev, err := realtime.NewEvent(realtime.TableUserReports, eventType, id.Hex(), record)
	if err == nil {
		err = s.publisher.Publish(ctx, ev.To(audience...))
	}
	if err != nil {
		logger.L().Warn().Err(err).Str("report_id", id.Hex()).Msg("failed to publish report event")
	}
}
