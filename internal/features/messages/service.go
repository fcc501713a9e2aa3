package messages

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
	Create(ctx context.Context, msg *Message) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Message, error)
	ListForRecipient(ctx context.Context, recipientID primitive.ObjectID, unreadOnly bool, skip, limit int64) ([]Message, int64, error)
	CountUnread(ctx context.Context, recipientID primitive.ObjectID) (int64, error)
	MarkRead(ctx context.Context, recipientID primitive.ObjectID, ids []primitive.ObjectID) (int64, error)
}

type UserDirectory interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*auth.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*auth.User, error)
}

// DonationDirectory resolves who listed a donation
type DonationDirectory interface {
	DonorOf(ctx context.Context, donationID primitive.ObjectID) (primitive.ObjectID, error)
}

type Service struct {
	store     Store
	users     UserDirectory
	donations DonationDirectory
	publisher realtime.Publisher
}

func NewService(store Store, users UserDirectory, donations DonationDirectory, publisher realtime.Publisher) *Service {
	if publisher == nil {
		publisher = realtime.Nop{}
	}
	return &Service{store: store, users: users, donations: donations, publisher: publisher}
}

// Send stores a message from sender. When no recipient is given the
// donation's donor receives it.
func (s *Service) Send(ctx context.Context, sender *auth.User, req *SendMessageRequest) (*Message, error) {
	if sender.UserType != auth.UserTypeDonor && sender.UserType != auth.UserTypeReceiver {
		return nil, apperrors.Wrap(apperrors.ErrForbidden, "only donors and receivers can send messages")
	}
	if err := ValidateSendMessage(req); err != nil {
		return nil, err
	}

	msg := &Message{
		SenderID:   sender.ID,
		SenderType: sender.UserType,
		Content:    req.Content,
	}

	if req.DonationID != "" {
		donationID, err := primitive.ObjectIDFromHex(req.DonationID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrValidation, "invalid donation id")
		}
		donorID, err := s.donations.DonorOf(ctx, donationID)
		if err != nil {
			return nil, err
		}
		msg.DonationID = &donationID
		msg.RecipientID = donorID
	}

	if req.RecipientID != "" {
		recipientID, err := primitive.ObjectIDFromHex(req.RecipientID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrValidation, "invalid recipient id")
		}
		if _, err := s.users.FindByID(ctx, recipientID); err != nil {
			return nil, err
		}
		msg.RecipientID = recipientID
	}

	if msg.RecipientID == sender.ID {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "you cannot message yourself")
	}

	if err := s.store.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.publish(ctx, realtime.EventInsert, msg)
	return msg, nil
}

// Inbox lists messages addressed to the user and marks the returned page
// read. Each message it marks read is published as an UPDATE.
func (s *Service) Inbox(ctx context.Context, user *auth.User, q *InboxQuery) ([]MessageView, int64, *pagination.PaginationRequest, error) {
	page := pagination.FromRequest(strconv.Itoa(q.Page), strconv.Itoa(q.Limit))

	items, total, err := s.store.ListForRecipient(ctx, user.ID, q.UnreadOnly, page.Skip(), int64(page.Limit))
	if err != nil {
		return nil, 0, nil, err
	}

	senderIDs := make([]primitive.ObjectID, 0, len(items))
	unread := make([]primitive.ObjectID, 0, len(items))
	for _, m := range items {
		senderIDs = append(senderIDs, m.SenderID)
		if !m.IsRead {
			unread = append(unread, m.ID)
		}
	}

	senders, err := s.users.FindByIDs(ctx, senderIDs)
	if err != nil {
		return nil, 0, nil, err
	}

	views := make([]MessageView, 0, len(items))
	for _, m := range items {
		view := MessageView{Message: m}
		if u, ok := senders[m.SenderID]; ok {
			view.SenderName = u.FullName()
		}
		views = append(views, view)
	}

	if len(unread) > 0 {
		if _, err := s.store.MarkRead(ctx, user.ID, unread); err != nil {
			logger.L().Warn().Err(err).Str("user_id", user.ID.Hex()).Msg("failed to mark inbox read")
		} else {
			for i := range items {
				if items[i].IsRead {
					continue
				}
				read := items[i]
				read.IsRead = true
				s.publish(ctx, realtime.EventUpdate, &read)
			}
		}
	}

	return views, total, page, nil
}

func (s *Service) UnreadCount(ctx context.Context, user *auth.User) (int64, error) {
	return s.store.CountUnread(ctx, user.ID)
}

// MarkRead flags a single message read. Only its recipient may do so.
func (s *Service) MarkRead(ctx context.Context, user *auth.User, id primitive.ObjectID) (*Message, error) {
	msg, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg.RecipientID != user.ID {
		return nil, apperrors.Wrap(apperrors.ErrForbidden, "message is not addressed to you")
	}
	if msg.IsRead {
		return msg, nil
	}

	if _, err := s.store.MarkRead(ctx, user.ID, []primitive.ObjectID{id}); err != nil {
		return nil, err
	}
	msg.IsRead = true

	s.publish(ctx, realtime.EventUpdate, msg)
	return msg, nil
}

func (s *Service) publish(ctx context.Context, eventType realtime.EventType, msg *Message) {
	ev, err := realtime.NewEvent(realtime.TableMessages, eventType, msg.ID.Hex(), msg)
	if err == nil {
		err = s.publisher.Publish(ctx, ev.To(msg.RecipientID.Hex(), msg.SenderID.Hex()))
	}
	if err != nil {
		logger.L().Warn().Err(err).Str("message_id", msg.ID.Hex()).Msg("failed to publish message event")
	}
}
