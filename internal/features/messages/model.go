package messages

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a short note between two users, usually about a donation
type Message struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	SenderID    primitive.ObjectID  `bson:"senderId" json:"senderId"`
	SenderType  string              `bson:"senderType" json:"senderType"`
	RecipientID primitive.ObjectID  `bson:"recipientId" json:"recipientId"`
	DonationID  *primitive.ObjectID `bson:"donationId,omitempty" json:"donationId,omitempty"`
	Content     string              `bson:"content" json:"content"`
	IsRead      bool                `bson:"isRead" json:"isRead"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
}

type MessageView struct {
	Message
	SenderName string `json:"senderName"`
}

// SendMessageRequest needs a recipient, a donation, or both. Without a
// recipient the message goes to the donation's donor.
type SendMessageRequest struct {
	RecipientID string `json:"recipientId"`
	DonationID  string `json:"donationId"`
	Content     string `json:"content" binding:"required"`
}

type InboxQuery struct {
	Page       int  `form:"page"`
	Limit      int  `form:"limit"`
	UnreadOnly bool `form:"unreadOnly"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
