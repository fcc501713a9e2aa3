package donations

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/sharebox/internal/features/auth"
	"github.com/xyz-asif/sharebox/internal/features/pickups"
)

// Donation statuses
const (
	StatusPending  = "pending"
	StatusReceived = "received"
	StatusRejected = "rejected"

	// StatusAll is the browse filter that disables status filtering
	StatusAll = "All"
)

// CategoryFood is the only category whose items carry an expiry time
const CategoryFood = "food"

// Categories lists the accepted donation categories
var Categories = []string{
	CategoryFood,
	"clothes",
	"furniture",
	"electronics",
	"books",
	"toys",
	"medical-equipment",
	"medicine",
	"other",
}

// IsValidCategory reports whether c is one of Categories
func IsValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// NormalizeStatus maps stored status values onto the three known ones,
// treating anything unrecognized as pending
func NormalizeStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case StatusReceived:
		return StatusReceived
	case StatusRejected:
		return StatusRejected
	default:
		return StatusPending
	}
}

// Donation is an item listed by a donor
type Donation struct {
	ID                 primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ItemName           string              `bson:"itemName" json:"itemName"`
	Description        string              `bson:"description" json:"description"`
	Category           string              `bson:"category" json:"category"`
	Quantity           string              `bson:"quantity" json:"quantity"`
	Location           string              `bson:"location" json:"location"`
	Status             string              `bson:"status" json:"status"`
	DonorID            primitive.ObjectID  `bson:"donorId" json:"donorId"`
	ReceiverID         *primitive.ObjectID `bson:"receiverId,omitempty" json:"receiverId,omitempty"`
	ExpiryTime         *time.Time          `bson:"expiryTime,omitempty" json:"expiryTime,omitempty"`
	AcceptanceDeadline *time.Time          `bson:"acceptanceDeadline,omitempty" json:"acceptanceDeadline,omitempty"`
	Images             []string            `bson:"images" json:"images"`
	ImagePublicIDs     []string            `bson:"imagePublicIds,omitempty" json:"imagePublicIds,omitempty"`
	CreatedAt          time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// DonationView is a donation as returned by the API, with derived
// freshness fields and optional enrichment
type DonationView struct {
	Donation
	TimeRemaining  string                  `json:"timeRemaining"`
	IsExpired      bool                    `json:"isExpired"`
	Donor          *auth.Profile           `json:"donor,omitempty"`
	Receiver       *auth.Profile           `json:"receiver,omitempty"`
	PickupRequests []pickups.PickupRequest `json:"pickupRequests,omitempty"`
}

// CreateDonationRequest is the body of POST /donations
type CreateDonationRequest struct {
	ItemName           string     `json:"itemName" binding:"required"`
	Description        string     `json:"description"`
	Category           string     `json:"category" binding:"required"`
	Quantity           string     `json:"quantity" binding:"required"`
	Location           string     `json:"location" binding:"required"`
	ExpiryTime         *time.Time `json:"expiryTime,omitempty"`
	AcceptanceDeadline *time.Time `json:"acceptanceDeadline,omitempty"`
	Images             []string   `json:"images"`
	ImagePublicIDs     []string   `json:"imagePublicIds"`
}

// UpdateStatusRequest is the receiver's accept or reject action
type UpdateStatusRequest struct {
	Action string `json:"action" binding:"required,oneof=received rejected"`
}

// BrowseQuery filters the receiver and admin listings
type BrowseQuery struct {
	Status   string `form:"status"`
	Category string `form:"category"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

// Filter is the repository-level listing filter
type Filter struct {
	DonorID    *primitive.ObjectID
	ReceiverID *primitive.ObjectID
	Status     string
	Category   string
}

// Stats summarizes every donation for the admin dashboard
type Stats struct {
	Total           int64            `json:"total"`
	ByStatus        map[string]int64 `json:"byStatus"`
	ByCategory      map[string]int64 `json:"byCategory"`
	UniqueDonors    int64            `json:"uniqueDonors"`
	UniqueReceivers int64            `json:"uniqueReceivers"`
}
