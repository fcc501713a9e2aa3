package pickups

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PickupRequest is a receiver's proposed time to collect a donation
type PickupRequest struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DonationID primitive.ObjectID `bson:"donationId" json:"donationId"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	PickupTime time.Time          `bson:"pickupTime" json:"pickupTime"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// CreatePickupRequest is the body of POST /donations/:id/pickups
type CreatePickupRequest struct {
	PickupTime time.Time `json:"pickupTime" binding:"required"`
}

// DonationInfo is what scheduling needs to know about a donation
type DonationInfo struct {
	ID      primitive.ObjectID
	DonorID primitive.ObjectID
	Status  string
	Expired bool
}
