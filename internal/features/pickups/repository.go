package pickups

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("pickup_requests")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "donationId", Value: 1}, {Key: "pickupTime", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
	})

	return &Repository{collection: collection}
}

func (r *Repository) Create(ctx context.Context, req *PickupRequest) error {
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, req)
	if err != nil {
		return fmt.Errorf("insert pickup request: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		req.ID = oid
	}
	return nil
}

// ListByDonation returns a donation's pickup requests, earliest pickup first
func (r *Repository) ListByDonation(ctx context.Context, donationID primitive.ObjectID) ([]PickupRequest, error) {
	byDonation, err := r.ListByDonations(ctx, []primitive.ObjectID{donationID})
	if err != nil {
		return nil, err
	}
	if reqs := byDonation[donationID]; reqs != nil {
		return reqs, nil
	}
	return []PickupRequest{}, nil
}

// ListByDonations groups the pickup requests of several donations
func (r *Repository) ListByDonations(ctx context.Context, donationIDs []primitive.ObjectID) (map[primitive.ObjectID][]PickupRequest, error) {
	out := make(map[primitive.ObjectID][]PickupRequest, len(donationIDs))
	if len(donationIDs) == 0 {
		return out, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "pickupTime", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"donationId": bson.M{"$in": donationIDs}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find pickup requests: %w", err)
	}
	defer cursor.Close(ctx)

	var reqs []PickupRequest
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, fmt.Errorf("decode pickup requests: %w", err)
	}
	for _, req := range reqs {
		out[req.DonationID] = append(out[req.DonationID], req)
	}
	return out, nil
}

// DeleteByDonation removes every pickup request of a deleted donation
func (r *Repository) DeleteByDonation(ctx context.Context, donationID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"donationId": donationID})
	if err != nil {
		return 0, fmt.Errorf("delete pickup requests: %w", err)
	}
	return result.DeletedCount, nil
}
