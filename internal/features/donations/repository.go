package donations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/xyz-asif/sharebox/pkg/errors"
)

type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("donations")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "donorId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "category", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "receiverId", Value: 1}, {Key: "status", Value: 1}}},
	})

	return &Repository{collection: collection}
}

func (r *Repository) Create(ctx context.Context, d *Donation) error {
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, d)
	if err != nil {
		return fmt.Errorf("insert donation: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		d.ID = oid
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id primitive.ObjectID) (*Donation, error) {
	var d Donation
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.Wrap(apperrors.ErrNotFound, "donation not found")
		}
		return nil, fmt.Errorf("find donation: %w", err)
	}
	return &d, nil
}

func buildFilter(f Filter) bson.M {
	query := bson.M{}
	if f.DonorID != nil {
		query["donorId"] = *f.DonorID
	}
	if f.ReceiverID != nil {
		query["receiverId"] = *f.ReceiverID
	}
	if f.Status != "" && f.Status != StatusAll {
		query["status"] = f.Status
	}
	if f.Category != "" {
		query["category"] = f.Category
	}
	return query
}

// List returns matching donations newest first. A limit of 0 returns all.
func (r *Repository) List(ctx context.Context, f Filter, skip, limit int64) ([]Donation, int64, error) {
	query := buildFilter(f)

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count donations: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list donations: %w", err)
	}
	defer cursor.Close(ctx)

	items := []Donation{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode donations: %w", err)
	}
	return items, total, nil
}

// TransitionStatus moves a pending donation to status and records the
// receiver. The pending guard is part of the update filter.
func (r *Repository) TransitionStatus(ctx context.Context, id primitive.ObjectID, status string, receiverID primitive.ObjectID) (*Donation, error) {
	filter := bson.M{"_id": id, "status": StatusPending}
	update := bson.M{"$set": bson.M{
		"status":     status,
		"receiverId": receiverID,
		"updatedAt":  time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d Donation
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&d)
	if err == nil {
		return &d, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("update donation status: %w", err)
	}

	if _, findErr := r.FindByID(ctx, id); findErr != nil {
		return nil, findErr
	}
	return nil, apperrors.Wrap(apperrors.ErrConflict, "donation is no longer pending")
}

func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete donation: %w", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.Wrap(apperrors.ErrNotFound, "donation not found")
	}
	return nil
}

type countRow struct {
	Key   string `bson:"_id"`
	Count int64  `bson:"count"`
}

func (r *Repository) countBy(ctx context.Context, field string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate donations by %s: %w", field, err)
	}
	defer cursor.Close(ctx)

	var rows []countRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode %s counts: %w", field, err)
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Key] += row.Count
	}
	return out, nil
}

// Stats aggregates donation counts for the admin dashboard
func (r *Repository) Stats(ctx context.Context) (*Stats, error) {
	byStatus, err := r.countBy(ctx, "status")
	if err != nil {
		return nil, err
	}
	byCategory, err := r.countBy(ctx, "category")
	if err != nil {
		return nil, err
	}

	donors, err := r.collection.Distinct(ctx, "donorId", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("distinct donors: %w", err)
	}
	receivers, err := r.collection.Distinct(ctx, "receiverId", bson.M{"receiverId": bson.M{"$ne": nil}})
	if err != nil {
		return nil, fmt.Errorf("distinct receivers: %w", err)
	}

	stats := &Stats{
		ByStatus:        make(map[string]int64, 3),
		ByCategory:      byCategory,
		UniqueDonors:    int64(len(donors)),
		UniqueReceivers: int64(len(receivers)),
	}
	for status, n := range byStatus {
		stats.ByStatus[NormalizeStatus(status)] += n
		stats.Total += n
	}
	return stats, nil
}
