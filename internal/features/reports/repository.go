package reports

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
	collection := db.Collection("user_reports")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "reportedUserId", Value: 1}}},
	})

	return &Repository{collection: collection}
}

func (r *Repository) Create(ctx context.Context, report *UserReport) error {
	now := time.Now()
	report.CreatedAt = now
	report.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, report)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		report.ID = oid
	}
	return nil
}

func (r *Repository) List(ctx context.Context, status string, skip, limit int64) ([]UserReport, int64, error) {
	query := bson.M{}
	if status != "" {
		query["status"] = status
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}
	defer cursor.Close(ctx)

	items := []UserReport{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode reports: %w", err)
	}
	return items, total, nil
}

func (r *Repository) SetStatus(ctx context.Context, id primitive.ObjectID, status string) (*UserReport, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}

	var report UserReport
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.Wrap(apperrors.ErrNotFound, "report not found")
		}
		return nil, fmt.Errorf("update report: %w", err)
	}
	return &report, nil
}

// SetStatusForReported updates every report on a user. An empty from
// matches any current status.
func (r *Repository) SetStatusForReported(ctx context.Context, reportedID primitive.ObjectID, from []string, to string) (int64, error) {
	filter := bson.M{"reportedUserId": reportedID}
	if len(from) > 0 {
		filter["status"] = bson.M{"$in": from}
	}

	result, err := r.collection.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now()}})
	if err != nil {
		return 0, fmt.Errorf("update reports for user: %w", err)
	}
	return result.ModifiedCount, nil
}
