// internal/app/store/leaves/leavestore.go
package leavestore

import (
	"context"
	"time"

	"github.com/dalemusser/staffhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("leaves")}
}

// Create inserts a leave. An empty Status is stored as pending.
func (s *Store) Create(ctx context.Context, l models.Leave) (models.Leave, error) {
	now := time.Now().UTC()
	l.ID = primitive.NewObjectID()
	l.FromDate = l.FromDate.UTC()
	l.ToDate = l.ToDate.UTC()
	if l.Status == "" {
		l.Status = models.LeavePending
	}
	l.CreatedAt = now
	l.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, l); err != nil {
		return models.Leave{}, err
	}
	return l, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Leave, error) {
	var l models.Leave
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		return models.Leave{}, err
	}
	return l, nil
}

// SetStatus changes the leave's status, but only while it is still in
// fromStatus. Returns mongo.ErrNoDocuments when no such leave exists in
// that state.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, fromStatus, toStatus string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": fromStatus},
		bson.M{"$set": bson.M{"status": toStatus, "updated_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a leave by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteInStatus removes the leave only while it is in status.
func (s *Store) DeleteInStatus(ctx context.Context, id primitive.ObjectID, status string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "status": status})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByEmployee returns an employee's leaves, most recent first.
func (s *Store) ListByEmployee(ctx context.Context, employeeID primitive.ObjectID) ([]models.Leave, error) {
	opts := options.Find().SetSort(bson.D{{Key: "from_date", Value: -1}, {Key: "_id", Value: -1}})
	return s.Find(ctx, bson.M{"employee_id": employeeID}, opts)
}

// ApprovedOverlapping returns approved leaves of the employee that share at
// least one day with [from, to]. excludeID is skipped (use NilObjectID to
// skip nothing).
func (s *Store) ApprovedOverlapping(ctx context.Context, employeeID primitive.ObjectID, from, to time.Time, excludeID primitive.ObjectID) ([]models.Leave, error) {
	return s.Find(ctx, bson.M{
		"employee_id": employeeID,
		"status":      models.LeaveApproved,
		"_id":         bson.M{"$ne": excludeID},
		"from_date":   bson.M{"$lte": to.UTC()},
		"to_date":     bson.M{"$gte": from.UTC()},
	})
}

// ApprovedOfTypeInPeriod returns approved leaves of leaveType for the given
// employees that share a day with [from, to].
func (s *Store) ApprovedOfTypeInPeriod(ctx context.Context, employeeIDs []primitive.ObjectID, leaveType string, from, to time.Time) ([]models.Leave, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	return s.Find(ctx, bson.M{
		"employee_id": bson.M{"$in": employeeIDs},
		"leave_type":  leaveType,
		"status":      models.LeaveApproved,
		"from_date":   bson.M{"$lte": to.UTC()},
		"to_date":     bson.M{"$gte": from.UTC()},
	})
}

// Find returns leaves matching the given filter with optional find options.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Leave, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Leave
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of leaves matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
