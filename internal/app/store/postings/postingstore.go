// internal/app/store/postings/postingstore.go
package postingstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/staffhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrActivePostingExists is returned when a write would leave an employee
// with two active postings (unique partial index uniq_postings_employee_active).
var ErrActivePostingExists = errors.New("employee already has an active posting")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("employee_postings")}
}

// Update carries the mutable fields of a posting. Nil fields are left alone.
type Update struct {
	SchoolID             *primitive.ObjectID
	Status               *string
	StartDate            *time.Time
	EndDate              *time.Time
	MonthlyBillingSalary *float64
	Remark               *string
}

// Apply returns p with the non-nil fields of u copied over.
func (u Update) Apply(p models.EmployeePosting) models.EmployeePosting {
	if u.SchoolID != nil {
		p.SchoolID = *u.SchoolID
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
	if u.StartDate != nil {
		p.StartDate = u.StartDate.UTC()
	}
	if u.EndDate != nil {
		t := u.EndDate.UTC()
		p.EndDate = &t
	}
	if u.MonthlyBillingSalary != nil {
		p.MonthlyBillingSalary = *u.MonthlyBillingSalary
	}
	if u.Remark != nil {
		p.Remark = *u.Remark
	}
	return p
}

func mapWriteErr(err error) error {
	if err != nil && wafflemongo.IsDup(err) {
		return ErrActivePostingExists
	}
	return err
}

// Create inserts p. A zero ID is replaced by a new one; IsActive is stored
// as given.
func (s *Store) Create(ctx context.Context, p models.EmployeePosting) (models.EmployeePosting, error) {
	now := time.Now().UTC()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	p.StartDate = p.StartDate.UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.EmployeePosting{}, mapWriteErr(err)
	}
	return p, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.EmployeePosting, error) {
	var p models.EmployeePosting
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return models.EmployeePosting{}, err
	}
	return p, nil
}

// Update writes the non-nil fields of u. It never touches is_active.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, u Update) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if u.SchoolID != nil {
		set["school_id"] = *u.SchoolID
	}
	if u.Status != nil {
		set["status"] = *u.Status
	}
	if u.StartDate != nil {
		set["start_date"] = u.StartDate.UTC()
	}
	if u.EndDate != nil {
		set["end_date"] = u.EndDate.UTC()
	}
	if u.MonthlyBillingSalary != nil {
		set["monthly_billing_salary"] = *u.MonthlyBillingSalary
	}
	if u.Remark != nil {
		set["remark"] = *u.Remark
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return mapWriteErr(err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Activate marks the posting active and clears any end date. The bool
// result reports whether anything changed.
func (s *Store) Activate(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"_id": id,
			"$or": bson.A{
				bson.M{"is_active": bson.M{"$ne": true}},
				bson.M{"end_date": bson.M{"$ne": nil}},
			},
		},
		bson.M{
			"$set":   bson.M{"is_active": true, "updated_at": time.Now().UTC()},
			"$unset": bson.M{"end_date": ""},
		})
	if err != nil {
		return false, mapWriteErr(err)
	}
	return res.MatchedCount > 0, nil
}

// Deactivate marks the posting inactive. end_date is stamped with at unless
// the posting already has one. The bool result reports whether anything
// changed.
func (s *Store) Deactivate(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"_id": id,
			"$or": bson.A{
				bson.M{"is_active": true},
				bson.M{"end_date": nil},
			},
		},
		mongo.Pipeline{
			{{Key: "$set", Value: bson.M{
				"is_active":  false,
				"end_date":   bson.M{"$ifNull": bson.A{"$end_date", at.UTC()}},
				"updated_at": time.Now().UTC(),
			}}},
		})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// Delete removes a posting by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// OtherActive returns the employee's active postings other than excludeID,
// in natural order.
func (s *Store) OtherActive(ctx context.Context, employeeID, excludeID primitive.ObjectID) ([]models.EmployeePosting, error) {
	return s.Find(ctx, bson.M{
		"employee_id": employeeID,
		"is_active":   true,
		"_id":         bson.M{"$ne": excludeID},
	})
}

// ActiveForEmployee returns the employee's active posting, or
// mongo.ErrNoDocuments.
func (s *Store) ActiveForEmployee(ctx context.Context, employeeID primitive.ObjectID) (models.EmployeePosting, error) {
	var p models.EmployeePosting
	err := s.c.FindOne(ctx, bson.M{"employee_id": employeeID, "is_active": true}).Decode(&p)
	return p, err
}

// ListByEmployee returns an employee's posting history, newest first.
func (s *Store) ListByEmployee(ctx context.Context, employeeID primitive.ObjectID) ([]models.EmployeePosting, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: -1}, {Key: "_id", Value: -1}})
	return s.Find(ctx, bson.M{"employee_id": employeeID}, opts)
}

// ListBySchool returns postings at a school, newest first.
func (s *Store) ListBySchool(ctx context.Context, schoolID primitive.ObjectID, activeOnly bool) ([]models.EmployeePosting, error) {
	filter := bson.M{"school_id": schoolID}
	if activeOnly {
		filter["is_active"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: -1}, {Key: "_id", Value: -1}})
	return s.Find(ctx, filter, opts)
}

// OverlappingPeriod returns postings at schoolID that were in effect at some
// point in [from, to). Active postings count as open-ended; inactive ones
// count up to their end date.
func (s *Store) OverlappingPeriod(ctx context.Context, schoolID primitive.ObjectID, from, to time.Time) ([]models.EmployeePosting, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}, {Key: "_id", Value: 1}})
	return s.Find(ctx, bson.M{
		"school_id":  schoolID,
		"start_date": bson.M{"$lt": to},
		"$or": bson.A{
			bson.M{"is_active": true},
			bson.M{"end_date": bson.M{"$gte": from}},
		},
	}, opts)
}

// ActiveBySchool maps each school to the employees holding an active,
// non-terminal posting there.
func (s *Store) ActiveBySchool(ctx context.Context) (map[primitive.ObjectID][]primitive.ObjectID, error) {
	opts := options.Find().
		SetProjection(bson.M{"employee_id": 1, "school_id": 1}).
		SetSort(bson.D{{Key: "school_id", Value: 1}, {Key: "employee_id", Value: 1}})
	rows, err := s.Find(ctx, bson.M{
		"is_active": true,
		"status":    bson.M{"$in": bson.A{models.PostingContinue, models.PostingChangeSchool}},
	}, opts)
	if err != nil {
		return nil, err
	}
	out := make(map[primitive.ObjectID][]primitive.ObjectID)
	for _, p := range rows {
		out[p.SchoolID] = append(out[p.SchoolID], p.EmployeeID)
	}
	return out, nil
}

// EmployeesWithMultipleActive returns employees that hold more than one
// active posting. With the partial unique index in place this is empty.
func (s *Store) EmployeesWithMultipleActive(ctx context.Context) ([]primitive.ObjectID, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"is_active": true}}},
		{{Key: "$group", Value: bson.M{"_id": "$employee_id", "n": bson.M{"$sum": 1}}}},
		{{Key: "$match", Value: bson.M{"n": bson.M{"$gt": 1}}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []primitive.ObjectID
	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out = append(out, row.ID)
	}
	return out, cur.Err()
}

// HasActive reports whether the employee has an active posting.
func (s *Store) HasActive(ctx context.Context, employeeID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"employee_id": employeeID, "is_active": true}, options.Count().SetLimit(1))
	return n > 0, err
}

// Find returns postings matching the given filter with optional find options.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.EmployeePosting, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.EmployeePosting
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of postings matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
