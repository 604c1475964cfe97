// internal/app/store/schools/schoolstore.go
package schoolstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/staffhub/internal/app/system/status"
	"github.com/dalemusser/staffhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateSchool = errors.New("a school with this code already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("schools")}
}

func (s *Store) Create(ctx context.Context, school models.School) (models.School, error) {
	now := time.Now().UTC()
	school.ID = primitive.NewObjectID()
	school.NameCI = text.Fold(school.Name)
	school.CityCI = text.Fold(school.City)
	school.Code = strings.ToUpper(strings.TrimSpace(school.Code))
	// Trainer membership is owned by the posting synchronizer.
	school.CurrentTrainers = []primitive.ObjectID{}
	if school.Status == "" {
		school.Status = status.Active
	}
	school.CreatedAt = now
	school.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, school); err != nil {
		if wafflemongo.IsDup(err) {
			return models.School{}, ErrDuplicateSchool
		}
		return models.School{}, err
	}
	return school, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.School, error) {
	var school models.School
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&school); err != nil {
		return models.School{}, err
	}
	return school, nil
}

// Update modifies a school's descriptive fields. Empty strings and a zero
// TrainersRequired leave the stored value unchanged; CurrentTrainers is
// never written here.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, school models.School) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if school.Name != "" {
		set["name"] = school.Name
		set["name_ci"] = text.Fold(school.Name)
	}
	if school.Code != "" {
		set["code"] = strings.ToUpper(strings.TrimSpace(school.Code))
	}
	if school.Address != "" {
		set["address"] = school.Address
	}
	if school.City != "" {
		set["city"] = school.City
		set["city_ci"] = text.Fold(school.City)
	}
	if school.ContactPerson != "" {
		set["contact_person"] = school.ContactPerson
	}
	if school.ContactPhone != "" {
		set["contact_phone"] = school.ContactPhone
	}
	if school.ContactEmail != "" {
		set["contact_email"] = school.ContactEmail
	}
	if school.TrainersRequired > 0 {
		set["trainers_required"] = school.TrainersRequired
	}
	if school.Status != "" {
		set["status"] = school.Status
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateSchool
		}
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a school by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// AddTrainer adds employeeID to the school's trainer set. Adding a member
// that is already present is a no-op; the bool result reports whether the
// set changed. A missing school yields mongo.ErrNoDocuments.
func (s *Store) AddTrainer(ctx context.Context, schoolID, employeeID primitive.ObjectID) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": schoolID, "current_trainers": bson.M{"$ne": employeeID}},
		bson.M{
			"$addToSet": bson.M{"current_trainers": employeeID},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return false, err
	}
	if res.MatchedCount > 0 {
		return true, nil
	}
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": schoolID})
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, mongo.ErrNoDocuments
	}
	return false, nil
}

// RemoveTrainer pulls employeeID from the school's trainer set. Removing an
// absent member, or from a school that no longer exists, is a no-op.
// The bool result reports whether the set changed.
func (s *Store) RemoveTrainer(ctx context.Context, schoolID, employeeID primitive.ObjectID) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": schoolID, "current_trainers": employeeID},
		bson.M{
			"$pull": bson.M{"current_trainers": employeeID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// Find returns schools matching the given filter with optional find options.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.School, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var schools []models.School
	if err := cur.All(ctx, &schools); err != nil {
		return nil, err
	}
	return schools, nil
}

// Count returns the number of schools matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
