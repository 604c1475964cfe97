// internal/app/store/employees/employeestore.go
package employeestore

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

var ErrDuplicateEmployee = errors.New("an employee with this code or email already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("employees")}
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	e := strings.ToLower(strings.TrimSpace(*email))
	if e == "" {
		return nil
	}
	return &e
}

func (s *Store) Create(ctx context.Context, emp models.Employee) (models.Employee, error) {
	now := time.Now().UTC()
	emp.ID = primitive.NewObjectID()
	emp.EmployeeCode = strings.ToUpper(strings.TrimSpace(emp.EmployeeCode))
	emp.FullNameCI = text.Fold(emp.FullName)
	emp.Email = normalizeEmail(emp.Email)
	if emp.Status == "" {
		emp.Status = status.Active
	}
	emp.CreatedAt = now
	emp.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, emp); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Employee{}, ErrDuplicateEmployee
		}
		return models.Employee{}, err
	}
	return emp, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Employee, error) {
	var emp models.Employee
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&emp); err != nil {
		return models.Employee{}, err
	}
	return emp, nil
}

// GetByIDs loads multiple employees by their ObjectIDs.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Employee, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// Update modifies an employee's profile fields. Empty values are left alone.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, emp models.Employee) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if emp.EmployeeCode != "" {
		set["employee_code"] = strings.ToUpper(strings.TrimSpace(emp.EmployeeCode))
	}
	if emp.FullName != "" {
		set["full_name"] = emp.FullName
		set["full_name_ci"] = text.Fold(emp.FullName)
	}
	if e := normalizeEmail(emp.Email); e != nil {
		set["email"] = *e
	}
	if emp.Phone != "" {
		set["phone"] = emp.Phone
	}
	if emp.Designation != "" {
		set["designation"] = emp.Designation
	}
	if emp.Qualification != "" {
		set["qualification"] = emp.Qualification
	}
	if emp.JoiningDate != nil {
		set["joining_date"] = emp.JoiningDate.UTC()
	}
	if emp.Status != "" {
		set["status"] = emp.Status
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateEmployee
		}
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes an employee by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Find returns employees matching the given filter with optional find options.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Employee, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Employee
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of employees matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

// NamesByID returns full names keyed by employee id.
func (s *Store) NamesByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	out := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	opts := options.Find().SetProjection(bson.M{"_id": 1, "full_name": 1})
	emps, err := s.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	for _, e := range emps {
		out[e.ID] = e.FullName
	}
	return out, nil
}
