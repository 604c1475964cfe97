package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures inserts test documents directly, bypassing stores and the
// posting synchronizer.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// Day returns midnight UTC of the given date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateSchool inserts an active school needing `required` trainers.
func (f *Fixtures) CreateSchool(ctx context.Context, name string, required int) models.School {
	f.t.Helper()

	now := time.Now().UTC()
	id := primitive.NewObjectID()
	school := models.School{
		ID:               id,
		Name:             name,
		NameCI:           text.Fold(name),
		Code:             strings.ToUpper(id.Hex()[18:]),
		City:             "Test City",
		CityCI:           text.Fold("Test City"),
		TrainersRequired: required,
		CurrentTrainers:  []primitive.ObjectID{},
		Status:           "active",
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if _, err := f.db.Collection("schools").InsertOne(ctx, school); err != nil {
		f.t.Fatalf("failed to create test school: %v", err)
	}
	return school
}

// CreateEmployee inserts an active employee.
func (f *Fixtures) CreateEmployee(ctx context.Context, fullName string) models.Employee {
	f.t.Helper()

	now := time.Now().UTC()
	id := primitive.NewObjectID()
	email := fmt.Sprintf("%s@test.com", id.Hex())
	emp := models.Employee{
		ID:           id,
		EmployeeCode: "EMP-" + strings.ToUpper(id.Hex()[16:]),
		FullName:     fullName,
		FullNameCI:   text.Fold(fullName),
		Email:        &email,
		Designation:  "Trainer",
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("employees").InsertOne(ctx, emp); err != nil {
		f.t.Fatalf("failed to create test employee: %v", err)
	}
	return emp
}

// CreatePosting inserts a posting as-is. It does not touch the school's
// trainer set; use it to build inconsistent states on purpose.
func (f *Fixtures) CreatePosting(ctx context.Context, employeeID, schoolID primitive.ObjectID, status string, active bool, salary float64, start time.Time) models.EmployeePosting {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.EmployeePosting{
		ID:                   primitive.NewObjectID(),
		EmployeeID:           employeeID,
		SchoolID:             schoolID,
		Status:               status,
		IsActive:             active,
		StartDate:            start,
		MonthlyBillingSalary: salary,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if _, err := f.db.Collection("employee_postings").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test posting: %v", err)
	}
	return p
}

// CreateLeave inserts a leave with the given type and status.
func (f *Fixtures) CreateLeave(ctx context.Context, employeeID primitive.ObjectID, leaveType, status string, from, to time.Time) models.Leave {
	f.t.Helper()

	now := time.Now().UTC()
	l := models.Leave{
		ID:         primitive.NewObjectID(),
		EmployeeID: employeeID,
		LeaveType:  leaveType,
		FromDate:   from,
		ToDate:     to,
		Reason:     "test",
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("leaves").InsertOne(ctx, l); err != nil {
		f.t.Fatalf("failed to create test leave: %v", err)
	}
	return l
}

// AddTrainer puts employeeID into the school's trainer set directly.
func (f *Fixtures) AddTrainer(ctx context.Context, schoolID, employeeID primitive.ObjectID) {
	f.t.Helper()
	_, err := f.db.Collection("schools").UpdateByID(ctx, schoolID,
		bson.M{"$addToSet": bson.M{"current_trainers": employeeID}})
	if err != nil {
		f.t.Fatalf("failed to add trainer: %v", err)
	}
}

// School reloads a school.
func (f *Fixtures) School(ctx context.Context, id primitive.ObjectID) models.School {
	f.t.Helper()
	var s models.School
	if err := f.db.Collection("schools").FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		f.t.Fatalf("failed to load school: %v", err)
	}
	return s
}

// Posting reloads a posting.
func (f *Fixtures) Posting(ctx context.Context, id primitive.ObjectID) models.EmployeePosting {
	f.t.Helper()
	var p models.EmployeePosting
	if err := f.db.Collection("employee_postings").FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		f.t.Fatalf("failed to load posting: %v", err)
	}
	return p
}
