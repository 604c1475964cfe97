// internal/domain/models/employee.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Employee is a trainer on the agency's payroll. Email is optional.
type Employee struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	EmployeeCode  string             `bson:"employee_code" json:"employee_code"`
	FullName      string             `bson:"full_name" json:"full_name"`
	FullNameCI    string             `bson:"full_name_ci" json:"-"`
	Email         *string            `bson:"email,omitempty" json:"email,omitempty"`
	Phone         string             `bson:"phone" json:"phone"`
	Designation   string             `bson:"designation" json:"designation"`
	Qualification string             `bson:"qualification" json:"qualification"`
	JoiningDate   *time.Time         `bson:"joining_date,omitempty" json:"joining_date,omitempty"`
	Status        string             `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}
