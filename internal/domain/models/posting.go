// internal/domain/models/posting.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Posting status values.
const (
	PostingContinue     = "continue"
	PostingResign       = "resign"
	PostingTerminate    = "terminate"
	PostingChangeSchool = "change_school"
)

// PostingStatuses lists the accepted posting status values.
var PostingStatuses = []string{PostingContinue, PostingResign, PostingTerminate, PostingChangeSchool}

// EmployeePosting is one assignment interval of an employee at a school.
// At most one posting per employee has IsActive set.
type EmployeePosting struct {
	ID                   primitive.ObjectID `bson:"_id" json:"id"`
	EmployeeID           primitive.ObjectID `bson:"employee_id" json:"employee_id"`
	SchoolID             primitive.ObjectID `bson:"school_id" json:"school_id"`
	Status               string             `bson:"status" json:"status"`
	IsActive             bool               `bson:"is_active" json:"is_active"`
	StartDate            time.Time          `bson:"start_date" json:"start_date"`
	EndDate              *time.Time         `bson:"end_date,omitempty" json:"end_date,omitempty"`
	MonthlyBillingSalary float64            `bson:"monthly_billing_salary" json:"monthly_billing_salary"`
	Remark               string             `bson:"remark,omitempty" json:"remark,omitempty"`
	CreatedAt            time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time          `bson:"updated_at" json:"updated_at"`
}

// IsTerminalStatus reports whether status ends a posting.
func IsTerminalStatus(status string) bool {
	return status == PostingResign || status == PostingTerminate
}

// IsValidPostingStatus reports whether status is one of PostingStatuses.
func IsValidPostingStatus(status string) bool {
	for _, s := range PostingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Terminal reports whether the posting has been ended by resignation or termination.
func (p EmployeePosting) Terminal() bool {
	return IsTerminalStatus(p.Status)
}
