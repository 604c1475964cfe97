// internal/domain/models/leave.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	LeaveCasual = "casual"
	LeaveSick   = "sick"
	LeaveUnpaid = "unpaid"
)

const (
	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

var (
	LeaveTypes    = []string{LeaveCasual, LeaveSick, LeaveUnpaid}
	LeaveStatuses = []string{LeavePending, LeaveApproved, LeaveRejected}
)

// Leave is a leave request. FromDate and ToDate are whole UTC days, both inclusive.
type Leave struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	EmployeeID primitive.ObjectID `bson:"employee_id" json:"employee_id"`
	LeaveType  string             `bson:"leave_type" json:"leave_type"`
	FromDate   time.Time          `bson:"from_date" json:"from_date"`
	ToDate     time.Time          `bson:"to_date" json:"to_date"`
	Reason     string             `bson:"reason" json:"reason"`
	Status     string             `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// Days is the number of calendar days the leave covers.
func (l Leave) Days() int {
	return int(l.ToDate.Sub(l.FromDate).Hours()/24) + 1
}
