// internal/app/features/leaves/types.go
package leaves

import (
	"github.com/dalemusser/staffhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/staffhub/internal/app/system/normalize"
	"github.com/dalemusser/staffhub/internal/app/system/reqparam"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createInput struct {
	EmployeeID string         `json:"employee_id" validate:"required,objectid"`
	LeaveType  string         `json:"leave_type" validate:"required,oneof=casual sick unpaid"`
	FromDate   *reqparam.Date `json:"from_date" validate:"required"`
	ToDate     *reqparam.Date `json:"to_date" validate:"required"`
	Reason     string         `json:"reason" validate:"max=500"`
}

func (in *createInput) clean() {
	in.LeaveType = normalize.Status(in.LeaveType)
	in.Reason = htmlsanitize.PlainText(in.Reason)
}

func (in createInput) model() models.Leave {
	emp, _ := primitive.ObjectIDFromHex(in.EmployeeID)
	l := models.Leave{
		EmployeeID: emp,
		LeaveType:  in.LeaveType,
		Reason:     in.Reason,
	}
	if in.FromDate != nil {
		l.FromDate = in.FromDate.Time
	}
	if in.ToDate != nil {
		l.ToDate = in.ToDate.Time
	}
	return l
}

// leaveView adds the day count to a stored leave.
type leaveView struct {
	models.Leave
	Days int `json:"days"`
}

func viewOf(l models.Leave) leaveView {
	return leaveView{Leave: l, Days: l.Days()}
}
