// internal/app/features/postings/types.go
package postings

import (
	"time"

	postingstore "github.com/dalemusser/staffhub/internal/app/store/postings"
	"github.com/dalemusser/staffhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/staffhub/internal/app/system/normalize"
	"github.com/dalemusser/staffhub/internal/app/system/postingsync"
	"github.com/dalemusser/staffhub/internal/app/system/reqparam"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createInput struct {
	EmployeeID           string         `json:"employee_id" validate:"required,objectid"`
	SchoolID             string         `json:"school_id" validate:"required,objectid"`
	Status               string         `json:"status" validate:"omitempty,oneof=continue resign terminate change_school"`
	StartDate            *reqparam.Date `json:"start_date"`
	EndDate              *reqparam.Date `json:"end_date"`
	MonthlyBillingSalary float64        `json:"monthly_billing_salary" validate:"gte=0"`
	Remark               string         `json:"remark" validate:"max=1000"`
}

func (in *createInput) clean() {
	in.Status = normalize.Status(in.Status)
	in.Remark = htmlsanitize.PlainText(in.Remark)
}

func (in createInput) model() models.EmployeePosting {
	emp, _ := primitive.ObjectIDFromHex(in.EmployeeID)
	school, _ := primitive.ObjectIDFromHex(in.SchoolID)
	p := models.EmployeePosting{
		EmployeeID:           emp,
		SchoolID:             school,
		Status:               in.Status,
		EndDate:              in.EndDate.TimePtr(),
		MonthlyBillingSalary: in.MonthlyBillingSalary,
		Remark:               in.Remark,
	}
	if in.StartDate != nil {
		p.StartDate = in.StartDate.Time
	}
	return p
}

// updateInput is the PUT body. employee_id cannot be changed; absent
// fields are unchanged.
type updateInput struct {
	SchoolID             *string        `json:"school_id" validate:"omitempty,objectid"`
	Status               *string        `json:"status" validate:"omitempty,oneof=continue resign terminate change_school"`
	StartDate            *reqparam.Date `json:"start_date"`
	EndDate              *reqparam.Date `json:"end_date"`
	MonthlyBillingSalary *float64       `json:"monthly_billing_salary" validate:"omitempty,gte=0"`
	Remark               *string        `json:"remark" validate:"omitempty,max=1000"`
}

func (in *updateInput) clean() {
	in.Remark = htmlsanitize.PlainTextPtr(in.Remark)
	if in.Status != nil {
		s := normalize.Status(*in.Status)
		in.Status = &s
	}
}

func (in updateInput) update() postingstore.Update {
	u := postingstore.Update{
		Status:               in.Status,
		EndDate:              in.EndDate.TimePtr(),
		MonthlyBillingSalary: in.MonthlyBillingSalary,
		Remark:               in.Remark,
	}
	if in.SchoolID != nil {
		id, _ := primitive.ObjectIDFromHex(*in.SchoolID)
		u.SchoolID = &id
	}
	if in.StartDate != nil {
		t := in.StartDate.Time
		u.StartDate = &t
	}
	return u
}

// endInput is the POST /{id}/end body.
type endInput struct {
	Status  string         `json:"status" validate:"required,oneof=resign terminate"`
	EndDate *reqparam.Date `json:"end_date"`
}

// resultView is a synchronizer Result as returned to clients.
type resultView struct {
	postingsync.Result
	Changed bool `json:"changed"`
}

func viewResult(res postingsync.Result) resultView {
	return resultView{Result: res, Changed: res.Changed()}
}

// endTime is the end date for an end request; nil lets the synchronizer
// stamp the current time.
func (in endInput) endTime() *time.Time {
	return in.EndDate.TimePtr()
}
