// internal/app/features/employees/types.go
package employees

import (
	"github.com/dalemusser/staffhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/staffhub/internal/app/system/normalize"
	"github.com/dalemusser/staffhub/internal/app/system/reqparam"
	"github.com/dalemusser/staffhub/internal/domain/models"
)

type createInput struct {
	EmployeeCode  string         `json:"employee_code" validate:"notblank,max=32"`
	FullName      string         `json:"full_name" validate:"notblank,max=200"`
	Email         string         `json:"email" validate:"omitempty,email,max=254"`
	Phone         string         `json:"phone" validate:"max=32"`
	Designation   string         `json:"designation" validate:"max=100"`
	Qualification string         `json:"qualification" validate:"max=200"`
	JoiningDate   *reqparam.Date `json:"joining_date"`
	Status        string         `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (in *createInput) clean() {
	in.EmployeeCode = normalize.Code(in.EmployeeCode)
	in.FullName = htmlsanitize.PlainText(in.FullName)
	in.Email = normalize.Email(in.Email)
	in.Phone = normalize.Name(in.Phone)
	in.Designation = htmlsanitize.PlainText(in.Designation)
	in.Qualification = htmlsanitize.PlainText(in.Qualification)
	in.Status = normalize.Status(in.Status)
}

func (in createInput) model() models.Employee {
	emp := models.Employee{
		EmployeeCode:  in.EmployeeCode,
		FullName:      in.FullName,
		Phone:         in.Phone,
		Designation:   in.Designation,
		Qualification: in.Qualification,
		JoiningDate:   in.JoiningDate.TimePtr(),
		Status:        in.Status,
	}
	if in.Email != "" {
		e := in.Email
		emp.Email = &e
	}
	return emp
}

// updateInput is the PUT /employees/{id} body. Absent fields are unchanged.
type updateInput struct {
	EmployeeCode  *string        `json:"employee_code" validate:"omitempty,notblank,max=32"`
	FullName      *string        `json:"full_name" validate:"omitempty,notblank,max=200"`
	Email         *string        `json:"email" validate:"omitempty,email,max=254"`
	Phone         *string        `json:"phone" validate:"omitempty,max=32"`
	Designation   *string        `json:"designation" validate:"omitempty,max=100"`
	Qualification *string        `json:"qualification" validate:"omitempty,max=200"`
	JoiningDate   *reqparam.Date `json:"joining_date"`
	Status        *string        `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (in *updateInput) clean() {
	in.FullName = htmlsanitize.PlainTextPtr(in.FullName)
	in.Designation = htmlsanitize.PlainTextPtr(in.Designation)
	in.Qualification = htmlsanitize.PlainTextPtr(in.Qualification)
	if in.EmployeeCode != nil {
		c := normalize.Code(*in.EmployeeCode)
		in.EmployeeCode = &c
	}
	if in.Email != nil {
		e := normalize.Email(*in.Email)
		in.Email = &e
	}
	if in.Phone != nil {
		p := normalize.Name(*in.Phone)
		in.Phone = &p
	}
	if in.Status != nil {
		s := normalize.Status(*in.Status)
		in.Status = &s
	}
}

func (in updateInput) model() models.Employee {
	str := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	return models.Employee{
		EmployeeCode:  str(in.EmployeeCode),
		FullName:      str(in.FullName),
		Email:         in.Email,
		Phone:         str(in.Phone),
		Designation:   str(in.Designation),
		Qualification: str(in.Qualification),
		JoiningDate:   in.JoiningDate.TimePtr(),
		Status:        str(in.Status),
	}
}

// employeeView adds the current posting, if any.
type employeeView struct {
	models.Employee
	ActivePosting *models.EmployeePosting `json:"active_posting,omitempty"`
}
