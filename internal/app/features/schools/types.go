// internal/app/features/schools/types.go
package schools

import (
	"github.com/dalemusser/staffhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/staffhub/internal/app/system/normalize"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// createInput is the POST /schools body.
type createInput struct {
	Name             string `json:"name" validate:"notblank,max=200"`
	Code             string `json:"code" validate:"notblank,max=32"`
	Address          string `json:"address" validate:"max=500"`
	City             string `json:"city" validate:"max=100"`
	ContactPerson    string `json:"contact_person" validate:"max=200"`
	ContactPhone     string `json:"contact_phone" validate:"max=32"`
	ContactEmail     string `json:"contact_email" validate:"omitempty,email,max=254"`
	TrainersRequired int    `json:"trainers_required" validate:"required,gte=1,lte=10000"`
	Status           string `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (in *createInput) clean() {
	in.Name = htmlsanitize.PlainText(in.Name)
	in.Code = normalize.Code(in.Code)
	in.Address = htmlsanitize.PlainText(in.Address)
	in.City = htmlsanitize.PlainText(in.City)
	in.ContactPerson = htmlsanitize.PlainText(in.ContactPerson)
	in.ContactPhone = normalize.Name(in.ContactPhone)
	in.ContactEmail = normalize.Email(in.ContactEmail)
	in.Status = normalize.Status(in.Status)
}

func (in createInput) model() models.School {
	return models.School{
		Name:             in.Name,
		Code:             in.Code,
		Address:          in.Address,
		City:             in.City,
		ContactPerson:    in.ContactPerson,
		ContactPhone:     in.ContactPhone,
		ContactEmail:     in.ContactEmail,
		TrainersRequired: in.TrainersRequired,
		Status:           in.Status,
	}
}

// updateInput is the PUT /schools/{id} body. Absent fields are unchanged.
// current_trainers is not accepted; the posting synchronizer owns it.
type updateInput struct {
	Name             *string `json:"name" validate:"omitempty,notblank,max=200"`
	Code             *string `json:"code" validate:"omitempty,notblank,max=32"`
	Address          *string `json:"address" validate:"omitempty,max=500"`
	City             *string `json:"city" validate:"omitempty,max=100"`
	ContactPerson    *string `json:"contact_person" validate:"omitempty,max=200"`
	ContactPhone     *string `json:"contact_phone" validate:"omitempty,max=32"`
	ContactEmail     *string `json:"contact_email" validate:"omitempty,email,max=254"`
	TrainersRequired *int    `json:"trainers_required" validate:"omitempty,gte=1,lte=10000"`
	Status           *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (in *updateInput) clean() {
	in.Name = htmlsanitize.PlainTextPtr(in.Name)
	in.Address = htmlsanitize.PlainTextPtr(in.Address)
	in.City = htmlsanitize.PlainTextPtr(in.City)
	in.ContactPerson = htmlsanitize.PlainTextPtr(in.ContactPerson)
	if in.Code != nil {
		c := normalize.Code(*in.Code)
		in.Code = &c
	}
	if in.ContactEmail != nil {
		e := normalize.Email(*in.ContactEmail)
		in.ContactEmail = &e
	}
	if in.Status != nil {
		s := normalize.Status(*in.Status)
		in.Status = &s
	}
}

// model returns the partial school the store's Update expects: zero
// values are left alone.
func (in updateInput) model() models.School {
	var s models.School
	str := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	s.Name = str(in.Name)
	s.Code = str(in.Code)
	s.Address = str(in.Address)
	s.City = str(in.City)
	s.ContactPerson = str(in.ContactPerson)
	s.ContactPhone = str(in.ContactPhone)
	s.ContactEmail = str(in.ContactEmail)
	s.Status = str(in.Status)
	if in.TrainersRequired != nil {
		s.TrainersRequired = *in.TrainersRequired
	}
	return s
}

// schoolView adds derived fields to the stored school.
type schoolView struct {
	models.School
	Vacancies int `json:"vacancies"`
}

func view(s models.School) schoolView {
	if s.CurrentTrainers == nil {
		s.CurrentTrainers = []primitive.ObjectID{}
	}
	return schoolView{School: s, Vacancies: s.Vacancies()}
}
