// internal/domain/models/school.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// School is a client school that trainers are posted to.
//
// CurrentTrainers is a set of employee ids. It is written only by the
// posting synchronizer ($addToSet / $pull) and by consistency repair.
type School struct {
	ID               primitive.ObjectID   `bson:"_id" json:"id"`
	Name             string               `bson:"name" json:"name"`
	NameCI           string               `bson:"name_ci" json:"-"`
	Code             string               `bson:"code" json:"code"`
	Address          string               `bson:"address" json:"address"`
	City             string               `bson:"city" json:"city"`
	CityCI           string               `bson:"city_ci" json:"-"`
	ContactPerson    string               `bson:"contact_person" json:"contact_person"`
	ContactPhone     string               `bson:"contact_phone" json:"contact_phone"`
	ContactEmail     string               `bson:"contact_email" json:"contact_email"`
	TrainersRequired int                  `bson:"trainers_required" json:"trainers_required"`
	CurrentTrainers  []primitive.ObjectID `bson:"current_trainers" json:"current_trainers"`
	Status           string               `bson:"status" json:"status"`
	CreatedAt        time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time            `bson:"updated_at" json:"updated_at"`
}

// HasTrainer reports whether employeeID is in the school's trainer set.
func (s School) HasTrainer(employeeID primitive.ObjectID) bool {
	for _, id := range s.CurrentTrainers {
		if id == employeeID {
			return true
		}
	}
	return false
}

// Vacancies is the number of trainers still needed (never negative).
func (s School) Vacancies() int {
	n := s.TrainersRequired - len(s.CurrentTrainers)
	if n < 0 {
		return 0
	}
	return n
}
