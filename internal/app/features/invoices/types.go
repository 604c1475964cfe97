// internal/app/features/invoices/types.go
package invoices

import "github.com/dalemusser/staffhub/internal/app/system/normalize"

type generateInput struct {
	SchoolID string `json:"school_id" validate:"required,objectid"`
	Year     int    `json:"year" validate:"required,gte=2000,lte=9999"`
	Month    int    `json:"month" validate:"required,gte=1,lte=12"`
}

type statusInput struct {
	Status string `json:"status" validate:"required,oneof=issued paid void"`
}

func (in *statusInput) clean() {
	in.Status = normalize.Status(in.Status)
}
