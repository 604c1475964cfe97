// internal/app/features/employees/view.go
package employees

import (
	"context"
	"errors"
	"net/http"

	employeestore "github.com/dalemusser/staffhub/internal/app/store/employees"
	postingstore "github.com/dalemusser/staffhub/internal/app/store/postings"
	"github.com/dalemusser/staffhub/internal/app/system/apierr"
	"github.com/dalemusser/staffhub/internal/app/system/reqparam"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServeView handles GET /employees/{id}. The response carries the
// employee's active posting when there is one.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, e := reqparam.ObjectID(r, "id")
	if e != nil {
		apierr.Write(w, e)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	emp, err := employeestore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Respond(w, r, "load employee failed", err)
		return
	}

	out := employeeView{Employee: emp}
	active, err := postingstore.New(h.DB).ActiveForEmployee(ctx, id)
	switch {
	case err == nil:
		out.ActivePosting = &active
	case !errors.Is(err, mongo.ErrNoDocuments):
		h.ErrLog.LogServerError(w, r, "load active posting failed", err)
		return
	}
	apierr.JSON(w, http.StatusOK, out)
}

// ServePostings handles GET /employees/{id}/postings: the employee's posting
// history, newest first.
func (h *Handler) ServePostings(w http.ResponseWriter, r *http.Request) {
	id, e := reqparam.ObjectID(r, "id")
	if e != nil {
		apierr.Write(w, e)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := employeestore.New(h.DB).GetByID(ctx, id); err != nil {
		h.ErrLog.Respond(w, r, "load employee failed", err)
		return
	}
	list, err := postingstore.New(h.DB).ListByEmployee(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list postings failed", err)
		return
	}
	if list == nil {
		list = []models.EmployeePosting{}
	}
	apierr.JSON(w, http.StatusOK, map[string]any{"employee_id": id, "items": list})
}
