// internal/app/features/schools/view.go
package schools

import (
	"context"
	"net/http"
	"sort"

	employeestore "github.com/dalemusser/staffhub/internal/app/store/employees"
	schoolstore "github.com/dalemusser/staffhub/internal/app/store/schools"
	"github.com/dalemusser/staffhub/internal/app/system/apierr"
	"github.com/dalemusser/staffhub/internal/app/system/reqparam"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/domain/models"
)

// ServeView handles GET /schools/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, e := reqparam.ObjectID(r, "id")
	if e != nil {
		apierr.Write(w, e)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	school, err := schoolstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Respond(w, r, "load school failed", err)
		return
	}
	apierr.JSON(w, http.StatusOK, view(school))
}

// ServeTrainers handles GET /schools/{id}/trainers: the employees in the
// school's current trainer set, by name.
func (h *Handler) ServeTrainers(w http.ResponseWriter, r *http.Request) {
	id, e := reqparam.ObjectID(r, "id")
	if e != nil {
		apierr.Write(w, e)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	school, err := schoolstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Respond(w, r, "load school failed", err)
		return
	}

	emps, err := employeestore.New(h.DB).GetByIDs(ctx, school.CurrentTrainers)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load trainers failed", err)
		return
	}
	if emps == nil {
		emps = []models.Employee{}
	}
	sort.Slice(emps, func(i, j int) bool {
		if emps[i].FullNameCI != emps[j].FullNameCI {
			return emps[i].FullNameCI < emps[j].FullNameCI
		}
		return emps[i].ID.Hex() < emps[j].ID.Hex()
	})
	apierr.JSON(w, http.StatusOK, map[string]any{
		"school_id": school.ID,
		"items":     emps,
		"vacancies": school.Vacancies(),
	})
}
