// internal/app/features/employees/delete.go
package employees

import (
	"context"
	"net/http"

	employeestore "github.com/dalemusser/staffhub/internal/app/store/employees"
	postingstore "github.com/dalemusser/staffhub/internal/app/store/postings"
	"github.com/dalemusser/staffhub/internal/app/system/apierr"
	"github.com/dalemusser/staffhub/internal/app/system/reqparam"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleDelete handles DELETE /employees/{id}. An employee with an active
// posting must be ended (resign/terminate) first.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, e := reqparam.ObjectID(r, "id")
	if e != nil {
		apierr.Write(w, e)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := employeestore.New(h.DB)
	if _, err := store.GetByID(ctx, id); err != nil {
		h.ErrLog.Respond(w, r, "load employee failed", err)
		return
	}
	active, err := postingstore.New(h.DB).HasActive(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "check active posting failed", err)
		return
	}
	if active {
		apierr.Write(w, apierr.Conflict("employee has an active posting; end it first"))
		return
	}

	if _, err := store.Delete(ctx, id); err != nil {
		h.ErrLog.LogServerError(w, r, "delete employee failed", err)
		return
	}
	h.Log.Info("employee deleted", zap.String("employee_id", id.Hex()))
	w.WriteHeader(http.StatusNoContent)
}
