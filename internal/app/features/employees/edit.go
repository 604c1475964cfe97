// internal/app/features/employees/edit.go
package employees

import (
	"context"
	"net/http"

	employeestore "github.com/dalemusser/staffhub/internal/app/store/employees"
	"github.com/dalemusser/staffhub/internal/app/system/apierr"
	"github.com/dalemusser/staffhub/internal/app/system/inputval"
	"github.com/dalemusser/staffhub/internal/app/system/reqparam"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
)

// HandleUpdate handles PUT /employees/{id} and returns the updated employee.
// Postings and school trainer sets are not affected by profile changes.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, e := reqparam.ObjectID(r, "id")
	if e != nil {
		apierr.Write(w, e)
		return
	}
	var in updateInput
	if e := apierr.DecodeJSON(r, &in); e != nil {
		apierr.Write(w, e)
		return
	}
	in.clean()
	if res := inputval.Validate(in); res.HasErrors() {
		apierr.Write(w, apierr.Validation(res))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := employeestore.New(h.DB)
	if err := store.Update(ctx, id, in.model()); err != nil {
		h.ErrLog.Respond(w, r, "update employee failed", err)
		return
	}
	emp, err := store.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Respond(w, r, "reload employee failed", err)
		return
	}
	apierr.JSON(w, http.StatusOK, emp)
}
