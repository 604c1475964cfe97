// internal/app/features/schools/edit.go
package schools

import (
	"context"
	"net/http"

	schoolstore "github.com/dalemusser/staffhub/internal/app/store/schools"
	"github.com/dalemusser/staffhub/internal/app/system/apierr"
	"github.com/dalemusser/staffhub/internal/app/system/inputval"
	"github.com/dalemusser/staffhub/internal/app/system/reqparam"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
)

// HandleUpdate handles PUT /schools/{id} and returns the updated school.
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

	store := schoolstore.New(h.DB)
	if err := store.Update(ctx, id, in.model()); err != nil {
		h.ErrLog.Respond(w, r, "update school failed", err)
		return
	}
	school, err := store.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Respond(w, r, "reload school failed", err)
		return
	}
	apierr.JSON(w, http.StatusOK, view(school))
}
