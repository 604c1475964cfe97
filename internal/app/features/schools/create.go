// internal/app/features/schools/create.go
package schools

import (
	"context"
	"net/http"

	schoolstore "github.com/dalemusser/staffhub/internal/app/store/schools"
	"github.com/dalemusser/staffhub/internal/app/system/apierr"
	"github.com/dalemusser/staffhub/internal/app/system/inputval"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleCreate handles POST /schools. The new school starts with no trainers.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in createInput
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

	school, err := schoolstore.New(h.DB).Create(ctx, in.model())
	if err != nil {
		h.ErrLog.Respond(w, r, "create school failed", err)
		return
	}

	h.Log.Info("school created", zap.String("school_id", school.ID.Hex()), zap.String("code", school.Code))
	apierr.JSON(w, http.StatusCreated, view(school))
}
