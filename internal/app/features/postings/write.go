// internal/app/features/postings/write.go
package postings

import (
	"net/http"

	"github.com/dalemusser/staffhub/internal/app/system/apierr"
	"github.com/dalemusser/staffhub/internal/app/system/inputval"
	"github.com/dalemusser/staffhub/internal/app/system/reqparam"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
)

// HandleCreate handles POST /employee-postings. The posting is stored and
// synchronised in one unit: an active status supersedes the employee's
// other active postings and joins the school's trainer set.
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "create posting")
	defer cancel()

	res, err := h.Sync.Create(ctx, in.model())
	if err != nil {
		h.ErrLog.Respond(w, r, "create posting failed", err)
		return
	}
	apierr.JSON(w, http.StatusCreated, viewResult(res))
}

// HandleUpdate handles PUT /employee-postings/{id}.
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "update posting")
	defer cancel()

	res, err := h.Sync.Update(ctx, id, in.update())
	if err != nil {
		h.ErrLog.Respond(w, r, "update posting failed", err)
		return
	}
	apierr.JSON(w, http.StatusOK, viewResult(res))
}

// HandleEnd handles POST /employee-postings/{id}/end with
// {"status":"resign"|"terminate","end_date":"YYYY-MM-DD"}.
func (h *Handler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	id, e := reqparam.ObjectID(r, "id")
	if e != nil {
		apierr.Write(w, e)
		return
	}
	var in endInput
	if e := apierr.DecodeJSON(r, &in); e != nil {
		apierr.Write(w, e)
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		apierr.Write(w, apierr.Validation(res))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "end posting")
	defer cancel()

	res, err := h.Sync.End(ctx, id, in.Status, in.endTime())
	if err != nil {
		h.ErrLog.Respond(w, r, "end posting failed", err)
		return
	}
	apierr.JSON(w, http.StatusOK, viewResult(res))
}

// HandleReconcile handles POST /employee-postings/{id}/reconcile. Running it
// on a consistent posting changes nothing and reports changed=false.
func (h *Handler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	id, e := reqparam.ObjectID(r, "id")
	if e != nil {
		apierr.Write(w, e)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "reconcile posting")
	defer cancel()

	res, err := h.Sync.Reconcile(ctx, id)
	if err != nil {
		h.ErrLog.Respond(w, r, "reconcile posting failed", err)
		return
	}
	apierr.JSON(w, http.StatusOK, viewResult(res))
}
