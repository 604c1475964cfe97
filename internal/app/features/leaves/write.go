// internal/app/features/leaves/write.go
package leaves

import (
	"context"
	"net/http"

	"github.com/dalemusser/staffhub/internal/app/system/apierr"
	"github.com/dalemusser/staffhub/internal/app/system/inputval"
	"github.com/dalemusser/staffhub/internal/app/system/reqparam"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleCreate handles POST /leaves. New leaves are always pending.
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

	l, err := h.Policy.Create(ctx, in.model())
	if err != nil {
		h.ErrLog.Respond(w, r, "create leave failed", err)
		return
	}
	h.Log.Info("leave requested",
		zap.String("leave_id", l.ID.Hex()),
		zap.String("employee_id", l.EmployeeID.Hex()),
		zap.String("leave_type", l.LeaveType))
	apierr.JSON(w, http.StatusCreated, viewOf(l))
}

// HandleApprove handles POST /leaves/{id}/approve.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, models.LeaveApproved, h.Policy.Approve)
}

// HandleReject handles POST /leaves/{id}/reject.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, models.LeaveRejected, h.Policy.Reject)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, to string,
	fn func(context.Context, primitive.ObjectID) (models.Leave, error)) {
	id, e := reqparam.ObjectID(r, "id")
	if e != nil {
		apierr.Write(w, e)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	l, err := fn(ctx, id)
	if err != nil {
		h.ErrLog.Respond(w, r, "leave "+to+" failed", err)
		return
	}
	h.Log.Info("leave "+to, zap.String("leave_id", l.ID.Hex()), zap.String("employee_id", l.EmployeeID.Hex()))
	apierr.JSON(w, http.StatusOK, viewOf(l))
}

// HandleDelete handles DELETE /leaves/{id}. Only pending leaves can be
// deleted; decided ones return 409.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, e := reqparam.ObjectID(r, "id")
	if e != nil {
		apierr.Write(w, e)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Policy.Delete(ctx, id); err != nil {
		h.ErrLog.Respond(w, r, "delete leave failed", err)
		return
	}
	h.Log.Info("leave deleted", zap.String("leave_id", id.Hex()))
	w.WriteHeader(http.StatusNoContent)
}
