// internal/app/features/employees/create.go
package employees

import (
	"context"
	"net/http"

	employeestore "github.com/dalemusser/staffhub/internal/app/store/employees"
	"github.com/dalemusser/staffhub/internal/app/system/apierr"
	"github.com/dalemusser/staffhub/internal/app/system/inputval"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleCreate handles POST /employees.
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

	emp, err := employeestore.New(h.DB).Create(ctx, in.model())
	if err != nil {
		h.ErrLog.Respond(w, r, "create employee failed", err)
		return
	}

	h.Log.Info("employee created", zap.String("employee_id", emp.ID.Hex()), zap.String("code", emp.EmployeeCode))
	apierr.JSON(w, http.StatusCreated, emp)
}
