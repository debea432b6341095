package response

import (
	"errors"
	"net/http"

	"github.com/AMRWERY/Employees-System-Management-ESM/internal/domain/employee"
	"github.com/AMRWERY/Employees-System-Management-ESM/internal/domain/leave"
	"github.com/AMRWERY/Employees-System-Management-ESM/internal/domain/payroll"
	"github.com/AMRWERY/Employees-System-Management-ESM/internal/pkg/identity"
	"github.com/AMRWERY/Employees-System-Management-ESM/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Identity errors
	case errors.Is(err, identity.ErrUnauthenticated):
		Unauthorized(w, "Authentication required")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrDuplicatePayroll):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrPayrollAlreadyPaid):
		Conflict(w, "Payroll record already paid, salary inputs are locked")

	// Leave domain errors
	case errors.Is(err, leave.ErrRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrInsufficientBalance):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, leave.ErrNotPending):
		Conflict(w, "Only pending requests can be withdrawn")
	case errors.Is(err, leave.ErrNotRequestOwner):
		Forbidden(w, "You can only withdraw your own requests")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
