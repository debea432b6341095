package employee

import (
	"github.com/AMRWERY/Employees-System-Management-ESM/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	UserID       string `json:"userId"`
	EmployeeID   string `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
	Email        string `json:"email,omitempty"`
	DepartmentID string `json:"department_id,omitempty"`
	ManagerID    string `json:"managerId,omitempty"`
	TeamID       string `json:"teamId,omitempty"`
	Role         string `json:"role,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "userId", Message: "is required"})
	}
	if validator.IsEmpty(r.EmployeeName) {
		errs = append(errs, validator.ValidationError{Field: "employeeName", Message: "is required"})
	}
	if r.Email != "" && !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "must be a valid email"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
