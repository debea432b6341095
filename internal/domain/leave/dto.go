package leave

import (
	"github.com/AMRWERY/Employees-System-Management-ESM/internal/pkg/validator"
)

type SubmitRequestRequest struct {
	EmployeeID   string   `json:"employeeId"`
	EmployeeName string   `json:"employeeName"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	Type         string   `json:"type"`
	Reason       string   `json:"reason,omitempty"`
	DurationDays int      `json:"durationDays"`
	ManagerID    string   `json:"managerId,omitempty"`
	TeamID       string   `json:"teamId,omitempty"`
	Attachments  []string `json:"attachments,omitempty"`
}

func (r *SubmitRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employeeId", Message: "is required"})
	}
	if validator.IsEmpty(r.Type) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "is required"})
	}
	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "startDate", Message: "must be in YYYY-MM-DD format"})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "endDate", Message: "must be in YYYY-MM-DD format"})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "endDate", Message: "must not be before startDate"})
	}
	// durationDays is trusted as supplied, it is only required to be positive.
	if r.DurationDays <= 0 {
		errs = append(errs, validator.ValidationError{Field: "durationDays", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RequestFilter struct {
	Status string `json:"status,omitempty"`
	Search string `json:"search,omitempty"` // matches employee name or employee id
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
}

type ListRequestsResponse struct {
	Data       []Request `json:"data"`
	TotalItems int       `json:"total_items"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
}
