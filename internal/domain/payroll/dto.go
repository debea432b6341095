package payroll

import (
	"github.com/AMRWERY/Employees-System-Management-ESM/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreatePayrollRequest struct {
	UID             string          `json:"uid"`
	EmployeeName    string          `json:"employeeName"`
	DepartmentID    string          `json:"department_id"`
	PayPeriod       string          `json:"pay_period"`
	BaseSalary      decimal.Decimal `json:"base_salary"`
	WorkingDays     int             `json:"working_days"`
	DaysPresent     int             `json:"days_present"`
	OvertimeHours   decimal.Decimal `json:"overtime_hours"`
	OvertimeRate    decimal.Decimal `json:"overtime_rate"`
	Bonuses         decimal.Decimal `json:"bonuses"`
	Deductions      decimal.Decimal `json:"deductions"`
	DeductionReason *string         `json:"deduction_reason,omitempty"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	Notes           *string         `json:"notes,omitempty"`
}

func (r *CreatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UID) {
		errs = append(errs, validator.ValidationError{Field: "uid", Message: "is required"})
	}
	if validator.IsEmpty(r.EmployeeName) {
		errs = append(errs, validator.ValidationError{Field: "employeeName", Message: "is required"})
	}
	if !validator.IsValidPayPeriod(r.PayPeriod) {
		errs = append(errs, validator.ValidationError{Field: "pay_period", Message: "must be in YYYY-MM format"})
	}
	if r.BaseSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "must be non-negative"})
	}
	if r.OvertimeHours.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "overtime_hours", Message: "must be non-negative"})
	}
	if r.OvertimeRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "overtime_rate", Message: "must be non-negative"})
	}
	if r.Bonuses.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "bonuses", Message: "must be non-negative"})
	}
	if r.Deductions.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "deductions", Message: "must be non-negative"})
	}
	if r.TaxPercent.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "tax_percent", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdatePayrollRequest applies field-level updates. When any of the salary
// inputs is present, the net salary is recomputed from the merged view.
type UpdatePayrollRequest struct {
	ID              string           `json:"-"`
	EmployeeName    *string          `json:"employeeName,omitempty"`
	DepartmentID    *string          `json:"department_id,omitempty"`
	BaseSalary      *decimal.Decimal `json:"base_salary,omitempty"`
	WorkingDays     *int             `json:"working_days,omitempty"`
	DaysPresent     *int             `json:"days_present,omitempty"`
	OvertimeHours   *decimal.Decimal `json:"overtime_hours,omitempty"`
	OvertimeRate    *decimal.Decimal `json:"overtime_rate,omitempty"`
	Bonuses         *decimal.Decimal `json:"bonuses,omitempty"`
	Deductions      *decimal.Decimal `json:"deductions,omitempty"`
	DeductionReason *string          `json:"deduction_reason,omitempty"`
	TaxPercent      *decimal.Decimal `json:"tax_percent,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
}

func (r *UpdatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.BaseSalary != nil && r.BaseSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "must be non-negative"})
	}
	if r.OvertimeHours != nil && r.OvertimeHours.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "overtime_hours", Message: "must be non-negative"})
	}
	if r.OvertimeRate != nil && r.OvertimeRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "overtime_rate", Message: "must be non-negative"})
	}
	if r.Bonuses != nil && r.Bonuses.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "bonuses", Message: "must be non-negative"})
	}
	if r.Deductions != nil && r.Deductions.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "deductions", Message: "must be non-negative"})
	}
	if r.TaxPercent != nil && r.TaxPercent.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "tax_percent", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// TouchesSalaryInputs reports whether the update changes any of the fields
// the net salary is derived from.
func (r *UpdatePayrollRequest) TouchesSalaryInputs() bool {
	return r.BaseSalary != nil || r.WorkingDays != nil || r.DaysPresent != nil ||
		r.OvertimeHours != nil || r.OvertimeRate != nil || r.Bonuses != nil ||
		r.Deductions != nil || r.TaxPercent != nil
}

type PayrollFilter struct {
	PayPeriod string `json:"pay_period,omitempty"`
	Search    string `json:"search,omitempty"` // matches employee name or uid
	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
}

type ListPayrollsResponse struct {
	Data       []Payroll `json:"data"`
	TotalItems int       `json:"total_items"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
}
