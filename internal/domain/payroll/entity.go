package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Collection is the document collection holding payroll records.
const Collection = "ems-payrolls"

// Status enum
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusFailed  Status = "failed"
)

// Payroll - one record per (employee, pay period). The JSON tags are the
// stored document shape; the document id is kept outside the body.
type Payroll struct {
	ID              string          `json:"id,omitempty"`
	UID             string          `json:"uid"`
	EmployeeName    string          `json:"employeeName"`
	DepartmentID    string          `json:"department_id"`
	PayPeriod       string          `json:"pay_period"` // "YYYY-MM"
	BaseSalary      decimal.Decimal `json:"base_salary"`
	WorkingDays     int             `json:"working_days"`
	DaysPresent     int             `json:"days_present"`
	OvertimeHours   decimal.Decimal `json:"overtime_hours"`
	OvertimeRate    decimal.Decimal `json:"overtime_rate"`
	Bonuses         decimal.Decimal `json:"bonuses"`
	Deductions      decimal.Decimal `json:"deductions"`
	DeductionReason *string         `json:"deduction_reason,omitempty"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	NetSalary       decimal.Decimal `json:"netSalary"` // always derived, never hand-edited
	Status          Status          `json:"status"`
	PaidOn          *time.Time      `json:"paidOn"`
	PaidBy          string          `json:"paidBy,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	FailureReason   string          `json:"failureReason,omitempty"`
	CreatedBy       string          `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Inputs returns the seven fields the net salary is a pure function of.
func (p Payroll) Inputs() SalaryInputs {
	return SalaryInputs{
		BaseSalary:    p.BaseSalary,
		WorkingDays:   p.WorkingDays,
		DaysPresent:   p.DaysPresent,
		OvertimeHours: p.OvertimeHours,
		OvertimeRate:  p.OvertimeRate,
		Bonuses:       p.Bonuses,
		Deductions:    p.Deductions,
		TaxPercent:    p.TaxPercent,
	}
}

// Summary - denormalized payroll mirror embedded on the employee document.
// Every status transition on the record propagates to the matching summary.
type Summary struct {
	PayrollDocID  string          `json:"payrollDocId"`
	PayPeriod     string          `json:"pay_period"`
	NetSalary     decimal.Decimal `json:"netSalary"`
	Status        Status          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	FailureReason *string         `json:"failureReason,omitempty"`
}
