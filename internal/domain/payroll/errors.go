package payroll

import "errors"

var (
	ErrPayrollNotFound    = errors.New("payroll record not found")
	ErrDuplicatePayroll   = errors.New("payroll record already exists for this employee and period")
	ErrPayrollAlreadyPaid = errors.New("payroll record already paid, cannot modify salary inputs")
)
