package payroll

import "github.com/shopspring/decimal"

// SalaryInputs are the inputs the net salary is derived from.
type SalaryInputs struct {
	BaseSalary    decimal.Decimal
	WorkingDays   int
	DaysPresent   int
	OvertimeHours decimal.Decimal
	OvertimeRate  decimal.Decimal
	Bonuses       decimal.Decimal
	Deductions    decimal.Decimal
	TaxPercent    decimal.Decimal // percentage, 15 means 15%
}

var hundred = decimal.NewFromInt(100)

// ComputeNetSalary derives the net salary for a pay period. It is a pure
// function and is re-invoked in full whenever any input changes.
//
// A period with no working days pays nothing. Zero attendance with no
// overtime and no bonuses nets a pure deduction, expressed as a negative
// amount. Tax never applies to a non-positive base, so there is no negative
// tax credit. The result is rounded to 2 decimal places.
func ComputeNetSalary(in SalaryInputs) decimal.Decimal {
	if in.WorkingDays <= 0 {
		return decimal.Zero
	}
	if in.DaysPresent <= 0 && !in.OvertimeHours.IsPositive() && !in.Bonuses.IsPositive() {
		return in.Deductions.Abs().Neg()
	}

	proratedBase := in.BaseSalary.
		Div(decimal.NewFromInt(int64(in.WorkingDays))).
		Mul(decimal.NewFromInt(int64(in.DaysPresent)))
	overtimePay := in.OvertimeHours.Mul(in.OvertimeRate)
	gross := proratedBase.Add(overtimePay).Add(in.Bonuses)
	afterDeductions := gross.Sub(in.Deductions)

	tax := decimal.Zero
	if afterDeductions.IsPositive() {
		tax = afterDeductions.Mul(in.TaxPercent).Div(hundred)
	}

	return afterDeductions.Sub(tax).Round(2)
}
