package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestComputeNetSalary_FullAttendanceWithTax(t *testing.T) {
	net := ComputeNetSalary(SalaryInputs{
		BaseSalary:  d("3000"),
		WorkingDays: 20,
		DaysPresent: 20,
		TaxPercent:  d("10"),
	})

	assert.True(t, net.Equal(d("2700.00")), "expected 2700.00, got %s", net)
}

func TestComputeNetSalary_ProratedWithOvertimeAndBonus(t *testing.T) {
	net := ComputeNetSalary(SalaryInputs{
		BaseSalary:    d("3000"),
		WorkingDays:   20,
		DaysPresent:   10,
		OvertimeHours: d("5"),
		OvertimeRate:  d("20"),
		Bonuses:       d("100"),
		Deductions:    d("50"),
		TaxPercent:    d("0"),
	})

	assert.True(t, net.Equal(d("1650.00")), "expected 1650.00, got %s", net)
}

func TestComputeNetSalary_NoWorkingDaysPaysNothing(t *testing.T) {
	net := ComputeNetSalary(SalaryInputs{
		BaseSalary:  d("5000"),
		WorkingDays: 0,
		DaysPresent: 15,
		Bonuses:     d("200"),
		Deductions:  d("100"),
		TaxPercent:  d("10"),
	})

	assert.True(t, net.IsZero(), "expected 0, got %s", net)
}

func TestComputeNetSalary_ZeroAttendanceIsPureDeduction(t *testing.T) {
	net := ComputeNetSalary(SalaryInputs{
		BaseSalary:  d("3000"),
		WorkingDays: 20,
		DaysPresent: 0,
		Deductions:  d("75"),
		TaxPercent:  d("15"),
	})

	assert.True(t, net.Equal(d("-75")), "expected -75, got %s", net)
}

func TestComputeNetSalary_NoTaxOnNegativeAfterDeductions(t *testing.T) {
	// Deductions exceed gross; tax must not turn into a credit.
	net := ComputeNetSalary(SalaryInputs{
		BaseSalary:  d("1000"),
		WorkingDays: 20,
		DaysPresent: 1,
		Deductions:  d("500"),
		TaxPercent:  d("10"),
	})

	// gross 50, after deductions -450, tax 0
	assert.True(t, net.Equal(d("-450.00")), "expected -450.00, got %s", net)
}

func TestComputeNetSalary_RoundsToTwoDecimals(t *testing.T) {
	net := ComputeNetSalary(SalaryInputs{
		BaseSalary:  d("1000"),
		WorkingDays: 3,
		DaysPresent: 1,
		TaxPercent:  d("0"),
	})

	// 1000/3 = 333.333..., rounded to 333.33
	assert.True(t, net.Equal(d("333.33")), "expected 333.33, got %s", net)
	assert.True(t, net.Exponent() >= -2, "expected at most 2 decimal places")
}

func TestComputeNetSalary_MoreDaysPresentNeverPaysLess(t *testing.T) {
	base := SalaryInputs{
		BaseSalary:  d("4000"),
		WorkingDays: 22,
		TaxPercent:  d("12"),
		Deductions:  d("150"),
	}

	prev := decimal.New(-1000000, 0)
	for days := 1; days <= 22; days++ {
		in := base
		in.DaysPresent = days
		net := ComputeNetSalary(in)
		assert.True(t, net.GreaterThanOrEqual(prev),
			"net salary decreased at days_present=%d: %s < %s", days, net, prev)
		prev = net
	}
}
