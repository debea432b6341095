package payroll

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AMRWERY/Employees-System-Management-ESM/internal/domain/employee"
	"github.com/AMRWERY/Employees-System-Management-ESM/internal/domain/payroll"
	"github.com/AMRWERY/Employees-System-Management-ESM/internal/pkg/docstore"
	"github.com/AMRWERY/Employees-System-Management-ESM/internal/pkg/identity"
)

const testAdminID = "admin-1"

func newTestService(t *testing.T) (payroll.PayrollService, *docstore.MemoryStore) {
	store := docstore.NewMemoryStore()
	svc := NewPayrollService(store, identity.Static{UserID: testAdminID, Role: identity.RoleAdmin})
	return svc, store
}

func seedEmployee(t *testing.T, store docstore.Store, uid, name string) {
	t.Helper()
	err := store.Set(context.Background(), employee.Collection, uid, employee.Employee{
		EmployeeID:   "EMP-" + uid,
		EmployeeName: name,
		Payrolls:     []payroll.Summary{},
	}, false)
	require.NoError(t, err)
}

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func createRequest(uid, period string) payroll.CreatePayrollRequest {
	return payroll.CreatePayrollRequest{
		UID:          uid,
		EmployeeName: "Jane Roe",
		PayPeriod:    period,
		BaseSalary:   d("3000"),
		WorkingDays:  20,
		DaysPresent:  20,
		TaxPercent:   d("10"),
	}
}

func loadEmployee(t *testing.T, store docstore.Store, uid string) employee.Employee {
	t.Helper()
	doc, err := store.Get(context.Background(), employee.Collection, uid)
	require.NoError(t, err)
	var emp employee.Employee
	require.NoError(t, doc.DataTo(&emp))
	return emp
}

func TestCreate_ComputesNetSalaryAndAppendsSummary(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	seedEmployee(t, store, "user-1", "Jane Roe")

	record, err := svc.Create(ctx, createRequest("user-1", "2026-01"))
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, payroll.StatusPending, record.Status)
	assert.Equal(t, testAdminID, record.CreatedBy)
	assert.True(t, record.NetSalary.Equal(d("2700.00")), "got %s", record.NetSalary)

	emp := loadEmployee(t, store, "user-1")
	require.Len(t, emp.Payrolls, 1)
	assert.Equal(t, record.ID, emp.Payrolls[0].PayrollDocID)
	assert.Equal(t, "2026-01", emp.Payrolls[0].PayPeriod)
	assert.Equal(t, payroll.StatusPending, emp.Payrolls[0].Status)
	assert.True(t, emp.Payrolls[0].NetSalary.Equal(d("2700.00")))
}

func TestCreate_DuplicatePeriodRejected(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	seedEmployee(t, store, "user-1", "Jane Roe")

	_, err := svc.Create(ctx, createRequest("user-1", "2026-01"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, createRequest("user-1", "2026-01"))
	assert.ErrorIs(t, err, payroll.ErrDuplicatePayroll)

	docs, err := store.Query(ctx, payroll.Collection)
	require.NoError(t, err)
	assert.Len(t, docs, 1, "duplicate create must leave exactly one record")

	emp := loadEmployee(t, store, "user-1")
	assert.Len(t, emp.Payrolls, 1, "duplicate create must not append a second summary")
}

func TestCreate_SamePeriodDifferentEmployeeAllowed(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	seedEmployee(t, store, "user-1", "Jane Roe")
	seedEmployee(t, store, "user-2", "John Doe")

	_, err := svc.Create(ctx, createRequest("user-1", "2026-01"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, createRequest("user-2", "2026-01"))
	require.NoError(t, err)
}

func TestCreate_UnknownEmployeeRollsBack(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, createRequest("ghost", "2026-01"))
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	docs, err := store.Query(ctx, payroll.Collection)
	require.NoError(t, err)
	assert.Empty(t, docs, "failed create must not persist a record")
}

func TestUpdate_RecomputesFromMergedView(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	seedEmployee(t, store, "user-1", "Jane Roe")

	record, err := svc.Create(ctx, createRequest("user-1", "2026-01"))
	require.NoError(t, err)

	daysPresent := 10
	updated, err := svc.Update(ctx, payroll.UpdatePayrollRequest{
		ID:          record.ID,
		DaysPresent: &daysPresent,
	})
	require.NoError(t, err)

	// base 3000, 10/20 days = 1500 gross, 10% tax = 1350
	assert.True(t, updated.NetSalary.Equal(d("1350.00")), "got %s", updated.NetSalary)
	assert.Equal(t, 10, updated.DaysPresent)
	assert.True(t, updated.BaseSalary.Equal(d("3000")), "untouched inputs must survive the merge")

	emp := loadEmployee(t, store, "user-1")
	require.Len(t, emp.Payrolls, 1)
	assert.True(t, emp.Payrolls[0].NetSalary.Equal(d("1350.00")), "summary must mirror the new net salary")
}

func TestUpdate_PaidRecordSalaryInputsLocked(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	seedEmployee(t, store, "user-1", "Jane Roe")

	record, err := svc.Create(ctx, createRequest("user-1", "2026-01"))
	require.NoError(t, err)
	_, err = svc.ProcessPayment(ctx, record.ID)
	require.NoError(t, err)

	bonus := d("500")
	_, err = svc.Update(ctx, payroll.UpdatePayrollRequest{ID: record.ID, Bonuses: &bonus})
	assert.ErrorIs(t, err, payroll.ErrPayrollAlreadyPaid)

	// Non-salary fields stay editable after payment.
	notes := "adjusted cost center"
	updated, err := svc.Update(ctx, payroll.UpdatePayrollRequest{ID: record.ID, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, notes, updated.Notes)

	_, err = store.Get(ctx, payroll.Collection, record.ID)
	require.NoError(t, err)
}

func TestUpdate_UnknownRecord(t *testing.T) {
	svc, _ := newTestService(t)

	name := "Someone"
	_, err := svc.Update(context.Background(), payroll.UpdatePayrollRequest{ID: "missing", EmployeeName: &name})
	assert.ErrorIs(t, err, payroll.ErrPayrollNotFound)
}

func TestProcessPayment_MarksPaidAndPropagates(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	seedEmployee(t, store, "user-1", "Jane Roe")

	record, err := svc.Create(ctx, createRequest("user-1", "2026-01"))
	require.NoError(t, err)

	paid, err := svc.ProcessPayment(ctx, record.ID)
	require.NoError(t, err)

	assert.Equal(t, payroll.StatusPaid, paid.Status)
	require.NotNil(t, paid.PaidOn)
	assert.Equal(t, testAdminID, paid.PaidBy)
	assert.Empty(t, paid.FailureReason)

	emp := loadEmployee(t, store, "user-1")
	require.Len(t, emp.Payrolls, 1)
	assert.Equal(t, payroll.StatusPaid, emp.Payrolls[0].Status)
	assert.Nil(t, emp.Payrolls[0].FailureReason)
}

func TestRecordPaymentFailure_AccumulatesNotes(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	seedEmployee(t, store, "user-1", "Jane Roe")

	record, err := svc.Create(ctx, createRequest("user-1", "2026-01"))
	require.NoError(t, err)

	failed, err := svc.RecordPaymentFailure(ctx, record.ID, "bank rejected transfer")
	require.NoError(t, err)

	assert.Equal(t, payroll.StatusFailed, failed.Status)
	assert.Nil(t, failed.PaidOn)
	assert.Equal(t, "bank rejected transfer", failed.FailureReason)
	assert.Contains(t, failed.Notes, "Payment failed by admin-1: bank rejected transfer")

	failed, err = svc.RecordPaymentFailure(ctx, record.ID, "account closed")
	require.NoError(t, err)
	assert.Contains(t, failed.Notes, "bank rejected transfer")
	assert.Contains(t, failed.Notes, "account closed")
	assert.Equal(t, "account closed", failed.FailureReason, "reason reflects the latest failure only")

	emp := loadEmployee(t, store, "user-1")
	require.Len(t, emp.Payrolls, 1)
	assert.Equal(t, payroll.StatusFailed, emp.Payrolls[0].Status)
	require.NotNil(t, emp.Payrolls[0].FailureReason)
	assert.Equal(t, "account closed", *emp.Payrolls[0].FailureReason)
}

func TestProcessPayment_RepayOverwritesPaidOnAndPaidBy(t *testing.T) {
	store := docstore.NewMemoryStore()
	first := NewPayrollService(store, identity.Static{UserID: "admin-1", Role: identity.RoleAdmin})
	second := NewPayrollService(store, identity.Static{UserID: "admin-2", Role: identity.RoleAdmin})
	ctx := context.Background()
	seedEmployee(t, store, "user-1", "Jane Roe")

	record, err := first.Create(ctx, createRequest("user-1", "2026-01"))
	require.NoError(t, err)

	paidOnce, err := first.ProcessPayment(ctx, record.ID)
	require.NoError(t, err)
	require.NotNil(t, paidOnce.PaidOn)
	assert.Equal(t, "admin-1", paidOnce.PaidBy)

	// There is no guard against re-paying a paid record; a second payment
	// overwrites the payment audit fields.
	paidTwice, err := second.ProcessPayment(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, payroll.StatusPaid, paidTwice.Status)
	assert.Equal(t, "admin-2", paidTwice.PaidBy)
	require.NotNil(t, paidTwice.PaidOn)
	assert.False(t, paidTwice.PaidOn.Before(*paidOnce.PaidOn))

	stored, err := first.Get(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin-2", stored.PaidBy)
}

func TestProcessPayment_RetryAfterFailureClearsReason(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	seedEmployee(t, store, "user-1", "Jane Roe")

	record, err := svc.Create(ctx, createRequest("user-1", "2026-01"))
	require.NoError(t, err)

	_, err = svc.RecordPaymentFailure(ctx, record.ID, "bank rejected transfer")
	require.NoError(t, err)

	paid, err := svc.ProcessPayment(ctx, record.ID)
	require.NoError(t, err)

	assert.Equal(t, payroll.StatusPaid, paid.Status)
	assert.Empty(t, paid.FailureReason)
	require.NotNil(t, paid.PaidOn)
	assert.Contains(t, paid.Notes, "bank rejected transfer", "failure notes are a permanent audit trail")

	emp := loadEmployee(t, store, "user-1")
	assert.Equal(t, payroll.StatusPaid, emp.Payrolls[0].Status)
	assert.Nil(t, emp.Payrolls[0].FailureReason)
}

func TestList_FiltersSearchesAndPaginates(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	names := map[string]string{"u1": "Alice", "u2": "Bob", "u3": "Carol"}
	for uid, name := range names {
		seedEmployee(t, store, uid, name)
		for _, period := range []string{"2026-01", "2026-02"} {
			req := createRequest(uid, period)
			req.EmployeeName = name
			_, err := svc.Create(ctx, req)
			require.NoError(t, err)
		}
	}

	resp, err := svc.List(ctx, payroll.PayrollFilter{PayPeriod: "2026-02"})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.TotalItems)
	require.Len(t, resp.Data, 3)
	// Same period sorts by employee name ascending.
	assert.Equal(t, "Alice", resp.Data[0].EmployeeName)
	assert.Equal(t, "Carol", resp.Data[2].EmployeeName)

	resp, err = svc.List(ctx, payroll.PayrollFilter{Search: "bob"})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalItems)
	for _, r := range resp.Data {
		assert.Equal(t, "Bob", r.EmployeeName)
	}
	// Later period first.
	assert.Equal(t, "2026-02", resp.Data[0].PayPeriod)

	resp, err = svc.List(ctx, payroll.PayrollFilter{Page: 2, Limit: 4})
	require.NoError(t, err)
	assert.Equal(t, 6, resp.TotalItems)
	assert.Len(t, resp.Data, 2)
}

func TestDelete_DoesNotCascadeToSummary(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	seedEmployee(t, store, "user-1", "Jane Roe")

	record, err := svc.Create(ctx, createRequest("user-1", "2026-01"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, record.ID))

	_, err = svc.Get(ctx, record.ID)
	assert.ErrorIs(t, err, payroll.ErrPayrollNotFound)

	// The embedded summary is left behind on the employee document.
	emp := loadEmployee(t, store, "user-1")
	assert.Len(t, emp.Payrolls, 1)

	// Deleting a missing record is a no-op.
	assert.NoError(t, svc.Delete(ctx, record.ID))
}
