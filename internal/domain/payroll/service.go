package payroll

import "context"

// PayrollService manages payroll record lifecycle: pending → paid/failed,
// with a retry path from failed back to paid. Paid is terminal.
type PayrollService interface {
	Create(ctx context.Context, req CreatePayrollRequest) (Payroll, error)
	Get(ctx context.Context, id string) (Payroll, error)
	List(ctx context.Context, filter PayrollFilter) (ListPayrollsResponse, error)
	Update(ctx context.Context, req UpdatePayrollRequest) (Payroll, error)
	ProcessPayment(ctx context.Context, id string) (Payroll, error)
	RecordPaymentFailure(ctx context.Context, id string, reason string) (Payroll, error)
	Delete(ctx context.Context, id string) error
}
