package employee

import "context"

type EmployeeService interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (Employee, error)
	Get(ctx context.Context, userID string) (Employee, error)
	List(ctx context.Context) ([]Employee, error)
}
