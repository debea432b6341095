package employee

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/AMRWERY/Employees-System-Management-ESM/internal/domain/employee"
	"github.com/AMRWERY/Employees-System-Management-ESM/internal/domain/payroll"
	"github.com/AMRWERY/Employees-System-Management-ESM/internal/pkg/docstore"
)

type EmployeeServiceImpl struct {
	store docstore.Store
}

func NewEmployeeService(store docstore.Store) employee.EmployeeService {
	return &EmployeeServiceImpl{store: store}
}

func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.Employee, error) {
	if err := req.Validate(); err != nil {
		return employee.Employee{}, err
	}

	now := time.Now().UTC()
	record := employee.Employee{
		EmployeeID:   req.EmployeeID,
		EmployeeName: req.EmployeeName,
		Email:        req.Email,
		DepartmentID: req.DepartmentID,
		ManagerID:    req.ManagerID,
		TeamID:       req.TeamID,
		Role:         req.Role,
		Payrolls:     []payroll.Summary{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Keyed by user id; re-registering an existing user merges fields and
	// keeps the payroll summaries already accumulated.
	if err := s.store.Set(ctx, employee.Collection, req.UserID, record, true); err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee %s: %w", req.UserID, err)
	}

	record.ID = req.UserID
	return record, nil
}

func (s *EmployeeServiceImpl) Get(ctx context.Context, userID string) (employee.Employee, error) {
	doc, err := s.store.Get(ctx, employee.Collection, userID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee %s: %w", userID, err)
	}

	var emp employee.Employee
	if err := doc.DataTo(&emp); err != nil {
		return employee.Employee{}, fmt.Errorf("failed to decode employee %s: %w", doc.ID, err)
	}
	emp.ID = doc.ID
	return emp, nil
}

func (s *EmployeeServiceImpl) List(ctx context.Context) ([]employee.Employee, error) {
	docs, err := s.store.Query(ctx, employee.Collection)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}

	employees := make([]employee.Employee, 0, len(docs))
	for _, doc := range docs {
		var emp employee.Employee
		if err := doc.DataTo(&emp); err != nil {
			return nil, fmt.Errorf("failed to decode employee %s: %w", doc.ID, err)
		}
		emp.ID = doc.ID
		employees = append(employees, emp)
	}

	sort.Slice(employees, func(i, j int) bool {
		return employees[i].EmployeeName < employees[j].EmployeeName
	})

	return employees, nil
}
