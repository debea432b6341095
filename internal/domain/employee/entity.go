package employee

import (
	"time"

	"github.com/AMRWERY/Employees-System-Management-ESM/internal/domain/payroll"
)

// Collection is the document collection holding employee records, keyed by
// the employee's user id.
const Collection = "ems-users"

// Employee entity. Payrolls is the denormalized list of payroll summaries;
// it is an eventually consistent mirror of the payroll records.
type Employee struct {
	ID           string            `json:"id,omitempty"`
	EmployeeID   string            `json:"employeeId"`
	EmployeeName string            `json:"employeeName"`
	Email        string            `json:"email,omitempty"`
	DepartmentID string            `json:"department_id,omitempty"`
	ManagerID    string            `json:"managerId,omitempty"`
	TeamID       string            `json:"teamId,omitempty"`
	Role         string            `json:"role,omitempty"`
	Payrolls     []payroll.Summary `json:"payrolls,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}
