package leave

import "time"

const (
	// RequestCollection holds the canonical leave request documents.
	RequestCollection = "ems-leave-requests"
	// BalanceCollection holds one balance account per user, keyed by user id.
	BalanceCollection = "ems-leave-balances"
)

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// TypeVacation is the one request type validated against the annual
// allowance; other types (sick, other) bypass the balance check.
const TypeVacation = "vacation"

// Request entity. Dates are "YYYY-MM-DD" strings; durationDays is
// caller-supplied at submission and never retroactively changed, since the
// balance accounting depends on the value recorded at submit time.
type Request struct {
	ID               string        `json:"id,omitempty"`
	UserID           string        `json:"userId"`
	EmployeeID       string        `json:"employeeId"`
	EmployeeName     string        `json:"employeeName"`
	StartDate        string        `json:"startDate"`
	EndDate          string        `json:"endDate"`
	Type             string        `json:"type"`
	Reason           string        `json:"reason,omitempty"`
	Status           RequestStatus `json:"status"`
	SubmittedAt      time.Time     `json:"submittedAt"`
	DurationDays     int           `json:"durationDays"`
	ManagerID        string        `json:"managerId,omitempty"`
	TeamID           string        `json:"teamId,omitempty"`
	Attachments      []string      `json:"attachments,omitempty"`
	RejectionReason  *string       `json:"rejectionReason,omitempty"`
	DecisionAt       *time.Time    `json:"decisionAt,omitempty"`
	DecisionBy       string        `json:"decisionBy,omitempty"`
	AvailableBalance *int          `json:"availableBalance,omitempty"`
}

// RequestSummary is the embedded per-request mirror kept on the balance
// account document.
type RequestSummary struct {
	ID           string        `json:"id"`
	StartDate    string        `json:"startDate"`
	EndDate      string        `json:"endDate"`
	Type         string        `json:"type"`
	DurationDays int           `json:"durationDays"`
	Status       RequestStatus `json:"status"`
	SubmittedAt  time.Time     `json:"submittedAt"`
	Attachments  []string      `json:"attachments,omitempty"`
}

// BalanceAccount - one per user. AvailableBalance is cached at submit time
// and is not re-derived when a pending request is later rejected or
// cancelled (cached-at-submit, no-reconciliation policy).
type BalanceAccount struct {
	UserID           string           `json:"userId"`
	EmployeeID       string           `json:"employeeId"`
	EmployeeName     string           `json:"employeeName"`
	ManagerID        string           `json:"managerId,omitempty"`
	TeamID           string           `json:"teamId,omitempty"`
	AvailableBalance int              `json:"availableBalance"`
	Requests         []RequestSummary `json:"requests"`
}
