package payroll

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/AMRWERY/Employees-System-Management-ESM/internal/domain/employee"
	"github.com/AMRWERY/Employees-System-Management-ESM/internal/domain/payroll"
	"github.com/AMRWERY/Employees-System-Management-ESM/internal/pkg/docstore"
	"github.com/AMRWERY/Employees-System-Management-ESM/internal/pkg/identity"
	"github.com/google/uuid"
)

type PayrollServiceImpl struct {
	store docstore.Store
	ident identity.Identity
}

func NewPayrollService(store docstore.Store, ident identity.Identity) payroll.PayrollService {
	return &PayrollServiceImpl{store: store, ident: ident}
}

// Create rejects a duplicate (uid, pay_period) pair, computes the net salary
// and appends a summary to the owning employee document. The duplicate check
// and both writes run in one transaction.
func (s *PayrollServiceImpl) Create(ctx context.Context, req payroll.CreatePayrollRequest) (payroll.Payroll, error) {
	if err := req.Validate(); err != nil {
		return payroll.Payroll{}, err
	}

	createdBy, err := s.ident.CurrentUserID(ctx)
	if err != nil {
		return payroll.Payroll{}, err
	}

	id := uuid.NewString()
	now := time.Now()
	record := payroll.Payroll{
		UID:             req.UID,
		EmployeeName:    req.EmployeeName,
		DepartmentID:    req.DepartmentID,
		PayPeriod:       req.PayPeriod,
		BaseSalary:      req.BaseSalary,
		WorkingDays:     req.WorkingDays,
		DaysPresent:     req.DaysPresent,
		OvertimeHours:   req.OvertimeHours,
		OvertimeRate:    req.OvertimeRate,
		Bonuses:         req.Bonuses,
		Deductions:      req.Deductions,
		DeductionReason: req.DeductionReason,
		TaxPercent:      req.TaxPercent,
		Status:          payroll.StatusPending,
		PaidOn:          nil,
		CreatedBy:       createdBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.Notes != nil {
		record.Notes = *req.Notes
	}
	record.NetSalary = payroll.ComputeNetSalary(record.Inputs())

	err = s.store.RunTransaction(ctx, func(ctx context.Context, tx docstore.Store) error {
		existing, err := tx.Query(ctx, payroll.Collection,
			docstore.Where("uid", docstore.OpEqual, req.UID),
			docstore.Where("pay_period", docstore.OpEqual, req.PayPeriod),
		)
		if err != nil {
			return fmt.Errorf("failed to check existing payroll records: %w", err)
		}
		if len(existing) > 0 {
			return fmt.Errorf("%w: %s for period %s", payroll.ErrDuplicatePayroll, req.UID, req.PayPeriod)
		}

		if err := tx.Set(ctx, payroll.Collection, id, record, false); err != nil {
			return fmt.Errorf("failed to create payroll record: %w", err)
		}

		summary := payroll.Summary{
			PayrollDocID: id,
			PayPeriod:    record.PayPeriod,
			NetSalary:    record.NetSalary,
			Status:       record.Status,
			CreatedAt:    record.CreatedAt,
		}
		if err := tx.AppendToArray(ctx, employee.Collection, record.UID, "payrolls", summary); err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				return employee.ErrEmployeeNotFound
			}
			return fmt.Errorf("failed to append payroll summary: %w", err)
		}
		return nil
	})
	if err != nil {
		return payroll.Payroll{}, err
	}

	record.ID = id
	return record, nil
}

func (s *PayrollServiceImpl) Get(ctx context.Context, id string) (payroll.Payroll, error) {
	return getRecord(ctx, s.store, id)
}

// List filters by pay period at the store, then applies the name/uid search
// and pagination in memory.
func (s *PayrollServiceImpl) List(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollsResponse, error) {
	var predicates []docstore.Predicate
	if filter.PayPeriod != "" {
		predicates = append(predicates, docstore.Where("pay_period", docstore.OpEqual, filter.PayPeriod))
	}

	docs, err := s.store.Query(ctx, payroll.Collection, predicates...)
	if err != nil {
		return payroll.ListPayrollsResponse{}, fmt.Errorf("failed to list payroll records: %w", err)
	}

	records := make([]payroll.Payroll, 0, len(docs))
	for _, doc := range docs {
		var record payroll.Payroll
		if err := doc.DataTo(&record); err != nil {
			return payroll.ListPayrollsResponse{}, fmt.Errorf("failed to decode payroll record %s: %w", doc.ID, err)
		}
		record.ID = doc.ID
		records = append(records, record)
	}

	if filter.Search != "" {
		search := strings.ToLower(filter.Search)
		filtered := records[:0]
		for _, r := range records {
			if strings.Contains(strings.ToLower(r.EmployeeName), search) ||
				strings.Contains(strings.ToLower(r.UID), search) {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].PayPeriod != records[j].PayPeriod {
			return records[i].PayPeriod > records[j].PayPeriod
		}
		return records[i].EmployeeName < records[j].EmployeeName
	})

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	total := len(records)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return payroll.ListPayrollsResponse{
		Data:       records[start:end],
		TotalItems: total,
		Page:       page,
		Limit:      limit,
	}, nil
}

// Update applies field-level updates. When any of the seven salary inputs
// changes, the net salary is recomputed from the merged view of the existing
// record overlaid by the updates, never from stale cached inputs.
func (s *PayrollServiceImpl) Update(ctx context.Context, req payroll.UpdatePayrollRequest) (payroll.Payroll, error) {
	if err := req.Validate(); err != nil {
		return payroll.Payroll{}, err
	}

	var updated payroll.Payroll
	err := s.store.RunTransaction(ctx, func(ctx context.Context, tx docstore.Store) error {
		record, err := getRecord(ctx, tx, req.ID)
		if err != nil {
			return err
		}
		if record.Status == payroll.StatusPaid && req.TouchesSalaryInputs() {
			return payroll.ErrPayrollAlreadyPaid
		}

		patch := map[string]interface{}{}
		if req.EmployeeName != nil {
			record.EmployeeName = *req.EmployeeName
			patch["employeeName"] = *req.EmployeeName
		}
		if req.DepartmentID != nil {
			record.DepartmentID = *req.DepartmentID
			patch["department_id"] = *req.DepartmentID
		}
		if req.BaseSalary != nil {
			record.BaseSalary = *req.BaseSalary
			patch["base_salary"] = *req.BaseSalary
		}
		if req.WorkingDays != nil {
			record.WorkingDays = *req.WorkingDays
			patch["working_days"] = *req.WorkingDays
		}
		if req.DaysPresent != nil {
			record.DaysPresent = *req.DaysPresent
			patch["days_present"] = *req.DaysPresent
		}
		if req.OvertimeHours != nil {
			record.OvertimeHours = *req.OvertimeHours
			patch["overtime_hours"] = *req.OvertimeHours
		}
		if req.OvertimeRate != nil {
			record.OvertimeRate = *req.OvertimeRate
			patch["overtime_rate"] = *req.OvertimeRate
		}
		if req.Bonuses != nil {
			record.Bonuses = *req.Bonuses
			patch["bonuses"] = *req.Bonuses
		}
		if req.Deductions != nil {
			record.Deductions = *req.Deductions
			patch["deductions"] = *req.Deductions
		}
		if req.DeductionReason != nil {
			record.DeductionReason = req.DeductionReason
			patch["deduction_reason"] = *req.DeductionReason
		}
		if req.TaxPercent != nil {
			record.TaxPercent = *req.TaxPercent
			patch["tax_percent"] = *req.TaxPercent
		}
		if req.Notes != nil {
			record.Notes = *req.Notes
			patch["notes"] = *req.Notes
		}

		if req.TouchesSalaryInputs() {
			record.NetSalary = payroll.ComputeNetSalary(record.Inputs())
			patch["netSalary"] = record.NetSalary
		}

		record.UpdatedAt = time.Now()
		patch["updated_at"] = record.UpdatedAt

		if err := tx.Update(ctx, payroll.Collection, req.ID, patch); err != nil {
			return fmt.Errorf("failed to update payroll record: %w", err)
		}

		if req.TouchesSalaryInputs() {
			netSalary := record.NetSalary
			if err := propagateSummary(ctx, tx, record.UID, record.ID, func(sum *payroll.Summary) {
				sum.NetSalary = netSalary
			}); err != nil {
				return err
			}
		}

		updated = record
		return nil
	})
	if err != nil {
		return payroll.Payroll{}, err
	}
	return updated, nil
}

// ProcessPayment transitions the record to paid. The state machine defines
// no guard against re-paying a paid record; a repeated call overwrites
// paidOn and paidBy.
func (s *PayrollServiceImpl) ProcessPayment(ctx context.Context, id string) (payroll.Payroll, error) {
	paidBy, err := s.ident.CurrentUserID(ctx)
	if err != nil {
		return payroll.Payroll{}, err
	}

	var updated payroll.Payroll
	err = s.store.RunTransaction(ctx, func(ctx context.Context, tx docstore.Store) error {
		record, err := getRecord(ctx, tx, id)
		if err != nil {
			return err
		}

		now := time.Now()
		record.Status = payroll.StatusPaid
		record.PaidOn = &now
		record.PaidBy = paidBy
		record.FailureReason = ""
		record.UpdatedAt = now

		patch := map[string]interface{}{
			"status":        record.Status,
			"paidOn":        record.PaidOn,
			"paidBy":        record.PaidBy,
			"failureReason": "",
			"updated_at":    record.UpdatedAt,
		}
		if err := tx.Update(ctx, payroll.Collection, id, patch); err != nil {
			return fmt.Errorf("failed to process payment: %w", err)
		}

		if err := propagateSummary(ctx, tx, record.UID, record.ID, func(sum *payroll.Summary) {
			sum.Status = payroll.StatusPaid
			sum.FailureReason = nil
		}); err != nil {
			return err
		}

		updated = record
		return nil
	})
	if err != nil {
		return payroll.Payroll{}, err
	}
	return updated, nil
}

// RecordPaymentFailure transitions the record to failed and appends a note
// of the form "Payment failed by {actor}: {reason}". Notes accumulate across
// repeated failures; paidOn is cleared.
func (s *PayrollServiceImpl) RecordPaymentFailure(ctx context.Context, id string, reason string) (payroll.Payroll, error) {
	failedBy, err := s.ident.CurrentUserID(ctx)
	if err != nil {
		return payroll.Payroll{}, err
	}

	var updated payroll.Payroll
	err = s.store.RunTransaction(ctx, func(ctx context.Context, tx docstore.Store) error {
		record, err := getRecord(ctx, tx, id)
		if err != nil {
			return err
		}

		note := fmt.Sprintf("Payment failed by %s: %s", failedBy, reason)
		if record.Notes != "" {
			record.Notes += "\n" + note
		} else {
			record.Notes = note
		}

		record.Status = payroll.StatusFailed
		record.PaidOn = nil
		record.FailureReason = reason
		record.UpdatedAt = time.Now()

		patch := map[string]interface{}{
			"status":        record.Status,
			"paidOn":        nil,
			"notes":         record.Notes,
			"failureReason": record.FailureReason,
			"updated_at":    record.UpdatedAt,
		}
		if err := tx.Update(ctx, payroll.Collection, id, patch); err != nil {
			return fmt.Errorf("failed to record payment failure: %w", err)
		}

		if err := propagateSummary(ctx, tx, record.UID, record.ID, func(sum *payroll.Summary) {
			sum.Status = payroll.StatusFailed
			sum.FailureReason = &reason
		}); err != nil {
			return err
		}

		updated = record
		return nil
	})
	if err != nil {
		return payroll.Payroll{}, err
	}
	return updated, nil
}

// Delete removes the record. It does not cascade to the embedded summary on
// the owning employee document; the summary list is an eventually consistent
// mirror.
func (s *PayrollServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, payroll.Collection, id); err != nil {
		return fmt.Errorf("failed to delete payroll record: %w", err)
	}
	return nil
}

func getRecord(ctx context.Context, store docstore.Store, id string) (payroll.Payroll, error) {
	doc, err := store.Get(ctx, payroll.Collection, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	var record payroll.Payroll
	if err := doc.DataTo(&record); err != nil {
		return payroll.Payroll{}, fmt.Errorf("failed to decode payroll record %s: %w", id, err)
	}
	record.ID = doc.ID
	return record, nil
}

// propagateSummary rewrites the matching embedded summary on the owning
// employee document. A missing employee document or summary is skipped, not
// an error: the summary list is an eventually consistent mirror.
func propagateSummary(ctx context.Context, store docstore.Store, uid, recordID string, mutate func(*payroll.Summary)) error {
	doc, err := store.Get(ctx, employee.Collection, uid)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get employee %s: %w", uid, err)
	}

	var emp employee.Employee
	if err := doc.DataTo(&emp); err != nil {
		return fmt.Errorf("failed to decode employee %s: %w", uid, err)
	}

	changed := false
	for i := range emp.Payrolls {
		if emp.Payrolls[i].PayrollDocID == recordID {
			mutate(&emp.Payrolls[i])
			changed = true
		}
	}
	if !changed {
		return nil
	}

	patch := map[string]interface{}{"payrolls": emp.Payrolls}
	if err := store.Update(ctx, employee.Collection, uid, patch); err != nil {
		return fmt.Errorf("failed to propagate payroll summary to employee %s: %w", uid, err)
	}
	return nil
}
