package leave

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AMRWERY/Employees-System-Management-ESM/internal/domain/leave"
	"github.com/AMRWERY/Employees-System-Management-ESM/internal/pkg/docstore"
	"github.com/AMRWERY/Employees-System-Management-ESM/internal/pkg/identity"
)

const defaultRequestsPerPage = 8

type LeaveServiceImpl struct {
	store     docstore.Store
	ident     identity.Identity
	allowance int
	strategy  leave.BalanceStrategy
}

func NewLeaveService(store docstore.Store, ident identity.Identity, allowance int, strategy leave.BalanceStrategy) leave.LeaveService {
	return &LeaveServiceImpl{
		store:     store,
		ident:     ident,
		allowance: allowance,
		strategy:  strategy,
	}
}

func (s *LeaveServiceImpl) CalculateBalance(ctx context.Context, userID string) (int, error) {
	return calculateBalance(ctx, s.store, s.allowance, userID)
}

func (s *LeaveServiceImpl) AvailableBalance(ctx context.Context, userID string) (int, error) {
	return s.strategy.AvailableBalance(ctx, userID)
}

// Submit validates the request, checks vacation requests against the
// remaining allowance, and writes the canonical request document plus the
// per-user balance account in one transaction.
func (s *LeaveServiceImpl) Submit(ctx context.Context, req leave.SubmitRequestRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	userID, err := s.ident.CurrentUserID(ctx)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	now := time.Now().UTC()

	err = s.store.RunTransaction(ctx, func(ctx context.Context, tx docstore.Store) error {
		balance, err := calculateBalance(ctx, tx, s.allowance, userID)
		if err != nil {
			return err
		}

		if req.Type == leave.TypeVacation && req.DurationDays > balance {
			return fmt.Errorf("%w. Max: %d", leave.ErrInsufficientBalance, balance)
		}

		remaining := balance - req.DurationDays

		record := leave.Request{
			UserID:           userID,
			EmployeeID:       req.EmployeeID,
			EmployeeName:     req.EmployeeName,
			StartDate:        req.StartDate,
			EndDate:          req.EndDate,
			Type:             req.Type,
			Reason:           req.Reason,
			Status:           leave.RequestStatusPending,
			SubmittedAt:      now,
			DurationDays:     req.DurationDays,
			ManagerID:        req.ManagerID,
			TeamID:           req.TeamID,
			Attachments:      req.Attachments,
			AvailableBalance: &remaining,
		}
		if err := tx.Set(ctx, leave.RequestCollection, id, record, false); err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}

		summary := leave.RequestSummary{
			ID:           id,
			StartDate:    req.StartDate,
			EndDate:      req.EndDate,
			Type:         req.Type,
			DurationDays: req.DurationDays,
			Status:       leave.RequestStatusPending,
			SubmittedAt:  now,
			Attachments:  req.Attachments,
		}

		_, err = tx.Get(ctx, leave.BalanceCollection, userID)
		if errors.Is(err, docstore.ErrNotFound) {
			account := leave.BalanceAccount{
				UserID:           userID,
				EmployeeID:       req.EmployeeID,
				EmployeeName:     req.EmployeeName,
				ManagerID:        req.ManagerID,
				TeamID:           req.TeamID,
				AvailableBalance: remaining,
				Requests:         []leave.RequestSummary{summary},
			}
			if err := tx.Set(ctx, leave.BalanceCollection, userID, account, false); err != nil {
				return fmt.Errorf("failed to create balance account: %w", err)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get balance account: %w", err)
		}

		if err := tx.Update(ctx, leave.BalanceCollection, userID, map[string]interface{}{
			"availableBalance": remaining,
		}); err != nil {
			return fmt.Errorf("failed to update balance account: %w", err)
		}
		if err := tx.AppendToArray(ctx, leave.BalanceCollection, userID, "requests", summary); err != nil {
			return fmt.Errorf("failed to append request summary: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return id, nil
}

func (s *LeaveServiceImpl) Get(ctx context.Context, id string) (leave.Request, error) {
	return getRequest(ctx, s.store, id)
}

func (s *LeaveServiceImpl) ListAll(ctx context.Context, filter leave.RequestFilter) (leave.ListRequestsResponse, error) {
	var predicates []docstore.Predicate
	if filter.Status != "" {
		predicates = append(predicates, docstore.Where("status", docstore.OpEqual, filter.Status))
	}

	docs, err := s.store.Query(ctx, leave.RequestCollection, predicates...)
	if err != nil {
		return leave.ListRequestsResponse{}, fmt.Errorf("failed to query leave requests: %w", err)
	}

	requests := make([]leave.Request, 0, len(docs))
	for _, doc := range docs {
		var req leave.Request
		if err := doc.DataTo(&req); err != nil {
			return leave.ListRequestsResponse{}, fmt.Errorf("failed to decode leave request %s: %w", doc.ID, err)
		}
		req.ID = doc.ID
		requests = append(requests, req)
	}

	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		filtered := requests[:0]
		for _, req := range requests {
			if strings.Contains(strings.ToLower(req.EmployeeName), search) ||
				strings.Contains(strings.ToLower(req.EmployeeID), search) {
				filtered = append(filtered, req)
			}
		}
		requests = filtered
	}

	sort.Slice(requests, func(i, j int) bool {
		return requests[i].SubmittedAt.After(requests[j].SubmittedAt)
	})

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = defaultRequestsPerPage
	}

	total := len(requests)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return leave.ListRequestsResponse{
		Data:       requests[start:end],
		TotalItems: total,
		Page:       page,
		Limit:      limit,
	}, nil
}

func (s *LeaveServiceImpl) ListMine(ctx context.Context) ([]leave.Request, error) {
	userID, err := s.ident.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}

	docs, err := s.store.Query(ctx, leave.RequestCollection,
		docstore.Where("userId", docstore.OpEqual, userID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave requests for %s: %w", userID, err)
	}

	requests := make([]leave.Request, 0, len(docs))
	for _, doc := range docs {
		var req leave.Request
		if err := doc.DataTo(&req); err != nil {
			return nil, fmt.Errorf("failed to decode leave request %s: %w", doc.ID, err)
		}
		req.ID = doc.ID
		requests = append(requests, req)
	}

	sort.Slice(requests, func(i, j int) bool {
		return requests[i].SubmittedAt.After(requests[j].SubmittedAt)
	})

	return requests, nil
}

func (s *LeaveServiceImpl) Approve(ctx context.Context, id string) (leave.Request, error) {
	return s.decide(ctx, id, leave.RequestStatusApproved, nil)
}

func (s *LeaveServiceImpl) Reject(ctx context.Context, id string, reason *string) (leave.Request, error) {
	return s.decide(ctx, id, leave.RequestStatusRejected, reason)
}

// Cancel transitions a request to cancelled regardless of its current
// status. The balance debited at submit time is not restored.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, id string) (leave.Request, error) {
	return s.decide(ctx, id, leave.RequestStatusCancelled, nil)
}

// Withdraw is the self-service variant of Cancel: only the request owner
// may withdraw, and only while the request is still pending.
func (s *LeaveServiceImpl) Withdraw(ctx context.Context, id string) (leave.Request, error) {
	userID, err := s.ident.CurrentUserID(ctx)
	if err != nil {
		return leave.Request{}, err
	}

	var result leave.Request
	err = s.store.RunTransaction(ctx, func(ctx context.Context, tx docstore.Store) error {
		req, err := getRequest(ctx, tx, id)
		if err != nil {
			return err
		}
		if req.Status != leave.RequestStatusPending {
			return leave.ErrNotPending
		}
		if req.UserID != userID {
			return leave.ErrNotRequestOwner
		}

		now := time.Now().UTC()
		if err := applyDecision(ctx, tx, id, req.UserID, leave.RequestStatusCancelled, nil, now, userID); err != nil {
			return err
		}

		req.Status = leave.RequestStatusCancelled
		req.DecisionAt = &now
		req.DecisionBy = userID
		result = req
		return nil
	})
	if err != nil {
		return leave.Request{}, err
	}
	return result, nil
}

func (s *LeaveServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := getRequest(ctx, s.store, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, leave.RequestCollection, id); err != nil {
		return fmt.Errorf("failed to delete leave request %s: %w", id, err)
	}
	return nil
}

// decide transitions a request to a terminal status and mirrors the new
// status onto the balance account summary. It does not restore balance on
// rejection or cancellation.
func (s *LeaveServiceImpl) decide(ctx context.Context, id string, status leave.RequestStatus, reason *string) (leave.Request, error) {
	by, err := s.ident.CurrentUserID(ctx)
	if err != nil {
		return leave.Request{}, err
	}

	var result leave.Request
	err = s.store.RunTransaction(ctx, func(ctx context.Context, tx docstore.Store) error {
		req, err := getRequest(ctx, tx, id)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := applyDecision(ctx, tx, id, req.UserID, status, reason, now, by); err != nil {
			return err
		}

		req.Status = status
		req.RejectionReason = reason
		req.DecisionAt = &now
		req.DecisionBy = by
		result = req
		return nil
	})
	if err != nil {
		return leave.Request{}, err
	}
	return result, nil
}

// applyDecision patches the request document and the matching summary on
// the owner's balance account. A missing account is tolerated.
func applyDecision(ctx context.Context, store docstore.Store, id, userID string, status leave.RequestStatus, reason *string, at time.Time, by string) error {
	patch := map[string]interface{}{
		"status":     status,
		"decisionAt": at,
		"decisionBy": by,
	}
	if reason != nil {
		patch["rejectionReason"] = *reason
	}
	if err := store.Update(ctx, leave.RequestCollection, id, patch); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return leave.ErrRequestNotFound
		}
		return fmt.Errorf("failed to update leave request %s: %w", id, err)
	}

	doc, err := store.Get(ctx, leave.BalanceCollection, userID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get balance account for %s: %w", userID, err)
	}

	var account leave.BalanceAccount
	if err := doc.DataTo(&account); err != nil {
		return fmt.Errorf("failed to decode balance account %s: %w", userID, err)
	}

	changed := false
	for i := range account.Requests {
		if account.Requests[i].ID == id {
			account.Requests[i].Status = status
			changed = true
			break
		}
	}
	if !changed {
		return nil
	}

	if err := store.Update(ctx, leave.BalanceCollection, userID, map[string]interface{}{
		"requests": account.Requests,
	}); err != nil {
		return fmt.Errorf("failed to update balance account %s: %w", userID, err)
	}
	return nil
}

func getRequest(ctx context.Context, store docstore.Store, id string) (leave.Request, error) {
	doc, err := store.Get(ctx, leave.RequestCollection, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return leave.Request{}, leave.ErrRequestNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to get leave request %s: %w", id, err)
	}

	var req leave.Request
	if err := doc.DataTo(&req); err != nil {
		return leave.Request{}, fmt.Errorf("failed to decode leave request %s: %w", doc.ID, err)
	}
	req.ID = doc.ID
	return req, nil
}
