package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AMRWERY/Employees-System-Management-ESM/internal/domain/leave"
	"github.com/AMRWERY/Employees-System-Management-ESM/internal/pkg/docstore"
)

// calculateBalance recomputes the remaining allowance from ground truth:
// allowance minus the durationDays of every approved or pending request
// starting in the current calendar year.
func calculateBalance(ctx context.Context, store docstore.Store, allowance int, userID string) (int, error) {
	year := time.Now().Year()
	yearStart := fmt.Sprintf("%04d-01-01", year)
	yearEnd := fmt.Sprintf("%04d-12-31", year)

	docs, err := store.Query(ctx, leave.RequestCollection,
		docstore.Where("userId", docstore.OpEqual, userID),
		docstore.Where("status", docstore.OpIn, []string{
			string(leave.RequestStatusApproved),
			string(leave.RequestStatusPending),
		}),
		docstore.Where("startDate", docstore.OpGreaterOrEqual, yearStart),
		docstore.Where("startDate", docstore.OpLessOrEqual, yearEnd),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to query leave requests for balance: %w", err)
	}

	usedDays := 0
	for _, doc := range docs {
		var req leave.Request
		if err := doc.DataTo(&req); err != nil {
			return 0, fmt.Errorf("failed to decode leave request %s: %w", doc.ID, err)
		}
		usedDays += req.DurationDays
	}

	return allowance - usedDays, nil
}

// CachedAtSubmitStrategy answers reads from the balance cached on the
// account document at submit time. The cache is not reconciled when a
// pending request is later rejected or cancelled.
type CachedAtSubmitStrategy struct {
	store     docstore.Store
	allowance int
}

func NewCachedAtSubmitStrategy(store docstore.Store, allowance int) *CachedAtSubmitStrategy {
	return &CachedAtSubmitStrategy{store: store, allowance: allowance}
}

func (s *CachedAtSubmitStrategy) Name() string { return "cached-at-submit" }

func (s *CachedAtSubmitStrategy) AvailableBalance(ctx context.Context, userID string) (int, error) {
	doc, err := s.store.Get(ctx, leave.BalanceCollection, userID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			// No account yet, nothing has been cached.
			return calculateBalance(ctx, s.store, s.allowance, userID)
		}
		return 0, fmt.Errorf("failed to get balance account for %s: %w", userID, err)
	}

	var account leave.BalanceAccount
	if err := doc.DataTo(&account); err != nil {
		return 0, fmt.Errorf("failed to decode balance account %s: %w", userID, err)
	}
	return account.AvailableBalance, nil
}

// RecomputedOnReadStrategy ignores the cached value and re-derives the
// balance from the request documents on every read.
type RecomputedOnReadStrategy struct {
	store     docstore.Store
	allowance int
}

func NewRecomputedOnReadStrategy(store docstore.Store, allowance int) *RecomputedOnReadStrategy {
	return &RecomputedOnReadStrategy{store: store, allowance: allowance}
}

func (s *RecomputedOnReadStrategy) Name() string { return "recomputed-on-read" }

func (s *RecomputedOnReadStrategy) AvailableBalance(ctx context.Context, userID string) (int, error) {
	return calculateBalance(ctx, s.store, s.allowance, userID)
}

// NewBalanceStrategy builds the strategy named in configuration.
func NewBalanceStrategy(name string, store docstore.Store, allowance int) (leave.BalanceStrategy, error) {
	switch name {
	case "cached-at-submit":
		return NewCachedAtSubmitStrategy(store, allowance), nil
	case "recomputed-on-read":
		return NewRecomputedOnReadStrategy(store, allowance), nil
	default:
		return nil, fmt.Errorf("unknown balance strategy %q", name)
	}
}
