package leave

import "context"

// LeaveService validates new requests against the annual allowance and
// manages request lifecycle: pending → approved | rejected | cancelled, all
// terminal. Rejection and cancellation do not restore the debited balance.
type LeaveService interface {
	// CalculateBalance recomputes the remaining allowance from the requests
	// with status approved or pending starting in the current calendar year.
	CalculateBalance(ctx context.Context, userID string) (int, error)
	// AvailableBalance answers via the configured balance strategy.
	AvailableBalance(ctx context.Context, userID string) (int, error)
	Submit(ctx context.Context, req SubmitRequestRequest) (string, error)
	Get(ctx context.Context, id string) (Request, error)
	ListAll(ctx context.Context, filter RequestFilter) (ListRequestsResponse, error)
	ListMine(ctx context.Context) ([]Request, error)
	Approve(ctx context.Context, id string) (Request, error)
	Reject(ctx context.Context, id string, reason *string) (Request, error)
	Cancel(ctx context.Context, id string) (Request, error)
	Withdraw(ctx context.Context, id string) (Request, error)
	Delete(ctx context.Context, id string) error
}

// BalanceStrategy isolates how the available balance is answered on reads,
// so cached-at-submit can be swapped for recomputed-on-read without touching
// call sites.
type BalanceStrategy interface {
	Name() string
	AvailableBalance(ctx context.Context, userID string) (int, error)
}
