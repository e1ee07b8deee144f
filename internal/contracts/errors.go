package contracts

import "errors"

// Idempotency and lookup errors shared by every store implementation.
// ⭐ SSOT: 도메인 에러는 여기서만 정의
//
// ErrDuplicateDate and ErrAlreadyExists are expected steady-state outcomes,
// not failures: a second run attempting the same append/create surfaces them
// so the caller can log-and-continue. When the backing store is shared
// between concurrent runs they double as the optimistic-concurrency signal.
var (
	// ErrDuplicateDate: history already holds a draw for that date.
	ErrDuplicateDate = errors.New("draw date already recorded")

	// ErrAlreadyExists: the ledger already holds a live prediction for
	// that (draw_date, strategy_id) key.
	ErrAlreadyExists = errors.New("prediction already exists")

	// ErrAlreadyScored: the prediction's match fields are already set;
	// a historical score is never silently changed.
	ErrAlreadyScored = errors.New("prediction already scored")

	// ErrNotFound: no live prediction for the given key.
	ErrNotFound = errors.New("prediction not found")
)
