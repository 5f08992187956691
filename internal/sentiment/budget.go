package sentiment

import "golang.org/x/time/rate"

// Budget caps remote analyzer calls for the lifetime of the process. It is
// a token bucket that starts full and never refills: TryConsume spends one
// token per attempted remote call, successful or not, and is safe for
// concurrent use.
type Budget struct {
	limiter *rate.Limiter
}

// NewBudget creates a budget with the given ceiling. A ceiling of zero or
// less permits no remote calls at all.
func NewBudget(ceiling int) *Budget {
	if ceiling < 0 {
		ceiling = 0
	}
	// A zero refill rate makes the initial burst the lifetime total.
	return &Budget{limiter: rate.NewLimiter(rate.Limit(0), ceiling)}
}

// TryConsume atomically takes one token, reporting whether one was
// available.
func (b *Budget) TryConsume() bool {
	return b.limiter.Allow()
}
