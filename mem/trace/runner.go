package trace

import (
	"context"

	"github.com/sarchlab/cachesim/mem/cache"
)

// An Accessor is anything that can serve an address like a cache.
type Accessor interface {
	Access(addr uint64) cache.Outcome
}

// ctxCheckInterval is how many records are processed between checks for
// cancellation.
const ctxCheckInterval = 4096

// Runner feeds a trace into a cache one address at a time.
type Runner struct {
	hookableBase

	cache  Accessor
	source AddressSource
}

// NewRunner creates a Runner.
func NewRunner(c Accessor, source AddressSource) *Runner {
	return &Runner{
		cache:  c,
		source: source,
	}
}

// Run consumes the whole trace and returns the totals. If reading fails or
// ctx is cancelled, no statistics are returned.
func (r *Runner) Run(ctx context.Context) (cache.Statistics, error) {
	var (
		stats cache.Statistics
		seq   uint64
	)

	for {
		if seq%ctxCheckInterval == 0 {
			err := ctx.Err()
			if err != nil {
				return cache.Statistics{}, err
			}
		}

		addr, ok, err := r.source.Next()
		if err != nil {
			return cache.Statistics{}, err
		}

		if !ok {
			break
		}

		outcome := r.cache.Access(uint64(addr))
		stats.Record(outcome)

		if len(r.hookList) > 0 {
			r.invokeHook(HookCtx{
				Domain:  r,
				Pos:     HookPosAccess,
				Seq:     seq,
				Outcome: outcome,
				Stats:   stats,
			})
		}

		seq++
	}

	r.invokeHook(HookCtx{
		Domain: r,
		Pos:    HookPosRunEnd,
		Seq:    seq,
		Stats:  stats,
	})

	return stats, nil
}
