package matching

import (
	"context"
	"sync/atomic"
)

type exclusiveRanker struct {
	next Ranker
	busy atomic.Bool
}

// Exclusive allows a single in-flight Rank call. Overlapping calls fail fast with ErrBusy
// instead of queueing.
func Exclusive(next Ranker) Ranker {
	return &exclusiveRanker{next: next}
}

func (e *exclusiveRanker) Rank(ctx context.Context, req *MatchRequest) (*MatchResponse, error) {
	if !e.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer e.busy.Store(false)

	return e.next.Rank(ctx, req)
}
