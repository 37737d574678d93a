package dedup

import "context"

// Noop never blocks a submission. Used when REPLY_DEDUP_WINDOW is not configured.
type Noop struct{}

func (Noop) Acquire(context.Context, string) (func(context.Context) error, bool, error) {
	return func(context.Context) error { return nil }, true, nil
}
