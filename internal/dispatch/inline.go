package dispatch

import "context"

// Inline runs work and completion synchronously on the caller's goroutine
type Inline struct {
	Ctx context.Context
}

func (i Inline) Go(work func(ctx context.Context), done func()) {
	ctx := i.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	work(ctx)
	if done != nil {
		done()
	}
}
