package async

import (
	"context"
	"runtime/debug"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Go runs fn in a new goroutine and delivers its result on the returned
// channel, which receives exactly one value. A panic in fn is recovered,
// logged with its stack, reported to Sentry and delivered as an error.
//
// fn gets a context detached from ctx's cancellation that keeps the ctxlog
// logger and the Sentry hub.
func Go(ctx context.Context, name string, fn func(ctx context.Context) error) <-chan error {
	newCtx := newBackgroundContext(ctx)
	result := make(chan error, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				err := goerr.New("panic in background task",
					goerr.V("task", name),
					goerr.V("recover", r))

				ctxlog.From(newCtx).Error("panic in background task",
					"task", name,
					"recover", r,
					"stack", string(debug.Stack()))
				if hub := sentry.GetHubFromContext(newCtx); hub != nil {
					hub.Recover(r)
				}
				result <- err
			}
		}()

		err := fn(newCtx)
		if err != nil {
			ctxlog.From(newCtx).Error("error in background task", "task", name, "error", err)
		}
		result <- err
	}()

	return result
}

func newBackgroundContext(ctx context.Context) context.Context {
	newCtx := context.Background()
	newCtx = ctxlog.With(newCtx, ctxlog.From(ctx))
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		newCtx = sentry.SetHubOnContext(newCtx, hub)
	}
	return newCtx
}
