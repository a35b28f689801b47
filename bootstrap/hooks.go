package bootstrap

import (
	"context"
	stderrors "errors"
	"fmt"
)

// Hook is a shutdown callback registered by whatever opened a resource.
type Hook func(ctx context.Context) error

// OnStop registers hooks that Shutdown runs in reverse registration order.
func (a *App) OnStop(name string, hooks ...Hook) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, h := range hooks {
		a.onStop = append(a.onStop, namedHook{name: name, fn: h})
	}
}

type namedHook struct {
	name string
	fn   Hook
}

// runHooks runs every hook, last registered first, and joins the errors.
func runHooks(ctx context.Context, hooks []namedHook) error {
	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i].fn(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", hooks[i].name, err))
		}
	}
	return stderrors.Join(errs...)
}
