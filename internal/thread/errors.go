package thread

import (
	"fmt"

	"github.com/go-faster/errors"
)

var (
	// ErrDestroyed is returned by control calls made after Destroy completed.
	ErrDestroyed = errors.New("thread destroyed")
	// ErrDestroying is returned by Start and Stop once Destroy has been called.
	ErrDestroying = errors.New("thread is being destroyed")
	// ErrDestroyInProgress is returned when Destroy is called while another
	// Destroy call is still waiting for the worker.
	ErrDestroyInProgress = errors.New("thread destroy already in progress")
)

// Hook names used in HookError, logs and metrics.
const (
	HookInit    = "init"
	HookLoop    = "loop"
	HookDestroy = "destroy"
)

// HookError is captured when a hook returns an error or panics. It is
// surfaced by the next Start or Stop call and by Destroy.
type HookError struct {
	Hook  string
	Err   error
	Panic any
}

func (e *HookError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("thread %s hook panicked: %v", e.Hook, e.Panic)
	}
	return fmt.Sprintf("thread %s hook: %v", e.Hook, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}
