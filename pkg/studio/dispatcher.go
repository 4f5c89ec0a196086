package studio

import (
	"context"
	"errors"
	"sync"
	"time"
)

const DefaultTimeout = 30 * time.Second

type Outcome int

const (
	OutcomeDone Outcome = iota
	OutcomeInvalid
	OutcomeRejected
	OutcomeFailed
	OutcomeBusy
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDone:
		return "done"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeRejected:
		return "rejected"
	case OutcomeFailed:
		return "failed"
	case OutcomeBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// Action is one user-triggered operation.
type Action struct {
	// Name prefixes transport failure messages ("Upload failed: ...").
	Name string
	// Control is disabled while the call is in flight; triggers on a busy
	// control are dropped.
	Control string
	// Validate runs before anything else. A non-nil error aborts the action
	// with its message and no mutation.
	Validate func() error
	// Call issues exactly one backend request and returns its message.
	Call func(ctx context.Context) (string, error)
	// Apply performs the UI mutation after a confirmed success.
	Apply func(ctx context.Context)
	// Quiet suppresses the success message.
	Quiet bool
}

// Dispatcher runs actions against a document with a per-request timeout.
type Dispatcher struct {
	doc     *Document
	timeout time.Duration

	mu   sync.Mutex
	busy map[string]bool
}

func NewDispatcher(doc *Document, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{doc: doc, timeout: timeout, busy: make(map[string]bool)}
}

func (d *Dispatcher) Timeout() time.Duration {
	return d.timeout
}

func (d *Dispatcher) acquire(control string) bool {
	if control == "" {
		return true
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.busy[control] {
		return false
	}
	d.busy[control] = true
	d.doc.SetDisabled(control, true)
	return true
}

func (d *Dispatcher) release(control string) {
	if control == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.busy, control)
	d.doc.SetDisabled(control, false)
}

// Busy reports whether control has an action in flight.
func (d *Dispatcher) Busy(control string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.busy[control]
}

func (d *Dispatcher) Dispatch(ctx context.Context, a Action) Outcome {
	if a.Validate != nil {
		if err := a.Validate(); err != nil {
			d.doc.Alert(err.Error())
			return OutcomeInvalid
		}
	}

	if !d.acquire(a.Control) {
		return OutcomeBusy
	}
	defer d.release(a.Control)

	message := ""
	if a.Call != nil {
		callCtx, cancel := context.WithTimeout(ctx, d.timeout)
		msg, err := a.Call(callCtx)
		timedOut := errors.Is(callCtx.Err(), context.DeadlineExceeded)
		cancel()
		if err != nil {
			if timedOut {
				err = context.DeadlineExceeded
			}
			return d.fail(a, err)
		}
		message = msg
	}

	if message != "" && !a.Quiet {
		d.doc.Alert(message)
	}
	if a.Apply != nil {
		applyCtx, cancel := context.WithTimeout(ctx, d.timeout)
		a.Apply(applyCtx)
		cancel()
	}
	return OutcomeDone
}

func (d *Dispatcher) fail(a Action, err error) Outcome {
	var rejected *RejectedError
	var validation *ValidationError
	switch {
	case errors.As(err, &rejected):
		d.doc.Alert(rejected.Message)
		return OutcomeRejected
	case errors.As(err, &validation):
		d.doc.Alert(validation.Message)
		return OutcomeInvalid
	case errors.Is(err, context.DeadlineExceeded):
		d.doc.Alert(a.Name + " failed: request timed out")
		return OutcomeFailed
	default:
		d.doc.Alert(a.Name + " failed: " + err.Error())
		return OutcomeFailed
	}
}
