package studio

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDispatch_ValidationAborts(t *testing.T) {
	doc := NewDocument()
	d := NewDispatcher(doc, time.Second)
	called := false

	outcome := d.Dispatch(context.Background(), Action{
		Name:     "Upload",
		Validate: func() error { return invalid("Please select an image") },
		Call: func(ctx context.Context) (string, error) {
			called = true
			return "", nil
		},
	})

	assert.Equal(t, OutcomeInvalid, outcome)
	assert.False(t, called)
	assert.Equal(t, []string{"Please select an image"}, doc.Alerts())
}

func TestDispatch_Success(t *testing.T) {
	doc := NewDocument()
	d := NewDispatcher(doc, time.Second)
	applied := false

	outcome := d.Dispatch(context.Background(), Action{
		Name:    "Upload",
		Control: "uploadAvatarBtn",
		Call: func(ctx context.Context) (string, error) {
			assert.True(t, doc.Disabled("uploadAvatarBtn"))
			return "Avatar uploaded successfully", nil
		},
		Apply: func(ctx context.Context) { applied = true },
	})

	assert.Equal(t, OutcomeDone, outcome)
	assert.True(t, applied)
	assert.False(t, doc.Disabled("uploadAvatarBtn"))
	assert.Equal(t, "Avatar uploaded successfully", doc.LastAlert())
}

func TestDispatch_QuietSuccess(t *testing.T) {
	doc := NewDocument()
	d := NewDispatcher(doc, time.Second)

	d.Dispatch(context.Background(), Action{
		Name:  "Logout",
		Quiet: true,
		Call:  func(ctx context.Context) (string, error) { return "Logged out successfully", nil },
	})

	assert.Empty(t, doc.Alerts())
}

func TestDispatch_Failures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		outcome Outcome
		alert   string
	}{
		{"rejected", reject("Avatar not found"), OutcomeRejected, "Avatar not found"},
		{"wrapped rejection", errors.Join(errors.New("delete"), reject("Unauthorized")), OutcomeRejected, "Unauthorized"},
		{"transport", errors.New("connection refused"), OutcomeFailed, "Delete failed: connection refused"},
		{"timeout", context.DeadlineExceeded, OutcomeFailed, "Delete failed: request timed out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := NewDocument()
			d := NewDispatcher(doc, time.Second)
			applied := false

			outcome := d.Dispatch(context.Background(), Action{
				Name:  "Delete",
				Call:  func(ctx context.Context) (string, error) { return "", tt.err },
				Apply: func(ctx context.Context) { applied = true },
			})

			assert.Equal(t, tt.outcome, outcome)
			assert.False(t, applied)
			assert.Equal(t, []string{tt.alert}, doc.Alerts())
		})
	}
}

func TestDispatch_Timeout(t *testing.T) {
	doc := NewDocument()
	d := NewDispatcher(doc, 20*time.Millisecond)

	outcome := d.Dispatch(context.Background(), Action{
		Name:    "Generation",
		Control: "generateBtn",
		Call: func(ctx context.Context) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	})

	assert.Equal(t, OutcomeFailed, outcome)
	assert.Equal(t, "Generation failed: request timed out", doc.LastAlert())
	assert.False(t, d.Busy("generateBtn"))
}

func TestDispatch_BusyControlDropsTrigger(t *testing.T) {
	doc := NewDocument()
	d := NewDispatcher(doc, time.Second)
	started := make(chan struct{})
	release := make(chan struct{})
	calls := 0

	action := Action{
		Name:    "Generation",
		Control: "generateBtn",
		Call: func(ctx context.Context) (string, error) {
			calls++
			close(started)
			<-release
			return "Animation generated", nil
		},
	}

	done := make(chan Outcome)
	go func() { done <- d.Dispatch(context.Background(), action) }()
	<-started

	assert.True(t, d.Busy("generateBtn"))
	assert.True(t, doc.Disabled("generateBtn"))
	assert.Equal(t, OutcomeBusy, d.Dispatch(context.Background(), action))

	close(release)
	assert.Equal(t, OutcomeDone, <-done)
	assert.Equal(t, 1, calls)
	assert.False(t, doc.Disabled("generateBtn"))
}

func TestNewDispatcher_DefaultTimeout(t *testing.T) {
	assert.Equal(t, DefaultTimeout, NewDispatcher(NewDocument(), 0).Timeout())
}
