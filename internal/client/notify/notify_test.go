package notify

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/julimigwi/Task-Tracker/internal/client/api"
	"github.com/julimigwi/Task-Tracker/internal/models"
)

// fakePoster implements Poster, returning queued errors in order.
type fakePoster struct {
	errs  []error
	calls int
	paths []string
}

func (f *fakePoster) Post(ctx context.Context, path string, body, out any) error {
	f.paths = append(f.paths, path)
	call := f.calls
	f.calls++
	if call < len(f.errs) {
		return f.errs[call]
	}
	return nil
}

func newTestDispatcher(poster *fakePoster) (*Dispatcher, *[]time.Duration) {
	var slept []time.Duration
	d := NewDispatcher(poster, zap.NewNop())
	d.sleep = func(dur time.Duration) { slept = append(slept, dur) }
	return d, &slept
}

func TestSend_SucceedsFirstTry(t *testing.T) {
	poster := &fakePoster{}
	d, slept := newTestDispatcher(poster)

	err := d.Send(context.Background(), models.ChannelSMS, Payload{Recipient: "254700000001", Message: "hi"})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if poster.calls != 1 {
		t.Errorf("expected 1 attempt, got %d", poster.calls)
	}
	if len(*slept) != 0 {
		t.Errorf("expected no backoff, slept %v", *slept)
	}
	if poster.paths[0] != "/notify/sms" {
		t.Errorf("expected sms path, got %q", poster.paths[0])
	}
}

func TestSend_RetriesWithDoublingBackoff(t *testing.T) {
	serverErr := api.StatusError(500, "")
	poster := &fakePoster{errs: []error{serverErr, serverErr}}
	d, slept := newTestDispatcher(poster)

	err := d.Send(context.Background(), models.ChannelSMS, Payload{Recipient: "254700000001", Message: "hi"})
	if err != nil {
		t.Fatalf("expected third attempt to succeed, got %v", err)
	}
	if poster.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", poster.calls)
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(*slept) != len(want) {
		t.Fatalf("expected delays %v, got %v", want, *slept)
	}
	for i, dur := range want {
		if (*slept)[i] != dur {
			t.Errorf("delay %d: expected %v, got %v", i, dur, (*slept)[i])
		}
	}
}

func TestSend_ExhaustsRetries(t *testing.T) {
	serverErr := api.StatusError(503, "")
	poster := &fakePoster{errs: []error{serverErr, serverErr, serverErr}}
	d, slept := newTestDispatcher(poster)

	err := d.Send(context.Background(), models.ChannelSMS, Payload{Recipient: "254700000001", Message: "hi"})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if poster.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", poster.calls)
	}
	if len(*slept) != 2 {
		t.Errorf("expected 2 backoff sleeps, got %d", len(*slept))
	}
}

func TestSend_ClientErrorNeverRetried(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "validation error", status: 400},
		{name: "authentication error", status: 401},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			poster := &fakePoster{errs: []error{api.StatusError(tt.status, "nope")}}
			d, slept := newTestDispatcher(poster)

			err := d.Send(context.Background(), models.ChannelSMS, Payload{Recipient: "254700000001", Message: "hi"})
			if err == nil {
				t.Fatal("expected error")
			}
			if poster.calls != 1 {
				t.Errorf("client error must not be retried, got %d attempts", poster.calls)
			}
			if len(*slept) != 0 {
				t.Errorf("client error must not back off, slept %v", *slept)
			}
		})
	}
}

func TestTaskAlert_RequiresOptInAndContact(t *testing.T) {
	task := models.Task{ID: "1", Title: "Buy milk"}
	tests := []struct {
		name          string
		user          models.User
		expectedCalls int
	}{
		{
			name:          "opted in with phone",
			user:          models.User{ID: "u1", PhoneNumber: "254700000001", NotifyOptIn: true},
			expectedCalls: 1,
		},
		{
			name:          "opted out",
			user:          models.User{ID: "u1", PhoneNumber: "254700000001"},
			expectedCalls: 0,
		},
		{
			name:          "opted in without phone",
			user:          models.User{ID: "u1", NotifyOptIn: true},
			expectedCalls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			poster := &fakePoster{}
			d, _ := newTestDispatcher(poster)

			d.TaskCreated(context.Background(), tt.user, task)
			if poster.calls != tt.expectedCalls {
				t.Errorf("expected %d posts, got %d", tt.expectedCalls, poster.calls)
			}
		})
	}
}

func TestTaskAlert_FailureDoesNotPropagate(t *testing.T) {
	serverErr := api.StatusError(500, "")
	poster := &fakePoster{errs: []error{serverErr, serverErr, serverErr}}
	d, _ := newTestDispatcher(poster)

	user := models.User{ID: "u1", PhoneNumber: "254700000001", NotifyOptIn: true}
	// TaskUpdated returns nothing: exhausting retries only logs.
	d.TaskUpdated(context.Background(), user, models.Task{ID: "1", Title: "Buy milk"})

	if poster.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", poster.calls)
	}
}
