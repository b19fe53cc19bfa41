// Package notify sends task alerts through the notification relay.
// Dispatch is opportunistic: it runs only after the task mutation
// already succeeded and its failure never rolls that mutation back.
package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/julimigwi/Task-Tracker/internal/client/api"
	"github.com/julimigwi/Task-Tracker/internal/models"
)

const (
	// extraAttempts is how many retries follow a failed first attempt.
	extraAttempts = 2
	// baseDelay is the first backoff delay; it doubles each retry.
	baseDelay = time.Second
)

// Poster posts JSON to the notification relay.
type Poster interface {
	Post(ctx context.Context, path string, body, out any) error
}

// Payload is the ephemeral notification request. It is a side effect
// of a task mutation and never part of task state.
type Payload struct {
	Recipient string
	Message   string
}

// Dispatcher delivers notifications with bounded retries.
type Dispatcher struct {
	relay Poster
	log   *zap.Logger
	sleep func(time.Duration)
}

// NewDispatcher creates a Dispatcher over the relay client.
func NewDispatcher(relay Poster, log *zap.Logger) *Dispatcher {
	return &Dispatcher{relay: relay, log: log, sleep: time.Sleep}
}

// Send delivers one notification over the given channel. On failure it
// retries up to two more times with doubling backoff (1s, 2s, 4s),
// except for client errors, where retrying cannot change the outcome.
func (d *Dispatcher) Send(ctx context.Context, channel models.Channel, p Payload) error {
	body := map[string]string{"message": p.Message}
	if channel == models.ChannelSMS {
		body["phoneNumber"] = p.Recipient
	} else {
		body["recipient"] = p.Recipient
	}

	delay := baseDelay
	var lastErr error
	for attempt := 0; attempt <= extraAttempts; attempt++ {
		if attempt > 0 {
			d.sleep(delay)
			delay *= 2
		}
		err := d.relay.Post(ctx, "/notify/"+string(channel), body, nil)
		if err == nil {
			return nil
		}
		lastErr = err
		if apiErr, ok := api.AsError(err); ok && !apiErr.Retryable() {
			return err
		}
	}
	return lastErr
}

// TaskCreated sends an SMS about a freshly created task when the user
// opted in and has a phone number. Failures are logged as a warning.
func (d *Dispatcher) TaskCreated(ctx context.Context, user models.User, task models.Task) {
	d.taskAlert(ctx, user, task, "New task created: "+task.Title)
}

// TaskUpdated sends an SMS about an updated task under the same rules.
func (d *Dispatcher) TaskUpdated(ctx context.Context, user models.User, task models.Task) {
	d.taskAlert(ctx, user, task, "Task updated: "+task.Title)
}

func (d *Dispatcher) taskAlert(ctx context.Context, user models.User, task models.Task, message string) {
	if !user.NotifyOptIn || user.PhoneNumber == "" {
		return
	}
	err := d.Send(ctx, models.ChannelSMS, Payload{Recipient: user.PhoneNumber, Message: message})
	if err != nil {
		d.log.Warn("task notification failed",
			zap.String("task_id", task.ID),
			zap.Error(err),
		)
	}
}
