// Package models defines the core data structures for users, tasks
// and notifications.
package models

import "time"

// User represents an authenticated application user.
type User struct {
	// ID is the unique identifier assigned by the backend.
	ID string `json:"id"`
	// Name is the display name chosen at registration.
	Name string `json:"name"`
	// Email is the login identity.
	Email string `json:"email"`
	// PhoneNumber is the SMS contact, empty when the user never provided one.
	PhoneNumber string `json:"phoneNumber,omitempty"`
	// NotifyOptIn is true when the user asked for task alerts.
	NotifyOptIn bool `json:"notifyOptIn,omitempty"`
}

// Priority is the task urgency level.
type Priority string

const (
	// PriorityLow marks a task that can wait.
	PriorityLow Priority = "low"
	// PriorityMedium is the default urgency for new tasks.
	PriorityMedium Priority = "medium"
	// PriorityHigh marks a task that should be done first.
	PriorityHigh Priority = "high"
)

// Rank orders priorities for sorting: high before medium before low,
// with unset priorities last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// Task is a user-owned to-do item.
type Task struct {
	// ID is assigned by the backend at creation time.
	ID string `json:"id"`
	// UserID is the owner; every read and write is scoped to it.
	UserID string `json:"userId"`
	// Title is required and non-empty.
	Title string `json:"title"`
	// Description is optional free text.
	Description string `json:"description,omitempty"`
	// DueDate is optional; nil means the task has no schedule.
	DueDate *time.Time `json:"dueDate,omitempty"`
	// Priority defaults to medium when unset at creation.
	Priority Priority `json:"priority,omitempty"`
	// Completed is the done flag.
	Completed bool `json:"completed"`
}

// Channel identifies a notification delivery channel.
type Channel string

const (
	// ChannelSMS delivers over the SMS gateway.
	ChannelSMS Channel = "sms"
	// ChannelEmail delivers over the email gateway.
	ChannelEmail Channel = "email"
	// ChannelPush delivers over the push gateway.
	ChannelPush Channel = "push"
)

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool {
	switch c {
	case ChannelSMS, ChannelEmail, ChannelPush:
		return true
	}
	return false
}

// Delivery is the relay's record of one notification attempt.
// It is operational bookkeeping on the server side; task state on the
// client never carries notification data.
type Delivery struct {
	// ID is the unique identifier for the delivery record.
	ID string `json:"id"`
	// Channel is the delivery channel used.
	Channel Channel `json:"channel"`
	// Recipient is the phone number or address the message went to.
	Recipient string `json:"recipient"`
	// Message is the delivered text.
	Message string `json:"message"`
	// Status is "sent" or "failed".
	Status string `json:"status"`
	// Error holds the provider error for failed deliveries.
	Error string `json:"error,omitempty"`
	// CreatedAt is when the relay handled the request.
	CreatedAt time.Time `json:"createdAt"`
}

// Delivery statuses.
const (
	DeliverySent   = "sent"
	DeliveryFailed = "failed"
)
