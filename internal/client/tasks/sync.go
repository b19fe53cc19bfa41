// Package tasks synchronizes the local task collection with the
// backend. Every mutation goes to the server first; the collection
// only changes after the backend confirms, so a failure always leaves
// it at its last-known-good state.
package tasks

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/julimigwi/Task-Tracker/internal/models"
)

var (
	// ErrEmptyTitle rejects a task draft without a title.
	ErrEmptyTitle = errors.New("task title cannot be empty")
	// ErrDueDatePast rejects a draft whose due date is already behind.
	ErrDueDatePast = errors.New("due date cannot be in the past")
	// ErrNotConfirmed means the caller skipped the delete confirmation.
	ErrNotConfirmed = errors.New("delete not confirmed")
)

// Backend is the remote task API the layer synchronizes against.
type Backend interface {
	Tasks(ctx context.Context, userID string) ([]models.Task, error)
	CreateTask(ctx context.Context, task models.Task) (models.Task, error)
	UpdateTask(ctx context.Context, id string, patch any) (models.Task, error)
	UpdateStatus(ctx context.Context, id string, completed bool) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Notifier receives task mutation events as a secondary effect.
// Implementations must never fail the mutation they observe.
type Notifier interface {
	TaskCreated(ctx context.Context, user models.User, task models.Task)
	TaskUpdated(ctx context.Context, user models.User, task models.Task)
}

// changeKind tags a reconciliation operation.
type changeKind int

const (
	changeReplaceAll changeKind = iota
	changeUpsert
	changeRemove
)

// change is one confirmed mutation to fold into the collection.
// All call sites go through the same apply routine instead of each
// merging the server response its own way.
type change struct {
	kind changeKind
	all  []models.Task
	task models.Task
	id   string
}

// Sync owns the local task collection for one user session.
type Sync struct {
	backend  Backend
	notifier Notifier
	user     models.User
	tasks    []models.Task

	// gen invalidates in-flight results: a response that resolves
	// after the owning view is gone is discarded, not applied.
	gen int

	now func() time.Time
}

// NewSync creates the synchronization layer for user. notifier may be
// nil when the user cannot receive notifications.
func NewSync(backend Backend, user models.User, notifier Notifier) *Sync {
	return &Sync{
		backend:  backend,
		notifier: notifier,
		user:     user,
		now:      time.Now,
	}
}

// Tasks returns a copy of the current collection.
func (s *Sync) Tasks() []models.Task {
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Invalidate discards any in-flight results; called when the view
// owning this collection goes away.
func (s *Sync) Invalidate() { s.gen++ }

// apply folds one confirmed change into the collection. After apply
// the collection holds exactly one entry per task id.
func (s *Sync) apply(ch change) {
	switch ch.kind {
	case changeReplaceAll:
		s.tasks = ch.all
	case changeUpsert:
		for i := range s.tasks {
			if s.tasks[i].ID == ch.task.ID {
				s.tasks[i] = ch.task
				return
			}
		}
		// No local entry matches the returned id; append defensively.
		s.tasks = append(s.tasks, ch.task)
	case changeRemove:
		kept := s.tasks[:0]
		for _, t := range s.tasks {
			if t.ID != ch.id {
				kept = append(kept, t)
			}
		}
		s.tasks = kept
	}
}

// List fetches all tasks owned by the session user and replaces the
// collection wholesale. On failure the collection is left untouched.
func (s *Sync) List(ctx context.Context) error {
	gen := s.gen
	fetched, err := s.backend.Tasks(ctx, s.user.ID)
	if err != nil {
		return err
	}
	if gen != s.gen {
		return nil
	}
	s.apply(change{kind: changeReplaceAll, all: fetched})
	return nil
}

// Draft is the user-provided input for a new task.
type Draft struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    models.Priority
}

// validate enforces the submission-time rules. Edits are not
// re-checked against the due-date rule unless resubmitted.
func (s *Sync) validate(d Draft) error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrEmptyTitle
	}
	if d.DueDate != nil && d.DueDate.Before(s.now()) {
		return ErrDueDatePast
	}
	return nil
}

// Create submits a new task for the session user. The backend assigns
// the id; the created record joins the collection only on success.
func (s *Sync) Create(ctx context.Context, draft Draft) (models.Task, error) {
	if err := s.validate(draft); err != nil {
		return models.Task{}, err
	}
	if draft.Priority == "" {
		draft.Priority = models.PriorityMedium
	}

	gen := s.gen
	created, err := s.backend.CreateTask(ctx, models.Task{
		UserID:      s.user.ID,
		Title:       draft.Title,
		Description: draft.Description,
		DueDate:     draft.DueDate,
		Priority:    draft.Priority,
	})
	if err != nil {
		return models.Task{}, err
	}
	if gen == s.gen {
		s.apply(change{kind: changeUpsert, task: created})
	}
	if s.notifier != nil {
		s.notifier.TaskCreated(ctx, s.user, created)
	}
	return created, nil
}

// Patch is a partial task update; nil fields are left unchanged.
type Patch struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	DueDate     *time.Time       `json:"dueDate,omitempty"`
	Priority    *models.Priority `json:"priority,omitempty"`
	Completed   *bool            `json:"completed,omitempty"`
}

// Update patches the task with the given id and reconciles the
// authoritative server record into the collection.
func (s *Sync) Update(ctx context.Context, id string, patch Patch) (models.Task, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return models.Task{}, ErrEmptyTitle
	}

	gen := s.gen
	updated, err := s.backend.UpdateTask(ctx, id, patch)
	if err != nil {
		return models.Task{}, err
	}
	if gen == s.gen {
		s.apply(change{kind: changeUpsert, task: updated})
	}
	if s.notifier != nil {
		s.notifier.TaskUpdated(ctx, s.user, updated)
	}
	return updated, nil
}

// ToggleComplete flips the completed flag with a status-only patch.
// On failure the collection, and the task's flag, stay as they were.
func (s *Sync) ToggleComplete(ctx context.Context, task models.Task) (models.Task, error) {
	gen := s.gen
	updated, err := s.backend.UpdateStatus(ctx, task.ID, !task.Completed)
	if err != nil {
		return models.Task{}, err
	}
	if gen == s.gen {
		s.apply(change{kind: changeUpsert, task: updated})
	}
	return updated, nil
}

// Delete removes the task permanently. Deletion is irreversible, so
// the caller must pass confirmed=true after an explicit user
// confirmation; without it no backend call is made.
func (s *Sync) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	gen := s.gen
	if err := s.backend.DeleteTask(ctx, id); err != nil {
		return err
	}
	if gen == s.gen {
		s.apply(change{kind: changeRemove, id: id})
	}
	return nil
}
