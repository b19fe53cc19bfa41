package tasks

import (
	"sort"
	"strings"

	"github.com/julimigwi/Task-Tracker/internal/models"
)

// Tab is the status filter over the collection.
type Tab string

const (
	// TabAll shows every task.
	TabAll Tab = "all"
	// TabPending shows open tasks.
	TabPending Tab = "pending"
	// TabCompleted shows finished tasks.
	TabCompleted Tab = "completed"
)

// SortKey selects the client-side sort order.
type SortKey string

const (
	// SortByDueDate orders by due date, undated tasks last.
	SortByDueDate SortKey = "dueDate"
	// SortByPriority orders high before medium before low, unset last.
	SortByPriority SortKey = "priority"
	// SortByTitle orders by case-insensitive title.
	SortByTitle SortKey = "title"
)

// FilterByTab returns the tasks matching the status tab. The input is
// never mutated; views are re-derived from the collection.
func FilterByTab(tasks []models.Task, tab Tab) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		switch tab {
		case TabCompleted:
			if !t.Completed {
				continue
			}
		case TabPending:
			if t.Completed {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// Search returns the tasks whose title or description contains query,
// case-insensitively. An empty query matches everything.
func Search(tasks []models.Task, query string) []models.Task {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		out := make([]models.Task, len(tasks))
		copy(out, tasks)
		return out
	}
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), query) ||
			strings.Contains(strings.ToLower(t.Description), query) {
			out = append(out, t)
		}
	}
	return out
}

// SortTasks returns a sorted copy of tasks. The sort is stable: ties
// keep their original relative order.
func SortTasks(tasks []models.Task, key SortKey) []models.Task {
	out := make([]models.Task, len(tasks))
	copy(out, tasks)

	switch key {
	case SortByDueDate:
		sort.SliceStable(out, func(i, j int) bool {
			// Undated tasks sort after all dated tasks.
			switch {
			case out[i].DueDate == nil:
				return false
			case out[j].DueDate == nil:
				return true
			default:
				return out[i].DueDate.Before(*out[j].DueDate)
			}
		})
	case SortByPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.Rank() < out[j].Priority.Rank()
		})
	case SortByTitle:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
		})
	}
	return out
}

// View composes filter, search and sort into the displayed sequence.
// It is pure: recompute it whenever the collection, tab, query or sort
// key changes.
func View(tasks []models.Task, tab Tab, query string, key SortKey) []models.Task {
	return SortTasks(Search(FilterByTab(tasks, tab), query), key)
}
