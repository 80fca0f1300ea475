// Package app holds the client application: its state, the transitions user
// actions and server answers cause, and the derived task view.
package app

import (
	"context"

	"task-manager/models"
)

type Filter string

const (
	FilterAll        Filter = "all"
	FilterCompleted  Filter = "completed"
	FilterIncomplete Filter = "incomplete"
)

// Filters in the order they are offered to the user.
var Filters = []Filter{FilterAll, FilterIncomplete, FilterCompleted}

func (f Filter) Label() string {
	switch f {
	case FilterCompleted:
		return "Completed"
	case FilterIncomplete:
		return "Active"
	default:
		return "All"
	}
}

// Match reports whether t passes the completion filter.
func (f Filter) Match(t models.Task) bool {
	switch f {
	case FilterCompleted:
		return t.Completed
	case FilterIncomplete:
		return !t.Completed
	default:
		return true
	}
}

type SortKey string

const (
	SortCreatedDesc     SortKey = "createdAt_desc"
	SortCreatedAsc      SortKey = "createdAt_asc"
	SortDescriptionAsc  SortKey = "description_asc"
	SortDescriptionDesc SortKey = "description_desc"
)

var SortKeys = []SortKey{SortCreatedDesc, SortCreatedAsc, SortDescriptionAsc, SortDescriptionDesc}

func (k SortKey) Label() string {
	switch k {
	case SortCreatedDesc:
		return "By Date (Newest)"
	case SortCreatedAsc:
		return "By Date (Oldest)"
	case SortDescriptionAsc:
		return "By Description (A-Z)"
	case SortDescriptionDesc:
		return "By Description (Z-A)"
	default:
		return string(k)
	}
}

// API is the part of the task service the application calls.
type API interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, req models.CreateTaskRequest) (*models.Task, error)
	UpdateTask(ctx context.Context, id string, req models.UpdateTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// State is everything the application keeps locally. Tasks is a copy of the
// server's list, never authoritative.
type State struct {
	Tasks       []models.Task
	NewTaskText string
	Message     string
	Loading     bool

	// EditingID is empty when no task is being edited.
	EditingID   string
	EditingText string

	Filter Filter
	SortBy SortKey
	Search string
}

func NewState() State {
	return State{
		Filter: FilterAll,
		SortBy: SortCreatedDesc,
	}
}

func (s State) IsEditing(id string) bool {
	return s.EditingID != "" && s.EditingID == id
}

func (s State) find(id string) (models.Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}
