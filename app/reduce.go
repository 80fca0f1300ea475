package app

import (
	"context"
	"errors"

	"task-manager/client"
	"task-manager/models"
)

// Action is a user input or the outcome of a request.
type Action interface {
	action()
}

// Effect performs one request and reports its outcome as an Action.
type Effect func(ctx context.Context, api API) Action

// User inputs.
type (
	Load           struct{}
	SetNewTaskText struct{ Text string }
	AddTask        struct{}
	ToggleComplete struct{ ID string }
	StartEditing   struct{ ID string }
	SetEditText    struct{ Text string }
	CancelEditing  struct{}
	SaveEdit       struct{}
	DeleteTask     struct{ ID string }
	SetFilter      struct{ Filter Filter }
	SetSort        struct{ SortBy SortKey }
	SetSearch      struct{ Term string }
)

// Request outcomes.
type (
	TasksLoaded   struct{ Tasks []models.Task }
	TaskAdded     struct{ Task models.Task }
	TaskToggled   struct{ Task models.Task }
	TaskSaved     struct{ Task models.Task }
	TaskDeleted   struct{ ID string }
	RequestFailed struct {
		Op  Op
		Err error
	}
)

type Op int

const (
	OpLoad Op = iota
	OpAdd
	OpToggle
	OpSave
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpLoad:
		return "load"
	case OpAdd:
		return "add"
	case OpToggle:
		return "toggle"
	case OpSave:
		return "save"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

func (Load) action()           {}
func (SetNewTaskText) action() {}
func (AddTask) action()        {}
func (ToggleComplete) action() {}
func (StartEditing) action()   {}
func (SetEditText) action()    {}
func (CancelEditing) action()  {}
func (SaveEdit) action()       {}
func (DeleteTask) action()     {}
func (SetFilter) action()      {}
func (SetSort) action()        {}
func (SetSearch) action()      {}
func (TasksLoaded) action()    {}
func (TaskAdded) action()      {}
func (TaskToggled) action()    {}
func (TaskSaved) action()      {}
func (TaskDeleted) action()    {}
func (RequestFailed) action()  {}

const (
	MsgEmptyDescription = "Task description cannot be empty."
	MsgAdded            = "Task added successfully!"
	MsgToggled          = "Task status updated!"
	MsgSaved            = "Task updated successfully!"
	MsgDeleted          = "Task deleted successfully!"
	MsgLoadFailed       = "Error loading tasks. Please try again later."
	MsgAddFailed        = "Error adding task."
	MsgUpdateFailed     = "Error updating task."
	MsgDeleteFailed     = "Error deleting task."
)

// Reduce returns the state after a and the request to run, if any. User
// inputs are dropped while a request is in flight.
func Reduce(s State, a Action) (State, Effect) {
	switch a := a.(type) {
	case TasksLoaded:
		s.Tasks = a.Tasks
		return settle(s, ""), nil
	case TaskAdded:
		s.Tasks = append(append([]models.Task(nil), s.Tasks...), a.Task)
		s.NewTaskText = ""
		return settle(s, MsgAdded), nil
	case TaskToggled:
		s.Tasks = replace(s.Tasks, a.Task.ID, func(t *models.Task) { t.Completed = a.Task.Completed })
		return settle(s, MsgToggled), nil
	case TaskSaved:
		s.Tasks = replace(s.Tasks, a.Task.ID, func(t *models.Task) { t.Description = a.Task.Description })
		s.EditingID, s.EditingText = "", ""
		return settle(s, MsgSaved), nil
	case TaskDeleted:
		s.Tasks = remove(s.Tasks, a.ID)
		return settle(s, MsgDeleted), nil
	case RequestFailed:
		return settle(s, failureMessage(a)), nil
	}

	if s.Loading {
		return s, nil
	}

	switch a := a.(type) {
	case Load:
		return begin(s), loadTasks()

	case SetNewTaskText:
		s.NewTaskText = a.Text
	case AddTask:
		if models.TrimDescription(s.NewTaskText) == "" {
			s.Message = MsgEmptyDescription
			return s, nil
		}
		return begin(s), createTask(s.NewTaskText)

	case ToggleComplete:
		t, ok := s.find(a.ID)
		if !ok {
			return s, nil
		}
		return begin(s), toggleTask(t.ID, !t.Completed)

	case StartEditing:
		t, ok := s.find(a.ID)
		if !ok {
			return s, nil
		}
		s.EditingID, s.EditingText = t.ID, t.Description
	case SetEditText:
		s.EditingText = a.Text
	case CancelEditing:
		s.EditingID, s.EditingText = "", ""
	case SaveEdit:
		if s.EditingID == "" {
			return s, nil
		}
		if models.TrimDescription(s.EditingText) == "" {
			s.Message = MsgEmptyDescription
			return s, nil
		}
		return begin(s), saveTask(s.EditingID, s.EditingText)

	case DeleteTask:
		if _, ok := s.find(a.ID); !ok {
			return s, nil
		}
		return begin(s), deleteTask(a.ID)

	case SetFilter:
		s.Filter = a.Filter
	case SetSort:
		s.SortBy = a.SortBy
	case SetSearch:
		s.Search = a.Term
	}
	return s, nil
}

func begin(s State) State {
	s.Loading = true
	s.Message = ""
	return s
}

func settle(s State, msg string) State {
	s.Loading = false
	s.Message = msg
	return s
}

func failureMessage(f RequestFailed) string {
	switch f.Op {
	case OpLoad:
		return MsgLoadFailed
	case OpAdd:
		return serverMessage(f.Err, MsgAddFailed)
	case OpSave:
		return serverMessage(f.Err, MsgUpdateFailed)
	case OpToggle:
		return MsgUpdateFailed
	case OpDelete:
		return MsgDeleteFailed
	default:
		return f.Err.Error()
	}
}

// serverMessage prefers the msg the service sent back.
func serverMessage(err error, fallback string) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Msg != "" {
		return apiErr.Msg
	}
	return fallback
}

func replace(tasks []models.Task, id string, fn func(*models.Task)) []models.Task {
	out := make([]models.Task, len(tasks))
	copy(out, tasks)
	for i := range out {
		if out[i].ID == id {
			fn(&out[i])
		}
	}
	return out
}

func remove(tasks []models.Task, id string) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

func loadTasks() Effect {
	return func(ctx context.Context, api API) Action {
		tasks, err := api.ListTasks(ctx)
		if err != nil {
			return RequestFailed{Op: OpLoad, Err: err}
		}
		return TasksLoaded{Tasks: tasks}
	}
}

func createTask(description string) Effect {
	return func(ctx context.Context, api API) Action {
		t, err := api.CreateTask(ctx, models.CreateTaskRequest{Description: &description})
		if err != nil {
			return RequestFailed{Op: OpAdd, Err: err}
		}
		return TaskAdded{Task: *t}
	}
}

func toggleTask(id string, completed bool) Effect {
	return func(ctx context.Context, api API) Action {
		t, err := api.UpdateTask(ctx, id, models.UpdateTaskRequest{Completed: &completed})
		if err != nil {
			return RequestFailed{Op: OpToggle, Err: err}
		}
		return TaskToggled{Task: *t}
	}
}

func saveTask(id, description string) Effect {
	return func(ctx context.Context, api API) Action {
		t, err := api.UpdateTask(ctx, id, models.UpdateTaskRequest{Description: &description})
		if err != nil {
			return RequestFailed{Op: OpSave, Err: err}
		}
		return TaskSaved{Task: *t}
	}
}

func deleteTask(id string) Effect {
	return func(ctx context.Context, api API) Action {
		if err := api.DeleteTask(ctx, id); err != nil {
			return RequestFailed{Op: OpDelete, Err: err}
		}
		return TaskDeleted{ID: id}
	}
}
