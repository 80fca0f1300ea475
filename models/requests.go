package models

// CreateTaskRequest is the body of POST /tasks.
type CreateTaskRequest struct {
	Description *string `json:"description"`
	Completed   *bool   `json:"completed,omitempty"`
}

// UpdateTaskRequest is the body of PATCH /tasks/:id.
type UpdateTaskRequest struct {
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

func (r UpdateTaskRequest) Patch() TaskPatch {
	return TaskPatch{Description: r.Description, Completed: r.Completed}
}

type TaskListResponse struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Tasks   []Task `json:"tasks"`
}

type TaskResponse struct {
	Success bool `json:"success"`
	Task    Task `json:"task"`
}

type DeleteResponse struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
}

type ErrorResponse struct {
	Msg string `json:"msg"`
}
