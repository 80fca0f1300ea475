package routes

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"task-manager/models"
	"task-manager/store"
)

// maxBodyBytes caps task request bodies.
const maxBodyBytes = 100 << 10

type taskHandler struct {
	store store.Store
}

// GET /tasks - List all tasks
func (h *taskHandler) list(c *gin.Context) {
	tasks, err := h.store.FindAll(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, models.TaskListResponse{Success: true, Count: len(tasks), Tasks: tasks})
}

// GET /tasks/:id - Get a single task
func (h *taskHandler) get(c *gin.Context) {
	task, err := h.store.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, models.TaskResponse{Success: true, Task: *task})
}

// POST /tasks - Create a task
func (h *taskHandler) create(c *gin.Context) {
	var req models.CreateTaskRequest
	if err := bindTaskBody(c, &req); err != nil {
		c.Error(err)
		return
	}
	if req.Description == nil || *req.Description == "" {
		c.Error(models.NewValidationError("description", "Task description is required"))
		return
	}

	task, err := h.store.Insert(c.Request.Context(), models.NewTask(*req.Description, req.Completed))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, models.TaskResponse{Success: true, Task: *task})
}

// PATCH /tasks/:id - Update description and/or completed
func (h *taskHandler) update(c *gin.Context) {
	id := c.Param("id")
	if _, err := models.ParseID(id); err != nil {
		c.Error(err)
		return
	}

	var req models.UpdateTaskRequest
	if err := bindTaskBody(c, &req); err != nil {
		c.Error(err)
		return
	}
	// The store rejects this too; checking here keeps the message stable and
	// skips the lookup.
	if req.Description != nil && models.TrimDescription(*req.Description) == "" {
		c.Error(models.NewValidationError("description", "Task description cannot be empty"))
		return
	}

	task, err := h.store.UpdateByID(c.Request.Context(), id, req.Patch())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, models.TaskResponse{Success: true, Task: *task})
}

// DELETE /tasks/:id - Delete a task
func (h *taskHandler) remove(c *gin.Context) {
	if _, err := h.store.DeleteByID(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, models.DeleteResponse{Success: true, Msg: "Task deleted successfully"})
}

// GET /health - Store reachability
func (h *taskHandler) health(c *gin.Context) {
	n, err := h.store.Count(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "tasks": n})
}

// bindTaskBody checks the body shape against the task schema before decoding it.
func bindTaskBody(c *gin.Context, obj any) error {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	body, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return tooLarge
		}
		return models.NewValidationError("body", models.InvalidBodyMessage)
	}
	if err := models.ValidateBody(body); err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := binding.JSON.BindBody(body, obj); err != nil {
		return models.NewValidationError("body", models.InvalidBodyMessage)
	}
	return nil
}
