package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/client"
	"task-manager/models"
	"task-manager/routes"
	"task-manager/store"
)

func newTestClient(t *testing.T) *client.Client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s, err := store.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	srv := httptest.NewServer(routes.NewRouter(routes.Options{Store: s}))
	t.Cleanup(srv.Close)

	return client.New(srv.URL+"/api/v1/", client.WithHTTPClient(srv.Client()))
}

func ptr[T any](v T) *T { return &v }

func TestClientRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	created, err := c.CreateTask(ctx, models.CreateTaskRequest{Description: ptr("Buy milk")})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", created.Description)
	assert.False(t, created.Completed)

	got, err := c.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	updated, err := c.UpdateTask(ctx, created.ID, models.UpdateTaskRequest{Completed: ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Completed)

	tasks, err := c.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed)

	require.NoError(t, c.DeleteTask(ctx, created.ID))

	_, err = c.GetTask(ctx, created.ID)
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "No task with id: "+created.ID, apiErr.Msg)
}

func TestClientValidationError(t *testing.T) {
	c := newTestClient(t)

	_, err := c.CreateTask(context.Background(), models.CreateTaskRequest{Description: ptr("")})
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Task description is required", apiErr.Msg)
	assert.Contains(t, apiErr.Error(), "400")
}

func TestClientNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := client.New(srv.URL).ListTasks(context.Background())
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Empty(t, apiErr.Msg)
}
