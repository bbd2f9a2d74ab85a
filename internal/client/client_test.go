package client_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"studyplanner/internal/client"
	"studyplanner/internal/health"
	"studyplanner/internal/tasks"
)

func newTestAPI(t *testing.T) (*client.Client, *tasks.MemoryRepo) {
	t.Helper()
	repo := tasks.NewMemoryRepo()
	r := chi.NewRouter()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	r.Get("/health", health.Handler(repo))
	tasks.RegisterRoutes(r, repo, logger)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return client.New(srv.URL), repo
}

func strPtr(s string) *string { return &s }

func mustDate(t *testing.T, s string) *tasks.Date {
	t.Helper()
	d, err := tasks.ParseDate(s)
	require.NoError(t, err)
	return &d
}

func TestClient_CreateListRoundTrip(t *testing.T) {
	c, _ := newTestAPI(t)
	ctx := context.Background()

	created, err := c.Create(ctx, client.CreateRequest{
		Title:   "Read Ch.3",
		Notes:   strPtr("pages 40-60"),
		DueDate: mustDate(t, "2024-05-01"),
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.False(t, created.Completed)
	require.NotNil(t, created.DueDate)
	require.Equal(t, "2024-05-01", created.DueDate.String())

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, created.ID, list[0].ID)
	require.NotNil(t, list[0].Notes)
	require.Equal(t, "pages 40-60", *list[0].Notes)
}

func TestClient_ReplaceSendsFullTask(t *testing.T) {
	c, _ := newTestAPI(t)
	ctx := context.Background()

	created, err := c.Create(ctx, client.CreateRequest{Title: "toggle me"})
	require.NoError(t, err)

	created.Completed = true
	updated, err := c.Replace(ctx, created)
	require.NoError(t, err)
	require.True(t, updated.Completed)
	require.Equal(t, created.ID, updated.ID)
}

func TestClient_ReplaceUnknownIDIsAPIError(t *testing.T) {
	c, _ := newTestAPI(t)

	_, err := c.Replace(context.Background(), tasks.Task{ID: 404, Title: "ghost"})
	require.Error(t, err)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 404, apiErr.Status)
	require.Equal(t, "task not found", apiErr.Message)
}

func TestClient_Delete(t *testing.T) {
	c, _ := newTestAPI(t)
	ctx := context.Background()

	created, err := c.Create(ctx, client.CreateRequest{Title: "bye"})
	require.NoError(t, err)

	require.NoError(t, c.Delete(ctx, created.ID))

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)

	// Absent ids still delete cleanly.
	require.NoError(t, c.Delete(ctx, created.ID))
}

func TestClient_Health(t *testing.T) {
	c, _ := newTestAPI(t)

	status, err := c.Health(context.Background())
	require.NoError(t, err)
	require.Equal(t, "healthy", status.Status)
	require.Equal(t, "connected", status.Database)
	require.NotEmpty(t, status.Timestamp)
}
