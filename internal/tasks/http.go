package tasks

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// taskPayload is the request body shared by create and replace. Clients
// send the full task shape back on updates; the fields they cannot set are
// simply ignored here.
type taskPayload struct {
	Title     string  `json:"title"`
	Notes     *string `json:"notes"`
	DueDate   *Date   `json:"due_date"`
	Completed bool    `json:"completed"`
}

// input null-coalesces optional fields the way the store expects: empty
// notes and zero dates become NULL.
func (p taskPayload) input() TaskInput {
	in := TaskInput{Title: p.Title, Notes: p.Notes, DueDate: p.DueDate}
	if in.Notes != nil && *in.Notes == "" {
		in.Notes = nil
	}
	if in.DueDate != nil && in.DueDate.IsZero() {
		in.DueDate = nil
	}
	return in
}

type errResponse struct {
	Error string `json:"error"`
}

func RegisterRoutes(r chi.Router, repo Repository, logger *slog.Logger) {
	r.Get("/tasks", listTasks(repo, logger))
	r.Post("/tasks", createTask(repo, logger))
	r.Put("/tasks/{id}", replaceTask(repo, logger))
	r.Delete("/tasks/{id}", deleteTask(repo, logger))
}

func listTasks(repo Repository, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		list, err := repo.List(r.Context())
		if err != nil {
			storeError(w, logger, "task_list_failed", err)
			return
		}
		if list == nil {
			list = []Task{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func createTask(repo Repository, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var req taskPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errResponse{Error: "invalid JSON"})
			return
		}

		// No further validation here; the store's own constraints decide
		// what an acceptable row is.
		t, err := repo.Create(r.Context(), req.input())
		if err != nil {
			storeError(w, logger, "task_create_failed", err)
			return
		}
		writeJSON(w, http.StatusCreated, t)
	}
}

func replaceTask(repo Repository, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		id, ok := taskID(w, r)
		if !ok {
			return
		}

		var req taskPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errResponse{Error: "invalid JSON"})
			return
		}

		t, err := repo.Replace(r.Context(), id, req.input(), req.Completed)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				writeJSON(w, http.StatusNotFound, errResponse{Error: "task not found"})
				return
			}
			storeError(w, logger, "task_replace_failed", err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func deleteTask(repo Repository, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := taskID(w, r)
		if !ok {
			return
		}

		if err := repo.Delete(r.Context(), id); err != nil {
			w.Header().Set("Content-Type", "application/json")
			storeError(w, logger, "task_delete_failed", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		writeJSON(w, http.StatusBadRequest, errResponse{Error: "invalid task id"})
		return 0, false
	}
	return id, true
}

// storeError collapses every store failure into the one generic shape the
// API exposes; the detail goes to the log only.
func storeError(w http.ResponseWriter, logger *slog.Logger, event string, err error) {
	logger.Error(event, slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, errResponse{Error: "Database error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
