package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Pinger is the slice of the store the probe needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Avoid hanging health checks if the database stalls.
const pingTimeout = 2 * time.Second

type response struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Error     string `json:"error,omitempty"`
}

// Handler answers 200 when the store responds to a trivial liveness query
// and 503 when it does not.
func Handler(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		now := time.Now().UTC().Format(time.RFC3339)

		if err := store.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(response{
				Status:    "unhealthy",
				Timestamp: now,
				Database:  "disconnected",
				Error:     err.Error(),
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response{
			Status:    "healthy",
			Timestamp: now,
			Database:  "connected",
		})
	}
}
