// internal/handler/message_log_handler.go
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jciconnect/comms-service/internal/repository"
)

// MessageLogHandler serves the read-only message log listing. Logs are
// append-only; there is no mutation endpoint.
type MessageLogHandler struct {
	Repo repository.MessageLogRepositoryInterface
}

// List returns a paginated view of dispatch attempts.
// GET /api/logs?page=&page_size=&type=&status=
func (h *MessageLogHandler) List(w http.ResponseWriter, r *http.Request) {
	page := 1
	pageSize := 20

	if raw := r.URL.Query().Get("page"); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil && p > 0 {
			page = p
		}
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if ps, err := strconv.Atoi(raw); err == nil && ps > 0 {
			pageSize = ps
		}
	}
	if pageSize > 100 {
		pageSize = 100
	}

	channel := r.URL.Query().Get("type")
	status := r.URL.Query().Get("status")

	logs, total, err := h.Repo.List((page-1)*pageSize, pageSize, channel, status)
	if err != nil {
		http.Error(w, "failed to fetch message logs: "+err.Error(), http.StatusInternalServerError)
		return
	}

	totalPages := (total + pageSize - 1) / pageSize
	response := map[string]interface{}{
		"data": logs,
		"pagination": map[string]int{
			"page":        page,
			"page_size":   pageSize,
			"total_count": total,
			"total_pages": totalPages,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
