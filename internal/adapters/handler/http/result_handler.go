package http

import (
	"net/http"

	"github.com/vncsmyrnk/mvpvote/internal/core/ports"
)

type ResultHandler struct {
	service ports.ResultService
}

func NewResultHandler(service ports.ResultService) *ResultHandler {
	return &ResultHandler{
		service: service,
	}
}

func (h *ResultHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.Leaderboard(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}
