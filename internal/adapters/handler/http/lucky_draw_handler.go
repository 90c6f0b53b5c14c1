package http

import (
	"net/http"

	"github.com/vncsmyrnk/mvpvote/internal/core/domain"
	"github.com/vncsmyrnk/mvpvote/internal/core/ports"
)

type LuckyDrawHandler struct {
	service ports.LuckyDrawService
}

func NewLuckyDrawHandler(service ports.LuckyDrawService) *LuckyDrawHandler {
	return &LuckyDrawHandler{
		service: service,
	}
}

type drawRequest struct {
	Count int `json:"count"`
}

func (h *LuckyDrawHandler) Draw(w http.ResponseWriter, r *http.Request) {
	var req drawRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := h.service.Draw(r.Context(), req.Count)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *LuckyDrawHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.service.History(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (h *LuckyDrawHandler) RecordLog(w http.ResponseWriter, r *http.Request) {
	var req domain.DrawLog
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := h.service.Record(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, successResponse{Success: true, ID: entry.DrawID})
}
