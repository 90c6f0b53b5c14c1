package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vncsmyrnk/mvpvote/internal/core/domain"
	"github.com/vncsmyrnk/mvpvote/internal/core/ports"
)

type MemberHandler struct {
	service ports.MemberService
}

func NewMemberHandler(service ports.MemberService) *MemberHandler {
	return &MemberHandler{
		service: service,
	}
}

type memberRequest struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Photo *string `json:"photo"`
}

type importResponse struct {
	Success  bool            `json:"success"`
	Imported int             `json:"imported"`
	Members  []domain.Member `json:"members"`
}

func (h *MemberHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *MemberHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	member, err := h.service.Add(r.Context(), domain.Member{ID: req.ID, Name: req.Name, Photo: req.Photo})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, successResponse{Success: true, ID: member.ID})
}

func (h *MemberHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input := ports.UpdateMemberInput{Name: req.Name, Photo: req.Photo}
	if _, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), input); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *MemberHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// ImportMembers accepts the CSV either as the raw body or as the "file" field
// of a multipart form.
func (h *MemberHandler) ImportMembers(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var body io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing csv file")
			return
		}
		defer file.Close()
		body = file
	}

	members, err := h.service.Import(r.Context(), body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, importResponse{Success: true, Imported: len(members), Members: members})
}
