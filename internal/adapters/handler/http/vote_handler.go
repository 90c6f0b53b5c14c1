package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vncsmyrnk/mvpvote/internal/core/domain"
	"github.com/vncsmyrnk/mvpvote/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

type voteRequest struct {
	VoterName string        `json:"voterName"`
	Scores    domain.Scores `json:"scores"`
}

type voteResponse struct {
	Success   bool      `json:"success"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

type draftRequest struct {
	Scores   domain.Scores `json:"scores"`
	MemberID string        `json:"memberId"`
	Points   int           `json:"points"`
}

type draftResponse struct {
	Scores    domain.Scores `json:"scores"`
	Total     int           `json:"total"`
	Remaining int           `json:"remaining"`
}

type countResponse struct {
	Count int `json:"count"`
}

func (h *VoteHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ballot, err := h.service.Submit(r.Context(), ports.SubmitBallotInput{VoterName: req.VoterName, Scores: req.Scores})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, voteResponse{Success: true, ID: ballot.ID, Timestamp: ballot.Timestamp})
}

// DraftScores applies one score change to an unsubmitted ballot, clamped to
// the remaining budget.
func (h *VoteHandler) DraftScores(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.MemberID == "" {
		writeError(w, http.StatusBadRequest, "memberId is required")
		return
	}

	scores := domain.ApplyScore(req.Scores, req.MemberID, req.Points)
	writeJSON(w, http.StatusOK, draftResponse{
		Scores:    scores,
		Total:     scores.Total(),
		Remaining: domain.PointBudget - scores.Total(),
	})
}

func (h *VoteHandler) ListVotes(w http.ResponseWriter, r *http.Request) {
	ballots, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ballots)
}

func (h *VoteHandler) CountVotes(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Count(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: count})
}

func (h *VoteHandler) ResetVotes(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reset(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *VoteHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	h.writeLogs(w, r, "")
}

func (h *VoteHandler) LogsByVote(w http.ResponseWriter, r *http.Request) {
	h.writeLogs(w, r, chi.URLParam(r, "voteId"))
}

func (h *VoteHandler) writeLogs(w http.ResponseWriter, r *http.Request, voteID string) {
	logs, err := h.service.Logs(r.Context(), voteID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
