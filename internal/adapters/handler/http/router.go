package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewHandler(
	memberHandler *MemberHandler,
	voteHandler *VoteHandler,
	resultHandler *ResultHandler,
	luckyDrawHandler *LuckyDrawHandler,
	adminHandler *AdminHandler,
	healthHandler *HealthHandler,
	allowedOrigins []string,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS(allowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("welcome"))
		})
		r.Get("/health", healthHandler.Check)

		r.Route("/members", func(r chi.Router) {
			r.Get("/", memberHandler.ListMembers)

			r.Group(func(r chi.Router) {
				r.Use(adminHandler.RequireAdmin)
				r.Post("/", memberHandler.CreateMember)
				r.Post("/import", memberHandler.ImportMembers)
				r.Put("/{id}", memberHandler.UpdateMember)
				r.Delete("/{id}", memberHandler.DeleteMember)
			})
		})

		r.Route("/votes", func(r chi.Router) {
			r.Post("/", voteHandler.SubmitVote)
			r.Post("/draft", voteHandler.DraftScores)
			r.Get("/count", voteHandler.CountVotes)

			r.Group(func(r chi.Router) {
				r.Use(adminHandler.RequireAdmin)
				r.Get("/", voteHandler.ListVotes)
				r.Delete("/", voteHandler.ResetVotes)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(adminHandler.RequireAdmin)
			r.Get("/results", resultHandler.GetResults)
			r.Get("/vote-logs", voteHandler.ListLogs)
			r.Get("/vote-logs/{voteId}", voteHandler.LogsByVote)
		})

		r.Post("/lucky-draw", luckyDrawHandler.Draw)
		r.Route("/lucky-draw-logs", func(r chi.Router) {
			r.Get("/", luckyDrawHandler.ListLogs)
			r.Post("/", luckyDrawHandler.RecordLog)
		})

		r.Route("/admin-password", func(r chi.Router) {
			r.Get("/", adminHandler.Status)
			r.Post("/", adminHandler.SetPassword)
			r.Put("/", adminHandler.SetPassword)
			r.Post("/verify", adminHandler.Verify)
		})
	})

	return r
}
