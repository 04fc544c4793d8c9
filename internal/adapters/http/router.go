package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter registers the voting HTTP routes and middleware stack.
// Centralizing routes here ensures consistent auth and error behavior
// across endpoints.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Route("/user", func(r chi.Router) {
		r.Post("/signup", handler.signup)
		r.Post("/login", handler.login)
		r.Post("/google-login", handler.googleLogin)

		r.Group(func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Get("/profile", handler.profile)
			r.Put("/profile/password", handler.changePassword)
			r.Get("/users/voters", handler.listVoters)
			r.Post("/admin/reset", handler.resetAndClear)
		})
	})

	r.Route("/candidate", func(r chi.Router) {
		r.Get("/", handler.listCandidates)
		r.Get("/vote/count", handler.tally)

		r.Group(func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Post("/", handler.createCandidate)
			r.Get("/{candidate_id}", handler.getCandidate)
			r.Put("/{candidate_id}", handler.updateCandidate)
			r.Delete("/{candidate_id}", handler.deleteCandidate)
			r.Get("/vote/{candidate_id}", handler.castVote)
			r.Post("/reset", handler.resetVotes)
		})
	})

	return r
}
