package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/civicgrid/voting-service/internal/application"
	"github.com/civicgrid/voting-service/internal/domain"
)

func candidateIDFromPath(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "candidate_id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (h *Handler) createCandidate(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeMissingPrincipalError(r.Context(), w, "create_candidate")
		return
	}

	var req application.CandidateRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "create_candidate", err)
		return
	}

	res, err := h.service.CreateCandidate(r.Context(), principal, req)
	if err != nil {
		writeMappedError(r.Context(), w, "create_candidate", err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}

func (h *Handler) updateCandidate(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeMissingPrincipalError(r.Context(), w, "update_candidate")
		return
	}

	candidateID, err := candidateIDFromPath(r)
	if err != nil {
		writeValidationError(r.Context(), w, "update_candidate", err)
		return
	}

	var req application.CandidateRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "update_candidate", err)
		return
	}

	res, err := h.service.UpdateCandidate(r.Context(), principal, candidateID, req)
	if err != nil {
		writeMappedError(r.Context(), w, "update_candidate", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) deleteCandidate(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeMissingPrincipalError(r.Context(), w, "delete_candidate")
		return
	}

	candidateID, err := candidateIDFromPath(r)
	if err != nil {
		writeValidationError(r.Context(), w, "delete_candidate", err)
		return
	}

	if err := h.service.DeleteCandidate(r.Context(), principal, candidateID); err != nil {
		writeMappedError(r.Context(), w, "delete_candidate", err)
		return
	}
	writeMessage(w, http.StatusOK, "candidate deleted")
}

func (h *Handler) getCandidate(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeMissingPrincipalError(r.Context(), w, "get_candidate")
		return
	}

	candidateID, err := candidateIDFromPath(r)
	if err != nil {
		writeMappedError(r.Context(), w, "get_candidate", domain.ErrNotFound)
		return
	}

	res, err := h.service.GetCandidate(r.Context(), principal, candidateID)
	if err != nil {
		writeMappedError(r.Context(), w, "get_candidate", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) listCandidates(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.ListCandidates(r.Context())
	if err != nil {
		writeMappedError(r.Context(), w, "list_candidates", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) tally(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Tally(r.Context())
	if err != nil {
		writeMappedError(r.Context(), w, "tally", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) castVote(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeMissingPrincipalError(r.Context(), w, "cast_vote")
		return
	}

	candidateID, err := candidateIDFromPath(r)
	if err != nil {
		// An unparseable id can never match a candidate; report it the same
		// way as a missing one.
		writeMappedError(r.Context(), w, "cast_vote", domain.ErrNotFound)
		return
	}

	res, err := h.service.CastVote(r.Context(), principal, candidateID)
	if err != nil {
		writeMappedError(r.Context(), w, "cast_vote", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) resetVotes(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeMissingPrincipalError(r.Context(), w, "reset_votes")
		return
	}

	if err := h.service.ResetVotes(r.Context(), principal); err != nil {
		writeMappedError(r.Context(), w, "reset_votes", err)
		return
	}
	writeMessage(w, http.StatusOK, "vote counts reset")
}
