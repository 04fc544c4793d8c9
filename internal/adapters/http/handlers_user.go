package http

import (
	"net/http"

	"github.com/civicgrid/voting-service/internal/application"
)

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req application.SignupRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "signup", err)
		return
	}

	res, err := h.service.Signup(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "signup", err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req application.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "login", err)
		return
	}

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "login", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) googleLogin(w http.ResponseWriter, r *http.Request) {
	var req application.GoogleLoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "google_login", err)
		return
	}

	res, err := h.service.GoogleLogin(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "google_login", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeMissingPrincipalError(r.Context(), w, "profile")
		return
	}

	res, err := h.service.Profile(r.Context(), principal)
	if err != nil {
		writeMappedError(r.Context(), w, "profile", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeMissingPrincipalError(r.Context(), w, "change_password")
		return
	}

	var req application.ChangePasswordRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "change_password", err)
		return
	}

	if err := h.service.ChangePassword(r.Context(), principal, req); err != nil {
		writeMappedError(r.Context(), w, "change_password", err)
		return
	}
	writeMessage(w, http.StatusOK, "password updated")
}

func (h *Handler) listVoters(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeMissingPrincipalError(r.Context(), w, "list_voters")
		return
	}

	res, err := h.service.ListVoters(r.Context(), principal)
	if err != nil {
		writeMappedError(r.Context(), w, "list_voters", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) resetAndClear(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeMissingPrincipalError(r.Context(), w, "reset_and_clear")
		return
	}

	if err := h.service.ResetAndClear(r.Context(), principal); err != nil {
		writeMappedError(r.Context(), w, "reset_and_clear", err)
		return
	}
	writeMessage(w, http.StatusOK, "voter flags reset and candidates cleared")
}
