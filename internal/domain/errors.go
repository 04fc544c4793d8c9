package domain

import "errors"

var (
	// ErrUnauthenticated is returned when no bearer credential was presented
	// at all. Kept distinct from ErrInvalidCredential so callers can tell
	// "no credential" from "bad credential" even when the wire response is
	// uniform.
	ErrUnauthenticated = errors.New("no credential presented")
	// ErrInvalidCredential covers a presented credential that fails every
	// verification path. The message hides which path failed to prevent
	// account-enumeration side channels.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrForbidden signals an authenticated principal with the wrong role.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrConflict covers duplicate unique fields at signup and the
	// second-admin rejection.
	ErrConflict = errors.New("conflict")
	// ErrAlreadyVoted is the idempotent rejection of a second vote within a
	// reset epoch; it never leaves partial state behind.
	ErrAlreadyVoted = errors.New("vote already cast")
	// ErrAccountLocked signals temporary lockout after repeated failed
	// login attempts.
	ErrAccountLocked = errors.New("account locked")
	ErrInvalidInput  = errors.New("invalid input")
)
