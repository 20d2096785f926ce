package service

import (
	"net/http"

	commonerrors "github.com/example/todolist/backend/internal/common/errors"
)

// Wire messages match the original API verbatim; compatibility over
// grammar.
var (
	ErrAllFieldsRequired = commonerrors.NewDomainError(
		"VALIDATION_FAILED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"All field are required",
	)

	ErrEmailTaken = commonerrors.ErrEmailAlreadyExists

	// ErrInvalidCredentials covers both unknown email and wrong password
	// so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryUnauthorized,
		http.StatusBadRequest,
		"Email or password are incorrect",
	)

	ErrMissingRefreshToken = commonerrors.NewDomainError(
		"MISSING_REFRESH_TOKEN",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"Unauthorized",
	)

	// ErrInvalidSession: refresh token unknown to the store, failing
	// verification, or claiming a different owner. One error for all
	// three, same as the wire has always behaved.
	ErrInvalidSession = commonerrors.NewDomainError(
		"INVALID_SESSION",
		commonerrors.CategoryForbidden,
		http.StatusForbidden,
		"Forbidden",
	)
)
