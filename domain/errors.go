package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("Given Param is not valid")

	// ErrInvalidReference will throw if a counter reference can not be dereferenced
	ErrInvalidReference = errors.New("invalid counter reference")

	// harness errors
	ErrSpawnFailed  = errors.New("worker spawn failed")
	ErrWorkerFailed = errors.New("worker failed")
)
