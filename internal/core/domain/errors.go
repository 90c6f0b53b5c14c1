package domain

import "errors"

var (
	ErrInvalidBallot      = errors.New("invalid ballot")
	ErrInvalidDrawRequest = errors.New("invalid draw request")
	ErrInvalidDrawLog     = errors.New("invalid lucky draw log")
	ErrInvalidMember      = errors.New("invalid member")
	ErrMemberNotFound     = errors.New("member not found")
	ErrMemberExists       = errors.New("member already exists")
	ErrStorageUnavailable = errors.New("storage unavailable")

	ErrPasswordRequired = errors.New("password is required")
	ErrPasswordTooShort = errors.New("password must be at least 4 characters")
	ErrWrongPassword    = errors.New("current password is incorrect")
	ErrUnauthorized     = errors.New("admin authorization required")
)
