package app

import "errors"

var (
	// ErrTextTooShort rejects recommendation requests before any external
	// call is made.
	ErrTextTooShort = errors.New("please write a longer text (at least 50 characters)")

	ErrEmailAndPasswordRequired = errors.New("email and password required")

	// ErrInvalidCredentials is returned for both unknown emails and wrong
	// passwords so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMissingToken is returned when no bearer token accompanies a
	// request that requires one.
	ErrMissingToken = errors.New("missing token")
)
