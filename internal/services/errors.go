// Package services defines the business logic for advisor sessions: the
// intake state machine, the completion-backed advice turns, feedback and
// the optional account area. This file centralizes common service-level
// error values so that they can be consistently returned by service methods
// and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import "errors"

// Session-related errors.
var (
	// ErrSessionNotFound indicates that the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrEmptyMessage is returned when a submitted message is blank.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrTooLong is returned when a submitted message exceeds the configured
	// maximum length.
	ErrTooLong = errors.New("message too long")

	// ErrUnknownMode is returned when an expert mode name is not one of the
	// fixed set.
	ErrUnknownMode = errors.New("unknown expert mode")
)

// Feedback errors.
var (
	// ErrFeedbackNotDue is returned when feedback is submitted before intake
	// is complete or before enough post-intake messages were sent.
	ErrFeedbackNotDue = errors.New("feedback is not due yet")

	// ErrDuplicateFeedback is returned when the session already submitted
	// feedback since the last reset.
	ErrDuplicateFeedback = errors.New("feedback already submitted")
)

// Account errors.
var (
	// ErrEmptyIdentifier is returned when sign-up or login is attempted with
	// a blank identifier or secret.
	ErrEmptyIdentifier = errors.New("identifier and secret are required")

	// ErrUserExists is returned by sign-up when the identifier is taken.
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidCredentials is returned by login on any mismatch. It never
	// says which half was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
