// Package service contains the application's business logic: the video
// job lifecycle manager and user profile operations. Services depend on
// the store interfaces and are the only code allowed to mutate job state.
package service

import "errors"

// Sentinel errors returned by the service layer. The API layer maps
// these to HTTP status codes.
var (
	// ErrVideoNotFound is returned when a video does not exist, or when
	// the requester is not its owner. Ownership mismatches deliberately
	// report not-found so the existence of other users' videos is never
	// leaked.
	ErrVideoNotFound = errors.New("video not found")

	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrWorkerUnauthorized is returned when a worker callback presents
	// a credential that does not match the configured shared secret.
	// It is reported uniformly whether or not the referenced video exists.
	ErrWorkerUnauthorized = errors.New("worker credential rejected")

	// ErrInvalidTransition is returned when a worker callback requests a
	// status change the state machine forbids. The stored video is left
	// unchanged.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrQueueUnavailable is returned when a video could not be handed
	// to the work queue at creation time. The video is marked failed so
	// no queued job exists without queued work; the caller may retry.
	ErrQueueUnavailable = errors.New("work queue unavailable")

	// ErrUsernameTaken is returned when a profile update requests a
	// username that is already in use.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrIncorrectPassword is returned when a password check fails
	// during password change or account deletion.
	ErrIncorrectPassword = errors.New("incorrect password")
)
