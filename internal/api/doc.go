// Package api contains the HTTP handlers for the application: user
// registration and login, profile management, video generation requests,
// listings, and the status callback endpoint used by render workers.
//
// Handlers decode and validate requests, delegate to the service layer,
// and translate service errors into sanitized HTTP responses.
package api
