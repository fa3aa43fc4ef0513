// Package domain defines the core business entities of the application:
// users and the video generation jobs they own. Entities validate their
// own data; the video status state machine lives here so that illegal
// states can only be reached through the transition rules.
package domain
