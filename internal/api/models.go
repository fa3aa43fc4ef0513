package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/reelgen/reelgen-api/internal/domain"
	"github.com/reelgen/reelgen-api/internal/store"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=3,max=30"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// Token is the JWT access token used for API authorization
	Token string `json:"token"`
}

// UserResponse defines the public representation of a user profile.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse builds a UserResponse from a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
	}
}

// UpdateProfileRequest defines the payload for profile updates.
// Omitted fields are left unchanged.
type UpdateProfileRequest struct {
	Username  string `json:"username,omitempty"   validate:"omitempty,min=3,max=30"`
	AvatarURL string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// ChangePasswordRequest defines the payload for the password change endpoint.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=3,max=30"`
}

// DeleteAccountRequest defines the payload for the account deletion endpoint.
type DeleteAccountRequest struct {
	Password string `json:"password" validate:"required"`
}

// CreateVideoRequest defines the payload for the video generation endpoint.
type CreateVideoRequest struct {
	Text             string `json:"text"              validate:"required,min=10,max=500"`
	Voice            string `json:"voice"             validate:"required,oneof=af_heart af_bella af_nicole"`
	SubtitleStyleID  int    `json:"subtitle_style_id" validate:"required,gte=1,lte=10"`
	SubtitlePosition string `json:"subtitle_position" validate:"required,oneof=top center bottom"`
}

// Params converts the request into domain generation parameters.
func (r CreateVideoRequest) Params() domain.VideoParams {
	return domain.VideoParams{
		Text:             r.Text,
		Voice:            domain.VoicePreset(r.Voice),
		SubtitleStyleID:  r.SubtitleStyleID,
		SubtitlePosition: domain.SubtitlePosition(r.SubtitlePosition),
	}
}

// UpdateVideoStatusRequest defines the payload render workers send on
// status callbacks. The URL fields are optional; omitted fields never
// clear previously stored values.
type UpdateVideoStatusRequest struct {
	Status       string `json:"status"                  validate:"required,oneof=queued processing completed failed"`
	VideoURL     string `json:"video_url,omitempty"     validate:"omitempty,url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty" validate:"omitempty,url"`
}

// VideoResponse defines the public representation of a video job.
type VideoResponse struct {
	ID               uuid.UUID `json:"id"`
	AuthorUsername   string    `json:"author_username,omitempty"`
	Text             string    `json:"text"`
	Voice            string    `json:"voice"`
	SubtitleStyleID  int       `json:"subtitle_style_id"`
	SubtitlePosition string    `json:"subtitle_position"`
	Status           string    `json:"status"`
	VideoURL         string    `json:"video_url,omitempty"`
	ThumbnailURL     string    `json:"thumbnail_url,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewVideoResponse builds a VideoResponse from a domain video.
func NewVideoResponse(video *domain.Video) VideoResponse {
	return VideoResponse{
		ID:               video.ID,
		Text:             video.Text,
		Voice:            string(video.Voice),
		SubtitleStyleID:  video.SubtitleStyleID,
		SubtitlePosition: string(video.SubtitlePosition),
		Status:           string(video.Status),
		VideoURL:         video.VideoURL,
		ThumbnailURL:     video.ThumbnailURL,
		CreatedAt:        video.CreatedAt,
		UpdatedAt:        video.UpdatedAt,
	}
}

// NewVideoWithAuthorResponse builds a VideoResponse carrying the author's
// username.
func NewVideoWithAuthorResponse(item *store.VideoWithAuthor) VideoResponse {
	resp := NewVideoResponse(&item.Video)
	resp.AuthorUsername = item.AuthorUsername
	return resp
}

// NewVideoListResponse builds the response for listing endpoints.
func NewVideoListResponse(items []*store.VideoWithAuthor) []VideoResponse {
	out := make([]VideoResponse, 0, len(items))
	for _, item := range items {
		out = append(out, NewVideoWithAuthorResponse(item))
	}
	return out
}
