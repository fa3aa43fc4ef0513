package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// VideoStatus represents the processing state of a video generation job.
type VideoStatus string

// Possible video status values
const (
	VideoStatusQueued     VideoStatus = "queued"
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusCompleted  VideoStatus = "completed"
	VideoStatusFailed     VideoStatus = "failed"
)

// VoicePreset identifies the synthetic voice used for narration.
type VoicePreset string

// Supported voice presets
const (
	VoiceAfHeart  VoicePreset = "af_heart"
	VoiceAfBella  VoicePreset = "af_bella"
	VoiceAfNicole VoicePreset = "af_nicole"
)

// SubtitlePosition controls where subtitles are rendered in the frame.
type SubtitlePosition string

// Supported subtitle positions
const (
	SubtitleTop    SubtitlePosition = "top"
	SubtitleCenter SubtitlePosition = "center"
	SubtitleBottom SubtitlePosition = "bottom"
)

// Subtitle style IDs accepted by the renderer.
const (
	MinSubtitleStyleID = 1
	MaxSubtitleStyleID = 10
)

// Text length bounds for a generation request.
const (
	MinVideoTextLength = 10
	MaxVideoTextLength = 500
)

// Common validation errors for Video
var (
	ErrEmptyVideoID         = errors.New("video ID cannot be empty")
	ErrEmptyVideoOwnerID    = errors.New("video owner ID cannot be empty")
	ErrVideoTextLength      = errors.New("video text must be between 10 and 500 characters")
	ErrInvalidVoicePreset   = errors.New("invalid voice preset")
	ErrInvalidSubtitleStyle = errors.New("subtitle style ID must be between 1 and 10")
	ErrInvalidSubtitlePos   = errors.New("invalid subtitle position")
	ErrInvalidVideoStatus   = errors.New("invalid video status")
	ErrResultOnNonTerminal  = errors.New("result URLs may only be set on terminal statuses")
)

// VideoParams holds the generation parameters submitted by a user.
// The API layer validates them before a Video is created; the lifecycle
// service copies them verbatim into the enqueued work item.
type VideoParams struct {
	Text             string           `json:"text"`
	Voice            VoicePreset      `json:"voice"`
	SubtitleStyleID  int              `json:"subtitle_style_id"`
	SubtitlePosition SubtitlePosition `json:"subtitle_position"`
}

// Validate checks the generation parameters.
func (p VideoParams) Validate() error {
	if len(p.Text) < MinVideoTextLength || len(p.Text) > MaxVideoTextLength {
		return ErrVideoTextLength
	}
	if !isValidVoicePreset(p.Voice) {
		return ErrInvalidVoicePreset
	}
	if p.SubtitleStyleID < MinSubtitleStyleID || p.SubtitleStyleID > MaxSubtitleStyleID {
		return ErrInvalidSubtitleStyle
	}
	if !isValidSubtitlePosition(p.SubtitlePosition) {
		return ErrInvalidSubtitlePos
	}
	return nil
}

// Video represents a single text-to-video generation job and its tracked
// outcome. The owner and parameters are immutable after creation; status
// and result URLs are mutated only through worker callbacks applied by
// the lifecycle service.
type Video struct {
	ID               uuid.UUID        `json:"id"`
	OwnerID          uuid.UUID        `json:"owner_id"`
	Text             string           `json:"text"`
	Voice            VoicePreset      `json:"voice"`
	SubtitleStyleID  int              `json:"subtitle_style_id"`
	SubtitlePosition SubtitlePosition `json:"subtitle_position"`
	Status           VideoStatus      `json:"status"`
	VideoURL         string           `json:"video_url,omitempty"`
	ThumbnailURL     string           `json:"thumbnail_url,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// NewVideo creates a new Video owned by the given user with the given
// generation parameters. It generates a new UUID for the video ID, sets
// the status to queued, and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewVideo(ownerID uuid.UUID, params VideoParams) (*Video, error) {
	video := &Video{
		ID:               uuid.New(),
		OwnerID:          ownerID,
		Text:             params.Text,
		Voice:            params.Voice,
		SubtitleStyleID:  params.SubtitleStyleID,
		SubtitlePosition: params.SubtitlePosition,
		Status:           VideoStatusQueued,
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}

	if err := video.Validate(); err != nil {
		return nil, err
	}

	return video, nil
}

// Validate checks if the Video has valid data.
// Returns an error if any field fails validation.
func (v *Video) Validate() error {
	if v.ID == uuid.Nil {
		return ErrEmptyVideoID
	}

	if v.OwnerID == uuid.Nil {
		return ErrEmptyVideoOwnerID
	}

	if err := v.Params().Validate(); err != nil {
		return err
	}

	if !IsValidVideoStatus(v.Status) {
		return ErrInvalidVideoStatus
	}

	// Result URLs are only representable on terminal statuses. A failed
	// video may carry partial artifacts produced before the failure.
	if (v.VideoURL != "" || v.ThumbnailURL != "") && !v.Status.IsTerminal() {
		return ErrResultOnNonTerminal
	}

	return nil
}

// Params returns the immutable generation parameters of the video.
func (v *Video) Params() VideoParams {
	return VideoParams{
		Text:             v.Text,
		Voice:            v.Voice,
		SubtitleStyleID:  v.SubtitleStyleID,
		SubtitlePosition: v.SubtitlePosition,
	}
}

// IsTerminal reports whether the status admits no further transitions.
func (s VideoStatus) IsTerminal() bool {
	return s == VideoStatusCompleted || s == VideoStatusFailed
}

// CanTransitionTo reports whether the state machine permits moving from
// s to next. Queued may move to any of the three later states (a worker
// may skip reporting the intermediate processing step); processing may
// only complete or fail; terminal states admit nothing.
func (s VideoStatus) CanTransitionTo(next VideoStatus) bool {
	switch s {
	case VideoStatusQueued:
		return next == VideoStatusProcessing ||
			next == VideoStatusCompleted ||
			next == VideoStatusFailed
	case VideoStatusProcessing:
		return next == VideoStatusCompleted || next == VideoStatusFailed
	default:
		return false
	}
}

// IsValidVideoStatus checks if the given status is a valid VideoStatus.
func IsValidVideoStatus(status VideoStatus) bool {
	switch status {
	case VideoStatusQueued, VideoStatusProcessing, VideoStatusCompleted, VideoStatusFailed:
		return true
	default:
		return false
	}
}

func isValidVoicePreset(voice VoicePreset) bool {
	switch voice {
	case VoiceAfHeart, VoiceAfBella, VoiceAfNicole:
		return true
	default:
		return false
	}
}

func isValidSubtitlePosition(pos SubtitlePosition) bool {
	switch pos {
	case SubtitleTop, SubtitleCenter, SubtitleBottom:
		return true
	default:
		return false
	}
}
