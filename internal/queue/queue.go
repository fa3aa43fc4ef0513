// Package queue hands video generation work to the external worker
// fleet. Delivery is at-least-once; the worker callback path is
// idempotent, so the queue side does not deduplicate.
package queue

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/reelgen/reelgen-api/internal/domain"
)

// JobNameGenerateVideo is the job name workers dispatch on.
const JobNameGenerateVideo = "generate_video"

// ErrQueueUnavailable is returned when a work item could not be handed
// to the queue. Job creation must fail in that case so that no queued
// job exists without corresponding queued work.
var ErrQueueUnavailable = errors.New("work queue unavailable")

// GenerationSpec is the work item delivered to a worker. It carries the
// video ID plus the generation parameters copied verbatim from the job.
type GenerationSpec struct {
	JobName          string                  `json:"job_name"`
	VideoID          uuid.UUID               `json:"video_id"`
	Text             string                  `json:"text"`
	Voice            domain.VoicePreset      `json:"voice"`
	SubtitleStyleID  int                     `json:"subtitle_style_id"`
	SubtitlePosition domain.SubtitlePosition `json:"subtitle_position"`
}

// NewGenerationSpec builds the work item for a video.
func NewGenerationSpec(video *domain.Video) GenerationSpec {
	return GenerationSpec{
		JobName:          JobNameGenerateVideo,
		VideoID:          video.ID,
		Text:             video.Text,
		Voice:            video.Voice,
		SubtitleStyleID:  video.SubtitleStyleID,
		SubtitlePosition: video.SubtitlePosition,
	}
}

// Enqueuer hands generation specs to the worker fleet. Enqueue must be
// confirmed synchronously: when it returns nil the work item has been
// accepted by the queue backend.
type Enqueuer interface {
	// Enqueue submits a generation spec for processing.
	// Returns an error wrapping ErrQueueUnavailable if the queue
	// backend did not accept the item.
	Enqueue(ctx context.Context, spec GenerationSpec) error
}
