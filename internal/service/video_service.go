package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/reelgen/reelgen-api/internal/domain"
	"github.com/reelgen/reelgen-api/internal/queue"
	"github.com/reelgen/reelgen-api/internal/service/auth"
	"github.com/reelgen/reelgen-api/internal/store"
)

// VideoService manages the lifecycle of video generation jobs: creation
// and enqueueing, ownership-checked reads, listings, and the worker
// callback protocol that drives the status state machine.
type VideoService interface {
	// CreateVideo persists a new queued video for the owner and hands a
	// generation spec to the work queue. The enqueue is confirmed before
	// the call returns: on queue failure the video is marked failed and
	// ErrQueueUnavailable is returned, so a client never receives a
	// queued job whose work was never queued.
	CreateVideo(ctx context.Context, ownerID uuid.UUID, params domain.VideoParams) (*domain.Video, error)

	// GetVideo retrieves a video for its owner. Returns ErrVideoNotFound
	// when the video does not exist or belongs to someone else.
	GetVideo(ctx context.Context, videoID, requesterID uuid.UUID) (*store.VideoWithAuthor, error)

	// ListGallery lists completed videos from all users, newest first.
	ListGallery(ctx context.Context, limit, offset int) ([]*store.VideoWithAuthor, error)

	// ListHistory lists the owner's videos, newest first.
	ListHistory(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*store.VideoWithAuthor, error)

	// ApplyWorkerUpdate applies a status transition reported by a worker
	// callback. The worker credential is checked first, unconditionally,
	// before any job state is touched. Repeating an identical terminal
	// transition is accepted as an idempotent no-op because workers
	// retry under at-least-once delivery.
	ApplyWorkerUpdate(
		ctx context.Context,
		videoID uuid.UUID,
		workerToken string,
		update store.StatusUpdate,
	) (*domain.Video, error)
}

// videoServiceImpl implements the VideoService interface
type videoServiceImpl struct {
	videoStore store.VideoStore
	enqueuer   queue.Enqueuer
	workerGate *auth.WorkerGate
	logger     *slog.Logger
}

// NewVideoService creates a new VideoService.
// It returns an error if any of the required dependencies are nil.
func NewVideoService(
	videoStore store.VideoStore,
	enqueuer queue.Enqueuer,
	workerGate *auth.WorkerGate,
	log *slog.Logger,
) (VideoService, error) {
	if videoStore == nil {
		return nil, fmt.Errorf("videoStore cannot be nil")
	}
	if enqueuer == nil {
		return nil, fmt.Errorf("enqueuer cannot be nil")
	}
	if workerGate == nil {
		return nil, fmt.Errorf("workerGate cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &videoServiceImpl{
		videoStore: videoStore,
		enqueuer:   enqueuer,
		workerGate: workerGate,
		logger:     log.With("component", "video_service"),
	}, nil
}

// CreateVideo implements VideoService.CreateVideo
func (s *videoServiceImpl) CreateVideo(
	ctx context.Context,
	ownerID uuid.UUID,
	params domain.VideoParams,
) (*domain.Video, error) {
	video, err := domain.NewVideo(ownerID, params)
	if err != nil {
		s.logger.Warn("failed to create video object",
			"error", err,
			"owner_id", ownerID)
		return nil, err
	}

	if err := s.videoStore.Create(ctx, video); err != nil {
		s.logger.Error("failed to save video",
			"error", err,
			"video_id", video.ID,
			"owner_id", ownerID)
		return nil, fmt.Errorf("failed to save video: %w", err)
	}

	// Exactly one enqueue per video, confirmed before returning. A video
	// whose spec never reached the queue must not stay queued.
	if err := s.enqueuer.Enqueue(ctx, queue.NewGenerationSpec(video)); err != nil {
		s.logger.Error("failed to enqueue generation work, marking video failed",
			"error", err,
			"video_id", video.ID)

		if _, markErr := s.videoStore.UpdateStatusIfCurrent(
			ctx,
			video.ID,
			domain.VideoStatusQueued,
			store.StatusUpdate{Status: domain.VideoStatusFailed},
		); markErr != nil {
			s.logger.Error("failed to mark video failed after enqueue failure",
				"error", markErr,
				"video_id", video.ID)
		}

		return nil, fmt.Errorf("%w: %v", ErrQueueUnavailable, err)
	}

	s.logger.Info("video created and enqueued",
		"video_id", video.ID,
		"owner_id", ownerID)
	return video, nil
}

// GetVideo implements VideoService.GetVideo
func (s *videoServiceImpl) GetVideo(
	ctx context.Context,
	videoID, requesterID uuid.UUID,
) (*store.VideoWithAuthor, error) {
	item, err := s.videoStore.GetByIDWithAuthor(ctx, videoID)
	if err != nil {
		if errors.Is(err, store.ErrVideoNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to retrieve video: %w", err)
	}

	// Owner mismatch reports not-found, not forbidden.
	if item.OwnerID != requesterID {
		s.logger.Debug("video ownership mismatch",
			"video_id", videoID,
			"requester_id", requesterID)
		return nil, ErrVideoNotFound
	}

	return item, nil
}

// ListGallery implements VideoService.ListGallery
func (s *videoServiceImpl) ListGallery(
	ctx context.Context,
	limit, offset int,
) ([]*store.VideoWithAuthor, error) {
	videos, err := s.videoStore.ListByStatus(ctx, domain.VideoStatusCompleted, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list gallery: %w", err)
	}
	return videos, nil
}

// ListHistory implements VideoService.ListHistory
func (s *videoServiceImpl) ListHistory(
	ctx context.Context,
	ownerID uuid.UUID,
	limit, offset int,
) ([]*store.VideoWithAuthor, error) {
	videos, err := s.videoStore.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return videos, nil
}

// ApplyWorkerUpdate implements VideoService.ApplyWorkerUpdate
func (s *videoServiceImpl) ApplyWorkerUpdate(
	ctx context.Context,
	videoID uuid.UUID,
	workerToken string,
	update store.StatusUpdate,
) (*domain.Video, error) {
	// Credential check comes first and does not depend on whether the
	// video exists, so authorization failures reveal nothing.
	if !s.workerGate.Authenticate(workerToken) {
		s.logger.Warn("worker callback rejected: bad credential",
			"video_id", videoID)
		return nil, ErrWorkerUnauthorized
	}

	video, err := s.videoStore.GetByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, store.ErrVideoNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to retrieve video: %w", err)
	}

	idempotentRetry := update.Status == video.Status && video.Status.IsTerminal()
	if !idempotentRetry && !video.Status.CanTransitionTo(update.Status) {
		s.logger.Warn("worker callback rejected: illegal transition",
			"video_id", videoID,
			"current_status", video.Status,
			"requested_status", update.Status)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, video.Status, update.Status)
	}

	applied, err := s.videoStore.UpdateStatusIfCurrent(ctx, videoID, video.Status, update)
	if err != nil {
		if errors.Is(err, store.ErrVideoNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to update video status: %w", err)
	}
	if !applied {
		// A concurrent callback moved the status between our read and
		// the conditional write; report it like any other illegal move.
		return nil, fmt.Errorf("%w: %s -> %s (concurrent update)",
			ErrInvalidTransition, video.Status, update.Status)
	}

	updated, err := s.videoStore.GetByID(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload video after update: %w", err)
	}

	s.logger.Info("worker update applied",
		"video_id", videoID,
		"status", updated.Status)
	return updated, nil
}
