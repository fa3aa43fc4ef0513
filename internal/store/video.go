package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/reelgen/reelgen-api/internal/domain"
)

// VideoWithAuthor is the read model for listing endpoints: the video
// joined with its owner's username.
type VideoWithAuthor struct {
	domain.Video
	AuthorUsername string `json:"author_username"`
}

// StatusUpdate carries the fields a worker callback may change. Empty
// URL fields are left untouched in the store, so a retried callback
// never clears previously stored results.
type StatusUpdate struct {
	Status       domain.VideoStatus
	VideoURL     string
	ThumbnailURL string
}

// VideoStore defines the interface for video data persistence.
type VideoStore interface {
	// Create saves a new video to the store.
	// It handles domain validation internally.
	// Returns ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, video *domain.Video) error

	// GetByID retrieves a video by its unique ID.
	// Returns ErrVideoNotFound if the video does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Video, error)

	// GetByIDWithAuthor retrieves a video joined with its owner's username.
	// Returns ErrVideoNotFound if the video does not exist.
	GetByIDWithAuthor(ctx context.Context, id uuid.UUID) (*VideoWithAuthor, error)

	// UpdateStatusIfCurrent atomically applies a status update, keyed on
	// the expected prior status. This is the single primitive the state
	// machine relies on to stay correct under concurrent callbacks and
	// multiple process instances: the row changes only if its status
	// still equals expected at the time of the write.
	// Returns false with a nil error if the video exists but its status
	// no longer matches expected. Returns ErrVideoNotFound if the video
	// does not exist.
	UpdateStatusIfCurrent(
		ctx context.Context,
		id uuid.UUID,
		expected domain.VideoStatus,
		update StatusUpdate,
	) (bool, error)

	// ListByStatus retrieves videos with the given status joined with
	// author usernames, newest first. Returns an empty slice if none match.
	ListByStatus(
		ctx context.Context,
		status domain.VideoStatus,
		limit, offset int,
	) ([]*VideoWithAuthor, error)

	// ListByOwner retrieves a user's videos joined with author usernames,
	// newest first. Returns an empty slice if the user has none.
	ListByOwner(
		ctx context.Context,
		ownerID uuid.UUID,
		limit, offset int,
	) ([]*VideoWithAuthor, error)

	// WithTx returns a new VideoStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller.
	WithTx(tx *sql.Tx) VideoStore
}
