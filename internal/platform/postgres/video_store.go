package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/reelgen/reelgen-api/internal/domain"
	"github.com/reelgen/reelgen-api/internal/platform/logger"
	"github.com/reelgen/reelgen-api/internal/store"
)

// PostgresVideoStore implements the store.VideoStore interface
// using a PostgreSQL database as the storage backend.
type PostgresVideoStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// Ensure PostgresVideoStore implements store.VideoStore interface
var _ store.VideoStore = (*PostgresVideoStore)(nil)

// NewPostgresVideoStore creates a new PostgreSQL implementation of the
// VideoStore interface. It accepts a database connection or transaction
// managed by the caller. If logger is nil, the process default is used.
func NewPostgresVideoStore(db store.DBTX, log *slog.Logger) *PostgresVideoStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresVideoStore{
		db:     db,
		logger: log.With(slog.String("component", "video_store")),
	}
}

// WithTx implements store.VideoStore.WithTx
func (s *PostgresVideoStore) WithTx(tx *sql.Tx) store.VideoStore {
	return &PostgresVideoStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.VideoStore.Create
// Returns store.ErrInvalidEntity if the owner does not exist (foreign
// key violation).
func (s *PostgresVideoStore) Create(ctx context.Context, video *domain.Video) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := video.Validate(); err != nil {
		log.Warn("video validation failed during create",
			slog.String("error", err.Error()),
			slog.String("video_id", video.ID.String()))
		return err
	}

	query := `
		INSERT INTO videos (id, owner_id, text, voice, subtitle_style_id, subtitle_position,
			status, video_url, thumbnail_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		video.ID,
		video.OwnerID,
		video.Text,
		video.Voice,
		video.SubtitleStyleID,
		video.SubtitlePosition,
		video.Status,
		video.VideoURL,
		video.ThumbnailURL,
		video.CreatedAt,
		video.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during video creation",
				slog.String("error", err.Error()),
				slog.String("video_id", video.ID.String()),
				slog.String("owner_id", video.OwnerID.String()))
			return fmt.Errorf("%w: owner with ID %s not found",
				store.ErrInvalidEntity, video.OwnerID)
		}

		log.Error("failed to create video",
			slog.String("error", err.Error()),
			slog.String("video_id", video.ID.String()))
		return err
	}

	log.Info("video created successfully",
		slog.String("video_id", video.ID.String()),
		slog.String("owner_id", video.OwnerID.String()),
		slog.String("status", string(video.Status)))
	return nil
}

// GetByID implements store.VideoStore.GetByID
// Returns store.ErrVideoNotFound if the video does not exist.
func (s *PostgresVideoStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Video, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, owner_id, text, voice, subtitle_style_id, subtitle_position,
			status, video_url, thumbnail_url, created_at, updated_at
		FROM videos
		WHERE id = $1
	`

	video, err := scanVideo(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrVideoNotFound
		}
		log.Error("failed to get video by ID",
			slog.String("error", err.Error()),
			slog.String("video_id", id.String()))
		return nil, err
	}

	return video, nil
}

// GetByIDWithAuthor implements store.VideoStore.GetByIDWithAuthor
// Returns store.ErrVideoNotFound if the video does not exist.
func (s *PostgresVideoStore) GetByIDWithAuthor(
	ctx context.Context,
	id uuid.UUID,
) (*store.VideoWithAuthor, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT v.id, v.owner_id, v.text, v.voice, v.subtitle_style_id, v.subtitle_position,
			v.status, v.video_url, v.thumbnail_url, v.created_at, v.updated_at,
			u.username
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		WHERE v.id = $1
	`

	row := s.db.QueryRowContext(ctx, query, id)
	item, err := scanVideoWithAuthor(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrVideoNotFound
		}
		log.Error("failed to get video with author",
			slog.String("error", err.Error()),
			slog.String("video_id", id.String()))
		return nil, err
	}

	return item, nil
}

// UpdateStatusIfCurrent implements store.VideoStore.UpdateStatusIfCurrent
// The update is a single conditional UPDATE keyed on the expected prior
// status, so concurrent callbacks for the same video serialize at the
// row level. COALESCE/NULLIF keeps existing URLs when the update omits
// them.
func (s *PostgresVideoStore) UpdateStatusIfCurrent(
	ctx context.Context,
	id uuid.UUID,
	expected domain.VideoStatus,
	update store.StatusUpdate,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !domain.IsValidVideoStatus(update.Status) {
		return false, domain.ErrInvalidVideoStatus
	}

	query := `
		UPDATE videos
		SET status = $1,
			video_url = COALESCE(NULLIF($2, ''), video_url),
			thumbnail_url = COALESCE(NULLIF($3, ''), thumbnail_url),
			updated_at = $4
		WHERE id = $5 AND status = $6
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		update.Status,
		update.VideoURL,
		update.ThumbnailURL,
		time.Now().UTC(),
		id,
		expected,
	)
	if err != nil {
		log.Error("failed to update video status",
			slog.String("error", err.Error()),
			slog.String("video_id", id.String()),
			slog.String("expected_status", string(expected)),
			slog.String("new_status", string(update.Status)))
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	if rowsAffected == 0 {
		// Distinguish a missing row from a lost status race.
		var exists bool
		err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM videos WHERE id = $1)`, id).Scan(&exists)
		if err != nil {
			return false, err
		}
		if !exists {
			return false, store.ErrVideoNotFound
		}

		log.Debug("conditional status update lost the race",
			slog.String("video_id", id.String()),
			slog.String("expected_status", string(expected)))
		return false, nil
	}

	log.Info("video status updated",
		slog.String("video_id", id.String()),
		slog.String("status", string(update.Status)))
	return true, nil
}

// ListByStatus implements store.VideoStore.ListByStatus
func (s *PostgresVideoStore) ListByStatus(
	ctx context.Context,
	status domain.VideoStatus,
	limit, offset int,
) ([]*store.VideoWithAuthor, error) {
	query := `
		SELECT v.id, v.owner_id, v.text, v.voice, v.subtitle_style_id, v.subtitle_position,
			v.status, v.video_url, v.thumbnail_url, v.created_at, v.updated_at,
			u.username
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		WHERE v.status = $1
		ORDER BY v.created_at DESC
		LIMIT $2 OFFSET $3
	`
	return s.list(ctx, query, status, limit, offset)
}

// ListByOwner implements store.VideoStore.ListByOwner
func (s *PostgresVideoStore) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	limit, offset int,
) ([]*store.VideoWithAuthor, error) {
	query := `
		SELECT v.id, v.owner_id, v.text, v.voice, v.subtitle_style_id, v.subtitle_position,
			v.status, v.video_url, v.thumbnail_url, v.created_at, v.updated_at,
			u.username
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		WHERE v.owner_id = $1
		ORDER BY v.created_at DESC
		LIMIT $2 OFFSET $3
	`
	return s.list(ctx, query, ownerID, limit, offset)
}

func (s *PostgresVideoStore) list(
	ctx context.Context,
	query string,
	filter any,
	limit, offset int,
) ([]*store.VideoWithAuthor, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx, query, filter, limit, offset)
	if err != nil {
		log.Error("failed to query videos",
			slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	videos := []*store.VideoWithAuthor{}
	for rows.Next() {
		item, err := scanVideoWithAuthor(rows.Scan)
		if err != nil {
			log.Error("failed to scan video row",
				slog.String("error", err.Error()))
			return nil, err
		}
		videos = append(videos, item)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return videos, nil
}

// scanVideo scans a single video row. URLs are stored as nullable
// columns and mapped to empty strings.
func scanVideo(row *sql.Row) (*domain.Video, error) {
	var video domain.Video
	var videoURL, thumbnailURL sql.NullString

	err := row.Scan(
		&video.ID,
		&video.OwnerID,
		&video.Text,
		&video.Voice,
		&video.SubtitleStyleID,
		&video.SubtitlePosition,
		&video.Status,
		&videoURL,
		&thumbnailURL,
		&video.CreatedAt,
		&video.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	video.VideoURL = videoURL.String
	video.ThumbnailURL = thumbnailURL.String
	return &video, nil
}

func scanVideoWithAuthor(scan func(dest ...any) error) (*store.VideoWithAuthor, error) {
	var item store.VideoWithAuthor
	var videoURL, thumbnailURL sql.NullString

	err := scan(
		&item.ID,
		&item.OwnerID,
		&item.Text,
		&item.Voice,
		&item.SubtitleStyleID,
		&item.SubtitlePosition,
		&item.Status,
		&videoURL,
		&thumbnailURL,
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.AuthorUsername,
	)
	if err != nil {
		return nil, err
	}

	item.VideoURL = videoURL.String
	item.ThumbnailURL = thumbnailURL.String
	return &item, nil
}
