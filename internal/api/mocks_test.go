package api

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/reelgen/reelgen-api/internal/domain"
	"github.com/reelgen/reelgen-api/internal/service"
	"github.com/reelgen/reelgen-api/internal/service/auth"
	"github.com/reelgen/reelgen-api/internal/store"
)

// stubJWTService returns a fixed token and accepts any token string.
type stubJWTService struct {
	token  string
	userID uuid.UUID
	err    error
}

func (s *stubJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.token, nil
}

func (s *stubJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &auth.Claims{UserID: s.userID}, nil
}

// stubPasswordVerifier accepts or rejects every comparison.
type stubPasswordVerifier struct {
	err error
}

func (s *stubPasswordVerifier) Compare(hashedPassword, password string) error {
	return s.err
}

// stubUserStore holds a single user looked up by username or ID.
type stubUserStore struct {
	user      *domain.User
	createErr error
}

var _ store.UserStore = (*stubUserStore)(nil)

func (s *stubUserStore) Create(ctx context.Context, user *domain.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.user = user
	return nil
}

func (s *stubUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, store.ErrUserNotFound
	}
	return s.user, nil
}

func (s *stubUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if s.user == nil || s.user.Username != username {
		return nil, store.ErrUserNotFound
	}
	return s.user, nil
}

func (s *stubUserStore) Update(ctx context.Context, user *domain.User) error {
	s.user = user
	return nil
}

func (s *stubUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.user = nil
	return nil
}

func (s *stubUserStore) WithTx(tx *sql.Tx) store.UserStore { return s }

// stubVideoService records calls and returns canned results per method.
type stubVideoService struct {
	video       *domain.Video
	withAuthor  *store.VideoWithAuthor
	list        []*store.VideoWithAuthor
	err         error
	lastOwnerID uuid.UUID
	lastParams  domain.VideoParams
	lastToken   string
	lastUpdate  store.StatusUpdate
	lastVideoID uuid.UUID
}

var _ service.VideoService = (*stubVideoService)(nil)

func (s *stubVideoService) CreateVideo(
	ctx context.Context,
	ownerID uuid.UUID,
	params domain.VideoParams,
) (*domain.Video, error) {
	s.lastOwnerID = ownerID
	s.lastParams = params
	if s.err != nil {
		return nil, s.err
	}
	return s.video, nil
}

func (s *stubVideoService) GetVideo(
	ctx context.Context,
	videoID, requesterID uuid.UUID,
) (*store.VideoWithAuthor, error) {
	s.lastVideoID = videoID
	if s.err != nil {
		return nil, s.err
	}
	return s.withAuthor, nil
}

func (s *stubVideoService) ListGallery(
	ctx context.Context,
	limit, offset int,
) ([]*store.VideoWithAuthor, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.list, nil
}

func (s *stubVideoService) ListHistory(
	ctx context.Context,
	ownerID uuid.UUID,
	limit, offset int,
) ([]*store.VideoWithAuthor, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.list, nil
}

func (s *stubVideoService) ApplyWorkerUpdate(
	ctx context.Context,
	videoID uuid.UUID,
	workerToken string,
	update store.StatusUpdate,
) (*domain.Video, error) {
	s.lastVideoID = videoID
	s.lastToken = workerToken
	s.lastUpdate = update
	if s.err != nil {
		return nil, s.err
	}
	return s.video, nil
}

// stubUserService returns canned results per method.
type stubUserService struct {
	user *domain.User
	err  error
}

var _ service.UserService = (*stubUserService)(nil)

func (s *stubUserService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s *stubUserService) UpdateProfile(
	ctx context.Context,
	userID uuid.UUID,
	update service.ProfileUpdate,
) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s *stubUserService) ChangePassword(
	ctx context.Context,
	userID uuid.UUID,
	oldPassword, newPassword string,
) error {
	return s.err
}

func (s *stubUserService) DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error {
	return s.err
}

func testVideo(ownerID uuid.UUID) *domain.Video {
	now := time.Now().UTC()
	return &domain.Video{
		ID:               uuid.New(),
		OwnerID:          ownerID,
		Text:             "a story about a very brave teapot",
		Voice:            domain.VoiceAfHeart,
		SubtitleStyleID:  3,
		SubtitlePosition: domain.SubtitleBottom,
		Status:           domain.VideoStatusQueued,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
