package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/reelgen/reelgen-api/internal/domain"
	"github.com/reelgen/reelgen-api/internal/queue"
	"github.com/reelgen/reelgen-api/internal/store"
)

// fakeVideoStore is an in-memory store.VideoStore used to test the
// lifecycle service. It mirrors the conditional-update semantics of the
// Postgres implementation, including the keep-on-empty URL merge.
type fakeVideoStore struct {
	mu        sync.Mutex
	videos    map[uuid.UUID]*domain.Video
	usernames map[uuid.UUID]string

	createCalls int
	getCalls    int
	updateCalls int

	createErr error
	getErr    error
	updateErr error

	// beforeConditionalWrite, when set, runs once just before
	// UpdateStatusIfCurrent takes the lock. Tests use it to interleave a
	// competing callback between a read and the conditional write.
	beforeConditionalWrite func()
}

var _ store.VideoStore = (*fakeVideoStore)(nil)

func newFakeVideoStore() *fakeVideoStore {
	return &fakeVideoStore{
		videos:    make(map[uuid.UUID]*domain.Video),
		usernames: make(map[uuid.UUID]string),
	}
}

func (f *fakeVideoStore) copyOf(v *domain.Video) *domain.Video {
	c := *v
	return &c
}

func (f *fakeVideoStore) Create(ctx context.Context, video *domain.Video) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	f.videos[video.ID] = f.copyOf(video)
	return nil
}

func (f *fakeVideoStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	v, ok := f.videos[id]
	if !ok {
		return nil, store.ErrVideoNotFound
	}
	return f.copyOf(v), nil
}

func (f *fakeVideoStore) GetByIDWithAuthor(
	ctx context.Context,
	id uuid.UUID,
) (*store.VideoWithAuthor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	v, ok := f.videos[id]
	if !ok {
		return nil, store.ErrVideoNotFound
	}
	return &store.VideoWithAuthor{
		Video:          *f.copyOf(v),
		AuthorUsername: f.usernames[v.OwnerID],
	}, nil
}

func (f *fakeVideoStore) UpdateStatusIfCurrent(
	ctx context.Context,
	id uuid.UUID,
	expected domain.VideoStatus,
	update store.StatusUpdate,
) (bool, error) {
	if hook := f.beforeConditionalWrite; hook != nil {
		f.beforeConditionalWrite = nil
		hook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.updateErr != nil {
		return false, f.updateErr
	}
	v, ok := f.videos[id]
	if !ok {
		return false, store.ErrVideoNotFound
	}
	if v.Status != expected {
		return false, nil
	}
	v.Status = update.Status
	if update.VideoURL != "" {
		v.VideoURL = update.VideoURL
	}
	if update.ThumbnailURL != "" {
		v.ThumbnailURL = update.ThumbnailURL
	}
	v.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (f *fakeVideoStore) ListByStatus(
	ctx context.Context,
	status domain.VideoStatus,
	limit, offset int,
) ([]*store.VideoWithAuthor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*store.VideoWithAuthor{}
	for _, v := range f.videos {
		if v.Status == status {
			out = append(out, &store.VideoWithAuthor{
				Video:          *f.copyOf(v),
				AuthorUsername: f.usernames[v.OwnerID],
			})
		}
	}
	return out, nil
}

func (f *fakeVideoStore) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	limit, offset int,
) ([]*store.VideoWithAuthor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*store.VideoWithAuthor{}
	for _, v := range f.videos {
		if v.OwnerID == ownerID {
			out = append(out, &store.VideoWithAuthor{
				Video:          *f.copyOf(v),
				AuthorUsername: f.usernames[v.OwnerID],
			})
		}
	}
	return out, nil
}

func (f *fakeVideoStore) WithTx(tx *sql.Tx) store.VideoStore {
	return f
}

// setStatus overwrites the stored status directly, bypassing the
// conditional write. Tests use it to stand in for a competing worker.
func (f *fakeVideoStore) setStatus(id uuid.UUID, status domain.VideoStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.videos[id]; ok {
		v.Status = status
	}
}

// snapshot returns a copy of the stored video for byte-for-byte
// comparisons across calls that must not mutate state.
func (f *fakeVideoStore) snapshot(id uuid.UUID) *domain.Video {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[id]
	if !ok {
		return nil
	}
	return f.copyOf(v)
}

// fakeEnqueuer records every enqueued spec.
type fakeEnqueuer struct {
	mu    sync.Mutex
	specs []queue.GenerationSpec
	err   error
}

var _ queue.Enqueuer = (*fakeEnqueuer)(nil)

func (f *fakeEnqueuer) Enqueue(ctx context.Context, spec queue.GenerationSpec) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.specs = append(f.specs, spec)
	return nil
}

func (f *fakeEnqueuer) calls() []queue.GenerationSpec {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]queue.GenerationSpec(nil), f.specs...)
}

// fakeUserStore is an in-memory store.UserStore for user service tests.
// Passwords are hashed with a low bcrypt cost to keep tests fast.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

var _ store.UserStore = (*fakeUserStore)(nil)

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (f *fakeUserStore) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(h), err
}

func (f *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == user.Username {
			return store.ErrUsernameExists
		}
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	hashed, err := f.hash(user.Password)
	if err != nil {
		return err
	}
	user.HashedPassword = hashed
	user.Password = ""
	c := *user
	f.users[user.ID] = &c
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) Update(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.users[user.ID]
	if !ok {
		return store.ErrUserNotFound
	}
	for id, u := range f.users {
		if id != user.ID && u.Username == user.Username {
			return store.ErrUsernameExists
		}
	}
	if user.Password != "" {
		hashed, err := f.hash(user.Password)
		if err != nil {
			return err
		}
		user.HashedPassword = hashed
		user.Password = ""
	} else {
		user.HashedPassword = existing.HashedPassword
	}
	c := *user
	f.users[user.ID] = &c
	return nil
}

func (f *fakeUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return f
}

var errQueueDown = errors.New("connection refused")
