package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amirhosseinghanipour/bearer/internal/domain"
)

func testUser(passwordHash string, confirmed bool) *domain.User {
	now := time.Now()
	return &domain.User{
		ID:           domain.NewUserID(uuid.New()),
		Username:     "jane",
		Email:        testEmail,
		PasswordHash: passwordHash,
		Confirmed:    confirmed,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// memoryUsers is an in-memory ports.UserRepository. The mutex makes
// RotateRefreshToken a real compare-and-swap, which the concurrency
// tests depend on.
type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[string]*domain.User)}
}

func (m *memoryUsers) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *user
	m.users[strings.ToLower(user.Email)] = &clone
	return nil
}

func (m *memoryUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	clone := *user
	if user.RefreshToken != nil {
		token := *user.RefreshToken
		clone.RefreshToken = &token
	}
	return &clone, nil
}

func (m *memoryUsers) SetRefreshToken(ctx context.Context, email string, token *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[strings.ToLower(email)]; ok {
		user.RefreshToken = token
	}
	return nil
}

func (m *memoryUsers) RotateRefreshToken(ctx context.Context, email, presented, next string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[strings.ToLower(email)]
	if !ok || user.RefreshToken == nil || *user.RefreshToken != presented {
		return false, nil
	}
	user.RefreshToken = &next
	return true, nil
}

func (m *memoryUsers) SetConfirmed(ctx context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[strings.ToLower(email)]; ok {
		user.Confirmed = true
	}
	return nil
}

func (m *memoryUsers) UpdateAvatarURL(ctx context.Context, email, url string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	user.AvatarURL = url
	clone := *user
	return &clone, nil
}

func (m *memoryUsers) storedToken(email string) *string {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[strings.ToLower(email)]
	if !ok {
		return nil
	}
	return user.RefreshToken
}

type enqueuedMail struct {
	Email    string
	Username string
	URL      string
}

// recordingEnqueuer captures enqueued confirmation mails; err simulates
// a broken queue to prove callers fire and forget.
type recordingEnqueuer struct {
	mu    sync.Mutex
	mails []enqueuedMail
	err   error
}

func (r *recordingEnqueuer) EnqueueSendConfirmation(ctx context.Context, email, username, confirmURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mails = append(r.mails, enqueuedMail{Email: email, Username: username, URL: confirmURL})
	return r.err
}

func (r *recordingEnqueuer) sent() []enqueuedMail {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]enqueuedMail(nil), r.mails...)
}
