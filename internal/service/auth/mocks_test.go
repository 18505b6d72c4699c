package auth

import (
	"context"
	"strings"
	"sync"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

type mockUserRepo struct {
	GetByIDFunc       func(ctx context.Context, id int64) (*domain.User, error)
	GetByUsernameFunc func(ctx context.Context, username string) (*domain.User, error)
	SetPasswordFunc   func(ctx context.Context, id int64, hash string, mustReset bool) error

	passwords map[int64]string
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) SetPassword(ctx context.Context, id int64, hash string, mustReset bool) error {
	if m.passwords == nil {
		m.passwords = map[int64]string{}
	}
	m.passwords[id] = hash
	if m.SetPasswordFunc != nil {
		return m.SetPasswordFunc(ctx, id, hash, mustReset)
	}
	return nil
}

type mockInviteRepo struct {
	GetByHashFunc func(ctx context.Context, tokenHash string) (*domain.UserInvite, error)
	MarkUsedFunc  func(ctx context.Context, id int64) error
	used          []int64
}

func (m *mockInviteRepo) GetByHash(ctx context.Context, tokenHash string) (*domain.UserInvite, error) {
	if m.GetByHashFunc != nil {
		return m.GetByHashFunc(ctx, tokenHash)
	}
	return nil, domain.ErrNotFound
}

func (m *mockInviteRepo) MarkUsed(ctx context.Context, id int64) error {
	if m.MarkUsedFunc != nil {
		if err := m.MarkUsedFunc(ctx, id); err != nil {
			return err
		}
	}
	m.used = append(m.used, id)
	return nil
}

type mockActivityLog struct {
	mu      sync.Mutex
	entries []domain.ActivityEntry
}

func (m *mockActivityLog) Log(_ context.Context, entry domain.ActivityEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockActivityLog) Entries() []domain.ActivityEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ActivityEntry(nil), m.entries...)
}

type mockTxManager struct{}

func (mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockJWT struct {
	ValidateFunc func(token string) (int64, string, error)
}

func (m *mockJWT) GenerateAccessToken(userID int64, role string) (string, error) {
	return "token-" + role, nil
}

func (m *mockJWT) ValidateAccessToken(token string) (int64, string, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(token)
	}
	return 0, "", domain.ErrUnauthorized
}

// plainHasher stores passwords as "hash:<password>".
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hash:" + password, nil }

func (plainHasher) Compare(hash, password string) bool {
	return strings.TrimPrefix(hash, "hash:") == password
}

// countingHasher records how many comparisons Login performs.
type countingHasher struct {
	plainHasher
	compares int
}

func (h *countingHasher) Compare(hash, password string) bool {
	h.compares++
	return h.plainHasher.Compare(hash, password)
}

type mockLimiter struct {
	AllowFunc func(ctx context.Context, key string) error
	allowed   []string
	reset     []string
}

func (m *mockLimiter) Allow(ctx context.Context, key string) error {
	m.allowed = append(m.allowed, key)
	if m.AllowFunc != nil {
		return m.AllowFunc(ctx, key)
	}
	return nil
}

func (m *mockLimiter) Reset(_ context.Context, key string) error {
	m.reset = append(m.reset, key)
	return nil
}

type recordingMetrics struct {
	limited  int
	outcomes map[string]error
}

func (r *recordingMetrics) ObserveOperation(op string, err error) {
	if r.outcomes == nil {
		r.outcomes = map[string]error{}
	}
	r.outcomes[op] = err
}

func (r *recordingMetrics) LoginRateLimited() { r.limited++ }
