package user

import (
	"context"
	"sync"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

type mockUserRepo struct {
	CreateFunc           func(ctx context.Context, u domain.User) (*domain.User, error)
	SetActiveFunc        func(ctx context.Context, id int64, active bool) error
	SetRoleFunc          func(ctx context.Context, id int64, role domain.UserRole) error
	GetByIDFunc          func(ctx context.Context, id int64) (*domain.User, error)
	ExistsByUsernameFunc func(ctx context.Context, username string) (bool, error)
	ListFunc             func(ctx context.Context, limit, offset, maxLimit int) ([]domain.User, error)

	created []domain.User
}

func (m *mockUserRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	m.created = append(m.created, u)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	u.ID = int64(10 + len(m.created))
	return &u, nil
}

func (m *mockUserRepo) SetActive(ctx context.Context, id int64, active bool) error {
	if m.SetActiveFunc != nil {
		return m.SetActiveFunc(ctx, id, active)
	}
	return nil
}

func (m *mockUserRepo) SetRole(ctx context.Context, id int64, role domain.UserRole) error {
	if m.SetRoleFunc != nil {
		return m.SetRoleFunc(ctx, id, role)
	}
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.ExistsByUsernameFunc != nil {
		return m.ExistsByUsernameFunc(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepo) List(ctx context.Context, limit, offset, maxLimit int) ([]domain.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset, maxLimit)
	}
	return nil, nil
}

type mockInviteRepo struct {
	CreateFunc func(ctx context.Context, inv domain.UserInvite) error
	created    []domain.UserInvite
}

func (m *mockInviteRepo) Create(ctx context.Context, inv domain.UserInvite) error {
	m.created = append(m.created, inv)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, inv)
	}
	return nil
}

type mockActivityLog struct {
	mu      sync.Mutex
	LogFunc func(ctx context.Context, entry domain.ActivityEntry) error
	entries []domain.ActivityEntry
}

func (m *mockActivityLog) Log(ctx context.Context, entry domain.ActivityEntry) error {
	if m.LogFunc != nil {
		if err := m.LogFunc(ctx, entry); err != nil {
			return err
		}
	}
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

type mockTxManager struct {
	calls int
}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type mockHasher struct {
	HashFunc func(password string) (string, error)
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hashed:" + password, nil
}

type recordingMetrics struct {
	outcomes map[string]error
}

func (r *recordingMetrics) ObserveOperation(op string, err error) {
	if r.outcomes == nil {
		r.outcomes = map[string]error{}
	}
	r.outcomes[op] = err
}
