// AngelaMos | 2026
// auth_test.go

package auth

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/parcel-land/parcel-api/internal/config"
	"github.com/parcel-land/parcel-api/internal/core"
)

type memoryUsers struct {
	mu    sync.Mutex
	byID  map[string]*UserInfo
	races bool
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: make(map[string]*UserInfo)}
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

func (m *memoryUsers) GetByID(_ context.Context, id string) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

// EmailExists reports false when races is set, simulating a concurrent
// signup that slips past the up-front check.
func (m *memoryUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	if m.races {
		return false, nil
	}
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func (m *memoryUsers) Create(ctx context.Context, a NewAccount) (*UserInfo, error) {
	if _, err := m.GetByEmail(ctx, a.Email); err == nil {
		return nil, fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}
	role := a.Role
	if role != "investor" {
		role = "buyer"
	}
	u := &UserInfo{
		ID:           uuid.New().String(),
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Role:         role,
		Subscription: "free",
	}
	m.mu.Lock()
	m.byID[u.ID] = u
	m.mu.Unlock()
	return u, nil
}

func (m *memoryUsers) UpdatePassword(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}
	u.PasswordHash = hash
	return nil
}

func (m *memoryUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

type memoryBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func newMemoryBlacklist() *memoryBlacklist {
	return &memoryBlacklist{revoked: make(map[string]time.Duration)}
}

func (b *memoryBlacklist) Revoke(_ context.Context, id string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[id] = ttl
	return nil
}

func (b *memoryBlacklist) IsRevoked(_ context.Context, id string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.revoked[id]
	return ok, nil
}

func newTestJWTManager(t *testing.T) *JWTManager {
	t.Helper()
	dir := t.TempDir()
	priv := filepath.Join(dir, "private.pem")
	pub := filepath.Join(dir, "public.pem")
	require.NoError(t, GenerateKeyPair(priv, pub))

	m, err := NewJWTManager(config.JWTConfig{
		PrivateKeyPath: priv,
		PublicKeyPath:  pub,
		SessionExpire:  720 * time.Hour,
		Issuer:         "parcel-api",
		Audience:       "parcel-web",
	})
	require.NoError(t, err)
	return m
}

type fixture struct {
	svc       *Service
	users     *memoryUsers
	blacklist *memoryBlacklist
	jwt       *JWTManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:     newMemoryUsers(),
		blacklist: newMemoryBlacklist(),
		jwt:       newTestJWTManager(t),
	}
	f.svc = NewService(f.jwt, f.users, f.blacklist, nil)
	return f
}

func (f *fixture) signup(t *testing.T, email, password string) {
	t.Helper()
	req := SignupRequest{FirstName: "Ada", LastName: "Lovelace", Email: email, Password: password}
	req.Normalize()
	require.NoError(t, f.svc.Signup(context.Background(), req))
}
