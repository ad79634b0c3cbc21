package auth

import (
	"context"
	"testing"
	"time"

	"leadtrack-service/internal/domain/user"
	xerrors "leadtrack-service/internal/pkg/errors"
	"leadtrack-service/internal/pkg/jwt"
	"leadtrack-service/internal/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserStore struct {
	byUsername map[string]*user.User
	byID       map[int64]*user.User
	created    []*user.User
	nextID     int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byUsername: map[string]*user.User{},
		byID:       map[int64]*user.User{},
		nextID:     10,
	}
}

func (s *fakeUserStore) add(u *user.User) *user.User {
	s.byUsername[u.Username] = u
	s.byID[u.ID] = u
	return u
}

func (s *fakeUserStore) FindActiveByUsername(ctx context.Context, username string) (*user.User, error) {
	u, ok := s.byUsername[username]
	if !ok || !u.IsActive {
		return nil, xerrors.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) FindByID(ctx context.Context, id int64) (*user.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) Create(ctx context.Context, u *user.User) error {
	if _, ok := s.byUsername[u.Username]; ok {
		return xerrors.ErrDuplicateEntry
	}
	s.nextID++
	u.ID = s.nextID
	s.add(u)
	s.created = append(s.created, u)
	return nil
}

func (s *fakeUserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, ok := s.byUsername[username]
	return ok, nil
}

func (s *fakeUserStore) ListWithProjects(ctx context.Context) ([]user.UserWithProjects, error) {
	return nil, nil
}

func newTestService(t *testing.T, store *fakeUserStore) *AuthService {
	t.Helper()
	manager, err := jwt.NewManager(jwt.Config{
		Secret:   "test-secret",
		Issuer:   "leadtrack-service",
		Audience: "leadtrack-users",
		TTL:      time.Hour,
	})
	require.NoError(t, err)
	return NewAuthService(store, manager, session.NewRateLimiter(nil), zap.NewNop())
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLoginSuccess(t *testing.T) {
	store := newFakeUserStore()
	store.add(&user.User{
		ID: 1, Username: "ravi", PasswordHash: hashFor(t, "correct horse"),
		Role: user.RoleAgent, IsActive: true,
	})
	svc := newTestService(t, store)

	resp, err := svc.Login(context.Background(), "10.0.0.1", &user.LoginRequest{
		Username: "ravi", Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, user.RoleAgent, resp.Role)

	// Issued token is valid and carries the user's identity
	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, user.RoleAgent, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	store := newFakeUserStore()
	store.add(&user.User{
		ID: 1, Username: "ravi", PasswordHash: hashFor(t, "correct horse"),
		Role: user.RoleAgent, IsActive: true,
	})
	svc := newTestService(t, store)

	_, err := svc.Login(context.Background(), "10.0.0.1", &user.LoginRequest{
		Username: "ravi", Password: "wrong",
	})
	assert.ErrorIs(t, err, xerrors.ErrUnauthorized)
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newTestService(t, newFakeUserStore())

	_, err := svc.Login(context.Background(), "10.0.0.1", &user.LoginRequest{
		Username: "ghost", Password: "whatever",
	})
	assert.ErrorIs(t, err, xerrors.ErrUnauthorized)
}

func TestLoginInactiveUser(t *testing.T) {
	store := newFakeUserStore()
	store.add(&user.User{
		ID: 1, Username: "ravi", PasswordHash: hashFor(t, "correct horse"),
		Role: user.RoleAgent, IsActive: false,
	})
	svc := newTestService(t, store)

	_, err := svc.Login(context.Background(), "10.0.0.1", &user.LoginRequest{
		Username: "ravi", Password: "correct horse",
	})
	// Indistinguishable from a missing account
	assert.ErrorIs(t, err, xerrors.ErrUnauthorized)
}

func TestCreateUserRoleRules(t *testing.T) {
	cases := []struct {
		name        string
		creatorRole string
		newRole     string
		wantErr     error
	}{
		{"admin creates admin", user.RoleAdmin, user.RoleAdmin, nil},
		{"admin creates supervisor", user.RoleAdmin, user.RoleSupervisor, nil},
		{"admin creates agent", user.RoleAdmin, user.RoleAgent, nil},
		{"supervisor creates agent", user.RoleSupervisor, user.RoleAgent, nil},
		{"supervisor creates supervisor", user.RoleSupervisor, user.RoleSupervisor, xerrors.ErrForbidden},
		{"supervisor creates admin", user.RoleSupervisor, user.RoleAdmin, xerrors.ErrForbidden},
		{"agent creates agent", user.RoleAgent, user.RoleAgent, xerrors.ErrForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeUserStore()
			store.add(&user.User{ID: 1, Username: "boss", Role: tc.creatorRole, IsActive: true})
			svc := newTestService(t, store)

			created, err := svc.CreateUser(context.Background(), 1, &user.CreateUserRequest{
				FirstName: "New", LastName: "Hire", Username: "newhire",
				Password: "longenough", Role: tc.newRole,
			})

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Empty(t, store.created)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.newRole, created.Role)
			assert.True(t, created.IsActive)
			assert.NotEqual(t, "longenough", created.PasswordHash)
		})
	}
}

func TestSupervisorCreatedAgentReportsToCreator(t *testing.T) {
	store := newFakeUserStore()
	store.add(&user.User{ID: 5, Username: "sup", Role: user.RoleSupervisor, IsActive: true})
	svc := newTestService(t, store)

	created, err := svc.CreateUser(context.Background(), 5, &user.CreateUserRequest{
		FirstName: "New", LastName: "Agent", Username: "newagent",
		Password: "longenough", Role: user.RoleAgent,
	})
	require.NoError(t, err)
	require.True(t, created.SupervisorID.Valid)
	assert.Equal(t, int64(5), created.SupervisorID.Int64)
}

func TestAdminCreatedAgentHasNoSupervisor(t *testing.T) {
	store := newFakeUserStore()
	store.add(&user.User{ID: 1, Username: "admin", Role: user.RoleAdmin, IsActive: true})
	svc := newTestService(t, store)

	created, err := svc.CreateUser(context.Background(), 1, &user.CreateUserRequest{
		FirstName: "New", LastName: "Agent", Username: "newagent",
		Password: "longenough", Role: user.RoleAgent,
	})
	require.NoError(t, err)
	assert.False(t, created.SupervisorID.Valid)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	store := newFakeUserStore()
	store.add(&user.User{ID: 1, Username: "admin", Role: user.RoleAdmin, IsActive: true})
	store.add(&user.User{ID: 2, Username: "taken", Role: user.RoleAgent, IsActive: true})
	svc := newTestService(t, store)

	_, err := svc.CreateUser(context.Background(), 1, &user.CreateUserRequest{
		FirstName: "New", LastName: "Hire", Username: "taken",
		Password: "longenough", Role: user.RoleAgent,
	})
	assert.ErrorIs(t, err, xerrors.ErrDuplicateEntry)
}

func TestEnsureAdminExists(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestService(t, store)

	require.NoError(t, svc.EnsureAdminExists(context.Background(), "root", "bootstrap-pass", "Root", "Admin"))
	require.Len(t, store.created, 1)
	assert.Equal(t, user.RoleAdmin, store.created[0].Role)

	// Second call is a no-op
	require.NoError(t, svc.EnsureAdminExists(context.Background(), "root", "bootstrap-pass", "Root", "Admin"))
	assert.Len(t, store.created, 1)
}
