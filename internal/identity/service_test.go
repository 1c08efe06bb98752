package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/warroomhq/incident-command/internal/domain"
)

// mockRepository implements Repository for testing.
type mockRepository struct {
	users         map[string]*domain.User
	createUserErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{users: make(map[string]*domain.User)}
}

func (m *mockRepository) CreateUser(_ context.Context, user *domain.User) error {
	if m.createUserErr != nil {
		return m.createUserErr
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockRepository) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *mockRepository) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (m *mockRepository) CountUsers(_ context.Context) (int, error) {
	return len(m.users), nil
}

// mockAuthenticator implements Authenticator for testing.
type mockAuthenticator struct {
	generateErr error
}

func (m *mockAuthenticator) GenerateToken(_ context.Context, _ *domain.User) (string, error) {
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return "access", nil
}

func (m *mockAuthenticator) ValidateToken(_ context.Context, _ string) (string, domain.Role, error) {
	return "", "", nil
}

func TestRegister_DefaultsToRequestor(t *testing.T) {
	service := NewService(newMockRepository(), &mockAuthenticator{})

	user, err := service.Register(context.Background(), RegisterInput{
		Email:    "Test@Example.com",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, domain.RoleRequestor, user.Role)
	assert.NotEmpty(t, user.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
}

func TestRegister_InvalidRole(t *testing.T) {
	service := NewService(newMockRepository(), &mockAuthenticator{})

	user, err := service.Register(context.Background(), RegisterInput{
		Email:    "test@example.com",
		Password: "password123",
		Role:     "superuser",
	})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestRegister_EmailAlreadyExists(t *testing.T) {
	repo := newMockRepository()
	repo.users["existing@example.com"] = &domain.User{Email: "existing@example.com"}

	service := NewService(repo, &mockAuthenticator{})

	user, err := service.Register(context.Background(), RegisterInput{
		Email:    "existing@example.com",
		Password: "password123",
	})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestRegister_CreateUserFails(t *testing.T) {
	repo := newMockRepository()
	repo.createUserErr = errors.New("database error")

	service := NewService(repo, &mockAuthenticator{})

	user, err := service.Register(context.Background(), RegisterInput{
		Email:    "test@example.com",
		Password: "password123",
	})

	assert.Nil(t, user)
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo, &mockAuthenticator{})

	_, err := service.Register(context.Background(), RegisterInput{
		Email:    "test@example.com",
		Password: "password123",
		Role:     domain.RoleWarroom,
	})
	require.NoError(t, err)

	user, token, err := service.Login(context.Background(), LoginInput{
		Email:    "test@example.com",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.Equal(t, "access", token)
	assert.Equal(t, domain.RoleWarroom, user.Role)
}

// Unknown email and wrong password must be indistinguishable.
func TestLogin_InvalidCredentials(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo, &mockAuthenticator{})

	_, err := service.Register(context.Background(), RegisterInput{
		Email:    "test@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, _, err = service.Login(context.Background(), LoginInput{
		Email:    "test@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = service.Login(context.Background(), LoginInput{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestBootstrap(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo, &mockAuthenticator{})
	ctx := context.Background()

	require.NoError(t, service.Bootstrap(ctx, "admin@example.com", "changeme123"))

	admin, err := repo.GetUserByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)

	// Second run is a no-op on a populated store.
	require.NoError(t, service.Bootstrap(ctx, "other@example.com", "changeme123"))
	_, err = repo.GetUserByEmail(ctx, "other@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestBootstrap_SkippedWithoutCredentials(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo, &mockAuthenticator{})

	require.NoError(t, service.Bootstrap(context.Background(), "", ""))
	count, _ := repo.CountUsers(context.Background())
	assert.Equal(t, 0, count)
}
