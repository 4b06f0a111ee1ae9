package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/account-portal/internal/auth"
	"github.com/spec-kit/account-portal/internal/config"
	"github.com/spec-kit/account-portal/internal/domain"
	"github.com/spec-kit/account-portal/internal/events"
	"github.com/spec-kit/account-portal/internal/storage"
)

type fakeUserRepo struct {
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[string]*domain.User{},
		byEmail: map[string]*domain.User{},
	}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	clone := *user
	r.byID[user.ID] = &clone
	r.byEmail[user.Email] = &clone
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.byID[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	r.byID[user.ID] = &clone
	r.byEmail[user.Email] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func newTestAccountService(t *testing.T, repo *fakeUserRepo) (*AccountService, *auth.TokenService) {
	t.Helper()

	tokens := auth.NewTokenService("test-secret", nil)
	cfg := config.Config{Auth: config.AuthConfig{BcryptCost: 4}}

	svc := NewAccountService(cfg, AccountDependencies{
		UserRepo: repo,
		Tokens:   tokens,
		Photos: storage.NewPhotoStore(config.UploadConfig{
			Dir:          t.TempDir(),
			PublicPrefix: "/uploads/profiles",
		}),
		Dispatcher: events.NewInMemoryDispatcher(nil),
	})
	return svc, tokens
}

func TestAccountService_Register(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestAccountService(t, repo)

	user, err := svc.Register(context.Background(), "Test User", "user@example.com", "password123")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Test User", user.Name)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEqual(t, "password123", user.PasswordHash)

	stored, err := repo.GetByEmail(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
}

func TestAccountService_RegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestAccountService(t, repo)

	_, err := svc.Register(context.Background(), "First", "user@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "Second", "user@example.com", "password456")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAccountService_Login(t *testing.T) {
	repo := newFakeUserRepo()
	svc, tokens := newTestAccountService(t, repo)

	registered, err := svc.Register(context.Background(), "Test User", "user@example.com", "password123")
	require.NoError(t, err)

	user, token, err := svc.Login(context.Background(), "user@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, "Test User", claims.Name)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
}

func TestAccountService_LoginFailuresAreUniform(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestAccountService(t, repo)

	_, err := svc.Register(context.Background(), "Test User", "user@example.com", "password123")
	require.NoError(t, err)

	// Unknown email and wrong password collapse to the same error.
	_, _, unknownErr := svc.Login(context.Background(), "nobody@example.com", "password123")
	_, _, wrongErr := svc.Login(context.Background(), "user@example.com", "wrong-password")

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestAccountService_UpdateName(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestAccountService(t, repo)

	user, err := svc.Register(context.Background(), "Old Name", "user@example.com", "password123")
	require.NoError(t, err)

	updated, err := svc.UpdateName(context.Background(), user.ID, "New Name")
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)

	_, err = svc.UpdateName(context.Background(), "missing-id", "Whoever")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAccountService_AttachPhoto(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestAccountService(t, repo)

	user, err := svc.Register(context.Background(), "Test User", "user@example.com", "password123")
	require.NoError(t, err)

	updated, err := svc.AttachPhoto(context.Background(), user.ID, "png", []byte{0x89, 0x50, 0x4e, 0x47})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(updated.PhotoURL, "/uploads/profiles/"+user.ID+"-"))
	assert.True(t, strings.HasSuffix(updated.PhotoURL, ".png"))

	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.PhotoURL, stored.PhotoURL)
}

func TestAccountService_AttachPhotoWritesFile(t *testing.T) {
	repo := newFakeUserRepo()

	dir := t.TempDir()
	tokens := auth.NewTokenService("test-secret", nil)
	svc := NewAccountService(config.Config{Auth: config.AuthConfig{BcryptCost: 4}}, AccountDependencies{
		UserRepo: repo,
		Tokens:   tokens,
		Photos: storage.NewPhotoStore(config.UploadConfig{
			Dir:          dir,
			PublicPrefix: "/uploads/profiles",
		}),
	})

	user, err := svc.Register(context.Background(), "Test User", "user@example.com", "password123")
	require.NoError(t, err)

	updated, err := svc.AttachPhoto(context.Background(), user.ID, "jpeg", []byte("jpeg-bytes"))
	require.NoError(t, err)

	filename := strings.TrimPrefix(updated.PhotoURL, "/uploads/profiles/")
	data, err := os.ReadFile(filepath.Join(dir, filename))
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)
}
