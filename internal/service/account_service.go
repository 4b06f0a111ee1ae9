package service

import (
	"context"
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/account-portal/internal/auth"
	"github.com/spec-kit/account-portal/internal/config"
	"github.com/spec-kit/account-portal/internal/domain"
	"github.com/spec-kit/account-portal/internal/events"
	"github.com/spec-kit/account-portal/internal/repository"
	"github.com/spec-kit/account-portal/internal/storage"
)

// ErrInvalidCredentials covers both unknown email and wrong password, so a
// login response cannot reveal which one failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrEmailTaken indicates a signup against an already registered address.
var ErrEmailTaken = errors.New("email is already registered")

// ErrUserNotFound indicates the token subject no longer exists.
var ErrUserNotFound = errors.New("user not found")

// AccountService coordinates registration, login and profile flows.
type AccountService struct {
	users      repository.UserRepository
	tokens     *auth.TokenService
	photos     *storage.PhotoStore
	dispatcher events.Dispatcher
	bcryptCost int
}

// AccountDependencies encapsulates collaborator requirements.
type AccountDependencies struct {
	UserRepo   repository.UserRepository
	Tokens     *auth.TokenService
	Photos     *storage.PhotoStore
	Dispatcher events.Dispatcher
}

// NewAccountService builds the service.
func NewAccountService(cfg config.Config, deps AccountDependencies) *AccountService {
	return &AccountService{
		users:      deps.UserRepo,
		tokens:     deps.Tokens,
		photos:     deps.Photos,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new account with the default role. Registration does
// not establish a session; the user logs in afterwards.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Email: user.Email,
		Name:  user.Name,
	})
	return user, nil
}

// Login authenticates by email and password and issues a session token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(auth.Claims{
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: user.ID,
		},
	})
	if err != nil {
		return nil, "", err
	}

	s.publish(ctx, events.EventUserLoggedIn, user.ID, events.UserLoggedInPayload{Email: user.Email})
	return user, token, nil
}

// UpdateName changes the display name of an existing user.
func (s *AccountService) UpdateName(ctx context.Context, userID, name string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.Name = name
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventProfileUpdated, user.ID, events.ProfileUpdatedPayload{Name: name})
	return user, nil
}

// AttachPhoto stores an already validated profile photo and records its
// public URL on the user.
func (s *AccountService) AttachPhoto(ctx context.Context, userID, ext string, data []byte) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	photoURL, err := s.photos.Save(user.ID, ext, data)
	if err != nil {
		return nil, err
	}

	user.PhotoURL = photoURL
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventPhotoUploaded, user.ID, events.PhotoUploadedPayload{
		PhotoURL: photoURL,
		Bytes:    int64(len(data)),
	})
	return user, nil
}

func (s *AccountService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
