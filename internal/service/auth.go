package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Skotchmaster/book_catalog/internal/events"
	"github.com/Skotchmaster/book_catalog/internal/hash"
	"github.com/Skotchmaster/book_catalog/internal/logging"
	"github.com/Skotchmaster/book_catalog/internal/metrics"
	"github.com/Skotchmaster/book_catalog/internal/models"
	"github.com/Skotchmaster/book_catalog/internal/repo"
	"github.com/Skotchmaster/book_catalog/internal/tokens"
)

const TokenType = "bearer"

type AuthService struct {
	Repo    *repo.GormRepo
	Tokens  *tokens.Issuer
	Events  events.Publisher
	Metrics metrics.Recorder
}

type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

type UserUpdate struct {
	Username *string
	Password *string
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if strings.TrimSpace(username) == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	pwHash, err := hashPassword(password)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			return nil, err
		}
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{Username: username, PasswordHash: pwHash}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			return nil, fmt.Errorf("%w: username already registered", ErrDuplicate)
		}
		l.Error("register_error", "reason", "cannot create user", "error", err)
		return nil, err
	}

	publish(ctx, s.Events, events.TopicUsers, userKey(user.ID), events.Event{
		Type: events.UserRegistered, UserID: user.ID, Username: user.Username,
	})
	return &user, nil
}

// Login checks the credentials and mints an access token. An unknown user and
// a wrong password produce the same ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")
	m := recorder(s.Metrics)

	user, err := s.Repo.FindUserByUsernameFold(ctx, username)
	if err != nil {
		if repo.IsNotFound(err) {
			m.RecordLogin(false)
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		m.RecordLogin(false)
		return nil, ErrUnauthorized
	}

	token, exp, err := s.Tokens.Issue(user.Username)
	if err != nil {
		l.Error("login_error", "reason", "cannot sign token", "error", err)
		return nil, err
	}
	m.RecordLogin(true)

	publish(ctx, s.Events, events.TopicUsers, userKey(user.ID), events.Event{
		Type: events.UserLoggedIn, UserID: user.ID, Username: user.Username,
	})
	return &LoginResult{AccessToken: token, TokenType: TokenType, ExpiresAt: exp}, nil
}

// Resolve turns a bearer token into the user it names. A bad token and a
// user that no longer exists are indistinguishable to the caller.
func (s *AuthService) Resolve(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.Tokens.Verify(token)
	if err != nil {
		recorder(s.Metrics).RecordAuthRejected()
		return nil, ErrUnauthorized
	}

	user, err := s.Repo.FindUserByUsernameFold(ctx, claims.Subject)
	if err != nil {
		if repo.IsNotFound(err) {
			recorder(s.Metrics).RecordAuthRejected()
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	return user, nil
}

// UpdateUser changes the account id on behalf of actor. Only the account's
// owner may change it.
func (s *AuthService) UpdateUser(ctx context.Context, actor *models.User, id uint, upd UserUpdate) (*models.User, error) {
	if err := ownAccount(actor, id); err != nil {
		return nil, err
	}

	patch := repo.UserPatch{Username: upd.Username}
	if upd.Password != nil {
		pwHash, err := hashPassword(*upd.Password)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &pwHash
	}

	user, err := s.Repo.UpdateUser(ctx, id, patch)
	if err != nil {
		switch {
		case repo.IsNotFound(err):
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
		case errors.Is(err, repo.ErrUserAlreadyExist):
			return nil, fmt.Errorf("%w: username already registered", ErrDuplicate)
		}
		return nil, err
	}

	publish(ctx, s.Events, events.TopicUsers, userKey(user.ID), events.Event{
		Type: events.UserUpdated, UserID: user.ID, Username: user.Username,
	})
	return user, nil
}

// DeleteUser removes the user together with their reviews. Only the account's
// owner may delete it.
func (s *AuthService) DeleteUser(ctx context.Context, actor *models.User, id uint) error {
	if err := ownAccount(actor, id); err != nil {
		return err
	}
	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		if repo.IsNotFound(err) {
			return fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return err
	}

	publish(ctx, s.Events, events.TopicUsers, userKey(id), events.Event{Type: events.UserDeleted, UserID: id})
	return nil
}

func ownAccount(actor *models.User, id uint) error {
	if actor == nil || actor.ID != id {
		return fmt.Errorf("%w: user %d may only change their own account", ErrForbidden, actorID(actor))
	}
	return nil
}

func actorID(actor *models.User) uint {
	if actor == nil {
		return 0
	}
	return actor.ID
}

func userKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
