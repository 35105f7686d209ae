package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
)

type Service struct {
	users       UserRepository
	tokens      *Tokens
	revocations Revocations
	hashCost    int
}

func NewService(users UserRepository, tokens *Tokens, revocations Revocations) *Service {
	return &Service{users: users, tokens: tokens, revocations: revocations, hashCost: bcrypt.DefaultCost}
}

// SignUp creates a customer account. Input is expected to be validated already.
func (s *Service) SignUp(ctx context.Context, email, password string) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	return s.users.Create(ctx, email, string(hash))
}

// SignIn checks the credentials, resolves the role and issues a session token.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, Session, error) {
	u, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errUserNotFound) {
			return "", Session{}, ErrInvalidCredentials
		}
		return "", Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", Session{}, ErrInvalidCredentials
	}

	role, err := s.users.Role(ctx, u.ID)
	if err != nil {
		return "", Session{}, err
	}
	return s.tokens.Issue(u.ID, u.Email, role)
}

func (s *Service) SignOut(ctx context.Context, session Session) error {
	if s.revocations == nil {
		return nil
	}
	return s.revocations.Revoke(ctx, session.TokenID, session.ExpiresAt.Sub(s.tokens.now()))
}

func (s *Service) Authenticate(ctx context.Context, token string) (Session, error) {
	session, err := s.tokens.Parse(token)
	if err != nil {
		return Session{}, err
	}
	if s.revocations != nil {
		revoked, err := s.revocations.IsRevoked(ctx, session.TokenID)
		if err != nil {
			return Session{}, err
		}
		if revoked {
			return Session{}, fmt.Errorf("%w: signed out", ErrUnauthenticated)
		}
	}
	return session, nil
}
