package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"quantum-pipeline/internal/domain"
	"quantum-pipeline/internal/jobs"
	"quantum-pipeline/internal/metrics"
	"quantum-pipeline/internal/session"
)

var (
	// ErrInvalidCredentials indicates that provided login credentials were rejected.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrPasswordMismatch is returned when the signup confirmation differs.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrTermsNotAccepted is returned when signup is attempted without agreeing to the terms.
	ErrTermsNotAccepted = errors.New("terms not accepted")
	// ErrRegistrationFailed covers every other rejected signup.
	ErrRegistrationFailed = errors.New("registration failed")
	// ErrUnknownRole is returned for roles outside the known set.
	ErrUnknownRole = errors.New("unknown role")
)

type LoginInput struct {
	Email    string
	Password string
	Role     string
}

type SignupInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Role            string
	AgreeToTerms    bool
}

// EventRecorder counts authentication outcomes.
type EventRecorder interface {
	SessionEvent(event string)
}

// ConversationResetter drops per-session assistant state.
type ConversationResetter interface {
	Reset(owner string)
}

// AuthService drives the sign-in state of a client session.
type AuthService interface {
	Login(ctx context.Context, store *session.Store, in LoginInput) (domain.Identity, error)
	Signup(ctx context.Context, store *session.Store, in SignupInput) (domain.Identity, error)
	Logout(ctx context.Context, owner string, store *session.Store) error
}

type authService struct {
	jobs   jobs.Manager
	chats  ConversationResetter
	events EventRecorder
	logger *logrus.Logger
}

func NewAuthService(manager jobs.Manager, chats ConversationResetter, events EventRecorder, logger *logrus.Logger) AuthService {
	if logger == nil {
		logger = logrus.New()
	}
	return &authService{
		jobs:   manager,
		chats:  chats,
		events: events,
		logger: logger,
	}
}

func (s *authService) Login(ctx context.Context, store *session.Store, in LoginInput) (domain.Identity, error) {
	role, err := parseRole(in.Role)
	if err != nil {
		return domain.Identity{}, err
	}

	if !store.Login(ctx, in.Email, in.Password, role) {
		s.record(metrics.EventLoginFailed)
		if err := ctx.Err(); err != nil {
			return domain.Identity{}, err
		}
		return domain.Identity{}, ErrInvalidCredentials
	}

	identity, _ := store.Current()
	s.record(metrics.EventLogin)
	s.logger.WithField("identity", identity.ID).Info("signed in")
	return identity, nil
}

func (s *authService) Signup(ctx context.Context, store *session.Store, in SignupInput) (domain.Identity, error) {
	role, err := parseRole(in.Role)
	if err != nil {
		return domain.Identity{}, err
	}
	if in.Password != in.ConfirmPassword {
		s.record(metrics.EventSignupFailed)
		return domain.Identity{}, ErrPasswordMismatch
	}
	if !in.AgreeToTerms {
		s.record(metrics.EventSignupFailed)
		return domain.Identity{}, ErrTermsNotAccepted
	}

	if !store.Signup(ctx, in.Name, in.Email, in.Password, role) {
		s.record(metrics.EventSignupFailed)
		if err := ctx.Err(); err != nil {
			return domain.Identity{}, err
		}
		return domain.Identity{}, ErrRegistrationFailed
	}

	identity, _ := store.Current()
	s.record(metrics.EventSignup)
	s.logger.WithField("identity", identity.ID).Info("signed up")
	return identity, nil
}

// Logout clears the identity and stops everything the session had running.
func (s *authService) Logout(ctx context.Context, owner string, store *session.Store) error {
	store.Logout()
	if s.chats != nil {
		s.chats.Reset(owner)
	}
	s.record(metrics.EventLogout)
	if s.jobs == nil {
		return nil
	}
	return s.jobs.CancelAll(ctx, owner)
}

func (s *authService) record(event string) {
	if s.events != nil {
		s.events.SessionEvent(event)
	}
}

func parseRole(raw string) (domain.Role, error) {
	if strings.TrimSpace(raw) == "" {
		return domain.RoleStudent, nil
	}
	role, err := domain.ParseRole(raw)
	if err != nil {
		return "", errors.Join(ErrUnknownRole, err)
	}
	return role, nil
}
