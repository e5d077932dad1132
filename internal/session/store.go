package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"quantum-pipeline/internal/domain"
)

var (
	// ErrNotAuthenticated is returned by operations that need a signed-in identity.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSecretMismatch indicates the current secret did not match the stored one.
	ErrSecretMismatch = errors.New("current password is incorrect")
	// ErrConfirmMismatch indicates the new secret and its confirmation differ.
	ErrConfirmMismatch = errors.New("passwords do not match")
	// ErrMissingField is returned when a required profile field is blank.
	ErrMissingField = errors.New("required field is empty")
)

// Verifier decides whether a credential pair may sign in. It is the
// boundary where a real credential check would plug in.
type Verifier interface {
	Verify(ctx context.Context, email, secret string) error
}

// PlaceholderVerifier accepts every credential pair. No credential check
// exists behind it.
type PlaceholderVerifier struct{}

func (PlaceholderVerifier) Verify(context.Context, string, string) error { return nil }

// Option customises a Store.
type Option func(*Store)

// WithLatency makes Login and Signup wait d before resolving.
func WithLatency(d time.Duration) Option {
	return func(s *Store) { s.latency = d }
}

// WithVerifier replaces the placeholder verifier.
func WithVerifier(v Verifier) Option {
	return func(s *Store) {
		if v != nil {
			s.verifier = v
		}
	}
}

// WithHashCost sets the bcrypt cost used for the retained secret hash.
func WithHashCost(cost int) Option {
	return func(s *Store) { s.hashCost = cost }
}

// Store holds the identity of one client. The zero identity means the
// client is not authenticated.
type Store struct {
	mu         sync.RWMutex
	identity   *domain.Identity
	secretHash []byte
	settings   domain.Settings

	latency  time.Duration
	verifier Verifier
	hashCost int
	hash     func(secret []byte, cost int) ([]byte, error)
}

// New returns an empty, unauthenticated store.
func New(opts ...Option) *Store {
	s := &Store{
		verifier: PlaceholderVerifier{},
		hashCost: bcrypt.DefaultCost,
		hash:     bcrypt.GenerateFromPassword,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login signs in with address and secret. It returns false, leaving the
// store untouched, when either is blank, the role is unknown, the verifier
// rejects the pair or ctx ends while waiting.
func (s *Store) Login(ctx context.Context, address, secret string, role domain.Role) bool {
	if err := s.wait(ctx); err != nil {
		return false
	}

	address = strings.TrimSpace(address)
	if address == "" || strings.TrimSpace(secret) == "" {
		return false
	}
	role, ok := normalizeRole(role)
	if !ok {
		return false
	}
	if err := s.verifier.Verify(ctx, address, secret); err != nil {
		return false
	}

	s.establish(domain.Identity{
		ID:    uuid.NewString(),
		Name:  nameFromAddress(address),
		Email: address,
		Role:  role,
	}, secret)
	return true
}

// Signup registers and signs in. Name, address and secret are all required.
func (s *Store) Signup(ctx context.Context, name, address, secret string, role domain.Role) bool {
	if err := s.wait(ctx); err != nil {
		return false
	}

	name = strings.TrimSpace(name)
	address = strings.TrimSpace(address)
	if name == "" || address == "" || strings.TrimSpace(secret) == "" {
		return false
	}
	role, ok := normalizeRole(role)
	if !ok {
		return false
	}
	if err := s.verifier.Verify(ctx, address, secret); err != nil {
		return false
	}

	s.establish(domain.Identity{
		ID:    uuid.NewString(),
		Name:  name,
		Email: address,
		Role:  role,
	}, secret)
	return true
}

// Logout clears the identity. Calling it on an empty store is a no-op.
func (s *Store) Logout() {
	s.mu.Lock()
	s.identity = nil
	s.secretHash = nil
	s.settings = domain.Settings{}
	s.mu.Unlock()
}

// Current returns a copy of the signed-in identity.
func (s *Store) Current() (domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return domain.Identity{}, false
	}
	return *s.identity, true
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil
}

// UpdateProfile edits the visible fields of the current identity.
func (s *Store) UpdateProfile(name, email string, role domain.Role) (domain.Identity, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return domain.Identity{}, ErrMissingField
	}
	role, ok := normalizeRole(role)
	if !ok {
		return domain.Identity{}, ErrMissingField
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return domain.Identity{}, ErrNotAuthenticated
	}
	s.identity.Name = name
	s.identity.Email = email
	s.identity.Role = role
	return *s.identity, nil
}

// ChangeSecret replaces the retained secret after checking the current one.
func (s *Store) ChangeSecret(current, next, confirm string) error {
	if strings.TrimSpace(next) == "" {
		return ErrMissingField
	}
	if next != confirm {
		return ErrConfirmMismatch
	}

	s.mu.RLock()
	owner := s.identity
	hash := s.secretHash
	s.mu.RUnlock()
	if owner == nil {
		return ErrNotAuthenticated
	}
	if hash == nil || bcrypt.CompareHashAndPassword(hash, []byte(current)) != nil {
		return ErrSecretMismatch
	}

	newHash, err := s.hash([]byte(next), s.hashCost)
	if err != nil {
		return err
	}

	// The identity may have signed out, or been replaced by another sign-in,
	// while the new secret was being hashed.
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity != owner {
		return ErrNotAuthenticated
	}
	s.secretHash = newHash
	return nil
}

// Settings returns the notification and display settings of the identity.
func (s *Store) Settings() (domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return domain.Settings{}, ErrNotAuthenticated
	}
	return s.settings, nil
}

func (s *Store) UpdateSettings(settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return ErrNotAuthenticated
	}
	s.settings = settings
	return nil
}

func (s *Store) establish(identity domain.Identity, secret string) {
	// A secret bcrypt cannot hash (over 72 bytes) still signs in; only the
	// change-password check becomes unavailable.
	hash, err := s.hash([]byte(secret), s.hashCost)
	if err != nil {
		hash = nil
	}

	s.mu.Lock()
	s.identity = &identity
	s.secretHash = hash
	s.settings = domain.DefaultSettings()
	s.mu.Unlock()
}

func (s *Store) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func normalizeRole(role domain.Role) (domain.Role, bool) {
	if role == "" {
		return domain.RoleStudent, true
	}
	parsed, err := domain.ParseRole(string(role))
	if err != nil {
		return "", false
	}
	return parsed, true
}

func nameFromAddress(address string) string {
	local, _, found := strings.Cut(address, "@")
	if !found {
		return address
	}
	return local
}
