// Package session owns the current identity and its bearer credential.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/taskdesk/client/domain"
	"github.com/taskdesk/client/repository"
)

// State is the session lifecycle phase. Loading lasts until the first
// Restore completes; afterwards the session is either Authenticated or
// Anonymous, with SignIn/SignOut as the only transitions between the two.
type State string

const (
	StateLoading       State = "loading"
	StateAnonymous     State = "anonymous"
	StateAuthenticated State = "authenticated"
)

// TokenSink receives the credential that must accompany outbound requests.
type TokenSink interface {
	AttachCredential(token string)
	DetachCredential()
}

// Session holds the current identity and coordinates credential storage,
// outbound attachment and identity resolution.
type Session struct {
	auth   repository.AuthGateway
	creds  repository.CredentialStore
	sink   TokenSink
	logger *zap.Logger

	mu        sync.RWMutex
	state     State
	identity  *domain.Identity
	onSignOut []func()
}

func New(auth repository.AuthGateway, creds repository.CredentialStore, sink TokenSink, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		auth:   auth,
		creds:  creds,
		sink:   sink,
		logger: logger,
		state:  StateLoading,
	}
}

// OnSignOut registers a callback invoked after every sign-out, including
// forced ones. Callbacks run on the signing-out goroutine.
func (s *Session) OnSignOut(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSignOut = append(s.onSignOut, fn)
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Identity returns the current identity, or nil while anonymous or loading.
func (s *Session) Identity() *domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	id := *s.identity
	return &id
}

// Restore bootstraps the session from the stored credential. Exactly one
// verification round-trip happens when a credential exists; its outcome,
// success or failure, moves the session out of Loading. A rejected
// credential is discarded.
func (s *Session) Restore(ctx context.Context) error {
	token, err := s.creds.Get()
	if err != nil {
		s.setAnonymous()
		return domain.WrapError(domain.ErrCodeInternal, "credential store read failed", err)
	}
	if token == "" {
		s.setAnonymous()
		return nil
	}

	s.sink.AttachCredential(token)
	identity, err := s.auth.Verify(ctx)
	if err != nil {
		s.logger.Warn("stored credential rejected, discarding", zap.Error(err))
		s.sink.DetachCredential()
		if clearErr := s.creds.Clear(); clearErr != nil {
			s.logger.Error("credential clear failed", zap.Error(clearErr))
		}
		s.setAnonymous()
		return nil
	}

	s.setAuthenticated(identity)
	s.logExpiry(token)
	return nil
}

// SignIn stores the credential, attaches it to the outbound boundary and
// resolves the identity behind it. On failure the credential stays stored
// but the session remains anonymous; the caller may retry or sign out to
// clear the slot.
func (s *Session) SignIn(ctx context.Context, credential string) error {
	if credential == "" {
		return domain.ErrInvalidPayload
	}
	if err := s.creds.Set(credential); err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "credential store write failed", err)
	}
	s.sink.AttachCredential(credential)

	identity, err := s.auth.Verify(ctx)
	if err != nil {
		return domain.WrapError(domain.ErrCodeUnauthorized, "sign-in verification failed", err)
	}

	s.setAuthenticated(identity)
	s.logExpiry(credential)
	s.logger.Info("signed in",
		zap.String("user_id", identity.ID),
		zap.String("role", string(identity.Role)))
	return nil
}

// Login exchanges email/password for a credential and signs in with it.
func (s *Session) Login(ctx context.Context, email, password string) error {
	token, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return s.SignIn(ctx, token)
}

// Register creates a new identity through the auth boundary. It does not
// sign the new identity in.
func (s *Session) Register(ctx context.Context, profile domain.Profile) (*domain.Identity, error) {
	if profile.Email == "" || profile.Password == "" || !profile.Role.Valid() {
		return nil, domain.ErrInvalidPayload
	}
	return s.auth.Register(ctx, profile)
}

// SignOut erases the stored credential, detaches it from the outbound
// boundary and clears the identity. Registered callbacks run afterwards.
func (s *Session) SignOut() {
	if err := s.creds.Clear(); err != nil {
		s.logger.Error("credential clear failed", zap.Error(err))
	}
	s.sink.DetachCredential()

	s.mu.Lock()
	s.identity = nil
	s.state = StateAnonymous
	callbacks := make([]func(), len(s.onSignOut))
	copy(callbacks, s.onSignOut)
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
	s.logger.Info("signed out")
}

func (s *Session) setAnonymous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
	s.state = StateAnonymous
}

func (s *Session) setAuthenticated(identity *domain.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = identity
	s.state = StateAuthenticated
}

func (s *Session) logExpiry(token string) {
	expiry, ok := CredentialExpiry(token)
	if !ok {
		return
	}
	s.logger.Debug("credential expiry", zap.Time("expires_at", expiry))
	if expiry.Before(time.Now()) {
		s.logger.Warn("credential is past its exp claim; server may reject it soon")
	}
}

// CredentialExpiry peeks at the exp claim of a JWT credential without
// verifying the signature. Verification is the server's job; this is only a
// local hint for logging and proactive re-authentication.
func CredentialExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
