package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdesk/client/domain"
)

type fakeAuth struct {
	verifyIdentity *domain.Identity
	verifyErr      error
	verifyCalls    int

	loginToken string
	loginErr   error

	registered *domain.Profile
	registerID *domain.Identity
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.loginToken, nil
}

func (f *fakeAuth) Verify(ctx context.Context) (*domain.Identity, error) {
	f.verifyCalls++
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.verifyIdentity, nil
}

func (f *fakeAuth) Register(ctx context.Context, profile domain.Profile) (*domain.Identity, error) {
	f.registered = &profile
	return f.registerID, nil
}

type fakeStore struct {
	token  string
	getErr error
}

func (f *fakeStore) Get() (string, error) {
	return f.token, f.getErr
}

func (f *fakeStore) Set(credential string) error {
	f.token = credential
	return nil
}

func (f *fakeStore) Clear() error {
	f.token = ""
	return nil
}

type fakeSink struct {
	attached string
	detached int
}

func (f *fakeSink) AttachCredential(token string) { f.attached = token }
func (f *fakeSink) DetachCredential()             { f.attached = ""; f.detached++ }

var alice = domain.Identity{ID: "u-1", DisplayName: "Alice", Role: domain.RoleManager}

func TestRestoreWithoutStoredCredential(t *testing.T) {
	auth := &fakeAuth{}
	sess := New(auth, &fakeStore{}, &fakeSink{}, nil)
	assert.Equal(t, StateLoading, sess.State())

	require.NoError(t, sess.Restore(context.Background()))
	assert.Equal(t, StateAnonymous, sess.State())
	assert.Nil(t, sess.Identity())
	assert.Zero(t, auth.verifyCalls, "no credential means no verification round-trip")
}

func TestRestoreWithValidCredential(t *testing.T) {
	auth := &fakeAuth{verifyIdentity: &alice}
	store := &fakeStore{token: "tok-1"}
	sink := &fakeSink{}
	sess := New(auth, store, sink, nil)

	require.NoError(t, sess.Restore(context.Background()))
	assert.Equal(t, StateAuthenticated, sess.State())
	require.NotNil(t, sess.Identity())
	assert.Equal(t, "u-1", sess.Identity().ID)
	assert.Equal(t, "tok-1", sink.attached)
	assert.Equal(t, 1, auth.verifyCalls, "exactly one verification round-trip")
}

func TestRestoreDiscardsRejectedCredential(t *testing.T) {
	auth := &fakeAuth{verifyErr: domain.ErrUnauthorized}
	store := &fakeStore{token: "expired"}
	sink := &fakeSink{}
	sess := New(auth, store, sink, nil)

	require.NoError(t, sess.Restore(context.Background()))
	assert.Equal(t, StateAnonymous, sess.State())
	assert.Empty(t, store.token, "rejected credential is deleted")
	assert.Empty(t, sink.attached)
}

func TestSignInSuccess(t *testing.T) {
	auth := &fakeAuth{verifyIdentity: &alice}
	store := &fakeStore{}
	sink := &fakeSink{}
	sess := New(auth, store, sink, nil)

	require.NoError(t, sess.SignIn(context.Background(), "tok-9"))
	assert.Equal(t, StateAuthenticated, sess.State())
	assert.Equal(t, "tok-9", store.token)
	assert.Equal(t, "tok-9", sink.attached)
}

func TestSignInFailureKeepsCredentialButNoIdentity(t *testing.T) {
	auth := &fakeAuth{verifyErr: domain.ErrRemoteUnavailable}
	store := &fakeStore{}
	sess := New(auth, store, &fakeSink{}, nil)

	err := sess.SignIn(context.Background(), "tok-9")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
	assert.Equal(t, "tok-9", store.token, "credential stays stored; caller may retry or sign out")
	assert.Nil(t, sess.Identity())
	assert.NotEqual(t, StateAuthenticated, sess.State())
}

func TestSignInRejectsEmptyCredential(t *testing.T) {
	sess := New(&fakeAuth{}, &fakeStore{}, &fakeSink{}, nil)
	err := sess.SignIn(context.Background(), "")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestLoginExchangesAndSignsIn(t *testing.T) {
	auth := &fakeAuth{loginToken: "issued", verifyIdentity: &alice}
	store := &fakeStore{}
	sess := New(auth, store, &fakeSink{}, nil)

	require.NoError(t, sess.Login(context.Background(), "a@example.com", "pw"))
	assert.Equal(t, "issued", store.token)
	assert.Equal(t, StateAuthenticated, sess.State())
}

func TestSignOut(t *testing.T) {
	auth := &fakeAuth{verifyIdentity: &alice}
	store := &fakeStore{token: "tok"}
	sink := &fakeSink{}
	sess := New(auth, store, sink, nil)
	require.NoError(t, sess.Restore(context.Background()))

	var callbackRuns int
	sess.OnSignOut(func() { callbackRuns++ })

	sess.SignOut()
	assert.Equal(t, StateAnonymous, sess.State())
	assert.Nil(t, sess.Identity())
	assert.Empty(t, store.token)
	assert.Equal(t, 1, sink.detached)
	assert.Equal(t, 1, callbackRuns)
}

func TestRegisterValidation(t *testing.T) {
	auth := &fakeAuth{registerID: &alice}
	sess := New(auth, &fakeStore{}, &fakeSink{}, nil)

	_, err := sess.Register(context.Background(), domain.Profile{Email: "a@b.c"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	_, err = sess.Register(context.Background(), domain.Profile{
		DisplayName: "A",
		Email:       "a@b.c",
		Password:    "pw",
		Role:        domain.RoleEmployee,
	})
	require.NoError(t, err)
	require.NotNil(t, auth.registered)
	assert.Equal(t, domain.RoleEmployee, auth.registered.Role)
}

func TestCredentialExpiry(t *testing.T) {
	expires := time.Now().Add(time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u-1",
		ExpiresAt: jwt.NewNumericDate(expires),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	got, ok := CredentialExpiry(token)
	require.True(t, ok)
	assert.True(t, got.Equal(expires))

	_, ok = CredentialExpiry("not-a-jwt")
	assert.False(t, ok)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "u-1",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, ok = CredentialExpiry(noExp)
	assert.False(t, ok)
}
