package local

import (
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/Rpoore10/health-hire/internal/identity"
	"github.com/Rpoore10/health-hire/internal/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUsers struct {
	byEmail     map[string]User
	createErr   error
	existsQueue []bool
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]User{}}
}

func (f *fakeUsers) Create(_ context.Context, u User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if len(f.existsQueue) > 0 {
		v := f.existsQueue[0]
		f.existsQueue = f.existsQueue[1:]
		return v, nil
	}
	_, ok := f.byEmail[email]
	return ok, nil
}

type fakeLimiter struct {
	limited  bool
	failures map[string]int
	cleared  []string
}

func newFakeLimiter() *fakeLimiter {
	return &fakeLimiter{failures: map[string]int{}}
}

func (f *fakeLimiter) TooMany(context.Context, string) bool { return f.limited }
func (f *fakeLimiter) RecordFailure(_ context.Context, key string) {
	f.failures[key]++
}
func (f *fakeLimiter) Clear(_ context.Context, key string) {
	f.cleared = append(f.cleared, key)
}

type fakeResets struct {
	saved map[string]string
	err   error
}

func newFakeResets() *fakeResets { return &fakeResets{saved: map[string]string{}} }

func (f *fakeResets) Save(_ context.Context, token, userID string, _ time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.saved[token] = userID
	return nil
}

type fixture struct {
	client  *Client
	users   *fakeUsers
	limiter *fakeLimiter
	resets  *fakeResets
	events  []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:   newFakeUsers(),
		limiter: newFakeLimiter(),
		resets:  newFakeResets(),
	}
	notify := func(event string, _ identity.Session) {
		f.events = append(f.events, event)
	}
	f.client = NewClient(
		f.users,
		jwt.NewHMACService("test-secret", time.Hour),
		f.limiter,
		f.resets,
		notify,
		log.New(testWriter{t}, "", 0),
	)
	return f
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func authCode(t *testing.T, err error) string {
	t.Helper()
	var idErr *identity.Error
	require.ErrorAs(t, err, &idErr)
	require.Equal(t, identity.KindAuthCode, idErr.Kind)
	return idErr.Code
}

func TestSignUp_Success(t *testing.T) {
	f := newFixture(t)

	s, err := f.client.SignUp(context.Background(), "  Em@Example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "em@example.com", s.Email)
	assert.NotEmpty(t, s.UserID)
	assert.NotEmpty(t, s.Token)
	assert.Equal(t, []string{EventSignedUp}, f.events)

	stored := f.users.byEmail["em@example.com"]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
}

func TestSignUp_EmailAlreadyInUse(t *testing.T) {
	f := newFixture(t)
	_, err := f.client.SignUp(context.Background(), "em@example.com", "secret1")
	require.NoError(t, err)

	_, err = f.client.SignUp(context.Background(), "em@example.com", "other-secret")
	assert.Equal(t, identity.CodeEmailAlreadyInUse, authCode(t, err))
}

func TestSignUp_WeakPassword(t *testing.T) {
	f := newFixture(t)
	_, err := f.client.SignUp(context.Background(), "em@example.com", "12345")
	assert.Equal(t, identity.CodeWeakPassword, authCode(t, err))
}

func TestSignUp_InvalidEmail(t *testing.T) {
	f := newFixture(t)
	for _, email := range []string{"", "nodomain@", "@nolocal", "no-at-sign"} {
		_, err := f.client.SignUp(context.Background(), email, "secret1")
		assert.Equal(t, identity.CodeInvalidEmail, authCode(t, err), "email %q", email)
	}
}

func TestSignUp_CreateRaceReportsEmailInUse(t *testing.T) {
	f := newFixture(t)
	f.users.createErr = errors.New("duplicate key value violates unique constraint")
	// pre-create check misses the concurrent row, recheck finds it
	f.users.existsQueue = []bool{false, true}

	_, err := f.client.SignUp(context.Background(), "em@example.com", "secret1")
	assert.Equal(t, identity.CodeEmailAlreadyInUse, authCode(t, err))
}

func TestSignUp_CreateErrorWithoutRace(t *testing.T) {
	f := newFixture(t)
	f.users.createErr = errors.New("connection reset")

	_, err := f.client.SignUp(context.Background(), "em@example.com", "secret1")
	var idErr *identity.Error
	require.ErrorAs(t, err, &idErr)
	assert.Equal(t, identity.KindNetwork, idErr.Kind)
}

func TestSignIn_Success(t *testing.T) {
	f := newFixture(t)
	_, err := f.client.SignUp(context.Background(), "em@example.com", "secret1")
	require.NoError(t, err)

	s, err := f.client.SignIn(context.Background(), "em@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "em@example.com", s.Email)
	assert.NotEmpty(t, s.Token)
	assert.Contains(t, f.limiter.cleared, attemptKeyPrefix+"em@example.com")
	assert.Equal(t, []string{EventSignedUp, EventSignedIn}, f.events)
}

func TestSignIn_UserNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.client.SignIn(context.Background(), "ghost@example.com", "secret1")
	assert.Equal(t, identity.CodeUserNotFound, authCode(t, err))
	assert.Equal(t, 1, f.limiter.failures[attemptKeyPrefix+"ghost@example.com"])
}

func TestSignIn_WrongPassword(t *testing.T) {
	f := newFixture(t)
	_, err := f.client.SignUp(context.Background(), "em@example.com", "secret1")
	require.NoError(t, err)

	_, err = f.client.SignIn(context.Background(), "em@example.com", "wrong")
	assert.Equal(t, identity.CodeWrongPassword, authCode(t, err))
	assert.Equal(t, 1, f.limiter.failures[attemptKeyPrefix+"em@example.com"])
}

func TestSignIn_TooManyRequests(t *testing.T) {
	f := newFixture(t)
	_, err := f.client.SignUp(context.Background(), "em@example.com", "secret1")
	require.NoError(t, err)
	f.limiter.limited = true

	_, err = f.client.SignIn(context.Background(), "em@example.com", "secret1")
	assert.Equal(t, identity.CodeTooManyRequests, authCode(t, err))
}

func TestSignOut(t *testing.T) {
	f := newFixture(t)

	err := f.client.SignOut(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, []string{EventSignedOut}, f.events)

	err = f.client.SignOut(context.Background(), "  ")
	var idErr *identity.Error
	require.ErrorAs(t, err, &idErr)
	assert.Equal(t, identity.KindValidation, idErr.Kind)
}

func TestSendPasswordReset(t *testing.T) {
	f := newFixture(t)
	_, err := f.client.SignUp(context.Background(), "em@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, f.client.SendPasswordReset(context.Background(), "em@example.com"))
	assert.Len(t, f.resets.saved, 1)

	err = f.client.SendPasswordReset(context.Background(), "ghost@example.com")
	assert.Equal(t, identity.CodeUserNotFound, authCode(t, err))
}
