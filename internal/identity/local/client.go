// Package local implements the identity boundary in-process: bcrypt-hashed
// credentials in Postgres, HMAC session tokens, redis-backed attempt
// limiting. Failures surface as *identity.Error with the provider codes the
// display layer maps to messages.
package local

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/Rpoore10/health-hire/internal/identity"
	"github.com/Rpoore10/health-hire/internal/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen = 6
	resetTokenTTL  = 15 * time.Minute

	attemptKeyPrefix = "auth:attempts:"
)

const (
	EventSignedIn  = "signed_in"
	EventSignedUp  = "signed_up"
	EventSignedOut = "signed_out"
)

type ResetTokenStore interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
}

type Client struct {
	users   UserStore
	tokens  jwt.Service
	limiter AttemptLimiter
	resets  ResetTokenStore
	notify  func(event string, s identity.Session)
	logger  *log.Logger
}

func NewClient(
	users UserStore,
	tokens jwt.Service,
	limiter AttemptLimiter,
	resets ResetTokenStore,
	notify func(event string, s identity.Session),
	logger *log.Logger,
) *Client {
	return &Client{
		users:   users,
		tokens:  tokens,
		limiter: limiter,
		resets:  resets,
		notify:  notify,
		logger:  logger,
	}
}

func (c *Client) SignIn(ctx context.Context, email, password string) (identity.Session, error) {
	email = normalizeEmail(email)
	if !looksLikeEmail(email) {
		return identity.Session{}, identity.NewCodeError(identity.CodeInvalidEmail)
	}

	key := attemptKeyPrefix + email
	if c.limiter != nil && c.limiter.TooMany(ctx, key) {
		return identity.Session{}, identity.NewCodeError(identity.CodeTooManyRequests)
	}

	u, err := c.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.recordFailure(ctx, key)
			return identity.Session{}, identity.NewCodeError(identity.CodeUserNotFound)
		}
		return identity.Session{}, &identity.Error{Kind: identity.KindNetwork, Err: err}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		c.recordFailure(ctx, key)
		return identity.Session{}, identity.NewCodeError(identity.CodeWrongPassword)
	}

	if c.limiter != nil {
		c.limiter.Clear(ctx, key)
	}

	s, err := c.newSession(u)
	if err != nil {
		return identity.Session{}, err
	}
	c.emit(EventSignedIn, s)
	return s, nil
}

func (c *Client) SignUp(ctx context.Context, email, password string) (identity.Session, error) {
	email = normalizeEmail(email)
	if !looksLikeEmail(email) {
		return identity.Session{}, identity.NewCodeError(identity.CodeInvalidEmail)
	}
	if len(strings.TrimSpace(password)) < minPasswordLen {
		return identity.Session{}, identity.NewCodeError(identity.CodeWeakPassword)
	}

	exists, err := c.users.ExistsByEmail(ctx, email)
	if err != nil {
		return identity.Session{}, &identity.Error{Kind: identity.KindNetwork, Err: err}
	}
	if exists {
		return identity.Session{}, identity.NewCodeError(identity.CodeEmailAlreadyInUse)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return identity.Session{}, &identity.Error{Kind: identity.KindUnknown, Err: err}
	}

	u := User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := c.users.Create(ctx, u); err != nil {
		// the unique index may have raced a concurrent signup
		exists, exErr := c.users.ExistsByEmail(ctx, email)
		if exErr == nil && exists {
			return identity.Session{}, identity.NewCodeError(identity.CodeEmailAlreadyInUse)
		}
		return identity.Session{}, &identity.Error{Kind: identity.KindNetwork, Err: err}
	}

	s, err := c.newSession(u)
	if err != nil {
		return identity.Session{}, err
	}
	c.emit(EventSignedUp, s)
	return s, nil
}

func (c *Client) SignOut(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return &identity.Error{Kind: identity.KindValidation, Err: errors.New("empty user id")}
	}
	c.emit(EventSignedOut, identity.Session{UserID: userID})
	return nil
}

// SendPasswordReset issues a single-use reset token. Delivery is out of
// scope; the token is stored with a TTL and logged.
func (c *Client) SendPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if !looksLikeEmail(email) {
		return identity.NewCodeError(identity.CodeInvalidEmail)
	}

	u, err := c.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return identity.NewCodeError(identity.CodeUserNotFound)
		}
		return &identity.Error{Kind: identity.KindNetwork, Err: err}
	}

	token := uuid.NewString()
	if c.resets != nil {
		if err := c.resets.Save(ctx, token, u.ID.String(), resetTokenTTL); err != nil {
			return &identity.Error{Kind: identity.KindNetwork, Err: err}
		}
	}
	if c.logger != nil {
		c.logger.Printf("password reset issued | email=%s token=%s", email, token)
	}
	return nil
}

func (c *Client) newSession(u User) (identity.Session, error) {
	token, err := c.tokens.GenerateSessionToken(u.ID, u.Email)
	if err != nil {
		return identity.Session{}, &identity.Error{Kind: identity.KindUnknown, Err: err}
	}
	return identity.Session{
		UserID: u.ID.String(),
		Email:  u.Email,
		Token:  token,
	}, nil
}

func (c *Client) recordFailure(ctx context.Context, key string) {
	if c.limiter != nil {
		c.limiter.RecordFailure(ctx, key)
	}
}

func (c *Client) emit(event string, s identity.Session) {
	if c.notify != nil {
		c.notify(event, s)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func looksLikeEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return !strings.ContainsAny(email, " \t")
}
