// Package identity defines the identity-provider boundary. Handlers depend
// on the Client interface and on typed errors discriminated by kind, never
// on a concrete provider or on structural probing of unknown error values.
package identity

import "context"

// Session is the authenticated identity of the current user, valid until
// sign-out. Email is empty when the provider has none on record.
type Session struct {
	UserID string
	Email  string
	Token  string
}

type Client interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignUp(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context, userID string) error
	SendPasswordReset(ctx context.Context, email string) error
}

type ErrorKind string

const (
	// KindAuthCode carries one of the auth/* provider codes below.
	KindAuthCode   ErrorKind = "auth-code"
	KindValidation ErrorKind = "validation"
	KindNetwork    ErrorKind = "network"
	KindUnknown    ErrorKind = "unknown"
)

// Provider error codes. This is the closed set handlers map to display
// messages; anything else falls back to a generic sentence.
const (
	CodeEmailAlreadyInUse = "auth/email-already-in-use"
	CodeInvalidEmail      = "auth/invalid-email"
	CodeWeakPassword      = "auth/weak-password"
	CodeWrongPassword     = "auth/wrong-password"
	CodeUserNotFound      = "auth/user-not-found"
	CodeTooManyRequests   = "auth/too-many-requests"
)

type Error struct {
	Kind ErrorKind
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := string(e.Kind)
	if e.Code != "" {
		msg += ": " + e.Code
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func NewCodeError(code string) *Error {
	return &Error{Kind: KindAuthCode, Code: code}
}
