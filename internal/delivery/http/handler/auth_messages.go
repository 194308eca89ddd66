package handler

import (
	"errors"

	"github.com/Rpoore10/health-hire/internal/identity"

	"github.com/gofiber/fiber/v3"
)

// Display vocabulary for provider failures. Raw provider errors never reach
// the user; unknown or uncoded failures fall back to a generic sentence.
var authCodeMessages = map[string]string{
	identity.CodeEmailAlreadyInUse: "Email already in use. Try signing in instead.",
	identity.CodeInvalidEmail:      "That email doesn't look right.",
	identity.CodeWeakPassword:      "Password should be at least 6 characters.",
	identity.CodeWrongPassword:     "Incorrect password. Try again or reset it.",
	identity.CodeUserNotFound:      "No account with that email. Try signing up.",
	identity.CodeTooManyRequests:   "Too many attempts. Please wait a minute and try again.",
}

var authCodeStatuses = map[string]int{
	identity.CodeEmailAlreadyInUse: fiber.StatusConflict,
	identity.CodeInvalidEmail:      fiber.StatusBadRequest,
	identity.CodeWeakPassword:      fiber.StatusBadRequest,
	identity.CodeWrongPassword:     fiber.StatusUnauthorized,
	identity.CodeUserNotFound:      fiber.StatusNotFound,
	identity.CodeTooManyRequests:   fiber.StatusTooManyRequests,
}

const authFallbackMessage = "Something went wrong. Please try again."

const (
	msgSignedIn       = "Signed in ✅"
	msgAccountCreated = "Account created ✅ You're signed in."
	msgResetSent      = "Password reset email sent. Check your inbox."
	msgResetNeedEmail = "Enter your email first, then click 'Forgot password'."
)

// authDisplay maps a provider failure to the status and sentence shown to
// the user.
func authDisplay(err error) (int, string) {
	var idErr *identity.Error
	if errors.As(err, &idErr) && idErr.Kind == identity.KindAuthCode {
		if msg, ok := authCodeMessages[idErr.Code]; ok {
			return authCodeStatuses[idErr.Code], msg
		}
	}
	return fiber.StatusInternalServerError, authFallbackMessage
}

// signupModeNudge flags the recoverable signup failure: the email already
// has an account, so the client should flip to signin mode.
func signupModeNudge(err error) map[string]any {
	var idErr *identity.Error
	if errors.As(err, &idErr) && idErr.Code == identity.CodeEmailAlreadyInUse {
		return map[string]any{"mode": "signin"}
	}
	return nil
}
