// Package provision guarantees exactly one employer profile document per
// user, created on first login and touched on every subsequent one.
package provision

import (
	"context"
	"errors"
	"strings"

	"github.com/Rpoore10/health-hire/internal/docstore"
)

const Collection = "employers"

var ErrEmptyUserID = errors.New("empty user id")

type Provisioner struct {
	store docstore.Store
}

func NewProvisioner(store docstore.Store) *Provisioner {
	return &Provisioner{store: store}
}

// EnsureEmployerProfile creates employers/{userID} on first call and
// refreshes updatedAt on every call after that. The email argument is only
// written on creation; a changed provider email is never propagated.
//
// The existence check and the write are not atomic. Two concurrent first
// logins may both take the create branch; the store's upsert keeps the
// earlier createdAt, and the remaining fields are last-writer-wins. Store
// errors propagate unwrapped, with no retry.
func (p *Provisioner) EnsureEmployerProfile(ctx context.Context, userID string, email *string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrEmptyUserID
	}

	_, err := p.store.GetDocument(ctx, Collection, userID)
	if errors.Is(err, docstore.ErrNotFound) {
		var emailField any
		if email != nil {
			emailField = *email
		}
		return p.store.SetDocument(ctx, Collection, userID, docstore.Fields{
			"email":     emailField,
			"orgName":   nil,
			"createdAt": docstore.ServerTimestamp(),
			"updatedAt": docstore.ServerTimestamp(),
		})
	}
	if err != nil {
		return err
	}

	return p.store.UpdateDocument(ctx, Collection, userID, docstore.Fields{
		"updatedAt": docstore.ServerTimestamp(),
	})
}
