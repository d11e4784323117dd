// Package identity wraps the external authentication service that owns
// login accounts. The provider's create-identity call carries a surprising
// contract inherited from the upstream service: it switches the caller's
// active session to the identity it just created. Callers that provision on
// behalf of an operator must snapshot the session first and restore it after
// every create call.
package identity

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies provider failures.
type Kind string

const (
	KindAlreadyExists  Kind = "already_exists"
	KindInvalidEmail   Kind = "invalid_email"
	KindWeakCredential Kind = "weak_credential"
	KindOther          Kind = "other"
)

// ProviderError is a classified identity provider failure.
type ProviderError struct {
	Kind Kind
	Err  error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("identity provider: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("identity provider: %s", e.Kind)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// KindOf extracts the failure kind, defaulting to KindOther for unclassified
// errors (transport failures, timeouts).
func KindOf(err error) Kind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindOther
}

// IsAlreadyExists reports whether the error means the identity was created
// by a prior run.
func IsAlreadyExists(err error) bool {
	return KindOf(err) == KindAlreadyExists
}

// Provider is the identity service contract consumed by provisioning.
type Provider interface {
	// CreateIdentity registers (email, password) and returns the new
	// identity id. Side effect, per the upstream contract: the provider's
	// current session becomes the new identity's session.
	CreateIdentity(ctx context.Context, email, password string) (string, error)
	// LookupIdentity resolves an existing identity id by email.
	LookupIdentity(ctx context.Context, email string) (string, error)
	// CurrentSession returns the caller's active session token.
	CurrentSession() string
	// RestoreSession reinstates a previously snapshotted session token.
	RestoreSession(token string)
}
