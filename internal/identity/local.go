package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/quizzard-app/roster-api/internal/store"
)

const minPasswordLength = 6

// Local is a document-store backed provider for development and tests. It
// reproduces the remote service's behaviour faithfully, including the
// session switch on CreateIdentity, so the orchestrator's restore discipline
// is exercised against it.
type Local struct {
	store  store.Store
	secret []byte

	mu      sync.Mutex
	session string
}

var _ Provider = (*Local)(nil)

// NewLocal builds a local provider signing session tokens with secret.
func NewLocal(s store.Store, secret string) *Local {
	return &Local{store: s, secret: []byte(secret)}
}

func (l *Local) CreateIdentity(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return "", &ProviderError{Kind: KindInvalidEmail, Err: fmt.Errorf("invalid email %q", email)}
	}
	if len(password) < minPasswordLength {
		return "", &ProviderError{Kind: KindWeakCredential, Err: fmt.Errorf("password shorter than %d characters", minPasswordLength)}
	}

	existing, err := l.store.Query(ctx, store.CollectionIdentities, store.Fields{"email": email})
	if err != nil {
		return "", &ProviderError{Kind: KindOther, Err: err}
	}
	if len(existing) > 0 {
		return "", &ProviderError{Kind: KindAlreadyExists, Err: fmt.Errorf("identity exists for %s", email)}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", &ProviderError{Kind: KindOther, Err: err}
	}

	id, err := l.store.Insert(ctx, store.CollectionIdentities, store.Fields{
		"email":        email,
		"passwordHash": string(hash),
		"createdAt":    time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", &ProviderError{Kind: KindOther, Err: err}
	}

	// Same side effect as the remote service: the caller is now signed in
	// as the identity it just created.
	token, err := l.signSession(id, email)
	if err != nil {
		return "", &ProviderError{Kind: KindOther, Err: err}
	}
	l.RestoreSession(token)

	return id, nil
}

func (l *Local) LookupIdentity(ctx context.Context, email string) (string, error) {
	docs, err := l.store.Query(ctx, store.CollectionIdentities, store.Fields{"email": strings.TrimSpace(email)})
	if err != nil {
		return "", &ProviderError{Kind: KindOther, Err: err}
	}
	if len(docs) == 0 {
		return "", &ProviderError{Kind: KindOther, Err: fmt.Errorf("no identity for %s", email)}
	}
	return docs[0].ID, nil
}

func (l *Local) CurrentSession() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.session
}

func (l *Local) RestoreSession(token string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.session = token
}

func (l *Local) signSession(id, email string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":   id,
		"email": email,
		"iat":   jwt.NewNumericDate(now),
		"exp":   jwt.NewNumericDate(now.Add(time.Hour)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(l.secret)
}
