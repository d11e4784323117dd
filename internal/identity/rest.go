package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/quizzard-app/roster-api/pkg/config"
)

// REST talks to the hosted identity service. Endpoint shapes follow the
// Google Identity Toolkit contract.
type REST struct {
	baseURL string
	apiKey  string
	client  *http.Client

	mu      sync.Mutex
	session string
}

var _ Provider = (*REST)(nil)

// NewREST builds a client from configuration.
func NewREST(cfg config.IdentityConfig) *REST {
	return &REST{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

type signUpResponse struct {
	LocalID string `json:"localId"`
	IDToken string `json:"idToken"`
}

type lookupResponse struct {
	Users []struct {
		LocalID string `json:"localId"`
	} `json:"users"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (r *REST) CreateIdentity(ctx context.Context, email, password string) (string, error) {
	var resp signUpResponse
	err := r.post(ctx, "accounts:signUp", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return "", err
	}

	// The service signs the caller in as the new account.
	r.RestoreSession(resp.IDToken)
	return resp.LocalID, nil
}

func (r *REST) LookupIdentity(ctx context.Context, email string) (string, error) {
	var resp lookupResponse
	err := r.post(ctx, "accounts:lookup", map[string]interface{}{
		"email": []string{email},
	}, &resp)
	if err != nil {
		return "", err
	}
	if len(resp.Users) == 0 {
		return "", &ProviderError{Kind: KindOther, Err: fmt.Errorf("no identity for %s", email)}
	}
	return resp.Users[0].LocalID, nil
}

func (r *REST) CurrentSession() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

func (r *REST) RestoreSession(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session = token
}

func (r *REST) post(ctx context.Context, endpoint string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &ProviderError{Kind: KindOther, Err: err}
	}

	url := fmt.Sprintf("%s/v1/%s?key=%s", r.baseURL, endpoint, r.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &ProviderError{Kind: KindOther, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return &ProviderError{Kind: KindOther, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr apiError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return classify(resp.StatusCode, apiErr.Error.Message)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ProviderError{Kind: KindOther, Err: err}
	}
	return nil
}

func classify(status int, message string) error {
	err := fmt.Errorf("status %d: %s", status, message)
	switch {
	case strings.HasPrefix(message, "EMAIL_EXISTS"):
		return &ProviderError{Kind: KindAlreadyExists, Err: err}
	case strings.HasPrefix(message, "INVALID_EMAIL"):
		return &ProviderError{Kind: KindInvalidEmail, Err: err}
	case strings.HasPrefix(message, "WEAK_PASSWORD"):
		return &ProviderError{Kind: KindWeakCredential, Err: err}
	default:
		return &ProviderError{Kind: KindOther, Err: err}
	}
}
