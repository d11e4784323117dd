package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizzard-app/roster-api/pkg/config"
)

func restClient(t *testing.T, handler http.HandlerFunc) *REST {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewREST(config.IdentityConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
	})
}

func TestRESTCreateIdentity(t *testing.T) {
	client := restClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/accounts:signUp", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "ana@example.com", payload["email"])

		json.NewEncoder(w).Encode(map[string]string{
			"localId": "uid-1",
			"idToken": "token-for-ana",
		})
	})
	client.RestoreSession("operator-token")

	id, err := client.CreateIdentity(context.Background(), "ana@example.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", id)
	assert.Equal(t, "token-for-ana", client.CurrentSession())
}

func TestRESTCreateIdentityClassifiesAPIErrors(t *testing.T) {
	cases := []struct {
		message string
		want    Kind
	}{
		{"EMAIL_EXISTS", KindAlreadyExists},
		{"INVALID_EMAIL", KindInvalidEmail},
		{"WEAK_PASSWORD : Password should be at least 6 characters", KindWeakCredential},
		{"TOO_MANY_ATTEMPTS_TRY_LATER", KindOther},
	}
	for _, tc := range cases {
		client := restClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]string{"message": tc.message},
			})
		})

		_, err := client.CreateIdentity(context.Background(), "ana@example.com", "123456")
		require.Error(t, err, tc.message)
		assert.Equal(t, tc.want, KindOf(err), tc.message)
	}
}

func TestRESTLookupIdentity(t *testing.T) {
	client := restClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/accounts:lookup", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"users": []map[string]string{{"localId": "uid-9"}},
		})
	})

	id, err := client.LookupIdentity(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "uid-9", id)
}

func TestRESTLookupIdentityNoMatch(t *testing.T) {
	client := restClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"users": []interface{}{}})
	})

	_, err := client.LookupIdentity(context.Background(), "nobody@example.com")
	assert.Error(t, err)
}
