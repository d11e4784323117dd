package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizzard-app/roster-api/internal/store"
)

func TestLocalCreateIdentitySwitchesSession(t *testing.T) {
	local := NewLocal(store.NewMemory(), "test-secret")
	local.RestoreSession("operator-token")

	id, err := local.CreateIdentity(context.Background(), "ana@example.com", "123456")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	// Same side effect as the remote service: creating an identity signs the
	// caller in as that identity.
	assert.NotEqual(t, "operator-token", local.CurrentSession())
	assert.NotEmpty(t, local.CurrentSession())

	local.RestoreSession("operator-token")
	assert.Equal(t, "operator-token", local.CurrentSession())
}

func TestLocalCreateIdentityDuplicateEmail(t *testing.T) {
	local := NewLocal(store.NewMemory(), "test-secret")
	ctx := context.Background()

	_, err := local.CreateIdentity(ctx, "ana@example.com", "123456")
	require.NoError(t, err)

	_, err = local.CreateIdentity(ctx, "ana@example.com", "123456")
	require.Error(t, err)
	assert.True(t, IsAlreadyExists(err))
}

func TestLocalCreateIdentityRejectsBadInput(t *testing.T) {
	local := NewLocal(store.NewMemory(), "test-secret")
	ctx := context.Background()

	_, err := local.CreateIdentity(ctx, "not-an-email", "123456")
	assert.Equal(t, KindInvalidEmail, KindOf(err))

	_, err = local.CreateIdentity(ctx, "ana@example.com", "123")
	assert.Equal(t, KindWeakCredential, KindOf(err))
}

func TestLocalLookupIdentity(t *testing.T) {
	local := NewLocal(store.NewMemory(), "test-secret")
	ctx := context.Background()

	id, err := local.CreateIdentity(ctx, "ana@example.com", "123456")
	require.NoError(t, err)

	found, err := local.LookupIdentity(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, found)

	_, err = local.LookupIdentity(ctx, "nobody@example.com")
	assert.Error(t, err)
}
