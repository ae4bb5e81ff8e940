package storage

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := NewSessionStore(kv, "")

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	sess := models.Session{UserID: 7, Email: "admin@example.com", DisplayName: "Admin", Token: "tok", Role: models.RoleAdmin}
	require.NoError(t, store.Save(ctx, sess))

	token, err := kv.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "tok", string(token))

	raw, err := kv.Get(ctx, KeyUser)
	require.NoError(t, err)
	var user map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &user))
	assert.Equal(t, "admin", user["role"])
	assert.NotContains(t, user, "token")

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sess, *loaded)

	require.NoError(t, store.Clear(ctx))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, store.Clear(ctx))
}

func TestSessionStore_Namespaces(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	alice := NewSessionStore(kv, "1001")
	bob := NewSessionStore(kv, "1002")

	require.NoError(t, alice.Save(ctx, models.Session{Email: "alice@example.com", Token: "a", Role: models.RoleUser}))

	_, err := bob.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = kv.Get(ctx, "1001:token")
	assert.NoError(t, err)

	loaded, err := alice.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", loaded.Email)
}

func TestSessionStore_CorruptUser(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, KeyToken, []byte("tok")))
	require.NoError(t, kv.Set(ctx, KeyUser, []byte("{not json")))

	_, err := NewSessionStore(kv, "").Load(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
