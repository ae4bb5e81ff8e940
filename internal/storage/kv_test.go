package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisKV(t *testing.T) KV {
	mr := miniredis.RunT(t)
	cfg := DefaultRedisConfig()
	cfg.Host = mr.Host()
	cfg.Port = mr.Port()
	kv, err := NewRedisKV(cfg)
	require.NoError(t, err)
	return kv
}

func newBadgerKV(t *testing.T) KV {
	kv, err := OpenBadger("")
	require.NoError(t, err)
	return kv
}

func backends() map[string]func(t *testing.T) KV {
	return map[string]func(t *testing.T) KV{
		"memory": func(t *testing.T) KV { return NewMemoryKV() },
		"badger": newBadgerKV,
		"redis":  newRedisKV,
	}
}

func TestKV_Backends(t *testing.T) {
	ctx := context.Background()

	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			kv := open(t)
			defer kv.Close()

			_, err := kv.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, kv.Set(ctx, "k", []byte("v1")))
			v, err := kv.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, []byte("v1"), v)

			require.NoError(t, kv.Set(ctx, "k", []byte("v2")))
			v, err = kv.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, []byte("v2"), v)

			require.NoError(t, kv.Delete(ctx, "k"))
			_, err = kv.Get(ctx, "k")
			assert.ErrorIs(t, err, ErrNotFound)

			assert.NoError(t, kv.Delete(ctx, "k"))
		})
	}
}

func TestRedisKV_Prefix(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := DefaultRedisConfig()
	cfg.Host = mr.Host()
	cfg.Port = mr.Port()
	kv, err := NewRedisKV(cfg)
	require.NoError(t, err)
	defer kv.Close()

	require.NoError(t, kv.Set(context.Background(), "token", []byte("abc")))

	stored, err := mr.Get("booking-client:token")
	require.NoError(t, err)
	assert.Equal(t, "abc", stored)
}

func TestNewRedisKV_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := DefaultRedisConfig()
	cfg.Host = mr.Host()
	cfg.Port = mr.Port()
	mr.Close()

	_, err := NewRedisKV(cfg)
	assert.Error(t, err)
}
