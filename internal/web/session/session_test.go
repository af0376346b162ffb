package session

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/auth"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/config"
)

type draft struct {
	Step int
	Shop string
}

func TestDataRoundTrip(t *testing.T) {
	Init(nil)

	id, err := GenerateSessionID()
	require.NoError(t, err)
	assert.Len(t, id, 64)

	in := Data{Session: auth.Session{UserID: 7, Email: "ink@studio.test", Name: "Ink"}}
	require.NoError(t, in.Write(id, time.Minute))

	var out Data
	require.NoError(t, out.Read(id))
	assert.Equal(t, in, out)

	require.NoError(t, Delete(id))
	require.ErrorIs(t, new(Data).Read(id), ErrNotFound)
}

func TestReadUnknownSession(t *testing.T) {
	Init(nil)

	require.ErrorIs(t, new(Data).Read(""), ErrNotFound)
	require.ErrorIs(t, new(Data).Read("missing"), ErrNotFound)
}

func TestDrafts(t *testing.T) {
	Init(nil)

	var got draft

	ok, err := LoadDraft("sid", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, SaveDraft("sid", draft{Step: 2, Shop: "Black Rose"}, time.Minute))

	ok, err = LoadDraft("sid", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, draft{Step: 2, Shop: "Black Rose"}, got)

	// the draft does not collide with the session itself
	require.ErrorIs(t, new(Data).Read("sid"), ErrNotFound)

	require.NoError(t, DeleteDraft("sid"))

	ok, err = LoadDraft("sid", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStorage(t *testing.T) {
	addr := os.Getenv("BLACKWORK_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("BLACKWORK_TEST_REDIS_ADDR not set")
	}

	r := NewRedisStorage(config.Session{RedisAddr: addr})
	t.Cleanup(func() { _ = r.Close() })

	require.NoError(t, r.Ping(t.Context()))
	require.NoError(t, r.Reset())

	got, err := r.Get("absent")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, r.Set("k", []byte("v"), time.Minute))

	got, err = r.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, r.Reset())

	got, err = r.Get("k")
	require.NoError(t, err)
	assert.Nil(t, got)
}
