package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quantum-pipeline/internal/domain"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer([]byte("secret"), time.Hour)

	tok, err := issuer.Issue("sid-1")
	require.NoError(t, err)

	sid, err := issuer.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", sid)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := NewTokenIssuer([]byte("secret"), time.Hour)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenIssuer([]byte("other"), time.Hour)
		tok, err := other.Issue("sid")
		require.NoError(t, err)
		_, err = issuer.Parse(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewTokenIssuer([]byte("secret"), -time.Minute)
		tok, err := expired.Issue("sid")
		require.NoError(t, err)
		_, err = issuer.Parse(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := issuer.Parse("not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestRegistry_ResolveKeepsSessionsApart(t *testing.T) {
	reg := NewRegistry(NewTokenIssuer([]byte("secret"), time.Hour), nil)

	idA, storeA, fresh := reg.Resolve("")
	require.True(t, fresh)
	idB, storeB, _ := reg.Resolve("")
	require.NotEqual(t, idA, idB)

	require.True(t, storeA.Login(context.Background(), "a@b.com", "x", domain.RoleStudent))
	assert.True(t, storeA.IsAuthenticated())
	assert.False(t, storeB.IsAuthenticated())

	tok, err := reg.Token(idA)
	require.NoError(t, err)
	gotID, gotStore, fresh := reg.Resolve(tok)
	assert.False(t, fresh)
	assert.Equal(t, idA, gotID)
	assert.Same(t, storeA, gotStore)
	assert.Equal(t, 2, reg.Len())
}

func TestRegistry_InvalidTokenStartsFreshSession(t *testing.T) {
	reg := NewRegistry(NewTokenIssuer([]byte("secret"), time.Hour), nil)

	_, store, fresh := reg.Resolve("garbage")
	assert.True(t, fresh)
	assert.False(t, store.IsAuthenticated())
}

func TestRegistry_SweepEvictsIdleSessions(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	var evicted []string
	reg := NewRegistry(
		NewTokenIssuer([]byte("secret"), time.Hour),
		nil,
		WithClock(func() time.Time { return now }),
		WithEvictHook(func(id string) { evicted = append(evicted, id) }),
	)

	oldID, _, _ := reg.Resolve("")
	now = now.Add(50 * time.Minute)
	newID, _, _ := reg.Resolve("")

	removed := reg.Sweep(now.Add(20 * time.Minute))
	assert.Equal(t, 1, removed)
	assert.Equal(t, []string{oldID}, evicted)

	_, ok := reg.Lookup(oldID)
	assert.False(t, ok)
	_, ok = reg.Lookup(newID)
	assert.True(t, ok)
}
