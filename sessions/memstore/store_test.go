package memstore_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/mcp-oauth-broker/internal/errors"
	"github.com/jrsteele09/mcp-oauth-broker/sessions/memstore"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newStore() (*memstore.Store, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	return memstore.New(memstore.WithNowFunc(clock.Now)), clock
}

func TestPutGet(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore()

	require.NoError(t, s.Put(ctx, "session:abc", []byte(`{"state":"xyz"}`), time.Minute))

	got, err := s.Get(ctx, "session:abc")
	require.NoError(t, err)
	require.Equal(t, `{"state":"xyz"}`, string(got))

	_, err = s.Get(ctx, "session:missing")
	require.ErrorIs(t, err, errors.ErrNotFound)
}

func TestPut_EmptyKey(t *testing.T) {
	s, _ := newStore()
	require.Error(t, s.Put(context.Background(), "", []byte("x"), time.Minute))
}

func TestGet_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore()

	value := []byte("original")
	require.NoError(t, s.Put(ctx, "k", value, time.Minute))
	value[0] = 'X'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "original", string(got))

	got[0] = 'Y'
	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "original", string(again))
}

func TestExpiry(t *testing.T) {
	ctx := context.Background()
	s, clock := newStore()

	require.NoError(t, s.Put(ctx, "session:abc", []byte("v"), 600*time.Second))

	clock.Advance(599 * time.Second)
	_, err := s.Get(ctx, "session:abc")
	require.NoError(t, err)

	clock.Advance(2 * time.Second)
	_, err = s.Get(ctx, "session:abc")
	require.ErrorIs(t, err, errors.ErrNotFound)
}

func TestZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	s, clock := newStore()

	require.NoError(t, s.Put(ctx, "k", []byte("v"), 0))
	clock.Advance(24 * time.Hour)

	_, err := s.Get(ctx, "k")
	require.NoError(t, err)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore()

	require.NoError(t, s.Put(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"), "deleting a missing key is not an error")

	_, err := s.Get(ctx, "k")
	require.ErrorIs(t, err, errors.ErrNotFound)
}

func TestTake(t *testing.T) {
	ctx := context.Background()
	s, clock := newStore()

	require.NoError(t, s.Put(ctx, "code:1", []byte("record"), 300*time.Second))

	got, err := s.Take(ctx, "code:1")
	require.NoError(t, err)
	require.Equal(t, "record", string(got))

	_, err = s.Take(ctx, "code:1")
	require.ErrorIs(t, err, errors.ErrNotFound)

	require.NoError(t, s.Put(ctx, "code:2", []byte("record"), 300*time.Second))
	clock.Advance(301 * time.Second)
	_, err = s.Take(ctx, "code:2")
	require.ErrorIs(t, err, errors.ErrNotFound)
}

func TestTake_ConcurrentSingleWinner(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore()
	require.NoError(t, s.Put(ctx, "code:race", []byte("record"), time.Minute))

	const workers = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Take(ctx, "code:race"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, wins)
}
