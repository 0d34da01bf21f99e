package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"seatline/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedVenueStartsTransactionCountAtZero(t *testing.T) {
	store := New()
	_, byLabel, err := store.SeedVenue(context.Background(), events.Event{
		Name:     "Opening",
		StartsAt: time.Now().Add(time.Hour),
	}, SingleSection("Pit", 1, 3))
	require.NoError(t, err)
	assert.Len(t, byLabel, 3)
	assert.Equal(t, 0, store.Transactions())

	require.NoError(t, store.WithinTx(context.Background(), func(ctx context.Context) error { return nil }))
	assert.Equal(t, 1, store.Transactions())
}

func TestWithinTxRestoresOnError(t *testing.T) {
	store := New()
	event := events.Event{Name: "Opening", StartsAt: time.Now()}
	_, _, err := store.SeedVenue(context.Background(), event, SingleSection("Pit", 1, 2))
	require.NoError(t, err)
	before := len(store.AllSeats())

	boom := errors.New("boom")
	err = store.WithinTx(context.Background(), func(ctx context.Context) error {
		store.mu.Lock()
		for id := range store.seats {
			delete(store.seats, id)
		}
		store.mu.Unlock()
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Len(t, store.AllSeats(), before)
}
