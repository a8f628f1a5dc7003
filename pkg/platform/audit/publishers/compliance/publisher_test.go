package compliance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "clms/pkg/domain"
	audit "clms/pkg/platform/audit"
	"clms/pkg/platform/audit/store/memory"
	"clms/pkg/requestcontext"
)

type failingStore struct{}

func (failingStore) Append(context.Context, audit.Event) error {
	return errors.New("disk full")
}

func (failingStore) ListRecent(context.Context, int) ([]audit.Event, error) {
	return nil, nil
}

func TestEmit(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)
	ctx = requestcontext.WithUserID(ctx, id.UserID("editor-1"))
	ctx = requestcontext.WithRequestID(ctx, "req-1")

	t.Run("fills actor, request id and timestamp from context", func(t *testing.T) {
		store := memory.NewInMemoryStore()
		pub := New(store)

		err := pub.Emit(ctx, audit.Event{
			Action:  string(audit.EventEntriesPublished),
			GraphID: "g1",
			Count:   3,
		})
		require.NoError(t, err)

		events, err := store.ListRecent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "editor-1", events[0].ActorID)
		assert.Equal(t, "req-1", events[0].RequestID)
		assert.Equal(t, now, events[0].Timestamp)
		assert.Equal(t, audit.CategoryCompliance, events[0].Category)
	})

	t.Run("rejects event without action", func(t *testing.T) {
		err := New(memory.NewInMemoryStore()).Emit(ctx, audit.Event{Subject: "g1"})
		require.Error(t, err)
	})

	t.Run("rejects event without subject or graph", func(t *testing.T) {
		err := New(memory.NewInMemoryStore()).Emit(ctx, audit.Event{Action: string(audit.EventTermsAccepted)})
		require.Error(t, err)
	})

	t.Run("store failure is returned to caller", func(t *testing.T) {
		err := New(failingStore{}).Emit(ctx, audit.Event{
			Action:  string(audit.EventConsentReset),
			Subject: "user-1",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})
}
