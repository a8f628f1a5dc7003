package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clms/internal/consent/models"
	"clms/pkg/platform/sentinel"
)

func TestStoreOverInMemoryKV(t *testing.T) {
	ctx := context.Background()
	kv := NewInMemoryKV()
	st := New(kv)

	_, err := st.Find(ctx, "u1")
	require.ErrorIs(t, err, sentinel.ErrNotFound)

	rec := models.NewAcceptance("v1.5.0", time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, st.Save(ctx, "u1", rec))

	raw, ok, err := kv.Get(ctx, "clms:consent:u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"lastAcceptedVersion":"v1.5.0","acceptedAt":"2026-01-01 08:00:00.000"}`, raw)

	found, err := st.Find(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "v1.5.0", *found.LastAcceptedVersion)

	require.NoError(t, st.Delete(ctx, "u1"))
	_, err = st.Find(ctx, "u1")
	require.ErrorIs(t, err, sentinel.ErrNotFound)

	require.NoError(t, st.Delete(ctx, "u1"), "deleting a missing record is a no-op")
}

func TestFindRejectsCorruptRecord(t *testing.T) {
	ctx := context.Background()
	kv := NewInMemoryKV()
	require.NoError(t, kv.Set(ctx, Key("u1"), "{not json"))

	_, err := New(kv).Find(ctx, "u1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, sentinel.ErrNotFound)
}
