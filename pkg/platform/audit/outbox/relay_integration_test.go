//go:build integration

package outbox_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"clms/internal/platform/kafka/producer"
	audit "clms/pkg/platform/audit"
	"clms/pkg/platform/audit/outbox"
	auditmemory "clms/pkg/platform/audit/store/memory"
	"clms/pkg/testutil/containers"
)

func TestRelayToRedpanda(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	rp := containers.GetManager().GetRedpanda(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p, err := producer.New(producer.Config{Brokers: []string{rp.Broker}, ClientID: "relay-test"}, logger)
	require.NoError(t, err)
	defer p.Close()

	const topic = "clms.audit.test"
	require.NoError(t, p.EnsureTopic(ctx, topic, 1, 1))
	require.NoError(t, p.EnsureTopic(ctx, topic, 1, 1), "existing topic is not an error")

	store := auditmemory.NewInMemoryStore()
	require.NoError(t, store.Append(ctx, audit.Event{Action: string(audit.EventEntriesPublished), GraphID: "g1", Count: 3}))
	require.NoError(t, store.Append(ctx, audit.Event{Action: string(audit.EventTermsAccepted), Subject: "u1"}))

	relay := outbox.New(store, p, topic, outbox.WithLogger(logger))
	n, err := relay.RelayOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = relay.RelayOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "relayed entries are not fetched again")

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	var records []*kgo.Record
	for len(records) < 2 {
		fetches := consumer.PollFetches(ctx)
		require.NoError(t, ctx.Err())
		fetches.EachRecord(func(r *kgo.Record) { records = append(records, r) })
	}

	assert.Equal(t, "g1", string(records[0].Key))
	event, err := audit.UnmarshalPayload(records[0].Value)
	require.NoError(t, err)
	assert.Equal(t, string(audit.EventEntriesPublished), event.Action)
	assert.Equal(t, 3, event.Count)
}
