package service

import (
	"context"
	"sync"
	"time"

	id "clms/pkg/domain"
	dErrors "clms/pkg/domain-errors"
)

// StoreTx runs fn as one unit of work for a graph. Mutations done through
// the stores inside fn either all persist or none do, and units for the same
// graph never interleave.
type StoreTx interface {
	RunInTx(ctx context.Context, graphID id.GraphID, fn func(ctx context.Context) error) error
}

// GraphSnapshotter is implemented by in-memory stores that can roll one
// graph back to a captured state.
type GraphSnapshotter interface {
	SnapshotGraph(graphID id.GraphID) (restore func())
}

const numGraphShards = 128

const defaultTxTimeout = 5 * time.Second

// shardedGraphTx serializes units per graph with sharded mutexes and undoes a
// failed unit by restoring every participant's snapshot of the graph.
type shardedGraphTx struct {
	shards       [numGraphShards]sync.Mutex
	participants []GraphSnapshotter
	timeout      time.Duration
}

// NewInMemoryTx returns a StoreTx over in-memory stores.
func NewInMemoryTx(participants ...GraphSnapshotter) StoreTx {
	return &shardedGraphTx{participants: participants, timeout: defaultTxTimeout}
}

func (t *shardedGraphTx) RunInTx(ctx context.Context, graphID id.GraphID, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	shard := &t.shards[hashGraphID(graphID)%numGraphShards]
	shard.Lock()
	defer shard.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	restores := make([]func(), len(t.participants))
	for i, p := range t.participants {
		restores[i] = p.SnapshotGraph(graphID)
	}
	if err := fn(ctx); err != nil {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
		return err
	}
	return nil
}

// hashGraphID is FNV-1a.
func hashGraphID(graphID id.GraphID) uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	for i := 0; i < len(graphID); i++ {
		h ^= uint32(graphID[i])
		h *= fnvPrime
	}
	return h
}
