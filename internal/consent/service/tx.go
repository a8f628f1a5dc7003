package service

import (
	"context"
	"sync"
	"time"

	id "clms/pkg/domain"
	dErrors "clms/pkg/domain-errors"
)

// userLocks serializes read-modify-write sequences on one user's record
// within this process. Operations are distributed across shards by a hash of
// the user id.
const numConsentShards = 128

const defaultConsentTxTimeout = 5 * time.Second

type userLocks struct {
	shards  [numConsentShards]sync.Mutex
	timeout time.Duration
}

func (l *userLocks) run(ctx context.Context, userID id.UserID, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "consent update aborted: context cancelled")
	}

	timeout := l.timeout
	if timeout == 0 {
		timeout = defaultConsentTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	shard := &l.shards[hashConsentString(string(userID))%numConsentShards]
	shard.Lock()
	defer shard.Unlock()

	// Check again after acquiring lock
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "consent update aborted: context cancelled")
	}
	return fn(ctx)
}

// hashConsentString uses FNV-1a.
func hashConsentString(s string) uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return h
}
