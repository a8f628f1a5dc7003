package store

import (
	"context"
	"encoding/json"
	"fmt"

	"clms/internal/consent/models"
	id "clms/pkg/domain"
	"clms/pkg/platform/sentinel"
)

// KV is the durable key-value collaborator consent records live in.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

const keyPrefix = "clms:consent:"

// Key returns the KV key holding userID's record.
func Key(userID id.UserID) string {
	return keyPrefix + string(userID)
}

// Store keeps one JSON-encoded consent record per user.
type Store struct {
	kv KV
}

func New(kv KV) *Store {
	return &Store{kv: kv}
}

// Find returns sentinel.ErrNotFound when the user has no record.
func (s *Store) Find(ctx context.Context, userID id.UserID) (*models.Record, error) {
	raw, ok, err := s.kv.Get(ctx, Key(userID))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err)
	}
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	var rec models.Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decode consent record: %w", err)
	}
	return &rec, nil
}

// Save overwrites the user's record.
func (s *Store) Save(ctx context.Context, userID id.UserID, rec models.Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode consent record: %w", err)
	}
	if err := s.kv.Set(ctx, Key(userID), string(raw)); err != nil {
		return fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, userID id.UserID) error {
	if err := s.kv.Remove(ctx, Key(userID)); err != nil {
		return fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}
