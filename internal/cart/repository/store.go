package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/medetk/storefront/internal/cart/domain"
	"github.com/medetk/storefront/pkg/logger"
)

// Store is the persisted cart accessor. It owns the stored schema: a JSON
// object mapping product id to quantity. Older deployments stored a JSON
// array of ids with repeats denoting quantity; that shape is upgraded in
// place the first time it is read.
//
// Concurrent writers through separate processes are last-write-wins on the
// shared record; there is no cross-process lock.
type Store struct {
	storage domain.Storage
}

// NewStore creates a cart store over the given storage handle
func NewStore(storage domain.Storage) *Store {
	return &Store{storage: storage}
}

// ReadRaw returns the current cart map. It never fails: a missing handle,
// an absent record, a storage error or a malformed value all degrade to an
// empty cart.
func (s *Store) ReadRaw(ctx context.Context) domain.CountMap {
	if s.storage == nil {
		return domain.CountMap{}
	}

	raw, ok, err := s.storage.Get(ctx)
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("Cart read failed, treating as empty")
		return domain.CountMap{}
	}
	if !ok {
		return domain.CountMap{}
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return domain.CountMap{}
	}

	// Legacy shape: JSON array of ids, one slot per unit
	if trimmed[0] == '[' {
		return s.migrate(ctx, trimmed)
	}

	var m domain.CountMap
	if err := json.Unmarshal(trimmed, &m); err != nil {
		logger.Warn(ctx).Err(err).Msg("Corrupt cart value, treating as empty")
		return domain.CountMap{}
	}
	if m == nil {
		m = domain.CountMap{}
	}
	return m
}

// migrate tallies a legacy id array into a count map and rewrites the stored
// record so subsequent reads hit the object path. Reading twice never
// double-counts: once rewritten, the array branch is no longer taken.
func (s *Store) migrate(ctx context.Context, raw []byte) domain.CountMap {
	var ids []int
	if err := json.Unmarshal(raw, &ids); err != nil {
		logger.Warn(ctx).Err(err).Msg("Corrupt legacy cart value, treating as empty")
		return domain.CountMap{}
	}

	migrated := make(domain.CountMap, len(ids))
	for _, id := range ids {
		migrated[domain.Key(id)]++
	}

	if err := s.WriteRaw(ctx, migrated); err != nil {
		// The tally already succeeded, so serve it; the next read migrates
		// again.
		logger.Warn(ctx).Err(err).Msg("Cart migration write-back failed")
	} else {
		logger.Info(ctx).Int("entries", len(migrated)).Msg("Migrated legacy cart format")
	}
	return migrated
}

// WriteRaw serializes and stores the map verbatim. Callers must delete keys
// instead of writing zero or negative quantities. Storage errors surface so
// the triggering action can report the lost mutation.
func (s *Store) WriteRaw(ctx context.Context, m domain.CountMap) error {
	if s.storage == nil {
		return fmt.Errorf("no cart storage configured")
	}

	value, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to serialize cart: %w", err)
	}

	if err := s.storage.Set(ctx, value); err != nil {
		return fmt.Errorf("failed to write cart: %w", err)
	}
	return nil
}

// Clear removes the stored cart record
func (s *Store) Clear(ctx context.Context) error {
	if s.storage == nil {
		return fmt.Errorf("no cart storage configured")
	}
	if err := s.storage.Delete(ctx); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
