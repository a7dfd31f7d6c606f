// Package store persists items and match records.
package store

import (
	"context"
	"errors"

	"github.com/campuskit/reclaim/internal/model"
)

// ErrNotFound is returned by lookups for ids that do not exist.
var ErrNotFound = errors.New("store: not found")

// ItemStore is the read side consumed by the matching core.
type ItemStore interface {
	GetItem(ctx context.Context, id string) (*model.Item, error)
	// ListItems returns items of the given type and status, excluding
	// excludeID, in creation order.
	ListItems(ctx context.Context, typ model.ItemType, excludeID, status string) ([]model.Item, error)
	CreateItem(ctx context.Context, item *model.Item) error
}

// MatchStore is the write side used by auto-matching.
type MatchStore interface {
	CreateMatch(ctx context.Context, m *model.Match) error
	MatchExists(ctx context.Context, lostItemID, foundItemID string) (bool, error)
	ListMatchesForItem(ctx context.Context, itemID string) ([]model.Match, error)
}

// Store combines both sides; the SQLite implementation satisfies it.
type Store interface {
	ItemStore
	MatchStore
	Ping(ctx context.Context) error
	Close() error
}
