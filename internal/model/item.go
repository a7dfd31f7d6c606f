package model

import "time"

// ItemType distinguishes reports of lost items from reports of found items.
type ItemType string

const (
	TypeLost  ItemType = "lost"
	TypeFound ItemType = "found"
)

// Opposite returns the item type a candidate match must have.
func (t ItemType) Opposite() ItemType {
	if t == TypeLost {
		return TypeFound
	}
	return TypeLost
}

// StatusActive is the canonical status for items still available to match
// against. Items move out of this status when claimed or returned.
const StatusActive = "active"

type Item struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	Type        ItemType  `json:"type"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
