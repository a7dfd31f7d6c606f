package matching

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/campuskit/reclaim/internal/model"
	"github.com/campuskit/reclaim/internal/store"
)

// sortedItems returns items in creation order, matching the store's
// ORDER BY created_at, id.
func sortedItems(items map[string]model.Item) []model.Item {
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

type MockLLM struct {
	Response      string
	ResponseQueue []string
	Err           error

	mu      sync.Mutex
	Prompts []string
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.ResponseQueue) > 0 {
		resp := m.ResponseQueue[0]
		m.ResponseQueue = m.ResponseQueue[1:]
		return resp, nil
	}
	return m.Response, nil
}

// MockItemStore serves items from memory.
type MockItemStore struct {
	Items   map[string]model.Item
	ListErr error
	GetErr  error
}

func (m *MockItemStore) GetItem(ctx context.Context, id string) (*model.Item, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	it, ok := m.Items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &it, nil
}

func (m *MockItemStore) ListItems(ctx context.Context, typ model.ItemType, excludeID, status string) ([]model.Item, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []model.Item
	for _, it := range sortedItems(m.Items) {
		if it.Type == typ && it.ID != excludeID && it.Status == status {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *MockItemStore) CreateItem(ctx context.Context, item *model.Item) error {
	if m.Items == nil {
		m.Items = map[string]model.Item{}
	}
	m.Items[item.ID] = *item
	return nil
}

// MockMatchStore records created matches.
type MockMatchStore struct {
	mu        sync.Mutex
	Created   []model.Match
	CreateErr error
	ExistsErr error
}

func (m *MockMatchStore) CreateMatch(ctx context.Context, match *model.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	for _, c := range m.Created {
		if c.LostItemID == match.LostItemID && c.FoundItemID == match.FoundItemID {
			return errors.New("duplicate match")
		}
	}
	m.Created = append(m.Created, *match)
	return nil
}

func (m *MockMatchStore) MatchExists(ctx context.Context, lostItemID, foundItemID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	for _, c := range m.Created {
		if c.LostItemID == lostItemID && c.FoundItemID == foundItemID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockMatchStore) ListMatchesForItem(ctx context.Context, itemID string) ([]model.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Match
	for _, c := range m.Created {
		if c.LostItemID == itemID || c.FoundItemID == itemID {
			out = append(out, c)
		}
	}
	return out, nil
}
