package matching

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/campuskit/reclaim/internal/config"
	"github.com/campuskit/reclaim/internal/model"
	"github.com/campuskit/reclaim/internal/store"
)

// Finder retrieves candidate items of the opposite type, scores them,
// and ranks the results. The auto-match flow additionally persists the
// top candidates as pending match records.
type Finder struct {
	items   store.ItemStore
	matches store.MatchStore
	scorer  Scorer
	cfg     config.MatchingConfig
}

func NewFinder(items store.ItemStore, matches store.MatchStore, scorer Scorer, cfg config.MatchingConfig) *Finder {
	return &Finder{
		items:   items,
		matches: matches,
		scorer:  scorer,
		cfg:     cfg,
	}
}

// FindMatches scores every active item of the opposite type against the
// item with the given id and returns candidates at or above threshold,
// sorted by similarity descending. An unknown id yields an empty result,
// not an error; storage failures propagate.
func (f *Finder) FindMatches(ctx context.Context, itemID string, threshold float64) ([]model.Candidate, error) {
	item, err := f.items.GetItem(ctx, itemID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("matching: load item %s: %w", itemID, err)
	}

	candidates, err := f.items.ListItems(ctx, item.Type.Opposite(), item.ID, model.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("matching: list candidates for %s: %w", itemID, err)
	}

	// Scoring calls are independent reads, so they run with bounded
	// parallelism. Results land at their input index to keep ties in
	// stable input order through the final sort.
	scored := make([]model.Candidate, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(f.cfg.Concurrency, 1))
	for i, cand := range candidates {
		i, cand := i, cand
		g.Go(func() error {
			s := f.scorer.Score(gctx, *item, cand)
			scored[i] = model.Candidate{Item: cand, Similarity: s.Similarity, Confidence: s.Confidence}
			return nil
		})
	}
	_ = g.Wait() // scoring goroutines never return an error

	var results []model.Candidate
	for _, c := range scored {
		if c.Similarity >= threshold {
			results = append(results, c)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	return results, nil
}

// SuggestThreshold returns the configured default threshold for
// interactive suggestion queries.
func (f *Finder) SuggestThreshold() float64 {
	return f.cfg.SuggestThreshold
}

// CreateAutoMatches finds high-confidence matches for an item and
// persists the top candidates as pending ai_generated match records.
// Persistence failures are logged and swallowed: auto-matching must
// never fail the item-creation flow that triggered it, and the scored
// list is still returned.
func (f *Finder) CreateAutoMatches(ctx context.Context, itemID string) ([]model.Candidate, error) {
	found, err := f.FindMatches(ctx, itemID, f.cfg.AutoMatchThreshold)
	if err != nil {
		return nil, err
	}

	top := found
	if len(top) > f.cfg.AutoMatchLimit {
		top = top[:f.cfg.AutoMatchLimit]
	}

	for _, cand := range top {
		// Candidates are always the opposite type of the query item.
		lostID, foundID := itemID, cand.Item.ID
		if cand.Item.Type == model.TypeLost {
			lostID, foundID = cand.Item.ID, itemID
		}

		exists, err := f.matches.MatchExists(ctx, lostID, foundID)
		if err != nil {
			log.Printf("matching: duplicate check for (%s, %s) failed: %v", lostID, foundID, err)
			continue
		}
		if exists {
			continue
		}

		m := &model.Match{
			ID:          uuid.New().String(),
			LostItemID:  lostID,
			FoundItemID: foundID,
			Similarity:  cand.Similarity,
			Confidence:  cand.Confidence,
			Status:      model.MatchStatusPending,
			MatchType:   model.MatchTypeAIGenerated,
		}
		if err := f.matches.CreateMatch(ctx, m); err != nil {
			log.Printf("matching: persist match (%s, %s) failed: %v", lostID, foundID, err)
		}
	}

	return found, nil
}
