// Package matching scores lost/found item pairs and finds candidate matches.
package matching

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/campuskit/reclaim/internal/llm"
	"github.com/campuskit/reclaim/internal/model"
)

// Score is the result of comparing two items: a 0-100 similarity and the
// confidence tier derived from it.
type Score struct {
	Similarity float64
	Confidence model.Confidence
}

// Scorer produces a Score for a pair of items. Implementations must not
// fail: any internal error resolves to a deterministic score.
type Scorer interface {
	Score(ctx context.Context, a, b model.Item) Score
}

// LLMScorer asks a text-generation service for a holistic same-object
// judgment. Unlike Scorer implementations it surfaces errors, so a
// wrapper decides what a failure means.
type LLMScorer struct {
	Client  llm.Client
	Timeout time.Duration
}

func (s *LLMScorer) Score(ctx context.Context, a, b model.Item) (float64, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	resp, err := s.Client.Generate(ctx, comparisonPrompt(a, b))
	if err != nil {
		return 0, fmt.Errorf("generate similarity: %w", err)
	}

	score, err := parseScore(resp)
	if err != nil {
		return 0, err
	}
	return score, nil
}

func comparisonPrompt(a, b model.Item) string {
	return fmt.Sprintf(`Compare these two items and determine if they could be the same object.
Rate the similarity from 0-100 where 100 means they are definitely the same item.

Item 1 (%s):
- Title: %s
- Description: %s
- Category: %s
- Location: %s
- Date: %s

Item 2 (%s):
- Title: %s
- Description: %s
- Category: %s
- Location: %s
- Date: %s

Consider:
- Description similarity (color, size, brand, unique features)
- Location proximity
- Time proximity
- Category match

Respond with only a number from 0-100.`,
		a.Type, a.Title, a.Description, a.Category, a.Location, a.CreatedAt.Format(time.RFC3339),
		b.Type, b.Title, b.Description, b.Category, b.Location, b.CreatedAt.Format(time.RFC3339))
}

// parseScore extracts the leading integer from a model response and
// clamps it into [0,100]. A response with no parseable number is an
// error, not a zero score.
func parseScore(resp string) (float64, error) {
	fields := strings.Fields(strings.TrimSpace(resp))
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty response")
	}
	n, err := strconv.Atoi(strings.TrimSuffix(fields[0], "."))
	if err != nil {
		return 0, fmt.Errorf("non-numeric response %q", resp)
	}
	if n < 0 {
		n = 0
	}
	if n > 100 {
		n = 100
	}
	return float64(n), nil
}

// FallbackScorer is the deterministic lexical/attribute scorer. Weights:
// category 40, title 30, description 20, location 10 (location only when
// both items carry one).
type FallbackScorer struct{}

func (FallbackScorer) Score(_ context.Context, a, b model.Item) Score {
	var score float64

	if strings.EqualFold(a.Category, b.Category) {
		score += 40
	}

	score += Ratio(a.Title, b.Title) * 30
	score += Ratio(a.Description, b.Description) * 20

	if a.Location != "" && b.Location != "" {
		score += Ratio(a.Location, b.Location) * 10
	}

	score = math.Round(score)
	return Score{Similarity: score, Confidence: model.ConfidenceFor(score)}
}

// SimilarityScorer chains the LLM judgment with the deterministic
// fallback. Any primary-path failure (client error, timeout, garbage
// output) engages the fallback; callers never see an error. With no LLM
// configured the fallback is the sole mechanism.
type SimilarityScorer struct {
	primary  *LLMScorer
	fallback FallbackScorer
}

// NewSimilarityScorer builds the scorer chain. client may be nil.
func NewSimilarityScorer(client llm.Client, timeout time.Duration) *SimilarityScorer {
	s := &SimilarityScorer{}
	if client != nil {
		s.primary = &LLMScorer{Client: client, Timeout: timeout}
	}
	return s
}

func (s *SimilarityScorer) Score(ctx context.Context, a, b model.Item) Score {
	if s.primary != nil {
		sim, err := s.primary.Score(ctx, a, b)
		if err == nil {
			return Score{Similarity: sim, Confidence: model.ConfidenceFor(sim)}
		}
		log.Printf("similarity: primary scorer failed for (%s, %s), falling back: %v", a.ID, b.ID, err)
	}
	return s.fallback.Score(ctx, a, b)
}
