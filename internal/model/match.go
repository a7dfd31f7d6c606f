package model

import "time"

// Confidence is a coarse bucket derived from a numeric similarity score.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ConfidenceFor buckets a 0-100 similarity score into a confidence tier.
// The thresholds apply regardless of which scorer produced the score.
func ConfidenceFor(score float64) Confidence {
	switch {
	case score >= 85:
		return ConfidenceHigh
	case score >= 70:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Match statuses. Only StatusPending is assigned by this service; the
// later transitions are driven by moderators and item owners.
const (
	MatchStatusPending   = "pending"
	MatchStatusConfirmed = "confirmed"
	MatchStatusRejected  = "rejected"
	MatchStatusExpired   = "expired"
)

// Match origin tags.
const (
	MatchTypeAIGenerated   = "ai_generated"
	MatchTypeUserSuggested = "user_suggested"
	MatchTypeManual        = "manual"
)

// Match is a persisted pairing of a lost item with a found item.
type Match struct {
	ID          string     `json:"id"`
	LostItemID  string     `json:"lost_item_id"`
	FoundItemID string     `json:"found_item_id"`
	Similarity  float64    `json:"similarity"`
	Confidence  Confidence `json:"confidence"`
	Status      string     `json:"status"`
	MatchType   string     `json:"match_type"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Candidate is an ephemeral scored pairing returned by the match finder.
// It is not persisted; auto-matching converts the top candidates into
// Match records.
type Candidate struct {
	Item       Item       `json:"item"`
	Similarity float64    `json:"similarity"`
	Confidence Confidence `json:"confidence"`
}
