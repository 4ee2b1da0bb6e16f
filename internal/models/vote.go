package models

import (
	"time"

	"github.com/google/uuid"
)

// Vote is a single ballot. Votes are never edited, only deleted.
type Vote struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	CategoryID uuid.UUID `json:"category_id"`
	NomineeID  uuid.UUID `json:"nominee_id"`
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent"`
	CreatedAt  time.Time `json:"created_at"`
}

// VoteWithContext is a vote joined with the names a voter needs to
// recognize it.
type VoteWithContext struct {
	Vote
	CategoryName       string  `json:"category_name"`
	NomineeName        string  `json:"nominee_name"`
	NomineeDescription *string `json:"nominee_description,omitempty"`
}

// ClientMeta is request metadata stored with a vote for audit only.
type ClientMeta struct {
	IPAddress string
	UserAgent string
}

// Normalized fills missing values with "unknown".
func (m ClientMeta) Normalized() ClientMeta {
	if m.IPAddress == "" {
		m.IPAddress = "unknown"
	}
	if m.UserAgent == "" {
		m.UserAgent = "unknown"
	}
	return m
}

// VoteTally is one (category, nominee) group from the ledger.
type VoteTally struct {
	CategoryID          uuid.UUID
	CategoryName        string
	CategoryDescription *string
	NomineeID           uuid.UUID
	NomineeName         string
	NomineeDescription  *string
	Count               int
}

// CategoryResult is the aggregated outcome for one category.
type CategoryResult struct {
	CategoryID          uuid.UUID       `json:"category_id"`
	CategoryName        string          `json:"category_name"`
	CategoryDescription *string         `json:"category_description,omitempty"`
	TotalVotes          int             `json:"total_votes"`
	Nominees            []NomineeResult `json:"nominees"`
}

// NomineeResult is one nominee's share of a category result.
type NomineeResult struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	VoteCount   int       `json:"vote_count"`
}
