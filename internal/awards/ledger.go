// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package awards

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"nordicos/internal/metrics"
	"nordicos/internal/models"
	"nordicos/internal/store"
)

// CastVote records the actor's vote for a nominee. The checks run in a
// fixed order so the reported failure is deterministic. For single-vote
// categories the existing-vote lookup is only a fast path; the ledger's
// unique index decides races.
func (s *Service) CastVote(ctx context.Context, voter, categoryID, nomineeID uuid.UUID, meta models.ClientMeta) (*models.Vote, error) {
	v, err := s.castVote(ctx, voter, categoryID, nomineeID, meta)
	metrics.VotesCast.WithLabelValues(voteOutcome(err)).Inc()
	return v, err
}

func (s *Service) castVote(ctx context.Context, voter, categoryID, nomineeID uuid.UUID, meta models.ClientMeta) (*models.Vote, error) {
	c, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound("category", categoryID)
	}
	if !c.AcceptsVotes() {
		return nil, fmt.Errorf("category %s: %w", categoryID, ErrVotingClosed)
	}

	n, err := s.nominees.FindByID(ctx, nomineeID)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, notFound("nominee", nomineeID)
	}
	if !n.IsActive {
		return nil, fmt.Errorf("nominee %s: %w", nomineeID, ErrNomineeInactive)
	}
	if n.CategoryID != c.ID {
		return nil, fmt.Errorf("nominee %s: %w", nomineeID, ErrCategoryMismatch)
	}

	if !c.AllowMultipleVotes {
		voted, err := s.votes.HasVote(ctx, voter, c.ID)
		if err != nil {
			return nil, err
		}
		if voted {
			return nil, ErrDuplicateVote
		}
	}

	meta = meta.Normalized()
	v, err := s.votes.Create(ctx, &models.Vote{
		UserID:     voter,
		CategoryID: c.ID,
		NomineeID:  n.ID,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})
	if errors.Is(err, store.ErrVoteExists) {
		return nil, ErrDuplicateVote
	}
	if err != nil {
		return nil, err
	}
	s.results.InvalidateAll(ctx)
	return v, nil
}

func voteOutcome(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, ErrDuplicateVote):
		return "duplicate"
	case errors.Is(err, ErrVotingClosed):
		return "closed"
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNomineeInactive), errors.Is(err, ErrCategoryMismatch):
		return "rejected"
	default:
		return "error"
	}
}

// WithdrawVote removes all of the actor's votes in a category. Withdrawal is
// refused once voting has been disabled for the category.
func (s *Service) WithdrawVote(ctx context.Context, voter, categoryID uuid.UUID) error {
	c, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if c == nil {
		return notFound("category", categoryID)
	}
	if !c.VotingEnabled {
		return fmt.Errorf("category %s: %w", categoryID, ErrVotingClosed)
	}

	removed, err := s.votes.DeleteByCategory(ctx, voter, categoryID)
	if err != nil {
		return err
	}
	if removed == 0 {
		return notFound("vote in category", categoryID)
	}
	s.results.InvalidateAll(ctx)
	return nil
}

// WithdrawVoteByID removes a single vote owned by the actor. A vote owned by
// someone else is reported as not found.
func (s *Service) WithdrawVoteByID(ctx context.Context, voter, voteID uuid.UUID) error {
	deleted, err := s.votes.DeleteByID(ctx, voter, voteID)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound("vote", voteID)
	}
	s.results.InvalidateAll(ctx)
	return nil
}

// ListVotesForUser returns the actor's votes, newest first.
func (s *Service) ListVotesForUser(ctx context.Context, voter uuid.UUID) ([]models.VoteWithContext, error) {
	return s.votes.ListForUser(ctx, voter)
}
