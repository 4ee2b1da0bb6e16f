package awards

import (
	"bytes"
	"context"
	"sort"

	"github.com/google/uuid"

	"nordicos/internal/metrics"
	"nordicos/internal/models"
)

// ComputeResults aggregates the ledger into per-category results. A nil
// categoryID covers every category. Nominees without votes do not appear.
func (s *Service) ComputeResults(ctx context.Context, categoryID *uuid.UUID) ([]models.CategoryResult, error) {
	key := "all"
	if categoryID != nil {
		key = categoryID.String()
	}
	// The generation is read before the ledger so that a vote landing
	// between Tallies and Set leaves this result in a stale generation.
	gen, cacheable := s.results.Generation(ctx)
	if cacheable {
		if cached, ok := s.results.Get(ctx, gen, key); ok {
			metrics.ResultsCache.WithLabelValues("hit").Inc()
			return cached, nil
		}
	}
	metrics.ResultsCache.WithLabelValues("miss").Inc()

	tallies, err := s.votes.Tallies(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	results := Aggregate(tallies)
	if cacheable {
		s.results.Set(ctx, gen, key, results)
	}
	return results, nil
}

// Aggregate groups tallies by category. Categories are ordered by name and
// nominees by vote count descending; ties are broken by id so the output is
// deterministic.
func Aggregate(tallies []models.VoteTally) []models.CategoryResult {
	byID := make(map[uuid.UUID]*models.CategoryResult)
	var order []uuid.UUID
	for _, t := range tallies {
		r, ok := byID[t.CategoryID]
		if !ok {
			r = &models.CategoryResult{
				CategoryID:          t.CategoryID,
				CategoryName:        t.CategoryName,
				CategoryDescription: t.CategoryDescription,
				Nominees:            []models.NomineeResult{},
			}
			byID[t.CategoryID] = r
			order = append(order, t.CategoryID)
		}
		r.Nominees = append(r.Nominees, models.NomineeResult{
			ID:          t.NomineeID,
			Name:        t.NomineeName,
			Description: t.NomineeDescription,
			VoteCount:   t.Count,
		})
		r.TotalVotes += t.Count
	}

	out := make([]models.CategoryResult, 0, len(order))
	for _, id := range order {
		r := byID[id]
		sort.Slice(r.Nominees, func(i, j int) bool {
			a, b := r.Nominees[i], r.Nominees[j]
			if a.VoteCount != b.VoteCount {
				return a.VoteCount > b.VoteCount
			}
			return bytes.Compare(a.ID[:], b.ID[:]) < 0
		})
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CategoryName != out[j].CategoryName {
			return out[i].CategoryName < out[j].CategoryName
		}
		return bytes.Compare(out[i].CategoryID[:], out[j].CategoryID[:]) < 0
	})
	return out
}
