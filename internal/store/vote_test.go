package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"nordicos/internal/models"
)

func TestVoteStoreExclusiveIndex(t *testing.T) {
	db := testDB(t)
	s := NewVoteStore(db)
	ctx := context.Background()
	voter := testUser(t, db, models.RoleUser)
	c := testCategory(t, db, false)
	a := testNominee(t, db, c.ID, "A")
	b := testNominee(t, db, c.ID, "B")

	if _, err := s.Create(ctx, &models.Vote{UserID: voter.ID, CategoryID: c.ID, NomineeID: a.ID}); err != nil {
		t.Fatalf("first vote: %v", err)
	}
	_, err := s.Create(ctx, &models.Vote{UserID: voter.ID, CategoryID: c.ID, NomineeID: b.ID})
	if !errors.Is(err, ErrVoteExists) {
		t.Errorf("second vote: got %v, want ErrVoteExists", err)
	}
}

// TestVoteStoreConcurrentInsert races many inserts for the same user and
// single-vote category; the partial index must admit exactly one.
func TestVoteStoreConcurrentInsert(t *testing.T) {
	db := testDB(t)
	s := NewVoteStore(db)
	ctx := context.Background()
	voter := testUser(t, db, models.RoleUser)
	c := testCategory(t, db, false)
	n := testNominee(t, db, c.ID, "Racer")

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		dupes     int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Create(ctx, &models.Vote{UserID: voter.ID, CategoryID: c.ID, NomineeID: n.ID})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrVoteExists):
				dupes++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 || dupes != workers-1 {
		t.Errorf("got %d successes and %d duplicates, want 1 and %d", succeeded, dupes, workers-1)
	}
}

func TestVoteStoreMultipleVotesAllowed(t *testing.T) {
	db := testDB(t)
	s := NewVoteStore(db)
	ctx := context.Background()
	voter := testUser(t, db, models.RoleUser)
	c := testCategory(t, db, true)
	a := testNominee(t, db, c.ID, "A")
	b := testNominee(t, db, c.ID, "B")

	for _, n := range []*models.Nominee{a, b} {
		if _, err := s.Create(ctx, &models.Vote{UserID: voter.ID, CategoryID: c.ID, NomineeID: n.ID}); err != nil {
			t.Fatalf("vote for %s: %v", n.Name, err)
		}
	}

	removed, err := s.DeleteByCategory(ctx, voter.ID, c.ID)
	if err != nil {
		t.Fatalf("DeleteByCategory: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed: got %d, want 2", removed)
	}
}

func TestVoteStoreDeleteByIDScopedToOwner(t *testing.T) {
	db := testDB(t)
	s := NewVoteStore(db)
	ctx := context.Background()
	owner := testUser(t, db, models.RoleUser)
	other := testUser(t, db, models.RoleUser)
	c := testCategory(t, db, false)
	n := testNominee(t, db, c.ID, "A")

	v, err := s.Create(ctx, &models.Vote{UserID: owner.ID, CategoryID: c.ID, NomineeID: n.ID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	ok, err := s.DeleteByID(ctx, other.ID, v.ID)
	if err != nil || ok {
		t.Errorf("foreign delete: got (%v, %v), want (false, nil)", ok, err)
	}
	ok, err = s.DeleteByID(ctx, owner.ID, v.ID)
	if err != nil || !ok {
		t.Errorf("owner delete: got (%v, %v), want (true, nil)", ok, err)
	}
}

func TestVoteStoreListAndTallies(t *testing.T) {
	db := testDB(t)
	s := NewVoteStore(db)
	ctx := context.Background()
	alice := testUser(t, db, models.RoleUser)
	bob := testUser(t, db, models.RoleUser)
	c := testCategory(t, db, false)
	a := testNominee(t, db, c.ID, "A")
	b := testNominee(t, db, c.ID, "B")
	testNominee(t, db, c.ID, "Unvoted")

	for _, v := range []models.Vote{
		{UserID: alice.ID, CategoryID: c.ID, NomineeID: a.ID},
		{UserID: bob.ID, CategoryID: c.ID, NomineeID: b.ID},
	} {
		if _, err := s.Create(ctx, &v); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	mine, err := s.ListForUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(mine) != 1 || mine[0].NomineeName != "A" || mine[0].CategoryName != c.Name {
		t.Errorf("ListForUser: got %+v", mine)
	}

	tallies, err := s.Tallies(ctx, &c.ID)
	if err != nil {
		t.Fatalf("Tallies: %v", err)
	}
	if len(tallies) != 2 {
		t.Fatalf("tallies: got %d groups, want 2 (zero-vote nominees excluded)", len(tallies))
	}
	for _, tl := range tallies {
		if tl.Count != 1 {
			t.Errorf("tally for %s: got %d, want 1", tl.NomineeName, tl.Count)
		}
	}

	other := uuid.New()
	empty, err := s.Tallies(ctx, &other)
	if err != nil || len(empty) != 0 {
		t.Errorf("Tallies for unknown category: got (%v, %v)", empty, err)
	}
}
