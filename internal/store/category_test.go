package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"nordicos/internal/models"
)

func TestCategoryStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	ctx := context.Background()
	admin := testUser(t, db, models.RoleAdmin)

	desc := "Best of the north"
	c, err := s.Create(ctx, &models.Category{
		Name: "Find Test " + uuid.NewString()[:8], Description: &desc,
		IsActive: true, VotingEnabled: true, MaxNominees: 3, DisplayOrder: 2, Year: 2026,
	}, &admin.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { cleanCategory(db, c.ID) })

	if c.CreatedBy == nil || c.CreatedBy.Username != admin.Username {
		t.Errorf("created_by: got %+v, want %s", c.CreatedBy, admin.Username)
	}

	found, err := s.FindByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found == nil || found.MaxNominees != 3 || found.DisplayOrder != 2 || *found.Description != desc {
		t.Errorf("FindByID: got %+v", found)
	}

	missing, err := s.FindByID(ctx, uuid.New())
	if err != nil || missing != nil {
		t.Errorf("FindByID missing: got (%v, %v), want (nil, nil)", missing, err)
	}
}

func TestCategoryStoreUpdatePartial(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	ctx := context.Background()
	c := testCategory(t, db, false)

	enabled := false
	updated, err := s.Update(ctx, c.ID, models.CategoryPatch{VotingEnabled: &enabled})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.VotingEnabled {
		t.Error("voting_enabled should be false")
	}
	if updated.Name != c.Name || updated.MaxNominees != c.MaxNominees {
		t.Error("untouched fields changed")
	}

	none, err := s.Update(ctx, uuid.New(), models.CategoryPatch{VotingEnabled: &enabled})
	if err != nil || none != nil {
		t.Errorf("Update missing: got (%v, %v), want (nil, nil)", none, err)
	}
}

func TestCategoryStoreDelete(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	nominees := NewNomineeStore(db)
	votes := NewVoteStore(db)
	ctx := context.Background()
	voter := testUser(t, db, models.RoleUser)
	c := testCategory(t, db, false)
	n := testNominee(t, db, c.ID, "Solo")

	if _, err := s.Delete(ctx, c.ID); !errors.Is(err, ErrCategoryInUse) {
		t.Fatalf("Delete with active nominee: got %v, want ErrCategoryInUse", err)
	}

	if _, err := votes.Create(ctx, &models.Vote{UserID: voter.ID, CategoryID: c.ID, NomineeID: n.ID, IPAddress: "unknown", UserAgent: "unknown"}); err != nil {
		t.Fatalf("Create vote: %v", err)
	}
	n.IsActive = false
	if _, err := nominees.Update(ctx, n); err != nil {
		t.Fatalf("deactivate nominee: %v", err)
	}

	ok, err := s.Delete(ctx, c.ID)
	if err != nil || !ok {
		t.Fatalf("Delete: got (%v, %v), want (true, nil)", ok, err)
	}
	if got, _ := s.FindByID(ctx, c.ID); got != nil {
		t.Error("category still present after delete")
	}
	var remaining int
	db.QueryRow("SELECT COUNT(*) FROM votes WHERE category_id = $1", c.ID).Scan(&remaining)
	if remaining != 0 {
		t.Errorf("votes remaining: %d", remaining)
	}

	ok, err = s.Delete(ctx, c.ID)
	if err != nil || ok {
		t.Errorf("Delete missing: got (%v, %v), want (false, nil)", ok, err)
	}
}

func TestCategoryStoreWithNominees(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	nominees := NewNomineeStore(db)
	votes := NewVoteStore(db)
	ctx := context.Background()
	voter := testUser(t, db, models.RoleUser)
	c := testCategory(t, db, false)
	a := testNominee(t, db, c.ID, "Active")
	hidden := testNominee(t, db, c.ID, "Hidden")
	hidden.IsActive = false
	if _, err := nominees.Update(ctx, hidden); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := votes.Create(ctx, &models.Vote{UserID: voter.ID, CategoryID: c.ID, NomineeID: a.ID}); err != nil {
		t.Fatalf("vote: %v", err)
	}

	got, err := s.GetWithNominees(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetWithNominees: %v", err)
	}
	if len(got.Nominees) != 1 || got.Nominees[0].ID != a.ID {
		t.Fatalf("nominees: got %+v, want only the active one", got.Nominees)
	}
	if got.Nominees[0].VoteCount != 1 {
		t.Errorf("vote count: got %d, want 1", got.Nominees[0].VoteCount)
	}

	all, err := s.ListWithNominees(ctx, true)
	if err != nil {
		t.Fatalf("ListWithNominees: %v", err)
	}
	found := false
	for _, cw := range all {
		if cw.ID == c.ID {
			found = true
			if len(cw.Nominees) != 1 {
				t.Errorf("listed nominees: got %d, want 1", len(cw.Nominees))
			}
		}
	}
	if !found {
		t.Error("category missing from ListWithNominees")
	}
}
