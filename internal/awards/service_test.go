package awards

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"nordicos/internal/awards/awardstest"
	"nordicos/internal/models"
)

func ptr[T any](v T) *T { return &v }

type fixture struct {
	db    *awardstest.DB
	files *awardstest.Files
	cache *awardstest.Cache
	svc   *Service
	admin uuid.UUID
}

func newService(db *awardstest.DB, files FileStore, cache ResultsCache) *Service {
	return New(Deps{
		Categories: db.Categories(),
		Nominees:   db.Nominees(),
		Media:      db.Media(),
		Votes:      db.Votes(),
		Files:      files,
		Results:    cache,
		Now:        func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) },
	})
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		db:    awardstest.NewDB(),
		files: awardstest.NewFiles(),
		cache: awardstest.NewCache(),
		admin: uuid.New(),
	}
	f.svc = newService(f.db, f.files, f.cache)
	return f
}

func (f *fixture) category(t *testing.T, in models.CategoryInput) *models.Category {
	t.Helper()
	c, err := f.svc.CreateCategory(context.Background(), in, f.admin)
	if err != nil {
		t.Fatalf("CreateCategory(%q): %v", in.Name, err)
	}
	return c
}

func (f *fixture) nominee(t *testing.T, categoryID uuid.UUID, name string) *models.Nominee {
	t.Helper()
	n, err := f.svc.CreateNominee(context.Background(), models.NomineeInput{CategoryID: categoryID, Name: name}, f.admin)
	if err != nil {
		t.Fatalf("CreateNominee(%q): %v", name, err)
	}
	return n
}

func (f *fixture) approvedUpload(t *testing.T, contentType string) *models.MediaUpload {
	t.Helper()
	ctx := context.Background()
	m, err := f.svc.UploadMedia(ctx, uuid.New(), Upload{
		OriginalFilename: "clip.bin",
		ContentType:      contentType,
		Size:             4,
		Body:             strings.NewReader("data"),
	})
	if err != nil {
		t.Fatalf("UploadMedia: %v", err)
	}
	m, err = f.svc.ReviewMedia(ctx, m.ID, models.MediaApproved, nil, f.admin)
	if err != nil {
		t.Fatalf("ReviewMedia: %v", err)
	}
	return m
}

func TestCreateCategory_Defaults(t *testing.T) {
	f := newFixture(t)
	c := f.category(t, models.CategoryInput{Name: "  Best Film  "})

	if c.Name != "Best Film" {
		t.Errorf("Name = %q, want trimmed", c.Name)
	}
	if !c.IsActive || !c.VotingEnabled || c.AllowMultipleVotes {
		t.Errorf("flags = active:%v voting:%v multi:%v, want true/true/false",
			c.IsActive, c.VotingEnabled, c.AllowMultipleVotes)
	}
	if c.MaxNominees != models.DefaultMaxNominees {
		t.Errorf("MaxNominees = %d, want %d", c.MaxNominees, models.DefaultMaxNominees)
	}
	if c.Year != 2026 {
		t.Errorf("Year = %d, want 2026 from the service clock", c.Year)
	}
}

func TestCreateCategory_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   models.CategoryInput
	}{
		{"blank name", models.CategoryInput{Name: "   "}},
		{"zero cap", models.CategoryInput{Name: "X", MaxNominees: ptr(0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.CreateCategory(context.Background(), tt.in, f.admin)
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("err = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestGetCategory_NotFound(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.GetCategory(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetCategory err = %v, want ErrNotFound", err)
	}
	if _, err := f.svc.GetCategoryWithNominees(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetCategoryWithNominees err = %v, want ErrNotFound", err)
	}
}

func TestListCategoriesWithNominees_HidesInactiveNominees(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t, models.CategoryInput{Name: "Music"})
	keep := f.nominee(t, c.ID, "Aurora")
	hidden := f.nominee(t, c.ID, "Hidden")
	if _, err := f.svc.UpdateNominee(ctx, hidden.ID, models.NomineePatch{IsActive: ptr(false)}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	list, err := f.svc.ListCategoriesWithNominees(ctx, true)
	if err != nil {
		t.Fatalf("ListCategoriesWithNominees: %v", err)
	}
	if len(list) != 1 || len(list[0].Nominees) != 1 || list[0].Nominees[0].ID != keep.ID {
		t.Fatalf("got %+v, want one category with only %s", list, keep.ID)
	}
}

func TestUpdateCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t, models.CategoryInput{Name: "Old"})

	got, err := f.svc.UpdateCategory(ctx, c.ID, models.CategoryPatch{Name: ptr(" New "), VotingEnabled: ptr(false)})
	if err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}
	if got.Name != "New" || got.VotingEnabled {
		t.Errorf("got name %q voting %v", got.Name, got.VotingEnabled)
	}
	if got.MaxNominees != models.DefaultMaxNominees {
		t.Errorf("untouched field changed: MaxNominees = %d", got.MaxNominees)
	}

	if _, err := f.svc.UpdateCategory(ctx, c.ID, models.CategoryPatch{Name: ptr("")}); !errors.Is(err, ErrInvalid) {
		t.Errorf("empty name err = %v, want ErrInvalid", err)
	}
	if _, err := f.svc.UpdateCategory(ctx, uuid.New(), models.CategoryPatch{Name: ptr("x")}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing category err = %v, want ErrNotFound", err)
	}
}

func TestDeleteCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t, models.CategoryInput{Name: "Doomed"})
	n := f.nominee(t, c.ID, "Only")

	if err := f.svc.DeleteCategory(ctx, c.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("delete with active nominee: err = %v, want ErrConflict", err)
	}

	if _, err := f.svc.CastVote(ctx, uuid.New(), c.ID, n.ID, models.ClientMeta{}); err != nil {
		t.Fatalf("CastVote: %v", err)
	}
	if _, err := f.svc.UpdateNominee(ctx, n.ID, models.NomineePatch{IsActive: ptr(false)}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	if err := f.svc.DeleteCategory(ctx, c.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if len(f.db.StoredVotes()) != 0 || f.db.NomineeCount() != 0 {
		t.Errorf("leftovers: %d votes, %d nominees", len(f.db.StoredVotes()), f.db.NomineeCount())
	}
	if err := f.svc.DeleteCategory(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}
