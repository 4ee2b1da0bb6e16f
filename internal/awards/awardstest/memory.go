// Package awardstest provides in-memory repositories and collaborators for
// exercising the awards service without PostgreSQL, Valkey or a disk.
package awardstest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"nordicos/internal/models"
	"nordicos/internal/store"
)

// DB is an in-memory stand-in for PostgreSQL shared by the repositories it
// hands out. A single mutex serializes access, which gives each operation
// the atomicity of one SQL statement.
type DB struct {
	mu         sync.Mutex
	categories map[uuid.UUID]models.Category
	nominees   map[uuid.UUID]models.Nominee
	media      map[uuid.UUID]models.MediaUpload
	votes      []storedVote
	clock      time.Time

	// HasVoteHook, when set, runs after HasVote releases the lock. Tests use
	// it to force interleavings. Set it before any concurrent use.
	HasVoteHook func()
}

type storedVote struct {
	models.Vote
	exclusive bool
}

// NewDB returns an empty database.
func NewDB() *DB {
	return &DB{
		categories: map[uuid.UUID]models.Category{},
		nominees:   map[uuid.UUID]models.Nominee{},
		media:      map[uuid.UUID]models.MediaUpload{},
		clock:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// tick returns a strictly increasing timestamp so ordering is deterministic.
func (db *DB) tick() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

// Categories returns the category repository.
func (db *DB) Categories() *Categories { return &Categories{db} }

// Nominees returns the nominee repository.
func (db *DB) Nominees() *Nominees { return &Nominees{db} }

// Media returns the media repository.
func (db *DB) Media() *Media { return &Media{db} }

// Votes returns the vote ledger.
func (db *DB) Votes() *Votes { return &Votes{db} }

// StoredVotes returns a copy of every vote in insertion order.
func (db *DB) StoredVotes() []models.Vote {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]models.Vote, len(db.votes))
	for i, v := range db.votes {
		out[i] = v.Vote
	}
	return out
}

// NomineeCount returns the number of stored nominees, active or not.
func (db *DB) NomineeCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.nominees)
}

func (db *DB) voteCount(nomineeID uuid.UUID) int {
	n := 0
	for _, v := range db.votes {
		if v.NomineeID == nomineeID {
			n++
		}
	}
	return n
}

func (db *DB) readNominee(n models.Nominee) models.Nominee {
	if c, ok := db.categories[n.CategoryID]; ok {
		n.CategoryName = c.Name
		n.CategoryDescription = c.Description
	}
	n.VoteCount = db.voteCount(n.ID)
	n.LinkedMedia = nil
	if n.LinkedMediaID != nil {
		if m, ok := db.media[*n.LinkedMediaID]; ok {
			n.LinkedMedia = &models.LinkedMedia{ID: m.ID, Filename: m.Filename, FilePath: m.FilePath, MediaType: m.MediaType}
		}
	}
	return n
}

func (db *DB) sortedNominees(keep func(models.Nominee) bool) []models.Nominee {
	var out []models.Nominee
	for _, n := range db.nominees {
		if keep(n) {
			out = append(out, db.readNominee(n))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Categories implements the awards category repository.
type Categories struct{ db *DB }

func (r *Categories) Create(_ context.Context, c *models.Category, _ *uuid.UUID) (*models.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := *c
	out.ID = uuid.New()
	out.CreatedAt = r.db.tick()
	out.UpdatedAt = out.CreatedAt
	r.db.categories[out.ID] = out
	return &out, nil
}

func (r *Categories) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *Categories) List(_ context.Context, isActive *bool) ([]models.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.list(isActive), nil
}

func (r *Categories) list(isActive *bool) []models.Category {
	var out []models.Category
	for _, c := range r.db.categories {
		if isActive == nil || c.IsActive == *isActive {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *Categories) ListWithNominees(_ context.Context, activeOnly bool) ([]models.CategoryWithNominees, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var filter *bool
	if activeOnly {
		filter = &activeOnly
	}
	out := []models.CategoryWithNominees{}
	for _, c := range r.list(filter) {
		id := c.ID
		list := r.db.sortedNominees(func(n models.Nominee) bool { return n.CategoryID == id && n.IsActive })
		if list == nil {
			list = []models.Nominee{}
		}
		out = append(out, models.CategoryWithNominees{Category: c, Nominees: list})
	}
	return out, nil
}

func (r *Categories) GetWithNominees(_ context.Context, id uuid.UUID) (*models.CategoryWithNominees, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.categories[id]
	if !ok {
		return nil, nil
	}
	list := r.db.sortedNominees(func(n models.Nominee) bool { return n.CategoryID == id && n.IsActive })
	if list == nil {
		list = []models.Nominee{}
	}
	return &models.CategoryWithNominees{Category: c, Nominees: list}, nil
}

func (r *Categories) Update(_ context.Context, id uuid.UUID, p models.CategoryPatch) (*models.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.categories[id]
	if !ok {
		return nil, nil
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = p.Description
	}
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
	if p.VotingEnabled != nil {
		c.VotingEnabled = *p.VotingEnabled
	}
	if p.AllowMultipleVotes != nil {
		c.AllowMultipleVotes = *p.AllowMultipleVotes
	}
	if p.MaxNominees != nil {
		c.MaxNominees = *p.MaxNominees
	}
	if p.DisplayOrder != nil {
		c.DisplayOrder = *p.DisplayOrder
	}
	if p.Year != nil {
		c.Year = *p.Year
	}
	c.UpdatedAt = r.db.tick()
	r.db.categories[id] = c
	return &c, nil
}

func (r *Categories) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.categories[id]; !ok {
		return false, nil
	}
	for _, n := range r.db.nominees {
		if n.CategoryID == id && n.IsActive {
			return false, store.ErrCategoryInUse
		}
	}
	kept := r.db.votes[:0]
	for _, v := range r.db.votes {
		if v.CategoryID != id {
			kept = append(kept, v)
		}
	}
	r.db.votes = kept
	for nid, n := range r.db.nominees {
		if n.CategoryID == id {
			delete(r.db.nominees, nid)
		}
	}
	delete(r.db.categories, id)
	return true, nil
}

// Nominees implements the awards nominee repository.
type Nominees struct{ db *DB }

func (r *Nominees) Create(_ context.Context, n *models.Nominee, _ *uuid.UUID) (*models.Nominee, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.categories[n.CategoryID]; !ok {
		return nil, errors.New("foreign key violation: category")
	}
	out := *n
	out.ID = uuid.New()
	out.CreatedAt = r.db.tick()
	out.UpdatedAt = out.CreatedAt
	r.db.nominees[out.ID] = out
	read := r.db.readNominee(out)
	return &read, nil
}

func (r *Nominees) FindByID(_ context.Context, id uuid.UUID) (*models.Nominee, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n, ok := r.db.nominees[id]
	if !ok {
		return nil, nil
	}
	read := r.db.readNominee(n)
	return &read, nil
}

func (r *Nominees) List(_ context.Context, f models.NomineeFilter) ([]models.Nominee, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.db.sortedNominees(func(n models.Nominee) bool {
		if f.CategoryID != nil && n.CategoryID != *f.CategoryID {
			return false
		}
		return !f.ActiveOnly || n.IsActive
	}), nil
}

func (r *Nominees) CountActiveInCategory(_ context.Context, categoryID uuid.UUID) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	count := 0
	for _, n := range r.db.nominees {
		if n.CategoryID == categoryID && n.IsActive {
			count++
		}
	}
	return count, nil
}

func (r *Nominees) Update(_ context.Context, n *models.Nominee) (*models.Nominee, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.nominees[n.ID]
	if !ok {
		return nil, nil
	}
	cur.CategoryID = n.CategoryID
	cur.Name = n.Name
	cur.Description = n.Description
	cur.ImageURL = n.ImageURL
	cur.VideoURL = n.VideoURL
	cur.MediaType = n.MediaType
	cur.IsActive = n.IsActive
	cur.DisplayOrder = n.DisplayOrder
	cur.LinkedMediaID = n.LinkedMediaID
	cur.UpdatedAt = r.db.tick()
	r.db.nominees[n.ID] = cur
	read := r.db.readNominee(cur)
	return &read, nil
}

func (r *Nominees) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.nominees[id]; !ok {
		return false, nil
	}
	kept := r.db.votes[:0]
	for _, v := range r.db.votes {
		if v.NomineeID != id {
			kept = append(kept, v)
		}
	}
	r.db.votes = kept
	delete(r.db.nominees, id)
	return true, nil
}

// Media implements the awards media repository.
type Media struct{ db *DB }

func (r *Media) Create(_ context.Context, m *models.MediaUpload) (*models.MediaUpload, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := *m
	out.ID = uuid.New()
	out.Status = models.MediaPending
	out.CreatedAt = r.db.tick()
	out.UpdatedAt = out.CreatedAt
	r.db.media[out.ID] = out
	return &out, nil
}

func (r *Media) FindByID(_ context.Context, id uuid.UUID) (*models.MediaUpload, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m, ok := r.db.media[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *Media) List(_ context.Context, f models.MediaFilter) ([]models.MediaUpload, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []models.MediaUpload
	for _, m := range r.db.media {
		if f.Status != nil && m.Status != *f.Status {
			continue
		}
		if f.UserID != nil && m.UserID != *f.UserID {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *Media) Review(_ context.Context, id uuid.UUID, status models.MediaStatus, notes *string, reviewer uuid.UUID) (*models.MediaUpload, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m, ok := r.db.media[id]
	if !ok {
		return nil, nil
	}
	at := r.db.tick()
	m.Status = status
	m.AdminNotes = notes
	m.ReviewedBy = &reviewer
	m.ReviewedAt = &at
	m.UpdatedAt = at
	r.db.media[id] = m
	return &m, nil
}

func (r *Media) Delete(_ context.Context, id uuid.UUID) (*models.MediaUpload, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m, ok := r.db.media[id]
	if !ok {
		return nil, nil
	}
	delete(r.db.media, id)
	return &m, nil
}

// Votes implements the awards vote ledger. It enforces the same single-vote
// rule as the partial unique index: the exclusive flag is taken from the
// category at insert time, and two exclusive rows for one (user, category)
// pair are rejected with store.ErrVoteExists.
type Votes struct{ db *DB }

func (r *Votes) Create(_ context.Context, v *models.Vote) (*models.Vote, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.categories[v.CategoryID]
	if !ok {
		return nil, errors.New("create vote: category vanished")
	}
	exclusive := !c.AllowMultipleVotes
	if exclusive {
		for _, existing := range r.db.votes {
			if existing.exclusive && existing.UserID == v.UserID && existing.CategoryID == v.CategoryID {
				return nil, store.ErrVoteExists
			}
		}
	}
	out := *v
	out.ID = uuid.New()
	out.CreatedAt = r.db.tick()
	r.db.votes = append(r.db.votes, storedVote{Vote: out, exclusive: exclusive})
	return &out, nil
}

func (r *Votes) HasVote(_ context.Context, userID, categoryID uuid.UUID) (bool, error) {
	r.db.mu.Lock()
	found := false
	for _, v := range r.db.votes {
		if v.UserID == userID && v.CategoryID == categoryID {
			found = true
			break
		}
	}
	hook := r.db.HasVoteHook
	r.db.mu.Unlock()
	if hook != nil {
		hook()
	}
	return found, nil
}

func (r *Votes) DeleteByCategory(_ context.Context, userID, categoryID uuid.UUID) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var removed int64
	kept := r.db.votes[:0]
	for _, v := range r.db.votes {
		if v.UserID == userID && v.CategoryID == categoryID {
			removed++
			continue
		}
		kept = append(kept, v)
	}
	r.db.votes = kept
	return removed, nil
}

func (r *Votes) DeleteByID(_ context.Context, userID, voteID uuid.UUID) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, v := range r.db.votes {
		if v.ID == voteID && v.UserID == userID {
			r.db.votes = append(r.db.votes[:i], r.db.votes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *Votes) ListForUser(_ context.Context, userID uuid.UUID) ([]models.VoteWithContext, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []models.VoteWithContext
	for _, v := range r.db.votes {
		if v.UserID != userID {
			continue
		}
		n := r.db.nominees[v.NomineeID]
		out = append(out, models.VoteWithContext{
			Vote:               v.Vote,
			CategoryName:       r.db.categories[v.CategoryID].Name,
			NomineeName:        n.Name,
			NomineeDescription: n.Description,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *Votes) Tallies(_ context.Context, categoryID *uuid.UUID) ([]models.VoteTally, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	type key struct{ c, n uuid.UUID }
	counts := map[key]int{}
	var order []key
	for _, v := range r.db.votes {
		if categoryID != nil && v.CategoryID != *categoryID {
			continue
		}
		k := key{v.CategoryID, v.NomineeID}
		if _, ok := counts[k]; !ok {
			order = append(order, k)
		}
		counts[k]++
	}
	var out []models.VoteTally
	for _, k := range order {
		c := r.db.categories[k.c]
		n := r.db.nominees[k.n]
		out = append(out, models.VoteTally{
			CategoryID: c.ID, CategoryName: c.Name, CategoryDescription: c.Description,
			NomineeID: n.ID, NomineeName: n.Name, NomineeDescription: n.Description,
			Count: counts[k],
		})
	}
	return out, nil
}

// Files is a FileStore that keeps objects in memory and records removals.
// FailRemove makes Remove fail after recording the attempt.
type Files struct {
	FailRemove bool

	mu      sync.Mutex
	objects map[string][]byte
	removed []string
}

// NewFiles returns an empty file store.
func NewFiles() *Files {
	return &Files{objects: map[string][]byte{}}
}

// Object returns the stored bytes for key.
func (f *Files) Object(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.objects[key]
	return b, ok
}

// Len returns the number of stored objects.
func (f *Files) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

// Removed returns every key passed to Remove.
func (f *Files) Removed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.removed...)
}

func (f *Files) Put(_ context.Context, key, _ string, body io.Reader, _ int64) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = buf.Bytes()
	return "/uploads/" + key, nil
}

func (f *Files) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, key)
	if f.FailRemove {
		return errors.New("disk on fire")
	}
	delete(f.objects, key)
	return nil
}

// Cache is a generational ResultsCache that counts invalidations.
type Cache struct {
	mu            sync.Mutex
	gen           int64
	entries       map[string][]models.CategoryResult
	invalidations int
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: map[string][]models.CategoryResult{}}
}

// Invalidations returns how many times InvalidateAll ran.
func (c *Cache) Invalidations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidations
}

// Current returns what a reader of the current generation would see for key.
func (c *Cache) Current(key string) ([]models.CategoryResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[cacheKey(c.gen, key)]
	return r, ok
}

func cacheKey(gen int64, key string) string {
	return fmt.Sprintf("%d:%s", gen, key)
}

func (c *Cache) Generation(context.Context) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, true
}

func (c *Cache) Get(_ context.Context, gen int64, key string) ([]models.CategoryResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[cacheKey(gen, key)]
	return r, ok
}

func (c *Cache) Set(_ context.Context, gen int64, key string, results []models.CategoryResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(gen, key)] = results
}

func (c *Cache) InvalidateAll(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.invalidations++
}
