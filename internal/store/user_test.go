// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"nordicos/internal/models"
)

func TestUserStoreCreate(t *testing.T) {
	db := testDB(t)
	u := testUser(t, db, models.RoleUser)

	if u.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if u.Role != models.RoleUser {
		t.Errorf("role: got %q, want %q", u.Role, models.RoleUser)
	}
	if !u.IsActive {
		t.Error("new users should be active")
	}
	if u.PasswordHash == "" || u.PasswordHash == "pw-123456" {
		t.Error("password hash must be set and not plaintext")
	}
}

func TestUserStoreDuplicate(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	u := testUser(t, db, models.RoleUser)

	_, err := s.Create(context.Background(), u.Username, "other-"+u.Email, "pw", models.RoleUser)
	if !errors.Is(err, ErrUserExists) {
		t.Errorf("duplicate username: got %v, want ErrUserExists", err)
	}
	_, err = s.Create(context.Background(), "other-"+u.Username, u.Email, "pw", models.RoleUser)
	if !errors.Is(err, ErrUserExists) {
		t.Errorf("duplicate email: got %v, want ErrUserExists", err)
	}
}

func TestUserStoreFindByLogin(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()
	u := testUser(t, db, models.RoleAdmin)

	for _, login := range []string{u.Username, u.Email} {
		found, err := s.FindByLogin(ctx, login)
		if err != nil {
			t.Fatalf("FindByLogin(%q): %v", login, err)
		}
		if found == nil || found.ID != u.ID {
			t.Errorf("FindByLogin(%q): got %+v", login, found)
		}
	}

	missing, err := s.FindByLogin(ctx, "nobody-"+uuid.NewString())
	if err != nil {
		t.Fatalf("FindByLogin (missing): %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing user")
	}
}

func TestUserStoreCheckPasswordAndSetActive(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()
	u := testUser(t, db, models.RoleUser)

	if !s.CheckPassword(u, "pw-123456") {
		t.Error("correct password rejected")
	}
	if s.CheckPassword(u, "wrong") {
		t.Error("wrong password accepted")
	}

	if err := s.SetActive(ctx, u.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	found, err := s.FindByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.IsActive {
		t.Error("expected inactive after SetActive(false)")
	}
}
