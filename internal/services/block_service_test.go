package services

import (
	"context"
	"testing"
	"time"

	"github.com/josepguedes/Projeto-2/internal/events"
	"github.com/josepguedes/Projeto-2/internal/models"
	"github.com/josepguedes/Projeto-2/internal/repositories"
	"github.com/josepguedes/Projeto-2/internal/services/servicestest"
	"github.com/josepguedes/Projeto-2/pkg/errors"
)

func newBlockFixture(t *testing.T) (*BlockService, *servicestest.Blocks, *servicestest.Users, *servicestest.Publisher) {
	t.Helper()
	blocks := servicestest.NewBlocks()
	users := servicestest.NewUsers()
	pub := &servicestest.Publisher{}
	return NewBlockService(blocks, users, pub), blocks, users, pub
}

func TestBlockService_UserBlocks(t *testing.T) {
	svc, _, users, _ := newBlockFixture(t)
	ctx := context.Background()
	alice := users.Add("alice", models.RoleUser)
	bob := users.Add("bob", models.RoleUser)
	me := Actor{UserID: alice.ID, Role: alice.Role}

	_, err := svc.BlockUser(ctx, me, alice.ID)
	assertCode(t, err, errors.ErrCodeValidation)

	_, err = svc.BlockUser(ctx, me, 999)
	assertCode(t, err, errors.ErrCodeNotFound)

	block, err := svc.BlockUser(ctx, me, bob.ID)
	if err != nil {
		t.Fatalf("BlockUser() error = %v", err)
	}

	_, err = svc.BlockUser(ctx, me, bob.ID)
	assertCode(t, err, errors.ErrCodeConflict)

	for _, pair := range [][2]uint{{alice.ID, bob.ID}, {bob.ID, alice.ID}} {
		blocked, err := svc.IsBlocked(ctx, pair[0], pair[1])
		if err != nil || !blocked {
			t.Errorf("IsBlocked(%d, %d) = %v, %v; want true", pair[0], pair[1], blocked, err)
		}
	}

	st, err := svc.CheckUserBlock(ctx, Actor{UserID: bob.ID}, alice.ID)
	if err != nil {
		t.Fatalf("CheckUserBlock() error = %v", err)
	}
	if st.BlockedByMe || !st.BlockedMe || !st.Blocked {
		t.Errorf("CheckUserBlock() = %+v, want blocked by alice", st)
	}

	err = svc.UnblockUser(ctx, Actor{UserID: bob.ID}, block.ID)
	assertCode(t, err, errors.ErrCodeForbidden)

	if err := svc.UnblockUser(ctx, me, block.ID); err != nil {
		t.Fatalf("UnblockUser() error = %v", err)
	}
	if blocked, _ := svc.IsBlocked(ctx, alice.ID, bob.ID); blocked {
		t.Error("users still blocked after unblock")
	}
}

func TestBlockService_AdminBlock(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name    string
		actor   func(admin, user *models.User) Actor
		target  func(admin, other, user *models.User) uint
		endsAt  *time.Time
		wantErr string
	}{
		{
			name:   "Timed block",
			actor:  func(a, _ *models.User) Actor { return Actor{UserID: a.ID, Role: a.Role} },
			target: func(_, _, u *models.User) uint { return u.ID },
			endsAt: &future,
		},
		{
			name:   "Permanent block",
			actor:  func(a, _ *models.User) Actor { return Actor{UserID: a.ID, Role: a.Role} },
			target: func(_, _, u *models.User) uint { return u.ID },
		},
		{
			name:    "Not an admin",
			actor:   func(_, u *models.User) Actor { return Actor{UserID: u.ID, Role: u.Role} },
			target:  func(_, _, u *models.User) uint { return u.ID },
			wantErr: errors.ErrCodeForbidden,
		},
		{
			name:    "End in the past",
			actor:   func(a, _ *models.User) Actor { return Actor{UserID: a.ID, Role: a.Role} },
			target:  func(_, _, u *models.User) uint { return u.ID },
			endsAt:  &past,
			wantErr: errors.ErrCodeValidation,
		},
		{
			name:    "Target is an admin",
			actor:   func(a, _ *models.User) Actor { return Actor{UserID: a.ID, Role: a.Role} },
			target:  func(_, o, _ *models.User) uint { return o.ID },
			wantErr: errors.ErrCodeForbidden,
		},
		{
			name:    "Unknown target",
			actor:   func(a, _ *models.User) Actor { return Actor{UserID: a.ID, Role: a.Role} },
			target:  func(_, _, _ *models.User) uint { return 404 },
			wantErr: errors.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, users, pub := newBlockFixture(t)
			svc.WithClock(func() time.Time { return now })
			admin := users.Add("admin", models.RoleAdmin)
			other := users.Add("other", models.RoleAdmin)
			user := users.Add("user", models.RoleUser)

			block, err := svc.AdminBlock(context.Background(), tt.actor(admin, user), AdminBlockInput{
				UserID: tt.target(admin, other, user),
				EndsAt: tt.endsAt,
			})
			if tt.wantErr != "" {
				assertCode(t, err, tt.wantErr)
				return
			}
			if err != nil {
				t.Fatalf("AdminBlock() error = %v", err)
			}
			if !block.StartsAt.Equal(now) {
				t.Errorf("StartsAt = %v, want %v", block.StartsAt, now)
			}

			evs := pub.Events()
			if len(evs) != 1 || evs[0].Type != events.UserAdminBlocked || evs[0].Recipients[0] != user.ID {
				t.Errorf("events = %+v, want one admin block event for the user", evs)
			}

			blocked, err := svc.IsAdminBlocked(context.Background(), user.ID)
			if err != nil || !blocked {
				t.Errorf("IsAdminBlocked() = %v, %v; want true", blocked, err)
			}

			_, err = svc.AdminBlock(context.Background(), tt.actor(admin, user), AdminBlockInput{UserID: user.ID})
			assertCode(t, err, errors.ErrCodeConflict)
		})
	}
}

func TestBlockService_ExpiredAdminBlockIsDeleted(t *testing.T) {
	svc, blocks, users, _ := newBlockFixture(t)
	ctx := context.Background()
	user := users.Add("user", models.RoleUser)

	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	end := now.Add(-time.Minute)
	if err := blocks.CreateAdminBlock(ctx, &models.AdminBlock{UserID: user.ID, AdminID: 1, StartsAt: now.Add(-time.Hour), EndsAt: &end}); err != nil {
		t.Fatal(err)
	}
	svc.WithClock(func() time.Time { return now })

	blocked, err := svc.IsAdminBlocked(ctx, user.ID)
	if err != nil {
		t.Fatalf("IsAdminBlocked() error = %v", err)
	}
	if blocked {
		t.Error("expired block still counts")
	}
	if n := blocks.AdminBlockCount(); n != 0 {
		t.Errorf("admin blocks left = %d, want 0", n)
	}
}

func TestBlockService_AdminBlockAccess(t *testing.T) {
	svc, _, users, _ := newBlockFixture(t)
	ctx := context.Background()
	admin := users.Add("admin", models.RoleAdmin)
	user := users.Add("user", models.RoleUser)
	other := users.Add("other", models.RoleUser)
	adminActor := Actor{UserID: admin.ID, Role: admin.Role}
	userActor := Actor{UserID: user.ID, Role: user.Role}

	block, err := svc.AdminBlock(ctx, adminActor, AdminBlockInput{UserID: user.ID, Reason: "spam"})
	if err != nil {
		t.Fatalf("AdminBlock() error = %v", err)
	}

	got, err := svc.CheckAdminBlock(ctx, userActor, user.ID)
	if err != nil || got == nil || got.ID != block.ID {
		t.Errorf("CheckAdminBlock(self) = %v, %v", got, err)
	}
	_, err = svc.CheckAdminBlock(ctx, userActor, other.ID)
	assertCode(t, err, errors.ErrCodeForbidden)

	_, _, err = svc.ListAdminBlocks(ctx, userActor, repositories.Page{})
	assertCode(t, err, errors.ErrCodeForbidden)

	list, total, err := svc.ListAdminBlocks(ctx, adminActor, repositories.Page{})
	if err != nil || total != 1 || len(list) != 1 {
		t.Errorf("ListAdminBlocks() = %d, %v", total, err)
	}

	err = svc.RemoveAdminBlock(ctx, userActor, block.ID)
	assertCode(t, err, errors.ErrCodeForbidden)

	if err := svc.RemoveAdminBlock(ctx, adminActor, block.ID); err != nil {
		t.Fatalf("RemoveAdminBlock() error = %v", err)
	}
	err = svc.RemoveAdminBlock(ctx, adminActor, block.ID)
	assertCode(t, err, errors.ErrCodeNotFound)
}
