package services

import (
	"context"
	"testing"

	"github.com/josepguedes/Projeto-2/internal/events"
	"github.com/josepguedes/Projeto-2/internal/models"
	"github.com/josepguedes/Projeto-2/internal/services/servicestest"
	"github.com/josepguedes/Projeto-2/pkg/errors"
)

func TestNotificationService_Create(t *testing.T) {
	users := servicestest.NewUsers()
	pusher := &servicestest.Pusher{}
	svc := NewNotificationService(servicestest.NewNotifications(), users, pusher)
	ctx := context.Background()

	admin := users.Add("admin", models.RoleAdmin)
	ana := users.Add("ana", models.RoleUser)
	rui := users.Add("rui", models.RoleUser)
	asAdmin := Actor{UserID: admin.ID, Role: admin.Role}

	tests := []struct {
		name       string
		actor      Actor
		message    string
		recipients []uint
		wantErr    string
	}{
		{name: "Not an admin", actor: Actor{UserID: ana.ID, Role: ana.Role}, message: "x", recipients: []uint{rui.ID}, wantErr: errors.ErrCodeForbidden},
		{name: "Empty message", actor: asAdmin, message: " ", recipients: []uint{rui.ID}, wantErr: errors.ErrCodeValidation},
		{name: "No recipients", actor: asAdmin, message: "x", wantErr: errors.ErrCodeValidation},
		{name: "Unknown recipient", actor: asAdmin, message: "x", recipients: []uint{ana.ID, 404}, wantErr: errors.ErrCodeNotFound},
		{name: "Broadcast", actor: asAdmin, message: "Manutenção às 22h", recipients: []uint{ana.ID, rui.ID, ana.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := svc.Create(ctx, tt.actor, tt.message, tt.recipients)
			if tt.wantErr != "" {
				assertCode(t, err, tt.wantErr)
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if len(n.Recipients) != 2 {
				t.Errorf("recipients = %d, want 2 distinct users", len(n.Recipients))
			}
		})
	}

	if len(pusher.Sent(ana.ID)) != 1 || len(pusher.Sent(rui.ID)) != 1 {
		t.Errorf("pushes = %d/%d, want one each", len(pusher.Sent(ana.ID)), len(pusher.Sent(rui.ID)))
	}
}

func TestNotificationService_InboxFlow(t *testing.T) {
	users := servicestest.NewUsers()
	store := servicestest.NewNotifications()
	svc := NewNotificationService(store, users, nil)
	ctx := context.Background()

	admin := users.Add("admin", models.RoleAdmin)
	ana := users.Add("ana", models.RoleUser)
	rui := users.Add("rui", models.RoleUser)
	asAdmin := Actor{UserID: admin.ID, Role: admin.Role}
	asAna := Actor{UserID: ana.ID, Role: ana.Role}

	if err := svc.Notify(ctx, ana.ID, "O seu anúncio foi reservado."); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	inbox, err := svc.ListMine(ctx, asAna)
	if err != nil || len(inbox) != 1 {
		t.Fatalf("ListMine() = %d, %v; want 1", len(inbox), err)
	}
	row := inbox[0]
	if row.ReadAt != nil {
		t.Error("new notification already read")
	}

	_, err = svc.MarkRead(ctx, Actor{UserID: rui.ID}, row.ID)
	assertCode(t, err, errors.ErrCodeForbidden)

	read, err := svc.MarkRead(ctx, asAna, row.ID)
	if err != nil || read.ReadAt == nil {
		t.Fatalf("MarkRead() = %v, %v", read, err)
	}

	_, err = svc.Associate(ctx, asAna, row.NotificationID, rui.ID)
	assertCode(t, err, errors.ErrCodeForbidden)
	if _, err := svc.Associate(ctx, asAdmin, row.NotificationID, rui.ID); err != nil {
		t.Fatalf("Associate() error = %v", err)
	}
	_, err = svc.Associate(ctx, asAdmin, row.NotificationID, rui.ID)
	assertCode(t, err, errors.ErrCodeConflict)

	_, _, err = svc.List(ctx, asAna, pageAll)
	assertCode(t, err, errors.ErrCodeForbidden)
	_, total, err := svc.List(ctx, asAdmin, pageAll)
	if err != nil || total != 1 {
		t.Errorf("List() = %d, %v; want 1", total, err)
	}

	if err := svc.Delete(ctx, asAdmin, row.NotificationID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if inbox, _ := svc.ListMine(ctx, Actor{UserID: rui.ID}); len(inbox) != 0 {
		t.Errorf("inbox after delete = %d, want 0", len(inbox))
	}
}

func TestNotificationService_DrivesDispatcher(t *testing.T) {
	users := servicestest.NewUsers()
	svc := NewNotificationService(servicestest.NewNotifications(), users, nil)
	owner := users.Add("owner", models.RoleUser)

	d := events.NewDispatcher(svc, nil)
	if err := d.Handle(context.Background(), events.New(events.ListingReserved, 9, 1, "reservado", owner.ID)); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	inbox, _ := svc.ListMine(context.Background(), Actor{UserID: owner.ID})
	if len(inbox) != 1 || inbox[0].Notification.Message != "reservado" {
		t.Errorf("inbox = %+v, want the reservation notice", inbox)
	}
}
