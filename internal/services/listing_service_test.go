package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/josepguedes/Projeto-2/internal/events"
	"github.com/josepguedes/Projeto-2/internal/models"
	"github.com/josepguedes/Projeto-2/internal/repositories"
	"github.com/josepguedes/Projeto-2/internal/security"
	"github.com/josepguedes/Projeto-2/internal/services/servicestest"
	"github.com/josepguedes/Projeto-2/pkg/errors"
)

type listingFixture struct {
	listings *servicestest.Listings
	users    *servicestest.Users
	blocks   *servicestest.Blocks
	pub      *servicestest.Publisher
	svc      *ListingService
	blockSvc *BlockService

	owner, buyer, admin *models.User
	category            uint
}

func newListingFixture(t *testing.T, opts ListingOptions) *listingFixture {
	t.Helper()
	f := &listingFixture{
		listings: servicestest.NewListings(),
		users:    servicestest.NewUsers(),
		blocks:   servicestest.NewBlocks(),
		pub:      &servicestest.Publisher{},
	}
	categories := servicestest.NewCategories("Padaria")
	f.category = 1

	f.owner = f.users.Add("owner", models.RoleUser)
	f.buyer = f.users.Add("buyer", models.RoleUser)
	f.admin = f.users.Add("admin", models.RoleAdmin)

	f.blockSvc = NewBlockService(f.blocks, f.users, f.pub)
	f.svc = NewListingService(f.listings, categories, f.blockSvc, f.pub, opts)
	return f
}

func (f *listingFixture) actor(u *models.User) Actor {
	return Actor{UserID: u.ID, Role: u.Role}
}

func validInput() ListingInput {
	price := 2.5
	qty := 3
	return ListingInput{
		Name:           "Pão",
		Description:    "Pão do dia",
		Price:          &price,
		Quantity:       &qty,
		PickupLocation: "Porto",
		PickupWindow:   "18:00-19:00",
		PickupDate:     "2026-11-02",
		ExpiresOn:      "2026-11-03",
		CategoryID:     1,
	}
}

func (f *listingFixture) newListing(t *testing.T) *models.Listing {
	t.Helper()
	l, err := f.svc.Create(context.Background(), f.actor(f.owner), validInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return l
}

var pageAll = repositories.Page{Number: 1, Size: repositories.MaxPageSize}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if got := errors.CodeOf(err); got != code {
		t.Fatalf("error code = %s, want %s (%v)", got, code, err)
	}
}

func TestListingService_Create(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *ListingInput)
		wantErr string
	}{
		{name: "Valid listing", mutate: func(in *ListingInput) {}},
		{name: "Missing name", mutate: func(in *ListingInput) { in.Name = "  " }, wantErr: errors.ErrCodeValidation},
		{name: "Missing price", mutate: func(in *ListingInput) { in.Price = nil }, wantErr: errors.ErrCodeValidation},
		{name: "Price above maximum", mutate: func(in *ListingInput) { p := 150.0; in.Price = &p }, wantErr: errors.ErrCodeValidation},
		{name: "Negative quantity", mutate: func(in *ListingInput) { q := -1; in.Quantity = &q }, wantErr: errors.ErrCodeValidation},
		{name: "Slashed date", mutate: func(in *ListingInput) { in.PickupDate = "2026/11/02" }, wantErr: errors.ErrCodeValidation},
		{name: "Impossible date", mutate: func(in *ListingInput) { in.ExpiresOn = "2026-02-30" }, wantErr: errors.ErrCodeValidation},
		{name: "Unknown category", mutate: func(in *ListingInput) { in.CategoryID = 99 }, wantErr: errors.ErrCodeValidation},
		{name: "Image not a URL", mutate: func(in *ListingInput) { in.ImageURL = "ftp://x/y.png" }, wantErr: errors.ErrCodeValidation},
		{name: "Image not a picture", mutate: func(in *ListingInput) { in.ImageURL = "https://cdn.example.com/a.exe" }, wantErr: errors.ErrCodeValidation},
		{name: "Image accepted", mutate: func(in *ListingInput) { in.ImageURL = "https://cdn.example.com/a.JPG" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newListingFixture(t, ListingOptions{})
			in := validInput()
			tt.mutate(&in)

			l, err := f.svc.Create(context.Background(), f.actor(f.owner), in)
			if tt.wantErr != "" {
				assertCode(t, err, tt.wantErr)
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if l.State != models.ListingAvailable {
				t.Errorf("State = %v, want available", l.State)
			}
			if l.ReservedByID != nil || l.ReservedAt != nil || l.VerificationCode != nil {
				t.Error("new listing carries reservation fields")
			}
			if l.OwnerID != f.owner.ID {
				t.Errorf("OwnerID = %d, want %d", l.OwnerID, f.owner.ID)
			}
		})
	}
}

func TestListingService_ReserveConfirmScenario(t *testing.T) {
	f := newListingFixture(t, ListingOptions{})
	ctx := context.Background()
	l := f.newListing(t)

	reserved, err := f.svc.Reserve(ctx, f.actor(f.buyer), l.ID)
	if err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}
	if reserved.State != models.ListingReserved {
		t.Fatalf("State = %v, want reserved", reserved.State)
	}
	if reserved.VerificationCode == nil {
		t.Fatal("no verification code issued")
	}
	code := *reserved.VerificationCode
	if len(code) != 6 || !security.IsCodeShaped(code) {
		t.Fatalf("code %q is not six characters of the code alphabet", code)
	}
	if !reserved.IsReserver(f.buyer.ID) || reserved.ReservedAt == nil {
		t.Error("reserver or reservation time not recorded")
	}

	evs := f.pub.Events()
	if len(evs) != 1 || evs[0].Type != events.ListingReserved {
		t.Fatalf("events = %v, want one %s", f.pub.Types(), events.ListingReserved)
	}
	if len(evs[0].Recipients) != 1 || evs[0].Recipients[0] != f.owner.ID {
		t.Errorf("reservation notifies %v, want owner", evs[0].Recipients)
	}

	_, err = f.svc.ConfirmDelivery(ctx, f.actor(f.owner), l.ID, "000000")
	assertCode(t, err, errors.ErrCodeValidation)

	_, err = f.svc.ConfirmDelivery(ctx, f.actor(f.owner), l.ID, strings.ToLower(code))
	assertCode(t, err, errors.ErrCodeValidation)

	done, err := f.svc.ConfirmDelivery(ctx, f.actor(f.owner), l.ID, code)
	if err != nil {
		t.Fatalf("ConfirmDelivery() error = %v", err)
	}
	if done.State != models.ListingCompleted {
		t.Errorf("State = %v, want completed", done.State)
	}
	if done.ReservedByID != nil || done.VerificationCode != nil || done.ReservedAt != nil {
		t.Error("completed listing still carries reservation fields")
	}
	if done.CompletedByID == nil || *done.CompletedByID != f.buyer.ID || done.CompletedAt == nil {
		t.Error("pickup not recorded on completion")
	}

	_, err = f.svc.ConfirmDelivery(ctx, f.actor(f.owner), l.ID, code)
	assertCode(t, err, errors.ErrCodeConflict)

	_, err = f.svc.Reserve(ctx, f.actor(f.buyer), l.ID)
	assertCode(t, err, errors.ErrCodeConflict)
}

func TestListingService_ReserveRejections(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *listingFixture, l *models.Listing) (Actor, uint)
		wantErr string
	}{
		{
			name: "Missing listing",
			setup: func(f *listingFixture, l *models.Listing) (Actor, uint) {
				return f.actor(f.buyer), l.ID + 100
			},
			wantErr: errors.ErrCodeNotFound,
		},
		{
			name: "Own listing",
			setup: func(f *listingFixture, l *models.Listing) (Actor, uint) {
				return f.actor(f.owner), l.ID
			},
			wantErr: errors.ErrCodeForbidden,
		},
		{
			name: "Already reserved",
			setup: func(f *listingFixture, l *models.Listing) (Actor, uint) {
				if _, err := f.svc.Reserve(context.Background(), f.actor(f.admin), l.ID); err != nil {
					panic(err)
				}
				return f.actor(f.buyer), l.ID
			},
			wantErr: errors.ErrCodeConflict,
		},
		{
			name: "Owner blocked the buyer",
			setup: func(f *listingFixture, l *models.Listing) (Actor, uint) {
				_ = f.blocks.CreateUserBlock(context.Background(), &models.UserBlock{BlockerID: f.owner.ID, BlockedID: f.buyer.ID})
				return f.actor(f.buyer), l.ID
			},
			wantErr: errors.ErrCodeForbidden,
		},
		{
			name: "Blocked buyer on a reserved listing",
			setup: func(f *listingFixture, l *models.Listing) (Actor, uint) {
				if _, err := f.svc.Reserve(context.Background(), f.actor(f.admin), l.ID); err != nil {
					panic(err)
				}
				_ = f.blocks.CreateUserBlock(context.Background(), &models.UserBlock{BlockerID: f.owner.ID, BlockedID: f.buyer.ID})
				return f.actor(f.buyer), l.ID
			},
			wantErr: errors.ErrCodeConflict,
		},
		{
			name: "Buyer blocked the owner",
			setup: func(f *listingFixture, l *models.Listing) (Actor, uint) {
				_ = f.blocks.CreateUserBlock(context.Background(), &models.UserBlock{BlockerID: f.buyer.ID, BlockedID: f.owner.ID})
				return f.actor(f.buyer), l.ID
			},
			wantErr: errors.ErrCodeForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newListingFixture(t, ListingOptions{})
			l := f.newListing(t)
			actor, id := tt.setup(f, l)

			_, err := f.svc.Reserve(context.Background(), actor, id)
			assertCode(t, err, tt.wantErr)
		})
	}
}

type recordingChecker struct {
	calls [][2]uint
}

func (r *recordingChecker) IsBlocked(_ context.Context, a, b uint) (bool, error) {
	r.calls = append(r.calls, [2]uint{a, b})
	return false, nil
}

func TestListingService_ReserveChecksBlockUnderLock(t *testing.T) {
	f := newListingFixture(t, ListingOptions{})
	checker := &recordingChecker{}
	f.svc = NewListingService(f.listings, servicestest.NewCategories("Padaria"), checker, f.pub, ListingOptions{})
	ctx := context.Background()

	missing := f.newListing(t).ID + 100
	_, err := f.svc.Reserve(ctx, f.actor(f.buyer), missing)
	assertCode(t, err, errors.ErrCodeNotFound)
	if len(checker.calls) != 0 {
		t.Errorf("block lookup ran for a missing listing: %v", checker.calls)
	}

	l := f.newListing(t)
	if _, err := f.svc.Reserve(ctx, f.actor(f.buyer), l.ID); err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}
	if len(checker.calls) != 1 || checker.calls[0] != [2]uint{f.owner.ID, f.buyer.ID} {
		t.Fatalf("block lookups = %v, want one for owner and buyer", checker.calls)
	}

	_, err = f.svc.Reserve(ctx, f.actor(f.admin), l.ID)
	assertCode(t, err, errors.ErrCodeConflict)
	if len(checker.calls) != 1 {
		t.Errorf("block lookup ran for a reserved listing: %v", checker.calls)
	}
}

func TestListingService_ConcurrentReserve(t *testing.T) {
	f := newListingFixture(t, ListingOptions{})
	l := f.newListing(t)

	const buyers = 20
	actors := make([]Actor, buyers)
	for i := range actors {
		u := f.users.Add("buyer"+string(rune('a'+i)), models.RoleUser)
		actors[i] = f.actor(u)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for _, a := range actors {
		wg.Add(1)
		go func(a Actor) {
			defer wg.Done()
			_, err := f.svc.Reserve(context.Background(), a, l.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, errors.ErrCodeConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(a)
	}
	wg.Wait()

	if succeeded != 1 || conflicts != buyers-1 {
		t.Errorf("succeeded = %d, conflicts = %d, want 1 and %d", succeeded, conflicts, buyers-1)
	}
}

func TestListingService_Cancel(t *testing.T) {
	f := newListingFixture(t, ListingOptions{})
	ctx := context.Background()
	l := f.newListing(t)
	stranger := f.users.Add("stranger", models.RoleUser)

	_, err := f.svc.Cancel(ctx, f.actor(f.buyer), l.ID)
	assertCode(t, err, errors.ErrCodeForbidden)

	_, err = f.svc.Cancel(ctx, f.actor(f.owner), l.ID)
	assertCode(t, err, errors.ErrCodeConflict)

	if _, err := f.svc.Reserve(ctx, f.actor(f.buyer), l.ID); err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}

	_, err = f.svc.Cancel(ctx, f.actor(stranger), l.ID)
	assertCode(t, err, errors.ErrCodeForbidden)

	got, err := f.svc.Cancel(ctx, f.actor(f.buyer), l.ID)
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if got.State != models.ListingAvailable || got.ReservedByID != nil || got.ReservedAt != nil || got.VerificationCode != nil {
		t.Errorf("cancelled listing = %+v, want available with no reservation", got)
	}

	evs := f.pub.Events()
	last := evs[len(evs)-1]
	if last.Type != events.ListingCancelled {
		t.Fatalf("last event = %s, want %s", last.Type, events.ListingCancelled)
	}
	if len(last.Recipients) != 1 || last.Recipients[0] != f.owner.ID {
		t.Errorf("cancellation by buyer notifies %v, want owner only", last.Recipients)
	}

	if _, err := f.svc.Reserve(ctx, f.actor(f.buyer), l.ID); err != nil {
		t.Fatalf("Reserve() after cancel error = %v", err)
	}
	if _, err := f.svc.Cancel(ctx, f.actor(f.admin), l.ID); err != nil {
		t.Fatalf("admin Cancel() error = %v", err)
	}
}

func TestListingService_ConfirmGuards(t *testing.T) {
	f := newListingFixture(t, ListingOptions{
		GenerateCode: func(int) (string, error) { return "ABC234", nil },
	})
	ctx := context.Background()
	l := f.newListing(t)
	stranger := f.users.Add("stranger", models.RoleUser)

	_, err := f.svc.ConfirmDelivery(ctx, f.actor(f.owner), l.ID+50, "ABC234")
	assertCode(t, err, errors.ErrCodeNotFound)

	_, err = f.svc.ConfirmDelivery(ctx, f.actor(f.owner), l.ID, "ABC234")
	assertCode(t, err, errors.ErrCodeValidation)

	if _, err := f.svc.Reserve(ctx, f.actor(f.buyer), l.ID); err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}

	_, err = f.svc.ConfirmDelivery(ctx, f.actor(stranger), l.ID, "ABC234")
	assertCode(t, err, errors.ErrCodeForbidden)

	for _, malformed := range []string{" ABC234", "abc234", "ABC-34", "AB", "ABC2345"} {
		_, err = f.svc.ConfirmDelivery(ctx, f.actor(f.owner), l.ID, malformed)
		assertCode(t, err, errors.ErrCodeValidation)
	}
	still, err := f.listings.GetByID(ctx, l.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if still.State != models.ListingReserved {
		t.Fatalf("State = %v after malformed codes, want reserved", still.State)
	}

	if _, err := f.svc.ConfirmDelivery(ctx, f.actor(f.admin), l.ID, "ABC234"); err != nil {
		t.Fatalf("admin ConfirmDelivery() error = %v", err)
	}

	// a completed listing is a conflict for every caller
	for _, who := range []*models.User{stranger, f.owner, f.buyer} {
		_, err = f.svc.ConfirmDelivery(ctx, f.actor(who), l.ID, "ABC234")
		assertCode(t, err, errors.ErrCodeConflict)
	}
}

func TestListingService_Delete(t *testing.T) {
	f := newListingFixture(t, ListingOptions{})
	ctx := context.Background()
	l := f.newListing(t)

	err := f.svc.Delete(ctx, f.actor(f.buyer), l.ID)
	assertCode(t, err, errors.ErrCodeForbidden)

	if _, err := f.svc.Reserve(ctx, f.actor(f.buyer), l.ID); err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}
	err = f.svc.Delete(ctx, f.actor(f.owner), l.ID)
	assertCode(t, err, errors.ErrCodeConflict)

	if _, err := f.svc.Cancel(ctx, f.actor(f.owner), l.ID); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if err := f.svc.Delete(ctx, f.actor(f.owner), l.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err = f.svc.Get(ctx, f.actor(f.owner), l.ID)
	assertCode(t, err, errors.ErrCodeNotFound)
}

func TestListingService_Update(t *testing.T) {
	f := newListingFixture(t, ListingOptions{})
	ctx := context.Background()
	l := f.newListing(t)

	price := 4.0
	name := "Pão de Ló"
	got, err := f.svc.Update(ctx, f.actor(f.owner), l.ID, ListingPatch{Price: &price, Name: &name})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.Price != 4.0 || got.Name != name {
		t.Errorf("Update() = %v/%q, want 4/%q", got.Price, got.Name, name)
	}

	_, err = f.svc.Update(ctx, f.actor(f.buyer), l.ID, ListingPatch{Price: &price})
	assertCode(t, err, errors.ErrCodeForbidden)

	bad := "02-11-2026"
	_, err = f.svc.Update(ctx, f.actor(f.owner), l.ID, ListingPatch{PickupDate: &bad})
	assertCode(t, err, errors.ErrCodeValidation)

	if _, err := f.svc.Reserve(ctx, f.actor(f.buyer), l.ID); err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}
	_, err = f.svc.Update(ctx, f.actor(f.owner), l.ID, ListingPatch{Price: &price})
	assertCode(t, err, errors.ErrCodeConflict)
}

func TestListingService_GetHidesCode(t *testing.T) {
	f := newListingFixture(t, ListingOptions{})
	ctx := context.Background()
	l := f.newListing(t)
	if _, err := f.svc.Reserve(ctx, f.actor(f.buyer), l.ID); err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}

	tests := []struct {
		name     string
		viewer   Actor
		wantCode bool
	}{
		{name: "Owner", viewer: f.actor(f.owner), wantCode: false},
		{name: "Reserver", viewer: f.actor(f.buyer), wantCode: true},
		{name: "Admin", viewer: f.actor(f.admin), wantCode: true},
		{name: "Anonymous", viewer: Actor{}, wantCode: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.Get(ctx, tt.viewer, l.ID)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if (got.VerificationCode != nil) != tt.wantCode {
				t.Errorf("code visible = %v, want %v", got.VerificationCode != nil, tt.wantCode)
			}
		})
	}
}

func TestListingService_Search(t *testing.T) {
	f := newListingFixture(t, ListingOptions{})
	ctx := context.Background()
	a := f.newListing(t)
	f.newListing(t)
	if _, err := f.svc.Reserve(ctx, f.actor(f.buyer), a.ID); err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}

	list, total, err := f.svc.Search(ctx, SearchQuery{Page: repositories.Page{Number: 1, Size: 10}})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].ID == a.ID {
		t.Errorf("Search() returned %d of %d, want only the available listing", len(list), total)
	}

	_, _, err = f.svc.Search(ctx, SearchQuery{PickupDate: "2026-1-2"})
	assertCode(t, err, errors.ErrCodeValidation)

	_, total, err = f.svc.Search(ctx, SearchQuery{PickupDate: "2026-11-02"})
	if err != nil || total != 1 {
		t.Errorf("Search(date) = %d, %v; want 1 result", total, err)
	}

	shown := list[0].ID
	_, total, _ = f.svc.Search(ctx, SearchQuery{ExcludeID: &shown})
	if total != 0 {
		t.Errorf("Search(exclude %d) = %d, want 0", shown, total)
	}
}

func TestListingService_Reservations(t *testing.T) {
	f := newListingFixture(t, ListingOptions{Now: func() time.Time { return time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC) }})
	ctx := context.Background()
	l := f.newListing(t)
	if _, err := f.svc.Reserve(ctx, f.actor(f.buyer), l.ID); err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}

	list, total, err := f.svc.ReservationsOf(ctx, f.actor(f.buyer), f.buyer.ID, repositories.Page{})
	if err != nil || total != 1 {
		t.Fatalf("ReservationsOf() = %d, %v; want 1", total, err)
	}
	if list[0].ReservedAt == nil || !list[0].ReservedAt.Equal(time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("ReservedAt = %v, want injected clock", list[0].ReservedAt)
	}

	_, _, err = f.svc.ReservationsOf(ctx, f.actor(f.owner), f.buyer.ID, repositories.Page{})
	assertCode(t, err, errors.ErrCodeForbidden)

	_, _, err = f.svc.AllReservations(ctx, f.actor(f.buyer), repositories.Page{})
	assertCode(t, err, errors.ErrCodeForbidden)

	_, total, err = f.svc.AllReservations(ctx, f.actor(f.admin), repositories.Page{})
	if err != nil || total != 1 {
		t.Errorf("AllReservations() = %d, %v; want 1", total, err)
	}
}
