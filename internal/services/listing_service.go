package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/josepguedes/Projeto-2/internal/events"
	"github.com/josepguedes/Projeto-2/internal/models"
	"github.com/josepguedes/Projeto-2/internal/repositories"
	"github.com/josepguedes/Projeto-2/internal/security"
	"github.com/josepguedes/Projeto-2/pkg/errors"
)

// DateLayout is the only accepted shape for date fields.
const DateLayout = "2006-01-02"

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}

// BlockChecker answers whether two users have blocked each other.
type BlockChecker interface {
	IsBlocked(ctx context.Context, a, b uint) (bool, error)
}

type ListingOptions struct {
	MaxPrice   float64
	CodeLength int

	// GenerateCode and Now default to crypto/rand codes and time.Now.
	GenerateCode func(length int) (string, error)
	Now          func() time.Time
}

type ListingService struct {
	listings   ListingStore
	categories CategoryStore
	blocks     BlockChecker
	publisher  events.Publisher

	maxPrice     float64
	codeLength   int
	generateCode func(int) (string, error)
	now          func() time.Time
}

func NewListingService(listings ListingStore, categories CategoryStore, blocks BlockChecker, publisher events.Publisher, opts ListingOptions) *ListingService {
	s := &ListingService{
		listings:     listings,
		categories:   categories,
		blocks:       blocks,
		publisher:    publisher,
		maxPrice:     opts.MaxPrice,
		codeLength:   opts.CodeLength,
		generateCode: opts.GenerateCode,
		now:          opts.Now,
	}
	if s.maxPrice <= 0 {
		s.maxPrice = 100
	}
	if s.codeLength == 0 {
		s.codeLength = 6
	}
	if s.generateCode == nil {
		s.generateCode = security.GenerateVerificationCode
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// ListingInput carries the fields of a new listing. Pointers distinguish a
// missing number from zero.
type ListingInput struct {
	Name           string
	Description    string
	Price          *float64
	Quantity       *int
	PickupLocation string
	PickupWindow   string
	PickupDate     string
	ExpiresOn      string
	CategoryID     uint
	ImageURL       string
}

// ListingPatch carries an edit; nil fields are left alone.
type ListingPatch struct {
	Name           *string
	Description    *string
	Price          *float64
	Quantity       *int
	PickupLocation *string
	PickupWindow   *string
	PickupDate     *string
	ExpiresOn      *string
	CategoryID     *uint
	ImageURL       *string
}

func (s *ListingService) Create(ctx context.Context, actor Actor, in ListingInput) (*models.Listing, error) {
	var missing []string
	if strings.TrimSpace(in.Name) == "" {
		missing = append(missing, "Nome")
	}
	if in.Price == nil {
		missing = append(missing, "Preco")
	}
	if in.Quantity == nil {
		missing = append(missing, "Quantidade")
	}
	if strings.TrimSpace(in.PickupLocation) == "" {
		missing = append(missing, "LocalRecolha")
	}
	if strings.TrimSpace(in.PickupWindow) == "" {
		missing = append(missing, "HorarioRecolha")
	}
	if in.PickupDate == "" {
		missing = append(missing, "DataRecolha")
	}
	if in.ExpiresOn == "" {
		missing = append(missing, "DataValidade")
	}
	if in.CategoryID == 0 {
		missing = append(missing, "IdProdutoCategoria")
	}
	if len(missing) > 0 {
		return nil, errors.Validation("missing required fields: " + strings.Join(missing, ", "))
	}

	listing := &models.Listing{
		OwnerID:        actor.UserID,
		Name:           security.SanitizeText(in.Name),
		Description:    security.SanitizeText(in.Description),
		PickupLocation: security.SanitizeText(in.PickupLocation),
		PickupWindow:   security.SanitizeText(in.PickupWindow),
		CategoryID:     in.CategoryID,
		State:          models.ListingAvailable,
	}

	if err := s.setPrice(listing, *in.Price); err != nil {
		return nil, err
	}
	if err := setQuantity(listing, *in.Quantity); err != nil {
		return nil, err
	}
	if err := setDates(listing, &in.PickupDate, &in.ExpiresOn); err != nil {
		return nil, err
	}
	if err := setImage(listing, in.ImageURL); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// Update edits the descriptive fields of an Available listing.
func (s *ListingService) Update(ctx context.Context, actor Actor, id uint, patch ListingPatch) (*models.Listing, error) {
	if patch.CategoryID != nil {
		if err := s.checkCategory(ctx, *patch.CategoryID); err != nil {
			return nil, err
		}
	}

	return s.listings.Mutate(ctx, id, func(l *models.Listing) error {
		if l.OwnerID != actor.UserID && !actor.IsAdmin() {
			return errors.Forbidden("only the owner or an admin can edit this listing")
		}
		if l.State != models.ListingAvailable {
			return errors.Conflict("only available listings can be edited")
		}
		return s.applyPatch(l, patch)
	})
}

func (s *ListingService) applyPatch(l *models.Listing, p ListingPatch) error {
	if p.Name != nil {
		name := security.SanitizeText(*p.Name)
		if name == "" {
			return errors.Validation("Nome cannot be empty")
		}
		l.Name = name
	}
	if p.Description != nil {
		l.Description = security.SanitizeText(*p.Description)
	}
	if p.PickupLocation != nil {
		loc := security.SanitizeText(*p.PickupLocation)
		if loc == "" {
			return errors.Validation("LocalRecolha cannot be empty")
		}
		l.PickupLocation = loc
	}
	if p.PickupWindow != nil {
		window := security.SanitizeText(*p.PickupWindow)
		if window == "" {
			return errors.Validation("HorarioRecolha cannot be empty")
		}
		l.PickupWindow = window
	}
	if p.Price != nil {
		if err := s.setPrice(l, *p.Price); err != nil {
			return err
		}
	}
	if p.Quantity != nil {
		if err := setQuantity(l, *p.Quantity); err != nil {
			return err
		}
	}
	if err := setDates(l, p.PickupDate, p.ExpiresOn); err != nil {
		return err
	}
	if p.CategoryID != nil {
		l.CategoryID = *p.CategoryID
	}
	if p.ImageURL != nil {
		if err := setImage(l, *p.ImageURL); err != nil {
			return err
		}
	}
	return nil
}

// Reserve moves an Available listing to Reserved for actor and issues a
// verification code. Concurrent reservations are serialized by the store's
// row lock, so exactly one of them wins.
func (s *ListingService) Reserve(ctx context.Context, actor Actor, id uint) (*models.Listing, error) {
	code, err := s.generateCode(s.codeLength)
	if err != nil {
		return nil, errors.Internal(err, "failed to generate verification code")
	}

	reserverID := actor.UserID
	listing, err := s.listings.Mutate(ctx, id, func(l *models.Listing) error {
		if l.State != models.ListingAvailable {
			return errors.Conflict("listing is not available")
		}
		if l.OwnerID == reserverID {
			return errors.Forbidden("you cannot reserve your own listing")
		}
		// looked up while the listing row is locked; a block committed after
		// this read does not undo the reservation
		blocked, err := s.blocks.IsBlocked(ctx, l.OwnerID, reserverID)
		if err != nil {
			return err
		}
		if blocked {
			return errors.Forbidden("reservation is not allowed between blocked users")
		}

		now := s.now()
		l.State = models.ListingReserved
		l.ReservedByID = &reserverID
		l.ReservedAt = &now
		l.VerificationCode = &code
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, events.New(events.ListingReserved, actor.UserID, listing.ID,
		fmt.Sprintf("O seu anúncio \"%s\" foi reservado.", listing.Name), listing.OwnerID))

	return listing, nil
}

// Cancel returns a Reserved listing to Available. Owner, reserver or admin.
func (s *ListingService) Cancel(ctx context.Context, actor Actor, id uint) (*models.Listing, error) {
	var notify []uint
	listing, err := s.listings.Mutate(ctx, id, func(l *models.Listing) error {
		if !l.IsParty(actor.UserID) && !actor.IsAdmin() {
			return errors.Forbidden("only the owner, the reserver or an admin can cancel this reservation")
		}
		if l.State != models.ListingReserved {
			return errors.Conflict("listing is not reserved")
		}

		notify = otherParties(actor.UserID, l.OwnerID, *l.ReservedByID)
		l.ClearReservation()
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, events.New(events.ListingCancelled, actor.UserID, listing.ID,
		fmt.Sprintf("A reserva do anúncio \"%s\" foi cancelada.", listing.Name), notify...))

	return listing, nil
}

// ConfirmDelivery completes a Reserved listing when code matches the stored
// verification code exactly.
func (s *ListingService) ConfirmDelivery(ctx context.Context, actor Actor, id uint, code string) (*models.Listing, error) {
	var notify []uint
	listing, err := s.listings.Mutate(ctx, id, func(l *models.Listing) error {
		if l.State == models.ListingCompleted {
			return errors.Conflict("listing is already completed")
		}
		if !l.IsParty(actor.UserID) && !actor.IsAdmin() {
			return errors.Forbidden("only the owner, the reserver or an admin can confirm this delivery")
		}
		if l.State != models.ListingReserved {
			return errors.Validation("listing is not reserved")
		}
		if l.VerificationCode == nil || *l.VerificationCode == "" {
			return errors.Validation("listing has no verification code")
		}
		if !security.IsCodeShaped(code) {
			return errors.Validation("verification code is malformed")
		}
		if subtle.ConstantTimeCompare([]byte(*l.VerificationCode), []byte(code)) != 1 {
			return errors.Validation("invalid verification code")
		}

		notify = otherParties(actor.UserID, l.OwnerID, *l.ReservedByID)
		l.Complete(s.now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, events.New(events.ListingCompleted, actor.UserID, listing.ID,
		fmt.Sprintf("A entrega do anúncio \"%s\" foi confirmada.", listing.Name), notify...))

	return listing, nil
}

// Delete removes an Available listing. Owner or admin.
func (s *ListingService) Delete(ctx context.Context, actor Actor, id uint) error {
	return s.listings.DeleteIf(ctx, id, func(l *models.Listing) error {
		if l.OwnerID != actor.UserID && !actor.IsAdmin() {
			return errors.Forbidden("only the owner or an admin can delete this listing")
		}
		if l.State != models.ListingAvailable {
			return errors.Conflict("reserved or completed listings cannot be deleted")
		}
		return nil
	})
}

// Get returns a listing with the verification code hidden from everyone but
// the reserver and admins.
func (s *ListingService) Get(ctx context.Context, viewer Actor, id uint) (*models.Listing, error) {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	redacted := listing.Redacted(viewer.UserID, viewer.IsAdmin())
	return &redacted, nil
}

// SearchQuery mirrors the public search parameters.
type SearchQuery struct {
	CategoryID     *uint
	Name           string
	PickupLocation string
	MaxPrice       *float64
	PickupDate     string
	ExcludeID      *uint
	Page           repositories.Page
}

// Search lists Available listings only.
func (s *ListingService) Search(ctx context.Context, q SearchQuery) ([]models.Listing, int64, error) {
	f := repositories.ListingFilter{
		CategoryID:     q.CategoryID,
		Name:           strings.TrimSpace(q.Name),
		PickupLocation: strings.TrimSpace(q.PickupLocation),
		MaxPrice:       q.MaxPrice,
		ExcludeID:      q.ExcludeID,
		Page:           q.Page,
	}
	if q.MaxPrice != nil && *q.MaxPrice < 0 {
		return nil, 0, errors.Validation("precoMax must not be negative")
	}
	if q.PickupDate != "" {
		d, err := parseDate("dataRecolha", q.PickupDate)
		if err != nil {
			return nil, 0, err
		}
		f.PickupDate = &d
	}

	list, total, err := s.listings.Search(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return redactAll(list, Actor{}), total, nil
}

func (s *ListingService) ByOwner(ctx context.Context, viewer Actor, ownerID uint, p repositories.Page) ([]models.Listing, int64, error) {
	list, total, err := s.listings.ListByOwner(ctx, ownerID, p)
	if err != nil {
		return nil, 0, err
	}
	return redactAll(list, viewer), total, nil
}

func (s *ListingService) ByCategory(ctx context.Context, categoryID uint, p repositories.Page) ([]models.Listing, int64, error) {
	if err := s.checkCategory(ctx, categoryID); err != nil {
		return nil, 0, err
	}
	list, total, err := s.listings.ListByCategory(ctx, categoryID, p)
	if err != nil {
		return nil, 0, err
	}
	return redactAll(list, Actor{}), total, nil
}

// ReservationsOf lists what userID currently has reserved. The user or an admin.
func (s *ListingService) ReservationsOf(ctx context.Context, actor Actor, userID uint, p repositories.Page) ([]models.Listing, int64, error) {
	if actor.UserID != userID && !actor.IsAdmin() {
		return nil, 0, errors.Forbidden("you can only see your own reservations")
	}
	list, total, err := s.listings.ListReservations(ctx, &userID, p)
	if err != nil {
		return nil, 0, err
	}
	return redactAll(list, actor), total, nil
}

func (s *ListingService) AllReservations(ctx context.Context, actor Actor, p repositories.Page) ([]models.Listing, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, errors.Forbidden("admin access required")
	}
	return s.listings.ListReservations(ctx, nil, p)
}

func (s *ListingService) checkCategory(ctx context.Context, id uint) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			return errors.Validation("unknown category")
		}
		return err
	}
	return nil
}

func (s *ListingService) setPrice(l *models.Listing, price float64) error {
	if price < 0 {
		return errors.Validation("Preco must not be negative")
	}
	if price > s.maxPrice {
		return errors.Validation(fmt.Sprintf("Preco must not exceed %.2f", s.maxPrice))
	}
	l.Price = price
	return nil
}

func setQuantity(l *models.Listing, qty int) error {
	if qty < 0 {
		return errors.Validation("Quantidade must not be negative")
	}
	l.Quantity = qty
	return nil
}

func setDates(l *models.Listing, pickup, expires *string) error {
	if pickup != nil {
		d, err := parseDate("DataRecolha", *pickup)
		if err != nil {
			return err
		}
		l.PickupDate = d
	}
	if expires != nil {
		d, err := parseDate("DataValidade", *expires)
		if err != nil {
			return err
		}
		l.ExpiresOn = d
	}
	return nil
}

func setImage(l *models.Listing, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		l.ImageURL = ""
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Validation("ImagemAnuncio must be an http(s) URL")
	}
	if !security.ValidateFileType(u.Path, imageExtensions) {
		return errors.Validation("ImagemAnuncio must point to an image")
	}
	l.ImageURL = raw
	return nil
}

// parseDate accepts exactly YYYY-MM-DD with a real calendar date.
func parseDate(field, value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, errors.Validation(field + " must be a valid date in YYYY-MM-DD format")
	}
	return d, nil
}

func otherParties(actorID uint, ids ...uint) []uint {
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id != actorID {
			out = append(out, id)
		}
	}
	return out
}

func redactAll(list []models.Listing, viewer Actor) []models.Listing {
	for i := range list {
		list[i] = list[i].Redacted(viewer.UserID, viewer.IsAdmin())
	}
	return list
}
