// Package servicestest provides in-memory stores for exercising services
// without a database.
package servicestest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/josepguedes/Projeto-2/internal/events"
	"github.com/josepguedes/Projeto-2/internal/models"
	"github.com/josepguedes/Projeto-2/internal/repositories"
	"github.com/josepguedes/Projeto-2/pkg/errors"
)

func pageOf[T any](items []T, p repositories.Page) []T {
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Limit()
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// Listings mimics the row-locked listing repository: Mutate and DeleteIf hold
// one mutex for the whole decision.
type Listings struct {
	mu     sync.Mutex
	rows   map[uint]models.Listing
	nextID uint
}

func NewListings() *Listings {
	return &Listings{rows: map[uint]models.Listing{}}
}

func (s *Listings) Create(_ context.Context, l *models.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !l.ReservationConsistent() {
		return errors.Validation("invalid listing")
	}
	s.nextID++
	l.ID = s.nextID
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	s.rows[l.ID] = *l
	return nil
}

func (s *Listings) GetByID(_ context.Context, id uint) (*models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.rows[id]
	if !ok {
		return nil, errors.NotFound("listing not found")
	}
	return &l, nil
}

func (s *Listings) Mutate(_ context.Context, id uint, fn func(*models.Listing) error) (*models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.rows[id]
	if !ok {
		return nil, errors.NotFound("listing not found")
	}
	if err := fn(&l); err != nil {
		return nil, err
	}
	if !l.ReservationConsistent() {
		return nil, errors.Validation("invalid listing")
	}
	s.rows[id] = l
	return &l, nil
}

func (s *Listings) DeleteIf(_ context.Context, id uint, check func(*models.Listing) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.rows[id]
	if !ok {
		return errors.NotFound("listing not found")
	}
	if err := check(&l); err != nil {
		return err
	}
	delete(s.rows, id)
	return nil
}

func (s *Listings) filter(keep func(models.Listing) bool) []models.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Listing{}
	for _, l := range s.rows {
		if keep(l) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *Listings) Search(_ context.Context, f repositories.ListingFilter) ([]models.Listing, int64, error) {
	all := s.filter(func(l models.Listing) bool {
		if l.State != models.ListingAvailable {
			return false
		}
		if f.CategoryID != nil && l.CategoryID != *f.CategoryID {
			return false
		}
		if f.Name != "" && !strings.Contains(strings.ToLower(l.Name), strings.ToLower(f.Name)) {
			return false
		}
		if f.PickupLocation != "" && !strings.Contains(strings.ToLower(l.PickupLocation), strings.ToLower(f.PickupLocation)) {
			return false
		}
		if f.MaxPrice != nil && l.Price > *f.MaxPrice {
			return false
		}
		if f.PickupDate != nil && !l.PickupDate.Equal(*f.PickupDate) {
			return false
		}
		if f.ExcludeID != nil && l.ID == *f.ExcludeID {
			return false
		}
		return true
	})
	return pageOf(all, f.Page), int64(len(all)), nil
}

func (s *Listings) ListByOwner(_ context.Context, ownerID uint, p repositories.Page) ([]models.Listing, int64, error) {
	all := s.filter(func(l models.Listing) bool { return l.OwnerID == ownerID })
	return pageOf(all, p), int64(len(all)), nil
}

func (s *Listings) ListByCategory(_ context.Context, categoryID uint, p repositories.Page) ([]models.Listing, int64, error) {
	all := s.filter(func(l models.Listing) bool {
		return l.CategoryID == categoryID && l.State == models.ListingAvailable
	})
	return pageOf(all, p), int64(len(all)), nil
}

func (s *Listings) ListReservations(_ context.Context, reserverID *uint, p repositories.Page) ([]models.Listing, int64, error) {
	all := s.filter(func(l models.Listing) bool {
		if l.State != models.ListingReserved {
			return false
		}
		return reserverID == nil || l.IsReserver(*reserverID)
	})
	return pageOf(all, p), int64(len(all)), nil
}

type Users struct {
	mu     sync.Mutex
	rows   map[uint]models.User
	nextID uint
}

func NewUsers() *Users {
	return &Users{rows: map[uint]models.User{}}
}

// Add stores a user with the given role and returns it.
func (s *Users) Add(name, role string) *models.User {
	u := &models.User{Name: name, Email: strings.ToLower(name) + "@example.com", Role: role}
	if err := s.Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

func (s *Users) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, other := range s.rows {
		if other.Email == u.Email {
			return errors.Conflict("user already exists")
		}
	}
	s.nextID++
	u.ID = s.nextID
	u.CreatedAt = time.Now()
	s.rows[u.ID] = *u
	return nil
}

func (s *Users) GetByID(_ context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.rows[id]
	if !ok {
		return nil, errors.NotFound("user not found")
	}
	return &u, nil
}

func (s *Users) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.rows {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, errors.NotFound("user not found")
}

func (s *Users) List(_ context.Context, p repositories.Page) ([]models.User, int64, error) {
	s.mu.Lock()
	out := make([]models.User, 0, len(s.rows))
	for _, u := range s.rows {
		out = append(out, u)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return pageOf(out, p), int64(len(out)), nil
}

func (s *Users) Update(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[u.ID]; !ok {
		return errors.NotFound("user not found")
	}
	s.rows[u.ID] = *u
	return nil
}

func (s *Users) UpdateRating(_ context.Context, userID uint, rating *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.rows[userID]
	if !ok {
		return nil
	}
	u.Rating = rating
	s.rows[userID] = u
	return nil
}

type Categories struct {
	mu     sync.Mutex
	rows   map[uint]models.Category
	nextID uint
}

func NewCategories(names ...string) *Categories {
	s := &Categories{rows: map[uint]models.Category{}}
	for _, n := range names {
		_ = s.Create(context.Background(), &models.Category{Name: n})
	}
	return s
}

func (s *Categories) List(_ context.Context) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Category, 0, len(s.rows))
	for _, c := range s.rows {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Categories) GetByID(_ context.Context, id uint) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.rows[id]
	if !ok {
		return nil, errors.NotFound("category not found")
	}
	return &c, nil
}

func (s *Categories) Create(_ context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.rows {
		if other.Name == c.Name {
			return errors.Conflict("category already exists")
		}
	}
	s.nextID++
	c.ID = s.nextID
	s.rows[c.ID] = *c
	return nil
}

func (s *Categories) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return errors.NotFound("category not found")
	}
	delete(s.rows, id)
	return nil
}

type Blocks struct {
	mu          sync.Mutex
	userBlocks  map[uint]models.UserBlock
	adminBlocks map[uint]models.AdminBlock
	nextID      uint
}

func NewBlocks() *Blocks {
	return &Blocks{userBlocks: map[uint]models.UserBlock{}, adminBlocks: map[uint]models.AdminBlock{}}
}

func (s *Blocks) CreateUserBlock(_ context.Context, b *models.UserBlock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.userBlocks {
		if other.BlockerID == b.BlockerID && other.BlockedID == b.BlockedID {
			return errors.Conflict("user block already exists")
		}
	}
	s.nextID++
	b.ID = s.nextID
	b.CreatedAt = time.Now()
	s.userBlocks[b.ID] = *b
	return nil
}

func (s *Blocks) GetUserBlock(_ context.Context, id uint) (*models.UserBlock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.userBlocks[id]
	if !ok {
		return nil, errors.NotFound("user block not found")
	}
	return &b, nil
}

func (s *Blocks) FindUserBlock(_ context.Context, blockerID, blockedID uint) (*models.UserBlock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.userBlocks {
		if b.BlockerID == blockerID && b.BlockedID == blockedID {
			return &b, nil
		}
	}
	return nil, nil
}

func (s *Blocks) DeleteUserBlock(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.userBlocks[id]; !ok {
		return errors.NotFound("user block not found")
	}
	delete(s.userBlocks, id)
	return nil
}

func (s *Blocks) ListUserBlocks(_ context.Context, blockerID uint) ([]models.UserBlock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.UserBlock{}
	for _, b := range s.userBlocks {
		if b.BlockerID == blockerID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Blocks) ExistsBetween(_ context.Context, a, b uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ub := range s.userBlocks {
		if (ub.BlockerID == a && ub.BlockedID == b) || (ub.BlockerID == b && ub.BlockedID == a) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Blocks) CreateAdminBlock(_ context.Context, b *models.AdminBlock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	b.ID = s.nextID
	b.CreatedAt = time.Now()
	s.adminBlocks[b.ID] = *b
	return nil
}

func (s *Blocks) GetAdminBlock(_ context.Context, id uint) (*models.AdminBlock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.adminBlocks[id]
	if !ok {
		return nil, errors.NotFound("admin block not found")
	}
	return &b, nil
}

func (s *Blocks) AdminBlocksForUser(_ context.Context, userID uint) ([]models.AdminBlock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.AdminBlock{}
	for _, b := range s.adminBlocks {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Blocks) DeleteAdminBlock(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.adminBlocks[id]; !ok {
		return errors.NotFound("admin block not found")
	}
	delete(s.adminBlocks, id)
	return nil
}

func (s *Blocks) ListAdminBlocks(_ context.Context, p repositories.Page) ([]models.AdminBlock, int64, error) {
	s.mu.Lock()
	out := make([]models.AdminBlock, 0, len(s.adminBlocks))
	for _, b := range s.adminBlocks {
		out = append(out, b)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return pageOf(out, p), int64(len(out)), nil
}

// AdminBlockCount reports how many admin block rows are stored.
func (s *Blocks) AdminBlockCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.adminBlocks)
}

type Reviews struct {
	mu     sync.Mutex
	rows   map[uint]models.Review
	nextID uint
}

func NewReviews() *Reviews {
	return &Reviews{rows: map[uint]models.Review{}}
}

func (s *Reviews) Create(_ context.Context, r *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.rows {
		if other.ListingID == r.ListingID && other.AuthorID == r.AuthorID {
			return errors.Conflict("review already exists")
		}
	}
	s.nextID++
	r.ID = s.nextID
	r.CreatedAt = time.Now()
	s.rows[r.ID] = *r
	return nil
}

func (s *Reviews) GetByID(_ context.Context, id uint) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return nil, errors.NotFound("review not found")
	}
	return &r, nil
}

func (s *Reviews) Exists(_ context.Context, listingID, authorID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.ListingID == listingID && r.AuthorID == authorID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Reviews) Update(_ context.Context, r *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[r.ID]; !ok {
		return errors.NotFound("review not found")
	}
	s.rows[r.ID] = *r
	return nil
}

func (s *Reviews) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return errors.NotFound("review not found")
	}
	delete(s.rows, id)
	return nil
}

func (s *Reviews) List(_ context.Context, subjectID *uint, p repositories.Page) ([]models.Review, int64, error) {
	s.mu.Lock()
	out := []models.Review{}
	for _, r := range s.rows {
		if subjectID == nil || r.SubjectID == *subjectID {
			out = append(out, r)
		}
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return pageOf(out, p), int64(len(out)), nil
}

func (s *Reviews) AverageFor(_ context.Context, subjectID uint) (float64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum, n int
	for _, r := range s.rows {
		if r.SubjectID == subjectID {
			sum += r.Rating
			n++
		}
	}
	if n == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(n), int64(n), nil
}

type Reports struct {
	mu     sync.Mutex
	rows   map[uint]models.Report
	nextID uint
}

func NewReports() *Reports {
	return &Reports{rows: map[uint]models.Report{}}
}

func (s *Reports) Create(_ context.Context, r *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	r.ID = s.nextID
	r.CreatedAt = time.Now()
	s.rows[r.ID] = *r
	return nil
}

func (s *Reports) GetByID(_ context.Context, id uint) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return nil, errors.NotFound("report not found")
	}
	return &r, nil
}

func (s *Reports) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return errors.NotFound("report not found")
	}
	delete(s.rows, id)
	return nil
}

func (s *Reports) List(ctx context.Context, f repositories.ReportFilter) ([]models.Report, int64, error) {
	all, _ := s.All(ctx)
	out := []models.Report{}
	for _, r := range all {
		if f.ReportedID != nil && r.ReportedID != *f.ReportedID {
			continue
		}
		if f.ListingID != nil && (r.ListingID == nil || *r.ListingID != *f.ListingID) {
			continue
		}
		out = append(out, r)
	}
	return pageOf(out, f.Page), int64(len(out)), nil
}

func (s *Reports) All(_ context.Context) ([]models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Report, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type Messages struct {
	mu     sync.Mutex
	rows   map[uint]models.Message
	nextID uint
}

func NewMessages() *Messages {
	return &Messages{rows: map[uint]models.Message{}}
}

func (s *Messages) Create(_ context.Context, m *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	m.ID = s.nextID
	m.SentAt = time.Now()
	s.rows[m.ID] = *m
	return nil
}

func (s *Messages) GetByID(_ context.Context, id uint) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.rows[id]
	if !ok {
		return nil, errors.NotFound("message not found")
	}
	return &m, nil
}

func (s *Messages) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return errors.NotFound("message not found")
	}
	delete(s.rows, id)
	return nil
}

func (s *Messages) sorted() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, 0, len(s.rows))
	for _, m := range s.rows {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Messages) Conversation(_ context.Context, a, b uint, p repositories.Page) ([]models.Message, int64, error) {
	out := []models.Message{}
	for _, m := range s.sorted() {
		if (m.SenderID == a && m.RecipientID == b) || (m.SenderID == b && m.RecipientID == a) {
			out = append(out, m)
		}
	}
	return pageOf(out, p), int64(len(out)), nil
}

func (s *Messages) LatestPerCounterpart(_ context.Context, userID uint) ([]models.Message, error) {
	latest := map[uint]models.Message{}
	for _, m := range s.sorted() {
		if m.SenderID != userID && m.RecipientID != userID {
			continue
		}
		latest[m.Counterpart(userID)] = m
	}
	out := make([]models.Message, 0, len(latest))
	for _, m := range latest {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type Notifications struct {
	mu         sync.Mutex
	rows       map[uint]models.Notification
	recipients map[uint]models.NotificationRecipient
	nextID     uint
}

func NewNotifications() *Notifications {
	return &Notifications{rows: map[uint]models.Notification{}, recipients: map[uint]models.NotificationRecipient{}}
}

func (s *Notifications) Create(_ context.Context, n *models.Notification, recipientIDs []uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	n.ID = s.nextID
	n.CreatedAt = time.Now()
	n.Recipients = nil
	for _, id := range recipientIDs {
		s.nextID++
		r := models.NotificationRecipient{ID: s.nextID, NotificationID: n.ID, UserID: id, ReceivedAt: n.CreatedAt}
		s.recipients[r.ID] = r
		n.Recipients = append(n.Recipients, r)
	}
	s.rows[n.ID] = *n
	return nil
}

func (s *Notifications) GetByID(_ context.Context, id uint) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.rows[id]
	if !ok {
		return nil, errors.NotFound("notification not found")
	}
	return &n, nil
}

func (s *Notifications) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return errors.NotFound("notification not found")
	}
	delete(s.rows, id)
	for rid, r := range s.recipients {
		if r.NotificationID == id {
			delete(s.recipients, rid)
		}
	}
	return nil
}

func (s *Notifications) List(_ context.Context, p repositories.Page) ([]models.Notification, int64, error) {
	s.mu.Lock()
	out := make([]models.Notification, 0, len(s.rows))
	for _, n := range s.rows {
		out = append(out, n)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return pageOf(out, p), int64(len(out)), nil
}

func (s *Notifications) ListForUser(_ context.Context, userID uint) ([]models.NotificationRecipient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.NotificationRecipient{}
	for _, r := range s.recipients {
		if r.UserID == userID {
			n := s.rows[r.NotificationID]
			r.Notification = &n
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Notifications) Associate(_ context.Context, notificationID, userID uint) (*models.NotificationRecipient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.recipients {
		if r.NotificationID == notificationID && r.UserID == userID {
			return nil, errors.Conflict("notification recipient already exists")
		}
	}
	s.nextID++
	r := models.NotificationRecipient{ID: s.nextID, NotificationID: notificationID, UserID: userID, ReceivedAt: time.Now()}
	s.recipients[r.ID] = r
	return &r, nil
}

func (s *Notifications) GetRecipient(_ context.Context, id uint) (*models.NotificationRecipient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recipients[id]
	if !ok {
		return nil, errors.NotFound("notification not found")
	}
	return &r, nil
}

func (s *Notifications) MarkRead(_ context.Context, recipientID uint, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recipients[recipientID]
	if !ok {
		return errors.NotFound("notification not found")
	}
	if r.ReadAt == nil {
		r.ReadAt = &at
		s.recipients[recipientID] = r
	}
	return nil
}

// Publisher records published events.
type Publisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *Publisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *Publisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

// Types lists the types of published events in order.
func (p *Publisher) Types() []string {
	var out []string
	for _, e := range p.Events() {
		out = append(out, e.Type)
	}
	return out
}

// Pusher records realtime payloads per user.
type Pusher struct {
	mu   sync.Mutex
	sent map[uint][][]byte
}

func (p *Pusher) Push(_ context.Context, userID uint, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sent == nil {
		p.sent = map[uint][][]byte{}
	}
	p.sent[userID] = append(p.sent[userID], payload)
	return nil
}

func (p *Pusher) Sent(userID uint) [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]byte(nil), p.sent[userID]...)
}
