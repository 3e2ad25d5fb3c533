package repositories

import (
	"context"
	"time"

	"github.com/josepguedes/Projeto-2/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListingFilter narrows the public search. Only Available listings are ever
// returned by Search.
type ListingFilter struct {
	CategoryID     *uint
	Name           string
	PickupLocation string
	MaxPrice       *float64
	PickupDate     *time.Time
	// ExcludeID drops one listing, e.g. the one shown next to the results.
	ExcludeID      *uint
	Page           Page
}

type ListingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

func (r *ListingRepository) Create(ctx context.Context, listing *models.Listing) error {
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return translate(err, "listing")
	}
	return nil
}

func (r *ListingRepository) GetByID(ctx context.Context, id uint) (*models.Listing, error) {
	var listing models.Listing
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Category").
		First(&listing, id).Error
	if err != nil {
		return nil, translate(err, "listing")
	}
	return &listing, nil
}

// Mutate loads the listing under a row lock, lets fn decide and modify it, and
// writes it back in the same transaction. An error from fn rolls back.
func (r *ListingRepository) Mutate(ctx context.Context, id uint, fn func(*models.Listing) error) (*models.Listing, error) {
	var listing models.Listing
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&listing, id).Error; err != nil {
			return translate(err, "listing")
		}

		if err := fn(&listing); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Save(&listing).Error; err != nil {
			return translate(err, "listing")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// DeleteIf removes the listing when check passes; the decision and the delete
// share one row lock.
func (r *ListingRepository) DeleteIf(ctx context.Context, id uint, check func(*models.Listing) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var listing models.Listing
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&listing, id).Error; err != nil {
			return translate(err, "listing")
		}

		if err := check(&listing); err != nil {
			return err
		}

		if err := tx.Delete(&listing).Error; err != nil {
			return translate(err, "listing")
		}
		return nil
	})
}

func (r *ListingRepository) Search(ctx context.Context, f ListingFilter) ([]models.Listing, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Listing{}).
		Where("state = ?", models.ListingAvailable)

	if f.CategoryID != nil {
		query = query.Where("category_id = ?", *f.CategoryID)
	}
	if f.Name != "" {
		query = query.Where("name ILIKE ?", "%"+f.Name+"%")
	}
	if f.PickupLocation != "" {
		query = query.Where("pickup_location ILIKE ?", "%"+f.PickupLocation+"%")
	}
	if f.MaxPrice != nil {
		query = query.Where("price <= ?", *f.MaxPrice)
	}
	if f.PickupDate != nil {
		query = query.Where("pickup_date = ?", f.PickupDate.Format("2006-01-02"))
	}
	if f.ExcludeID != nil {
		query = query.Where("id <> ?", *f.ExcludeID)
	}

	return r.page(query, f.Page)
}

func (r *ListingRepository) ListByOwner(ctx context.Context, ownerID uint, p Page) ([]models.Listing, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Listing{}).Where("owner_id = ?", ownerID)
	return r.page(query, p)
}

func (r *ListingRepository) ListByCategory(ctx context.Context, categoryID uint, p Page) ([]models.Listing, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Listing{}).
		Where("category_id = ? AND state = ?", categoryID, models.ListingAvailable)
	return r.page(query, p)
}

// ListReservations returns Reserved listings, optionally for one reserver.
func (r *ListingRepository) ListReservations(ctx context.Context, reserverID *uint, p Page) ([]models.Listing, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Listing{}).Where("state = ?", models.ListingReserved)
	if reserverID != nil {
		query = query.Where("reserved_by_id = ?", *reserverID)
	}
	return r.page(query, p)
}

func (r *ListingRepository) page(query *gorm.DB, p Page) ([]models.Listing, int64, error) {
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "listings")
	}

	var listings []models.Listing
	err := query.
		Preload("Category").
		Order("created_at DESC").
		Scopes(paginate(p)).
		Find(&listings).Error
	if err != nil {
		return nil, 0, translate(err, "listings")
	}

	return listings, total, nil
}
