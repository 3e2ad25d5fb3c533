package repositories

import (
	"context"

	"github.com/josepguedes/Projeto-2/internal/models"
	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return translate(err, "review")
	}
	return nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, translate(err, "review")
	}
	return &review, nil
}

func (r *ReviewRepository) Exists(ctx context.Context, listingID, authorID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("listing_id = ? AND author_id = ?", listingID, authorID).
		Count(&count).Error
	if err != nil {
		return false, translate(err, "reviews")
	}
	return count > 0, nil
}

func (r *ReviewRepository) Update(ctx context.Context, review *models.Review) error {
	err := r.db.WithContext(ctx).Model(review).
		Updates(map[string]interface{}{"rating": review.Rating, "comment": review.Comment}).Error
	if err != nil {
		return translate(err, "review")
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Review{}, id)
	if result.Error != nil {
		return translate(result.Error, "review")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "review")
	}
	return nil
}

// List returns reviews, optionally only those about one user.
func (r *ReviewRepository) List(ctx context.Context, subjectID *uint, p Page) ([]models.Review, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Review{})
	if subjectID != nil {
		query = query.Where("subject_id = ?", *subjectID)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "reviews")
	}

	var reviews []models.Review
	err := query.Preload("Author").Order("created_at DESC").Scopes(paginate(p)).Find(&reviews).Error
	if err != nil {
		return nil, 0, translate(err, "reviews")
	}
	return reviews, total, nil
}

// AverageFor returns the mean rating a user received and how many reviews it
// is based on.
func (r *ReviewRepository) AverageFor(ctx context.Context, subjectID uint) (float64, int64, error) {
	var row struct {
		Avg   float64
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("subject_id = ?", subjectID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, translate(err, "reviews")
	}
	return row.Avg, row.Count, nil
}
