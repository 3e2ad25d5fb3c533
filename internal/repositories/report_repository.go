package repositories

import (
	"context"

	"github.com/josepguedes/Projeto-2/internal/models"
	"gorm.io/gorm"
)

type ReportFilter struct {
	ListingID  *uint
	ReportedID *uint
	Page       Page
}

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return translate(err, "report")
	}
	return nil
}

func (r *ReportRepository) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).First(&report, id).Error; err != nil {
		return nil, translate(err, "report")
	}
	return &report, nil
}

func (r *ReportRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Report{}, id)
	if result.Error != nil {
		return translate(result.Error, "report")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "report")
	}
	return nil
}

func (r *ReportRepository) List(ctx context.Context, f ReportFilter) ([]models.Report, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Report{})
	if f.ListingID != nil {
		query = query.Where("listing_id = ?", *f.ListingID)
	}
	if f.ReportedID != nil {
		query = query.Where("reported_id = ?", *f.ReportedID)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "reports")
	}

	var reports []models.Report
	err := query.
		Preload("Reporter").
		Preload("Reported").
		Order("created_at DESC").
		Scopes(paginate(f.Page)).
		Find(&reports).Error
	if err != nil {
		return nil, 0, translate(err, "reports")
	}
	return reports, total, nil
}

// All returns every report, oldest first, for export.
func (r *ReportRepository) All(ctx context.Context) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.WithContext(ctx).
		Preload("Reporter").
		Preload("Reported").
		Order("created_at ASC").
		Find(&reports).Error
	if err != nil {
		return nil, translate(err, "reports")
	}
	return reports, nil
}
