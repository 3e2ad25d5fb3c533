package services

import (
	"context"
	"io"
	"strings"

	"github.com/josepguedes/Projeto-2/internal/models"
	"github.com/josepguedes/Projeto-2/internal/security"
	"github.com/josepguedes/Projeto-2/pkg/errors"
	"github.com/josepguedes/Projeto-2/pkg/logger"
	"github.com/xuri/excelize/v2"
)

type CategoryService struct {
	categories CategoryStore
}

func NewCategoryService(categories CategoryStore) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

func (s *CategoryService) Create(ctx context.Context, actor Actor, name string) (*models.Category, error) {
	if !actor.IsAdmin() {
		return nil, errors.Forbidden("admin access required")
	}
	return s.create(ctx, name)
}

func (s *CategoryService) create(ctx context.Context, name string) (*models.Category, error) {
	name = security.SanitizeText(strings.TrimSpace(name))
	if !security.ValidateLength(name, 1, 100) {
		return nil, errors.Validation("NomeCategoria must be between 1 and 100 characters")
	}

	existing, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range existing {
		if strings.EqualFold(c.Name, name) {
			return nil, errors.Conflict("category already exists")
		}
	}

	category := &models.Category{Name: name}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, actor Actor, id uint) error {
	if !actor.IsAdmin() {
		return errors.Forbidden("admin access required")
	}
	return s.categories.Delete(ctx, id)
}

type ImportResult struct {
	Created int
	Skipped int
}

// Import reads category names from the first column of every sheet in an
// XLSX workbook. A header row named NomeCategoria is skipped, and so are
// names that already exist.
func (s *CategoryService) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	var res ImportResult

	f, err := excelize.OpenReader(r)
	if err != nil {
		return res, errors.Validation("file is not a valid XLSX workbook")
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			logger.Warn("Skipping unreadable sheet", "sheet", sheet, "error", err)
			continue
		}

		for i, row := range rows {
			if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
				continue
			}
			if i == 0 && strings.EqualFold(strings.TrimSpace(row[0]), "NomeCategoria") {
				continue
			}

			if _, err := s.create(ctx, row[0]); err != nil {
				if errors.Is(err, errors.ErrCodeConflict) || errors.Is(err, errors.ErrCodeValidation) {
					res.Skipped++
					continue
				}
				return res, err
			}
			res.Created++
		}
	}
	return res, nil
}

// Seed creates any missing default category.
func (s *CategoryService) Seed(ctx context.Context) (int, error) {
	created := 0
	for _, name := range models.DefaultCategories {
		if _, err := s.create(ctx, name); err != nil {
			if errors.Is(err, errors.ErrCodeConflict) {
				continue
			}
			return created, err
		}
		created++
	}
	return created, nil
}
