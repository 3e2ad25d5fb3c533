package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/josepguedes/Projeto-2/internal/events"
	"github.com/josepguedes/Projeto-2/internal/models"
	"github.com/josepguedes/Projeto-2/internal/repositories"
	"github.com/josepguedes/Projeto-2/internal/security"
	"github.com/josepguedes/Projeto-2/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	maxReasonLength = 255
	reportSheet     = "Denuncias"
)

type ReportService struct {
	reports   ReportStore
	users     UserStore
	listings  ListingStore
	publisher events.Publisher
}

func NewReportService(reports ReportStore, users UserStore, listings ListingStore, publisher events.Publisher) *ReportService {
	return &ReportService{reports: reports, users: users, listings: listings, publisher: publisher}
}

type ReportInput struct {
	ReportedID uint
	ListingID  *uint
	Reason     string
}

func (s *ReportService) File(ctx context.Context, actor Actor, in ReportInput) (*models.Report, error) {
	if in.ReportedID == 0 {
		return nil, errors.Validation("IdUtilizadorDenunciado is required")
	}
	if in.ReportedID == actor.UserID {
		return nil, errors.Validation("you cannot report yourself")
	}
	reason := security.SanitizeText(strings.TrimSpace(in.Reason))
	if !security.ValidateLength(reason, 1, maxReasonLength) {
		return nil, errors.Validation(fmt.Sprintf("Motivo must be between 1 and %d characters", maxReasonLength))
	}

	if _, err := s.users.GetByID(ctx, in.ReportedID); err != nil {
		return nil, err
	}
	if in.ListingID != nil {
		if _, err := s.listings.GetByID(ctx, *in.ListingID); err != nil {
			return nil, err
		}
	}

	report := &models.Report{
		ReporterID: actor.UserID,
		ReportedID: in.ReportedID,
		ListingID:  in.ListingID,
		Reason:     reason,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, events.New(events.ReportCreated, actor.UserID, report.ID,
		fmt.Sprintf("Nova denúncia #%d contra o utilizador %d: %s", report.ID, report.ReportedID, report.Reason)))

	return report, nil
}

func (s *ReportService) List(ctx context.Context, actor Actor, f repositories.ReportFilter) ([]models.Report, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, errors.Forbidden("admin access required")
	}
	return s.reports.List(ctx, f)
}

func (s *ReportService) Delete(ctx context.Context, actor Actor, id uint) error {
	if !actor.IsAdmin() {
		return errors.Forbidden("admin access required")
	}
	if _, err := s.reports.GetByID(ctx, id); err != nil {
		return err
	}
	return s.reports.Delete(ctx, id)
}

// Export writes every report to w as an XLSX workbook.
func (s *ReportService) Export(ctx context.Context, actor Actor, w io.Writer) error {
	if !actor.IsAdmin() {
		return errors.Forbidden("admin access required")
	}
	reports, err := s.reports.All(ctx)
	if err != nil {
		return err
	}
	return WriteReportsXLSX(reports, w)
}

func WriteReportsXLSX(reports []models.Report, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return errors.Internal(err, "failed to prepare workbook")
	}

	header := []interface{}{"IdDenuncia", "IdUtilizadorDenunciante", "IdUtilizadorDenunciado", "IdAnuncio", "Motivo", "DataDenuncia"}
	if err := f.SetSheetRow(reportSheet, "A1", &header); err != nil {
		return errors.Internal(err, "failed to write header")
	}

	for i, r := range reports {
		var listing interface{}
		if r.ListingID != nil {
			listing = *r.ListingID
		}
		row := []interface{}{r.ID, r.ReporterID, r.ReportedID, listing, r.Reason, r.CreatedAt.Format("2006-01-02 15:04:05")}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Internal(err, "failed to address row")
		}
		if err := f.SetSheetRow(reportSheet, cell, &row); err != nil {
			return errors.Internal(err, "failed to write row")
		}
	}

	if err := f.Write(w); err != nil {
		return errors.Internal(err, "failed to write workbook")
	}
	return nil
}
