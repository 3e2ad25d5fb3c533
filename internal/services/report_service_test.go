package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/josepguedes/Projeto-2/internal/events"
	"github.com/josepguedes/Projeto-2/internal/repositories"
	"github.com/josepguedes/Projeto-2/internal/services/servicestest"
	"github.com/josepguedes/Projeto-2/pkg/errors"
	"github.com/xuri/excelize/v2"
)

func TestReportService_File(t *testing.T) {
	f := newListingFixture(t, ListingOptions{})
	ctx := context.Background()
	svc := NewReportService(servicestest.NewReports(), f.users, f.listings, f.pub)
	l := f.newListing(t)
	missing := l.ID + 10

	tests := []struct {
		name    string
		in      ReportInput
		wantErr string
	}{
		{name: "User report", in: ReportInput{ReportedID: f.owner.ID, Reason: "Não apareceu"}},
		{name: "Listing report", in: ReportInput{ReportedID: f.owner.ID, ListingID: &l.ID, Reason: "Fora de validade"}},
		{name: "Self report", in: ReportInput{ReportedID: f.buyer.ID, Reason: "x"}, wantErr: errors.ErrCodeValidation},
		{name: "No reason", in: ReportInput{ReportedID: f.owner.ID, Reason: " "}, wantErr: errors.ErrCodeValidation},
		{name: "Unknown user", in: ReportInput{ReportedID: 500, Reason: "x"}, wantErr: errors.ErrCodeNotFound},
		{name: "Unknown listing", in: ReportInput{ReportedID: f.owner.ID, ListingID: &missing, Reason: "x"}, wantErr: errors.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := svc.File(ctx, f.actor(f.buyer), tt.in)
			if tt.wantErr != "" {
				assertCode(t, err, tt.wantErr)
				return
			}
			if err != nil {
				t.Fatalf("File() error = %v", err)
			}
			if r.ReporterID != f.buyer.ID {
				t.Errorf("ReporterID = %d, want %d", r.ReporterID, f.buyer.ID)
			}
		})
	}

	if got := f.pub.Types(); len(got) != 2 || got[0] != events.ReportCreated {
		t.Errorf("events = %v, want two %s", got, events.ReportCreated)
	}
}

func TestReportService_AdminOperations(t *testing.T) {
	f := newListingFixture(t, ListingOptions{})
	ctx := context.Background()
	svc := NewReportService(servicestest.NewReports(), f.users, f.listings, nil)
	l := f.newListing(t)

	if _, err := svc.File(ctx, f.actor(f.buyer), ReportInput{ReportedID: f.owner.ID, ListingID: &l.ID, Reason: "a"}); err != nil {
		t.Fatal(err)
	}
	second, err := svc.File(ctx, f.actor(f.owner), ReportInput{ReportedID: f.buyer.ID, Reason: "b"})
	if err != nil {
		t.Fatal(err)
	}

	_, _, err = svc.List(ctx, f.actor(f.buyer), repositories.ReportFilter{})
	assertCode(t, err, errors.ErrCodeForbidden)

	list, total, err := svc.List(ctx, f.actor(f.admin), repositories.ReportFilter{ListingID: &l.ID, Page: pageAll})
	if err != nil || total != 1 || len(list) != 1 {
		t.Errorf("List(listing) = %d, %v; want 1", total, err)
	}

	var buf bytes.Buffer
	err = svc.Export(ctx, f.actor(f.buyer), &buf)
	assertCode(t, err, errors.ErrCodeForbidden)

	if err := svc.Export(ctx, f.actor(f.admin), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	book, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("export is not a workbook: %v", err)
	}
	rows, err := book.GetRows(reportSheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 3 || rows[0][0] != "IdDenuncia" {
		t.Errorf("rows = %v, want header plus 2 reports", rows)
	}

	err = svc.Delete(ctx, f.actor(f.owner), second.ID)
	assertCode(t, err, errors.ErrCodeForbidden)
	if err := svc.Delete(ctx, f.actor(f.admin), second.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	err = svc.Delete(ctx, f.actor(f.admin), second.ID)
	assertCode(t, err, errors.ErrCodeNotFound)
}
