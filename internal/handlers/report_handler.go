package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/josepguedes/Projeto-2/internal/repositories"
	"github.com/josepguedes/Projeto-2/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type reportRequest struct {
	ReportedID uint   `json:"IdUtilizadorDenunciado" binding:"required"`
	ListingID  *uint  `json:"IdAnuncio"`
	Reason     string `json:"Motivo" binding:"required"`
}

func (h *HandlerManager) registerReportRoutes(authed, admin *gin.RouterGroup) {
	admin.GET("/denuncias", h.ListReports)
	admin.GET("/denuncias/export", h.ExportReports)
	authed.POST("/denuncias", h.FileReport)
	admin.DELETE("/denuncias/:id", h.DeleteReport)
}

// GET /denuncias?idAnuncio=&idDenunciado=&page=&limit=
func (h *HandlerManager) ListReports(c *gin.Context) {
	p, err := parsePage(c, 10)
	if err != nil {
		respondError(c, err)
		return
	}
	f := repositories.ReportFilter{Page: p}
	if f.ListingID, err = optionalUintQuery(c, "idAnuncio"); err != nil {
		respondError(c, err)
		return
	}
	if f.ReportedID, err = optionalUintQuery(c, "idDenunciado"); err != nil {
		respondError(c, err)
		return
	}
	reports, total, err := h.Reports.List(c.Request.Context(), actor(c), f)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, reports, total, p, Link{Rel: "exportar-denuncias", Href: "/denuncias/export", Method: http.MethodGet})
}

// ExportReports renders the workbook in memory first so a failure can still
// be answered with JSON.
func (h *HandlerManager) ExportReports(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.Reports.Export(c.Request.Context(), actor(c), &buf); err != nil {
		respondError(c, err)
		return
	}
	name := fmt.Sprintf("denuncias-%s.xlsx", time.Now().UTC().Format(services.DateLayout))
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *HandlerManager) FileReport(c *gin.Context) {
	var req reportRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	report, err := h.Reports.File(c.Request.Context(), actor(c), services.ReportInput{
		ReportedID: req.ReportedID,
		ListingID:  req.ListingID,
		Reason:     req.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (h *HandlerManager) DeleteReport(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Reports.Delete(c.Request.Context(), actor(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "report deleted", nil)
}
