package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/andresuchdata/fullstock/internal/domain"
	"github.com/andresuchdata/fullstock/internal/export"
	"github.com/andresuchdata/fullstock/internal/pipeline"
	"github.com/andresuchdata/fullstock/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type ReportHandler struct {
	service *service.ReportService
}

func NewReportHandler(service *service.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

var errBadFilter = errors.New("invalid filter")

// queryList supports both repeated params and comma-separated values:
//
//	?alert=Red&alert=Yellow
//	?alert=Red,Yellow
func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, v := range c.QueryArray(key) {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (h *ReportHandler) parseFilter(c *gin.Context) (domain.RecordFilter, error) {
	filter := domain.RecordFilter{Search: strings.TrimSpace(c.Query("q"))}

	for _, raw := range queryList(c, "alert") {
		alert, ok := domain.ParseCostAlert(raw)
		if !ok {
			return filter, fmt.Errorf("%w: unknown alert %q", errBadFilter, raw)
		}
		filter.Alerts = append(filter.Alerts, alert)
	}

	for _, raw := range queryList(c, "action") {
		action, ok := domain.ParseAction(raw)
		if !ok {
			return filter, fmt.Errorf("%w: unknown action %q", errBadFilter, raw)
		}
		filter.Actions = append(filter.Actions, action)
	}

	return filter, nil
}

// writeError maps domain errors to HTTP statuses; anything else gets fallback.
func writeError(c *gin.Context, err error, fallback int) {
	status := fallback
	switch {
	case errors.Is(err, domain.ErrUnknownCompany), errors.Is(err, domain.ErrNoData):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrStorageDisabled):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrMissingFullReport),
		errors.Is(err, domain.ErrUnsupportedFormat),
		errors.Is(err, domain.ErrSheetNotFound),
		errors.Is(err, errBadFilter):
		status = http.StatusBadRequest
	}
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (h *ReportHandler) company(c *gin.Context) (domain.Company, bool) {
	company, err := h.service.ParseCompany(c.Param("company"))
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return "", false
	}
	return company, true
}

func (h *ReportHandler) GetCompanies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.service.Companies()})
}

// ProcessCompany replaces a company's records with the uploaded extracts.
func (h *ReportHandler) ProcessCompany(c *gin.Context) {
	company, ok := h.company(c)
	if !ok {
		return
	}

	full, err := formSource(c, "full")
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}
	if full == nil {
		writeError(c, domain.ErrMissingFullReport, http.StatusBadRequest)
		return
	}
	cost, err := formSource(c, "cost")
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}

	res, err := h.service.Process(c.Request.Context(), pipeline.Job{Company: company, Full: full, Cost: cost})
	if err != nil {
		writeError(c, err, http.StatusUnprocessableEntity)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"company":     res.Company,
		"records":     res.Records,
		"revision":    res.Revision,
		"duration_ms": res.Duration.Milliseconds(),
		"cost_loaded": cost != nil,
	})
}

// formSource reads an optional multipart file into memory.
func formSource(c *gin.Context, field string) (*pipeline.Source, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid form data: %w", err)
	}
	data, err := readFormFile(fh)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", field, err)
	}
	return pipeline.BytesSource(fh.Filename, data), nil
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (h *ReportHandler) GetRecords(c *gin.Context) {
	company, ok := h.company(c)
	if !ok {
		return
	}
	filter, err := h.parseFilter(c)
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}
	records, err := h.service.Records(company, filter)
	if err != nil {
		writeError(c, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": records, "total": len(records)})
}

func (h *ReportHandler) GetCompanySummary(c *gin.Context) {
	company, ok := h.company(c)
	if !ok {
		return
	}
	summary, err := h.service.CompanySummary(company)
	if err != nil {
		writeError(c, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ReportHandler) DeleteCompany(c *gin.Context) {
	company, ok := h.company(c)
	if !ok {
		return
	}
	deleted, err := h.service.DeleteCompany(company)
	if err != nil {
		writeError(c, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": company, "deleted": deleted})
}

func (h *ReportHandler) ResetSession(c *gin.Context) {
	h.service.Reset(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (h *ReportHandler) GetConsolidated(c *gin.Context) {
	rows := h.service.Consolidated()
	c.JSON(http.StatusOK, gin.H{"data": rows, "total": len(rows)})
}

func (h *ReportHandler) GetConsolidatedSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.ConsolidatedSummary())
}

func (h *ReportHandler) GetReplenishment(c *gin.Context) {
	lines := h.service.Replenishment()
	c.JSON(http.StatusOK, gin.H{"data": lines, "total": len(lines)})
}

// DownloadExport streams the workbook of the current session.
func (h *ReportHandler) DownloadExport(c *gin.Context) {
	wb, err := h.service.Export(c.Request.Context())
	if err != nil {
		writeError(c, err, http.StatusInternalServerError)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, wb.Name))
	c.Data(http.StatusOK, export.ContentType, wb.Data)
}

func (h *ReportHandler) UploadExport(c *gin.Context) {
	key, err := h.service.UploadExport(c.Request.Context())
	if err != nil {
		writeError(c, err, http.StatusBadGateway)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"key": key})
}

func (h *ReportHandler) ListExports(c *gin.Context) {
	objects, err := h.service.ListExports(c.Request.Context())
	if err != nil {
		writeError(c, err, http.StatusBadGateway)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": objects})
}
