package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/li-k-z/news-crawler/internal/job"
	"github.com/li-k-z/news-crawler/internal/report"
)

// isoDatePattern validates the news-detail date parameter before it
// reaches the store.
var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Generator starts generation runs and exposes their state.
type Generator interface {
	Trigger(ctx context.Context) error
	Status() job.Snapshot
}

// ReportStore lists and reads saved reports.
type ReportStore interface {
	List() ([]report.Entry, error)
	Read(isoDate string) (string, error)
}

// Handler carries the API endpoints.
type Handler struct {
	generator Generator
	store     ReportStore

	// runCtx bounds background generation runs. Requests return
	// immediately, so the run must not inherit the request context;
	// it ends with the server instead.
	runCtx context.Context

	logger *slog.Logger
	now    func() time.Time
}

// NewHandler builds the API handler set.
func NewHandler(generator Generator, store ReportStore, runCtx context.Context, logger *slog.Logger) *Handler {
	return &Handler{
		generator: generator,
		store:     store,
		runCtx:    runCtx,
		logger:    logger,
		now:       time.Now,
	}
}

// ListResponse wraps the saved-report listing.
type ListResponse struct {
	NewsList []report.Entry `json:"news_list"`
}

// DetailResponse carries one report plus its extracted summary.
type DetailResponse struct {
	Summary string `json:"summary"`
	Content string `json:"content"`
}

// Health reports service liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   h.now().Format(time.RFC3339),
	})
}

// NewsList returns the saved report dates, newest first, each flagged
// with whether the report carries a summary section.
func (h *Handler) NewsList(c *gin.Context) {
	entries, err := h.store.List()
	if err != nil {
		h.logger.Error("failed to list reports", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reports"})
		return
	}
	if entries == nil {
		entries = []report.Entry{}
	}
	c.JSON(http.StatusOK, ListResponse{NewsList: entries})
}

// NewsDetail returns one report's content and extracted summary. The
// date query parameter must be YYYY-MM-DD.
func (h *Handler) NewsDetail(c *gin.Context) {
	date := c.Query("date")
	if !isoDatePattern.MatchString(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	content, err := h.store.Read(date)
	switch {
	case errors.Is(err, report.ErrReportNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "no report for this date"})
		return
	case err != nil:
		h.logger.Error("failed to read report", "date", date, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read report"})
		return
	}

	c.JSON(http.StatusOK, DetailResponse{
		Summary: report.ExtractSummary(content),
		Content: content,
	})
}

// GenerateNews triggers a background generation run. A second trigger
// while a run is active gets 409 and changes nothing.
func (h *Handler) GenerateNews(c *gin.Context) {
	if err := h.generator.Trigger(h.runCtx); err != nil {
		if errors.Is(err, job.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("failed to start generation", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start generation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "news generation started"})
}

// GenerateStatus reports the current run snapshot.
func (h *Handler) GenerateStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.generator.Status())
}
