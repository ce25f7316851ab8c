package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/middleware"
	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/models"
	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/services/balances"
	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/services/parser"
)

// BalanceQueries is the read side consumed by this handler.
type BalanceQueries interface {
	Latest(ctx context.Context) ([]balances.Balance, error)
	ByPeriod(ctx context.Context, year, month int) ([]balances.Balance, error)
	Summary(ctx context.Context) ([]balances.AccountSummary, error)
	SummaryByPeriod(ctx context.Context, year, month int) ([]balances.AccountSummary, error)
}

// BalanceUploader runs the upload reconciliation pipeline.
type BalanceUploader interface {
	Execute(ctx context.Context, file io.Reader, fileName string, fileSize int64, year, month int, uploadedBy uuid.UUID) *parser.Result
}

// BatchLog lists past upload batches.
type BatchLog interface {
	Recent(ctx context.Context, limit int) ([]models.UploadBatch, error)
}

type BalanceHandler struct {
	queries  BalanceQueries
	uploader BalanceUploader
	batches  BatchLog
	log      zerolog.Logger
}

func NewBalanceHandler(queries BalanceQueries, uploader BalanceUploader, batches BatchLog, log zerolog.Logger) *BalanceHandler {
	return &BalanceHandler{
		queries:  queries,
		uploader: uploader,
		batches:  batches,
		log:      log,
	}
}

func (h *BalanceHandler) GetLatest(c *gin.Context) {
	result, err := h.queries.Latest(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *BalanceHandler) GetByPeriod(c *gin.Context) {
	year, month, ok := h.periodQuery(c)
	if !ok {
		return
	}

	result, err := h.queries.ByPeriod(c.Request.Context(), year, month)
	if err != nil {
		middleware.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *BalanceHandler) GetSummary(c *gin.Context) {
	result, err := h.queries.Summary(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *BalanceHandler) GetSummaryByPeriod(c *gin.Context) {
	year, month, ok := h.periodQuery(c)
	if !ok {
		return
	}

	result, err := h.queries.SummaryByPeriod(c.Request.Context(), year, month)
	if err != nil {
		middleware.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// periodQuery validates the read-side period range: any year from 2000 up to
// next year is queryable, unlike uploads which reject future periods.
func (h *BalanceHandler) periodQuery(c *gin.Context) (year, month int, ok bool) {
	year, _ = strconv.Atoi(c.Query("year"))
	month, _ = strconv.Atoi(c.Query("month"))

	if year < 2000 || year > time.Now().Year()+1 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid year"})
		return 0, 0, false
	}
	if month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid month"})
		return 0, 0, false
	}
	return year, month, true
}

func (h *BalanceHandler) Upload(c *gin.Context) {
	now := time.Now()
	year, _ := strconv.Atoi(c.PostForm("year"))
	month, _ := strconv.Atoi(c.PostForm("month"))

	if year < 2000 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Year cannot be before 2000"})
		return
	}
	if year > now.Year() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot upload balance data for future years"})
		return
	}
	if year == now.Year() && month > int(now.Month()) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot upload balance data for future months"})
		return
	}
	if month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid month"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "File is required"})
		return
	}
	defer file.Close()

	userID := middleware.CallerID(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	result := h.uploader.Execute(c.Request.Context(), file, header.Filename, header.Size, year, month, userID)
	if !result.Success {
		c.JSON(http.StatusBadRequest, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *BalanceHandler) ListUploads(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	result, err := h.batches.Recent(c.Request.Context(), limit)
	if err != nil {
		middleware.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
