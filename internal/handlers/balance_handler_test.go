package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/models"
	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/services/balances"
	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/services/parser"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeQueries struct {
	latest    []balances.Balance
	byPeriod  []balances.Balance
	summaries []balances.AccountSummary
	err       error

	calls    int
	gotYear  int
	gotMonth int
}

func (f *fakeQueries) Latest(context.Context) ([]balances.Balance, error) {
	f.calls++
	return f.latest, f.err
}

func (f *fakeQueries) ByPeriod(_ context.Context, year, month int) ([]balances.Balance, error) {
	f.calls++
	f.gotYear, f.gotMonth = year, month
	return f.byPeriod, f.err
}

func (f *fakeQueries) Summary(context.Context) ([]balances.AccountSummary, error) {
	f.calls++
	return f.summaries, f.err
}

func (f *fakeQueries) SummaryByPeriod(_ context.Context, year, month int) ([]balances.AccountSummary, error) {
	f.calls++
	f.gotYear, f.gotMonth = year, month
	return f.summaries, f.err
}

type fakeUploader struct {
	result *parser.Result

	called   bool
	gotName  string
	gotSize  int64
	gotYear  int
	gotMonth int
	gotUser  uuid.UUID
}

func (f *fakeUploader) Execute(_ context.Context, _ io.Reader, fileName string, fileSize int64, year, month int, uploadedBy uuid.UUID) *parser.Result {
	f.called = true
	f.gotName = fileName
	f.gotSize = fileSize
	f.gotYear, f.gotMonth = year, month
	f.gotUser = uploadedBy
	return f.result
}

type fakeBatchLog struct {
	batches  []models.UploadBatch
	gotLimit int
}

func (f *fakeBatchLog) Recent(_ context.Context, limit int) ([]models.UploadBatch, error) {
	f.gotLimit = limit
	return f.batches, nil
}

func newHandlerTest(queries *fakeQueries, uploader *fakeUploader, batches *fakeBatchLog) (*BalanceHandler, *httptest.ResponseRecorder, *gin.Context) {
	h := NewBalanceHandler(queries, uploader, batches, zerolog.Nop())
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return h, w, c
}

func getRequest(c *gin.Context, target string) {
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
}

func TestGetLatestReturnsBalances(t *testing.T) {
	queries := &fakeQueries{latest: []balances.Balance{{
		Account: "Marketing",
		Year:    2025,
		Month:   7,
		Amount:  decimal.RequireFromString("1200.50"),
	}}}
	h, w, c := newHandlerTest(queries, nil, nil)
	getRequest(c, "/api/v1/balances")

	h.GetLatest(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Marketing"`)
	assert.Contains(t, w.Body.String(), `"1200.5"`)
}

func TestGetByPeriodRejectsYearBefore2000(t *testing.T) {
	queries := &fakeQueries{}
	h, w, c := newHandlerTest(queries, nil, nil)
	getRequest(c, "/api/v1/balances/by-period?year=1999&month=6")

	h.GetByPeriod(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid year")
	assert.Zero(t, queries.calls)
}

func TestGetByPeriodRejectsMonthOutOfRange(t *testing.T) {
	queries := &fakeQueries{}
	h, w, c := newHandlerTest(queries, nil, nil)
	getRequest(c, "/api/v1/balances/by-period?year=2025&month=13")

	h.GetByPeriod(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid month")
	assert.Zero(t, queries.calls)
}

func TestGetByPeriodAllowsNextYear(t *testing.T) {
	queries := &fakeQueries{}
	h, w, c := newHandlerTest(queries, nil, nil)
	getRequest(c, fmt.Sprintf("/api/v1/balances/by-period?year=%d&month=1", time.Now().Year()+1))

	h.GetByPeriod(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.Now().Year()+1, queries.gotYear)
	assert.Equal(t, 1, queries.gotMonth)
}

func TestGetSummaryByPeriodPassesPeriodThrough(t *testing.T) {
	queries := &fakeQueries{}
	h, w, c := newHandlerTest(queries, nil, nil)
	getRequest(c, "/api/v1/balances/summary/by-period?year=2024&month=12")

	h.GetSummaryByPeriod(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2024, queries.gotYear)
	assert.Equal(t, 12, queries.gotMonth)
}

func multipartUpload(t *testing.T, year, month string, withFile bool) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("year", year))
	require.NoError(t, mw.WriteField("month", month))
	if withFile {
		fw, err := mw.CreateFormFile("file", "balances.csv")
		require.NoError(t, err)
		_, err = fw.Write([]byte("R&D,1200.50\n"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func uploadRequest(c *gin.Context, body *bytes.Buffer, contentType string) {
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/balances/upload", body)
	c.Request.Header.Set("Content-Type", contentType)
}

func TestUploadRejectsYearBefore2000(t *testing.T) {
	uploader := &fakeUploader{}
	h, w, c := newHandlerTest(nil, uploader, nil)
	body, ct := multipartUpload(t, "1999", "6", true)
	uploadRequest(c, body, ct)

	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Year cannot be before 2000")
	assert.False(t, uploader.called)
}

func TestUploadRejectsFutureYear(t *testing.T) {
	uploader := &fakeUploader{}
	h, w, c := newHandlerTest(nil, uploader, nil)
	body, ct := multipartUpload(t, fmt.Sprint(time.Now().Year()+1), "1", true)
	uploadRequest(c, body, ct)

	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Cannot upload balance data for future years")
	assert.False(t, uploader.called)
}

func TestUploadRejectsFutureMonthInCurrentYear(t *testing.T) {
	now := time.Now()
	if now.Month() == time.December {
		t.Skip("no future month exists in December")
	}
	uploader := &fakeUploader{}
	h, w, c := newHandlerTest(nil, uploader, nil)
	body, ct := multipartUpload(t, fmt.Sprint(now.Year()), fmt.Sprint(int(now.Month())+1), true)
	uploadRequest(c, body, ct)

	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Cannot upload balance data for future months")
	assert.False(t, uploader.called)
}

func TestUploadRequiresFile(t *testing.T) {
	uploader := &fakeUploader{}
	h, w, c := newHandlerTest(nil, uploader, nil)
	body, ct := multipartUpload(t, "2024", "6", false)
	uploadRequest(c, body, ct)

	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "File is required")
	assert.False(t, uploader.called)
}

func TestUploadRequiresAuthenticatedCaller(t *testing.T) {
	uploader := &fakeUploader{}
	h, w, c := newHandlerTest(nil, uploader, nil)
	body, ct := multipartUpload(t, "2024", "6", true)
	uploadRequest(c, body, ct)

	h.Upload(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "User not authenticated")
	assert.False(t, uploader.called)
}

func TestUploadRunsPipelineForAuthenticatedCaller(t *testing.T) {
	userID := uuid.New()
	uploader := &fakeUploader{result: &parser.Result{
		Success:          true,
		Message:          "Successfully processed 1 records",
		ProcessedRecords: 1,
	}}
	h, w, c := newHandlerTest(nil, uploader, nil)
	body, ct := multipartUpload(t, "2024", "6", true)
	uploadRequest(c, body, ct)
	c.Set("userId", userID)

	h.Upload(c)

	assert.Equal(t, http.StatusOK, w.Code)
	require.True(t, uploader.called)
	assert.Equal(t, "balances.csv", uploader.gotName)
	assert.Equal(t, 2024, uploader.gotYear)
	assert.Equal(t, 6, uploader.gotMonth)
	assert.Equal(t, userID, uploader.gotUser)
	assert.Contains(t, w.Body.String(), "Successfully processed 1 records")
}

func TestUploadFailedResultIsBadRequest(t *testing.T) {
	uploader := &fakeUploader{result: &parser.Result{
		Success: false,
		Message: "No valid records found in the file",
	}}
	h, w, c := newHandlerTest(nil, uploader, nil)
	body, ct := multipartUpload(t, "2024", "6", true)
	uploadRequest(c, body, ct)
	c.Set("userId", uuid.New())

	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No valid records found in the file")
}

func TestListUploadsDefaultsAndClampsLimit(t *testing.T) {
	for _, tc := range []struct {
		query string
		want  int
	}{
		{"", 20},
		{"?limit=5", 5},
		{"?limit=0", 20},
		{"?limit=500", 20},
		{"?limit=abc", 20},
	} {
		batches := &fakeBatchLog{}
		h, w, c := newHandlerTest(nil, nil, batches)
		getRequest(c, "/api/v1/balances/uploads"+tc.query)

		h.ListUploads(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, tc.want, batches.gotLimit, "query %q", tc.query)
	}
}
