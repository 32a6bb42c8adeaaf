package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget-dashboard/internal/archive"
	"budget-dashboard/internal/categorizer"
	"budget-dashboard/internal/ingest"
	"budget-dashboard/internal/logging"
	"budget-dashboard/internal/models"
	"budget-dashboard/internal/ofxparser"
	"budget-dashboard/internal/store"
)

const sampleOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240131120000
<LANGUAGE>FRA
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>EUR
<BANKACCTFROM>
<BANKID>30002
<ACCTID>0001234567
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101
<DTEND>20240131
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240103
<TRNAMT>-50.00
<FITID>0001
<NAME>CARREFOUR PARIS 15
<MEMO>CB CARREFOUR PARIS 15
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240125
<TRNAMT>1800.00
<FITID>0002
<NAME>ACME SARL
<MEMO>VIREMENT SALAIRE ACME
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1200.50
<DTASOF>20240131
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>
`

func newTestServer(t *testing.T) (*Server, *gin.Engine) {
	t.Helper()
	logger := logging.NewNopLogger()
	engine := categorizer.New(categorizer.DefaultRules(), logger)
	parser := ofxparser.New(engine, logger, "EUR")
	codec := archive.NewCodec(logger, "EUR")
	st := store.New(codec, logger)
	svc := ingest.NewService(parser, codec, st, logger)
	srv := New(svc, st, t.TempDir(), logger)
	return srv, srv.Router()
}

func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("files", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func uploadBank(t *testing.T, router *gin.Engine) {
	t.Helper()
	body, contentType := multipartUpload(t, "january.ofx", []byte(sampleOFX))
	req := httptest.NewRequest(http.MethodPost, "/api/uploads/bank", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	_, router := newTestServer(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 0, body["transactions"])
}

func TestUploadBankStatement(t *testing.T) {
	_, router := newTestServer(t)

	body, contentType := multipartUpload(t, "january.ofx", []byte(sampleOFX))
	req := httptest.NewRequest(http.MethodPost, "/api/uploads/bank", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody(t, w)
	assert.EqualValues(t, 2, resp["transactions"])

	results := resp["results"].([]any)
	require.Len(t, results, 1)
	first := results[0].(map[string]any)
	assert.Equal(t, "january.ofx", first["filename"])
	assert.EqualValues(t, 2, first["count"])
}

func TestUploadAllFilesFailedReturns422(t *testing.T) {
	_, router := newTestServer(t)

	body, contentType := multipartUpload(t, "bad.ofx", []byte("garbage"))
	req := httptest.NewRequest(http.MethodPost, "/api/uploads/bank", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestUploadWithoutFilesReturns400(t *testing.T) {
	_, router := newTestServer(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/uploads/bank", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBalanceSeries(t *testing.T) {
	_, router := newTestServer(t)
	uploadBank(t, router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/balance", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	series := body["series"].([]any)
	// Dense daily series from Jan 3 to Jan 25.
	assert.Len(t, series, 23)
}

func TestBalanceSeriesWithAnchorAndRange(t *testing.T) {
	_, router := newTestServer(t)
	uploadBank(t, router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/balance?start=2024-01-01&end=2024-01-10&anchor=500", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	series := body["series"].([]any)
	require.Len(t, series, 1)
	point := series[0].(map[string]any)
	// Only the -50 debit is in range: start = 500 - (-50) = 550, then 500.
	assert.Equal(t, "500", point["balance"])
}

func TestBalanceInvalidParams(t *testing.T) {
	_, router := newTestServer(t)

	for _, url := range []string{
		"/api/balance?start=notadate",
		"/api/balance?end=2024-13-45",
		"/api/balance?anchor=abc",
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, url)
	}
}

func TestBalanceEmptyStore(t *testing.T) {
	_, router := newTestServer(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/balance", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Empty(t, body["series"])
	assert.Equal(t, "no transactions loaded", body["message"])
}

func TestSpending(t *testing.T) {
	_, router := newTestServer(t)
	uploadBank(t, router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/spending", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	categories := body["categories"].([]any)
	require.Len(t, categories, 1)
	top := categories[0].(map[string]any)
	assert.Equal(t, models.CategoryGroceries, top["category"])
	assert.Equal(t, "50", top["amount"])
}

func TestSpendingWithDateRange(t *testing.T) {
	_, router := newTestServer(t)
	uploadBank(t, router)

	// The only expense is the Jan 3 debit; a later range excludes it.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/spending?start=2024-01-10", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Empty(t, body["categories"])
}

func TestTransactionsWithDateRange(t *testing.T) {
	_, router := newTestServer(t)
	uploadBank(t, router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/transactions?start=2024-01-10&end=2024-01-31", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	transactions := body["transactions"].([]any)
	require.Len(t, transactions, 1)
	first := transactions[0].(map[string]any)
	assert.Equal(t, "VIREMENT SALAIRE ACME", first["description"])
}

func TestTransactionsAndCategoryEdit(t *testing.T) {
	_, router := newTestServer(t)
	uploadBank(t, router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/transactions", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	transactions := body["transactions"].([]any)
	require.Len(t, transactions, 2)
	id := transactions[0].(map[string]any)["id"].(string)
	require.NotEmpty(t, id)

	// Reassign the newest transaction (the salary credit) to Virements.
	payload := strings.NewReader(`{"category":"Virements"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/transactions/"+id+"/category", payload)
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/transactions", nil))
	body = decodeBody(t, w)
	first := body["transactions"].([]any)[0].(map[string]any)
	assert.Equal(t, models.CategoryTransfers, first["category"])
}

func TestCategoryEditRejectsUnknownValue(t *testing.T) {
	_, router := newTestServer(t)
	uploadBank(t, router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/transactions", nil))
	id := decodeBody(t, w)["transactions"].([]any)[0].(map[string]any)["id"].(string)

	payload := strings.NewReader(`{"category":"NotACategory"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/transactions/"+id+"/category", payload)
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["categories"])
}

func TestCategoryEditUnknownTransaction(t *testing.T) {
	_, router := newTestServer(t)
	uploadBank(t, router)

	payload := strings.NewReader(`{"category":"Courses"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/transactions/nope/category", payload)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExport(t *testing.T) {
	_, router := newTestServer(t)
	uploadBank(t, router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/export", nil))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Contains(t, body["path"], ".parquet")
}

func TestExportEmptyStore(t *testing.T) {
	_, router := newTestServer(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/export", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
}
