package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deal-desk/domain"
	"deal-desk/render"
	"deal-desk/repository"
	"deal-desk/service"
)

const dealBody = `{
	"deal": {
		"vehiclePrice": 30000,
		"mileage": 42000,
		"retailBookValue": 28000,
		"stateFees": 300,
		"registrationState": "TX",
		"salesTax": 1800,
		"downPayment": 2000,
		"tradeInValue": 5000,
		"tradeInPayoff": 3000,
		"backendProducts": 1500,
		"loanTerm": 72,
		"interestRate": 6.99
	},
	"customer": {"creditScore": 720}
}`

type testAPI struct {
	router   http.Handler
	settings *repository.SettingsRepositoryMemory
	lenders  *repository.LenderRepositoryMemory
}

func newTestAPI(t *testing.T, capacity int) testAPI {
	t.Helper()

	settings := repository.NewSettingsRepositoryMemory()
	require.NoError(t, settings.Put(domain.DealerSettings{
		DealerID: "dealer-1",
		DocFee:   decimal.NewFromInt(500),
		CVRFee:   decimal.NewFromInt(200),
	}))

	maxLTV := decimal.NewFromInt(120)
	lenders := repository.NewLenderRepositoryMemory()
	require.NoError(t, lenders.Put("dealer-1", []domain.LenderProfile{{
		ID:              "L1",
		Name:            "Prime Auto Credit",
		Active:          true,
		BookValueSource: domain.BookValueRetail,
		Tiers: []domain.RateTier{
			{Name: "B", MinFico: 700, MaxLTV: &maxLTV, MinRate: decimal.RequireFromString("5.9"), MaxRate: decimal.NewFromInt(8), MaxTerm: 72},
		},
	}}))

	dealService := service.NewDealService(settings, lenders, repository.NewSnapshotRepositoryMemory(), nil)
	limiter := NewRateLimiter(capacity, time.Minute)
	t.Cleanup(limiter.Stop)

	router := NewRouter(
		NewDealHandler(dealService, render.NewDealSheet(render.DefaultSheetOptions())),
		NewDealerHandler(settings, lenders),
		limiter,
	)
	return testAPI{router: router, settings: settings, lenders: lenders}
}

func (a testAPI) do(method, path, dealer, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if dealer != "" {
		req.Header.Set(DealerHeader, dealer)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestQuoteHandler_OK(t *testing.T) {
	api := newTestAPI(t, 100)

	w := api.do(http.MethodPost, "/deals/quote", "dealer-1", dealBody)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var quote domain.DealQuote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quote))
	assert.True(t, quote.Resolved.MonthlyPayment.Equal(decimal.RequireFromString("516.44")))
	require.Len(t, quote.Eligibility, 1)
	assert.True(t, quote.Eligibility[0].Eligible)
}

func TestQuoteHandler_MethodNotAllowed(t *testing.T) {
	api := newTestAPI(t, 100)

	w := api.do(http.MethodDelete, "/deals/quote", "dealer-1", "")

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestQuoteHandler_BadRequests(t *testing.T) {
	api := newTestAPI(t, 100)

	tests := []struct {
		name   string
		dealer string
		body   string
		want   int
	}{
		{"invalid json", "dealer-1", `{invalid-json}`, http.StatusBadRequest},
		{"missing dealer", "", dealBody, http.StatusBadRequest},
		{"negative amount", "dealer-1", strings.Replace(dealBody, `"downPayment": 2000`, `"downPayment": -2000`, 1), http.StatusBadRequest},
		{"zero term", "dealer-1", strings.Replace(dealBody, `"loanTerm": 72`, `"loanTerm": 0`, 1), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(http.MethodPost, "/deals/quote", tt.dealer, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestQuoteHandler_RequiresJSON(t *testing.T) {
	api := newTestAPI(t, 100)

	req := httptest.NewRequest(http.MethodPost, "/deals/quote", bytes.NewBufferString(dealBody))
	req.Header.Set(DealerHeader, "dealer-1")
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestPaymentGridHandler(t *testing.T) {
	api := newTestAPI(t, 100)

	body := strings.Replace(dealBody, `"customer": {"creditScore": 720}`, `"customer": {"maxPayment": 600}, "terms": [36, 60, 72]`, 1)
	w := api.do(http.MethodPost, "/deals/payment-grid", "dealer-1", body)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var grid domain.PaymentGrid
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &grid))
	assert.Len(t, grid.Options, 3)
	assert.Equal(t, 60, grid.RecommendedTerm)
}

func TestDealLifecycle(t *testing.T) {
	api := newTestAPI(t, 100)

	w := api.do(http.MethodPost, "/deals", "dealer-1", dealBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var saved domain.DealSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	require.NotEmpty(t, saved.ID)
	assert.Equal(t, "/deals/"+saved.ID, w.Header().Get("Location"))

	w = api.do(http.MethodGet, "/deals/"+saved.ID, "", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodGet, "/deals", "dealer-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var history []domain.DealSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	assert.Len(t, history, 1)

	w = api.do(http.MethodGet, "/deals/"+saved.ID+"/recalculate", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var report domain.DriftReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.False(t, report.Drifted)

	w = api.do(http.MethodGet, "/deals/"+saved.ID+"/sheet.pdf", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
}

func TestDealHandler_NotFound(t *testing.T) {
	api := newTestAPI(t, 100)

	for _, path := range []string{"/deals/missing", "/deals/missing/recalculate", "/deals/missing/sheet.pdf"} {
		w := api.do(http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestHistoryHandler_MissingDealer(t *testing.T) {
	api := newTestAPI(t, 100)

	w := api.do(http.MethodGet, "/deals", "", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_RateLimited(t *testing.T) {
	api := newTestAPI(t, 2)

	for i := 0; i < 2; i++ {
		w := api.do(http.MethodPost, "/deals/quote", "dealer-1", dealBody)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := api.do(http.MethodPost, "/deals/quote", "dealer-1", dealBody)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = api.do(http.MethodPost, "/deals/quote", "dealer-2", dealBody)
	assert.Equal(t, http.StatusOK, w.Code, "buckets are per dealer")
}
