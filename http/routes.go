package http

import "net/http"

// NewRouter registers every route behind the rate limiter.
func NewRouter(deals *DealHandler, dealers *DealerHandler, limiter *RateLimiter) *http.ServeMux {
	mux := http.NewServeMux()

	routes := map[string]http.HandlerFunc{
		"POST /deals/quote":              deals.Quote,
		"POST /deals/payment-grid":       deals.PaymentGrid,
		"POST /deals":                    deals.Save,
		"GET /deals":                     deals.History,
		"GET /deals/{id}":                deals.Get,
		"GET /deals/{id}/recalculate":    deals.Recalculate,
		"GET /deals/{id}/sheet.pdf":      deals.Sheet,
		"GET /dealers/{dealer}/settings": dealers.GetSettings,
		"PUT /dealers/{dealer}/settings": dealers.PutSettings,
		"GET /dealers/{dealer}/lenders":  dealers.GetLenders,
		"PUT /dealers/{dealer}/lenders":  dealers.PutLenders,
	}
	for pattern, handler := range routes {
		mux.Handle(pattern, RateLimitMiddleware(limiter, handler))
	}

	return mux
}
